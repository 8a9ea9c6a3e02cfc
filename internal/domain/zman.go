package domain

import (
	"fmt"
	"time"
)

// ZmanKind identifies one canonical liturgical time of day. The set is closed:
// every kind the upstream service can emit, plus the two chain markers the
// resolver synthesizes, has a constant below.
type ZmanKind int

const (
	AlosHashachar ZmanKind = iota + 1
	EarliestTefillin
	NetzHachamah
	LatestShema
	LatestTefillah
	Chatzos
	MinchahGedolah
	MinchahKetanah
	PlagHaminchah
	Shkiah
	CandleLighting
	ShabbatEndTime
	ChatzosNight
	ShaahZmanit
	Tzeis
	FastEnds
	FastStarts
	LastEatingChametzTime
	BurnChametzTime
	BedikatChametz
	SecondDayCandleLighting
	ThirdDayCandleLighting
)

// FootnoteLightCandlesAfter is the upstream footnote attached to an end-of-rest
// time when the next day is itself a rest day, e.g. the first day of a
// two-day festival. Its presence marks a chained rest eve.
const FootnoteLightCandlesAfter = "LightCandlesAfter"

type kindInfo struct {
	name     string
	engTitle string
	hebTitle string
}

// catalogue is indexed by ZmanKind. Entries are copied into each new Zman and
// never handed out by reference.
var catalogue = [...]kindInfo{
	AlosHashachar:           {"AlosHashachar", "Alos Hashachar", "עלות השחר"},
	EarliestTefillin:        {"EarliestTefillin", "Earliest Tefillin", "משיכיר"},
	NetzHachamah:            {"NetzHachamah", "Netz Hachamah", "נץ החמה"},
	LatestShema:             {"LatestShema", "Latest Shema", "סוף זמן קריאת שמע"},
	LatestTefillah:          {"LatestTefillah", "Latest Tefillah", "סוף זמן תפילה"},
	Chatzos:                 {"Chatzos", "Chatzos", "חצות (היום)"},
	MinchahGedolah:          {"MinchahGedolah", "Minchah Gedolah", "מנחה גדולה"},
	MinchahKetanah:          {"MinchahKetanah", "Minchah Ketanah", "מנחה קטנה"},
	PlagHaminchah:           {"PlagHaminchah", "Plag Haminchah", "פלג המנחה"},
	Shkiah:                  {"Shkiah", "Shkiah", "שקיעה"},
	CandleLighting:          {"CandleLighting", "Candle Lighting", "הדלקת נרות"},
	ShabbatEndTime:          {"ShabbatEndTime", "Shabbat End Time", "צאת שבת"},
	ChatzosNight:            {"ChatzosNight", "Chatzos Night", "חצות (הלילה)"},
	ShaahZmanit:             {"ShaahZmanit", "Shaah Zmanit", "שעה זמנית"},
	Tzeis:                   {"Tzeis", "Tzeis", "צאת הכוכבים"},
	FastEnds:                {"FastEnds", "Fast Ends", "צאת הצום"},
	FastStarts:              {"FastStarts", "Fast Starts", "התחלת הצום"},
	LastEatingChametzTime:   {"LastEatingChametzTime", "Last Eating Chametz Time", "סוף זמן אכילת חמץ"},
	BurnChametzTime:         {"BurnChametzTime", "Burn Chametz Time", "ביעור חמץ"},
	BedikatChametz:          {"BedikatChametz", "Bedikat Chametz", "בדיקת חמץ"},
	SecondDayCandleLighting: {"SecondDayCandleLighting", "Second Day Candle Lighting", "הדלקת נרות יום שני"},
	ThirdDayCandleLighting:  {"ThirdDayCandleLighting", "Third Day Candle Lighting", "הדלקת נרות יום שלישי"},
}

var kindsByName = func() map[string]ZmanKind {
	m := make(map[string]ZmanKind, len(catalogue))
	for _, k := range AllZmanKinds() {
		m[catalogue[k].name] = k
	}
	return m
}()

// AllZmanKinds returns every kind in catalogue order.
func AllZmanKinds() []ZmanKind {
	kinds := make([]ZmanKind, 0, len(catalogue)-1)
	for k := AlosHashachar; k <= ThirdDayCandleLighting; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Valid reports whether k is one of the declared kinds.
func (k ZmanKind) Valid() bool {
	return k >= AlosHashachar && k <= ThirdDayCandleLighting
}

// String returns the upstream identifier, e.g. "CandleLighting".
func (k ZmanKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("ZmanKind(%d)", int(k))
	}
	return catalogue[k].name
}

// EngTitle returns the English display title.
func (k ZmanKind) EngTitle() string {
	if !k.Valid() {
		return ""
	}
	return catalogue[k].engTitle
}

// HebTitle returns the Hebrew display title.
func (k ZmanKind) HebTitle() string {
	if !k.Valid() {
		return ""
	}
	return catalogue[k].hebTitle
}

// MarshalText encodes k as its upstream identifier.
func (k ZmanKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("marshal zman kind: invalid value %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes an upstream identifier such as "ShabbatEndTime".
func (k *ZmanKind) UnmarshalText(text []byte) error {
	parsed, err := ParseZmanKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseZmanKind maps an upstream ZmanType identifier to its kind.
func ParseZmanKind(name string) (ZmanKind, error) {
	k, ok := kindsByName[name]
	if !ok {
		return 0, fmt.Errorf("unknown zman type %q", name)
	}
	return k, nil
}

// Zman is a single named time of day on one calendar day. It is a plain value:
// records store and return copies, so one day's zman can never alias another's.
type Zman struct {
	Kind         ZmanKind `json:"name"`
	EngTitle     string   `json:"eng_title"`
	HebTitle     string   `json:"heb_title"`
	Time         string   `json:"time,omitempty"`
	RawTitle     string   `json:"raw_title,omitempty"`
	FootnoteType string   `json:"footnote_type,omitempty"`
}

// NewZman builds a zman of the given kind with titles from the catalogue.
func NewZman(kind ZmanKind, clockTime string) Zman {
	return Zman{
		Kind:     kind,
		EngTitle: kind.EngTitle(),
		HebTitle: kind.HebTitle(),
		Time:     clockTime,
	}
}

// Retimed returns a copy of z stamped as kind with the given time. Footnote and
// raw title are dropped because they describe the source event, not the copy.
func (z Zman) Retimed(kind ZmanKind) Zman {
	return NewZman(kind, z.Time)
}

// At combines the zman's "HH:MM" clock time with date in tz.
func (z Zman) At(date time.Time, tz *time.Location) (time.Time, error) {
	clockTime, err := time.Parse("15:04", z.Time)
	if err != nil {
		return time.Time{}, fmt.Errorf("zman %s: invalid time %q", z.Kind, z.Time)
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, clockTime.Hour(), clockTime.Minute(), 0, 0, tz), nil
}
