package domain

// importantKinds is the publish-worthy subset, in display order.
var importantKinds = [...]ZmanKind{
	FastStarts,
	FastEnds,
	BedikatChametz,
	LastEatingChametzTime,
	BurnChametzTime,
	CandleLighting,
	SecondDayCandleLighting,
	ThirdDayCandleLighting,
	ShabbatEndTime,
}

// IsImportant reports whether kind is shown to end users.
func IsImportant(kind ZmanKind) bool {
	for _, k := range importantKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// ImportantZmanim returns the day's publish-worthy zmanim in display order.
func ImportantZmanim(d *DayRecord) []Zman {
	out := make([]Zman, 0, len(importantKinds))
	for _, k := range importantKinds {
		if z, ok := d.zmanim[k]; ok {
			out = append(out, z)
		}
	}
	return out
}

// ImportantKinds lists the publish-worthy kinds in display order.
func ImportantKinds() []ZmanKind {
	kinds := importantKinds
	return kinds[:]
}
