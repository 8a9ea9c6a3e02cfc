package chabad

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/zmanim-etl/internal/domain"
	"github.com/couchcryptid/zmanim-etl/internal/observability"
)

// Client implements domain.WindowSource against the Chabad.org zmanim web
// service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	language   string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a client. language is "he" or "en"; Hebrew responses are
// served from the he. subdomain.
func NewClient(baseURL, language string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		language:   language,
		metrics:    metrics,
		logger:     logger,
	}
}

// FetchWindow requests the days in req. An empty day list is not an error here;
// the resolver rejects it.
func (c *Client) FetchWindow(ctx context.Context, req domain.WindowRequest) (domain.UpstreamResponse, error) {
	if err := req.Validate(); err != nil {
		return domain.UpstreamResponse{}, err
	}
	u, err := c.requestURL(req)
	if err != nil {
		return domain.UpstreamResponse{}, err
	}

	start := time.Now()
	resp, err := c.doRequest(ctx, u)
	c.metrics.UpstreamDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.UpstreamRequests.WithLabelValues("error").Inc()
		return domain.UpstreamResponse{}, err
	case len(resp.Days) == 0:
		c.metrics.UpstreamRequests.WithLabelValues("empty").Inc()
		c.logger.Warn("zmanim service returned no days",
			"location", req.Location.Key(),
			"start", req.Start.Format(time.DateOnly),
		)
	default:
		c.metrics.UpstreamRequests.WithLabelValues("success").Inc()
	}
	return resp, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.UpstreamResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.UpstreamResponse{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return domain.UpstreamResponse{}, fmt.Errorf("zmanim request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.UpstreamResponse{}, fmt.Errorf("zmanim service error: status %d: %s", resp.StatusCode, body)
	}

	var out domain.UpstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.UpstreamResponse{}, fmt.Errorf("decode zmanim response: %w", err)
	}
	return out, nil
}

func (c *Client) requestURL(req domain.WindowRequest) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	u.Host = languageHost(u.Host, c.language)
	u.RawQuery = requestParams(req).Encode()
	return u.String(), nil
}

func requestParams(req domain.WindowRequest) url.Values {
	start := req.Start.Format(domain.UpstreamDateLayout)
	params := url.Values{
		"locationtype": {strconv.Itoa(int(req.Location.Type()))},
		"tdate":        {start},
		"startdate":    {start},
		"enddate":      {req.End.Format(domain.UpstreamDateLayout)},
	}

	switch req.Location.Type() {
	case domain.LocationCity:
		params.Set("locationid", strconv.Itoa(req.Location.City.LocationID))
	case domain.LocationCoordinates:
		co := req.Location.Coordinates
		params.Set("coords", strconv.FormatFloat(co.Lat, 'f', -1, 64)+","+strconv.FormatFloat(co.Lon, 'f', -1, 64))
		params.Set("n", co.CustomName)
		params.Set("tzname", encodeTimeZone(co.TimeZone))
	}
	return params
}

// encodeTimeZone rewrites an IANA name the way the service expects:
// "America/New_York" becomes "America*New_York", "Etc/GMT+5" "Etc*GMT~5".
func encodeTimeZone(tz string) string {
	return strings.NewReplacer("/", "*", "+", "~").Replace(tz)
}

// languageHost maps www.chabad.org to www.he.chabad.org for non-English
// languages. Other hosts are returned unchanged.
func languageHost(host, language string) string {
	if language == "" || language == "en" {
		return host
	}
	if rest, ok := strings.CutPrefix(host, "www."); ok && !strings.HasPrefix(rest, language+".") {
		return "www." + language + "." + rest
	}
	return host
}
