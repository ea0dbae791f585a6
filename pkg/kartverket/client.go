package kartverket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/spencer-p/tidesensor/pkg/timetricks"
)

const (
	BaseURL = "https://api.sehavniva.no/tideapi.php"

	fetchTimeout   = 15 * time.Second
	fromTimeFormat = "2006-01-02T15:04"
)

// Client polls the tide API for one location. Update may be called from a
// scheduler while other goroutines read Snapshot.
type Client struct {
	httpClient *http.Client
	owned      bool
	baseURL    string
	now        func() time.Time
	onFetch    func(Datatype, error)

	lat, lon float64

	updateMu sync.Mutex // serializes Update

	mu       sync.RWMutex // guards everything below
	interval Interval
	lang     Language
	snap     Snapshot
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient makes the Client use hc instead of creating its own. The
// caller keeps ownership of hc; Close will not touch it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL points the Client at another endpoint (useful for testing).
func WithBaseURL(addr string) Option {
	return func(c *Client) {
		c.baseURL = addr
	}
}

// WithClock replaces the wall clock used for the fromtime parameter.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// WithFetchHook registers a function called after every fetch with its
// outcome.
func WithFetchHook(hook func(Datatype, error)) Option {
	return func(c *Client) {
		c.onFetch = hook
	}
}

// New creates a Client for the given coordinates. The interval and language
// must be from the sets the API supports, otherwise a *ValidationError is
// returned.
func New(lat, lon float64, interval int, lang string, opts ...Option) (*Client, error) {
	iv, err := ParseInterval(interval)
	if err != nil {
		return nil, err
	}
	lg, err := ParseLanguage(lang)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:  BaseURL,
		now:      time.Now,
		lat:      lat,
		lon:      lon,
		interval: iv,
		lang:     lg,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			Timeout:   fetchTimeout,
		}
		c.owned = true
	}
	return c, nil
}

// SetInterval changes the sampling interval used by following updates.
func (c *Client) SetInterval(interval int) error {
	iv, err := ParseInterval(interval)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.interval = iv
	c.mu.Unlock()
	return nil
}

// SetLanguage changes the response language used by following updates.
func (c *Client) SetLanguage(lang string) error {
	lg, err := ParseLanguage(lang)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.lang = lg
	c.mu.Unlock()
	return nil
}

// Close releases idle connections if the Client created its own HTTP client.
func (c *Client) Close() error {
	if c.owned {
		c.httpClient.CloseIdleConnections()
	}
	return nil
}

// Owned reports whether the Client created the HTTP client it uses.
func (c *Client) Owned() bool {
	return c.owned
}

// Snapshot returns the documents stored by the latest Update.
func (c *Client) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

func (c *Client) NextExtreme() (Extreme, error) {
	return c.Snapshot().NextExtreme()
}

func (c *Client) CurrentWaterLevel() (float64, error) {
	return c.Snapshot().CurrentWaterLevel()
}

func (c *Client) WaterLevelSeries() (WaterLevelSeries, error) {
	return c.Snapshot().WaterLevelSeries()
}

func (c *Client) IsIncreasing() (bool, error) {
	return c.Snapshot().IsIncreasing()
}

// Update fetches the water level series and the extremes and replaces the
// stored documents with the results. A fetch that fails on the network or
// with a bad status is logged and leaves its document absent, without
// failing Update. A response that cannot be parsed is returned as an error,
// and its document is also left absent.
func (c *Client) Update(ctx context.Context) error {
	c.updateMu.Lock()
	defer c.updateMu.Unlock()

	series, serr := c.fetchSoft(ctx, DatatypeAll)
	extremes, eerr := c.fetchSoft(ctx, DatatypeTab)

	c.mu.Lock()
	c.snap = NewSnapshot(series, extremes, c.now())
	c.mu.Unlock()

	return errors.Join(serr, eerr)
}

// fetchSoft absorbs transport and status failures.
func (c *Client) fetchSoft(ctx context.Context, dt Datatype) (*Document, error) {
	doc, err := c.Fetch(ctx, dt)
	if err == nil {
		return doc, nil
	}

	var apiErr *APIError
	var netErr *NetworkError
	if errors.As(err, &apiErr) || errors.As(err, &netErr) {
		log.Printf("Error retrieving tide data: %v", err)
		return nil, nil
	}
	return nil, err
}

// Fetch requests and parses a single document. It panics if dt is not one of
// DatatypeAll or DatatypeTab.
func (c *Client) Fetch(ctx context.Context, dt Datatype) (doc *Document, err error) {
	if !dt.Valid() {
		panic(fmt.Sprintf("kartverket: invalid datatype %q, must be one of %s, %s", dt, DatatypeAll, DatatypeTab))
	}
	if c.onFetch != nil {
		defer func() { c.onFetch(dt, err) }()
	}

	addr, err := c.url(dt)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Operation: "fetch " + dt.String(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &APIError{Datatype: dt, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Operation: "read " + dt.String(), Err: err}
	}

	return ParseBytes(body)
}

func (c *Client) url(dt Datatype) (string, error) {
	addr, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	addr.RawQuery = c.query(dt).Encode()
	return addr.String(), nil
}

func (c *Client) query(dt Datatype) url.Values {
	c.mu.RLock()
	interval, lang := c.interval, c.lang
	c.mu.RUnlock()

	vals := make(url.Values)
	vals.Add("lat", formatFloat(c.lat))
	vals.Add("lon", formatFloat(c.lon))
	vals.Add("lang", string(lang))
	vals.Add("interval", strconv.Itoa(int(interval)))
	vals.Add("datatype", dt.String())
	vals.Add("fromtime", timetricks.HourCursor(c.now()).Format(fromTimeFormat))
	vals.Add("tzone", "0")
	vals.Add("dst", "0")
	vals.Add("tide_request", "locationdata")
	return vals
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
