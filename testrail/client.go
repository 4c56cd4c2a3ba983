// Package testrail is a minimal read-only client for TestRail REST API v2.
package testrail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"trexport/config"
	"trexport/misc"
)

const (
	apiPrefix     = "index.php?/api/v2/"
	sessionCookie = "tr_session"
	// maxBodySize limits any single response, attachments included.
	maxBodySize = 256 << 20
	// maxPages stops runaway pagination when server keeps returning the same link.
	maxPages = 10_000
)

// Client talks to a single TestRail instance. It is safe for concurrent use.
type Client struct {
	base     string
	http     *http.Client
	limiter  *rate.Limiter
	username string
	apiKey   string
	log      *zap.Logger
}

// NewClient creates client from configuration. Session token, when present,
// is sent as tr_session cookie, username and API key as basic auth.
func NewClient(cfg *config.TestRailConfig, log *zap.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("bad testrail url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("bad testrail url %q: unsupported scheme", cfg.URL)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("unable to create cookie jar: %w", err)
	}
	if len(cfg.SessionToken) > 0 {
		jar.SetCookies(base, []*http.Cookie{{Name: sessionCookie, Value: cfg.SessionToken.Value(), Path: "/"}})
	}

	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}

	c := &Client{
		base:     base.String(),
		http:     &http.Client{Timeout: cfg.Timeout, Jar: jar},
		limiter:  rate.NewLimiter(limit, 1),
		username: cfg.Username,
		apiKey:   cfg.APIKey.Value(),
		log:      log.Named("testrail"),
	}
	if !cfg.Authenticated() {
		c.log.Warn("No TestRail credentials configured, requests are likely to be rejected")
	}
	return c, nil
}

// URL returns absolute address for path relative to TestRail base.
func (c *Client) URL(path string) string {
	return c.base + "/" + strings.TrimLeft(path, "/")
}

// GetRun fetches run metadata.
func (c *Client) GetRun(ctx context.Context, runID int64) (*Run, error) {
	var run Run
	if err := c.getJSON(ctx, apiPrefix+"get_run/"+strconv.FormatInt(runID, 10), &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// GetTests fetches all tests of the run following pagination links. Older
// TestRail versions return bare array without pagination.
func (c *Client) GetTests(ctx context.Context, runID int64) ([]Test, error) {
	tests, err := getPaged[Test](ctx, c, apiPrefix+"get_tests/"+strconv.FormatInt(runID, 10), "tests")
	if err != nil {
		return nil, fmt.Errorf("tests of run %d: %w", runID, err)
	}
	return tests, nil
}

// GetResults fetches all results of a single test, pages are followed the
// same way as for tests.
func (c *Client) GetResults(ctx context.Context, testID int64) ([]Result, error) {
	results, err := getPaged[Result](ctx, c, apiPrefix+"get_results/"+strconv.FormatInt(testID, 10), "results")
	if err != nil {
		return nil, fmt.Errorf("results of test %d: %w", testID, err)
	}
	return results, nil
}

// getPaged collects items of bulk endpoint. Paginated responses are objects
// keeping items under key and the next page address under "_links.next",
// older TestRail versions answer with bare array.
func getPaged[T any](ctx context.Context, c *Client, path, key string) ([]T, error) {
	var items []T
	for range maxPages {
		var raw json.RawMessage
		if err := c.getJSON(ctx, path, &raw); err != nil {
			return nil, err
		}
		if isArray(raw) {
			var page []T
			if err := json.Unmarshal(raw, &page); err != nil {
				return nil, fmt.Errorf("unable to decode %s: %w", key, err)
			}
			return append(items, page...), nil
		}

		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("unable to decode %s: %w", key, err)
		}
		var page []T
		if data, ok := obj[key]; ok {
			if err := json.Unmarshal(data, &page); err != nil {
				return nil, fmt.Errorf("unable to decode %s: %w", key, err)
			}
		}
		items = append(items, page...)

		var links struct {
			Next *string `json:"next"`
		}
		if data, ok := obj["_links"]; ok {
			if err := json.Unmarshal(data, &links); err != nil {
				return nil, fmt.Errorf("unable to decode %s links: %w", key, err)
			}
		}
		if links.Next == nil || *links.Next == "" {
			return items, nil
		}
		path = nextPath(*links.Next)
		c.log.Debug("Following pagination", zap.String("next", path), zap.Int(key, len(items)))
	}
	return nil, fmt.Errorf("too many pages of %s", key)
}

// Download fetches binary resource, path is relative to TestRail base.
// Returned content type is media type without parameters and may be empty.
func (c *Client) Download(ctx context.Context, path string) ([]byte, string, error) {
	resp, err := c.do(ctx, path, "")
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return nil, "", &FetchError{URL: resp.Request.URL.String(), Err: err}
	}
	ct := resp.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		ct = mt
	}
	return data, ct, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, path, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return &FetchError{URL: resp.Request.URL.String(), Err: err}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &FetchError{URL: resp.Request.URL.String(), Err: fmt.Errorf("bad json response: %w", err)}
	}
	return nil
}

// do performs rate limited GET. Unsuccessful statuses are returned as
// FetchError with response body closed.
func (c *Client) do(ctx context.Context, path, contentType string) (*http.Response, error) {
	u := c.URL(path)
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{URL: u, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FetchError{URL: u, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("User-Agent", misc.GetUserAgent())
	if c.username != "" && c.apiKey != "" {
		req.SetBasicAuth(c.username, c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{URL: u, Err: err}
	}
	c.log.Debug("Request", zap.String("url", u), zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		fe := &FetchError{URL: u, Status: resp.StatusCode}
		if msg := apiErrorMessage(resp); msg != "" {
			fe.Err = fmt.Errorf("http status %d: %s", resp.StatusCode, msg)
		}
		return nil, fe
	}
	return resp, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxBodySize {
		return nil, errors.New("response body is too large")
	}
	return data, nil
}

// apiErrorMessage extracts TestRail {"error": "..."} payload if any.
func apiErrorMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return ""
	}
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &e) == nil && e.Error != "" {
		return e.Error
	}
	return ""
}

// nextPath converts "_links.next" value (API path like
// "/api/v2/get_tests/1&offset=250") into path relative to base.
func nextPath(next string) string {
	if strings.HasPrefix(next, "index.php?") {
		return next
	}
	return "index.php?/" + strings.TrimLeft(next, "/")
}

func isArray(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}
