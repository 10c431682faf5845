package ics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"calbot/internal/domain/entities"
	"calbot/internal/ports/output"
)

const maxBodyBytes = 10 << 20

var _ output.CalendarSource = (*Fetcher)(nil)

// Fetcher downloads ICS feeds over HTTP and parses them.
type Fetcher struct {
	client  *http.Client
	horizon time.Duration
	maxBody int64
	now     func() time.Time
}

// NewFetcher builds a Fetcher expanding recurring events up to horizonDays
// ahead.
func NewFetcher(horizonDays int) *Fetcher {
	if horizonDays <= 0 {
		horizonDays = 90
	}
	return &Fetcher{
		client:  &http.Client{Timeout: 15 * time.Second},
		horizon: time.Duration(horizonDays) * 24 * time.Hour,
		maxBody: maxBodyBytes,
		now:     time.Now,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]entities.EventInput, error) {
	u, err := normalizeURL(rawURL)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/calendar, */*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ics: fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ics: fetch: %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("ics: read body: %w", err)
	}
	if int64(len(body)) > f.maxBody {
		return nil, fmt.Errorf("ics: feed larger than %d bytes", f.maxBody)
	}

	now := f.now()
	return Parse(body, Window{Start: now, End: now.Add(f.horizon)})
}

// normalizeURL accepts http(s) and webcal URLs; webcal is fetched over https.
func normalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("ics: invalid url: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	case "webcal":
		u.Scheme = "https"
	default:
		return "", fmt.Errorf("ics: unsupported url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("ics: url without host %q", raw)
	}
	return u.String(), nil
}
