package bing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bingwall/internal/fileutil"
)

// DefaultBaseURL is the production Bing host.
const DefaultBaseURL = "https://www.bing.com"

const archiveEndpoint = "/HPImageArchive.aspx"

// Image is the processed image-of-the-day metadata used throughout the
// application. URL is absolute and Date keeps the archive's YYYYMMDD form.
type Image struct {
	URL       string `json:"url"`
	Copyright string `json:"copyright"`
	Title     string `json:"title"`
	Date      string `json:"date"`
}

type archiveResponse struct {
	Images []archiveImage `json:"images"`
}

type archiveImage struct {
	URL       string `json:"url"`
	Copyright string `json:"copyright"`
	Title     string `json:"title"`
	StartDate string `json:"startdate"`
}

// Client fetches image metadata and image bytes from the Bing archive.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL points the client at an alternate archive host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
			c.baseURL = strings.TrimRight(trimmed, "/")
		}
	}
}

// New creates a Bing archive client.
func New(opts ...Option) *Client {
	client := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// FetchImage queries the archive for today's image in the given market.
func (c *Client) FetchImage(ctx context.Context, market string) (*Image, error) {
	market = strings.TrimSpace(market)
	if market == "" {
		return nil, errors.New("market must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + archiveEndpoint)
	if err != nil {
		return nil, fmt.Errorf("parse archive url: %w", err)
	}
	params := url.Values{}
	params.Set("format", "js")
	params.Set("idx", "0")
	params.Set("n", "1")
	params.Set("mkt", market)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bing archive returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload archiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode archive response: %w", err)
	}
	if len(payload.Images) == 0 {
		return nil, errors.New("bing archive returned no images")
	}
	raw := payload.Images[0]
	return &Image{
		URL:       c.baseURL + raw.URL,
		Copyright: raw.Copyright,
		Title:     raw.Title,
		Date:      raw.StartDate,
	}, nil
}

// Download saves the image into dir under its canonical filename. When the
// file already exists the network is not touched and the existing path is
// returned with downloaded false.
func (c *Client) Download(ctx context.Context, img *Image, dir, market string) (string, bool, error) {
	if img == nil {
		return "", false, errors.New("image metadata required")
	}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return "", false, errors.New("wallpaper directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, fmt.Errorf("create wallpaper directory: %w", err)
	}

	path := filepath.Join(dir, Filename(market, img.Date))
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, img.URL, nil)
	if err != nil {
		return "", false, fmt.Errorf("build request: %w", err)
	}
	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return "", false, fmt.Errorf("download image (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("image download returned %d (latency=%v)", resp.StatusCode, latency)
	}

	if _, err := fileutil.WriteReaderAtomic(path, resp.Body, 0o644); err != nil {
		return "", false, fmt.Errorf("save image: %w", err)
	}
	return path, true, nil
}

// Filename returns the canonical wallpaper filename for a market and an
// archive feature date (YYYYMMDD). Malformed dates fall back to the local
// calendar day.
func Filename(market, featureDate string) string {
	date := time.Now().Format("2006-01-02")
	if parsed, err := time.Parse("20060102", strings.TrimSpace(featureDate)); err == nil {
		date = parsed.Format("2006-01-02")
	}
	return "bing-" + market + "-" + date + ".jpg"
}
