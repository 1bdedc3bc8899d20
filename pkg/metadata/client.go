package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

const defaultBaseURL = "https://api.openbd.jp/v1"

// Metadata is what the OpenBD catalog knows about an ISBN. Any field may be
// empty; callers fill in whatever they can.
type Metadata struct {
	ISBN        string
	Title       string
	Author      string
	PublishDate string
	CoverURL    string
}

// Client looks up book metadata from the OpenBD API. The API is treated as a
// black box: one request per lookup, no retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub server.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

type openBDRecord struct {
	Summary struct {
		ISBN    string `json:"isbn"`
		Title   string `json:"title"`
		Author  string `json:"author"`
		PubDate string `json:"pubdate"`
		Cover   string `json:"cover"`
	} `json:"summary"`
}

// Lookup returns the catalog metadata for an ISBN, or nil when the catalog
// doesn't know it.
func (c *Client) Lookup(ctx context.Context, isbn string) (*Metadata, error) {
	u := fmt.Sprintf("%s/get?isbn=%s", c.baseURL, url.QueryEscape(isbn))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("openbd: unexpected status %d", resp.StatusCode)
	}

	// The API returns one array element per requested ISBN, null for unknown
	// ones.
	records := []*openBDRecord{}
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, errors.WithStack(err)
	}
	if len(records) == 0 || records[0] == nil {
		return nil, nil
	}

	summary := records[0].Summary
	return &Metadata{
		ISBN:        summary.ISBN,
		Title:       summary.Title,
		Author:      summary.Author,
		PublishDate: summary.PubDate,
		CoverURL:    summary.Cover,
	}, nil
}
