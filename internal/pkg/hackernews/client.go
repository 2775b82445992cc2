package hackernews

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Story is a single Hacker News item as returned by the Firebase API
type Story struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	By    string `json:"by"`
	Score int    `json:"score"`
	Time  int64  `json:"time"`
}

// Client fetches top stories from the Hacker News Firebase API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Hacker News client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// TopStoryIDs fetches the current top story ids, truncated to limit
func (c *Client) TopStoryIDs(ctx context.Context, limit int) ([]int64, error) {
	var ids []int64
	if err := c.getJSON(ctx, c.baseURL+"/topstories.json", &ids); err != nil {
		return nil, fmt.Errorf("error fetching top stories: %w", err)
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// GetStory fetches a single story by id. Returns nil for deleted or
// non-story items that the API serves as null.
func (c *Client) GetStory(ctx context.Context, id int64) (*Story, error) {
	var story *Story
	url := fmt.Sprintf("%s/item/%d.json", c.baseURL, id)
	if err := c.getJSON(ctx, url, &story); err != nil {
		return nil, fmt.Errorf("error fetching story %d: %w", id, err)
	}
	return story, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
