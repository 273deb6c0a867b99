package search

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"time"

	"auxbox/helpers/apierr"
	"auxbox/helpers/logs"

	"github.com/sirupsen/logrus"
	"github.com/sosodev/duration"
	"xorm.io/xorm"
)

const apiHost = "https://www.googleapis.com"

// Client proxies video search to the YouTube Data API and caches every
// result as a video row so enqueue requests can validate ids locally.
type Client struct {
	apiKey string
	http   *http.Client
	db     *xorm.Engine
	logger *logrus.Entry
}

func NewClient(apiKey string, db *xorm.Engine) *Client {
	return &Client{
		apiKey: apiKey,
		http:   &http.Client{Timeout: 10 * time.Second},
		db:     db,
		logger: logs.GetLogger().WithField("module", "search"),
	}
}

// Result is one normalized search hit. Title and channel are truncated to
// 64 characters, duration is in seconds, uploaded is a plain date.
type Result struct {
	ID       string `json:"videoId"`
	Title    string `json:"title"`
	Channel  string `json:"channel"`
	Uploaded string `json:"uploaded"`
	Duration int64  `json:"duration"`
}

type searchResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			PublishedAt  string `json:"publishedAt"`
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
		} `json:"snippet"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// Page bundles search results with the token of the next page.
type Page struct {
	Results []Result `json:"results"`
	Next    string   `json:"next,omitempty"`
}

// Search runs a provider search and upserts every hit into the video
// cache. page is the provider's opaque continuation token, empty for the
// first page.
func (c *Client) Search(query, page string) (*Page, error) {
	if len(query) < 3 {
		return nil, apierr.BadRequest("bad request")
	}

	logger := c.logger.WithField("query", query)
	logger.Debug("Searching content provider...")

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", "50")
	params.Set("type", "video")
	params.Set("part", "snippet")
	params.Set("fields", "nextPageToken,items(id(videoId),snippet(publishedAt,title,channelTitle))")
	params.Set("key", c.apiKey)
	if page != "" {
		params.Set("pageToken", page)
	}

	var res searchResponse
	if err := c.getJSON("/youtube/v3/search?"+params.Encode(), &res); err != nil {
		logger.WithError(err).Error("Search request failed")
		return nil, fmt.Errorf("search request failed: %w", err)
	}

	ids := make([]string, 0, len(res.Items))
	for _, item := range res.Items {
		ids = append(ids, item.ID.VideoID)
	}

	durations, err := c.fetchDurations(ids)
	if err != nil {
		logger.WithError(err).Error("Duration lookup failed")
		return nil, fmt.Errorf("duration lookup failed: %w", err)
	}

	results := make([]Result, 0, len(res.Items))
	for _, item := range res.Items {
		results = append(results, Result{
			ID:       item.ID.VideoID,
			Title:    html.UnescapeString(truncate64(item.Snippet.Title)),
			Channel:  truncate64(item.Snippet.ChannelTitle),
			Uploaded: uploadDate(item.Snippet.PublishedAt),
			Duration: durations[item.ID.VideoID],
		})
	}

	c.cache(results)

	logger.WithField("results", len(results)).Info("✓ Search completed")
	return &Page{Results: results, Next: res.NextPageToken}, nil
}

func (c *Client) fetchDurations(ids []string) (map[string]int64, error) {
	durations := make(map[string]int64, len(ids))
	if len(ids) == 0 {
		return durations, nil
	}

	params := url.Values{}
	params.Set("id", strings.Join(ids, ","))
	params.Set("part", "contentDetails")
	params.Set("fields", "items(id,contentDetails(duration))")
	params.Set("key", c.apiKey)

	var res videosResponse
	if err := c.getJSON("/youtube/v3/videos?"+params.Encode(), &res); err != nil {
		return nil, err
	}

	for _, item := range res.Items {
		durations[item.ID] = parseDuration(item.ContentDetails.Duration)
	}
	return durations, nil
}

func (c *Client) getJSON(path string, out interface{}) error {
	resp, err := c.http.Get(apiHost + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// cache upserts results as video rows. Videos are immutable, so conflicts
// on id are ignored.
func (c *Client) cache(results []Result) {
	now := time.Now().Unix()
	for _, r := range results {
		_, err := c.db.Exec(`INSERT OR IGNORE INTO videos (id, title, channel, uploaded, duration, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			r.ID, r.Title, r.Channel, r.Uploaded, r.Duration, now)
		if err != nil {
			c.logger.WithError(err).WithField("video", r.ID).Warn("Failed to cache video")
		}
	}
}

func truncate64(s string) string {
	runes := []rune(s)
	if len(runes) <= 64 {
		return s
	}
	return string(runes[:61]) + "..."
}

// uploadDate normalizes the provider's RFC 3339 publish timestamp to a
// plain date.
func uploadDate(publishedAt string) string {
	if t, err := time.Parse(time.RFC3339, publishedAt); err == nil {
		return t.Format("2006-01-02")
	}
	if len(publishedAt) >= 10 {
		return publishedAt[:10]
	}
	return publishedAt
}

// parseDuration converts the provider's ISO 8601 duration to seconds.
// Unparsable durations count as zero rather than failing the search.
func parseDuration(iso string) int64 {
	d, err := duration.Parse(iso)
	if err != nil {
		return 0
	}
	return int64(d.ToTimeDuration().Seconds())
}
