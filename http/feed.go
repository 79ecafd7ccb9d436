package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/evidmap/evidmap"
)

// Ensure FeedService implements evidmap.FeedService at compile time.
var _ evidmap.FeedService = (*FeedService)(nil)

// FeedService fetches and parses RSS and Atom feeds via HTTP.
type FeedService struct {
	client *http.Client
}

// NewFeedService creates a new FeedService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewFeedService(client *http.Client) *FeedService {
	if client == nil {
		client = http.DefaultClient
	}
	return &FeedService{client: client}
}

// FetchEntries retrieves the feed at feedURL and returns its entries in
// document order. Entries without content are omitted.
func (s *FeedService) FetchEntries(ctx context.Context, feedURL string) ([]evidmap.FeedEntry, error) {
	body, err := s.fetchURL(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, fmt.Errorf("parsing feed XML: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty feed XML")
	}

	switch root.Tag {
	case "rss":
		channel := root.SelectElement("channel")
		if channel == nil {
			return nil, fmt.Errorf("rss feed missing channel element")
		}
		return parseRSSItems(channel), nil
	case "feed":
		return parseAtomEntries(root), nil
	default:
		return nil, fmt.Errorf("unsupported feed root element %q", root.Tag)
	}
}

// parseRSSItems extracts entries from an RSS 2.0 <channel>.
func parseRSSItems(channel *etree.Element) []evidmap.FeedEntry {
	var entries []evidmap.FeedEntry
	for _, item := range channel.SelectElements("item") {
		entry := evidmap.FeedEntry{
			Link:   elementText(item, "link"),
			Title:  elementText(item, "title"),
			Author: firstElementText(item, "author", "creator"),
		}

		entry.ID = elementText(item, "guid")
		if entry.ID == "" {
			entry.ID = entry.Link
		}

		// content:encoded carries the full body; description is the
		// usual fallback.
		entry.ContentHTML = firstElementText(item, "encoded", "description")
		entry.PublishedAt = parseFeedTime(elementText(item, "pubDate"))

		if strings.TrimSpace(entry.ContentHTML) == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// parseAtomEntries extracts entries from an Atom <feed>.
func parseAtomEntries(feed *etree.Element) []evidmap.FeedEntry {
	var entries []evidmap.FeedEntry
	for _, item := range feed.SelectElements("entry") {
		entry := evidmap.FeedEntry{
			ID:    elementText(item, "id"),
			Title: elementText(item, "title"),
		}

		for _, link := range item.SelectElements("link") {
			rel := link.SelectAttrValue("rel", "alternate")
			if rel == "alternate" {
				entry.Link = link.SelectAttrValue("href", "")
				break
			}
		}
		if entry.ID == "" {
			entry.ID = entry.Link
		}

		if author := item.SelectElement("author"); author != nil {
			entry.Author = elementText(author, "name")
		}

		entry.ContentHTML = firstElementText(item, "content", "summary")
		entry.PublishedAt = parseFeedTime(firstElementText(item, "published", "updated"))

		if strings.TrimSpace(entry.ContentHTML) == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// elementText returns the trimmed text of a named child element, matching
// on the local tag so namespaced elements like content:encoded resolve.
func elementText(parent *etree.Element, tag string) string {
	for _, child := range parent.ChildElements() {
		if child.Tag == tag {
			return strings.TrimSpace(child.Text())
		}
	}
	return ""
}

func firstElementText(parent *etree.Element, tags ...string) string {
	for _, tag := range tags {
		if text := elementText(parent, tag); text != "" {
			return text
		}
	}
	return ""
}

// parseFeedTime handles the timestamp formats found in the wild.
func parseFeedTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range []string{
		time.RFC1123Z,
		time.RFC1123,
		time.RFC3339,
		"Mon, 2 Jan 2006 15:04:05 -0700",
		"2006-01-02T15:04:05Z",
	} {
		if t, err := time.Parse(layout, value); err == nil {
			utc := t.UTC()
			return &utc
		}
	}
	return nil
}

// fetchURL fetches a URL and returns the response body.
func (s *FeedService) fetchURL(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, targetURL)
	}

	return resp.Body, nil
}
