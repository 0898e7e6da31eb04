package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

var (
	watchLinkPattern = regexp.MustCompile(`/movie/watch/([^/]+)/`)
	yearPattern      = regexp.MustCompile(`\d{4}`)
)

// Search queries one language partition for a free-text title and returns
// the result entries deduplicated by id, preserving first-seen order. Only
// the first results page is fetched. An empty slice is a valid outcome, not
// an error.
func (c *Client) Search(ctx context.Context, query, partition string) ([]Entry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	partition = strings.ToLower(strings.TrimSpace(partition))
	if partition == "" {
		return nil, errors.New("partition must not be empty")
	}

	params := url.Values{}
	params.Set("lang", partition)
	params.Set("query", query)
	body, err := c.get(ctx, c.baseURL+"/movie/results/?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("search %q in %s: %w", query, partition, err)
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse results page: %w", err)
	}

	blocks := resultBlocks(doc)
	seen := make(map[string]struct{}, len(blocks))
	entries := make([]Entry, 0, len(blocks))
	for _, block := range blocks {
		entry, ok := c.parseResultBlock(block, partition)
		if !ok {
			continue
		}
		if _, dup := seen[entry.ID]; dup {
			continue
		}
		seen[entry.ID] = struct{}{}
		entries = append(entries, entry)
	}
	return entries, nil
}

// resultBlocks collects the per-movie summary blocks: list items under the
// UIMovieSummary section plus any block2 containers.
func resultBlocks(doc *html.Node) []*html.Node {
	var blocks []*html.Node
	if summary := findByID(doc, "UIMovieSummary"); summary != nil {
		collectElements(summary, func(e *html.Node) bool { return e.Data == "li" }, &blocks)
	}
	collectElements(doc, func(e *html.Node) bool { return hasClass(e, "block2") }, &blocks)
	return blocks
}

func (c *Client) parseResultBlock(block *html.Node, partition string) (Entry, bool) {
	link := findElement(block, func(e *html.Node) bool {
		return e.Data == "a" && hasClass(e, "title")
	})
	if link == nil {
		return Entry{}, false
	}
	heading := findElement(link, func(e *html.Node) bool { return e.Data == "h3" })
	if heading == nil {
		return Entry{}, false
	}
	m := watchLinkPattern.FindStringSubmatch(attrValue(link, "href"))
	if m == nil {
		return Entry{}, false
	}

	entry := Entry{
		ID:        m[1],
		Title:     textContent(heading),
		Partition: partition,
		PageURL:   fmt.Sprintf("%s/movie/watch/%s/?lang=%s", c.baseURL, m[1], partition),
	}
	if info := findElement(block, func(e *html.Node) bool { return hasClass(e, "info") }); info != nil {
		if p := findElement(info, func(e *html.Node) bool { return e.Data == "p" }); p != nil {
			if y := yearPattern.FindString(textContent(p)); y != "" {
				entry.Year, _ = strconv.Atoi(y)
			}
		}
	}
	return entry, true
}
