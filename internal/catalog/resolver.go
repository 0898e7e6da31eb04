package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

const (
	pingOutcomeEvent  = "UIVideoPlayer.PingOutcome"
	premiumPageMarker = "PGPremiumMovieWatch"
	priorityHint      = "p=priority"
)

// ajaxResponse is the envelope the catalog's AJAX endpoint returns. Data is
// either a redirect target (string) or an object carrying the obfuscated
// link payload; anything else is an unrecognized shape.
type ajaxResponse struct {
	Event string          `json:"Event"`
	Data  json.RawMessage `json:"Data"`
}

// Resolve turns a watch page URL into a LinkBundle: it extracts the page
// tokens, posts the ping-outcome request, decodes the obfuscated payload,
// and follows at most the configured number of premium redirects.
func (c *Client) Resolve(ctx context.Context, pageURL string) (*LinkBundle, error) {
	return c.resolve(ctx, pageURL, 0)
}

func (c *Client) resolve(ctx context.Context, pageURL string, depth int) (*LinkBundle, error) {
	if depth > c.maxRedirects {
		return nil, fmt.Errorf("%w: %d redirects at %s", ErrRedirectLoop, depth, pageURL)
	}

	body, err := c.get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch watch page: %w", err)
	}
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse watch page: %w", err)
	}

	root := findElement(doc, func(e *html.Node) bool { return e.Data == "html" })
	pageID := ""
	if root != nil {
		pageID = attrValue(root, "data-pageid")
	}

	player := findByID(doc, "UIVideoPlayer")
	if player == nil {
		return nil, ErrLoginRequired
	}
	pingables := attrValue(player, "data-ejpingables")
	title := attrValue(player, "data-content-title")
	if title == "" {
		title = "Unknown"
	}

	premiumPage := bytes.Contains(body, []byte(premiumPageMarker))
	year := pageYear(doc)

	outcomes, err := json.Marshal(struct {
		EJOutcomes string `json:"EJOutcomes"`
		NativeHLS  bool   `json:"NativeHLS"`
	}{EJOutcomes: pingables})
	if err != nil {
		return nil, fmt.Errorf("encode outcomes payload: %w", err)
	}
	form := url.Values{}
	form.Set("xEvent", pingOutcomeEvent)
	form.Set("xJson", string(outcomes))
	form.Set("gorilla.csrf.Token", pageID)

	raw, err := c.postForm(ctx, ajaxURL(pageURL), form)
	if err != nil {
		return nil, fmt.Errorf("ping outcome: %w", err)
	}

	var resp ajaxResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedFormat, err)
	}

	if resp.Event == "redirect" {
		var target string
		if json.Unmarshal(resp.Data, &target) == nil && target != "" {
			c.logger.Debug("following premium redirect",
				slog.String("target", target),
				slog.Int("depth", depth+1))
			return c.resolve(ctx, c.baseURL+target, depth+1)
		}
		return nil, fmt.Errorf("%w: redirect without target", ErrUnexpectedFormat)
	}

	var payload struct {
		EJLinks string `json:"EJLinks"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("%w: event %q", ErrUnexpectedFormat, resp.Event)
	}
	if payload.EJLinks == "" {
		return nil, ErrNoLinks
	}

	fields, err := DecodeLinks(payload.EJLinks)
	if err != nil {
		return nil, err
	}
	if fields.MP4Link == "" {
		return nil, fmt.Errorf("%w: payload carries no progressive link", ErrNoLinks)
	}

	// Either the page marker or the priority hint on the media URL means the
	// highest-quality variant was granted.
	premium := premiumPage || strings.Contains(fields.MP4Link, priorityHint)

	return &LinkBundle{
		Title:          title,
		Year:           year,
		ProgressiveURL: fields.MP4Link,
		AdaptiveURL:    fields.HLSLink,
		Premium:        premium,
		Partition:      pagePartition(pageURL),
	}, nil
}

// ajaxURL rewrites a watch page URL into its AJAX endpoint, handling the
// premium-prefixed path variant.
func ajaxURL(pageURL string) string {
	if strings.Contains(pageURL, "/premium/") {
		return strings.Replace(pageURL, "/premium/movie/", "/ajax/premium/movie/", 1)
	}
	return strings.Replace(pageURL, "/movie/", "/ajax/movie/", 1)
}

func pageYear(doc *html.Node) string {
	summary := findByID(doc, "UIMovieSummary")
	if summary == nil {
		return ""
	}
	info := findElement(summary, func(e *html.Node) bool { return hasClass(e, "info") })
	if info == nil {
		return ""
	}
	p := findElement(info, func(e *html.Node) bool { return e.Data == "p" })
	if p == nil {
		return ""
	}
	return yearPattern.FindString(textContent(p))
}

func pagePartition(pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return parsed.Query().Get("lang")
}
