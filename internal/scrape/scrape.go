// Package scrape fetches public web pages and reduces them to the prose an
// oracle prompt can use.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// MaxTextLen caps scraped text before it is attached to a prompt.
const MaxTextLen = 12000

const maxFetchBytes = 20 << 20

// Client fetches and parses remote documents.
type Client struct {
	HTTP *http.Client
}

// New constructs a Client with a bounded default timeout.
func New() *Client {
	return &Client{HTTP: &http.Client{Timeout: 30 * time.Second}}
}

// Website downloads the page and returns its visible prose: headings,
// paragraphs, and list items, with script/style/nav chrome dropped. The
// result is truncated to MaxTextLen.
func (c *Client) Website(ctx context.Context, rawURL string) (string, error) {
	body, contentType, err := c.Fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}
	if !strings.Contains(contentType, "html") && contentType != "" {
		return "", fmt.Errorf("unexpected content type %q for %s", contentType, rawURL)
	}
	return truncate(ExtractReadableText(string(body)), MaxTextLen), nil
}

// truncate cuts s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// Fetch downloads a URL and returns the raw body plus the response content
// type. Google Docs links are rewritten to their PDF export form so the
// document body comes back instead of the editor shell.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	target := NormalizeDocURL(rawURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", "grantwriter-backend/1.0")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("fetch %s: status %d", target, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, "", err
	}
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(resp.Header.Get("Content-Type"), ";")[0]))
	return body, contentType, nil
}

// NormalizeDocURL maps a Google Docs edit/view link onto its PDF export
// endpoint. Other URLs pass through unchanged.
func NormalizeDocURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if parsed.Host != "docs.google.com" || !strings.HasPrefix(parsed.Path, "/document/d/") {
		return rawURL
	}
	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	// /document/d/<id>/...
	if len(parts) < 3 {
		return rawURL
	}
	docID := parts[2]
	return fmt.Sprintf("https://docs.google.com/document/d/%s/export?format=pdf", docID)
}

var skippedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"nav":      true,
	"footer":   true,
	"header":   true,
	"iframe":   true,
	"svg":      true,
}

var textTags = map[string]bool{
	"p":  true,
	"h1": true,
	"h2": true,
	"h3": true,
	"li": true,
}

// ExtractReadableText parses HTML and joins the text of prose elements with
// newlines. Malformed markup degrades gracefully: the tokenizer keeps what it
// can parse.
func ExtractReadableText(rawHTML string) string {
	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}
	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skippedTags[n.Data] {
				return
			}
			if textTags[n.Data] {
				if text := nodeText(n); text != "" {
					lines = append(lines, text)
				}
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return strings.Join(lines, "\n")
}

func nodeText(n *html.Node) string {
	var buf strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && skippedTags[n.Data] {
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}
