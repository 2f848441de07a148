package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// fetchPage retrieves an HTTP(S) URL and returns the raw HTML body.
func fetchPage(url string) ([]byte, error) {
	res, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("failed to fetch %s: status code %d", url, res.StatusCode)
	}

	contentType := res.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return nil, fmt.Errorf("unsupported content type %q for %s", contentType, url)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	return body, nil
}

// pageTitle extracts the <title> of an HTML document, or "" if absent.
func pageTitle(html []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// CountWebPage fetches url, converts the HTML to Markdown, and counts the
// tokens of the Markdown rendition. Returns the result and the page title.
func (c *TokenCounter) CountWebPage(url string) (FileResult, string, error) {
	body, err := fetchPage(url)
	if err != nil {
		return FileResult{}, "", err
	}

	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(string(body))
	if err != nil {
		return FileResult{}, "", fmt.Errorf("failed to convert %s to Markdown: %w", url, err)
	}

	return FileResult{
		File:       url,
		Model:      c.Model,
		Tokens:     c.CountText(markdown),
		Characters: utf8.RuneCountInString(markdown),
	}, pageTitle(body), nil
}
