// Package patchnotes scrapes the League of Legends news site for
// patch-note articles: the latest publication, its summary image and
// the per-champion / per-section change details.
package patchnotes

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultListURL is the patch-notes tag page that lists articles
	// newest-first.
	DefaultListURL = "https://www.leagueoflegends.com/es-mx/news/tags/patch-notes/"

	siteBase = "https://www.leagueoflegends.com"
)

// Patch describes the latest patch-notes article.
type Patch struct {
	Title     string
	URL       string
	Published time.Time // zero when the page carries no timestamp
}

// ChampionChanges holds every change block for one champion.
type ChampionChanges struct {
	Name        string
	PortraitURL string
	Summary     string
	Blocks      []ChangeBlock
}

// ChangeBlock is one titled group of changes (an ability, an item, a
// rune) with its bullet list.
type ChangeBlock struct {
	Title   string
	IconURL string
	Summary string
	Changes []string
}

// Client fetches and parses patch-notes pages.
type Client struct {
	listURL    string
	httpClient *http.Client
}

// NewClient creates a scraper client. An empty listURL selects the
// es-mx patch-notes page.
func NewClient(listURL string) *Client {
	if listURL == "" {
		listURL = DefaultListURL
	}
	return &Client{
		listURL: listURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// LatestPatch returns the newest patch-notes article from the list
// page, or an error when the page is unreachable or has no article.
func (c *Client) LatestPatch(ctx context.Context) (*Patch, error) {
	doc, err := c.document(ctx, c.listURL)
	if err != nil {
		return nil, err
	}
	patch := parseLatestPatch(doc)
	if patch == nil {
		return nil, fmt.Errorf("no patch-notes article found at %s", c.listURL)
	}
	return patch, nil
}

// SummaryImage returns the URL of the patch summary infographic, or ""
// when the article has none.
func (c *Client) SummaryImage(ctx context.Context, patchURL string) (string, error) {
	doc, err := c.document(ctx, patchURL)
	if err != nil {
		return "", err
	}
	return parseSummaryImage(doc), nil
}

// ChampionList returns the champions mentioned in the article, in page
// order and deduplicated.
func (c *Client) ChampionList(ctx context.Context, patchURL string) ([]string, error) {
	doc, err := c.document(ctx, patchURL)
	if err != nil {
		return nil, err
	}
	return parseChampionList(doc), nil
}

// ChampionDetails returns the change blocks for one champion, or nil
// when the champion has no section in the article.
func (c *Client) ChampionDetails(ctx context.Context, patchURL, championName string) (*ChampionChanges, error) {
	doc, err := c.document(ctx, patchURL)
	if err != nil {
		return nil, err
	}
	return parseChampionDetails(doc, championName), nil
}

// SectionDetails returns the change blocks under a section header such
// as "patch-items" or "patch-runes". A missing section yields an empty
// slice.
func (c *Client) SectionDetails(ctx context.Context, patchURL, sectionID string) ([]ChangeBlock, error) {
	doc, err := c.document(ctx, patchURL)
	if err != nil {
		return nil, err
	}
	return parseSectionBlocks(doc, sectionID), nil
}

func (c *Client) document(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return doc, nil
}
