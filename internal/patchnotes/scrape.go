package patchnotes

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// parseLatestPatch finds the first article link pointing at patch notes.
// The list page orders articles newest-first.
func parseLatestPatch(doc *goquery.Document) *Patch {
	var patch *Patch
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href := s.AttrOr("href", "")
		if !strings.Contains(href, "/news/game-updates/patch-") {
			return true
		}

		title := strings.TrimSpace(s.Find(`div[data-testid="card-title"]`).Text())
		if title == "" {
			title = "Título no encontrado"
		}

		var published time.Time
		if dt, ok := s.Find("time").Attr("datetime"); ok {
			if t, err := time.Parse(time.RFC3339, dt); err == nil {
				published = t
			}
		}

		url := href
		if strings.HasPrefix(href, "/") {
			url = siteBase + href
		}

		patch = &Patch{Title: title, URL: url, Published: published}
		return false
	})
	return patch
}

// parseSummaryImage extracts the patch summary infographic, if present.
func parseSummaryImage(doc *goquery.Document) string {
	src, _ := doc.Find("a.cboxElement img").First().Attr("src")
	return src
}

// parseChampionList collects champion names from article links, in page
// order, deduplicated.
func parseChampionList(doc *goquery.Document) []string {
	var names []string
	seen := make(map[string]struct{})
	doc.Find(`a[href*="/champions/"]`).Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(s.Text())
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	})
	return names
}

// parseChampionDetails extracts all change blocks for one champion. The
// page anchors each champion with <h3 id="patch-<normalized name>">.
func parseChampionDetails(doc *goquery.Document, championName string) *ChampionChanges {
	header := doc.Find("h3#patch-" + normalizeChampionKey(championName)).First()
	if header.Length() == 0 {
		return nil
	}

	details := &ChampionChanges{Name: titleCase(championName)}

	if src, ok := header.PrevAllFiltered("a.reference-link").First().Find("img").Attr("src"); ok {
		details.PortraitURL = src
	}
	details.Summary = strings.TrimSpace(header.NextAllFiltered("blockquote").First().Text())

	var current *ChangeBlock
	header.NextAll().EachWithBreak(func(_ int, sib *goquery.Selection) bool {
		switch goquery.NodeName(sib) {
		case "h3":
			// Next champion section.
			return false
		case "h4":
			if sib.HasClass("change-detail-title") {
				if current != nil {
					details.Blocks = append(details.Blocks, *current)
				}
				block := ChangeBlock{Title: strings.TrimSpace(sib.Text())}
				if src, ok := sib.Find("img").Attr("src"); ok {
					block.IconURL = src
				}
				current = &block
			}
		case "ul":
			if current != nil && current.Changes == nil {
				current.Changes = parseChangeList(sib)
			}
		}
		return true
	})
	if current != nil {
		details.Blocks = append(details.Blocks, *current)
	}

	return details
}

// parseSectionBlocks extracts the change blocks under a top-level
// section header (items, runes). Iteration starts from the header's
// wrapping <header> element when there is one, and stops at the next
// top-level section.
func parseSectionBlocks(doc *goquery.Document, sectionID string) []ChangeBlock {
	main := doc.Find("h2#" + sectionID).First()
	if main.Length() == 0 {
		return nil
	}

	start := main
	if goquery.NodeName(main.Parent()) == "header" {
		start = main.Parent()
	}

	var blocks []ChangeBlock
	start.NextAll().EachWithBreak(func(_ int, sib *goquery.Selection) bool {
		name := goquery.NodeName(sib)
		if name == "h2" || (name == "header" && sib.Find("h2").Length() > 0) {
			return false
		}
		sib.Find("h3.change-title, h4.change-title").Each(func(_ int, item *goquery.Selection) {
			blocks = append(blocks, parseSectionBlock(item))
		})
		return true
	})
	return blocks
}

// parseSectionBlock reads one item/rune block: icon from the preceding
// reference link, then blockquote summary and <ul> changes from the
// following siblings up to the next block. The summary sometimes comes
// after the change list, so iteration does not stop at the <ul>.
func parseSectionBlock(item *goquery.Selection) ChangeBlock {
	block := ChangeBlock{Title: strings.TrimSpace(item.Text())}

	if src, ok := item.PrevAllFiltered("a.reference-link").First().Find("img").Attr("src"); ok {
		block.IconURL = src
	}

	for sib := item.Next(); sib.Length() > 0; sib = sib.Next() {
		switch goquery.NodeName(sib) {
		case "h3", "h4":
			return block
		case "blockquote":
			block.Summary = strings.TrimSpace(sib.Text())
		case "ul":
			block.Changes = parseChangeList(sib)
		}
	}
	return block
}

// parseChangeList renders each <li> as a bullet line, keeping <strong>
// runs as Discord bold and padding the before/after arrow.
func parseChangeList(ul *goquery.Selection) []string {
	var changes []string
	ul.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		changes = append(changes, "• "+formatChangeItem(li))
	})
	return changes
}

func formatChangeItem(li *goquery.Selection) string {
	var parts []string
	li.Contents().Each(func(_ int, node *goquery.Selection) {
		switch goquery.NodeName(node) {
		case "strong":
			if text := strings.TrimSpace(node.Text()); text != "" {
				parts = append(parts, "**"+text+"**")
			}
		case "#text":
			text := strings.TrimSpace(strings.ReplaceAll(node.Text(), "⇒", " ⇒ "))
			if text != "" {
				parts = append(parts, text)
			}
		}
	})
	return strings.Join(parts, " ")
}

// normalizeChampionKey mirrors the site's anchor ids: lowercase with
// spaces, dots and apostrophes stripped ("Miss Fortune" → "missfortune").
func normalizeChampionKey(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "", ".", "", "'", "").Replace(name)
}

func titleCase(name string) string {
	words := strings.Fields(strings.ToLower(name))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
