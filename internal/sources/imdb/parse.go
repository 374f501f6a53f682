package imdb

import (
	"html"
	"regexp"
	"strings"

	"shelfgap/internal/media"
)

var (
	listItemSplit  = regexp.MustCompile(`<li[\s>]`)
	tableRowSplit  = regexp.MustCompile(`<tr[\s>]`)
	titleIDPattern = regexp.MustCompile(`/title/(tt\d+)`)
	headingPattern = regexp.MustCompile(`<h3[^>]*>(?:<[^>]*>)*([^<]+)<`)
	rankPrefix     = regexp.MustCompile(`^\d+\.\s*`)
	anchorTitle    = regexp.MustCompile(`<a[^>]*href="[^"]*/title/tt\d+[^"]*"[^>]*>([^<]+)</a>`)
	yearSpan       = regexp.MustCompile(`(?:data-testid="chart-year"|cli-title-metadata-item|secondaryInfo)[^>]*>\(?(\d{4})`)
	parenYear      = regexp.MustCompile(`\((\d{4})\)`)
)

// parseChart extracts chart entries from raw page HTML. The current layout
// lists entries as <li> nodes under the chart-layout-main container; the
// legacy layout used table rows. Entries without a tt id and title are
// dropped, duplicate ids keep the first occurrence.
func parseChart(doc string, kind media.Kind) []media.Record {
	region := doc
	if i := strings.Index(doc, `data-testid="chart-layout-main"`); i >= 0 {
		region = doc[i:]
	}

	splitter := listItemSplit
	if !strings.Contains(region, "<li") {
		splitter = tableRowSplit
	}
	chunks := splitter.Split(region, -1)
	if len(chunks) <= 1 {
		return nil
	}
	chunks = chunks[1:]

	records := make([]media.Record, 0, len(chunks))
	seen := make(map[string]struct{}, len(chunks))
	for _, chunk := range chunks {
		record, ok := parseEntry(chunk, kind)
		if !ok {
			continue
		}
		id, _ := record.ID(media.NamespaceIMDb)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		records = append(records, record)
	}
	return records
}

func parseEntry(chunk string, kind media.Kind) (media.Record, bool) {
	idMatch := titleIDPattern.FindStringSubmatch(chunk)
	if idMatch == nil {
		return media.Record{}, false
	}

	var title string
	if m := headingPattern.FindStringSubmatch(chunk); m != nil {
		title = rankPrefix.ReplaceAllString(strings.TrimSpace(m[1]), "")
	}
	if title == "" {
		if m := anchorTitle.FindStringSubmatch(chunk); m != nil {
			title = strings.TrimSpace(m[1])
		}
	}
	title = strings.TrimSpace(html.UnescapeString(title))
	if title == "" {
		return media.Record{}, false
	}

	var year string
	if m := yearSpan.FindStringSubmatch(chunk); m != nil {
		year = m[1]
	} else if m := parenYear.FindStringSubmatch(chunk); m != nil {
		year = m[1]
	}

	record := media.Record{Title: title, Year: year, Kind: kind}
	record.SetIdentifier(media.NamespaceIMDb, idMatch[1])
	return record, true
}
