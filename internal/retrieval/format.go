package retrieval

import (
	"strings"

	"github.com/openmevzuat/mevzuat/internal/models"
)

const (
	sourceLabel  = "Kaynak: "
	maddeLabel   = "MADDE: "
	contentLabel = "İçerik: "
)

// FormatArticles renders articles into one citation-ready text block. Each
// article becomes three lines (source, madde number, content) and articles
// are separated by blank lines, in input order. Pure rendering: no ranking
// or filtering happens here.
func FormatArticles(articles []*models.Article) string {
	blocks := make([]string, len(articles))
	for i, a := range articles {
		blocks[i] = sourceLabel + a.Source + "\n" +
			maddeLabel + a.MaddeNumber + "\n" +
			contentLabel + a.Content
	}
	return strings.Join(blocks, "\n\n")
}

// ParseFormatted recovers (source, madde number, content) tuples from a
// FormatArticles rendering. Inverse of FormatArticles for flattened article
// content (article bodies contain no newlines after segmentation).
func ParseFormatted(text string) []models.Article {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []models.Article
	for _, block := range strings.Split(text, "\n\n") {
		lines := strings.SplitN(block, "\n", 3)
		if len(lines) != 3 {
			continue
		}
		if !strings.HasPrefix(lines[0], sourceLabel) ||
			!strings.HasPrefix(lines[1], maddeLabel) ||
			!strings.HasPrefix(lines[2], contentLabel) {
			continue
		}
		out = append(out, models.Article{
			Source:      strings.TrimPrefix(lines[0], sourceLabel),
			MaddeNumber: strings.TrimPrefix(lines[1], maddeLabel),
			Content:     strings.TrimPrefix(lines[2], contentLabel),
		})
	}
	return out
}
