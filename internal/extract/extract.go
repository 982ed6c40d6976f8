package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"newsbrief/internal/domain"
)

// articleLinkExpr accepts absolute https links that look like article pages.
var articleLinkExpr = regexp.MustCompile(`^https://[^"]*article`)

// FromMarkup pulls a candidate out of one page: text of the first heading,
// text of the first paragraph, and the first article-like link, falling back
// to fallbackURL when no such link exists. Best-effort over arbitrary
// markup; a page with no usable heading or paragraph yields ok=false, never
// an error.
func FromMarkup(rawMarkup, fallbackURL string) (domain.Candidate, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawMarkup))
	if err != nil {
		return domain.Candidate{}, false
	}

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	content := strings.TrimSpace(doc.Find("p").First().Text())
	if title == "" || content == "" {
		return domain.Candidate{}, false
	}

	return domain.Candidate{
		Title:           title,
		OriginalContent: content,
		URL:             firstArticleLink(doc, fallbackURL),
	}, true
}

func firstArticleLink(doc *goquery.Document, fallbackURL string) string {
	link := fallbackURL

	doc.Find("[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok {
			return true
		}
		if articleLinkExpr.MatchString(href) {
			link = href
			return false
		}
		return true
	})

	return link
}
