package mail

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	sourceNewlines  = regexp.MustCompile(`\r?\n`)
	extraBlankLines = regexp.MustCompile(`\n{3,}`)
)

// PlainText gera a alternativa text/plain de um e-mail HTML. Links viram
// "texto (url)" para continuarem clicáveis em clientes sem HTML.
func PlainText(html string) (string, error) {
	// Quebras no fonte são só espaço em HTML; as linhas vêm de <br> e blocos.
	html = sourceNewlines.ReplaceAllString(html, " ")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, head, img").Remove()

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		label := strings.TrimSpace(s.Text())
		switch {
		case href == "" || strings.HasPrefix(href, "#"):
			s.ReplaceWithHtml(escapeText(label))
		case label == "" || label == href:
			s.ReplaceWithHtml(escapeText(href))
		default:
			s.ReplaceWithHtml(escapeText(label + " (" + href + ")"))
		}
	})

	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, h1, h2, h3, tr, li").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n\n")
	})

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		lines = append(lines, strings.TrimSpace(line))
	}
	text := extraBlankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(text), nil
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
