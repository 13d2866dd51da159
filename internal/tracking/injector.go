// Package tracking instrumenta o HTML dos e-mails com o pixel de abertura e
// reescreve os links para passarem pelo redirecionador de cliques.
package tracking

import (
	"html"
	"net/url"
	"regexp"
	"strings"
)

const (
	OpenPath  = "/track/open"
	ClickPath = "/track/click"
)

// Só links absolutos http(s) são reescritos. mailto:, tel:, âncoras e demais
// esquemas não casam e ficam intactos.
var hrefPattern = regexp.MustCompile(`(?i)(?:^|[\s"'])href\s*=\s*(?:"(https?://[^"]*)"|'(https?://[^']*)')`)

var bodyClosePattern = regexp.MustCompile(`(?i)</body\s*>`)

type Injector struct {
	BaseURL string
}

func NewInjector(baseURL string) *Injector {
	return &Injector{BaseURL: strings.TrimRight(baseURL, "/")}
}

func (i *Injector) OpenURL(campaignID, recipientID string) string {
	q := url.Values{}
	q.Set("cid", campaignID)
	q.Set("rid", recipientID)
	return i.BaseURL + OpenPath + "?" + q.Encode()
}

func (i *Injector) ClickURL(campaignID, recipientID, destination string) string {
	q := url.Values{}
	q.Set("cid", campaignID)
	q.Set("rid", recipientID)
	q.Set("url", destination)
	return i.BaseURL + ClickPath + "?" + q.Encode()
}

// IsTrackingURL reporta se o link já aponta para um endpoint de rastreamento.
func (i *Injector) IsTrackingURL(link string) bool {
	return strings.HasPrefix(link, i.BaseURL+ClickPath) || strings.HasPrefix(link, i.BaseURL+OpenPath)
}

// Inject devolve o HTML com links rastreados e o pixel de abertura. Aplicar
// duas vezes produz o mesmo resultado que aplicar uma.
func (i *Injector) Inject(doc, campaignID, recipientID string) string {
	doc = i.rewriteLinks(doc, campaignID, recipientID)
	return i.insertPixel(doc, campaignID, recipientID)
}

func (i *Injector) rewriteLinks(doc, campaignID, recipientID string) string {
	matches := hrefPattern.FindAllStringSubmatchIndex(doc, -1)
	if len(matches) == 0 {
		return doc
	}

	var b strings.Builder
	b.Grow(len(doc) + len(matches)*64)
	last := 0
	for _, m := range matches {
		start, end := m[2], m[3]
		if start < 0 {
			start, end = m[4], m[5]
		}
		link := html.UnescapeString(doc[start:end])
		if i.IsTrackingURL(link) {
			continue
		}
		b.WriteString(doc[last:start])
		b.WriteString(i.ClickURL(campaignID, recipientID, link))
		last = end
	}
	b.WriteString(doc[last:])
	return b.String()
}

func (i *Injector) insertPixel(doc, campaignID, recipientID string) string {
	src := i.OpenURL(campaignID, recipientID)
	if strings.Contains(doc, src) {
		return doc
	}
	pixel := `<img src="` + src + `" width="1" height="1" alt="" style="display:none;border:0" />`

	locs := bodyClosePattern.FindAllStringIndex(doc, -1)
	if len(locs) == 0 {
		return doc + pixel
	}
	at := locs[len(locs)-1][0]
	return doc[:at] + pixel + doc[at:]
}
