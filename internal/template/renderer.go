// Package template renderiza mensagens de campanha a partir de um corpo com
// placeholders e de um mapa de variáveis. Não faz I/O.
package template

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/xavierca1/ligue-campaigns/internal/entity"
)

// SMSSegmentSize é o limite de caracteres de um SMS simples.
const SMSSegmentSize = 160

var ErrMalformedTemplate = errors.New("template malformado")

// placeholderPattern casa {{ chave }} e o formato legado {chave}. Cada token é
// consumido inteiro, então uma chave curta nunca casa dentro de outra maior.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_][A-Za-z0-9_.\-]*)\s*\}\}|\{([A-Za-z0-9_][A-Za-z0-9_.\-]*)\}`)

var tagPattern = regexp.MustCompile(`<\s*/?\s*[A-Za-z][^>]*>`)

var blankLinePattern = regexp.MustCompile(`\n[ \t]*\n+`)

type Options struct {
	Channel entity.Channel
	// CleanUnused remove placeholders sem valor em vez de deixá-los visíveis.
	CleanUnused bool
	// Default substitui placeholders removidos por CleanUnused.
	Default string
}

type SMSInfo struct {
	Characters int  `json:"characters"`
	Segments   int  `json:"segments"`
	WillSplit  bool `json:"will_split"`
}

type Result struct {
	Subject *string  `json:"subject,omitempty"`
	Body    string   `json:"body"`
	HTML    string   `json:"html,omitempty"`
	SMS     *SMSInfo `json:"sms,omitempty"`
}

// Render substitui as variáveis do corpo e do assunto e aplica o
// pós-processamento do canal. Variáveis ausentes nunca geram erro.
func Render(body string, subject *string, bindings map[string]string, opts Options) (*Result, error) {
	if !utf8.ValidString(body) {
		return nil, fmt.Errorf("%w: corpo com UTF-8 inválido", ErrMalformedTemplate)
	}
	if subject != nil && !utf8.ValidString(*subject) {
		return nil, fmt.Errorf("%w: assunto com UTF-8 inválido", ErrMalformedTemplate)
	}

	values := normalizeBindings(bindings)

	result := &Result{
		Body: substitute(body, values, opts),
	}
	if subject != nil {
		s := substitute(*subject, values, opts)
		result.Subject = &s
	}

	switch opts.Channel {
	case entity.ChannelEmail:
		result.HTML = ToHTML(body, result.Body)
	case entity.ChannelSMS:
		result.SMS = MeasureSMS(result.Body)
	}

	return result, nil
}

// Placeholders lista as chaves distintas referenciadas pelo corpo, na ordem em
// que aparecem.
func Placeholders(body string) []string {
	seen := map[string]bool{}
	var keys []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(body, -1) {
		key := m[1]
		if key == "" {
			key = m[2]
		}
		key = strings.ToLower(key)
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

// MeasureSMS conta caracteres e segmentos. O envio multi-segmento fica com o gateway.
func MeasureSMS(body string) *SMSInfo {
	chars := utf8.RuneCountInString(body)
	segments := (chars + SMSSegmentSize - 1) / SMSSegmentSize
	if segments < 1 {
		segments = 1
	}
	return &SMSInfo{
		Characters: chars,
		Segments:   segments,
		WillSplit:  chars > SMSSegmentSize,
	}
}

// ToHTML converte o corpo renderizado em HTML. A decisão entre texto puro e
// marcação é tomada sobre o corpo cru, antes da substituição, porque as
// variáveis podem trazer botões HTML prontos.
func ToHTML(raw, rendered string) string {
	if HasTags(raw) {
		return breakBareNewlines(rendered)
	}
	return paragraphsToHTML(rendered)
}

func HasTags(s string) bool {
	return tagPattern.MatchString(s)
}

func normalizeBindings(bindings map[string]string) map[string]string {
	keys := make([]string, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make(map[string]string, len(bindings))
	for _, k := range keys {
		lk := strings.ToLower(strings.TrimSpace(k))
		if _, exists := values[lk]; !exists {
			values[lk] = bindings[k]
		}
	}
	return values
}

func substitute(text string, values map[string]string, opts Options) string {
	matches := placeholderPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		var key string
		if m[2] >= 0 {
			key = text[m[2]:m[3]]
		} else {
			key = text[m[4]:m[5]]
		}

		b.WriteString(text[last:start])
		if v, ok := values[strings.ToLower(key)]; ok {
			b.WriteString(v)
		} else if opts.CleanUnused {
			b.WriteString(opts.Default)
		} else {
			b.WriteString(text[start:end])
		}
		last = end
	}
	b.WriteString(text[last:])
	return b.String()
}

func paragraphsToHTML(text string) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return ""
	}

	var paragraphs []string
	for _, block := range blankLinePattern.Split(text, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		for i := range lines {
			lines[i] = strings.TrimRight(lines[i], " \t")
		}
		paragraphs = append(paragraphs, "<p>"+strings.Join(lines, "<br>\n")+"</p>")
	}
	return strings.Join(paragraphs, "\n")
}

// breakBareNewlines troca por <br> apenas quebras entre trechos de texto; quebras
// encostadas em tags são formatação do editor e ficam como estão.
func breakBareNewlines(markup string) string {
	markup = strings.ReplaceAll(markup, "\r\n", "\n")
	lines := strings.Split(markup, "\n")

	var b strings.Builder
	b.Grow(len(markup))
	for i, line := range lines {
		b.WriteString(line)
		if i == len(lines)-1 {
			break
		}
		prev := strings.TrimSpace(line)
		next := strings.TrimSpace(lines[i+1])
		if prev == "" || next == "" || strings.HasSuffix(prev, ">") || strings.HasPrefix(next, "<") {
			b.WriteString("\n")
			continue
		}
		b.WriteString("<br>\n")
	}
	return b.String()
}
