package certificate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Syntax is one surface form of a placeholder, e.g. "[[key]]".
type Syntax struct {
	Name  string
	Open  string
	Close string
}

// Syntaxes are every placeholder form the template editor is known to emit.
// Brackets may arrive entity-encoded depending on how content was entered.
var Syntaxes = []Syntax{
	{Name: "percent", Open: "%%", Close: "%%"},
	{Name: "square", Open: "[[", Close: "]]"},
	{Name: "curly", Open: "{{", Close: "}}"},
	{Name: "square-decimal", Open: "&#91;&#91;", Close: "&#93;&#93;"},
	{Name: "curly-decimal", Open: "&#123;&#123;", Close: "&#125;&#125;"},
	{Name: "square-named", Open: "&lbrack;&lbrack;", Close: "&rbrack;&rbrack;"},
}

const keyPattern = `([A-Za-z0-9_]+)`

func (s Syntax) pattern() string {
	return regexp.QuoteMeta(s.Open) + `\s*` + keyPattern + `\s*` + regexp.QuoteMeta(s.Close)
}

// Regexp matches this syntax around any key; submatch 1 is the key.
func (s Syntax) Regexp() *regexp.Regexp {
	return regexp.MustCompile(s.pattern())
}

// placeholderRe is the alternation of all syntaxes, one capture group each.
var placeholderRe = func() *regexp.Regexp {
	parts := make([]string, len(Syntaxes))
	for i, s := range Syntaxes {
		parts[i] = s.pattern()
	}
	return regexp.MustCompile(strings.Join(parts, "|"))
}()

var emptyImgRe = regexp.MustCompile(`(?is)<img\b[^>]*?\bsrc\s*=\s*(?:"\s*"|'\s*')[^>]*>`)

// Merge substitutes every placeholder whose key is in values, in a single
// left-to-right pass. Substituted text is never rescanned and unknown keys
// are left as written. When the image is empty, <img> tags with an empty
// src are removed.
func Merge(template string, values Values) string {
	out := substitute(template, values)
	if values.ImageEmpty() {
		out = StripEmptyImages(out)
	}
	return out
}

func substitute(template string, values Values) string {
	var b strings.Builder
	last, pos := 0, 0
	for pos < len(template) {
		m := placeholderRe.FindStringSubmatchIndex(template[pos:])
		if m == nil {
			break
		}
		start, end := pos+m[0], pos+m[1]

		val, ok := values[matchedKey(template[pos:], m)]
		if !ok {
			// an unknown key may overlap a real placeholder, e.g. "50%% off %%year%%"
			_, size := utf8.DecodeRuneInString(template[start:])
			pos = start + size
			continue
		}

		if b.Len() == 0 {
			b.Grow(len(template))
		}
		b.WriteString(template[last:start])
		b.WriteString(val)
		last, pos = end, end
	}
	if last == 0 {
		return template
	}
	b.WriteString(template[last:])
	return b.String()
}

func matchedKey(s string, m []int) string {
	for g := 1; g*2+1 < len(m); g++ {
		if m[g*2] >= 0 {
			return s[m[g*2]:m[g*2+1]]
		}
	}
	return ""
}

// StripEmptyImages removes <img> elements whose src attribute is blank.
func StripEmptyImages(html string) string {
	if html == "" {
		return html
	}
	return emptyImgRe.ReplaceAllLiteralString(html, "")
}
