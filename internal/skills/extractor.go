package skills

import (
	"sort"
	"strings"
	"unicode"
)

const (
	maxWindow       = 3
	minFuzzyLen     = 4
	maxHeadingWords = 4
	maxSectionLines = 40
)

var sectionKeywords = []string{"skills", "technologies", "competencies", "proficiencies", "tech stack"}

// Extractor finds catalog skills in free text.
type Extractor struct {
	byFirst map[string][]phrase
	compact map[string]string
	exact   map[string]string
}

type phrase struct {
	tokens      []string
	name        string
	sectionOnly bool
}

// NewExtractor indexes every spelling of every catalog entry.
func NewExtractor(c *Catalog) *Extractor {
	e := &Extractor{
		byFirst: make(map[string][]phrase),
		compact: make(map[string]string),
		exact:   make(map[string]string),
	}
	for _, entry := range c.Entries() {
		for _, spelling := range append([]string{entry.Name}, entry.Aliases...) {
			toks := tokenize(spelling)
			if len(toks) == 0 {
				continue
			}
			p := phrase{tokens: toks, name: entry.Name, sectionOnly: entry.SectionOnly}
			e.byFirst[toks[0]] = append(e.byFirst[toks[0]], p)
			e.exact[strings.Join(toks, " ")] = entry.Name
			if !entry.SectionOnly {
				if key := strings.Join(toks, ""); len(key) >= minFuzzyLen {
					e.compact[key] = entry.Name
				}
			}
		}
	}
	return e
}

var defaultExtractor = NewExtractor(DefaultCatalog())

// Extract runs the default extractor.
func Extract(text string) []string {
	return defaultExtractor.Extract(text)
}

// Extract returns the canonical names of all skills found in text, sorted and unique.
func (e *Extractor) Extract(text string) []string {
	found := make(map[string]struct{})
	tokens := tokenize(text)

	e.matchTokens(tokens, false, 0, found)
	e.matchCompact(tokens, found)
	for _, section := range skillSections(text) {
		for _, item := range splitItems(section) {
			e.matchItem(item, found)
		}
	}

	out := make([]string, 0, len(found))
	for name := range found {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// matchTokens adds every phrase that occurs as a whole token sequence.
func (e *Extractor) matchTokens(tokens []string, allowSectionOnly bool, minLen int, found map[string]struct{}) {
	for i, tok := range tokens {
		for _, p := range e.byFirst[tok] {
			if p.sectionOnly && !allowSectionOnly {
				continue
			}
			if minLen > 0 && len(strings.Join(p.tokens, " ")) < minLen {
				continue
			}
			if hasTokensAt(tokens, i, p.tokens) {
				found[p.name] = struct{}{}
			}
		}
	}
}

// matchCompact catches spellings written without separators, e.g. "powerbi" or "machinelearning".
func (e *Extractor) matchCompact(tokens []string, found map[string]struct{}) {
	for i := range tokens {
		var b strings.Builder
		for n := 0; n < maxWindow && i+n < len(tokens); n++ {
			b.WriteString(tokens[i+n])
			if name, ok := e.compact[b.String()]; ok {
				found[name] = struct{}{}
			}
		}
	}
}

// matchItem handles one entry of a skills list: an exact spelling, or any longer
// spelling contained in it.
func (e *Extractor) matchItem(item string, found map[string]struct{}) {
	toks := tokenize(item)
	if len(toks) == 0 {
		return
	}
	if name, ok := e.exact[strings.Join(toks, " ")]; ok {
		found[name] = struct{}{}
		return
	}
	e.matchTokens(toks, true, minFuzzyLen, found)
}

func hasTokensAt(tokens []string, i int, want []string) bool {
	if i+len(want) > len(tokens) {
		return false
	}
	for j, w := range want {
		if tokens[i+j] != w {
			return false
		}
	}
	return true
}

// Preprocess lower-cases text and reduces it to space-separated tokens.
func Preprocess(text string) string {
	return strings.Join(tokenize(text), " ")
}

// tokenize keeps letters, digits and "+#." inside tokens so that "c++", "c#" and
// "node.js" survive. A slash is its own token.
func tokenize(text string) []string {
	var (
		tokens []string
		cur    strings.Builder
	)
	flush := func() {
		tok := strings.TrimRight(cur.String(), ".")
		cur.Reset()
		if strings.IndexFunc(tok, isAlnum) >= 0 {
			tokens = append(tokens, tok)
		}
	}
	for _, r := range strings.ToLower(text) {
		switch {
		case isAlnum(r), r == '+', r == '#', r == '.':
			cur.WriteRune(r)
		case r == '/':
			flush()
			tokens = append(tokens, "/")
		default:
			flush()
		}
	}
	flush()
	return trimSlashes(tokens)
}

func trimSlashes(tokens []string) []string {
	for len(tokens) > 0 && tokens[0] == "/" {
		tokens = tokens[1:]
	}
	for len(tokens) > 0 && tokens[len(tokens)-1] == "/" {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// skillSections returns the text under each skills heading, up to the next blank line.
// Text after the heading keyword on the same line is included.
func skillSections(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var sections []string
	for i := 0; i < len(lines); i++ {
		rest, ok := headingRemainder(lines[i])
		if !ok {
			continue
		}
		body := []string{rest}
		j := i + 1
		for ; j < len(lines) && j-i <= maxSectionLines; j++ {
			if strings.TrimSpace(lines[j]) == "" {
				break
			}
			body = append(body, lines[j])
		}
		sections = append(sections, strings.Join(body, "\n"))
		i = j - 1
	}
	return sections
}

func headingRemainder(line string) (string, bool) {
	head, rest := line, ""
	if idx := strings.Index(line, ":"); idx >= 0 {
		head, rest = line[:idx], line[idx:]
	}
	lower := strings.ToLower(head)
	if len(strings.Fields(lower)) > maxHeadingWords {
		return "", false
	}
	for _, kw := range sectionKeywords {
		if strings.Contains(lower, kw) {
			return rest, true
		}
	}
	return "", false
}

func splitItems(section string) []string {
	return strings.FieldsFunc(section, func(r rune) bool {
		switch r {
		case ',', ';', '|', '\n', '\t', ':', '•', '·', '▪', '●':
			return true
		}
		return false
	})
}
