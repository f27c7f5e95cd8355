package matching

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// DefaultTopN is the number of titles Suggest returns.
const DefaultTopN = 5

var skillSeparators = regexp.MustCompile(`[,;\n]+`)

// Score is one job's match against a skill list.
type Score struct {
	Title       string  `json:"title"`
	Matches     int     `json:"matches"`
	TechMatches int     `json:"techMatches"`
	SoftMatches int     `json:"softMatches"`
	MatchPct    float64 `json:"matchPct"`
	ReqPct      float64 `json:"reqPct"`
}

// Matcher ranks database jobs against skills.
type Matcher struct {
	db   *Database
	topN int
}

// NewMatcher builds a matcher returning topN titles; topN <= 0 means DefaultTopN.
func NewMatcher(db *Database, topN int) *Matcher {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Matcher{db: db, topN: topN}
}

// PreprocessSkills splits a comma, semicolon or newline separated list into
// lower-case, trimmed, non-empty skills.
func PreprocessSkills(input string) []string {
	parts := skillSeparators.Split(strings.ToLower(input), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Score rates every job in database order. A skill counts once per side (tech, soft)
// when it contains, or is contained in, any of that side's requirements.
// Jobs without a single match are omitted.
func (m *Matcher) Score(skills []string) []Score {
	skills = normalizeList(skills)
	if len(skills) == 0 {
		return []Score{}
	}
	scores := make([]Score, 0)
	for _, job := range m.db.jobs {
		tech := countMatches(skills, job.Tech)
		soft := countMatches(skills, job.Soft)
		total := tech + soft
		if total == 0 {
			continue
		}
		s := Score{
			Title:       job.Title,
			Matches:     total,
			TechMatches: tech,
			SoftMatches: soft,
			MatchPct:    float64(total) / float64(len(skills)),
		}
		if required := len(job.Tech) + len(job.Soft); required > 0 {
			s.ReqPct = float64(total) / float64(required)
		}
		scores = append(scores, s)
	}
	return scores
}

// Top orders scores by matches, then share of the caller's skills matched, then
// share of the job's requirements matched, all descending. Equal keys keep input order.
func Top(scores []Score, n int) []Score {
	out := append([]Score(nil), scores...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Matches != b.Matches {
			return a.Matches > b.Matches
		}
		if a.MatchPct != b.MatchPct {
			return a.MatchPct > b.MatchPct
		}
		return a.ReqPct > b.ReqPct
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Rank returns the best topN scores.
func (m *Matcher) Rank(skills []string) []Score {
	return Top(m.Score(skills), m.topN)
}

// Suggest returns the best job titles for skills, best first.
func (m *Matcher) Suggest(skills []string) []string {
	ranked := m.Rank(skills)
	titles := make([]string, 0, len(ranked))
	for _, s := range ranked {
		titles = append(titles, s.Title)
	}
	return titles
}

// SuggestText is Suggest over a free-form skill list such as "python, sql".
func (m *Matcher) SuggestText(input string) []string {
	if strings.TrimSpace(input) == "" {
		return []string{}
	}
	return m.Suggest(PreprocessSkills(input))
}

func countMatches(skills, required []string) int {
	n := 0
	for _, s := range skills {
		for _, r := range required {
			if containsPhrase(s, r) || containsPhrase(r, s) {
				n++
				break
			}
		}
	}
	return n
}

// containsPhrase reports whether needle occurs in hay with no letter or digit
// directly before or after it, so "react" is in "react.js" but "java" is not in "javascript".
func containsPhrase(hay, needle string) bool {
	if needle == "" {
		return false
	}
	for start := 0; start <= len(hay)-len(needle); {
		idx := strings.Index(hay[start:], needle)
		if idx < 0 {
			return false
		}
		i := start + idx
		end := i + len(needle)
		if !wordRuneBefore(hay, i) && !wordRuneAt(hay, end) {
			return true
		}
		start = i + 1
	}
	return false
}

func wordRuneBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r := []rune(s[:i])
	return isWord(r[len(r)-1])
}

func wordRuneAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	for _, r := range s[i:] {
		return isWord(r)
	}
	return false
}

func isWord(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
