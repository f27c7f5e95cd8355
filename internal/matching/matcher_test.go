package matching

import (
	"reflect"
	"strings"
	"testing"
)

func defaultMatcher(t *testing.T) *Matcher {
	t.Helper()
	db, err := DefaultDatabase()
	if err != nil {
		t.Fatalf("DefaultDatabase: %v", err)
	}
	return NewMatcher(db, 0)
}

func TestDefaultDatabaseLoads(t *testing.T) {
	db, err := DefaultDatabase()
	if err != nil {
		t.Fatalf("DefaultDatabase: %v", err)
	}
	if db.Len() != 95 {
		t.Fatalf("expected 95 jobs, got %d", db.Len())
	}
	if first := db.Jobs()[0].Title; first != "Frontend Developer" {
		t.Fatalf("expected database order preserved, first=%q", first)
	}
	for _, j := range db.Jobs() {
		for _, s := range append(append([]string{}, j.Tech...), j.Soft...) {
			if s != strings.ToLower(s) {
				t.Fatalf("%s: skill %q not lower-cased", j.Title, s)
			}
		}
	}
}

func TestPreprocessSkills(t *testing.T) {
	got := PreprocessSkills(" Python, SQL;;\nMachine Learning ,, ")
	want := []string{"python", "sql", "machine learning"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("PreprocessSkills = %v, want %v", got, want)
	}
}

func TestSuggestRanksByMatches(t *testing.T) {
	m := defaultMatcher(t)
	got := m.Suggest([]string{"python", "sql", "machine learning", "pandas", "communication"})
	want := []string{"Data Scientist", "Data Analyst", "Full Stack Developer", "Air Traffic Controller", "Commercial Pilot"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Suggest = %v, want %v", got, want)
	}
}

func TestScoreFields(t *testing.T) {
	m := defaultMatcher(t)
	top := m.Rank([]string{"html", "css", "javascript", "react.js"})
	if len(top) != 2 {
		t.Fatalf("expected 2 matching jobs, got %d (%v)", len(top), top)
	}
	first := top[0]
	if first.Title != "Frontend Developer" || first.Matches != 4 || first.TechMatches != 4 || first.SoftMatches != 0 {
		t.Fatalf("unexpected first score %+v", first)
	}
	if first.MatchPct != 1.0 {
		t.Fatalf("expected match pct 1, got %v", first.MatchPct)
	}
	if top[1].Title != "Full Stack Developer" || top[1].ReqPct >= first.ReqPct {
		t.Fatalf("expected requirement share to break the tie, got %+v", top[1])
	}
}

func TestTopKeepsDatabaseOrderOnTies(t *testing.T) {
	m := defaultMatcher(t)
	got := m.Suggest([]string{"leadership"})
	want := []string{"Healthcare Administrator", "Teacher", "Chief Financial Officer (CFO)", "Production Manager", "HR Manager"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Suggest = %v, want %v", got, want)
	}
}

func TestTopCapsAndIsStable(t *testing.T) {
	scores := []Score{
		{Title: "a", Matches: 1, MatchPct: 0.5, ReqPct: 0.1},
		{Title: "b", Matches: 2, MatchPct: 0.5, ReqPct: 0.1},
		{Title: "c", Matches: 1, MatchPct: 0.5, ReqPct: 0.1},
		{Title: "d", Matches: 1, MatchPct: 0.5, ReqPct: 0.2},
	}
	got := Top(scores, 3)
	titles := []string{got[0].Title, got[1].Title, got[2].Title}
	if !reflect.DeepEqual(titles, []string{"b", "d", "a"}) {
		t.Fatalf("unexpected order %v", titles)
	}
	if scores[0].Title != "a" {
		t.Fatalf("Top must not reorder its input")
	}
}

func TestSuggestEmptyInput(t *testing.T) {
	m := defaultMatcher(t)
	if got := m.SuggestText("   "); got == nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %#v", got)
	}
	if got := m.Suggest(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %#v", got)
	}
	if got := m.SuggestText("underwater basket weaving"); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}

func TestContainsPhrase(t *testing.T) {
	cases := []struct {
		hay, needle string
		want        bool
	}{
		{"react.js", "react", true},
		{"javascript", "java", false},
		{"rest api", "api", true},
		{"mysql", "sql", false},
		{"c++", "c", true},
		{"sql", "sql", true},
		{"data analysis", "analysis", true},
		{"x", "", false},
	}
	for _, tc := range cases {
		if got := containsPhrase(tc.hay, tc.needle); got != tc.want {
			t.Fatalf("containsPhrase(%q, %q) = %v, want %v", tc.hay, tc.needle, got, tc.want)
		}
	}
}

func TestLoadDatabaseRejectsDuplicates(t *testing.T) {
	_, err := LoadDatabase(strings.NewReader(`[{"title":"A","tech":["x"],"soft":[]},{"title":"A","tech":[],"soft":[]}]`))
	if err == nil {
		t.Fatalf("expected duplicate title error")
	}
}
