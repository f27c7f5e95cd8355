package jobs

import (
	"fmt"
	"strings"
)

// Placeholder values for fields a job board did not provide.
const (
	NotSpecified  = "Not specified"
	NotDisclosed  = "Not disclosed"
	NoDescription = "No description provided"
)

// Listing is one job posting as shown to the user.
type Listing struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Experience  string `json:"experience"`
	Salary      string `json:"salary"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PostedDate  string `json:"posted_date"`
	Skills      string `json:"skills"`
	Source      string `json:"source,omitempty"`
}

// WithDefaults trims every field and fills blanks with the board placeholders.
func (l Listing) WithDefaults() Listing {
	l.Title = strings.TrimSpace(l.Title)
	l.URL = strings.TrimSpace(l.URL)
	l.Company = orDefault(l.Company, NotSpecified)
	l.Location = orDefault(l.Location, NotSpecified)
	l.Experience = orDefault(l.Experience, NotSpecified)
	l.Salary = orDefault(l.Salary, NotDisclosed)
	l.Description = orDefault(l.Description, NoDescription)
	l.PostedDate = orDefault(l.PostedDate, NotSpecified)
	l.Skills = orDefault(l.Skills, NotSpecified)
	return l
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

// Query describes one job board search.
type Query struct {
	Keyword    string `json:"keyword"`
	Location   string `json:"location"`
	Experience int    `json:"experience"`
	Pages      int    `json:"pages"`
}

const maxPages = 10

// Normalize trims the query and applies defaults for unset fields.
func (q Query) Normalize(defaults Query) Query {
	q.Keyword = strings.TrimSpace(q.Keyword)
	q.Location = strings.TrimSpace(q.Location)
	if q.Location == "" {
		q.Location = defaults.Location
	}
	if q.Experience < 0 {
		q.Experience = defaults.Experience
	}
	if q.Pages <= 0 {
		q.Pages = defaults.Pages
	}
	if q.Pages <= 0 {
		q.Pages = 1
	}
	if q.Pages > maxPages {
		q.Pages = maxPages
	}
	return q
}

// CacheKey identifies the query independent of letter case.
func (q Query) CacheKey() string {
	return fmt.Sprintf("%s|%s|%d|%d", strings.ToLower(q.Keyword), strings.ToLower(q.Location), q.Experience, q.Pages)
}
