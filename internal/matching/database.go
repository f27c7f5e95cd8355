package matching

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
)

//go:embed jobs.json
var embeddedJobs []byte

// Job is one job title with the skills it asks for.
type Job struct {
	Title string   `json:"title"`
	Tech  []string `json:"tech"`
	Soft  []string `json:"soft"`
}

// Database is an ordered list of jobs. Order breaks ranking ties.
type Database struct {
	jobs []Job
}

// LoadDatabase reads a JSON array of jobs. Skills are lower-cased and trimmed;
// blank titles and repeated titles are rejected.
func LoadDatabase(r io.Reader) (*Database, error) {
	var raw []Job
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode job database: %w", err)
	}
	seen := make(map[string]struct{}, len(raw))
	jobs := make([]Job, 0, len(raw))
	for i, j := range raw {
		title := strings.TrimSpace(j.Title)
		if title == "" {
			return nil, fmt.Errorf("job database entry %d: empty title", i)
		}
		if _, dup := seen[title]; dup {
			return nil, fmt.Errorf("job database entry %d: duplicate title %q", i, title)
		}
		seen[title] = struct{}{}
		jobs = append(jobs, Job{Title: title, Tech: normalizeList(j.Tech), Soft: normalizeList(j.Soft)})
	}
	return &Database{jobs: jobs}, nil
}

var (
	defaultOnce sync.Once
	defaultDB   *Database
	defaultErr  error
)

// DefaultDatabase returns the built-in job database.
func DefaultDatabase() (*Database, error) {
	defaultOnce.Do(func() {
		defaultDB, defaultErr = LoadDatabase(strings.NewReader(string(embeddedJobs)))
	})
	return defaultDB, defaultErr
}

// Jobs returns the jobs in database order.
func (d *Database) Jobs() []Job {
	return append([]Job(nil), d.jobs...)
}

func (d *Database) Len() int { return len(d.jobs) }

// Lookup finds a job by exact title.
func (d *Database) Lookup(title string) (Job, bool) {
	for _, j := range d.jobs {
		if j.Title == title {
			return j, true
		}
	}
	return Job{}, false
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
