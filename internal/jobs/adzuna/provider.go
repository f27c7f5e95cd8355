package adzuna

import (
	"context"
	"fmt"
	"strconv"

	"findmyjob-backend/internal/jobs"
)

// searchClient describes the subset of the Adzuna client used by the provider.
type searchClient interface {
	SearchJobs(ctx context.Context, query string, params SearchParams) ([]Job, error)
}

// Provider implements jobs.Provider using Adzuna API.
type Provider struct {
	client searchClient
}

// NewProvider builds an Adzuna provider.
func NewProvider(client searchClient) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("adzuna provider: client is required")
	}
	return &Provider{client: client}, nil
}

// Name returns provider identifier.
func (p *Provider) Name() string {
	return "adzuna"
}

// Search queries Adzuna page by page. Adzuna has no experience filter.
func (p *Provider) Search(ctx context.Context, q jobs.Query) ([]jobs.Listing, error) {
	var out []jobs.Listing
	for page := 1; page <= q.Pages; page++ {
		found, err := p.client.SearchJobs(ctx, q.Keyword, SearchParams{Location: q.Location, Page: page})
		if err != nil {
			if len(out) > 0 {
				return out, nil
			}
			return nil, err
		}
		if len(found) == 0 {
			break
		}
		for _, j := range found {
			out = append(out, toListing(j))
		}
	}
	return out, nil
}

func toListing(j Job) jobs.Listing {
	l := jobs.Listing{
		Title:       jobs.StripHTML(j.Title),
		Company:     j.CompanyName,
		Location:    j.Location,
		Salary:      formatSalary(j.SalaryMin, j.SalaryMax),
		Description: jobs.StripHTML(j.Description),
		URL:         j.URL,
		Skills:      j.Category,
	}
	if !j.PostedAt.IsZero() {
		l.PostedDate = j.PostedAt.Format("2006-01-02")
	}
	return l
}

func formatSalary(lo, hi float64) string {
	format := func(v float64) string { return strconv.FormatFloat(v, 'f', 0, 64) }
	switch {
	case lo <= 0 && hi <= 0:
		return ""
	case lo <= 0 || lo == hi:
		return format(hi)
	case hi <= 0:
		return format(lo)
	default:
		return format(lo) + " - " + format(hi)
	}
}

var _ jobs.Provider = (*Provider)(nil)
