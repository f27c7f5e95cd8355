package naukri

import (
	"context"
	"fmt"
	"strings"

	"findmyjob-backend/internal/jobs"
)

// ProviderName identifies Naukri listings in search results.
const ProviderName = "naukri"

// searchClient describes the subset of the Naukri client used by the provider.
type searchClient interface {
	SearchJobs(ctx context.Context, params SearchParams) ([]Job, error)
}

// Provider implements jobs.Provider on top of the Naukri search API.
type Provider struct {
	client searchClient
}

// NewProvider builds a Naukri provider.
func NewProvider(client searchClient) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("naukri provider: client is required")
	}
	return &Provider{client: client}, nil
}

// Name returns provider identifier.
func (p *Provider) Name() string {
	return ProviderName
}

// Search walks result pages 1..q.Pages and stops at the first empty page.
// A failure after the first page ends the walk with what was gathered.
func (p *Provider) Search(ctx context.Context, q jobs.Query) ([]jobs.Listing, error) {
	var out []jobs.Listing
	for page := 1; page <= q.Pages; page++ {
		found, err := p.client.SearchJobs(ctx, SearchParams{
			Keyword:    q.Keyword,
			Location:   q.Location,
			Experience: q.Experience,
			Page:       page,
		})
		if err != nil {
			if len(out) > 0 {
				return out, nil
			}
			return nil, fmt.Errorf("naukri page %d: %w", page, err)
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
	return jobs.Listing{
		Title:       j.Title,
		Company:     j.Company,
		Location:    j.Location,
		Experience:  j.Experience,
		Salary:      j.Salary,
		Description: jobs.StripHTML(j.Description),
		URL:         j.URL,
		PostedDate:  j.PostedLabel,
		Skills:      strings.Join(j.Skills, ", "),
	}
}

var _ jobs.Provider = (*Provider)(nil)
