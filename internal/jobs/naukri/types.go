package naukri

import (
	"net/http"
	"time"
)

// Config defines Naukri search client settings.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	PageSize   int
	UserAgent  string
}

// Client queries the Naukri job search API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	pageSize   int
	userAgent  string
}

// SearchParams describe one page of a search.
type SearchParams struct {
	Keyword    string
	Location   string
	Experience int
	Page       int
}

type searchResponse struct {
	JobDetails []jobDetail `json:"jobDetails"`
	NoOfJobs   int         `json:"noOfJobs"`
}

type jobDetail struct {
	JobID                  string        `json:"jobId"`
	Title                  string        `json:"title"`
	CompanyName            string        `json:"companyName"`
	JdURL                  string        `json:"jdURL"`
	JobDescription         string        `json:"jobDescription"`
	TagsAndSkills          string        `json:"tagsAndSkills"`
	FooterPlaceholderLabel string        `json:"footerPlaceholderLabel"`
	CreatedDate            int64         `json:"createdDate"`
	Placeholders           []placeholder `json:"placeholders"`
}

type placeholder struct {
	Type  string `json:"type"`
	Label string `json:"label"`
}

// Job is one posting as returned by the API, flattened.
type Job struct {
	ID          string
	Title       string
	Company     string
	Location    string
	Experience  string
	Salary      string
	Description string
	URL         string
	PostedLabel string
	PostedAt    time.Time
	Skills      []string
}
