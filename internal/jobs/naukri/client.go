package naukri

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL   = "https://www.naukri.com"
	defaultPageSize  = 20
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	searchPath       = "/jobapi/v3/search"
)

// NewClient instantiates a Naukri API client.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		pageSize:   pageSize,
		userAgent:  userAgent,
	}
}

// SearchJobs fetches one result page.
func (c *Client) SearchJobs(ctx context.Context, params SearchParams) ([]Job, error) {
	if c == nil {
		return nil, fmt.Errorf("naukri: client is nil")
	}
	u, err := c.buildSearchURL(params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("naukri: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("appid", "109")
	req.Header.Set("systemid", "Naukri")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("naukri: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("naukri: API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("naukri: decode response: %w", err)
	}

	jobs := make([]Job, 0, len(payload.JobDetails))
	for _, d := range payload.JobDetails {
		jobs = append(jobs, c.mapDetail(d))
	}
	return jobs, nil
}

func (c *Client) buildSearchURL(params SearchParams) (string, error) {
	keyword := strings.TrimSpace(params.Keyword)
	if keyword == "" {
		return "", fmt.Errorf("naukri: keyword is required")
	}
	u, err := url.Parse(c.baseURL + searchPath)
	if err != nil {
		return "", fmt.Errorf("naukri: parse base url: %w", err)
	}
	page := params.Page
	if page <= 0 {
		page = 1
	}

	values := url.Values{}
	values.Set("noOfResults", strconv.Itoa(c.pageSize))
	values.Set("urlType", "search_by_key_loc")
	values.Set("searchType", "adv")
	values.Set("keyword", keyword)
	values.Set("k", keyword)
	values.Set("pageNo", strconv.Itoa(page))
	values.Set("seoKey", seoKey(keyword, params.Location))
	values.Set("src", "jobsearchDesk")
	if loc := strings.TrimSpace(params.Location); loc != "" {
		values.Set("location", loc)
		values.Set("l", loc)
	}
	if params.Experience >= 0 {
		values.Set("experience", strconv.Itoa(params.Experience))
	}
	u.RawQuery = values.Encode()
	return u.String(), nil
}

// seoKey mirrors the site's own slug, e.g. "python-developer-jobs-in-bangalore".
func seoKey(keyword, location string) string {
	slug := func(s string) string {
		return strings.Join(strings.Fields(strings.ToLower(s)), "-")
	}
	key := slug(keyword) + "-jobs"
	if location = strings.TrimSpace(location); location != "" {
		key += "-in-" + slug(location)
	}
	return key
}

func (c *Client) mapDetail(d jobDetail) Job {
	job := Job{
		ID:          d.JobID,
		Title:       strings.TrimSpace(d.Title),
		Company:     strings.TrimSpace(d.CompanyName),
		Description: d.JobDescription,
		URL:         c.resolveURL(d.JdURL),
		PostedLabel: strings.TrimSpace(strings.TrimPrefix(d.FooterPlaceholderLabel, "Posted: ")),
	}
	if d.CreatedDate > 0 {
		job.PostedAt = time.UnixMilli(d.CreatedDate).UTC()
	}
	for _, p := range d.Placeholders {
		switch strings.ToLower(p.Type) {
		case "experience":
			job.Experience = strings.TrimSpace(p.Label)
		case "salary":
			job.Salary = strings.TrimSpace(p.Label)
		case "location":
			job.Location = strings.TrimSpace(p.Label)
		}
	}
	for _, s := range strings.Split(d.TagsAndSkills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			job.Skills = append(job.Skills, s)
		}
	}
	return job
}

func (c *Client) resolveURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	base, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return raw
	}
	return base.ResolveReference(ref).String()
}
