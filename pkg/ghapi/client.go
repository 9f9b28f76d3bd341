package ghapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"

	"github.com/Sumatoshi-tech/ghpulse/pkg/contrib"
)

// Default client settings.
const (
	DefaultBaseURL       = "https://api.github.com/"
	DefaultTimeout       = 15 * time.Second
	DefaultUserAgent     = "ghpulse"
	DefaultReposPerPage  = 100
	DefaultEventsPerPage = 100

	sortUpdated = "updated"
)

// Options configure a Client.
type Options struct {
	BaseURL       string
	Timeout       time.Duration
	UserAgent     string
	ReposPerPage  int
	EventsPerPage int

	// HTTPClient overrides the transport. Timeout is ignored when it is set.
	HTTPClient *http.Client
}

// Client reads public account data from the GitHub REST API. It never authenticates
// and always reads a single page of each listing.
type Client struct {
	gh            *github.Client
	reposPerPage  int
	eventsPerPage int
}

// NewClient creates a Client. Zero option values fall back to the defaults.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}

		httpClient = &http.Client{Timeout: timeout}
	}

	gh := github.NewClient(httpClient)

	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}

		baseURL, parseErr := url.Parse(base)
		if parseErr != nil {
			return nil, fmt.Errorf("parse base url %q: %w", opts.BaseURL, parseErr)
		}

		gh.BaseURL = baseURL
	}

	gh.UserAgent = DefaultUserAgent
	if opts.UserAgent != "" {
		gh.UserAgent = opts.UserAgent
	}

	return &Client{
		gh:            gh,
		reposPerPage:  orDefault(opts.ReposPerPage, DefaultReposPerPage),
		eventsPerPage: orDefault(opts.EventsPerPage, DefaultEventsPerPage),
	}, nil
}

// Profile fetches the public profile of handle.
func (c *Client) Profile(ctx context.Context, handle string) (*Profile, error) {
	user, _, err := c.gh.Users.Get(ctx, handle)
	if err != nil {
		return nil, classify("get profile "+handle, err)
	}

	return profileFrom(user), nil
}

// Repositories lists the public repositories of handle, most recently updated first.
func (c *Client) Repositories(ctx context.Context, handle string) ([]Repository, error) {
	opts := &github.RepositoryListByUserOptions{
		Sort:        sortUpdated,
		ListOptions: github.ListOptions{PerPage: c.reposPerPage},
	}

	repos, _, err := c.gh.Repositories.ListByUser(ctx, handle, opts)
	if err != nil {
		return nil, classify("list repositories of "+handle, err)
	}

	out := make([]Repository, 0, len(repos))
	for _, r := range repos {
		out = append(out, repositoryFrom(r))
	}

	return out, nil
}

// CommitActivity fetches the weekly commit counts of the last year for owner/repo.
// GitHub answers 202 while it computes the statistics; that yields an empty series.
func (c *Client) CommitActivity(ctx context.Context, owner, repo string) ([]contrib.CommitActivityWeek, error) {
	weeks, _, err := c.gh.Repositories.ListCommitActivity(ctx, owner, repo)
	if err != nil {
		var accepted *github.AcceptedError
		if errors.As(err, &accepted) {
			return []contrib.CommitActivityWeek{}, nil
		}

		return nil, classify("get commit activity of "+owner+"/"+repo, err)
	}

	out := make([]contrib.CommitActivityWeek, 0, len(weeks))
	for _, w := range weeks {
		out = append(out, contrib.CommitActivityWeek{
			Week: w.GetWeek().Unix(),
			Days: w.Days,
		})
	}

	return out, nil
}

// RecentEvents fetches the most recent public events performed by handle.
func (c *Client) RecentEvents(ctx context.Context, handle string) ([]Event, error) {
	opts := &github.ListOptions{PerPage: c.eventsPerPage}

	events, _, err := c.gh.Activity.ListEventsPerformedByUser(ctx, handle, true, opts)
	if err != nil {
		return nil, classify("list events of "+handle, err)
	}

	out := make([]Event, 0, len(events))
	for _, e := range events {
		out = append(out, eventFrom(e))
	}

	return out, nil
}

// EventTimes returns the creation times of events.
func EventTimes(events []Event) []time.Time {
	times := make([]time.Time, 0, len(events))
	for _, e := range events {
		times = append(times, e.CreatedAt)
	}

	return times
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}

	return v
}
