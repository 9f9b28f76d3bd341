package dashboard_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/ghpulse/pkg/contrib"
	"github.com/Sumatoshi-tech/ghpulse/pkg/dashboard"
	"github.com/Sumatoshi-tech/ghpulse/pkg/ghapi"
)

const handle = "octocat"

var (
	testNow = time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)

	errBoom = errors.New("boom")
)

// fakeSource serves canned data and records which repositories were asked for.
type fakeSource struct {
	profileErr error
	reposErr   error
	eventsErr  error

	repos     []ghapi.Repository
	events    []ghapi.Event
	activity  map[string][]contrib.CommitActivityWeek
	failRepos map[string]bool

	mu        sync.Mutex
	requested []string
}

func (f *fakeSource) Profile(_ context.Context, h string) (*ghapi.Profile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}

	return &ghapi.Profile{Login: h, Name: "The Octocat"}, nil
}

func (f *fakeSource) Repositories(context.Context, string) ([]ghapi.Repository, error) {
	if f.reposErr != nil {
		return nil, f.reposErr
	}

	return f.repos, nil
}

func (f *fakeSource) CommitActivity(_ context.Context, owner, repo string) ([]contrib.CommitActivityWeek, error) {
	f.mu.Lock()
	f.requested = append(f.requested, owner+"/"+repo)
	f.mu.Unlock()

	if f.failRepos[repo] {
		return nil, fmt.Errorf("commit activity of %s: %w", repo, ghapi.ErrUpstream)
	}

	return f.activity[repo], nil
}

func (f *fakeSource) RecentEvents(context.Context, string) ([]ghapi.Event, error) {
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}

	return f.events, nil
}

func (f *fakeSource) requestedRepos() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.requested...)
}

func repo(name string, updatedDaysAgo int, fork bool, stars int) ghapi.Repository {
	return ghapi.Repository{
		Name:      name,
		FullName:  handle + "/" + name,
		Owner:     handle,
		Fork:      fork,
		Stars:     stars,
		UpdatedAt: testNow.AddDate(0, 0, -updatedDaysAgo),
	}
}

// week returns a commit-activity week starting on the given date.
func week(t *testing.T, start string, days ...int) contrib.CommitActivityWeek {
	t.Helper()

	d, err := contrib.ParseDate(start)
	require.NoError(t, err)

	return contrib.CommitActivityWeek{Week: d.Time().Unix(), Days: days}
}

func newService(src dashboard.Source, opts dashboard.Options) *dashboard.Service {
	opts.Now = func() time.Time { return testNow }

	return dashboard.NewService(src, opts)
}

func TestContributionReport_MergesCommitsAndEvents(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		repos: []ghapi.Repository{repo("alpha", 1, false, 3), repo("beta", 2, false, 1)},
		activity: map[string][]contrib.CommitActivityWeek{
			"alpha": {week(t, "2025-06-01", 0, 2, 0, 0, 0, 0, 0)},
			"beta":  {week(t, "2025-06-01", 0, 1, 0, 0, 0, 0, 4)},
		},
		events: []ghapi.Event{
			{Type: "PushEvent", CreatedAt: time.Date(2025, time.June, 2, 15, 0, 0, 0, time.UTC)},
			{Type: "IssuesEvent", CreatedAt: time.Date(2025, time.June, 14, 8, 0, 0, 0, time.UTC)},
		},
	}

	report, err := newService(src, dashboard.Options{Fallback: true, Seed: 1}).ContributionReport(context.Background(), handle)
	require.NoError(t, err)

	assert.False(t, report.Synthetic)
	assert.Equal(t, 9, report.TotalContributions)
	assert.Equal(t, contrib.Date("2025-06-15"), report.End)

	byDate := make(map[contrib.Date]int)
	for _, d := range report.Days() {
		byDate[d.Date] = d.Count
	}

	assert.Equal(t, 4, byDate["2025-06-02"])
	assert.Equal(t, 4, byDate["2025-06-07"])
	assert.Equal(t, 1, byDate["2025-06-14"])
}

func TestContributionReport_SelectsTopNonForkRepositories(t *testing.T) {
	t.Parallel()

	repos := make([]ghapi.Repository, 0, 14)
	for i := range 12 {
		repos = append(repos, repo(fmt.Sprintf("repo-%02d", i), i, false, 0))
	}

	repos = append(repos, repo("fork-newest", 0, true, 100), repo("fork-other", 0, true, 0))

	src := &fakeSource{repos: repos}

	_, err := newService(src, dashboard.Options{}).ContributionReport(context.Background(), handle)
	require.NoError(t, err)

	requested := src.requestedRepos()
	assert.Len(t, requested, dashboard.DefaultTopRepos)
	assert.NotContains(t, requested, "octocat/fork-newest")
	assert.NotContains(t, requested, "octocat/repo-10")
	assert.NotContains(t, requested, "octocat/repo-11")
	assert.Contains(t, requested, "octocat/repo-00")
	assert.Contains(t, requested, "octocat/repo-09")
}

func TestContributionReport_ProfileFailureIsFatal(t *testing.T) {
	t.Parallel()

	src := &fakeSource{profileErr: ghapi.ErrNotFound, repos: []ghapi.Repository{repo("alpha", 0, false, 0)}}

	_, err := newService(src, dashboard.Options{}).ContributionReport(context.Background(), handle)
	require.ErrorIs(t, err, ghapi.ErrNotFound)
	assert.Empty(t, src.requestedRepos())
}

func TestContributionReport_RepositoryFailureIsFatal(t *testing.T) {
	t.Parallel()

	src := &fakeSource{reposErr: ghapi.ErrRateLimited}

	_, err := newService(src, dashboard.Options{}).ContributionReport(context.Background(), handle)
	require.ErrorIs(t, err, ghapi.ErrRateLimited)
}

func TestContributionReport_EventsFailureIsTolerated(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		eventsErr: errBoom,
		repos:     []ghapi.Repository{repo("alpha", 0, false, 0)},
		activity:  map[string][]contrib.CommitActivityWeek{"alpha": {week(t, "2025-06-01", 1, 1, 1, 0, 0, 0, 0)}},
	}

	report, err := newService(src, dashboard.Options{}).ContributionReport(context.Background(), handle)
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalContributions)
}

func TestContributionReport_RepositoryFailureCountsAsEmpty(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		repos:     []ghapi.Repository{repo("alpha", 0, false, 0), repo("beta", 1, false, 0)},
		activity:  map[string][]contrib.CommitActivityWeek{"beta": {week(t, "2025-06-01", 2, 0, 0, 0, 0, 0, 0)}},
		failRepos: map[string]bool{"alpha": true},
	}

	report, err := newService(src, dashboard.Options{}).ContributionReport(context.Background(), handle)
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalContributions)
	assert.Len(t, src.requestedRepos(), 2)
}

func TestContributionReport_FallbackOnlyWhenEnabled(t *testing.T) {
	t.Parallel()

	src := &fakeSource{repos: []ghapi.Repository{repo("quiet", 0, false, 0)}}

	strict, err := newService(src, dashboard.Options{}).ContributionReport(context.Background(), handle)
	require.NoError(t, err)
	assert.False(t, strict.Synthetic)
	assert.Zero(t, strict.TotalContributions)

	first, err := newService(src, dashboard.Options{Fallback: true, Seed: 7}).ContributionReport(context.Background(), handle)
	require.NoError(t, err)
	assert.True(t, first.Synthetic)
	assert.Positive(t, first.TotalContributions)

	second, err := newService(src, dashboard.Options{Fallback: true, Seed: 7}).ContributionReport(context.Background(), handle)
	require.NoError(t, err)
	assert.Equal(t, first.Weeks, second.Weeks)
}

func TestContributionReport_ReportsProgress(t *testing.T) {
	t.Parallel()

	src := &fakeSource{repos: []ghapi.Repository{repo("a", 0, false, 0), repo("b", 1, false, 0), repo("c", 2, false, 0)}}

	var (
		calls []int
		total int
	)

	svc := newService(src, dashboard.Options{Progress: func(done, n int) {
		calls = append(calls, done)
		total = n
	}})

	_, err := svc.ContributionReport(context.Background(), handle)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, calls)
	assert.Equal(t, 3, total)
}
