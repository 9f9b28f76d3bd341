// Package dashboard assembles GitHub account data into contribution reports and
// profile dashboards.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/ghpulse/pkg/contrib"
	"github.com/Sumatoshi-tech/ghpulse/pkg/ghapi"
	"github.com/Sumatoshi-tech/ghpulse/pkg/observability"
)

// DefaultTopRepos is how many repositories feed commit activity when unset.
const DefaultTopRepos = 10

const (
	attrHandle = "ghpulse.handle"
	attrRepos  = "ghpulse.repositories"
	attrTotal  = "ghpulse.contributions"
)

// Source is the GitHub data the service reads. *ghapi.Client implements it.
type Source interface {
	Profile(ctx context.Context, handle string) (*ghapi.Profile, error)
	Repositories(ctx context.Context, handle string) ([]ghapi.Repository, error)
	CommitActivity(ctx context.Context, owner, repo string) ([]contrib.CommitActivityWeek, error)
	RecentEvents(ctx context.Context, handle string) ([]ghapi.Event, error)
}

// ProgressFunc is told how many of total commit-activity fetches have finished.
// Calls are serialized.
type ProgressFunc func(done, total int)

// Options configure a Service. Zero values pick the defaults.
type Options struct {
	TopRepos int

	// Fallback enables placeholder activity for accounts with no signal.
	Fallback bool

	// Seed makes placeholder activity reproducible. Zero draws a fresh seed per report.
	Seed uint64

	Now      func() time.Time
	Logger   *slog.Logger
	Tracer   trace.Tracer
	Metrics  *observability.ReportMetrics
	Progress ProgressFunc
}

// Service builds reports from a Source.
type Service struct {
	src      Source
	topRepos int
	fallback bool
	seed     uint64
	now      func() time.Time
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *observability.ReportMetrics
	progress ProgressFunc
}

// NewService creates a Service reading from src.
func NewService(src Source, opts Options) *Service {
	svc := &Service{
		src:      src,
		topRepos: opts.TopRepos,
		fallback: opts.Fallback,
		seed:     opts.Seed,
		now:      opts.Now,
		logger:   opts.Logger,
		tracer:   opts.Tracer,
		metrics:  opts.Metrics,
		progress: opts.Progress,
	}

	if svc.topRepos <= 0 {
		svc.topRepos = DefaultTopRepos
	}

	if svc.now == nil {
		svc.now = func() time.Time { return time.Now().UTC() }
	}

	if svc.logger == nil {
		svc.logger = observability.Discard()
	}

	if svc.tracer == nil {
		svc.tracer = nooptrace.NewTracerProvider().Tracer("ghpulse")
	}

	return svc
}

// account is the per-handle data fetched up front.
type account struct {
	profile *ghapi.Profile
	repos   []ghapi.Repository
	events  []ghapi.Event
}

// ContributionReport builds the one-year contribution calendar of handle. It fails
// only when the profile or the repository list cannot be fetched.
func (s *Service) ContributionReport(ctx context.Context, handle string) (contrib.Report, error) {
	ctx, span := s.tracer.Start(ctx, "ghpulse.dashboard.contributions",
		trace.WithAttributes(attribute.String(attrHandle, handle)))
	defer span.End()

	acc, err := s.fetchAccount(ctx, handle)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch account")

		return contrib.Report{}, err
	}

	report, _ := s.buildReport(ctx, handle, acc)

	return report, nil
}

// fetchAccount loads profile, repositories and events concurrently. An events
// failure leaves events empty.
func (s *Service) fetchAccount(ctx context.Context, handle string) (account, error) {
	var (
		acc                             account
		profileErr, reposErr, eventsErr error
		wg                              sync.WaitGroup
	)

	wg.Add(3)

	go func() {
		defer wg.Done()

		acc.profile, profileErr = s.src.Profile(ctx, handle)
	}()

	go func() {
		defer wg.Done()

		acc.repos, reposErr = s.src.Repositories(ctx, handle)
	}()

	go func() {
		defer wg.Done()

		acc.events, eventsErr = s.src.RecentEvents(ctx, handle)
	}()

	wg.Wait()

	if profileErr != nil {
		s.metrics.RecordFetchFailure(ctx, observability.SourceProfile)

		return account{}, fmt.Errorf("fetch profile of %s: %w", handle, profileErr)
	}

	if reposErr != nil {
		s.metrics.RecordFetchFailure(ctx, observability.SourceRepositories)

		return account{}, fmt.Errorf("fetch repositories of %s: %w", handle, reposErr)
	}

	if eventsErr != nil {
		s.metrics.RecordFetchFailure(ctx, observability.SourceEvents)
		s.logger.WarnContext(ctx, "recent events unavailable, continuing without them",
			"handle", handle, "error", eventsErr)

		acc.events = nil
	}

	return acc, nil
}

// buildReport fetches commit activity of the top repositories and aggregates it
// with the events. It also returns the fetched series keyed by repository name.
func (s *Service) buildReport(
	ctx context.Context, handle string, acc account,
) (contrib.Report, map[string][]contrib.CommitActivityWeek) {
	selected := SelectTopRepositories(acc.repos, s.topRepos)
	series := s.collectCommitActivity(ctx, handle, selected)

	inputs := contrib.Inputs{
		Commits: make([][]contrib.CommitActivityWeek, 0, len(series)),
		Events:  contrib.CountByDate(ghapi.EventTimes(acc.events)),
	}

	byName := make(map[string][]contrib.CommitActivityWeek, len(selected))

	for i, repo := range selected {
		inputs.Commits = append(inputs.Commits, series[i])
		byName[repo.Name] = series[i]
	}

	report := contrib.Build(s.now(), inputs, contrib.Options{Rand: s.newRand()})

	if report.Synthetic {
		s.logger.InfoContext(ctx, "no recorded activity, showing placeholder contributions", "handle", handle)
	}

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Int(attrRepos, len(selected)),
		attribute.Int(attrTotal, report.TotalContributions),
	)

	s.metrics.RecordReport(ctx, observability.ReportStats{
		Contributions: report.TotalContributions,
		Repositories:  len(selected),
		Synthetic:     report.Synthetic,
	})

	return report, byName
}

// collectCommitActivity fetches every repository's series concurrently. Slot i
// holds repos[i]'s series; failed fetches leave an empty series.
func (s *Service) collectCommitActivity(
	ctx context.Context, handle string, repos []ghapi.Repository,
) [][]contrib.CommitActivityWeek {
	series := make([][]contrib.CommitActivityWeek, len(repos))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)

	for i, repo := range repos {
		wg.Add(1)

		go func() {
			defer wg.Done()

			series[i] = s.fetchCommitActivity(ctx, handle, repo)

			if s.progress != nil {
				mu.Lock()
				done++
				s.progress(done, len(repos))
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	return series
}

func (s *Service) fetchCommitActivity(ctx context.Context, handle string, repo ghapi.Repository) []contrib.CommitActivityWeek {
	owner := repo.Owner
	if owner == "" {
		owner = handle
	}

	weeks, err := s.src.CommitActivity(ctx, owner, repo.Name)
	if err != nil {
		s.metrics.RecordFetchFailure(ctx, observability.SourceCommitActivity)
		s.logger.WarnContext(ctx, "commit activity unavailable, counting it as empty",
			"repository", owner+"/"+repo.Name, "error", err)

		return nil
	}

	if len(weeks) == 0 {
		s.logger.DebugContext(ctx, "no commit activity yet", "repository", owner+"/"+repo.Name)
	}

	return weeks
}

func (s *Service) newRand() contrib.Rand {
	if !s.fallback {
		return nil
	}

	seed := s.seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	return rand.New(rand.NewPCG(seed, seed))
}
