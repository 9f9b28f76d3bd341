package dashboard

import (
	"context"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/ghpulse/pkg/contrib"
	"github.com/Sumatoshi-tech/ghpulse/pkg/ghapi"
)

// RecentDays is the length of the featured repository's commit series.
const RecentDays = 30

// Dashboard is everything shown on a profile page.
type Dashboard struct {
	Profile       *ghapi.Profile      `json:"profile"            yaml:"profile"`
	Repositories  []ghapi.Repository  `json:"repositories"       yaml:"repositories"`
	Languages     []LanguageShare     `json:"languages"          yaml:"languages"`
	Featured      *FeaturedRepository `json:"featured,omitempty" yaml:"featured,omitempty"`
	Contributions contrib.Report      `json:"contributions"      yaml:"contributions"`
	GeneratedAt   time.Time           `json:"generatedAt"        yaml:"generatedAt"`
}

// FeaturedRepository is the repository whose recent commits are charted.
type FeaturedRepository struct {
	Repository ghapi.Repository      `json:"repository" yaml:"repository"`
	Recent     []contrib.DailyCount  `json:"recent"     yaml:"recent"`
	Summary    contrib.SeriesSummary `json:"summary"    yaml:"summary"`
}

// Dashboard assembles the full profile page of handle. The featured repository is
// repoName when given, otherwise the most starred non-fork repository. An unknown
// repoName fails with a *RepositoryNotFoundError.
func (s *Service) Dashboard(ctx context.Context, handle, repoName string) (*Dashboard, error) {
	ctx, span := s.tracer.Start(ctx, "ghpulse.dashboard.build",
		trace.WithAttributes(attribute.String(attrHandle, handle)))
	defer span.End()

	acc, err := s.fetchAccount(ctx, handle)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch account")

		return nil, err
	}

	featured, found, err := pickFeatured(acc.repos, repoName)
	if err != nil {
		span.RecordError(err)

		return nil, err
	}

	report, series := s.buildReport(ctx, handle, acc)

	repos := slices.Clone(acc.repos)
	SortByUpdated(repos)

	dash := &Dashboard{
		Profile:       acc.profile,
		Repositories:  repos,
		Languages:     LanguageBreakdown(acc.repos),
		Contributions: report,
		GeneratedAt:   s.now(),
	}

	if found {
		weeks, fetched := series[featured.Name]
		if !fetched {
			weeks = s.fetchCommitActivity(ctx, handle, featured)
		}

		recent := contrib.RecentDaily(weeks, s.now(), RecentDays)
		dash.Featured = &FeaturedRepository{
			Repository: featured,
			Recent:     recent,
			Summary:    contrib.SummarizeSeries(recent),
		}
	}

	return dash, nil
}

func pickFeatured(repos []ghapi.Repository, name string) (ghapi.Repository, bool, error) {
	if name == "" {
		repo, ok := MostStarred(repos)

		return repo, ok, nil
	}

	repo, err := FindRepository(repos, name)
	if err != nil {
		return ghapi.Repository{}, false, err
	}

	return repo, true, nil
}
