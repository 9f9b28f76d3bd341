package observability

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricReportsTotal       = "ghpulse.reports.total"
	metricFetchFailuresTotal = "ghpulse.github.fetch.failures.total"
	metricReportContribs     = "ghpulse.report.contributions"
	metricReposScanned       = "ghpulse.report.repositories.total"

	attrSynthetic = "synthetic"
	attrSource    = "source"
)

// Fetch sources reported by RecordFetchFailure.
const (
	SourceProfile        = "profile"
	SourceRepositories   = "repositories"
	SourceEvents         = "events"
	SourceCommitActivity = "commit_activity"
)

// contributionBuckets covers quiet accounts up to very active ones.
var contributionBuckets = []float64{0, 10, 50, 100, 250, 500, 1000, 2500, 5000}

// ReportMetrics records contribution report outcomes. A nil *ReportMetrics records nothing.
type ReportMetrics struct {
	reports       metric.Int64Counter
	fetchFailures metric.Int64Counter
	contributions metric.Int64Histogram
	repositories  metric.Int64Counter
}

// ReportStats summarizes one built report, decoupled from the aggregation types.
type ReportStats struct {
	Contributions int
	Repositories  int
	Synthetic     bool
}

// NewReportMetrics creates the report instruments on mt.
func NewReportMetrics(mt metric.Meter) (*ReportMetrics, error) {
	reports, err := mt.Int64Counter(metricReportsTotal,
		metric.WithDescription("Contribution reports built"),
		metric.WithUnit("{report}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricReportsTotal, err)
	}

	failures, err := mt.Int64Counter(metricFetchFailuresTotal,
		metric.WithDescription("GitHub fetches that failed, by source"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFetchFailuresTotal, err)
	}

	contributions, err := mt.Int64Histogram(metricReportContribs,
		metric.WithDescription("Total contributions per report"),
		metric.WithUnit("{contribution}"),
		metric.WithExplicitBucketBoundaries(contributionBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricReportContribs, err)
	}

	repos, err := mt.Int64Counter(metricReposScanned,
		metric.WithDescription("Repositories whose commit activity was fetched"),
		metric.WithUnit("{repository}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricReposScanned, err)
	}

	return &ReportMetrics{
		reports:       reports,
		fetchFailures: failures,
		contributions: contributions,
		repositories:  repos,
	}, nil
}

// RecordReport records a completed report.
func (m *ReportMetrics) RecordReport(ctx context.Context, stats ReportStats) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrSynthetic, strconv.FormatBool(stats.Synthetic)))

	m.reports.Add(ctx, 1, attrs)
	m.contributions.Record(ctx, int64(stats.Contributions), attrs)
	m.repositories.Add(ctx, int64(stats.Repositories))
}

// RecordFetchFailure counts one failed GitHub fetch from source.
func (m *ReportMetrics) RecordFetchFailure(ctx context.Context, source string) {
	if m == nil {
		return
	}

	m.fetchFailures.Add(ctx, 1, metric.WithAttributes(attribute.String(attrSource, source)))
}
