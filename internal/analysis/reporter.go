package analysis

import (
	"sort"

	"github.com/tdump-analysis/pkg/model"
)

// Reporter ranks finalized stack groups and assembles the saturation report.
type Reporter struct {
	topGroups int
}

// ReporterOption configures the Reporter.
type ReporterOption func(*Reporter)

// WithTopGroups caps the number of groups included in the report.
func WithTopGroups(n int) ReporterOption {
	return func(r *Reporter) {
		r.topGroups = n
	}
}

// NewReporter creates a new Reporter.
func NewReporter(opts ...ReporterOption) *Reporter {
	r := &Reporter{
		topGroups: 0, // 0 means no limit
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Build produces the saturation report from the finalized groups and the
// per-snapshot matched counts. Groups are ranked by member count
// descending, then by a higher proportion of non-runnable states, then by
// signature so output is reproducible. Zero matched threads yield a
// well-formed empty report, not an error.
func (r *Reporter) Build(poolPrefix string, groups []model.StackGroup, perSnapshot []model.SnapshotCount, filesFailed int) *model.SaturationReport {
	report := &model.SaturationReport{
		PoolPrefix:    poolPrefix,
		FilesAnalyzed: len(perSnapshot),
		FilesFailed:   filesFailed,
		StateTotals:   make(map[model.ThreadState]int),
		StateAverages: make(map[model.ThreadState]float64),
		PerSnapshot:   perSnapshot,
	}

	for i := range groups {
		report.TotalMatched += groups[i].Count
		for state, n := range groups[i].StateCounts {
			report.StateTotals[state] += n
		}
	}

	if report.FilesAnalyzed > 0 {
		for state, n := range report.StateTotals {
			report.StateAverages[state] = float64(n) / float64(report.FilesAnalyzed)
		}
	}

	ranked := make([]model.StackGroup, len(groups))
	copy(ranked, groups)

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		ri, rj := ranked[i].BlockingRatio(), ranked[j].BlockingRatio()
		if ri != rj {
			return ri > rj
		}
		return ranked[i].Signature < ranked[j].Signature
	})

	if r.topGroups > 0 && len(ranked) > r.topGroups {
		ranked = ranked[:r.topGroups]
	}
	report.Groups = ranked

	return report
}
