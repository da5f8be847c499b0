// Package analyzer drives the saturation analysis pipeline: archive
// loading, dump parsing, pool matching, clustering and reporting.
package analyzer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tdump-analysis/internal/analysis"
	"github.com/tdump-analysis/internal/archive"
	"github.com/tdump-analysis/internal/dump"
	"github.com/tdump-analysis/pkg/config"
	apperrors "github.com/tdump-analysis/pkg/errors"
	"github.com/tdump-analysis/pkg/filter"
	"github.com/tdump-analysis/pkg/model"
	"github.com/tdump-analysis/pkg/utils"
)

const tracerName = "github.com/tdump-analysis/internal/analyzer"

// Request holds the inputs for one saturation analysis run.
type Request struct {
	// ArchivePath is the zip archive of thread-dump snapshots.
	ArchivePath string

	// PoolPrefix is the thread-pool name prefix to analyze.
	PoolPrefix string
}

// Analyzer runs the analysis pipeline. All components are side-effect-free
// until the final report object is constructed, so an abandoned run leaves
// no partial state behind.
type Analyzer struct {
	parser   *dump.Parser
	reporter *analysis.Reporter
	logger   utils.Logger
}

// New creates an Analyzer wired from configuration.
func New(cfg *config.Config, logger utils.Logger) *Analyzer {
	if logger == nil {
		logger = &utils.NullLogger{}
	}

	frameFilter := filter.NewFrameFilter(filter.Options{
		IgnoredPackages:   cfg.Filter.IgnoredPackages,
		StripLineNumbers:  cfg.Filter.StripLineNumbers,
		UseBuiltinIgnores: cfg.Filter.UseBuiltinIgnores,
	})

	return &Analyzer{
		parser:   dump.NewParser(&dump.ParserOptions{Filter: frameFilter}),
		reporter: analysis.NewReporter(analysis.WithTopGroups(cfg.Analysis.TopGroups)),
		logger:   logger,
	}
}

// Analyze runs the full pipeline over the archive named by the request.
// Only archive-level failure aborts the run; unreadable snapshots are
// skipped and counted, and a run matching zero threads yields a well-formed
// empty report.
func (a *Analyzer) Analyze(ctx context.Context, req *Request) (*model.SaturationReport, error) {
	if req.PoolPrefix == "" {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "thread pool name must not be empty", nil)
	}

	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "analyze",
		trace.WithAttributes(attribute.String("pool.prefix", req.PoolPrefix)))
	defer span.End()

	timer := utils.NewTimer("saturation-analysis")

	loadPhase := timer.Start("load")
	loader, err := archive.Open(req.ArchivePath)
	loadPhase.Stop()
	if err != nil {
		return nil, err
	}
	defer loader.Close()

	matcher := analysis.NewPoolMatcher(req.PoolPrefix)
	clusterer := analysis.NewStackClusterer()
	perSnapshot := make([]model.SnapshotCount, 0, len(loader.Entries()))
	filesFailed := 0

	parsePhase := timer.Start("parse")
	for _, entry := range loader.Entries() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		records, err := a.parseEntry(ctx, tracer, &entry)
		if err != nil {
			a.logger.Warn("Skipping unreadable snapshot %s: %v", entry.Name, err)
			filesFailed++
			continue
		}

		perSnapshot = append(perSnapshot, accumulate(matcher, clusterer, entry.Index, entry.Name, records))
	}
	parsePhase.Stop()

	reportPhase := timer.Start("report")
	report := a.reporter.Build(req.PoolPrefix, clusterer.Groups(), perSnapshot, filesFailed)
	reportPhase.Stop()

	span.SetAttributes(
		attribute.Int("snapshots.analyzed", report.FilesAnalyzed),
		attribute.Int("threads.matched", report.TotalMatched),
	)
	a.logger.Debug("%s", timer.Summary())

	return report, nil
}

// AnalyzeSnapshots runs matching, clustering and reporting over pre-parsed
// snapshots, bypassing archive loading. This is the headless entry point.
func (a *Analyzer) AnalyzeSnapshots(ctx context.Context, poolPrefix string, snapshots []model.Snapshot) (*model.SaturationReport, error) {
	if poolPrefix == "" {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "thread pool name must not be empty", nil)
	}

	matcher := analysis.NewPoolMatcher(poolPrefix)
	clusterer := analysis.NewStackClusterer()
	perSnapshot := make([]model.SnapshotCount, 0, len(snapshots))

	for _, snap := range snapshots {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		perSnapshot = append(perSnapshot, accumulate(matcher, clusterer, snap.Index, snap.Name, snap.Records))
	}

	return a.reporter.Build(poolPrefix, clusterer.Groups(), perSnapshot, 0), nil
}

// parseEntry reads and parses one archive entry into thread records.
func (a *Analyzer) parseEntry(ctx context.Context, tracer trace.Tracer, entry *archive.Entry) ([]model.ThreadRecord, error) {
	_, span := tracer.Start(ctx, "parse-snapshot",
		trace.WithAttributes(attribute.String("snapshot.name", entry.Name)))
	defer span.End()

	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	records, err := a.parser.Parse(ctx, rc, entry.Index)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSnapshotUnreadable, "failed to parse snapshot "+entry.Name, err)
	}

	span.SetAttributes(attribute.Int("threads.parsed", len(records)))
	return records, nil
}

// accumulate feeds one snapshot's matched records into the clusterer and
// returns the per-snapshot matched-thread count.
func accumulate(matcher *analysis.PoolMatcher, clusterer *analysis.StackClusterer, index int, name string, records []model.ThreadRecord) model.SnapshotCount {
	count := model.SnapshotCount{
		Index:       index,
		Name:        name,
		StateCounts: make(map[model.ThreadState]int),
	}

	for i := range records {
		rec := &records[i]
		if !matcher.Matches(rec) {
			continue
		}
		clusterer.Add(rec)
		count.Matched++
		count.StateCounts[rec.State]++
	}

	return count
}
