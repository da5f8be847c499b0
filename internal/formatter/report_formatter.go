// Package formatter renders saturation reports for the terminal and builds
// the serializable summary. It is the presentation layer: the core only
// produces the report object.
package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tdump-analysis/pkg/model"
	"github.com/tdump-analysis/pkg/utils"
)

// ReportFormatter renders a SaturationReport through a Logger.
type ReportFormatter struct {
	// MaxStackLines caps the frames printed per stack group. 0 means all.
	MaxStackLines int
}

// NewReportFormatter creates a formatter with default rendering limits.
func NewReportFormatter() *ReportFormatter {
	return &ReportFormatter{MaxStackLines: 0}
}

// Format outputs the report. A report that matched zero threads is still
// rendered in full, since an empty pool is itself diagnostic information.
func (f *ReportFormatter) Format(report *model.SaturationReport, log utils.Logger) {
	log.Info("=== Thread Pool States Summary ===")
	log.Info("Pool:           %s", report.PoolPrefix)
	log.Info("Files analyzed: %d", report.FilesAnalyzed)
	if report.FilesFailed > 0 {
		log.Info("Files skipped:  %d (unreadable)", report.FilesFailed)
	}
	log.Info("")

	if report.Empty() {
		log.Info("No matching threads found in the analyzed files.")
		return
	}

	log.Info("Average thread count per state:")
	for _, state := range sortedStates(report.StateAverages) {
		log.Info("  %s: %.1f threads", state, report.StateAverages[state])
	}
	log.Info("")

	f.formatPerSnapshot(report, log)
	f.formatGroups(report, log)
}

// formatPerSnapshot prints matched-thread detail per snapshot in capture order.
func (f *ReportFormatter) formatPerSnapshot(report *model.SaturationReport, log utils.Logger) {
	log.Info("=== Per-file Details ===")
	for _, snap := range report.PerSnapshot {
		log.Info("File: %s", snap.Name)
		log.Info("  Total threads in pool: %d", snap.Matched)
		for _, state := range sortedStateCounts(snap.StateCounts) {
			count := snap.StateCounts[state]
			pct := 0.0
			if snap.Matched > 0 {
				pct = float64(count) / float64(snap.Matched) * 100
			}
			log.Info("  %s: %d (%.1f%%)", state, count, pct)
		}
	}
	log.Info("")
}

// formatGroups prints the ranked stack groups with the saturation marker on
// the highest-occurrence group.
func (f *ReportFormatter) formatGroups(report *model.SaturationReport, log utils.Logger) {
	log.Info("=== Stack Trace Analysis ===")

	maxCount := 0
	for i := range report.Groups {
		if report.Groups[i].Count > maxCount {
			maxCount = report.Groups[i].Count
		}
	}

	for i := range report.Groups {
		group := &report.Groups[i]

		if group.Count == maxCount {
			log.Info("Count: %d (HIGHEST)", group.Count)
		} else {
			log.Info("Count: %d", group.Count)
		}
		log.Info("States: %s", formatStateCounts(group.StateCounts))
		log.Info("Snapshots: %v, distinct threads: %d", group.SnapshotIndices, len(group.ThreadNames))

		frames := group.Frames
		if f.MaxStackLines > 0 && len(frames) > f.MaxStackLines {
			frames = frames[:f.MaxStackLines]
		}
		for j, frame := range frames {
			if j == 0 && group.Count > 1 {
				marker := " <-- likely causing pool saturation"
				if group.Count == maxCount {
					marker += " (HIGHEST OCCURRENCE)"
				}
				log.Info("  at %s%s", frame, marker)
				continue
			}
			log.Info("  at %s", frame)
		}
		if len(frames) < len(group.Frames) {
			log.Info("  ... %d more frames", len(group.Frames)-len(frames))
		}
		if len(group.Frames) == 0 {
			log.Info("  (empty stack)")
		}
		log.Info("")
	}
}

// FormatSummary returns a summary map for serialization alongside the
// full report.
func (f *ReportFormatter) FormatSummary(report *model.SaturationReport) map[string]interface{} {
	return map[string]interface{}{
		"pool_prefix":    report.PoolPrefix,
		"files_analyzed": report.FilesAnalyzed,
		"files_failed":   report.FilesFailed,
		"total_matched":  report.TotalMatched,
		"state_totals":   report.StateTotals,
		"group_count":    len(report.Groups),
	}
}

// formatStateCounts renders a state tally as "STATE: n" pairs in a stable order.
func formatStateCounts(counts map[model.ThreadState]int) string {
	parts := make([]string, 0, len(counts))
	for _, state := range sortedStateCounts(counts) {
		parts = append(parts, fmt.Sprintf("%s: %d", state, counts[state]))
	}
	return strings.Join(parts, ", ")
}

func sortedStateCounts(counts map[model.ThreadState]int) []model.ThreadState {
	states := make([]model.ThreadState, 0, len(counts))
	for state := range counts {
		states = append(states, state)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })
	return states
}

func sortedStates(averages map[model.ThreadState]float64) []model.ThreadState {
	states := make([]model.ThreadState, 0, len(averages))
	for state := range averages {
		states = append(states, state)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })
	return states
}
