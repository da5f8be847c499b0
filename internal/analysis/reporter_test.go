package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdump-analysis/pkg/model"
)

func TestReporterRanksByCount(t *testing.T) {
	groups := []model.StackGroup{
		{Signature: "small", Count: 1, StateCounts: map[model.ThreadState]int{model.StateRunnable: 1}},
		{Signature: "big", Count: 5, StateCounts: map[model.ThreadState]int{model.StateBlocked: 5}},
		{Signature: "medium", Count: 3, StateCounts: map[model.ThreadState]int{model.StateRunnable: 3}},
	}

	report := NewReporter().Build("pool", groups, nil, 0)

	require.Len(t, report.Groups, 3)
	assert.Equal(t, "big", report.Groups[0].Signature)
	assert.Equal(t, "medium", report.Groups[1].Signature)
	assert.Equal(t, "small", report.Groups[2].Signature)
}

func TestReporterTieBreaksByBlockingRatioThenSignature(t *testing.T) {
	groups := []model.StackGroup{
		{Signature: "bbb", Count: 2, StateCounts: map[model.ThreadState]int{model.StateRunnable: 2}},
		{Signature: "aaa", Count: 2, StateCounts: map[model.ThreadState]int{model.StateRunnable: 2}},
		{Signature: "zzz", Count: 2, StateCounts: map[model.ThreadState]int{model.StateBlocked: 2}},
	}

	report := NewReporter().Build("pool", groups, nil, 0)

	require.Len(t, report.Groups, 3)
	// Same count: higher blocking ratio first, then signature order.
	assert.Equal(t, "zzz", report.Groups[0].Signature)
	assert.Equal(t, "aaa", report.Groups[1].Signature)
	assert.Equal(t, "bbb", report.Groups[2].Signature)
}

func TestReporterTopGroupsCap(t *testing.T) {
	groups := []model.StackGroup{
		{Signature: "a", Count: 3, StateCounts: map[model.ThreadState]int{model.StateBlocked: 3}},
		{Signature: "b", Count: 2, StateCounts: map[model.ThreadState]int{model.StateBlocked: 2}},
		{Signature: "c", Count: 1, StateCounts: map[model.ThreadState]int{model.StateBlocked: 1}},
	}

	report := NewReporter(WithTopGroups(2)).Build("pool", groups, nil, 0)

	require.Len(t, report.Groups, 2)
	assert.Equal(t, "a", report.Groups[0].Signature)
	assert.Equal(t, "b", report.Groups[1].Signature)

	// Totals cover all groups, not only the rendered cap.
	assert.Equal(t, 6, report.TotalMatched)
	assert.Equal(t, 6, report.StateTotals[model.StateBlocked])
}

func TestReporterStateAverages(t *testing.T) {
	groups := []model.StackGroup{
		{Signature: "a", Count: 4, StateCounts: map[model.ThreadState]int{
			model.StateRunnable: 2,
			model.StateBlocked:  2,
		}},
	}
	perSnapshot := []model.SnapshotCount{
		{Index: 0, Name: "dump-01.txt", Matched: 2},
		{Index: 1, Name: "dump-02.txt", Matched: 2},
	}

	report := NewReporter().Build("pool", groups, perSnapshot, 1)

	assert.Equal(t, 2, report.FilesAnalyzed)
	assert.Equal(t, 1, report.FilesFailed)
	assert.InDelta(t, 1.0, report.StateAverages[model.StateRunnable], 1e-9)
	assert.InDelta(t, 1.0, report.StateAverages[model.StateBlocked], 1e-9)
}

func TestReporterEmptyReport(t *testing.T) {
	report := NewReporter().Build("pool", nil, nil, 0)

	assert.True(t, report.Empty())
	assert.Equal(t, "pool", report.PoolPrefix)
	assert.Equal(t, 0, report.FilesAnalyzed)
	assert.Empty(t, report.Groups)
	assert.Empty(t, report.StateAverages)
}
