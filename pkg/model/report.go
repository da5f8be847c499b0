package model

// StackGroup is a cluster of threads sharing a normalized stack signature.
type StackGroup struct {
	// Signature is the semicolon-joined normalized frame sequence used as
	// the group key.
	Signature string `json:"signature"`

	// Frames is the ordered normalized frame sequence.
	Frames []string `json:"frames"`

	// Count is the number of member thread records across all snapshots.
	Count int `json:"count"`

	// StateCounts tallies member records by thread state.
	StateCounts map[ThreadState]int `json:"state_counts"`

	// ThreadNames lists the distinct thread names observed, sorted.
	ThreadNames []string `json:"thread_names"`

	// SnapshotIndices lists the snapshots the signature appeared in, sorted.
	SnapshotIndices []int `json:"snapshot_indices"`
}

// BlockingRatio returns the proportion of members in a non-runnable state.
func (g *StackGroup) BlockingRatio() float64 {
	if g.Count == 0 {
		return 0
	}
	blocking := 0
	for state, n := range g.StateCounts {
		if state.IsBlocking() {
			blocking += n
		}
	}
	return float64(blocking) / float64(g.Count)
}

// SnapshotCount holds per-snapshot matched-thread detail for trend visibility.
type SnapshotCount struct {
	Index       int                 `json:"index"`
	Name        string              `json:"name"`
	Matched     int                 `json:"matched"`
	StateCounts map[ThreadState]int `json:"state_counts"`
}

// SaturationReport is the final analysis output. It is immutable once
// produced and is the only object the presentation layer consumes.
type SaturationReport struct {
	// PoolPrefix is the thread-pool name prefix that was analyzed.
	PoolPrefix string `json:"pool_prefix"`

	// FilesAnalyzed is the number of snapshots successfully parsed.
	FilesAnalyzed int `json:"files_analyzed"`

	// FilesFailed is the number of archive entries that could not be read.
	FilesFailed int `json:"files_failed"`

	// TotalMatched is the number of thread records matched to the pool.
	TotalMatched int `json:"total_matched"`

	// StateTotals is the aggregate state distribution across all groups.
	StateTotals map[ThreadState]int `json:"state_totals"`

	// StateAverages is the average matched thread count per state per
	// analyzed snapshot.
	StateAverages map[ThreadState]float64 `json:"state_averages"`

	// Groups holds the stack groups ranked by saturation relevance.
	Groups []StackGroup `json:"groups"`

	// PerSnapshot holds matched-thread counts per snapshot in capture order.
	PerSnapshot []SnapshotCount `json:"per_snapshot"`
}

// Empty reports whether the analysis matched no threads at all.
// An empty report is diagnostic information, not an error.
func (r *SaturationReport) Empty() bool {
	return r.TotalMatched == 0
}

// TopGroup returns the highest-ranked stack group, or nil for an empty report.
func (r *SaturationReport) TopGroup() *StackGroup {
	if len(r.Groups) == 0 {
		return nil
	}
	return &r.Groups[0]
}
