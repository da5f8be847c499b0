package analysis

import (
	"sort"
	"strings"

	"github.com/tdump-analysis/pkg/model"
)

// StackClusterer groups matched thread records by normalized stack
// signature, accumulating per-group counts and per-state tallies.
//
// Accumulation is commutative and associative over input order: feeding the
// same multiset of records in any permutation, or merging independently
// built clusterers, yields identical final groups. The mapping is owned
// exclusively by the clusterer until Groups is called.
type StackClusterer struct {
	groups map[string]*groupAccumulator
}

type groupAccumulator struct {
	frames    []string
	count     int
	states    map[model.ThreadState]int
	names     map[string]struct{}
	snapshots map[int]struct{}
}

// NewStackClusterer creates an empty clusterer.
func NewStackClusterer() *StackClusterer {
	return &StackClusterer{groups: make(map[string]*groupAccumulator)}
}

// SignatureOf computes the group key for a record: the ordered sequence of
// normalized frames with filtered-out frames omitted, joined by semicolons.
func SignatureOf(record *model.ThreadRecord) (string, []string) {
	frames := make([]string, 0, len(record.Frames))
	for _, f := range record.Frames {
		if f.Normalized != "" {
			frames = append(frames, f.Normalized)
		}
	}
	return strings.Join(frames, ";"), frames
}

// Add folds one matched record into its stack group, creating the group on
// first sight of the signature.
func (c *StackClusterer) Add(record *model.ThreadRecord) {
	signature, frames := SignatureOf(record)

	acc, ok := c.groups[signature]
	if !ok {
		acc = &groupAccumulator{
			frames:    frames,
			states:    make(map[model.ThreadState]int),
			names:     make(map[string]struct{}),
			snapshots: make(map[int]struct{}),
		}
		c.groups[signature] = acc
	}

	acc.count++
	acc.states[record.State]++
	acc.names[record.Name] = struct{}{}
	acc.snapshots[record.SnapshotIndex] = struct{}{}
}

// Merge folds another clusterer's accumulated groups into this one.
// Together with Add's order independence this permits per-snapshot
// clustering followed by a post-hoc merge.
func (c *StackClusterer) Merge(other *StackClusterer) {
	for signature, acc := range other.groups {
		mine, ok := c.groups[signature]
		if !ok {
			c.groups[signature] = acc
			continue
		}
		mine.count += acc.count
		for state, n := range acc.states {
			mine.states[state] += n
		}
		for name := range acc.names {
			mine.names[name] = struct{}{}
		}
		for idx := range acc.snapshots {
			mine.snapshots[idx] = struct{}{}
		}
	}
}

// Size returns the number of distinct signatures accumulated so far.
func (c *StackClusterer) Size() int {
	return len(c.groups)
}

// Groups finalizes the accumulated state into stack groups, ordered by
// signature for determinism. Ranking is the reporter's concern.
func (c *StackClusterer) Groups() []model.StackGroup {
	result := make([]model.StackGroup, 0, len(c.groups))

	for signature, acc := range c.groups {
		names := make([]string, 0, len(acc.names))
		for name := range acc.names {
			names = append(names, name)
		}
		sort.Strings(names)

		indices := make([]int, 0, len(acc.snapshots))
		for idx := range acc.snapshots {
			indices = append(indices, idx)
		}
		sort.Ints(indices)

		states := make(map[model.ThreadState]int, len(acc.states))
		for state, n := range acc.states {
			states[state] = n
		}

		result = append(result, model.StackGroup{
			Signature:       signature,
			Frames:          acc.frames,
			Count:           acc.count,
			StateCounts:     states,
			ThreadNames:     names,
			SnapshotIndices: indices,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Signature < result[j].Signature
	})

	return result
}
