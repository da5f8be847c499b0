package analysis

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdump-analysis/pkg/model"
)

func record(name string, snapshot int, state model.ThreadState, frames ...string) model.ThreadRecord {
	fs := make([]model.StackFrame, len(frames))
	for i, f := range frames {
		fs[i] = model.StackFrame{Raw: f, Normalized: f}
	}
	return model.ThreadRecord{
		Name:          name,
		State:         state,
		Frames:        fs,
		SnapshotIndex: snapshot,
	}
}

func TestSignatureOf(t *testing.T) {
	rec := record("worker-1", 0, model.StateRunnable,
		"com.example.A.a(A.java)",
		"com.example.B.b(B.java)",
	)

	signature, frames := SignatureOf(&rec)
	assert.Equal(t, "com.example.A.a(A.java);com.example.B.b(B.java)", signature)
	assert.Equal(t, []string{"com.example.A.a(A.java)", "com.example.B.b(B.java)"}, frames)
}

func TestSignatureOfSkipsFilteredFrames(t *testing.T) {
	rec := model.ThreadRecord{
		Name: "worker-1",
		Frames: []model.StackFrame{
			{Raw: "com.example.A.a(A.java:1)", Normalized: "com.example.A.a(A.java)"},
			{Raw: "com.framework.X.x(X.java:9)", Normalized: ""},
			{Raw: "com.example.B.b(B.java:2)", Normalized: "com.example.B.b(B.java)"},
		},
	}

	signature, frames := SignatureOf(&rec)
	assert.Equal(t, "com.example.A.a(A.java);com.example.B.b(B.java)", signature)
	assert.Len(t, frames, 2)
}

func TestSignatureOfEmptyStack(t *testing.T) {
	rec := model.ThreadRecord{Name: "idle"}
	signature, frames := SignatureOf(&rec)
	assert.Equal(t, "", signature)
	assert.Empty(t, frames)
}

func TestClustererGroupsEquivalentStacks(t *testing.T) {
	c := NewStackClusterer()

	r1 := record("worker-1", 0, model.StateRunnable, "com.example.A.a(A.java)")
	r2 := record("worker-2", 1, model.StateBlocked, "com.example.A.a(A.java)")
	r3 := record("worker-3", 1, model.StateRunnable, "com.example.B.b(B.java)")
	c.Add(&r1)
	c.Add(&r2)
	c.Add(&r3)

	assert.Equal(t, 2, c.Size())

	groups := c.Groups()
	require.Len(t, groups, 2)

	// Groups() orders by signature.
	g := groups[0]
	assert.Equal(t, "com.example.A.a(A.java)", g.Signature)
	assert.Equal(t, 2, g.Count)
	assert.Equal(t, map[model.ThreadState]int{model.StateRunnable: 1, model.StateBlocked: 1}, g.StateCounts)
	assert.Equal(t, []string{"worker-1", "worker-2"}, g.ThreadNames)
	assert.Equal(t, []int{0, 1}, g.SnapshotIndices)
}

func TestClustererOrderIndependence(t *testing.T) {
	records := []model.ThreadRecord{
		record("worker-1", 0, model.StateRunnable, "com.example.A.a(A.java)"),
		record("worker-2", 0, model.StateBlocked, "com.example.A.a(A.java)"),
		record("worker-3", 1, model.StateWaiting, "com.example.B.b(B.java)"),
		record("worker-4", 1, model.StateRunnable, "com.example.A.a(A.java)"),
		record("worker-5", 2, model.StateBlocked, "com.example.C.c(C.java)"),
	}

	c1 := NewStackClusterer()
	for i := range records {
		c1.Add(&records[i])
	}
	expected := c1.Groups()

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 10; trial++ {
		shuffled := make([]model.ThreadRecord, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		c := NewStackClusterer()
		for i := range shuffled {
			c.Add(&shuffled[i])
		}
		assert.Equal(t, expected, c.Groups())
	}
}

func TestClustererMerge(t *testing.T) {
	records := []model.ThreadRecord{
		record("worker-1", 0, model.StateRunnable, "com.example.A.a(A.java)"),
		record("worker-2", 1, model.StateBlocked, "com.example.A.a(A.java)"),
		record("worker-3", 1, model.StateWaiting, "com.example.B.b(B.java)"),
	}

	// Everything through one clusterer.
	all := NewStackClusterer()
	for i := range records {
		all.Add(&records[i])
	}

	// Per-snapshot clusterers merged afterwards.
	s0 := NewStackClusterer()
	s0.Add(&records[0])
	s1 := NewStackClusterer()
	s1.Add(&records[1])
	s1.Add(&records[2])

	merged := NewStackClusterer()
	merged.Merge(s0)
	merged.Merge(s1)

	assert.Equal(t, all.Groups(), merged.Groups())
}

func TestClustererEmptyStacksFormOneGroup(t *testing.T) {
	c := NewStackClusterer()

	r1 := record("idle-1", 0, model.StateWaiting)
	r2 := record("idle-2", 1, model.StateWaiting)
	c.Add(&r1)
	c.Add(&r2)

	groups := c.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, "", groups[0].Signature)
	assert.Equal(t, 2, groups[0].Count)
	assert.Empty(t, groups[0].Frames)
}
