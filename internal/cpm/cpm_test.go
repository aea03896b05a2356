package cpm

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_LinearChain(t *testing.T) {
	// A(2) -> B(4) -> C(3)
	result, err := Compute([]Node{
		{ID: "A", Duration: 2},
		{ID: "B", Duration: 4, Predecessors: []string{"A"}},
		{ID: "C", Duration: 3, Predecessors: []string{"B"}},
	})
	require.NoError(t, err)

	assert.Equal(t, 9, result.ProjectDuration)
	assert.Equal(t, []string{"A", "B", "C"}, result.CriticalPath)
	require.Len(t, result.Entries, 3)
	for _, e := range result.Entries {
		assert.Zerof(t, e.Slack, "task %s slack", e.ID)
		assert.Truef(t, e.IsCritical, "task %s critical", e.ID)
	}

	assertEntry(t, result, Entry{ID: "B", Duration: 4, EarliestStart: 2, EarliestFinish: 6, LatestStart: 2, LatestFinish: 6, IsCritical: true})
}

func TestCompute_Diamond(t *testing.T) {
	// A(2) -> B(6) -> D(1)
	// A(2) -> C(3) -> E(2)
	result, err := Compute([]Node{
		{ID: "A", Duration: 2},
		{ID: "B", Duration: 6, Predecessors: []string{"A"}},
		{ID: "C", Duration: 3, Predecessors: []string{"A"}},
		{ID: "D", Duration: 1, Predecessors: []string{"B"}},
		{ID: "E", Duration: 2, Predecessors: []string{"C"}},
	})
	require.NoError(t, err)

	assert.Equal(t, 9, result.ProjectDuration)
	assert.Equal(t, []string{"A", "B", "D"}, result.CriticalPath)
	assertEntry(t, result, Entry{ID: "C", Duration: 3, EarliestStart: 2, EarliestFinish: 5, LatestStart: 4, LatestFinish: 7, Slack: 2})
	assertEntry(t, result, Entry{ID: "E", Duration: 2, EarliestStart: 5, EarliestFinish: 7, LatestStart: 7, LatestFinish: 9, Slack: 2})
}

func TestCompute_JoinTakesLatestPredecessor(t *testing.T) {
	// A(5) -> B(1) -> D(1)
	// A(5) -> C(10) -> D(1)
	result, err := Compute([]Node{
		{ID: "A", Duration: 5},
		{ID: "B", Duration: 1, Predecessors: []string{"A"}},
		{ID: "C", Duration: 10, Predecessors: []string{"A"}},
		{ID: "D", Duration: 1, Predecessors: []string{"B", "C"}},
	})
	require.NoError(t, err)

	assert.Equal(t, 16, result.ProjectDuration)
	assert.Equal(t, []string{"A", "C", "D"}, result.CriticalPath)
	assertEntry(t, result, Entry{ID: "B", Duration: 1, EarliestStart: 5, EarliestFinish: 6, LatestStart: 14, LatestFinish: 15, Slack: 9})
}

func TestCompute_Empty(t *testing.T) {
	result, err := Compute(nil)
	require.NoError(t, err)
	assert.Zero(t, result.ProjectDuration)
	assert.Empty(t, result.Entries)
	assert.Empty(t, result.CriticalPath)

	b, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"entries":[],"criticalPath":[],"projectDuration":0}`, string(b))
}

func TestCompute_Cycle(t *testing.T) {
	// A depends on C, B depends on A, C depends on B
	result, err := Compute([]Node{
		{ID: "A", Duration: 2, Predecessors: []string{"C"}},
		{ID: "B", Duration: 2, Predecessors: []string{"A"}},
		{ID: "C", Duration: 2, Predecessors: []string{"B"}},
	})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrCycleDetected))
	assert.Equal(t, KindCycleDetected, KindOf(err))

	var ce *Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, []string{"A", "B", "C"}, ce.Unresolved)
}

func TestCompute_SelfLoopIsACycle(t *testing.T) {
	_, err := Compute([]Node{{ID: "A", Duration: 1, Predecessors: []string{"A"}}})
	assert.ErrorIs(t, err, ErrCycleDetected)
}

func TestCompute_UnknownPredecessor(t *testing.T) {
	_, err := Compute([]Node{
		{ID: "A", Duration: 2},
		{ID: "B", Duration: 3, Predecessors: []string{"X"}},
	})
	require.ErrorIs(t, err, ErrUnknownPredecessor)
	assert.Contains(t, err.Error(), "unknown predecessor X")

	var ce *Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "B", ce.TaskID)
	assert.Equal(t, "X", ce.PredecessorID)
}

func TestCompute_InvalidDuration(t *testing.T) {
	for _, d := range []int{0, -3} {
		_, err := Compute([]Node{{ID: "A", Duration: d}})
		require.ErrorIs(t, err, ErrInvalidDuration)
		assert.Contains(t, err.Error(), "greater than zero")
	}
}

func TestCompute_DuplicateID(t *testing.T) {
	_, err := Compute([]Node{
		{ID: "A", Duration: 1},
		{ID: "A", Duration: 2},
	})
	assert.ErrorIs(t, err, ErrDuplicateTaskID)
	assert.NotErrorIs(t, err, ErrUnknownPredecessor)
}

func TestCompute_Deterministic(t *testing.T) {
	nodes := []Node{
		{ID: "A", Duration: 2},
		{ID: "B", Duration: 6, Predecessors: []string{"A"}},
		{ID: "C", Duration: 3, Predecessors: []string{"A"}},
		{ID: "D", Duration: 1, Predecessors: []string{"B", "C"}},
		{ID: "E", Duration: 4},
	}

	first, err := Compute(nodes)
	require.NoError(t, err)
	second, err := Compute(nodes)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("results differ (-first +second):\n%s", diff)
	}

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCompute_ParallelCriticalBranchesAreInterleaved(t *testing.T) {
	// two disjoint chains of equal length: P1(2)->P2(3), Q1(2)->Q2(3)
	result, err := Compute([]Node{
		{ID: "P1", Duration: 2},
		{ID: "Q1", Duration: 2},
		{ID: "P2", Duration: 3, Predecessors: []string{"P1"}},
		{ID: "Q2", Duration: 3, Predecessors: []string{"Q1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, result.ProjectDuration)
	assert.Equal(t, []string{"P1", "Q1", "P2", "Q2"}, result.CriticalPath)
}

func TestCompute_InvariantsHold(t *testing.T) {
	result, err := Compute([]Node{
		{ID: "A", Duration: 3},
		{ID: "B", Duration: 1, Predecessors: []string{"A"}},
		{ID: "C", Duration: 7},
		{ID: "D", Duration: 2, Predecessors: []string{"B", "C"}},
		{ID: "E", Duration: 1, Predecessors: []string{"A"}},
	})
	require.NoError(t, err)

	g, err := Build([]Node{
		{ID: "A", Duration: 3},
		{ID: "B", Duration: 1, Predecessors: []string{"A"}},
		{ID: "C", Duration: 7},
		{ID: "D", Duration: 2, Predecessors: []string{"B", "C"}},
		{ID: "E", Duration: 1, Predecessors: []string{"A"}},
	})
	require.NoError(t, err)

	for _, e := range result.Entries {
		assert.Equal(t, e.EarliestStart+e.Duration, e.EarliestFinish)
		assert.GreaterOrEqual(t, e.LatestFinish, e.LatestStart)
		assert.GreaterOrEqual(t, e.Slack, 0)
		assert.Equal(t, e.Slack == 0, e.IsCritical)
		if len(g.Successors[e.ID]) == 0 {
			assert.Equalf(t, result.ProjectDuration, e.LatestFinish, "sink %s", e.ID)
		}
	}
}

func assertEntry(t *testing.T, result *Result, want Entry) {
	t.Helper()
	got, ok := result.Entry(want.ID)
	require.Truef(t, ok, "entry %s missing", want.ID)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entry %s mismatch (-want +got):\n%s", want.ID, diff)
	}
}
