package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/finder/internal/ir"
)

func TestReadRuns_Empty(t *testing.T) {
	runs, err := createTestStore(t).ReadRuns(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestReadRun_NotFound(t *testing.T) {
	_, err := createTestStore(t).ReadRun(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestLatestRun_Empty(t *testing.T) {
	_, err := createTestStore(t).LatestRun(context.Background())
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestReadPlans_UnknownRun(t *testing.T) {
	plans, err := createTestStore(t).ReadPlans(context.Background(), "nope")
	require.NoError(t, err)
	assert.NotNil(t, plans)
	assert.Empty(t, plans)
}

func TestPlanHistory_ShowsDrift(t *testing.T) {
	s := createTestStore(t)

	_, err := s.WriteRun(context.Background(), createTestResult(t, "r1",
		ir.NewSignature("findByLastName", "lastName")))
	require.NoError(t, err)
	_, err = s.WriteRun(context.Background(), createTestResult(t, "r2",
		ir.NewSignature("findByLastName", "lastName")))
	require.NoError(t, err)
	_, err = s.WriteRun(context.Background(), createTestResult(t, "r3",
		ir.NewSignature("findByLastName", "name")))
	require.NoError(t, err)

	history, err := s.PlanHistory(context.Background(), "PersonRepository", "findByLastName")
	require.NoError(t, err)
	require.Len(t, history, 3)

	assert.Equal(t, []string{"r1", "r2", "r3"}, []string{history[0].RunID, history[1].RunID, history[2].RunID})
	assert.Equal(t, history[0].Hash, history[1].Hash, "identical inputs give identical plans")
	assert.NotEqual(t, history[1].Hash, history[2].Hash, "renamed parameter changes the plan")
}
