package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSession_DemoScenarios(t *testing.T) {
	ctx := context.Background()
	s, err := newLocalSession(ctx)
	require.NoError(t, err)
	defer s.Close()

	for _, scenario := range demoScenarios {
		result, err := s.Onboard(ctx, scenario, nil)
		require.NoError(t, err)
		assert.True(t, result.OverallSuccess, scenario)
	}

	employees, err := s.Employees(ctx)
	require.NoError(t, err)
	require.Len(t, employees, len(demoScenarios))
	assert.Equal(t, "sarah.johnson@company.com", employees[1].Email)
	assert.Equal(t, "manager", employees[1].Role)

	runs, err := s.Runs(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, len(demoScenarios))

	list, err := s.Assets(ctx, employees[0].ID)
	require.NoError(t, err)
	assert.Equal(t, len(list.Items), list.Total)
	assert.Positive(t, list.TotalCost)

	report, err := s.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "healthy", report.Status)
}
