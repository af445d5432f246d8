package agent

import (
	"testing"

	"ai-taskmanager-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryListsEveryStrategyOnce(t *testing.T) {
	nop := logger.NewNopLogger()
	coordinator := NewCoordinator(nop,
		NewHeuristic(),
		NewConciseStrategy(nil, nop),
		NewDetailedStrategy(nil, nop),
	)
	r := NewDefaultRegistry(coordinator)

	infos := r.List()
	require.Len(t, infos, 4)

	seen := map[string]int{}
	for _, info := range infos {
		seen[info.Id]++
	}
	for _, name := range []string{HeuristicName, ConciseName, DetailedName, CoordinatorName} {
		assert.Equal(t, 1, seen[name], name)
	}

	assert.Equal(t, HeuristicName, infos[0].Id)
	assert.Equal(t, StatusActive, infos[0].Status)
	assert.Equal(t, DefaultCapabilities, infos[0].Capabilities)
	assert.Equal(t, StatusInactive, infos[1].Status)
	assert.Equal(t, CoordinatorName, infos[3].Id)
	assert.Equal(t, StatusActive, infos[3].Status)

	def, ok := r.Default()
	require.True(t, ok)
	assert.Equal(t, CoordinatorName, def.Name())
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewHeuristic()))
	assert.Error(t, r.Register(NewHeuristic()))
	assert.Error(t, r.SetDefault("missing"))

	def, ok := r.Default()
	require.True(t, ok)
	assert.Equal(t, HeuristicName, def.Name())
}

func TestEmptyRegistryHasNoDefault(t *testing.T) {
	_, ok := NewRegistry().Default()
	assert.False(t, ok)
}
