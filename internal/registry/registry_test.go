package registry_test

import (
	"context"
	"testing"

	"github.com/levmat/version-finder/internal/commitinfo"
	"github.com/levmat/version-finder/internal/query"
	"github.com/levmat/version-finder/internal/registry"
	"github.com/levmat/version-finder/internal/repository"
	"github.com/levmat/version-finder/internal/repotest"
	"github.com/levmat/version-finder/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllSortedByIndex(t *testing.T) {
	reg := registry.New()
	tasks := reg.All()
	require.Len(t, tasks, 3)
	for i, task := range tasks {
		assert.Equal(t, i, task.Index())
	}
}

func TestByIndexAndByName(t *testing.T) {
	reg := registry.New()

	task, err := reg.ByIndex(0)
	require.NoError(t, err)
	assert.Equal(t, "first-version-containing-commit", task.Name())

	byName, err := reg.ByName("find-commit-by-text")
	require.NoError(t, err)
	assert.Equal(t, 2, byName.Index())

	assert.True(t, reg.HasIndex(1))
	assert.False(t, reg.HasIndex(3))
	assert.True(t, reg.HasName("commits-between-versions"))
	assert.False(t, reg.HasName("no-such-task"))
}

func TestByIndexOutOfRange(t *testing.T) {
	reg := registry.New()
	_, err := reg.ByIndex(99)
	assert.Error(t, err)
}

func TestRunDispatchesThroughEngine(t *testing.T) {
	repo := repotest.New(t)
	repo.Commit("Version: 2024_01")
	repo.Commit("middle commit")
	repo.Commit("Version: 2024_02")

	ctx := context.Background()
	model, err := repository.Open(ctx, repo.Dir, repository.DefaultConfig(), logger.Discard)
	require.NoError(t, err)
	require.NoError(t, model.UpdateRepository(ctx, "main"))

	eng := query.New(model, logger.Discard, 0)
	reg := registry.New()

	task, err := reg.ByIndex(2)
	require.NoError(t, err)
	result, err := task.Run(ctx, eng, map[string]string{"text": "middle"})
	require.NoError(t, err)

	commits, ok := result.([]commitinfo.Commit)
	require.True(t, ok)
	require.Len(t, commits, 1)
	assert.Equal(t, "middle commit", commits[0].Subject)
}

func TestRunMissingArgument(t *testing.T) {
	repo := repotest.New(t)
	repo.Commit("initial")

	ctx := context.Background()
	model, err := repository.Open(ctx, repo.Dir, repository.DefaultConfig(), logger.Discard)
	require.NoError(t, err)
	require.NoError(t, model.UpdateRepository(ctx, "main"))

	eng := query.New(model, logger.Discard, 0)
	reg := registry.New()

	task, err := reg.ByIndex(0)
	require.NoError(t, err)
	_, err = task.Run(ctx, eng, map[string]string{})
	assert.Error(t, err)
}
