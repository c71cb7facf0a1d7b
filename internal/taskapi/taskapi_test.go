package taskapi_test

import (
	"context"
	"testing"

	"github.com/levmat/version-finder/internal/query"
	"github.com/levmat/version-finder/internal/registry"
	"github.com/levmat/version-finder/internal/repository"
	"github.com/levmat/version-finder/internal/repotest"
	"github.com/levmat/version-finder/internal/taskapi"
	"github.com/levmat/version-finder/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*registry.Registry, *query.Engine) {
	t.Helper()
	repo := repotest.New(t)
	repo.Commit("Version: 2024_01")
	repo.Commit("middle commit")
	repo.Commit("Version: 2024_02")

	ctx := context.Background()
	model, err := repository.Open(ctx, repo.Dir, repository.DefaultConfig(), logger.Discard)
	require.NoError(t, err)
	require.NoError(t, model.UpdateRepository(ctx, "main"))

	return registry.New(), query.New(model, logger.Discard, 0)
}

func TestDispatchSuccess(t *testing.T) {
	reg, eng := setup(t)
	req := taskapi.NewRequest("find-commit-by-text", map[string]string{"text": "middle"})

	result, taskErr := taskapi.Dispatch(context.Background(), reg, eng, req)
	require.Nil(t, taskErr)
	assert.Equal(t, req.ID, result.ID)
	assert.NotNil(t, result.Value)
}

func TestDispatchUnknownOperation(t *testing.T) {
	reg, eng := setup(t)
	req := taskapi.NewRequest("not-a-real-task", nil)

	_, taskErr := taskapi.Dispatch(context.Background(), reg, eng, req)
	require.NotNil(t, taskErr)
	assert.Equal(t, req.ID, taskErr.ID)
	assert.Equal(t, "invalid-operation", taskErr.Kind)
}

func TestDispatchSurfacesCoreErrorKind(t *testing.T) {
	reg, eng := setup(t)
	req := taskapi.NewRequest("first-version-containing-commit", map[string]string{"commit_sha": "deadbeefdeadbeefdeadbeefdeadbeefdeadbeef"})

	_, taskErr := taskapi.Dispatch(context.Background(), reg, eng, req)
	require.NotNil(t, taskErr)
	assert.Equal(t, "invalid-commit", taskErr.Kind)
}
