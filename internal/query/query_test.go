package query_test

import (
	"context"
	"errors"
	"testing"

	"github.com/levmat/version-finder/internal/query"
	"github.com/levmat/version-finder/internal/repository"
	"github.com/levmat/version-finder/internal/repotest"
	"github.com/levmat/version-finder/internal/verrors"
	"github.com/levmat/version-finder/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func open(t *testing.T, repo *repotest.Repo) (*repository.Model, *query.Engine) {
	t.Helper()
	ctx := context.Background()
	model, err := repository.Open(ctx, repo.Dir, repository.DefaultConfig(), logger.Discard)
	require.NoError(t, err)
	return model, query.New(model, logger.Discard, 0)
}

func TestEngineRequiresTaskReady(t *testing.T) {
	repo := repotest.New(t)
	repo.Commit("initial")
	model, eng := open(t, repo)
	require.False(t, model.TaskReady())

	_, _, err := eng.FirstVersionContainingCommit(context.Background(), repo.Head(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, verrors.NotReady))
}

// Scenario 1: linear version discovery.
func TestLinearVersionDiscovery(t *testing.T) {
	repo := repotest.New(t)
	repo.Commit("Version: 2024_01")
	x := repo.Commit("X")
	repo.Commit("Version: 2024_02")
	repo.Commit("Version: 2024_03")

	ctx := context.Background()
	model, eng := open(t, repo)
	require.NoError(t, model.UpdateRepository(ctx, "main"))

	version, found, err := eng.FirstVersionContainingCommit(ctx, x, "")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "2024_02", version)
}

// Scenario 2: no later version.
func TestNoLaterVersion(t *testing.T) {
	repo := repotest.New(t)
	repo.Commit("Version: 2024_01")
	y := repo.Commit("Y")

	ctx := context.Background()
	model, eng := open(t, repo)
	require.NoError(t, model.UpdateRepository(ctx, "main"))

	_, found, err := eng.FirstVersionContainingCommit(ctx, y, "")
	require.NoError(t, err)
	assert.False(t, found)
}

// Scenario 3: surrounding versions.
func TestSurroundingVersions(t *testing.T) {
	repo := repotest.New(t)
	repo.Commit("Version: 2024_01")
	m := repo.Commit("M")
	repo.Commit("Version: 2024_02")

	ctx := context.Background()
	model, eng := open(t, repo)
	require.NoError(t, model.UpdateRepository(ctx, "main"))

	prev, next, err := eng.SurroundingVersions(ctx, m)
	require.NoError(t, err)
	require.NotEmpty(t, prev)
	require.NotEmpty(t, next)

	prevCommit, err := eng.GetCommitInfo(ctx, prev, "")
	require.NoError(t, err)
	assert.Equal(t, "2024_01", prevCommit.Version)

	nextCommit, err := eng.GetCommitInfo(ctx, next, "")
	require.NoError(t, err)
	assert.Equal(t, "2024_02", nextCommit.Version)
}

// Scenario 4: between versions, no submodule.
func TestCommitsBetweenVersionsNoSubmodule(t *testing.T) {
	repo := repotest.New(t)
	repo.Commit("Version: 1_0_0")
	repo.CommitFile("file2.txt", "hi", "add file2")
	repo.Commit("Version: 1_1_0")

	ctx := context.Background()
	model, eng := open(t, repo)
	require.NoError(t, model.UpdateRepository(ctx, "main"))

	commits, err := eng.CommitsBetweenVersions(ctx, "1_0_0", "1_1_0", "")
	require.NoError(t, err)

	var subjects []string
	for _, c := range commits {
		subjects = append(subjects, c.Subject)
	}
	assert.Contains(t, subjects, "add file2")
	assert.Contains(t, subjects, "Version: 1_1_0")
}

// Scenario 5: submodule pointer walk.
func TestFirstVersionContainingCommitInSubmodule(t *testing.T) {
	sub := repotest.New(t)
	initial := sub.Commit("sub initial")
	c := sub.Commit("C")
	sub.CheckoutDetached(initial)

	parent := repotest.New(t)
	parent.AddSubmodule(sub, "sub")
	parent.UpdateSubmodulePointer("sub", initial, "P1: not yet including C")
	parent.UpdateSubmodulePointer("sub", c, "P2: includes C")
	parent.Commit("Version: 2024_01")

	ctx := context.Background()
	model, eng := open(t, parent)
	require.NoError(t, model.UpdateRepository(ctx, "main"))

	boundary, err := eng.ParentOfSubmoduleChange(ctx, "sub", c)
	require.NoError(t, err)
	boundaryCommit, err := eng.GetCommitInfo(ctx, boundary, "")
	require.NoError(t, err)
	assert.Equal(t, "P2: includes C", boundaryCommit.Subject)

	version, found, err := eng.FirstVersionContainingCommit(ctx, c, "sub")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "2024_01", version)
}

// Scenario 6: text search scoping.
func TestFindCommitsByTextScoping(t *testing.T) {
	sub := repotest.New(t)
	sub.Commit("hello world")

	parent := repotest.New(t)
	parent.AddSubmodule(sub, "sub")
	parent.Commit("hello world")

	ctx := context.Background()
	model, eng := open(t, parent)
	require.NoError(t, model.UpdateRepository(ctx, "main"))

	parentMatches, err := eng.FindCommitsByText(ctx, "hello", "")
	require.NoError(t, err)
	require.Len(t, parentMatches, 1)

	subMatches, err := eng.FindCommitsByText(ctx, "hello", "sub")
	require.NoError(t, err)
	require.Len(t, subMatches, 1)

	assert.NotEqual(t, parentMatches[0].SHA, subMatches[0].SHA)
}

func TestFindCommitByVersionEmptyWhenAbsent(t *testing.T) {
	repo := repotest.New(t)
	repo.Commit("initial")

	ctx := context.Background()
	model, eng := open(t, repo)
	require.NoError(t, model.UpdateRepository(ctx, "main"))

	shas, err := eng.FindCommitByVersion(ctx, "9999_99_99")
	require.NoError(t, err)
	assert.Empty(t, shas)
}

func TestCommitsBetweenVersionsUnknownVersion(t *testing.T) {
	repo := repotest.New(t)
	repo.Commit("Version: 1_0_0")

	ctx := context.Background()
	model, eng := open(t, repo)
	require.NoError(t, model.UpdateRepository(ctx, "main"))

	_, err := eng.CommitsBetweenVersions(ctx, "1_0_0", "9_9_9", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, verrors.VersionNotFound))
}

func TestGetCommitInfoInvalidCommit(t *testing.T) {
	repo := repotest.New(t)
	repo.Commit("initial")

	ctx := context.Background()
	model, eng := open(t, repo)
	require.NoError(t, model.UpdateRepository(ctx, "main"))

	_, err := eng.GetCommitInfo(ctx, "deadbeefdeadbeefdeadbeefdeadbeefdeadbeef", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, verrors.InvalidCommit))
}

func TestGetSubmodulePointer(t *testing.T) {
	sub := repotest.New(t)
	subHead := sub.Commit("sub initial")

	parent := repotest.New(t)
	parentHead := parent.AddSubmodule(sub, "sub")

	ctx := context.Background()
	model, eng := open(t, parent)
	require.NoError(t, model.UpdateRepository(ctx, "main"))

	ptr, err := eng.GetSubmodulePointer(ctx, parentHead, "sub")
	require.NoError(t, err)
	assert.Equal(t, subHead, ptr)
}
