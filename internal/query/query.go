// Package query implements the three public questions the system answers
// (commit-by-text search, commits-between-versions, and the submodule-aware
// first-version-containing-commit algorithm) on top of a repository.Model
// and its Git Executor.
package query

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/levmat/version-finder/internal/commitinfo"
	"github.com/levmat/version-finder/internal/repository"
	"github.com/levmat/version-finder/internal/verrors"
	"github.com/levmat/version-finder/internal/vparser"
	"github.com/levmat/version-finder/logger"
)

// DefaultSubmoduleScanWindow is the number of parent-repo log entries
// ParentOfSubmoduleChange inspects before giving up. Histories that move
// a submodule pointer more often than this need the window raised via
// New's scanWindow argument.
const DefaultSubmoduleScanWindow = 1500

// Engine answers GetCommitInfo/FindCommitsByText/FindCommitByVersion/
// SurroundingVersions/FirstVersionContainingCommit/CommitsBetweenVersions
// against a single repository.Model. Every operation requires the Model
// to be task-ready.
type Engine struct {
	model      *repository.Model
	log        logger.Logger
	scanWindow int
}

// New constructs an Engine. scanWindow <= 0 selects DefaultSubmoduleScanWindow.
func New(model *repository.Model, log logger.Logger, scanWindow int) *Engine {
	if log == nil {
		log = logger.Discard
	}
	if scanWindow <= 0 {
		scanWindow = DefaultSubmoduleScanWindow
	}
	return &Engine{model: model, log: log, scanWindow: scanWindow}
}

func (e *Engine) requireReady() error {
	if !e.model.TaskReady() {
		return verrors.New(verrors.NotReady, "UpdateRepository has not completed successfully")
	}
	return nil
}

func (e *Engine) requireSubmodule(submodule string) error {
	if submodule != "" && !e.model.HasSubmodule(submodule) {
		return verrors.New(verrors.InvalidSubmodule, "%q is not a known submodule", submodule)
	}
	return nil
}

// commitDir returns the directory Execute/Predicate should run in for a
// given optional submodule scope.
func (e *Engine) commitDir(submodule string) string {
	if submodule == "" {
		return e.model.Path()
	}
	return filepath.Join(e.model.Path(), submodule)
}

// GetCommitInfo returns the structured record for one commit, resolved in
// the submodule's history when submodule is non-empty.
func (e *Engine) GetCommitInfo(ctx context.Context, sha, submodule string) (commitinfo.Commit, error) {
	if err := e.requireReady(); err != nil {
		return commitinfo.Commit{}, err
	}
	if err := e.requireSubmodule(submodule); err != nil {
		return commitinfo.Commit{}, err
	}

	exists := e.model.HasCommit
	if submodule != "" {
		exists = func(ctx context.Context, s string) bool { return e.model.SubmoduleHasCommit(ctx, submodule, s) }
	}
	if !exists(ctx, sha) {
		return commitinfo.Commit{}, verrors.New(verrors.InvalidCommit, "%q is not a known commit", sha)
	}

	dir := e.commitDir(submodule)
	out, err := e.model.Executor().Execute(ctx, "-C", dir, "show", "-s", "--format="+commitinfo.ShowFormat, sha)
	if err != nil {
		return commitinfo.Commit{}, err
	}
	return commitinfo.ParseShowOutput(out)
}

// FindCommitsByText returns the commits whose subject or body contains
// text, case-insensitively, in git-log order (newest first). The filter
// runs in-process rather than via `git log --grep -i` so subject and body
// are matched uniformly, including across multi-line bodies.
func (e *Engine) FindCommitsByText(ctx context.Context, text, submodule string) ([]commitinfo.Commit, error) {
	if err := e.requireReady(); err != nil {
		return nil, err
	}
	if err := e.requireSubmodule(submodule); err != nil {
		return nil, err
	}

	dir := e.commitDir(submodule)
	out, err := e.model.Executor().Execute(ctx, "-C", dir, "log", "--format="+commitinfo.LogFormat)
	if err != nil {
		return nil, err
	}

	records, err := commitinfo.ParseLogOutput(out)
	if err != nil {
		return nil, err
	}

	var matches []commitinfo.Commit
	for _, r := range records {
		if !r.MatchesText(text) {
			continue
		}
		c, err := e.GetCommitInfo(ctx, r.SHA, submodule)
		if err != nil {
			return nil, err
		}
		matches = append(matches, c)
	}
	return matches, nil
}

// FindCommitByVersion returns every commit whose message mentions version,
// newest first. Callers treat the first entry as the canonical version
// commit; an empty result means the version is absent from this history.
func (e *Engine) FindCommitByVersion(ctx context.Context, version string) ([]string, error) {
	if err := e.requireReady(); err != nil {
		return nil, err
	}

	out, err := e.model.Executor().Execute(ctx, "log", "-i", "--grep="+version, "--format=%H")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// SurroundingVersions returns the nearest version commits on either side
// of sha: previous is the newest version commit among sha's ancestors
// (excluding sha itself), next is the first version commit whose ancestry
// includes sha. Either may be empty.
func (e *Engine) SurroundingVersions(ctx context.Context, sha string) (previous, next string, err error) {
	if err := e.requireReady(); err != nil {
		return "", "", err
	}

	grep := "--grep=" + vparser.GitGrepPattern

	prevOut, prevErr := e.model.Executor().Execute(ctx, "log", "--extended-regexp", grep, "--format=%H", "-n", "1", sha+"~1")
	if prevErr == nil {
		if lines := splitLines(prevOut); len(lines) > 0 {
			previous = lines[0]
		}
	}
	// sha~1 fails when sha is the repository's root commit; absence of a
	// previous version is expected there, not an error.

	nextOut, nextErr := e.model.Executor().Execute(ctx, "log", "--extended-regexp", grep, "--format=%H", sha+"^1..HEAD")
	if nextErr != nil {
		return previous, "", nextErr
	}
	if lines := splitLines(nextOut); len(lines) > 0 {
		next = lines[len(lines)-1]
	}

	return previous, next, nil
}

// FirstVersionContainingCommit answers the primary question: the version
// token of the first parent-repo version commit whose ancestry includes
// sha. With a submodule scope, sha names a commit inside the submodule and
// is first mapped to the parent-repo commit that brought it in.
func (e *Engine) FirstVersionContainingCommit(ctx context.Context, sha, submodule string) (string, bool, error) {
	if err := e.requireReady(); err != nil {
		return "", false, err
	}

	target := sha
	if submodule != "" {
		if err := e.requireSubmodule(submodule); err != nil {
			return "", false, err
		}
		if !e.model.SubmoduleHasCommit(ctx, submodule, sha) {
			return "", false, verrors.New(verrors.InvalidCommit, "%q is not a known commit in submodule %q", sha, submodule)
		}

		parent, err := e.ParentOfSubmoduleChange(ctx, submodule, sha)
		if err != nil {
			return "", false, err
		}
		target = parent
	} else if !e.model.HasCommit(ctx, sha) {
		return "", false, verrors.New(verrors.InvalidCommit, "%q is not a known commit", sha)
	}

	_, next, err := e.SurroundingVersions(ctx, target)
	if err != nil {
		return "", false, err
	}
	if next == "" {
		return "", false, nil
	}

	commit, err := e.GetCommitInfo(ctx, next, "")
	if err != nil {
		return "", false, err
	}
	if !commit.HasVersion() {
		return "", false, fmt.Errorf("query: version commit %s did not parse a version from %q", next, commit.Subject)
	}
	return commit.Version, true, nil
}

// submodulePointer is one (parent commit, submodule pointer) pair parsed
// out of a submodule-scoped `git log -p` dump, newest-first.
type submodulePointer struct {
	parentSHA string
	subSHA    string
}

// ParentOfSubmoduleChange locates the parent-repo commit at the boundary
// where the submodule pointer first includes targetSubSHA as an
// ancestor-or-equal. A linear scan over every parent commit touching the
// submodule is prohibitive on real histories, so it binary-searches the
// newest-first pointer list instead, assuming pointer inclusion is
// monotone within a branch.
func (e *Engine) ParentOfSubmoduleChange(ctx context.Context, submodule, targetSubSHA string) (string, error) {
	if err := e.requireReady(); err != nil {
		return "", err
	}

	out, err := e.model.Executor().Execute(ctx, "log", "--format=Commit: %H", "-n", strconv.Itoa(e.scanWindow), "-p", "--", submodule)
	if err != nil {
		return "", err
	}

	entries := parseSubmodulePointers(out)
	if len(entries) == 0 {
		return "", verrors.New(verrors.NoSubmoduleChange, "no parent-repo commit touches submodule %q", submodule)
	}
	if len(entries) == 1 {
		return entries[0].parentSHA, nil
	}
	if len(entries) >= e.scanWindow {
		e.log.Debug("submodule scan for %q hit the %d-commit window without finding the start of its history", submodule, e.scanWindow)
	}

	submoduleDir := filepath.Join(e.model.Path(), submodule)
	predicate := func(i int) (bool, error) {
		return e.model.Executor().Predicate(ctx, "-C", submoduleDir, "merge-base", "--is-ancestor", targetSubSHA, entries[i].subSHA)
	}

	lo, hi := 0, len(entries)-1
	loTrue, err := predicate(lo)
	if err != nil {
		return "", err
	}
	hiTrue, err := predicate(hi)
	if err != nil {
		return "", err
	}

	switch {
	case !loTrue:
		// Even the newest tracked commit's pointer has not reached the
		// target; nothing in the window satisfies ancestor-or-equal.
		e.log.Warn("submodule %q: target %s not reached by any pointer in the scanned window", submodule, targetSubSHA)
		return entries[hi].parentSHA, nil
	case hiTrue:
		// Every tracked commit's pointer already includes the target.
		return entries[hi].parentSHA, nil
	}

	for lo+1 < hi {
		mid := (lo + hi) / 2
		ok, err := predicate(mid)
		if err != nil {
			return "", err
		}
		if ok {
			lo = mid
		} else {
			hi = mid
		}
	}

	return entries[lo].parentSHA, nil
}

// CommitsBetweenVersions enumerates the commits in [v1, v2], newest first,
// scoped to the submodule's own history when submodule is non-empty (the
// two version commits are translated to the submodule pointers they
// record). The log starts from v1's first parent, so v1's own commit is
// included unless it is a root commit, in which case the range is (v1, v2].
func (e *Engine) CommitsBetweenVersions(ctx context.Context, v1, v2, submodule string) ([]commitinfo.Commit, error) {
	if err := e.requireReady(); err != nil {
		return nil, err
	}
	if err := e.requireSubmodule(submodule); err != nil {
		return nil, err
	}

	c1s, err := e.FindCommitByVersion(ctx, v1)
	if err != nil {
		return nil, err
	}
	if len(c1s) == 0 {
		return nil, verrors.New(verrors.VersionNotFound, "version %q not found", v1)
	}
	c2s, err := e.FindCommitByVersion(ctx, v2)
	if err != nil {
		return nil, err
	}
	if len(c2s) == 0 {
		return nil, verrors.New(verrors.VersionNotFound, "version %q not found", v2)
	}
	c1, c2 := c1s[0], c2s[0]

	dir := e.model.Path()
	if submodule != "" {
		sub1, err := e.submodulePointerAt(ctx, c1, submodule)
		if err != nil {
			return nil, err
		}
		sub2, err := e.submodulePointerAt(ctx, c2, submodule)
		if err != nil {
			return nil, err
		}
		c1, c2 = sub1, sub2
		dir = filepath.Join(e.model.Path(), submodule)
	}

	lower := c1
	if parent, ok := e.parentOf(ctx, dir, c1); ok {
		lower = parent
	}

	out, err := e.model.Executor().Execute(ctx, "-C", dir, "log", "--format=%H", lower+".."+c2)
	if err != nil {
		return nil, err
	}

	shas := splitLines(out)
	commits := make([]commitinfo.Commit, 0, len(shas))
	for _, sha := range shas {
		c, err := e.GetCommitInfo(ctx, sha, submodule)
		if err != nil {
			return nil, err
		}
		commits = append(commits, c)
	}
	return commits, nil
}

// GetSubmodulePointer returns the submodule's commit sha as recorded in
// the parent tree at commit.
func (e *Engine) GetSubmodulePointer(ctx context.Context, commit, submodule string) (string, error) {
	if err := e.requireReady(); err != nil {
		return "", err
	}
	if err := e.requireSubmodule(submodule); err != nil {
		return "", err
	}
	return e.submodulePointerAt(ctx, commit, submodule)
}

func (e *Engine) submodulePointerAt(ctx context.Context, commit, submodule string) (string, error) {
	out, err := e.model.Executor().Execute(ctx, "ls-tree", "-r", "--full-tree", commit, submodule)
	if err != nil {
		return "", err
	}
	fields := strings.Fields(strings.TrimSpace(string(out)))
	if len(fields) < 3 {
		return "", verrors.New(verrors.GitCommandError, "could not resolve submodule %q pointer at %s", submodule, commit)
	}
	return fields[2], nil
}

// parentOf returns commit's first parent, or (_, false) if it has none
// (a root commit).
func (e *Engine) parentOf(ctx context.Context, dir, commit string) (string, bool) {
	out, err := e.model.Executor().Execute(ctx, "-C", dir, "rev-parse", commit+"^")
	if err != nil {
		return "", false
	}
	lines := splitLines(out)
	if len(lines) == 0 {
		return "", false
	}
	return lines[0], true
}

func splitLines(raw []byte) []string {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func parseSubmodulePointers(raw []byte) []submodulePointer {
	var entries []submodulePointer
	var currentParent string
	haveParent := false

	for _, line := range strings.Split(string(raw), "\n") {
		switch {
		case strings.HasPrefix(line, "Commit: "):
			currentParent = strings.TrimPrefix(line, "Commit: ")
			haveParent = true
		case haveParent && strings.HasPrefix(strings.TrimSpace(line), "+Subproject commit "):
			subSHA := strings.TrimPrefix(strings.TrimSpace(line), "+Subproject commit ")
			subSHA = strings.Fields(subSHA)[0]
			entries = append(entries, submodulePointer{parentSHA: currentParent, subSHA: subSHA})
			haveParent = false
		}
	}
	return entries
}
