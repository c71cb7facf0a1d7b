// Package repository models a git working tree: its branches, submodules,
// remote presence, and readiness for queries. It owns the load/validate/
// fetch/checkout/submodule-update sequences that every Query Engine
// operation depends on.
package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"

	"github.com/gofrs/flock"
	"github.com/levmat/version-finder/internal/gitexec"
	"github.com/levmat/version-finder/internal/osutil"
	"github.com/levmat/version-finder/internal/verrors"
	"github.com/levmat/version-finder/logger"
)

// Config configures how a Model is opened and how UpdateRepository behaves.
type Config struct {
	Executor gitexec.Config

	// ParallelSubmoduleFetch controls whether `git submodule update` is
	// passed `--jobs <n>` for concurrent submodule fetches. Zero means
	// sequential (the git default); a negative value means
	// runtime.NumCPU().
	ParallelSubmoduleFetch int
}

// DefaultConfig matches gitexec's defaults with parallel submodule fetch
// enabled, bounded by the host's CPU count.
func DefaultConfig() Config {
	return Config{
		Executor:               gitexec.DefaultConfig(),
		ParallelSubmoduleFetch: -1,
	}
}

// Model owns a single git working tree's cached state: branch list,
// submodule list, remote presence, and task readiness. There is no
// process-global registry of Models; every Open call returns one the
// caller owns exclusively.
type Model struct {
	path      string
	cfg       Config
	log       logger.Logger
	exec      *gitexec.Executor
	hasRemote bool
	branches  []string
	submods   []string
	taskReady bool
}

// Path returns the repository's absolute working-tree path.
func (m *Model) Path() string { return m.path }

// HasRemote reports whether `git remote` listed any remote at Open time.
// It is not re-read afterwards.
func (m *Model) HasRemote() bool { return m.hasRemote }

// TaskReady reports whether UpdateRepository has ever completed
// successfully for this Model.
func (m *Model) TaskReady() bool { return m.taskReady }

// Open validates path as a clean git working tree and loads its branches
// and submodules. Open failures are terminal: the caller must choose
// another path, there is no retry path back into a failed Model.
func Open(ctx context.Context, path string, cfg Config, log logger.Logger) (*Model, error) {
	if log == nil {
		log = logger.Discard
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, verrors.Wrap(verrors.InvalidRepository, err, "resolving %q", path)
	}

	if !osutil.FileExists(absPath) {
		return nil, verrors.New(verrors.InvalidRepository, "%q does not exist", absPath)
	}

	exec, err := gitexec.New(absPath, cfg.Executor, log)
	if err != nil {
		return nil, err
	}

	m := &Model{path: absPath, cfg: cfg, log: log, exec: exec}

	log.Debug("validating repository at %s", absPath)
	if _, err := exec.Execute(ctx, "status"); err != nil {
		return nil, verrors.Wrap(verrors.InvalidRepository, err, "%q is not a git working tree", absPath)
	}

	remoteOut, err := exec.Execute(ctx, "remote")
	if err != nil {
		return nil, verrors.Wrap(verrors.InvalidRepository, err, "listing remotes")
	}
	m.hasRemote = strings.TrimSpace(string(remoteOut)) != ""

	if _, err := exec.Execute(ctx, "diff", "--quiet", "HEAD"); err != nil {
		return nil, verrors.New(verrors.RepositoryNotClean, "working tree at %s has uncommitted changes", absPath)
	}

	if m.hasRemote {
		if _, err := exec.Execute(ctx, "fetch", "--all"); err != nil {
			log.Warn("fetch --all failed while opening %s: %v", absPath, err)
		}
	}

	branches, err := loadBranches(ctx, exec)
	if err != nil {
		return nil, verrors.Wrap(verrors.InvalidRepository, err, "loading branches")
	}
	m.branches = branches
	log.Info("loaded %d branches", len(branches))

	submods, err := loadSubmodules(ctx, exec)
	if err != nil {
		return nil, verrors.Wrap(verrors.InvalidRepository, err, "loading submodules")
	}
	m.submods = submods
	log.Info("loaded %d submodules", len(submods))

	m.taskReady = false
	return m, nil
}

// Executor exposes the Model's Git Executor so the Query Engine can issue
// its own invocations against the same working directory.
func (m *Model) Executor() *gitexec.Executor { return m.exec }

// ListBranches returns the cached branch snapshot.
func (m *Model) ListBranches() []string { return slices.Clone(m.branches) }

// ListSubmodules returns the cached submodule snapshot.
func (m *Model) ListSubmodules() []string { return slices.Clone(m.submods) }

// HasBranch reports whether name is a known branch.
func (m *Model) HasBranch(name string) bool { return slices.Contains(m.branches, name) }

// HasSubmodule reports whether path is a known submodule.
func (m *Model) HasSubmodule(path string) bool { return slices.Contains(m.submods, path) }

// CurrentBranch returns `git rev-parse --abbrev-ref HEAD`, or "" (absent)
// when the working tree is in detached-HEAD state.
func (m *Model) CurrentBranch(ctx context.Context) (string, error) {
	out, err := m.exec.Execute(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	branch := strings.TrimSpace(string(out))
	if branch == "HEAD" {
		return "", nil
	}
	return branch, nil
}

// HasCommit reports whether sha exists in the parent repository.
func (m *Model) HasCommit(ctx context.Context, sha string) bool {
	return m.catFileExists(ctx, m.path, sha)
}

// SubmoduleHasCommit reports whether sha exists within submodule's own
// git history.
func (m *Model) SubmoduleHasCommit(ctx context.Context, submodule, sha string) bool {
	return m.catFileExists(ctx, filepath.Join(m.path, submodule), sha)
}

func (m *Model) catFileExists(ctx context.Context, dir, sha string) bool {
	ok, err := m.exec.Predicate(ctx, "-C", dir, "cat-file", "-e", sha)
	return err == nil && ok
}

// UpdateRepository checks out branch (or the current branch, if empty),
// pulls if a remote is present, and brings submodules in sync. Any
// failure leaves TaskReady at its prior value and surfaces the underlying
// error; the Model remains usable for re-attempts.
func (m *Model) UpdateRepository(ctx context.Context, branch string) error {
	lockPath := filepath.Join(m.path, ".git", "version-finder.lock")
	fl := flock.New(lockPath)
	if err := fl.Lock(); err != nil {
		return fmt.Errorf("repository: acquiring lock %s: %w", lockPath, err)
	}
	defer fl.Unlock() //nolint:errcheck // best-effort release

	if branch == "" {
		current, err := m.CurrentBranch(ctx)
		if err != nil {
			return err
		}
		branch = current
	}

	if branch == "" || !m.HasBranch(branch) {
		return verrors.New(verrors.InvalidBranch, "branch %q is not known to this repository", branch)
	}

	if _, err := m.exec.Execute(ctx, "checkout", branch); err != nil {
		return err
	}

	if m.hasRemote {
		if _, err := m.exec.Execute(ctx, "pull", "origin", branch); err != nil {
			return err
		}
	}

	submods, err := loadSubmodules(ctx, m.exec)
	if err != nil {
		return err
	}
	m.submods = submods

	updateArgs := []string{"submodule", "update", "--init", "--recursive"}
	if jobs := m.submoduleJobs(); jobs > 0 {
		updateArgs = append(updateArgs, "--jobs", fmt.Sprintf("%d", jobs))
	}
	if _, err := m.exec.Execute(ctx, updateArgs...); err != nil {
		return err
	}

	m.taskReady = true
	return nil
}

func (m *Model) submoduleJobs() int {
	switch {
	case m.cfg.ParallelSubmoduleFetch > 0:
		return m.cfg.ParallelSubmoduleFetch
	case m.cfg.ParallelSubmoduleFetch < 0:
		if n := runtime.NumCPU(); n > 1 {
			return n
		}
		return 0
	default:
		return 0
	}
}

func loadBranches(ctx context.Context, exec *gitexec.Executor) ([]string, error) {
	out, err := exec.Execute(ctx, "branch", "-a")
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	var branches []string
	for _, line := range strings.Split(string(out), "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		name = strings.TrimPrefix(name, "* ")
		name = strings.TrimPrefix(name, "remotes/")

		if idx := strings.Index(name, " -> "); idx >= 0 {
			// e.g. "origin/HEAD -> origin/main"; skip the alias itself.
			continue
		}
		if strings.HasPrefix(name, "origin/") {
			name = strings.TrimPrefix(name, "origin/")
		}

		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		branches = append(branches, name)
	}

	sort.Strings(branches)
	return branches, nil
}

func loadSubmodules(ctx context.Context, exec *gitexec.Executor) ([]string, error) {
	out, err := exec.Execute(ctx, "submodule", "status")
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(string(out))
	if text == "" {
		return nil, nil
	}

	var submods []string
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		submods = append(submods, fields[1])
	}
	return submods, nil
}
