// Package registry is the small static catalog mapping task indices/names
// to Query Engine operations and their parameter schemas, used by UI
// collaborators (the CLI, or a worker-process adapter) to drive the engine
// generically instead of hard-coding each question. The catalog is a
// closed, tagged set of Go types implementing Task, rather than a map of
// index to arbitrary callable, so adding a task is a compile-time-checked
// change.
package registry

import (
	"context"
	"fmt"

	"github.com/levmat/version-finder/internal/query"
)

// Task is one entry in the registry: a stable index, a name, a
// human-readable description, the ordered argument names a caller must
// supply, and the bound Query Engine operation it drives.
type Task interface {
	Index() int
	Name() string
	Description() string
	ArgumentNames() []string
	Run(ctx context.Context, eng *query.Engine, args map[string]string) (any, error)
}

// submodule reads the optional "submodule" binding every task accepts to
// scope a query to one submodule's history. It is not part of
// ArgumentNames since it is common to every task rather than
// task-specific.
func submodule(args map[string]string) string { return args["submodule"] }

func requireArg(args map[string]string, name string) (string, error) {
	v, ok := args[name]
	if !ok || v == "" {
		return "", fmt.Errorf("registry: missing required argument %q", name)
	}
	return v, nil
}

// firstVersionTask implements task 0: "Find first version containing
// commit".
type firstVersionTask struct{}

func (firstVersionTask) Index() int              { return 0 }
func (firstVersionTask) Name() string            { return "first-version-containing-commit" }
func (firstVersionTask) ArgumentNames() []string { return []string{"commit_sha"} }
func (firstVersionTask) Description() string {
	return "Find the first parent-repository version commit whose ancestry includes a given commit."
}

// FirstVersionResult is the result type returned for task 0, carrying
// whether a later version commit was found at all: a commit newer than
// every version commit has no containing version.
type FirstVersionResult struct {
	Version string
	Found   bool
}

func (firstVersionTask) Run(ctx context.Context, eng *query.Engine, args map[string]string) (any, error) {
	sha, err := requireArg(args, "commit_sha")
	if err != nil {
		return nil, err
	}
	version, found, err := eng.FirstVersionContainingCommit(ctx, sha, submodule(args))
	if err != nil {
		return nil, err
	}
	return FirstVersionResult{Version: version, Found: found}, nil
}

// betweenVersionsTask implements task 1: "Find all commits between two
// versions".
type betweenVersionsTask struct{}

func (betweenVersionsTask) Index() int              { return 1 }
func (betweenVersionsTask) Name() string            { return "commits-between-versions" }
func (betweenVersionsTask) ArgumentNames() []string { return []string{"start_version", "end_version"} }
func (betweenVersionsTask) Description() string {
	return "Enumerate the commits between two release versions."
}

func (betweenVersionsTask) Run(ctx context.Context, eng *query.Engine, args map[string]string) (any, error) {
	start, err := requireArg(args, "start_version")
	if err != nil {
		return nil, err
	}
	end, err := requireArg(args, "end_version")
	if err != nil {
		return nil, err
	}
	return eng.CommitsBetweenVersions(ctx, start, end, submodule(args))
}

// findTextTask implements task 2: "Find commit by text".
type findTextTask struct{}

func (findTextTask) Index() int              { return 2 }
func (findTextTask) Name() string            { return "find-commit-by-text" }
func (findTextTask) ArgumentNames() []string { return []string{"text"} }
func (findTextTask) Description() string {
	return "Enumerate commits whose subject or body contains a free-text query."
}

func (findTextTask) Run(ctx context.Context, eng *query.Engine, args map[string]string) (any, error) {
	text, err := requireArg(args, "text")
	if err != nil {
		return nil, err
	}
	return eng.FindCommitsByText(ctx, text, submodule(args))
}

// Registry is the closed, 3-entry catalog, constructed once and never
// mutated after initialization.
type Registry struct {
	tasks [3]Task
}

// New builds the static Task Registry.
func New() *Registry {
	return &Registry{
		tasks: [3]Task{
			firstVersionTask{},
			betweenVersionsTask{},
			findTextTask{},
		},
	}
}

// All returns every task, sorted by index.
func (r *Registry) All() []Task {
	out := make([]Task, len(r.tasks))
	copy(out, r.tasks[:])
	return out
}

// HasIndex reports whether i names a task.
func (r *Registry) HasIndex(i int) bool { return i >= 0 && i < len(r.tasks) }

// HasName reports whether name matches some task's Name().
func (r *Registry) HasName(name string) bool {
	for _, t := range r.tasks {
		if t.Name() == name {
			return true
		}
	}
	return false
}

// ByIndex returns the task at index i.
func (r *Registry) ByIndex(i int) (Task, error) {
	if !r.HasIndex(i) {
		return nil, fmt.Errorf("registry: no task at index %d", i)
	}
	return r.tasks[i], nil
}

// ByName returns the task whose Name() matches name.
func (r *Registry) ByName(name string) (Task, error) {
	for _, t := range r.tasks {
		if t.Name() == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("registry: no task named %q", name)
}
