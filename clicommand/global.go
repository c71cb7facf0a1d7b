// Package clicommand holds the urfave/cli subcommands that expose the
// version-resolution engine on the command line: one subcommand per Task
// Registry entry, plus inspect, update, and version. Flags are bound onto
// tagged config structs through cliconfig.Loader, with GlobalConfig
// embedded into every per-command config struct.
package clicommand

import (
	"os"
	"time"

	"github.com/levmat/version-finder/cliconfig"
	"github.com/levmat/version-finder/logger"
	"github.com/oleiade/reflections"
	"github.com/urfave/cli"
)

// GlobalConfig carries the flags every subcommand needs to open a
// Repository Model: the working tree path, log level, and an optional
// config file. Embedded into every per-task config struct.
type GlobalConfig struct {
	Path       string `cli:"path"`
	LogLevel   string `cli:"log-level"`
	ConfigFile string `cli:"config"`
	NoColor    bool   `cli:"no-color"`
}

// ExecutorFlagsConfig binds the Git Executor's timeout/retry knobs and the
// submodule-scan window.
type ExecutorFlagsConfig struct {
	Timeout             time.Duration `cli:"timeout"`
	Retries             int           `cli:"retries"`
	RetryDelay          time.Duration `cli:"retry-delay"`
	ExtraGitArgs        string        `cli:"extra-git-args"`
	SubmoduleScanWindow int           `cli:"submodule-scan-window"`
}

var (
	PathFlag = cli.StringFlag{
		Name:   "path",
		Value:  ".",
		Usage:  "Path to the git repository to query",
		EnvVar: "VERSION_FINDER_PATH",
	}

	LogLevelFlag = cli.StringFlag{
		Name:   "log-level",
		Value:  "notice",
		Usage:  "Set the log level. Allowed values are: debug, info, notice, warn, error, fatal",
		EnvVar: "VERSION_FINDER_LOG_LEVEL",
	}

	ConfigFileFlag = cli.StringFlag{
		Name:   "config",
		Usage:  "Path to a version-finder config file",
		EnvVar: "VERSION_FINDER_CONFIG",
	}

	NoColorFlag = cli.BoolFlag{
		Name:   "no-color",
		Usage:  "Don't show colors in logging",
		EnvVar: "VERSION_FINDER_NO_COLOR",
	}

	TimeoutFlag = cli.DurationFlag{
		Name:   "timeout",
		Value:  30 * time.Second,
		Usage:  "Per-invocation timeout for git commands",
		EnvVar: "VERSION_FINDER_TIMEOUT",
	}

	RetriesFlag = cli.IntFlag{
		Name:   "retries",
		Value:  0,
		Usage:  "Number of times to retry a failing git command",
		EnvVar: "VERSION_FINDER_RETRIES",
	}

	RetryDelayFlag = cli.DurationFlag{
		Name:   "retry-delay",
		Value:  1 * time.Second,
		Usage:  "Delay between retried git commands",
		EnvVar: "VERSION_FINDER_RETRY_DELAY",
	}

	ExtraGitArgsFlag = cli.StringFlag{
		Name:   "extra-git-args",
		Usage:  "Extra global git flags to pass to every invocation, e.g. \"-c protocol.version=2\"",
		EnvVar: "VERSION_FINDER_EXTRA_GIT_ARGS",
	}

	SubmoduleScanWindowFlag = cli.IntFlag{
		Name:   "submodule-scan-window",
		Value:  1500,
		Usage:  "Number of parent-repo log entries to scan when locating a submodule pointer change",
		EnvVar: "VERSION_FINDER_SUBMODULE_SCAN_WINDOW",
	}

	SubmoduleFlag = cli.StringFlag{
		Name:  "submodule",
		Usage: "Scope the query to a submodule path",
	}

	BranchFlag = cli.StringFlag{
		Name:  "branch",
		Usage: "Branch to check out before updating (defaults to the current branch)",
	}
)

func globalFlags() []cli.Flag {
	return []cli.Flag{PathFlag, LogLevelFlag, ConfigFileFlag, NoColorFlag}
}

func executorFlags() []cli.Flag {
	return []cli.Flag{TimeoutFlag, RetriesFlag, RetryDelayFlag, ExtraGitArgsFlag, SubmoduleScanWindowFlag}
}

// CreateLogger builds a console logger from a loaded config struct,
// honoring LogLevel and NoColor fields when present. It looks the fields
// up via reflections so it works across every per-command config struct
// without a shared interface.
func CreateLogger(cfg any) logger.Logger {
	printer := logger.NewTextPrinter(os.Stderr)

	if noColor, err := reflections.GetField(cfg, "NoColor"); err == nil {
		if nc, ok := noColor.(bool); ok && nc {
			printer.Colors = false
		}
	}

	l := logger.NewConsoleLogger(printer, os.Exit)
	l.SetLevel(logger.NOTICE)

	if logLevel, err := reflections.GetField(cfg, "LogLevel"); err == nil {
		if llStr, ok := logLevel.(string); ok && llStr != "" {
			level, err := logger.LevelFromString(llStr)
			if err != nil {
				l.Warn("%v; defaulting log level to notice", err)
			} else {
				l.SetLevel(level)
			}
		}
	}

	return l
}

// setupConfig loads flags/env/config-file values into a fresh T and
// constructs a logger for it.
func setupConfig[T any](c *cli.Context) (cfg T, l logger.Logger, err error) {
	loader := cliconfig.Loader{CLI: c, Config: &cfg}

	warnings, loadErr := loader.Load()
	if loadErr != nil {
		return cfg, nil, loadErr
	}

	l = CreateLogger(&cfg)
	for _, w := range warnings {
		l.Warn("%s", w)
	}

	return cfg, l, nil
}
