package clicommand

import (
	"context"
	"fmt"
	"slices"

	"github.com/levmat/version-finder/internal/registry"
	"github.com/urfave/cli"
)

const firstVersionHelpDescription = `Usage:

   version-finder first-version [options...]

Description:

   Given a commit (optionally inside a submodule), prints the first
   parent-repository release version whose ancestry includes that commit.

Example:

   $ version-finder first-version --commit abc1234
   2024_02_15

   $ version-finder first-version --commit abc1234 --submodule vendor/widget
   2024_03_01`

// FirstVersionConfig binds the flags for task 0, "Find first version
// containing commit".
type FirstVersionConfig struct {
	GlobalConfig
	ExecutorFlagsConfig

	Commit    string `cli:"commit" validate:"required"`
	Submodule string `cli:"submodule"`
	Branch    string `cli:"branch"`
}

var FirstVersionCommand = cli.Command{
	Name:        "first-version",
	Usage:       "Find the first version containing a commit",
	Description: firstVersionHelpDescription,
	Flags: slices.Concat(globalFlags(), executorFlags(), []cli.Flag{
		cli.StringFlag{Name: "commit", Usage: "Commit sha to resolve"},
		SubmoduleFlag,
		BranchFlag,
	}),
	Action: func(c *cli.Context) error {
		cfg, l, err := setupConfig[FirstVersionConfig](c)
		if err != nil {
			return err
		}

		ctx := context.Background()
		_, eng, err := openEngine(ctx, cfg.GlobalConfig, cfg.ExecutorFlagsConfig, cfg.Branch, l)
		if err != nil {
			return err
		}

		value, err := runTask(ctx, eng, "first-version-containing-commit", map[string]string{
			"commit_sha": cfg.Commit,
			"submodule":  cfg.Submodule,
		})
		if err != nil {
			return err
		}

		result := value.(registry.FirstVersionResult)
		if !result.Found {
			l.Info("no later version commit contains %s", cfg.Commit)
			return nil
		}

		fmt.Fprintln(c.App.Writer, result.Version)
		return nil
	},
}
