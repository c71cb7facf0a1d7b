// Command version-finder answers structured questions about a git
// repository whose commit history encodes release versions, shelling out
// to the installed git binary rather than implementing its own object
// database.
package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/levmat/version-finder/clicommand"
	"github.com/levmat/version-finder/version"
	"github.com/urfave/cli"
)

const appHelpTemplate = `Usage:
  {{.Name}} <command> [options...]

Available commands are: {{range .VisibleCommands}}
  {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}

Use "{{.Name}} <command> --help" for more information about a command.
`

func printVersion(c *cli.Context) {
	fmt.Fprintf(c.App.Writer, "%s version %s\n", c.App.Name, version.FullVersion())
}

func main() {
	cli.AppHelpTemplate = appHelpTemplate
	cli.VersionPrinter = printVersion

	app := cli.NewApp()
	app.Name = "version-finder"
	app.Usage = "Answer version-resolution questions about a git repository"
	app.Version = version.Version()
	app.Commands = clicommand.Commands
	app.ErrWriter = os.Stderr

	app.CommandNotFound = func(c *cli.Context, command string) {
		fmt.Fprintf(app.ErrWriter, "version-finder: unknown subcommand %q\n", command)
		fmt.Fprintf(app.ErrWriter, "Run '%s --help' for usage.\n", c.App.Name)
		os.Exit(1)
	}

	// An interrupted run exits 130 without printing an error of its own;
	// whatever git subprocess was in flight has already been killed along
	// with us receiving the signal.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	go func() {
		<-interrupts
		os.Exit(clicommand.PrintMessageAndReturnExitCode(clicommand.NewSilentExitError(130)))
	}()

	if err := app.Run(os.Args); err != nil {
		os.Exit(clicommand.PrintMessageAndReturnExitCode(err))
	}
}
