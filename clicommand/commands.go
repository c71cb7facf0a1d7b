package clicommand

import "github.com/urfave/cli"

// Commands is the full set of version-finder subcommands, one per Task
// Registry entry plus inspect, update, and version.
var Commands = []cli.Command{
	FirstVersionCommand,
	BetweenVersionsCommand,
	FindTextCommand,
	InspectCommand,
	UpdateCommand,
	VersionCommand,
}
