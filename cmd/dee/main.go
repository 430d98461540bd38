// Command dee is a client for a publicly verifiable randomness beacon
// network: it fetches and cryptographically verifies beacons, and can
// timelock-encrypt data to a future round.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var remoteFlag = &cli.StringFlag{
	Name:    "remote",
	Aliases: []string{"u"},
	Usage:   "named remote or URL to fetch from",
}

var verifyFlag = &cli.BoolFlag{
	Name:  "verify",
	Usage: "verify beacon signatures and randomness",
	Value: true,
}

func main() {
	app := &cli.App{
		Name:  "dee",
		Usage: "verify and timelock randomness from a drand-compatible beacon network",
		Commands: []*cli.Command{
			randCommand,
			cryptCommand,
			remoteCommand,
			configPathCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
