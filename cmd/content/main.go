package main

import (
	"log"
	"os"
	"strconv"

	"github.com/nspcc-dev/content-contract/common"
	"github.com/urfave/cli"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "content"
	app.Usage = "Manage content modules state and channel payout snapshots"
	app.Version = strconv.Itoa(common.Version)
	app.Commands = []cli.Command{
		genesisCommand,
		commitCommand,
		proofCommand,
		verifyCommand,
		claimCommand,
	}
	return app
}

var (
	configFlag = cli.StringFlag{
		Name:     "config, c",
		Usage:    "Path to the YAML configuration file",
		Required: true,
	}
	dirFlag = cli.StringFlag{
		Name:  "dir, d",
		Usage: "Directory with payout snapshots",
		Value: "snapshots",
	}
	labelFlag = cli.StringFlag{
		Name:     "label, l",
		Usage:    "Label of the payout snapshot (e.g. 'mainnet')",
		Required: true,
	}
	blockFlag = cli.UintFlag{
		Name:     "block, b",
		Usage:    "Block the payout snapshot is taken at",
		Required: true,
	}
	channelFlag = cli.Uint64Flag{
		Name:     "channel",
		Usage:    "Channel identifier",
		Required: true,
	}
)
