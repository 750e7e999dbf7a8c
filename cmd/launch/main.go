package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var version = "dev"

const (
	defaultUrl = "http://localhost:7070"
)

var (
	urlFlag = &cli.StringFlag{
		Name:    "url",
		Usage:   "address of the launch site daemon",
		Value:   defaultUrl,
		EnvVars: []string{"LAUNCH_CLI_URL"},
	}
	actorFlag = &cli.StringFlag{
		Name:    "actor",
		Usage:   "hex encoded 32-byte id of the caller",
		EnvVars: []string{"LAUNCH_CLI_ACTOR"},
	}
)

func main() {
	app := cli.NewApp()

	app.Version = version
	app.Name = "launch"
	app.Usage = "Command line interface to interact with launchd"
	app.Flags = []cli.Flag{urlFlag, actorFlag}
	app.Commands = append(
		app.Commands,
		infoCmd,
		participantCmd,
		sessionCmd,
		stateCmd,
		metaHashCmd,
		auditCmd,
	)

	if err := app.Run(os.Args); err != nil {
		fmt.Println(fmt.Errorf("error: %v", err))
		os.Exit(1)
	}
}
