package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/xrplkit/walletconsole/cmd/utils"
	"github.com/xrplkit/walletconsole/internal/console"
	"github.com/xrplkit/walletconsole/log"
	"github.com/xrplkit/walletconsole/params"
	rpcserver "github.com/xrplkit/walletconsole/rpc/server"
)

var (
	clientIdentifier = "walletconsole"
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""
	gitDate   = ""
	// The app that holds all commands and flags.
	app = utils.NewApp(clientIdentifier, gitCommit, gitDate, "the wallet console daemon")
)

func initApp() {
	app.Action = walletconsole
	app.HideVersion = true // we have a command to print the version
	app.Commands = []*cli.Command{
		utils.VersionCommand,
	}
	app.Flags = []cli.Flag{
		utils.ConfigFileFlag,
		utils.LogFileFlag,
		utils.LogRotationFlag,
		utils.LogMaxAgeFlag,
		utils.VerbosityFlag,
		utils.JSONFormatFlag,
		utils.ColorFormatFlag,
		utils.WatchConfigFlag,
	}
}

func main() {
	initApp()
	if err := app.Run(os.Args); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func walletconsole(ctx *cli.Context) error {
	utils.SetLogger(ctx)
	if ctx.NArg() > 0 {
		return fmt.Errorf("invalid command: %q", ctx.Args().Get(0))
	}

	configFile := utils.GetConfigFilePath(ctx)
	params.LoadConfig(configFile)

	if ctx.Bool(utils.WatchConfigFlag.Name) {
		stop, err := params.WatchConfig()
		if err != nil {
			return err
		}
		defer stop()
	}

	svc := console.Init()
	defer svc.Close()

	rpcserver.StartAPIServer()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig.String())
	return nil
}
