package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/syndic/internal/cli"
	"github.com/terraincognita07/syndic/internal/config"
	"github.com/terraincognita07/syndic/internal/logging"
)

const appName = "Syndic Pro"

type appContext struct {
	cfg    config.Config
	logger *logrus.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	app := &appContext{}
	root := &cobra.Command{
		Use:          "syndic",
		Short:        "Co-ownership management for a single building",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.load(cmd)
		},
	}

	opener := func() (*cli.Runtime, error) {
		return cli.OpenRuntime(app.cfg, app.logger)
	}
	root.AddCommand(
		serveCmd(app),
		cli.ExportCmd(opener),
		cli.ImportCmd(opener),
		cli.WipeCmd(opener),
		cli.EntriesCmd(opener),
		cli.ResetAdminPasswordCmd(opener),
		cli.RemindCmd(opener),
	)
	return root
}

// load reads .env and the environment. One-shot commands log to stderr so
// their stdout stays clean for piping.
func (app *appContext) load(cmd *cobra.Command) error {
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	app.cfg = cfg
	app.logger = logging.NewWithOutput(appName, cfg.LogLevel, cmd.ErrOrStderr())
	return nil
}
