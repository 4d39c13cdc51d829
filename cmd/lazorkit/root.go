package main

import (
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lazor-kit/wallet-client/pkg/app"
	"github.com/lazor-kit/wallet-client/pkg/metrics"
)

const (
	flagConfig       = "config"
	flagLogLevel     = "log-level"
	flagSessionStore = "session-store"
	flagSessionFile  = "session-file"
)

type cli struct {
	root *cobra.Command

	v       *viper.Viper
	config  *app.BaseConfig
	metrics *newrelic.Application
	closers []func()
}

func newCLI() *cli {
	c := &cli{
		v: viper.New(),
	}

	c.root = &cobra.Command{
		Use:   "lazorkit",
		Short: "LazorKit passkey smart wallet client",
		Long: `Connects a passkey to a LazorKit smart wallet through the LazorKit portal,
signs transactions with it, and builds the program's administrative transactions.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	flags := c.root.PersistentFlags()
	flags.String(flagConfig, "", "path to a configuration file")
	flags.String(flagLogLevel, "info", "log level (trace, debug, info, warn, error)")
	flags.String(flagSessionStore, app.SessionStoreFile, "session store backend (file, memory, redis, postgres)")
	flags.String(flagSessionFile, "", "path of the session file when using the file backend")

	_ = c.v.BindPFlag("log_level", flags.Lookup(flagLogLevel))
	_ = c.v.BindPFlag("session_store", flags.Lookup(flagSessionStore))
	_ = c.v.BindPFlag("session_file_path", flags.Lookup(flagSessionFile))

	c.root.AddCommand(
		c.connectCmd(),
		c.signCmd(),
		c.statusCmd(),
		c.disconnectCmd(),
		deriveCmd(),
		c.buildCmd(),
	)

	return c
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	configPath, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return err
	}

	config, err := app.Load(c.v, configPath)
	if err != nil {
		return err
	}
	c.config = config

	provider, err := app.NewMetricsProvider(config)
	if err != nil {
		return err
	}
	c.metrics = provider

	app.ConfigureLogger(config, provider)

	ctx := cmd.Context()
	if provider != nil {
		ctx = metrics.WithNewRelicApp(ctx, provider)
	}
	ctx, end := metrics.StartTransaction(ctx, cmd.CommandPath())
	c.closers = append(c.closers, end)

	cmd.SetContext(ctx)
	return nil
}

func (c *cli) close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil

	if c.metrics != nil {
		c.metrics.Shutdown(5 * time.Second)
	}
}
