package cmd

import (
	"io"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skip-mev/sealed-auction/app"
	"github.com/skip-mev/sealed-auction/x/sealedauction/client/cli"
)

const flagHome = "home"

// NewRootCmd creates a new root command for sealedauctiond.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           app.AppName,
		Short:         "sealed bid auction node",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String(flagHome, app.DefaultNodeHome, "directory for config and data")

	txCmd := &cobra.Command{Use: "tx", Short: "Transactions subcommands"}
	txCmd.AddCommand(cli.NewTxCmd())

	queryCmd := &cobra.Command{Use: "query", Aliases: []string{"q"}, Short: "Querying subcommands"}
	queryCmd.AddCommand(cli.GetQueryCmd())

	rootCmd.AddCommand(
		InitCmd(),
		ValidateGenesisCmd(),
		StartCmd(),
		ExportCmd(),
		txCmd,
		queryCmd,
	)

	return rootCmd
}

func configFromCmd(cmd *cobra.Command) (Config, error) {
	home, err := cmd.Flags().GetString(flagHome)
	if err != nil {
		return Config{}, err
	}

	return ReadConfig(viper.New(), home)
}

// NewLogger returns the node logger described by cfg.
func NewLogger(w io.Writer, cfg Config) (log.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	opts := []log.Option{log.LevelOption(level)}
	if cfg.LogFormat == "json" {
		opts = append(opts, log.OutputJSONOption())
	}

	return log.NewLogger(w, opts...).With("service", app.AppName), nil
}
