package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"faraid-engine/internal/config"
	"faraid-engine/internal/logging"
)

var (
	// Flags
	envFile  string
	logLevel string
	port     int
	lang     string
	asJSON   bool
	trace    bool
	reqFile  string

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "faraid-engine",
	Short: "Shafi'i inheritance share calculator",
	Long: `faraid-engine distributes an estate among surviving relatives under the
Shafi'i school: debts, funeral costs and the one-third bequest ceiling first,
then blocking, fixed shares, Aul, residuaries and Radd.

Run "faraid-engine serve" for the HTTP service or "faraid-engine calculate"
for a one-off calculation from a JSON request file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}
		var err error
		cfg, err = config.Load(files...)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		logger, err = logging.New(cfg.LogLevel)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides PORT)")

	calculateCmd.Flags().StringVarP(&reqFile, "file", "f", "", "request JSON file, - for stdin")
	calculateCmd.Flags().StringVar(&lang, "lang", "", "label language (en, ml, ar)")
	calculateCmd.Flags().BoolVar(&asJSON, "json", false, "print the response envelope as JSON")
	calculateCmd.Flags().BoolVar(&trace, "trace", false, "include per-stage state patches (implies --json)")
	_ = calculateCmd.MarkFlagRequired("file")

	categoriesCmd.Flags().StringVar(&lang, "lang", "", "label language (en, ml, ar)")
	categoriesCmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	rootCmd.AddCommand(serveCmd, calculateCmd, categoriesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
