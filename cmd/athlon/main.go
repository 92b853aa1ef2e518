package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"athlonos/internal/config"
	"athlonos/internal/logging"
)

var (
	// Global flags
	verbose     bool
	cfgPath     string
	metricsAddr string

	// Loaded by PersistentPreRunE
	appCfg *config.Config

	// Logger
	logger *zap.Logger
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

// defaultConfigPath is used when --config is not given.
const defaultConfigPath = ".athlon/config.yaml"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "athlon",
	Short: "Athlon OS - a desktop in your terminal with a built-in chat agent",
	Long: `Athlon OS simulates a small desktop operating system in the terminal:
draggable windows, a taskbar and start menu, a file explorer over a mock
file system, and Athlon Agent, a chat assistant that talks to a cloud
model or to a local OpenAI-compatible endpoint or analysis backend.

Run without arguments to boot the desktop.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		if metricsAddr != "" {
			cfg.Metrics.Addr = metricsAddr
		}
		appCfg = cfg

		// The desktop owns the terminal, so it only ever logs to a file.
		if cmd == cmd.Root() {
			if err := logging.Initialize(cfg.Logging.ToLogging()); err != nil {
				return fmt.Errorf("failed to initialize logging: %w", err)
			}
			logger = logging.Get(logging.CategoryBoot).Zap()
			return nil
		}

		zcfg := zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.Use(logger, cfg.Logging.Categories)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDesktop(cmd.Context())
	},
}

// versionCmd prints the build version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the Athlon OS version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("athlon %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", defaultConfigPath, "Path to the config file")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")

	chatCmd.Flags().StringVar(&chatTransport, "transport", "", "Override the agent transport (cloud, local)")
	chatCmd.Flags().StringVar(&chatMode, "mode", "", "Override the local mode (direct, interpreter)")
	chatCmd.Flags().StringVar(&chatModel, "model", "", "Override the model name")
	chatCmd.Flags().StringVar(&chatAttach, "attach", "", "Attach a local file to the message")

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd, configShowCmd)

	rootCmd.AddCommand(chatCmd, filesCmd, catCmd, appsCmd, configCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
