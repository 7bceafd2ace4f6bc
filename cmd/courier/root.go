package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/logandonley/courier/pkg/cloud"
	"github.com/logandonley/courier/pkg/config"
	"github.com/logandonley/courier/pkg/logging"
	"github.com/logandonley/courier/pkg/metrics"
	"github.com/logandonley/courier/pkg/response"
)

var (
	cfgFile     string
	debug       bool
	logFormat   string
	metricsAddr string
)

// errFailedResponse makes the process exit non-zero after an Error response
// has been printed
var errFailedResponse = errors.New("operation failed")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "courier",
	Short: "Upload and delete files on FTP, SFTP, S3 and Google Drive",
	Long: `Courier uploads files to and deletes files from remote storage backends
through one interface. Backends are defined in the config file and selected
by name, so switching provider is a configuration change.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if metricsAddr != "" {
			serveMetrics(metricsAddr)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initLogging, initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/courier/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format: console or json")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while the command runs")
}

// serveMetrics exposes /metrics in the background for the lifetime of the process
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	go func() {
		logging.Debug("serving metrics", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, mux); err != nil {
			logging.Warn("metrics server stopped", zap.Error(err))
		}
	}()
}

func initLogging() {
	level := "info"
	if debug {
		level = "debug"
	}
	if err := logging.Init(logging.Config{Level: level, Format: logFormat}); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in ~/.config/courier directory
		viper.AddConfigPath(filepath.Join(home, ".config", "courier"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match
	viper.SetEnvPrefix("COURIER")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err != nil {
		logging.Warn("error reading config file", zap.Error(err))
		return
	}
	logging.Debug("using config file", zap.String("path", viper.ConfigFileUsed()))

	// Log settings from the config file apply unless overridden by flags
	var lc config.LogConfig
	if err := viper.UnmarshalKey("log", &lc); err != nil {
		logging.Warn("invalid log config", zap.Error(err))
		return
	}
	if lc == (config.LogConfig{}) {
		return
	}
	if err := logging.Init(lc.LoggerConfig(flagLevel(), flagFormat())); err != nil {
		logging.Warn("failed to apply log config", zap.Error(err))
	}
}

func flagLevel() string {
	if debug {
		return "debug"
	}
	return ""
}

func flagFormat() string {
	if rootCmd.PersistentFlags().Changed("log-format") {
		return logFormat
	}
	return ""
}

// loadConfig unmarshals the configuration read by viper
func loadConfig() (*config.Config, error) {
	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if len(cfg.Backends) == 0 {
		return nil, fmt.Errorf("no backends configured")
	}
	return &cfg, nil
}

// newService creates the service for a configured backend. Account values
// in overrides replace the configured ones.
func newService(cfg *config.Config, name string, overrides map[string]any) (*cloud.Service, error) {
	b, err := cfg.Backend(name)
	if err != nil {
		return nil, err
	}

	t, err := b.BackendType()
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", name, err)
	}

	raw := make(map[string]any, len(b.Account)+len(overrides))
	for k, v := range b.Account {
		raw[k] = v
	}
	for k, v := range overrides {
		raw[k] = v
	}

	svc, err := cloud.New(t, raw,
		cloud.WithSettings(b.OperationSettings()),
		cloud.WithLogger(logging.L().With(zap.String("name", name))),
	)
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", name, err)
	}
	return svc, nil
}

// printResponse writes resp as JSON and turns an Error response into a
// non-zero exit
func printResponse(cmd *cobra.Command, resp response.Response) error {
	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if !resp.OK() {
		return errFailedResponse
	}
	return nil
}
