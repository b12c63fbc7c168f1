package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/psantana5/lapwatch/internal/report"
	"github.com/psantana5/lapwatch/pkg/logging"
)

var (
	cfgFile      string
	outputFormat string
	logLevel     string
	logFormat    string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lapwatch",
	Short: "Drive in-process stopwatches and report their laps",
	Long: `lapwatch creates stopwatches in an in-memory registry, runs timed lap
sessions against them and prints the recorded laps and metrics.

Nothing is persisted: every invocation starts with an empty registry.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !report.ValidFormat(GetOutputFormat()) {
			return fmt.Errorf("unsupported output format: %s", GetOutputFormat())
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.lapwatch/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", report.FormatTable, "output format: table, json or yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")

	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".lapwatch"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("LAPWATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", cfgFile, err)
		}
	}
}

// GetOutputFormat returns the configured output format
func GetOutputFormat() string {
	return strings.ToLower(viper.GetString("output"))
}

// NewLogger builds the logger described by the configuration
func NewLogger() *logging.Logger {
	level := logging.ParseLevel(viper.GetString("log_level"))
	jsonFormat := strings.EqualFold(viper.GetString("log_format"), "json")
	return logging.NewLogger(level, jsonFormat).WithField("app", "lapwatch")
}
