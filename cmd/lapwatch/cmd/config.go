package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long:  `Prints the configuration after merging the config file, LAPWATCH_* environment variables and flags.`,
	RunE:  runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// EffectiveConfig is the resolved configuration
type EffectiveConfig struct {
	ConfigFile string `yaml:"config_file,omitempty"`
	Output     string `yaml:"output"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
}

func currentConfig() EffectiveConfig {
	return EffectiveConfig{
		ConfigFile: viper.ConfigFileUsed(),
		Output:     GetOutputFormat(),
		LogLevel:   viper.GetString("log_level"),
		LogFormat:  viper.GetString("log_format"),
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := yaml.Marshal(currentConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
