package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "inflow",
	Short: "Inline workflow navigator - walk users through button driven workflows",
	Long: `inflow drives users through a configured sequence of steps. Each step shows
a text and a grid of buttons: plain choices, radio groups, checkboxes, toggles,
skips and an early finish. Selections are collected per session and shown as a
summary at the end.

The workflow is read from a YAML or JSON definition file.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.inflow.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringP("definition", "d", "", "path to the workflow definition (YAML or JSON)")
	rootCmd.PersistentFlags().Bool("preselect-radios", false, "select the first option of every radio group when a manual step is shown")
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("definition", rootCmd.PersistentFlags().Lookup("definition"))
	_ = viper.BindPFlag("navigator.preselect-radios", rootCmd.PersistentFlags().Lookup("preselect-radios"))

	viper.SetDefault("render.done-label", "Done / Next")
	viper.SetDefault("render.back-label", "Go Back")
	viper.SetDefault("render.summary-title", "Workflow completed! Here are your selections:")

	logger = newLogger(slog.LevelInfo)
}

func initConfig() {
	// .env is optional
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			logger.Error("failed to get home directory", "error", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".inflow")
	}

	viper.SetEnvPrefix("inflow")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logger.Info("using config file", "file", viper.ConfigFileUsed())
	}

	switch viper.GetString("log-level") {
	case "debug":
		logger = newLogger(slog.LevelDebug)
	case "warn":
		logger = newLogger(slog.LevelWarn)
	case "error":
		logger = newLogger(slog.LevelError)
	}
}

// newLogger writes JSON to stderr so stdout stays free for the console.
func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func GetLogger() *slog.Logger {
	return logger
}
