package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"recruitdesk/cv-intake/internal/dayrange"
	"recruitdesk/cv-intake/internal/logger"
)

const app = "cvctl"

// Actual version can be specified in build command.
var version = "unknown"

type Config struct {
	API struct {
		BaseURL string        `mapstructure:"base-url"`
		Token   string        `mapstructure:"token"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"api"`
	Output string `mapstructure:"output"`
	Out    string `mapstructure:"out"`
}

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "cvctl fetches and screens candidates from the CV intake API",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	viper.SetDefault("api.base-url", "http://localhost:3000")
	viper.SetDefault("api.timeout", "15s")
	viper.SetDefault("output", "table")

	if err := viper.BindEnv("api.token", "CVCTL_API_TOKEN"); err != nil {
		panic(fmt.Sprintf("binding CVCTL_API_TOKEN environment variable: %v", err))
	}

	viper.SetEnvPrefix("CVCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "a config file (default is cvctl.yaml in current directory)")
	flags.BoolP("debug", "d", false, "verbose/debug output")
	flags.BoolP("json", "j", false, "json format for logging")
	flags.String("base-url", "", "intake API base URL")
	flags.StringP("output", "o", "", "output format: table, json, csv or xlsx")
	flags.String("out", "", "write output to this file instead of stdout")

	viper.BindPFlag("debug", flags.Lookup("debug"))
	viper.BindPFlag("json", flags.Lookup("json"))
	viper.BindPFlag("api.base-url", flags.Lookup("base-url"))
	viper.BindPFlag("output", flags.Lookup("output"))
	viper.BindPFlag("out", flags.Lookup("out"))

	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional, flags and CVCTL_* variables are enough.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			fmt.Fprintf(os.Stderr, "reading config: %v\n", err)
			os.Exit(1)
		}
	}
}

func getConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &config, nil
}

func newLogger() (*zap.Logger, error) {
	return logger.New(viper.GetBool("json"), viper.GetBool("debug"))
}

func newFetcher(config *Config, log *zap.Logger) *dayrange.Fetcher {
	source := dayrange.NewHTTPSource(config.API.BaseURL, config.API.Token, config.API.Timeout)
	return dayrange.NewFetcher(source, log)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("%s version: %s\n", app, version)
	},
}
