package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/servalproject/serval-sdk-go/pkg/serval"
)

var version = "dev" // set by the linker

var rootCmd = &cobra.Command{
	Use:           "servalctl",
	Short:         "Talk to a serval daemon over its REST interface",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetBool("verbose") {
			log.SetLevel(log.DebugLevel)
		}
		if cfgFile := viper.GetString("config"); cfgFile != "" {
			viper.SetConfigFile(cfgFile)
			if err := viper.ReadInConfig(); err != nil {
				return fmt.Errorf("read config file: %w", err)
			}
			log.Debug("loaded config", "file", viper.ConfigFileUsed())
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("host", "localhost", "daemon host")
	pf.Int("port", 4110, "daemon REST port")
	pf.String("user", "", "REST username")
	pf.String("password", "", "REST password")
	pf.Duration("timeout", 30*time.Second, "request timeout")
	pf.Bool("verbose", false, "enable debug logging")
	pf.String("config", "", "config file (yaml)")

	viper.SetEnvPrefix("SERVAL_API")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	for _, name := range []string{"host", "port", "user", "password", "timeout", "verbose", "config"} {
		if err := viper.BindPFlag(name, pf.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func newClient() (*serval.Client, error) {
	cfg := serval.Config{
		Host:     viper.GetString("host"),
		Port:     viper.GetInt("port"),
		User:     viper.GetString("user"),
		Password: viper.GetString("password"),
	}
	log.Debug("connecting", "url", cfg.BaseURL())
	client, err := serval.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to daemon: %w", err)
	}
	return client, nil
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), viper.GetDuration("timeout"))
}
