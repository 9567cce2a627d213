// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ava-labs/hyperxcm/utils"
)

const (
	cliFolder       = ".xcm-cli"
	defaultEndpoint = "http://127.0.0.1:9650"
)

type cli struct {
	configDir string
	settings  *viper.Viper
}

func NewRootCmd() *cobra.Command {
	c := &cli{settings: viper.New()}
	cmd := &cobra.Command{
		Use:   "xcm-cli",
		Short: "Cross-consensus message executor",
		Long:  `Run an executor node and build, inspect and submit cross-consensus messages.`,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return c.init()
		},
		SilenceUsage: true,
	}

	cobra.EnablePrefixMatching = true
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.DisableAutoGenTag = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	cmd.PersistentFlags().StringP("output", "o", "", "Output format (text or json)")
	cmd.PersistentFlags().String("endpoint", "", "Override the default endpoint")
	cmd.PersistentFlags().StringVar(&c.configDir, "config-dir", "", "Directory holding the cli settings (default ~/"+cliFolder+")")

	cmd.AddCommand(
		newServeCmd(),
		newExecuteCmd(c),
		newDecodeCmd(c),
		newBuildCmd(c),
		newBalanceCmd(c),
		newOutboxCmd(c),
		newEndpointCmd(c),
	)
	return cmd
}

// init loads the persisted cli settings, creating an empty settings file
// on first use.
func (c *cli) init() error {
	if c.configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		c.configDir = filepath.Join(homeDir, cliFolder)
	}
	configDir, err := utils.InitSubDirectory(filepath.Dir(c.configDir), filepath.Base(c.configDir))
	if err != nil {
		return err
	}

	configFile := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := utils.SaveBytes(configFile, nil); err != nil {
			return err
		}
	}
	c.settings.SetConfigFile(configFile)
	c.settings.SetConfigType("yaml")
	c.settings.SetDefault("endpoint", defaultEndpoint)
	c.settings.SetDefault("output", "text")
	return c.settings.ReadInConfig()
}
