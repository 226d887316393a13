package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "WORKSHOP"

var rootCmd = &cobra.Command{
	Use:   "workshop",
	Short: "TorchServe workshop CLI",
	Long:  "Download a pretrained image-classification model, package it for TorchServe, run the serving container, and classify images against it",

	// Runs before this command and any subcommands
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Set global viper options
		viper.SetEnvPrefix(envPrefix)
		viper.SetEnvKeyReplacer(strings.NewReplacer(
			`-`, `_`, // convert hyphens to underscores
			`.`, `_`, // convert dots to underscores
		))
		viper.AutomaticEnv()

		// Bind all flags from the current command and its parents
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
			return err
		}

		if !config.IsLoaded() {
			if err := config.InitConfig(); err != nil {
				return err
			}
		}

		return nil
	},
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pflags := rootCmd.PersistentFlags()

	pflags.String("home", "", "Path to the workshop home directory")
	pflags.String("config-file", "", "Path to the config file")
	pflags.String("env-file", "", "Path to the env file")

	viper.BindPFlag("workshop_home", pflags.Lookup("home"))
	viper.BindPFlag("config_file", pflags.Lookup("config-file"))
	viper.BindPFlag("env_file", pflags.Lookup("env-file"))

	rootCmd.AddCommand(setupCmd, archiveCmd, backendCmd, classifyCmd, uiCmd, bundlesCmd)
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}
