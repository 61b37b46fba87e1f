// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Procmond
package main

import (
	"fmt"
	"os"
	"strings"

	gops "github.com/google/gops/agent"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/procmond/procmond/pkg/logger"
	"github.com/procmond/procmond/pkg/option"
	"github.com/procmond/procmond/pkg/version"
)

var log = logger.GetLogger()

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func execute() error {
	rootCmd := &cobra.Command{
		Use:     "procmond",
		Short:   "Monitor process fork/exec/exit events from the kernel",
		Version: version.Version,
		Run: func(cmd *cobra.Command, args []string) {
			readAndSetFlags()

			if err := logger.SetupLogging(option.Config.LogOpts, option.Config.Debug); err != nil {
				log.WithError(err).Fatal("Failed to set up logging")
			}

			if option.Config.GopsAddr != "" {
				log.WithField("addr", option.Config.GopsAddr).Info("Starting gops server")
				if err := gops.Listen(gops.Options{
					Addr:                   option.Config.GopsAddr,
					ReuseSocketAddrAndPort: true,
				}); err != nil {
					log.WithError(err).Fatal("Failed to start gops")
				}
			}

			if err := procmondExecute(); err != nil {
				log.WithError(err).Fatal("Failed to start procmond")
			}
		},
	}

	cobra.OnInitialize(func() {
		viper.SetEnvPrefix("procmond")
		viper.SetConfigName("procmond")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".") // look for a config file in cwd first, useful during development
		viper.AddConfigPath("/etc/procmond/")
		if err := viper.ReadInConfig(); err == nil {
			log.WithField("file", viper.ConfigFileUsed()).Info("Loaded config from file")
		}
		replacer := strings.NewReplacer("-", "_")
		viper.SetEnvKeyReplacer(replacer)
		viper.AutomaticEnv()
	})

	flags := rootCmd.PersistentFlags()
	addFlags(flags)
	viper.BindPFlags(flags)

	return rootCmd.Execute()
}
