// Copyright 2025 The Classroom Authors, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"fmt"
	"os"

	"classroom/cmd/classroom/cmd/token"
	"classroom/internal/config"
	"classroom/pkg/log"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the classroom command tree.
func NewRootCommand() *cobra.Command {
	var conf *config.Config
	loadConf := func() *config.Config { return conf }

	rootCmd := &cobra.Command{
		Use:           "classroom",
		Short:         "classroom: teacher login, assignments and submissions for a class website",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.NewConfigManager().LoadConf(cmd)
			if err != nil {
				return err
			}
			conf = c
			log.SetLogLevel(conf.App.Level)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	fs := rootCmd.PersistentFlags()
	fs.StringP("config", "c", "", "config file (default ./classroom.yaml, or $"+config.EnvConfigFile+")")
	fs.StringP("level", "", "", "log level (silent, verbose, info, warning, error)")

	rootCmd.AddCommand(serveCmd(loadConf))
	rootCmd.AddCommand(token.NewTokenCommand(loadConf))
	rootCmd.AddCommand(passwordCmd())
	rootCmd.AddCommand(envCheckCmd(loadConf))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

// Execute executes the root command.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
