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
	"classroom/internal/config"
	"classroom/pkg/log"
	"classroom/portal"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func serveCmd(conf func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the classroom API server",
		Long: `Run the classroom API server.

The session secret and the teacher password are read from SESSION_SECRET
and TEACHER_PASSWORD. Without them the server still starts, and the login
and teacher routes answer "server not configured".`,
		Example: `  classroom serve --listen :8080 --site ./site
  classroom serve --store sql --insecure-cookie`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := conf()
			if log.ParseLevel(c.App.Level) == log.LogLevelVerbose {
				gin.SetMode(gin.DebugMode)
			} else {
				gin.SetMode(gin.ReleaseMode)
			}
			return portal.Start(c)
		},
	}

	fs := cmd.Flags()
	fs.StringP("listen", "l", "", "listen address (default :8080)")
	fs.StringP("site", "", "", "directory of the static site to serve")
	fs.StringP("store", "", "", "backing store: supabase or sql")
	fs.BoolP("insecure-cookie", "", false, "omit the Secure cookie attribute, for local plain HTTP")

	return cmd
}
