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

package token

import (
	"encoding/json"
	"fmt"
	"time"

	"classroom/internal/config"
	"classroom/pkg/session"

	"github.com/spf13/cobra"
)

// NewTokenCommand returns the "token" command. conf yields the loaded
// configuration once the root command has parsed its flags.
func NewTokenCommand(conf func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token <sub-command>",
		Short: "Issue and inspect session tokens",
		Long:  `Issue and inspect the session tokens carried in the teacher cookie, signed with SESSION_SECRET.`,
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.AddCommand(tokenIssueCmd(conf))
	cmd.AddCommand(tokenVerifyCmd(conf))

	return cmd
}

func tokenIssueCmd(conf func() *config.Config) *cobra.Command {
	var (
		role   string
		ttl    time.Duration
		cookie bool
	)
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Mint a token",
		Example: `  classroom token issue
  classroom token issue --role teacher --ttl 1h --cookie`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := conf()
			if ttl == 0 {
				ttl = c.Session.TTL
			}
			auth, err := newAuthenticator(c, session.WithTTL(ttl))
			if err != nil {
				return err
			}
			tok, err := auth.Issue(session.Claims{session.ClaimRole: role})
			if err != nil {
				return err
			}
			if cookie {
				fmt.Fprintln(cmd.OutOrStdout(), auth.Cookie(tok))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&role, "role", "r", session.RoleTeacher, "role claim of the token")
	fs.DurationVarP(&ttl, "ttl", "t", 0, "token lifetime (default session.ttl)")
	fs.BoolVarP(&cookie, "cookie", "", false, "print the Set-Cookie value instead of the bare token")

	return cmd
}

func tokenVerifyCmd(conf func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <token>",
		Short: "Check a token and print its claims",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := newAuthenticator(conf())
			if err != nil {
				return err
			}
			claims, err := auth.Verify(args[0])
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(claims, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newAuthenticator(c *config.Config, opts ...session.Option) (*session.Authenticator, error) {
	base := []session.Option{
		session.WithTTL(c.Session.TTL),
		session.WithLeeway(c.Session.Leeway),
		session.WithCookie(session.CookieOptions{
			Name:   c.Session.CookieName,
			Domain: c.Session.Domain,
			Secure: c.Session.Secure,
		}),
	}
	auth, err := session.NewAuthenticator([]byte(c.Session.Secret), append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("SESSION_SECRET: %w", err)
	}
	return auth, nil
}
