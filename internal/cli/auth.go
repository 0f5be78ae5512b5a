package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/georgettica/contact-fixer/internal/auth"
)

func newAuthCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to your Google contacts and store the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			oauthCfg, err := auth.LoadConfig(a.cfg.Auth.CredentialsPath)
			if err != nil {
				return err
			}

			authorizer := &auth.Authorizer{
				Config: oauthCfg,
				Store:  auth.NewFileTokenStore(a.cfg.Auth.TokenPath),
				In:     a.in,
				Out:    a.out,
				Logger: a.logger,
			}
			if _, err := authorizer.Token(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Token stored at %s\n", authorizer.Store.Path())
			return nil
		},
	}
}
