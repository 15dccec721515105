package main

import (
	"github.com/spf13/cobra"

	"contentcore/internal/identity"
)

func (a *app) verifier() identity.Verifier {
	tokens := make(map[string]identity.Identity, len(a.cfg.Auth.Tokens))
	for _, t := range a.cfg.Auth.Tokens {
		tokens[t.Token] = identity.Identity{UID: t.UID, DisplayName: t.Name, Email: t.Email}
	}
	return identity.NewStaticVerifier(tokens)
}

func newLoginCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login <token>",
		Short: "Verify a dev token and ensure its user account exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ident, err := a.verifier().Verify(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			user, err := a.svc.RegisterIdentity(cmd.Context(), ident)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), user)
		},
	}
}
