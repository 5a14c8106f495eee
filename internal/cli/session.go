package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/waabox/catalogdeck/internal/domain"
	"github.com/waabox/catalogdeck/internal/i18n"
	"github.com/waabox/catalogdeck/internal/session"
)

// LoginCmd creates the login command.
func LoginCmd(env *Env) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Example: `  catalogdeck login -u admin
  catalogdeck login`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), env, username)
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account name (prompted when empty)")
	return cmd
}

func runLogin(ctx context.Context, env *Env, username string) error {
	var err error
	if username == "" {
		if username, err = env.readLine(env.t(i18n.AuthUsername) + ": "); err != nil {
			return err
		}
	}
	password, err := env.readSecret(env.t(i18n.AuthPassword) + ": ")
	if err != nil {
		return err
	}

	return env.run(ctx, func(ctx context.Context) error {
		res, err := env.App.Login(ctx, domain.Credentials{Username: username, Password: password})
		if err != nil {
			return err
		}
		fmt.Fprintf(env.Stdout, env.t(i18n.AuthSignedIn)+"\n", res.User.Username)
		return nil
	})
}

// LogoutCmd creates the logout command.
func LogoutCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := env.App.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(env.Stdout, env.t(i18n.AuthLogout))
			return nil
		},
	}
}

// WhoamiCmd creates the whoami command.
func WhoamiCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami(cmd.Context(), env)
		},
	}
}

func runWhoami(ctx context.Context, env *Env) error {
	if !env.App.Authenticated() {
		fmt.Fprintln(env.Stdout, env.t(i18n.AuthAnonymous))
		return ErrNotSignedIn
	}
	return env.run(ctx, func(ctx context.Context) error {
		u, err := env.App.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(env.Stdout, "%s (%s)\n", u.Username, u.Role)

		token, _ := env.App.Store.Get()
		if claims, err := session.PeekClaims(token); err == nil && !claims.ExpiresAt.IsZero() {
			fmt.Fprintf(env.Stdout, "expires %s\n", claims.ExpiresAt.Local().Format(time.RFC3339))
		}
		return nil
	})
}

// RegisterCmd creates the register command.
func RegisterCmd(env *Env) *cobra.Command {
	var username, email string
	cmd := &cobra.Command{
		Use:     "register",
		Short:   "Create an account",
		Example: `  catalogdeck register -u bob -e bob@example.com`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(cmd.Context(), env, username, email)
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "contact address")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func runRegister(ctx context.Context, env *Env, username, email string) error {
	password, err := env.readSecret(env.t(i18n.AuthPassword) + ": ")
	if err != nil {
		return err
	}
	return env.run(ctx, func(ctx context.Context) error {
		_, err := env.App.Register(ctx, username, email, password)
		return err
	})
}
