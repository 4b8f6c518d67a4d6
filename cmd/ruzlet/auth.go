package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Kbnch7/quizlet/internal/api"
	"github.com/Kbnch7/quizlet/internal/auth"
	"github.com/Kbnch7/quizlet/internal/forms"
	"github.com/spf13/cobra"
)

func newAuthCommand() *cobra.Command {
	authCommand := &cobra.Command{
		Use:   "auth",
		Short: "Log in and out of the Ruzlet backend",
	}

	authCommand.AddCommand(
		newAuthLoginCommand(),
		newAuthRegisterCommand(),
		newAuthLogoutCommand(),
		newAuthWhoamiCommand(),
		newAuthRefreshCommand(),
	)
	return authCommand
}

func newAuthLoginCommand() *cobra.Command {
	var form forms.LoginForm

	command := &cobra.Command{
		Use:   "login",
		Short: "Log in with a username or an email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			prompter := newPrompter(cmd)
			if err := prompter.askIfEmpty(&form.Login, "Username or email"); err != nil {
				return err
			}
			if err := prompter.askIfEmpty(&form.Password, "Password"); err != nil {
				return err
			}

			validator, err := newFormValidator()
			if err != nil {
				return err
			}
			if err := validator.Validate(form); err != nil {
				return err
			}

			if _, err := a.client.Login(cmd.Context(), form.Login, form.Password); err != nil {
				return fmt.Errorf("client.Login() > %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", form.Login)
			return nil
		},
	}
	command.Flags().StringVar(&form.Login, "login", "", "username or email")
	command.Flags().StringVar(&form.Password, "password", "", "password, asked for when not given")
	return command
}

func newAuthRegisterCommand() *cobra.Command {
	var form forms.RegisterForm

	command := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in with it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			prompter := newPrompter(cmd)
			if err := prompter.askIfEmpty(&form.Username, "Username"); err != nil {
				return err
			}
			if err := prompter.askIfEmpty(&form.Email, "Email"); err != nil {
				return err
			}
			if err := prompter.askIfEmpty(&form.Password, "Password"); err != nil {
				return err
			}

			validator, err := newFormValidator()
			if err != nil {
				return err
			}
			if err := validator.Validate(form); err != nil {
				return err
			}

			if _, err := a.client.Register(cmd.Context(), form.Request()); err != nil {
				return fmt.Errorf("client.Register() > %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Registered and logged in as %s\n", form.Username)
			return nil
		},
	}
	flags := command.Flags()
	flags.StringVar(&form.Username, "username", "", "username")
	flags.StringVar(&form.Email, "email", "", "email")
	flags.StringVar(&form.Password, "password", "", "password, asked for when not given")
	flags.StringVar(&form.Name, "name", "", "first name")
	flags.StringVar(&form.Surname, "surname", "", "last name")
	return command
}

func newAuthLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the stored tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			authorization, err := a.store.Load()
			if err != nil {
				return fmt.Errorf("store.Load() > %w", err)
			}
			if authorization.IsLoggedIn() {
				// the local tokens are dropped even when the backend cannot be told
				if err := a.client.Logout(cmd.Context()); err != nil {
					slog.Warn("failed to log out on the backend", "error", err)
				}
			}
			if err := a.store.Clear(); err != nil {
				return fmt.Errorf("store.Clear() > %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newAuthWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newLoggedInApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			user, err := a.client.Me(cmd.Context())
			if err != nil {
				return fmt.Errorf("client.Me() > %w", err)
			}
			printUser(cmd, user)
			return nil
		},
	}
}

func newAuthRefreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the refresh token for a new access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			authorization, err := a.client.Refresh(cmd.Context())
			if err != nil {
				return fmt.Errorf("client.Refresh() > %w", err)
			}
			output := cmd.OutOrStdout()
			if expiresAt, ok := auth.ExpiresAt(authorization.AccessToken); ok {
				_, _ = fmt.Fprintf(output, "Access token refreshed, valid until %s\n", expiresAt.Local().Format(time.RFC3339))
				return nil
			}
			_, _ = fmt.Fprintln(output, "Access token refreshed")
			return nil
		},
	}
}

func printUser(cmd *cobra.Command, user api.User) {
	output := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(output, "%s (id %d)\n", user.DisplayName(), user.ID)
	if user.Email != "" {
		_, _ = fmt.Fprintf(output, "Email: %s\n", user.Email)
	}
}
