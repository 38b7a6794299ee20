package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fjod/krmotors/internal/domain"
)

func newLoginCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		creds       domain.Credentials
		googleToken string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: runE(rootOpts, func(ctx context.Context, a *app, _ []string) error {
			var (
				s   *domain.Session
				err error
			)
			if googleToken != "" {
				s, err = a.sessions.GoogleLogin(ctx, googleToken)
			} else {
				s, err = a.sessions.Login(ctx, creds)
			}
			if err != nil {
				return err
			}
			return a.out.Success(s.User, func(w io.Writer) {
				fmt.Fprintf(w, "Logged in as %s.\n", s.User.DisplayName())
			})
		}),
	}

	cmd.Flags().StringVar(&creds.Email, "email", "", "account e-mail")
	cmd.Flags().StringVar(&creds.Password, "password", "", "account password")
	cmd.Flags().StringVar(&googleToken, "google-token", "", "log in with a Google ID token instead")

	return cmd
}

func newLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session",
		Args:  cobra.NoArgs,
		RunE: runE(rootOpts, func(ctx context.Context, a *app, _ []string) error {
			if err := a.sessions.Logout(ctx); err != nil {
				return err
			}
			return a.out.Success(map[string]bool{"loggedOut": true}, func(w io.Writer) {
				fmt.Fprintln(w, "Logged out.")
			})
		}),
	}
}

func newRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	var reg domain.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: runE(rootOpts, func(ctx context.Context, a *app, _ []string) error {
			if err := reg.Validate(); err != nil {
				return err
			}
			if err := a.client.Register(ctx, reg); err != nil {
				return err
			}
			return a.out.Success(map[string]string{"email": reg.Email}, func(w io.Writer) {
				fmt.Fprintf(w, "Account %s created. Log in with krmotors login.\n", reg.Email)
			})
		}),
	}

	registrationFlags(cmd, &reg)
	return cmd
}

func registrationFlags(cmd *cobra.Command, reg *domain.Registration) {
	cmd.Flags().StringVar(&reg.Name, "name", "", "full name")
	cmd.Flags().StringVar(&reg.Email, "email", "", "e-mail")
	cmd.Flags().StringVar(&reg.Password, "password", "", "password (6 characters or more)")
	cmd.Flags().StringVar(&reg.Phone, "phone", "", "phone number")
}

func newWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		Args:  cobra.NoArgs,
		RunE: runE(rootOpts, func(ctx context.Context, a *app, _ []string) error {
			s, err := a.sessions.Current(ctx)
			if err != nil {
				return err
			}
			return a.out.Success(s.User, func(w io.Writer) {
				line := s.User.DisplayName()
				if line == "" {
					line = "(unnamed account)"
				}
				if s.User.Email != "" && s.User.Email != line {
					line += " <" + s.User.Email + ">"
				}
				if s.User.Role != "" {
					line += " (" + strings.ToLower(s.User.Role) + ")"
				}
				fmt.Fprintln(w, line)
			})
		}),
	}
}

func newPasswordCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Reset a forgotten password",
	}

	var email string
	sendOTP := &cobra.Command{
		Use:   "send-otp",
		Short: "E-mail a one-time code",
		Args:  cobra.NoArgs,
		RunE: runE(rootOpts, func(ctx context.Context, a *app, _ []string) error {
			if strings.TrimSpace(email) == "" {
				return &domain.ValidationError{Field: "email", Message: "email is required"}
			}
			if err := a.client.SendOTP(ctx, email); err != nil {
				return err
			}
			return a.out.Success(map[string]string{"email": email}, func(w io.Writer) {
				fmt.Fprintf(w, "A one-time code was sent to %s.\n", email)
			})
		}),
	}
	sendOTP.Flags().StringVar(&email, "email", "", "account e-mail")
	cmd.AddCommand(sendOTP)

	var reset domain.PasswordReset
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Set a new password with the one-time code",
		Args:  cobra.NoArgs,
		RunE: runE(rootOpts, func(ctx context.Context, a *app, _ []string) error {
			if err := reset.Validate(); err != nil {
				return err
			}
			if err := a.client.ResetPassword(ctx, reset); err != nil {
				return err
			}
			return a.out.Success(map[string]string{"email": reset.Email}, func(w io.Writer) {
				fmt.Fprintln(w, "Password updated.")
			})
		}),
	}
	resetCmd.Flags().StringVar(&reset.Email, "email", "", "account e-mail")
	resetCmd.Flags().StringVar(&reset.OTP, "otp", "", "one-time code")
	resetCmd.Flags().StringVar(&reset.NewPassword, "new-password", "", "new password")
	cmd.AddCommand(resetCmd)

	return cmd
}
