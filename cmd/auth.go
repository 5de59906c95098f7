package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marcus/clubdash/internal/models"
	"github.com/marcus/clubdash/internal/output"
	"github.com/marcus/clubdash/internal/session"
)

var authCmd = &cobra.Command{
	Use:     "auth",
	Short:   "Sign in, sign out and inspect the session",
	GroupID: "session",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		var creds models.Credentials
		creds.Email, _ = cmd.Flags().GetString("email")
		creds.Password, _ = cmd.Flags().GetString("password")

		if err := ask(
			field{title: "Email", value: &creds.Email},
			field{title: "Password", value: &creds.Password, password: true},
		); err != nil {
			return err
		}

		profile, err := a.store.Login(cmd.Context(), creds)
		if err != nil {
			return reportErr("login failed", err)
		}

		if jsonOutput(cmd) {
			return output.JSON(profile)
		}
		output.Success("Signed in as %s <%s>", profile.FullName(), profile.Email)
		return nil
	}),
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long:  `Create an account. Registration does not sign you in; run 'clubdash auth login' afterwards.`,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		var reg models.Registration
		reg.FirstName, _ = cmd.Flags().GetString("first-name")
		reg.LastName, _ = cmd.Flags().GetString("last-name")
		reg.Email, _ = cmd.Flags().GetString("email")
		reg.Password, _ = cmd.Flags().GetString("password")

		if err := ask(
			field{title: "First name", value: &reg.FirstName},
			field{title: "Last name", value: &reg.LastName},
			field{title: "Email", value: &reg.Email},
			field{title: "Password", value: &reg.Password, password: true},
		); err != nil {
			return err
		}

		if err := a.store.Register(cmd.Context(), reg); err != nil {
			return reportErr("registration failed", err)
		}
		output.Success("Registered %s; sign in with 'clubdash auth login'", reg.Email)
		return nil
	}),
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out on this machine",
	RunE: withSession(func(cmd *cobra.Command, args []string, a *app) error {
		if !a.store.IsAuthenticated() {
			output.Info("Not signed in")
			return nil
		}
		if err := a.store.Logout(); err != nil {
			output.Error("logout: %v", err)
			return err
		}
		output.Success("Signed out")
		return nil
	}),
}

type statusJSON struct {
	SignedIn bool            `json:"signedIn"`
	User     *models.Profile `json:"user,omitempty"`
	API      string          `json:"api"`
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is signed in",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		s := a.store.Current()
		if jsonOutput(cmd) {
			return output.JSON(statusJSON{SignedIn: s.Authenticated(), User: s.User, API: a.client.BaseURL})
		}

		if !s.Authenticated() {
			fmt.Println("Not signed in")
			fmt.Printf("API: %s\n", a.client.BaseURL)
			return nil
		}
		fmt.Printf("Signed in as %s <%s> %s\n", s.User.FullName(), s.User.Email, output.FormatID(s.User.ID))
		fmt.Printf("API: %s\n", a.client.BaseURL)
		return nil
	}),
}

var authWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print session changes as they happen",
	Long:  `Print a line whenever this or another clubdash process signs in or out. Stops on Ctrl+C.`,
	RunE: withSession(func(cmd *cobra.Command, args []string, a *app) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		unsubscribe := a.store.Subscribe(func(s session.Session) {
			printSessionChange(cmd, s)
		})
		defer unsubscribe()

		printSessionChange(cmd, a.store.Current())

		err := a.store.Watch(ctx, a.cfg.WatchInterval)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}),
}

func printSessionChange(cmd *cobra.Command, s session.Session) {
	if jsonOutput(cmd) {
		output.JSON(statusJSON{SignedIn: s.Authenticated(), User: s.User})
		return
	}
	if s.Authenticated() {
		output.Info("signed in: %s", s.User.FullName())
		return
	}
	output.Info("signed out")
}

func init() {
	authLoginCmd.Flags().String("email", "", "Account email")
	authLoginCmd.Flags().String("password", "", "Account password (prompted when omitted)")

	authRegisterCmd.Flags().String("first-name", "", "First name")
	authRegisterCmd.Flags().String("last-name", "", "Last name")
	authRegisterCmd.Flags().String("email", "", "Account email")
	authRegisterCmd.Flags().String("password", "", "Account password (prompted when omitted)")

	authCmd.AddCommand(authLoginCmd, authRegisterCmd, authLogoutCmd, authStatusCmd, authWatchCmd)
	rootCmd.AddCommand(authCmd)
}
