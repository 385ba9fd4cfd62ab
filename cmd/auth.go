package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobsight/internal/session"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to JobSight",
	Run: func(cmd *cobra.Command, _ []string) {
		authenticate(cmd, false)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a JobSight account and sign in",
	Run: func(cmd *cobra.Command, _ []string) {
		authenticate(cmd, true)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored token",
	Run: func(cmd *cobra.Command, _ []string) {
		e := setup(cmd)
		defer e.close()

		e.user()
		if err := e.session.Logout(e.ctx); err != nil {
			e.logger.Fatal("signing out", zap.Error(err))
		}
		fmt.Fprintln(e.out.W, "Signed out.")
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show who is signed in",
	Run: func(cmd *cobra.Command, _ []string) {
		e := setup(cmd)
		defer e.close()

		u := e.user()
		if u == nil {
			fmt.Fprintln(e.out.W, "Not signed in.")
			return
		}
		fmt.Fprintln(e.out.W, u.Email)
	},
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringP("email", "e", "", "account email (prompted when empty)")
		c.Flags().String("password", "", "account password (prompted when empty)")
		rootCmd.AddCommand(c)
	}
	rootCmd.AddCommand(logoutCmd, whoamiCmd)
}

func authenticate(cmd *cobra.Command, register bool) {
	e := setup(cmd)
	defer e.close()

	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	var err error
	if strings.TrimSpace(email) == "" {
		email, err = (&promptui.Prompt{Label: "Email"}).Run()
		if err != nil {
			e.logger.Fatal("exiting", zap.Error(err))
		}
	}
	if password == "" {
		password, err = (&promptui.Prompt{
			Label: "Password",
			Mask:  '*',
			Validate: func(s string) error {
				if len(s) < session.MinPasswordLength {
					return errors.New("password too short")
				}
				return nil
			},
		}).Run()
		if err != nil {
			e.logger.Fatal("exiting", zap.Error(err))
		}
	}

	action, verb := e.session.Login, "signing in"
	if register {
		action, verb = e.session.Register, "registering"
	}

	u, err := action(e.ctx, email, password)
	if err != nil {
		e.logger.Fatal(verb, zap.Error(err))
	}

	fmt.Fprintf(e.out.W, "Signed in as %s\n", u.Email)
}
