package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/linkpop/cli/pkg/util"
)

// AuthCmd handles login, signup, logout and whoami.
type AuthCmd struct {
	ctl PopupController
}

type LoginInput struct {
	Username string
	Password string
}

type WhoamiInput struct {
	Output string
}

// Login exchanges credentials for a session.
func (a AuthCmd) Login(ctx context.Context, in LoginInput) error {
	if err := validateCredentials(in); err != nil {
		return err
	}
	err := a.ctl.LogIn(ctx, in.Username, in.Password)
	v := a.ctl.View()
	if err != nil {
		return viewError(v.LoginMessage, err)
	}
	pterm.Success.Println(v.LoginMessage.Text)
	return nil
}

// Signup registers a user and logs in as it.
func (a AuthCmd) Signup(ctx context.Context, in LoginInput) error {
	if err := validateCredentials(in); err != nil {
		return err
	}
	err := a.ctl.SignUp(ctx, in.Username, in.Password)
	v := a.ctl.View()
	if err != nil {
		return viewError(v.SignupMessage, err)
	}
	pterm.Success.Println(v.SignupMessage.Text)
	return nil
}

// Logout forgets the stored session.
func (a AuthCmd) Logout(ctx context.Context) error {
	if a.ctl.Session() == nil {
		pterm.Info.Println("Not logged in")
		return nil
	}
	if err := a.ctl.LogOut(ctx); err != nil {
		return err
	}
	pterm.Success.Println("Logged out")
	return nil
}

type whoamiOutput struct {
	LoggedIn  bool       `json:"logged_in"`
	UserID    string     `json:"user_id,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Expired   bool       `json:"expired,omitempty"`
}

// Whoami prints the stored session, reading the token's claims locally.
func (a AuthCmd) Whoami(ctx context.Context, in WhoamiInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}

	out := whoamiOutput{}
	s := a.ctl.Session()
	if s != nil {
		out.LoggedIn = true
		out.UserID = s.UserID
		if claims, err := s.Inspect(); err == nil {
			if out.UserID == "" {
				out.UserID = claims.UserID
			}
			if !claims.ExpiresAt.IsZero() {
				exp := claims.ExpiresAt
				out.ExpiresAt = &exp
				out.Expired = claims.Expired(time.Now())
			}
		} else {
			pterm.Debug.Printf("Token is not a readable JWT: %v\n", err)
		}
	}

	if in.Output == "json" {
		return util.PrintPrettyJSON(out)
	}

	if !out.LoggedIn {
		pterm.Info.Println("Not logged in. Run `linkpop login` or `linkpop signup`.")
		return nil
	}

	expires := "-"
	if out.ExpiresAt != nil {
		expires = util.FormatTime(*out.ExpiresAt)
	}
	PrintTableNoPad(pterm.TableData{
		{"Property", "Value"},
		{"User ID", util.OrDash(out.UserID)},
		{"Token Expires", expires},
	}, true)
	if out.Expired {
		pterm.Warning.Println("Your session has expired. Log in again to keep using your history.")
	}
	return nil
}

func validateCredentials(in LoginInput) error {
	if strings.TrimSpace(in.Username) == "" {
		return fmt.Errorf("--username is required")
	}
	if in.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// --- Cobra wiring ---

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to your linkpop account",
	Long:  "Log in and store the session so shortened links are kept in your history",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a linkpop account",
	Long:  "Create an account and log in with it. Usernames need 3+ characters, passwords 6+.",
	Args:  cobra.NoArgs,
	RunE:  runSignup,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the stored session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, signupCmd} {
		c.Flags().StringP("username", "u", "", "Username (prompted when omitted)")
		c.Flags().StringP("password", "p", "", "Password (prompted when omitted)")
	}
	whoamiCmd.Flags().StringP("output", "o", "", "Output format (json)")
}

func readCredentials(cmd *cobra.Command) (LoginInput, error) {
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")

	var err error
	if username == "" {
		username, err = pterm.DefaultInteractiveTextInput.Show("Username")
		if err != nil {
			return LoginInput{}, err
		}
	}
	if password == "" {
		password, err = pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
		if err != nil {
			return LoginInput{}, err
		}
	}
	return LoginInput{Username: strings.TrimSpace(username), Password: password}, nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	in, err := readCredentials(cmd)
	if err != nil {
		return err
	}
	ctl, err := getController(cmd)
	if err != nil {
		return err
	}
	return AuthCmd{ctl: ctl}.Login(cmd.Context(), in)
}

func runSignup(cmd *cobra.Command, args []string) error {
	in, err := readCredentials(cmd)
	if err != nil {
		return err
	}
	ctl, err := getController(cmd)
	if err != nil {
		return err
	}
	return AuthCmd{ctl: ctl}.Signup(cmd.Context(), in)
}

func runLogout(cmd *cobra.Command, args []string) error {
	ctl, err := getController(cmd)
	if err != nil {
		return err
	}
	return AuthCmd{ctl: ctl}.Logout(cmd.Context())
}

func runWhoami(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	ctl, err := getController(cmd)
	if err != nil {
		return err
	}
	return AuthCmd{ctl: ctl}.Whoami(cmd.Context(), WhoamiInput{Output: output})
}
