package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/linkpop/cli/internal/logger"
	"github.com/linkpop/cli/internal/popup"
)

// Prompter asks the user for input.
type Prompter interface {
	Select(label string, options []string) (string, error)
	Input(label string, mask bool) (string, error)
}

type ptermPrompter struct{}

func (ptermPrompter) Select(label string, options []string) (string, error) {
	return pterm.DefaultInteractiveSelect.
		WithOptions(options).
		WithDefaultText(label).
		WithMaxHeight(len(options)).
		Show()
}

func (ptermPrompter) Input(label string, mask bool) (string, error) {
	in := pterm.DefaultInteractiveTextInput
	if mask {
		return in.WithMask("*").Show(label)
	}
	return in.Show(label)
}

// PopupCmd runs the interactive popup: a tab bar, the active panel, and a
// menu of what can be done from it.
type PopupCmd struct {
	ctl    PopupController
	prompt Prompter
	out    io.Writer
}

type PopupInput struct {
	// Panel is where the popup opens; empty means the default panel.
	Panel string
}

const quitOption = "Quit"

type menuItem struct {
	label string
	run   func(ctx context.Context) error
}

// menu lists the actions available from the active panel, then the visible
// tabs, then Quit.
func (p PopupCmd) menu(v popup.View) []menuItem {
	var items []menuItem

	switch v.Active {
	case popup.PanelShorten:
		items = append(items, menuItem{label: "Shorten a URL", run: p.shortenForm})
		if v.CopyVisible {
			items = append(items, menuItem{label: "Copy short URL", run: func(ctx context.Context) error {
				return p.ctl.CopyShortURL()
			}})
		}
	case popup.PanelLogin:
		items = append(items, menuItem{label: "Submit login", run: p.loginForm})
	case popup.PanelSignup:
		items = append(items, menuItem{label: "Submit signup", run: p.signupForm})
	case popup.PanelHistory, popup.PanelStats:
		active := v.Active
		items = append(items, menuItem{label: "Refresh", run: func(ctx context.Context) error {
			return p.ctl.SelectPanel(ctx, active)
		}})
	}

	for _, tab := range v.Tabs {
		if tab.Hidden || tab.Active {
			continue
		}
		panel := tab.Panel
		items = append(items, menuItem{label: "Go to " + tab.Label, run: func(ctx context.Context) error {
			return p.ctl.Activate(ctx, panel)
		}})
	}

	return append(items, menuItem{label: quitOption})
}

// Run loops until the user quits or the prompt fails (e.g. Ctrl+C).
func (p PopupCmd) Run(ctx context.Context, in PopupInput) error {
	if in.Panel != "" {
		panel, err := popup.ParsePanel(in.Panel)
		if err != nil {
			return err
		}
		_ = p.ctl.SelectPanel(ctx, panel)
	}

	for {
		v := p.ctl.View()
		popup.Render(p.out, v)
		p.ctl.ClearNotice()

		items := p.menu(v)
		labels := make([]string, len(items))
		for i, item := range items {
			labels[i] = item.label
		}

		choice, err := p.prompt.Select("Choose an action", labels)
		if err != nil {
			return err
		}
		fmt.Fprintln(p.out)

		var selected *menuItem
		for i := range items {
			if items[i].label == choice {
				selected = &items[i]
				break
			}
		}
		if selected == nil {
			return fmt.Errorf("unknown menu option %q", choice)
		}
		if selected.run == nil {
			return nil
		}
		// Failures are already on screen; keep the popup open.
		if err := selected.run(ctx); err != nil {
			logger.Log.Debugw("popup action failed", "action", selected.label, "error", err)
		}
	}
}

func (p PopupCmd) shortenForm(ctx context.Context) error {
	longURL, err := p.prompt.Input("Long URL", false)
	if err != nil {
		return err
	}
	longURL = strings.TrimSpace(longURL)
	if longURL == "" {
		return errors.New("no URL entered")
	}
	return p.ctl.Shorten(ctx, longURL)
}

func (p PopupCmd) credentials() (string, string, error) {
	username, err := p.prompt.Input("Username", false)
	if err != nil {
		return "", "", err
	}
	password, err := p.prompt.Input("Password", true)
	if err != nil {
		return "", "", err
	}
	return strings.TrimSpace(username), password, nil
}

func (p PopupCmd) loginForm(ctx context.Context) error {
	username, password, err := p.credentials()
	if err != nil {
		return err
	}
	return p.ctl.LogIn(ctx, username, password)
}

func (p PopupCmd) signupForm(ctx context.Context) error {
	username, password, err := p.credentials()
	if err != nil {
		return err
	}
	return p.ctl.SignUp(ctx, username, password)
}

// --- Cobra wiring ---

var popupCmd = &cobra.Command{
	Use:   "popup",
	Short: "Open the interactive popup",
	Long: `Open an interactive view with Shorten, Login, Sign up, History and Stats tabs.

History and Stats only appear while logged in. Choosing the Logout tab logs
you out immediately.`,
	Args: cobra.NoArgs,
	RunE: runPopup,
}

func init() {
	popupCmd.Flags().String("panel", "", "Panel to open on (shorten, login, signup, history, stats)")
}

func runPopup(cmd *cobra.Command, args []string) error {
	panel, _ := cmd.Flags().GetString("panel")
	ctl, err := getController(cmd)
	if err != nil {
		return err
	}
	return PopupCmd{ctl: ctl, prompt: ptermPrompter{}, out: os.Stdout}.Run(cmd.Context(), PopupInput{Panel: panel})
}
