package cmd

import (
	"context"

	"github.com/pterm/pterm"

	"github.com/linkpop/cli/internal/popup"
	"github.com/linkpop/cli/internal/session"
)

// PopupController is the subset of *popup.Controller the commands drive.
type PopupController interface {
	View() popup.View
	Session() *session.Session
	SelectPanel(ctx context.Context, p popup.Panel) error
	Activate(ctx context.Context, p popup.Panel) error
	LogIn(ctx context.Context, username, password string) error
	SignUp(ctx context.Context, username, password string) error
	LogOut(ctx context.Context) error
	Shorten(ctx context.Context, longURL string) error
	ShortURL() string
	CopyShortURL() error
	ClearNotice()
}

// renderedError reports a failure whose message the view already carries,
// keeping the cause for errors.Is.
type renderedError struct {
	msg string
	err error
}

func (e *renderedError) Error() string { return e.msg }
func (e *renderedError) Unwrap() error { return e.err }

func viewError(m popup.Message, err error) error {
	if m.Empty() {
		return err
	}
	return &renderedError{msg: m.Text, err: err}
}

// PrintTableNoPad renders rows as a table without cell padding.
func PrintTableNoPad(data pterm.TableData, hasHeader bool) {
	table := pterm.DefaultTable.WithData(data)
	if hasHeader {
		table = table.WithHasHeader()
	}
	_ = table.WithLeftAlignment().Render()
}
