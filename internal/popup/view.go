package popup

import (
	"fmt"
	"slices"

	"github.com/linkpop/cli/pkg/shortener"
	"github.com/linkpop/cli/pkg/util"
)

// Tone colours a message.
type Tone int

const (
	ToneNeutral Tone = iota
	ToneSuccess
	ToneError
)

// Message is a line of text shown to the user.
type Message struct {
	Text string
	Tone Tone
}

func (m Message) Empty() bool {
	return m.Text == ""
}

func neutral(text string) Message { return Message{Text: text, Tone: ToneNeutral} }
func success(text string) Message { return Message{Text: text, Tone: ToneSuccess} }
func failure(text string) Message { return Message{Text: text, Tone: ToneError} }

// Tab is the affordance that selects a panel.
type Tab struct {
	Panel  Panel
	Label  string
	Hidden bool
	Active bool
}

// View is everything the renderer needs. The controller is the only writer.
type View struct {
	Active   Panel
	Tabs     []Tab
	SignedIn bool
	UserID   string

	// ShortURL is the shorten panel's result line. It also carries the
	// login-required notice when a gated panel is refused.
	ShortURL    Message
	CopyVisible bool

	LoginMessage  Message
	SignupMessage Message

	// History holds one rendered line per link, in server order. When it is
	// empty HistoryPlaceholder explains why.
	History            []string
	Links              []shortener.Link
	HistoryPlaceholder Message

	Stats        *shortener.Stats
	StatsMessage Message

	// Notice is transient feedback such as the clipboard result.
	Notice Message
}

// Tab returns the tab for p.
func (v View) Tab(p Panel) (Tab, bool) {
	for _, t := range v.Tabs {
		if t.Panel == p {
			return t, true
		}
	}
	return Tab{}, false
}

func (v View) clone() View {
	out := v
	out.Tabs = slices.Clone(v.Tabs)
	out.History = slices.Clone(v.History)
	out.Links = slices.Clone(v.Links)
	if v.Stats != nil {
		stats := *v.Stats
		out.Stats = &stats
	}
	return out
}

var defaultLabels = map[Panel]string{
	PanelShorten: "Shorten",
	PanelLogin:   "Login",
	PanelSignup:  "Sign up",
	PanelHistory: "History",
	PanelStats:   "Stats",
}

func initialTabs() []Tab {
	tabs := make([]Tab, 0, len(Panels))
	for _, p := range Panels {
		tabs = append(tabs, Tab{Panel: p, Label: defaultLabels[p]})
	}
	return tabs
}

// FormatLink renders a history entry as "code: long URL (created)".
func FormatLink(l shortener.Link) string {
	return fmt.Sprintf("%s: %s (%s)", l.ShortCode, l.LongURL, util.FormatTime(l.CreatedAt.Time))
}
