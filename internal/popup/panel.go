package popup

import (
	"fmt"

	"github.com/samber/lo"
)

// Panel identifies one mutually exclusive view.
type Panel string

const (
	PanelShorten Panel = "shorten"
	PanelLogin   Panel = "login"
	PanelSignup  Panel = "signup"
	PanelHistory Panel = "history"
	PanelStats   Panel = "stats"

	DefaultPanel = PanelShorten
)

// Panels lists every panel in tab order.
var Panels = []Panel{PanelShorten, PanelLogin, PanelSignup, PanelHistory, PanelStats}

// gated panels need a session.
var gated = []Panel{PanelHistory, PanelStats}

// ParsePanel maps a tab identifier to a Panel.
func ParsePanel(s string) (Panel, error) {
	p := Panel(s)
	if !p.Known() {
		return "", fmt.Errorf("unknown panel %q: use one of %v", s, Panels)
	}
	return p, nil
}

func (p Panel) Known() bool {
	return lo.Contains(Panels, p)
}

// RequiresSession reports whether p is only reachable while signed in.
func (p Panel) RequiresSession() bool {
	return lo.Contains(gated, p)
}

func (p Panel) String() string {
	return string(p)
}
