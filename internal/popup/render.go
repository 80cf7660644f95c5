package popup

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/pterm/pterm"

	"github.com/linkpop/cli/pkg/util"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(lipgloss.Color("#1FA382")).
			Padding(0, 1)
	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#808080")).
			Padding(0, 1)
)

// RenderTabs draws the visible tabs on one line, the active one highlighted.
func RenderTabs(v View) string {
	parts := make([]string, 0, len(v.Tabs))
	for _, t := range v.Tabs {
		if t.Hidden {
			continue
		}
		if t.Active {
			parts = append(parts, activeTabStyle.Render(t.Label))
		} else {
			parts = append(parts, tabStyle.Render(t.Label))
		}
	}
	return strings.Join(parts, "│")
}

// RenderMessage colours m by tone. An empty message renders as "".
func RenderMessage(m Message) string {
	switch m.Tone {
	case ToneSuccess:
		return pterm.FgGreen.Sprint(m.Text)
	case ToneError:
		return pterm.FgRed.Sprint(m.Text)
	default:
		return m.Text
	}
}

// Render writes the tab bar and the active panel.
func Render(w io.Writer, v View) {
	fmt.Fprintln(w, RenderTabs(v))
	fmt.Fprintln(w)

	switch v.Active {
	case PanelShorten:
		writeMessage(w, v.ShortURL)
		if v.CopyVisible {
			fmt.Fprintln(w, pterm.Gray("  (copy available)"))
		}
	case PanelLogin:
		writeMessage(w, v.LoginMessage)
	case PanelSignup:
		writeMessage(w, v.SignupMessage)
	case PanelHistory:
		if len(v.History) == 0 {
			writeMessage(w, v.HistoryPlaceholder)
			break
		}
		fmt.Fprintln(w, renderHistory(v))
	case PanelStats:
		if v.Stats == nil {
			writeMessage(w, v.StatsMessage)
			break
		}
		fmt.Fprintln(w, renderStats(v))
	}

	if !v.Notice.Empty() {
		fmt.Fprintln(w)
		writeMessage(w, v.Notice)
	}
}

func writeMessage(w io.Writer, m Message) {
	if m.Empty() {
		return
	}
	fmt.Fprintf(w, "  %s\n", RenderMessage(m))
}

func renderHistory(v View) string {
	data := pterm.TableData{{"Code", "Long URL", "Created", "Clicks"}}
	for _, l := range v.Links {
		data = append(data, []string{
			l.ShortCode,
			util.Truncate(l.LongURL, 60),
			util.FormatTime(l.CreatedAt.Time),
			strconv.Itoa(l.Clicks),
		})
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return strings.Join(v.History, "\n")
	}
	return out
}

func renderStats(v View) string {
	s := v.Stats
	data := pterm.TableData{
		{"Metric", "Value"},
		{"Links shortened", strconv.Itoa(s.TotalURLsShortened)},
		{"Unique clicks", strconv.Itoa(s.UniqueClicks)},
		{"Returning visitors", strconv.Itoa(s.ReturningVisitors)},
		{"Top location", util.OrDash(s.GeoLocation)},
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Sprintf("%d links, %d unique clicks", s.TotalURLsShortened, s.UniqueClicks)
	}
	return out
}
