package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/browser"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/linkpop/cli/internal/popup"
	"github.com/linkpop/cli/pkg/shortener"
	"github.com/linkpop/cli/pkg/util"
)

// LinksCmd handles shortening and the signed-in views over the user's links.
type LinksCmd struct {
	ctl PopupController
	// open launches a URL in the browser; nil uses the system browser.
	open func(url string) error
}

type ShortenInput struct {
	URL    string
	Copy   bool
	Open   bool
	Output string
}

type HistoryInput struct {
	Output string
}

type StatsInput struct {
	Output string
}

type shortenOutput struct {
	ShortURL      string `json:"short_url"`
	LongURL       string `json:"long_url"`
	Authenticated bool   `json:"authenticated"`
}

// Shorten shortens a URL, anonymously unless logged in.
func (l LinksCmd) Shorten(ctx context.Context, in ShortenInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}
	if strings.TrimSpace(in.URL) == "" {
		return fmt.Errorf("a URL to shorten is required")
	}

	if err := l.ctl.Shorten(ctx, strings.TrimSpace(in.URL)); err != nil {
		return viewError(l.ctl.View().ShortURL, util.CleanedUpAPIError{Err: err})
	}
	short := l.ctl.ShortURL()

	if in.Output == "json" {
		if err := util.PrintPrettyJSON(shortenOutput{
			ShortURL:      short,
			LongURL:       strings.TrimSpace(in.URL),
			Authenticated: l.ctl.Session() != nil,
		}); err != nil {
			return err
		}
	} else {
		pterm.Success.Printf("Short URL: %s\n", short)
		if l.ctl.Session() == nil {
			pterm.Info.Println("Anonymous links expire after 24 hours. Log in to keep them for two weeks.")
		}
	}

	if in.Copy {
		if err := l.ctl.CopyShortURL(); err != nil {
			pterm.Warning.Println(err.Error())
		} else if in.Output != "json" {
			pterm.Success.Println(l.ctl.View().Notice.Text)
		}
		l.ctl.ClearNotice()
	}

	if in.Open {
		open := l.open
		if open == nil {
			open = browser.OpenURL
		}
		if err := open(short); err != nil {
			pterm.Warning.Printf("Could not open browser: %v\n", err)
		}
	}
	return nil
}

// History lists the signed-in user's links.
func (l LinksCmd) History(ctx context.Context, in HistoryInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}

	err := l.ctl.SelectPanel(ctx, popup.PanelHistory)
	v := l.ctl.View()
	if errors.Is(err, popup.ErrLoginRequired) {
		return viewError(v.ShortURL, err)
	}
	if err != nil {
		return viewError(v.HistoryPlaceholder, util.CleanedUpAPIError{Err: err})
	}

	if in.Output == "json" {
		return util.PrintPrettyJSON(lo.Ternary(v.Links == nil, []shortener.Link{}, v.Links))
	}

	if len(v.Links) == 0 {
		pterm.Info.Println(util.FirstOrDash(v.HistoryPlaceholder.Text))
		return nil
	}

	rows := pterm.TableData{{"Code", "Long URL", "Short URL", "Created", "Clicks"}}
	for _, link := range v.Links {
		rows = append(rows, []string{
			link.ShortCode,
			util.Truncate(link.LongURL, 60),
			util.OrDash(link.ShortURL),
			util.FormatTime(link.CreatedAt.Time),
			strconv.Itoa(link.Clicks),
		})
	}
	PrintTableNoPad(rows, true)
	return nil
}

// Stats shows click statistics for the signed-in user's links.
func (l LinksCmd) Stats(ctx context.Context, in StatsInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}

	err := l.ctl.SelectPanel(ctx, popup.PanelStats)
	v := l.ctl.View()
	if errors.Is(err, popup.ErrLoginRequired) {
		return viewError(v.ShortURL, err)
	}
	if err != nil {
		return viewError(v.StatsMessage, util.CleanedUpAPIError{Err: err})
	}

	if in.Output == "json" {
		return util.PrintPrettyJSON(v.Stats)
	}

	s := v.Stats
	PrintTableNoPad(pterm.TableData{
		{"Metric", "Value"},
		{"Links Shortened", strconv.Itoa(s.TotalURLsShortened)},
		{"Unique Clicks", strconv.Itoa(s.UniqueClicks)},
		{"Returning Visitors", strconv.Itoa(s.ReturningVisitors)},
		{"Top Location", util.OrDash(s.GeoLocation)},
	}, true)
	return nil
}

// --- Cobra wiring ---

var shortenCmd = &cobra.Command{
	Use:   "shorten <url>",
	Short: "Shorten a URL",
	Long: `Shorten a URL. When logged in the link is added to your history and kept
for two weeks; otherwise it is anonymous and expires after 24 hours.`,
	Args: cobra.ExactArgs(1),
	RunE: runShorten,
}

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"urls", "ls"},
	Short:   "List the links you have shortened",
	Args:    cobra.NoArgs,
	RunE:    runHistory,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show click statistics for your links",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	shortenCmd.Flags().BoolP("copy", "c", false, "Copy the short URL to the clipboard")
	shortenCmd.Flags().Bool("open", false, "Open the short URL in the browser")
	shortenCmd.Flags().StringP("output", "o", "", "Output format (json)")

	historyCmd.Flags().StringP("output", "o", "", "Output format (json)")
	statsCmd.Flags().StringP("output", "o", "", "Output format (json)")
}

func runShorten(cmd *cobra.Command, args []string) error {
	copyFlag, _ := cmd.Flags().GetBool("copy")
	openFlag, _ := cmd.Flags().GetBool("open")
	output, _ := cmd.Flags().GetString("output")

	ctl, err := getController(cmd)
	if err != nil {
		return err
	}
	return LinksCmd{ctl: ctl}.Shorten(cmd.Context(), ShortenInput{
		URL:    args[0],
		Copy:   copyFlag,
		Open:   openFlag,
		Output: output,
	})
}

func runHistory(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	ctl, err := getController(cmd)
	if err != nil {
		return err
	}
	return LinksCmd{ctl: ctl}.History(cmd.Context(), HistoryInput{Output: output})
}

func runStats(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	ctl, err := getController(cmd)
	if err != nil {
		return err
	}
	return LinksCmd{ctl: ctl}.Stats(cmd.Context(), StatsInput{Output: output})
}
