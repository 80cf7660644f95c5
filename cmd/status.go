package cmd

import (
	"context"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/linkpop/cli/pkg/util"
)

// Pinger checks that the backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) (string, error)
	BaseURL() string
}

type statusOutput struct {
	BaseURL   string `json:"base_url"`
	Reachable bool   `json:"reachable"`
	Message   string `json:"message,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that the linkpop backend is reachable",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringP("output", "o", "", "Output format (json)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	return checkStatus(cmd.Context(), getClient(cmd), output)
}

func checkStatus(ctx context.Context, client Pinger, output string) error {
	start := time.Now()
	msg, err := client.Ping(ctx)
	status := statusOutput{
		BaseURL:   client.BaseURL(),
		Reachable: err == nil,
		Message:   msg,
		LatencyMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		status.Error = util.CleanedUpAPIError{Err: err}.Error()
	}

	if output == "json" {
		if encErr := util.PrintPrettyJSON(status); encErr != nil {
			return encErr
		}
		if err != nil {
			return util.CleanedUpAPIError{Err: err}
		}
		return nil
	}

	printStatus(status)
	if err != nil {
		return util.CleanedUpAPIError{Err: err}
	}
	return nil
}

var (
	upColor   = pterm.NewRGB(31, 163, 130)
	downColor = pterm.NewRGB(239, 68, 68)
)

func coloredDot(rgb pterm.RGB) string {
	return rgb.Sprint("●")
}

func printStatus(s statusOutput) {
	pterm.Println()
	if s.Reachable {
		pterm.Printf("  %s %s  %s (%dms)\n", coloredDot(upColor), pterm.Bold.Sprint(s.BaseURL), upColor.Sprint("Operational"), s.LatencyMS)
		if s.Message != "" {
			pterm.Printf("    %s\n", s.Message)
		}
	} else {
		pterm.Printf("  %s %s  %s\n", coloredDot(downColor), pterm.Bold.Sprint(s.BaseURL), downColor.Sprint("Unreachable"))
		pterm.Printf("    %s\n", s.Error)
	}
	pterm.Println()
}
