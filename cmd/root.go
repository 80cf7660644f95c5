package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/linkpop/cli/internal/clipboard"
	"github.com/linkpop/cli/internal/config"
	"github.com/linkpop/cli/internal/logger"
	"github.com/linkpop/cli/internal/popup"
	"github.com/linkpop/cli/internal/session"
	"github.com/linkpop/cli/pkg/shortener"
)

// Metadata is stamped in by main from build flags.
type Metadata struct {
	Version string
	Commit  string
	Date    string
}

var metadata = Metadata{Version: "dev"}

// SetMetadata records build information for --version and the User-Agent.
func SetMetadata(m Metadata) {
	if m.Version == "" {
		m.Version = "dev"
	}
	metadata = m
	rootCmd.Version = m.Version
}

type ctxKey int

const (
	configKey ctxKey = iota
)

var rootCmd = &cobra.Command{
	Use:   "linkpop",
	Short: "Shorten links from your terminal",
	Long: `linkpop is a terminal client for the linkpop URL shortener.

Shorten links anonymously, or log in to keep a history of the links you create
and see how often they are clicked.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	config.BindFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(shortenCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(popupCmd)
	rootCmd.AddCommand(statusCmd)
}

// Root returns the root command for main to execute.
func Root() *cobra.Command {
	return rootCmd
}

func loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.WithFlags(cmd.Flags()))
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		return fmt.Errorf("failed to initialise logger: %w", err)
	}
	if cfg.Debug {
		pterm.EnableDebugMessages()
	}
	logger.Log.Debugw("configuration loaded", "base_url", cfg.BaseURL, "store", cfg.Store, "timeout", cfg.Timeout)

	cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
	return nil
}

func getConfig(cmd *cobra.Command) config.Config {
	if cfg, ok := cmd.Context().Value(configKey).(config.Config); ok {
		return cfg
	}
	// Commands run outside rootCmd (tests) fall back to defaults.
	cfg, err := config.Load(config.WithDotenv())
	if err != nil {
		return config.Config{BaseURL: shortener.DefaultBaseURL, Store: config.StoreMemory, Timeout: shortener.DefaultTimeout}
	}
	return cfg
}

func userAgent() string {
	return fmt.Sprintf("linkpop/%s (%s/%s)", metadata.Version, runtime.GOOS, runtime.GOARCH)
}

func getClient(cmd *cobra.Command) *shortener.Client {
	cfg := getConfig(cmd)
	return shortener.New(cfg.BaseURL,
		shortener.WithTimeout(cfg.Timeout),
		shortener.WithUserAgent(userAgent()),
		shortener.WithLogger(logger.Log),
	)
}

func getStore(cfg config.Config) (session.Store, error) {
	switch cfg.Store {
	case config.StoreFile:
		path := cfg.SessionFile
		if path == "" {
			var err error
			if path, err = session.DefaultFilePath(); err != nil {
				return nil, err
			}
		}
		return session.NewFileStore(path), nil
	case config.StoreMemory:
		return session.NewMemoryStore(nil), nil
	default:
		return session.NewKeyringStore(), nil
	}
}

// getController wires the backend client, session store and clipboard into
// a controller for one command invocation.
func getController(cmd *cobra.Command) (*popup.Controller, error) {
	cfg := getConfig(cmd)
	store, err := getStore(cfg)
	if err != nil {
		return nil, err
	}
	ctl, err := popup.New(cmd.Context(), getClient(cmd), store, clipboard.System{})
	if err != nil {
		if cfg.Store == config.StoreKeyring {
			return nil, fmt.Errorf("%w (try --session-store file on hosts without a keychain)", err)
		}
		return nil, err
	}
	return ctl, nil
}
