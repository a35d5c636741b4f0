// Command tioanime queries the tioanime.com catalog from the terminal and
// keeps a local list of followed titles.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pevans/tioanime"
	"github.com/pevans/tioanime/config"
	"github.com/pevans/tioanime/library"
	"github.com/pevans/tioanime/scrape"
)

// Output formats
const (
	formatTable = "table"
	formatJSON  = "json"
)

// app carries the state shared by every subcommand.
type app struct {
	format  string
	verbose bool
	baseURL string

	cfg    *config.Config
	logger *zap.Logger
	client *tioanime.Client

	out    io.Writer
	errOut io.Writer
}

func newApp(out, errOut io.Writer) *app {
	return &app{
		format: formatTable,
		logger: zap.NewNop(),
		out:    out,
		errOut: errOut,
	}
}

// setup resolves configuration and builds the client. Logging stays silent
// unless --verbose is given.
func (a *app) setup() error {
	if a.format != formatTable && a.format != formatJSON {
		return fmt.Errorf("unknown format %q: must be %s or %s", a.format, formatTable, formatJSON)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.baseURL != "" {
		cfg.BaseURL = a.baseURL
	}
	a.cfg = cfg

	if a.verbose {
		cfg.LogLevel = "debug"
		logger, err := cfg.Logger(true)
		if err != nil {
			return err
		}
		a.logger = logger
	}

	fetcher := scrape.NewHTTPFetcher(cfg.Timeout)
	if cfg.UserAgent != "" {
		fetcher.UserAgent = cfg.UserAgent
	}

	a.client = tioanime.NewClient(
		tioanime.WithBaseURL(cfg.BaseURL),
		tioanime.WithFetcher(fetcher),
		tioanime.WithLogger(a.logger),
	)
	return nil
}

// openLibrary opens the followed-titles store, creating its directory.
func (a *app) openLibrary() (*library.Store, error) {
	if err := a.cfg.EnsureLibraryDir(); err != nil {
		return nil, err
	}

	store, err := library.NewStore(a.cfg.LibraryDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open library: %w", err)
	}
	return store, nil
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "tioanime",
		Short:         "Query the tioanime.com catalog",
		Long:          "tioanime looks up titles, episodes, searches, the latest releases and the weekly schedule of tioanime.com.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.PersistentFlags().StringVarP(&a.format, "format", "f", formatTable, "output format: table or json")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log requests to stderr")
	root.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "site origin (overrides config)")

	root.AddCommand(
		newInfoCommand(a),
		newEpisodeCommand(a),
		newSearchCommand(a),
		newLatestCommand(a),
		newFilterCommand(a),
		newScheduleCommand(a),
		newFollowCommand(a),
		newUnfollowCommand(a),
		newFollowingCommand(a),
		newCheckCommand(a),
	)

	return root
}

// printError writes err to w, including the context of catalog errors.
func printError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold)

	var catalogErr *tioanime.Error
	if !errors.As(err, &catalogErr) {
		red.Fprintf(w, "Error: %v\n", err)
		return
	}

	red.Fprintf(w, "Error: %s\n", catalogErr.Message)

	keys := make([]string, 0, len(catalogErr.Context))
	for k := range catalogErr.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, catalogErr.Context[k])
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := newApp(os.Stdout, os.Stderr)
	if err := newRootCommand(a).ExecuteContext(ctx); err != nil {
		printError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
