package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/runger/rpick/internal/catalog"
	"github.com/runger/rpick/internal/config"
	"github.com/runger/rpick/internal/picker"
	"github.com/runger/rpick/internal/source"
	"github.com/runger/rpick/internal/tui"
)

var pickOpts struct {
	cmdline    string
	catalog    bool
	db         string
	configPath string
	pageSize   int
	noFuzzy    bool
}

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick one entry from a listing",
	Long: `Pick one entry interactively and print it to stdout.

The listing comes from one of three places:
  --cmd "ls -la"   run a command and page its output
  --catalog        page the indexed catalog database
  (piped stdin)    page lines piped into rpick

Exits 0 with the selection on stdout, 1 when cancelled, 2 on error.`,
	Args: cobra.NoArgs,
	RunE: runPick,
}

func init() {
	pickCmd.Flags().StringVar(&pickOpts.cmdline, "cmd", "", "listing command to run (paged from its stdout)")
	pickCmd.Flags().BoolVar(&pickOpts.catalog, "catalog", false, "pick from the indexed catalog")
	pickCmd.Flags().StringVar(&pickOpts.db, "db", "", "catalog database path (default from config)")
	pickCmd.Flags().StringVar(&pickOpts.configPath, "config", "", "config file path")
	pickCmd.Flags().IntVar(&pickOpts.pageSize, "page-size", 0, "items per fetched page")
	pickCmd.Flags().BoolVar(&pickOpts.noFuzzy, "no-fuzzy", false, "disable fuzzy filtering")
	pickCmd.MarkFlagsMutuallyExclusive("cmd", "catalog")
}

func runPick(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(pickOpts.configPath)
	if err != nil {
		return err
	}
	if pickOpts.pageSize > 0 {
		cfg.Picker.PageSize = pickOpts.pageSize
	}
	if pickOpts.noFuzzy {
		cfg.Picker.FuzzyDisabled = true
	}

	logger, closeLog, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	// The TUI needs a real terminal even when stdin/stdout are pipes.
	if err := checkTTY(); err != nil {
		return err
	}
	if err := checkTERM(); err != nil {
		return err
	}

	src, closeSrc, err := buildSource(cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	tty, err := openTTY()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	defer tty.Close()

	// Detect the color profile from the real terminal. When invoked as
	// $(rpick pick ...), stdout is a pipe and lipgloss would default to
	// Ascii. SetColorProfile updates the default renderer in place, so
	// styles built later pick it up.
	out := termenv.NewOutput(tty)
	lipgloss.SetColorProfile(out.ColorProfile())

	model, err := tui.NewModel(tui.Config{
		Source:   src,
		Bindings: cfg.Bindings(),
		Options: picker.Options{
			MaxVisibleItems:   cfg.Picker.MaxVisibleItems,
			PageSize:          cfg.Picker.PageSize,
			PrefetchThreshold: cfg.Picker.PrefetchThreshold,
			FuzzyDisabled:     cfg.Picker.FuzzyDisabled,
			Logger:            logger,
		},
		Dark: out.HasDarkBackground(),
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithInput(tty),
		tea.WithOutput(tty),
	)

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	m, ok := final.(tui.Model)
	if !ok {
		return fmt.Errorf("unexpected model type %T", final)
	}

	r := m.Result()
	if !r.Selected {
		exitCode = exitCancelled
		return nil
	}

	fmt.Fprintln(os.Stdout, formatEntry(r.Entry))
	return nil
}

// loadConfig reads the config file, preferring an explicit --config path.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// buildSource picks the listing backend from the flags. The returned
// closer releases backend resources after the session.
func buildSource(cfg *config.Config) (source.Source[source.Entry], func(), error) {
	noop := func() {}

	switch {
	case pickOpts.cmdline != "":
		src, err := source.NewExec(pickOpts.cmdline)
		if err != nil {
			return nil, nil, err
		}
		return src, noop, nil

	case pickOpts.catalog:
		store, err := catalog.Open(catalogPath(cfg))
		if err != nil {
			return nil, nil, err
		}
		return store.AsSource(), func() { store.Close() }, nil

	default:
		if stdinIsTerminal() {
			return nil, nil, fmt.Errorf("no listing: pipe lines in, or use --cmd or --catalog")
		}
		entries, err := source.ReadEntries(os.Stdin)
		if err != nil {
			return nil, nil, err
		}
		return source.NewStatic(entries), noop, nil
	}
}

// catalogPath resolves the catalog database path: flag, then config, then
// the default data directory.
func catalogPath(cfg *config.Config) string {
	if pickOpts.db != "" {
		return pickOpts.db
	}
	if cfg.Picker.CatalogDB != "" {
		return cfg.Picker.CatalogDB
	}
	return config.DefaultPaths().CatalogFile()
}

// stdinIsTerminal reports whether stdin is attached to a terminal rather
// than a pipe or file.
func stdinIsTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// formatEntry renders a picked entry for stdout, mirroring the tab format
// accepted on input.
func formatEntry(e source.Entry) string {
	if e.Detail != "" {
		return e.Name + "\t" + e.Detail
	}
	return e.Name
}
