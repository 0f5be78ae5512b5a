// Package cli wires configuration, logging, directory backends and the
// contact processor into the contact-fixer command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/georgettica/contact-fixer/internal/config"
	"github.com/georgettica/contact-fixer/internal/logging"
	"github.com/georgettica/contact-fixer/internal/people"
	_ "github.com/georgettica/contact-fixer/internal/people/google"
	"github.com/georgettica/contact-fixer/internal/tui"
)

// Prompter asks the user questions
type Prompter interface {
	Ask(question, def string, validate func(string) error) (string, error)
	Confirm(question string) (bool, error)
}

// app holds what every command needs once the root command has set it up
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	// Global flag values
	configPath  string
	backendName string
	verbose     bool

	cfg      *config.Config
	logger   *zap.Logger
	prompter Prompter

	// open and sleep are replaced in tests
	open  func(ctx context.Context) (people.Backend, error)
	sleep func(ctx context.Context, d time.Duration) error
}

// Execute runs the command line with the process's standard streams
func Execute(ctx context.Context) error {
	return newRootCommand(&app{in: os.Stdin, out: os.Stdout, errOut: os.Stderr}).ExecuteContext(ctx)
}

func newRootCommand(a *app) *cobra.Command {
	var opts fixOptions

	root := &cobra.Command{
		Use:   "contact-fixer",
		Short: "Find and rewrite phone numbers in your contacts",
		Long: `contact-fixer fetches your contacts, shows the ones whose phone numbers
match a regular expression, rewrites the matches with a replacement template
and uploads the changed contacts back.

Run without arguments for the interactive flow.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.filterSet = cmd.Flags().Changed("filter")
			opts.replaceSet = cmd.Flags().Changed("replace")
			return a.runFix(cmd.Context(), opts)
		},
	}

	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: ~/.config/contact-fixer/config.toml)")
	root.PersistentFlags().StringVar(&a.backendName, "backend", "", "directory backend to use (google, sqlite)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.Flags().StringVar(&opts.filter, "filter", "", "regular expression selecting phone numbers (skips the prompt)")
	root.Flags().StringVar(&opts.replace, "replace", "", "replacement template, $0 is the whole match (skips the prompt)")
	root.Flags().BoolVarP(&opts.yes, "yes", "y", false, "upload without asking for confirmation")
	root.Flags().BoolVar(&opts.dryRun, "dry-run", false, "show the changes without uploading")

	root.AddCommand(newListCommand(a))
	root.AddCommand(newBrowseCommand(a))
	root.AddCommand(newAuthCommand(a))
	root.AddCommand(newInitLocalCommand(a))

	return root
}

// setup loads the configuration and builds the logger
func (a *app) setup(cmd *cobra.Command, args []string) error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFrom(a.configPath)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if a.backendName != "" {
		a.cfg.Directory.Backend = a.backendName
	}

	a.logger, err = logging.New(a.cfg.Log, a.verbose)
	if err != nil {
		return err
	}

	if a.prompter == nil {
		a.prompter = &tui.Prompter{In: a.in, Out: a.out}
	}
	if a.open == nil {
		a.open = a.openBackend
	}
	if a.sleep == nil {
		a.sleep = sleepContext
	}

	a.logger.Debug("configured",
		zap.String("backend", a.cfg.Directory.Backend),
		zap.Int64("page_size", a.cfg.Directory.PageSize))
	return nil
}

func (a *app) openBackend(ctx context.Context) (people.Backend, error) {
	return people.OpenBackend(ctx, a.cfg.Directory.Backend, people.BackendOptions{
		Config: a.cfg,
		Logger: a.logger,
		In:     a.in,
		Out:    a.out,
	})
}

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
