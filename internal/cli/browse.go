package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/georgettica/contact-fixer/internal/fixer"
	"github.com/georgettica/contact-fixer/internal/tui"
)

func newBrowseCommand(a *app) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse contacts in a full-screen view",
		Long: `Browse contacts in a two-pane view. With --filter, contacts with a matching
phone number are marked, matches are highlighted and 'm' shows only those.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			backend, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer backend.Close()

			proc, err := fixer.New(backend, a.out,
				fixer.WithLogger(a.logger),
				fixer.WithPageSize(a.cfg.Directory.PageSize))
			if err != nil {
				return err
			}

			contacts, err := proc.FetchContacts(ctx)
			if err != nil {
				return err
			}

			opts := tui.BrowserOptions{DisplayName: fixer.FixDisplayName}
			if filter != "" {
				if proc, err = proc.WithFilter(filter); err != nil {
					return err
				}
				opts.Highlight = proc.HighlightPhone
				opts.Matches = proc.Matches
			}

			p := tea.NewProgram(tui.NewBrowser(contacts, opts),
				tea.WithAltScreen(),
				tea.WithInput(a.in),
				tea.WithOutput(a.out),
				tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "mark contacts with a phone number matching this regular expression")
	return cmd
}
