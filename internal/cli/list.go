package cli

import (
	"github.com/spf13/cobra"

	"github.com/georgettica/contact-fixer/internal/fixer"
)

func newListCommand(a *app) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print contacts, optionally only those matching a phone filter",
		Args:  cobra.NoArgs,
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

			if filter != "" {
				if contacts, err = proc.FilterByPhone(contacts, filter); err != nil {
					return err
				}
				if proc, err = proc.WithFilter(filter); err != nil {
					return err
				}
			}

			proc.RenderAll(contacts)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "only show contacts with a phone number matching this regular expression")
	return cmd
}
