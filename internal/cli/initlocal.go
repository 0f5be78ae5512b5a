package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/georgettica/contact-fixer/internal/db"
)

func newInitLocalCommand(a *app) *cobra.Command {
	var fixtures, use bool

	cmd := &cobra.Command{
		Use:   "init-local",
		Short: "Create the local SQLite contact directory",
		Long: `Create the SQLite database used by the sqlite backend at the configured
database path. With --fixtures the database is filled with sample contacts.
With --use the sqlite backend becomes the configured default.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Database.Path

			var err error
			if fixtures {
				err = db.CreateFixturesDatabase(path)
			} else {
				err = db.Initialize(path)
			}
			if err != nil {
				return err
			}

			a.logger.Info("local directory created", zap.String("path", path), zap.Bool("fixtures", fixtures))
			fmt.Fprintf(a.out, "Local directory created at %s\n", path)

			if !use {
				return nil
			}
			a.cfg.Directory.Backend = db.BackendName
			if a.configPath != "" {
				err = a.cfg.SaveTo(a.configPath)
			} else {
				err = a.cfg.Save()
			}
			if err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			fmt.Fprintf(a.out, "Backend set to %s\n", db.BackendName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&fixtures, "fixtures", false, "fill the database with sample contacts")
	cmd.Flags().BoolVar(&use, "use", false, "make sqlite the configured backend")
	return cmd
}
