package main

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/interactive-solutions/go-semaphore"
	gopg "github.com/interactive-solutions/go-semaphore/storage/go-pg"
)

var MissingDatabaseErr = errors.New("DATABASE_URL is required to read dispatches")

func newDispatchesCommand(logger *logrus.Logger, opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "dispatches",
		Short: "List the most recent sends stored in DATABASE_URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(logger, opts)
			if err != nil {
				return err
			}

			databaseURL := e.Default("DATABASE_URL", "")
			if databaseURL == "" {
				return MissingDatabaseErr
			}

			db, err := connectDatabase(databaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			return printDispatches(cmd.OutOrStdout(), gopg.NewDispatchRepository(db), limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "number of dispatches to show")

	return cmd
}

// printDispatches writes the most recent dispatches as indented json.
func printDispatches(out io.Writer, repo semaphore.DispatchRepository, limit int) error {
	dispatches, err := repo.GetRecent(limit)
	if err != nil {
		return errors.Wrap(err, "Failed to retrieve dispatches")
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	return encoder.Encode(dispatches)
}
