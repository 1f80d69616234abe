package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tordrt/martschema"
	"github.com/tordrt/martschema/internal/db"
	"github.com/tordrt/martschema/internal/drift"
)

func (a *app) openWarehouse(cmd *cobra.Command) (db.Warehouse, error) {
	if a.cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("--database-url (or MARTSCHEMA_DATABASE_URL) must be specified")
	}
	return db.Open(cmd.Context(), a.cfg.DatabaseURL)
}

func (a *app) closeWarehouse(w db.Warehouse) {
	if err := w.Close(); err != nil {
		a.logger.Warn("failed to close warehouse connection", "kind", w.Kind(), "error", err)
	}
}

func newQueryCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Run a SQL statement against the warehouse",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.openWarehouse(cmd)
			if err != nil {
				return err
			}
			defer a.closeWarehouse(w)

			result, err := w.Query(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.logger.Debug("query executed", "kind", w.Kind(), "rows", len(result.Rows))

			return result.Render(cmd.OutOrStdout(), format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", db.ResultTable, "Output format: table, tsv or json")
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Compare the described marts with the live warehouse",
		Long: `check lists every described table's columns in the warehouse and reports
tables or columns missing on either side and data types that disagree.
It exits non-zero when differences are found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := martschema.LoadDescription(a.cfg.Manifest, a.options())
			if err != nil {
				return err
			}

			w, err := a.openWarehouse(cmd)
			if err != nil {
				return err
			}
			defer a.closeWarehouse(w)

			findings, err := drift.Check(cmd.Context(), d, w)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(findings) == 0 {
				_, _ = fmt.Fprintf(out, "%d mart tables match the warehouse\n", len(d.Tables))
				return nil
			}
			for _, f := range findings {
				_, _ = fmt.Fprintln(out, f.String())
			}
			return fmt.Errorf("found %d differences between manifest and warehouse", len(findings))
		},
	}
}
