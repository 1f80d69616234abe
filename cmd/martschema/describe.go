package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tordrt/martschema"
	"github.com/tordrt/martschema/internal/schema"
)

func newDescribeCmd(a *app) *cobra.Command {
	var (
		format     string
		outputFile string
		outputDir  string
		tables     string
		exclude    string
	)

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Describe the mart tables of a dbt project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Validate flag combinations
			if outputDir != "" && outputFile != "" {
				return fmt.Errorf("cannot use both --output-dir and --output flags")
			}

			d, err := martschema.LoadDescription(a.cfg.Manifest, a.options())
			if err != nil {
				return err
			}

			if include := parseTableList(tables); len(include) > 0 {
				selectTables(d, include)
			}
			filterExcludedTables(d, parseTableList(exclude))

			a.logger.Debug("description built", "tables", len(d.Tables))

			// Multi-file output
			if outputDir != "" {
				if err := martschema.FormatDescription(d, &martschema.OutputOptions{OutputDir: outputDir}); err != nil {
					return fmt.Errorf("failed to format output: %w", err)
				}
				return nil
			}

			// Single-file output
			writer := cmd.OutOrStdout()
			if outputFile != "" {
				f, err := os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer func() {
					if err := f.Close(); err != nil {
						a.logger.Warn("failed to close output file", "path", outputFile, "error", err)
					}
				}()
				writer = f
			}

			if err := martschema.FormatDescription(d, &martschema.OutputOptions{Writer: writer, Format: format}); err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}
			if format == "" || format == martschema.FormatReport {
				// the report itself ends without a newline
				_, _ = fmt.Fprintln(writer)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", martschema.FormatReport, "Output format: report, markdown or json")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Output directory for multi-file markdown output")
	cmd.Flags().StringVarP(&tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	cmd.Flags().StringVar(&exclude, "exclude", "", "Tables to leave out (comma-separated, optional)")

	return cmd
}

// parseTableList splits a comma-separated table list and trims each name.
func parseTableList(s string) []string {
	if s == "" {
		return nil
	}
	list := strings.Split(s, ",")
	for i, t := range list {
		list[i] = strings.TrimSpace(t)
	}
	return list
}

// selectTables keeps only the named tables.
func selectTables(d *schema.Description, include []string) {
	keepTables(d, func(name string) bool { return slices.Contains(include, name) })
}

// filterExcludedTables drops the named tables.
func filterExcludedTables(d *schema.Description, exclude []string) {
	if len(exclude) == 0 {
		return
	}
	keepTables(d, func(name string) bool { return !slices.Contains(exclude, name) })
}

func keepTables(d *schema.Description, keep func(string) bool) {
	kept := d.Tables[:0]
	for _, t := range d.Tables {
		if keep(t.Name) {
			kept = append(kept, t)
		}
	}
	d.Tables = kept

	for name := range d.Relationships {
		if !keep(name) {
			delete(d.Relationships, name)
		}
	}
}
