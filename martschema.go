// Package martschema describes the mart layer of a dbt project for AI agent
// consumption.
//
// It reads the build manifest (target/manifest.json) and the relationship
// tests declared in models/marts/schema.yml, keeps every model whose name
// starts with the mart prefix, classifies it as a dimension or fact table and
// renders a report listing columns, foreign keys and unique keys followed by
// the full structured description as JSON.
//
// # Quick Start
//
// Build a schema tool once and hand its Call method to an agent framework:
//
//	tool, err := martschema.NewSchemaTool("data_modelling/target/manifest.json", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(tool.Call(""))
//
// The report is computed when the tool is built and never refreshed; build a
// new tool to pick up a changed manifest.
//
// # Missing schema file
//
// A missing or unreadable schema.yml is not an error: a warning is logged
// through Options.Logger and the description carries no relationships. A
// missing or malformed manifest is returned as an error.
package martschema

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tordrt/martschema/internal/dbt"
	"github.com/tordrt/martschema/internal/formatter"
	"github.com/tordrt/martschema/internal/schema"
)

// Output formats accepted by OutputOptions.Format.
const (
	FormatReport   = "report"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Options configures how the description is built.
//
// All fields are optional. If not specified:
//   - SchemaFile: <project>/models/marts/schema.yml next to the manifest's target dir
//   - MartPrefix: "mart_"
//   - DimensionMarker: "dim_"
//   - DatabaseType, Database, Schema, Summary, Title: the DuckDB claims warehouse labels
//   - Logger: logs are discarded
type Options struct {
	// SchemaFile overrides the conventional schema.yml location.
	SchemaFile string

	// MartPrefix selects the tables to describe by name prefix.
	MartPrefix string

	// DimensionMarker classifies a table as a dimension when its name contains it.
	DimensionMarker string

	DatabaseType string
	Database     string
	Schema       string
	Summary      string
	Title        string

	// Logger receives the warning emitted when the schema file cannot be loaded.
	Logger *slog.Logger
}

func (o *Options) buildOptions() schema.BuildOptions {
	return schema.BuildOptions{
		MartPrefix:      o.MartPrefix,
		DimensionMarker: o.DimensionMarker,
		DatabaseType:    o.DatabaseType,
		Database:        o.Database,
		Schema:          o.Schema,
		Summary:         o.Summary,
		Title:           o.Title,
	}
}

func (o *Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// OutputOptions configures description output formatting.
//
// If OutputDir is set, a directory with _overview.md and one markdown file per
// table is written and Writer and Format are ignored. Otherwise the
// description is written to Writer (default os.Stdout) in Format (default
// FormatReport).
type OutputOptions struct {
	Writer    io.Writer
	OutputDir string
	Format    string
}

// LoadDescription builds the description of the manifest at manifestPath.
// The relationship index is derived from the schema file; when that file is
// absent or malformed a warning is logged and the index is empty.
func LoadDescription(manifestPath string, opts *Options) (*schema.Description, error) {
	if opts == nil {
		opts = &Options{}
	}

	m, err := dbt.LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	buildOpts := opts.buildOptions()
	idx := loadRelationships(manifestPath, opts, buildOpts)

	return schema.Build(m, idx, buildOpts), nil
}

func loadRelationships(manifestPath string, opts *Options, buildOpts schema.BuildOptions) dbt.RelationshipIndex {
	path := opts.SchemaFile
	if path == "" {
		path = dbt.SchemaFilePath(manifestPath)
	}

	sf, err := dbt.LoadSchemaFile(path)
	if err != nil {
		opts.logger().Warn("could not load schema file, continuing without relationships",
			"path", path,
			"error", err)
	}

	prefix := buildOpts.MartPrefix
	if prefix == "" {
		prefix = schema.DefaultMartPrefix
	}
	return dbt.ExtractRelationships(sf, prefix)
}

// FormatDescription writes d according to opts.
func FormatDescription(d *schema.Description, opts *OutputOptions) error {
	if opts == nil {
		opts = &OutputOptions{}
	}

	// Multi-file output
	if opts.OutputDir != "" {
		return formatter.NewMultiFileFormatter(opts.OutputDir).Format(d)
	}

	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	switch opts.Format {
	case "", FormatReport:
		return formatter.NewReportFormatter(w).Format(d)
	case FormatMarkdown:
		return formatter.NewMarkdownFormatter(w).Format(d)
	case FormatJSON:
		return formatter.NewJSONFormatter(w).Format(d)
	default:
		return fmt.Errorf("invalid format: %s (must be '%s', '%s' or '%s')", opts.Format, FormatReport, FormatMarkdown, FormatJSON)
	}
}

// DescribeAndFormat loads the description of a manifest and writes it in one call.
func DescribeAndFormat(manifestPath string, opts *Options, outOpts *OutputOptions) error {
	d, err := LoadDescription(manifestPath, opts)
	if err != nil {
		return err
	}
	return FormatDescription(d, outOpts)
}

// Metadata summarises a Document.
type Metadata struct {
	Source     string   `json:"source"`
	Type       string   `json:"type"`
	Database   string   `json:"database"`
	Schema     string   `json:"schema"`
	TableCount int      `json:"table_count"`
	Tables     []string `json:"tables"`
}

// Document is the rendered report together with its metadata.
type Document struct {
	Content  string
	Metadata Metadata
}

// NewDocument renders the report for d.
func NewDocument(d *schema.Description) (*Document, error) {
	var buf bytes.Buffer
	if err := formatter.NewReportFormatter(&buf).Format(d); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	return &Document{
		Content: buf.String(),
		Metadata: Metadata{
			Source:     "dbt_manifest",
			Type:       d.DatabaseType + "_schema_information",
			Database:   d.Database,
			Schema:     d.Schema,
			TableCount: len(d.Tables),
			Tables:     d.TableNames(),
		},
	}, nil
}

// LoadDocument loads the description of a manifest and renders its report.
func LoadDocument(manifestPath string, opts *Options) (*Document, error) {
	d, err := LoadDescription(manifestPath, opts)
	if err != nil {
		return nil, err
	}
	return NewDocument(d)
}
