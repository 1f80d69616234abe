package martschema

import "github.com/tordrt/martschema/internal/prompt"

// Tool identity as advertised to agent frameworks.
const (
	ToolName        = prompt.SchemaToolName
	ToolDescription = "Get DuckDB database schema information including mart_ table structures, " +
		"column definitions, relationships from schema.yml, and model descriptions from the dbt manifest. " +
		"Specifically designed for healthcare claims data analysis."

	// ToolBanner prefixes every Call result.
	ToolBanner = "DuckDB Healthcare Claims Database Schema:\n\n"
)

// Tool is a schema lookup for an agent. Its output is rendered once, when
// the tool is built, and returned unchanged by every Call.
type Tool struct {
	Name        string
	Description string

	doc    *Document
	output string
}

// NewSchemaTool builds the schema document for manifestPath and wraps it in
// a Tool. A manifest that cannot be read or decoded is returned as an error.
func NewSchemaTool(manifestPath string, opts *Options) (*Tool, error) {
	doc, err := LoadDocument(manifestPath, opts)
	if err != nil {
		return nil, err
	}
	return NewToolFromDocument(doc), nil
}

// NewToolFromDocument wraps an already rendered document.
func NewToolFromDocument(doc *Document) *Tool {
	return &Tool{
		Name:        ToolName,
		Description: ToolDescription,
		doc:         doc,
		output:      ToolBanner + doc.Content,
	}
}

// Call returns the banner followed by the schema report. The query is ignored.
func (t *Tool) Call(_ string) string {
	return t.output
}

// Func returns Call as a plain function for frameworks that register callbacks.
func (t *Tool) Func() func(string) string {
	return t.Call
}

// Document returns the document the tool serves.
func (t *Tool) Document() *Document {
	return t.doc
}
