// Package prompt holds the instructions handed to a claims SQL agent and
// parses the JSON answer the agent is told to produce.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaToolName is the tool the agent is told to call first.
const SchemaToolName = "get_schema_info"

const promptTemplate = `
You are a helpful Claim info assistant for a healthcare claims database.

Before answering any question, ALWAYS use the %[1]s tool to understand the database structure.

Answer the following question: %[2]s
- First, get the schema information using the %[1]s tool
- Then, generate the correct SQL query based on the schema
- Execute the query and return the results
- Include the SQL query used for transparency
- If the question involves trends, time series, charts, graphs, or visual analysis, use the generate_visualization tool

The response must be a json in the following format:
{
    "natural_language_response": "Your answer in natural language",
    "sql_query": "The SQL query used to get the results",
    "visualization_path": "Path to the generated visualization file or None if not applicable",
    "error_info": "Error message if applicable"
}
Make sure to format the SQL query correctly and ensure it is executable.
`

// Build returns the agent instructions for question.
func Build(question string) string {
	return fmt.Sprintf(promptTemplate, SchemaToolName, strings.TrimSpace(question))
}

// Answer is the structured agent response.
type Answer struct {
	NaturalLanguageResponse string `json:"natural_language_response"`
	SQLQuery                string `json:"sql_query"`
	VisualizationPath       string `json:"visualization_path,omitempty"`
	ErrorInfo               string `json:"error_info,omitempty"`
}

// ParseError is returned when an agent response is not the expected JSON.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse agent answer: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseAnswer decodes an agent response. The JSON may be wrapped in a
// ```json or bare ``` fence; only the first fenced block is read. The
// placeholder values "None" and "null" in visualization_path and error_info
// are cleared.
func ParseAnswer(raw string) (*Answer, error) {
	content := extractJSON(raw)

	var a Answer
	if err := json.Unmarshal([]byte(content), &a); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}

	a.VisualizationPath = clearPlaceholder(a.VisualizationPath)
	a.ErrorInfo = clearPlaceholder(a.ErrorInfo)
	return &a, nil
}

func extractJSON(raw string) string {
	if _, after, ok := strings.Cut(raw, "```json"); ok {
		body, _, _ := strings.Cut(after, "```")
		return strings.TrimSpace(body)
	}
	if _, after, ok := strings.Cut(raw, "```"); ok {
		body, _, _ := strings.Cut(after, "```")
		return strings.TrimSpace(body)
	}
	return strings.TrimSpace(raw)
}

func clearPlaceholder(s string) string {
	switch strings.TrimSpace(s) {
	case "None", "null":
		return ""
	}
	return s
}

// HasVisualization reports whether the agent produced a chart.
func (a *Answer) HasVisualization() bool {
	return a.VisualizationPath != ""
}
