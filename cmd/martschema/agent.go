package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tordrt/martschema"
	"github.com/tordrt/martschema/internal/prompt"
)

func newToolCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tool [query]",
		Short: "Print what the " + martschema.ToolName + " tool returns to an agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := martschema.NewSchemaTool(a.cfg.Manifest, a.options())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), tool.Call(strings.Join(args, " ")))
			return nil
		},
	}
}

func newPromptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prompt <question>",
		Short: "Print the agent instructions for a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _ = fmt.Fprint(cmd.OutOrStdout(), prompt.Build(strings.Join(args, " ")))
			return nil
		},
	}
}

func newAnswerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "answer",
		Short: "Parse an agent answer read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read answer: %w", err)
			}

			answer, err := prompt.ParseAnswer(string(raw))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Answer: %s\n", answer.NaturalLanguageResponse)
			_, _ = fmt.Fprintf(out, "SQL: %s\n", answer.SQLQuery)
			if answer.HasVisualization() {
				_, _ = fmt.Fprintf(out, "Visualization: %s\n", answer.VisualizationPath)
			}
			if answer.ErrorInfo != "" {
				_, _ = fmt.Fprintf(out, "Error: %s\n", answer.ErrorInfo)
			}
			return nil
		},
	}
}
