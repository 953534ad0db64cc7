package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"fishing-backend/internal/models"
	"fishing-backend/internal/services"
)

const feedbackTextWidth = 60

func newFeedbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "List and solve fisher feedback",
	}
	cmd.AddCommand(newFeedbackListCmd())
	cmd.AddCommand(newFeedbackSolveCmd())
	return cmd
}

func newFeedbackListCmd() *cobra.Command {
	var unsolved bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List feedback, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, pool, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			items, err := services.NewFeedbackService(store).ListAsOperator(ctx, unsolved)
			if err != nil {
				return err
			}
			renderFeedback(cmd.OutOrStdout(), items)
			return nil
		},
	}
	cmd.Flags().BoolVar(&unsolved, "unsolved", false, "Only show unsolved feedback")
	return cmd
}

func newFeedbackSolveCmd() *cobra.Command {
	var solution string

	cmd := &cobra.Command{
		Use:   "solve <id>",
		Short: "Mark feedback as solved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid feedback id %q", args[0])
			}
			if strings.TrimSpace(solution) == "" {
				return fmt.Errorf("--solution is required")
			}

			ctx := cmd.Context()
			store, pool, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			fb, err := services.NewFeedbackService(store).SolveAsOperator(ctx, id, solution)
			if err != nil {
				return err
			}
			renderFeedback(cmd.OutOrStdout(), []*models.Feedback{fb})
			return nil
		},
	}
	cmd.Flags().StringVar(&solution, "solution", "", "How the feedback was resolved")
	return cmd
}

func renderFeedback(out io.Writer, items []*models.Feedback) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Type", "Created", "Solved", "Text"})

	for _, fb := range items {
		solved := "no"
		if fb.Solved {
			solved = "yes"
		}
		t.AppendRow(table.Row{
			fb.ID.String(),
			fb.Type,
			fb.CreatedAt.Format("2006-01-02 15:04"),
			solved,
			truncate(fb.Text, feedbackTextWidth),
		})
	}
	t.AppendFooter(table.Row{"", "", "", "Total", len(items)})
	t.Render()
}

// truncate shortens s to at most n runes and flattens newlines.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
