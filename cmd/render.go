package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"LocalBoard/internal/export"
	"LocalBoard/internal/state"
)

// NewRenderCommand creates the render command, which rasterizes a saved board.
func NewRenderCommand(root *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render <board.json>",
		Short: "Render a saved board to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return convert(root, args[0], output, export.PNG)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "board.png", "output file")

	return cmd
}

// NewPDFCommand creates the pdf command.
func NewPDFCommand(root *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pdf <board.json>",
		Short: "Export a saved board to PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return convert(root, args[0], output, export.PDF)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "board.pdf", "output file")

	return cmd
}

// convert reads the board saved at input and writes it to output with write.
func convert(root *RootOptions, input, output string, write func(io.Writer, []state.Record) error) error {
	in, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("opening board: %w", err)
	}
	defer in.Close()
	records, err := state.ReadRecords(in)
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := write(out, records); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", output, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", output, err)
	}
	root.Logger.Info("board exported", "input", input, "output", output, "records", len(records))
	return nil
}
