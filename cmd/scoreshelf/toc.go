package main

import (
	"github.com/spf13/cobra"

	"github.com/scoreshelf/scoreshelf/internal/cli"
)

var tocCmd = &cobra.Command{
	Use:   "toc <book.pdf|book.json>",
	Short: "List a book's table of contents, sorted by page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		md, err := loadBook(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return cli.Output(md.SortedToc())
	},
}
