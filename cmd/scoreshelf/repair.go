package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scoreshelf/scoreshelf/internal/sidecar"
)

var repairCmd = &cobra.Command{
	Use:   "repair <book.pdf|book.json>",
	Short: "Repair a book's sidecar and persist the fix",
	Long: `Repair reloads a sidecar, re-derives any zero page counts from the PDFs,
recomputes stale TOC page numbers, and force-saves the result. Useful
after a partial cloud sync left sidecars with zeroed page counts.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		md, err := loadBook(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		wasDirty := md.IsDirty()
		ok, err := sidecar.Save(md, true)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("nothing to save for %s", args[0])
		}
		if wasDirty {
			fmt.Printf("Repaired and saved %s\n", md.SidecarPath())
		} else {
			fmt.Printf("No corruption found; rewrote %s\n", md.SidecarPath())
		}
		return nil
	},
}
