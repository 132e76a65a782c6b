package main

import (
	"github.com/spf13/cobra"

	"github.com/scoreshelf/scoreshelf/internal/cli"
)

// warmReport lists how many bytes each volume contributed to the cache.
type warmReport struct {
	Name    string `json:"name" yaml:"name"`
	Volumes []struct {
		FileName string `json:"fileName" yaml:"fileName"`
		Bytes    int    `json:"bytes" yaml:"bytes"`
	} `json:"volumes" yaml:"volumes"`
}

var warmCmd = &cobra.Command{
	Use:   "warm <book.pdf|book.json>",
	Short: "Preload every volume of a book into the byte cache",
	Long: `Warm loads all of a book's volumes concurrently, the same way the viewer
warms its cache ahead of page navigation, and reports the bytes read.
A volume reported at 0 bytes is missing or unreadable on disk.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		md, err := loadBook(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		md.PreloadAllVolumeBytes(cmd.Context())

		report := warmReport{Name: md.BaseName()}
		for i, v := range md.Volumes {
			report.Volumes = append(report.Volumes, struct {
				FileName string `json:"fileName" yaml:"fileName"`
				Bytes    int    `json:"bytes" yaml:"bytes"`
			}{
				FileName: v.FileName,
				Bytes:    len(md.GetCachedVolumeBytes(i)),
			})
		}
		return cli.Output(report)
	},
}
