package main

import (
	"github.com/spf13/cobra"

	"github.com/jamesainslie/folio/cmd/folio/tui"
	"github.com/jamesainslie/folio/pkg/folio/device"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Explore device profiles interactively",
	Long: `Open an interactive preview in which the terminal stands in for a browser
window. Resizing the terminal, or stepping the viewport with the arrow keys,
reclassifies the device and re-derives the performance configuration.

The environment flags set the starting point; its viewport is replaced by the
terminal size.`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

var (
	previewOpts  deviceFlags
	previewImage string
)

func init() {
	previewOpts.register(previewCmd)
	previewCmd.Flags().StringVar(&previewImage, "image", "", "also show the optimized form of this image URL")

	deviceCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, _ []string) error {
	snap, err := previewOpts.snapshotFrom(cmd)
	if err != nil {
		return err
	}

	obs := device.NewObserver(snap)
	defer obs.Close()

	return tui.Run(obs, tui.Options{
		Base:      snap,
		Overrides: previewOpts.overrides(),
		ImageSrc:  previewImage,
	})
}
