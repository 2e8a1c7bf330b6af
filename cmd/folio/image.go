package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/folio/pkg/folio/device"
	"github.com/jamesainslie/folio/pkg/folio/media"
	"github.com/jamesainslie/folio/pkg/folio/tuner"
)

var imageCmd = &cobra.Command{
	Use:   "image <url>",
	Short: "Print the device-optimized form of an image URL",
	Long: `Rewrite a Pexels or Unsplash image URL with the width and quality the site
would request for a device. Other URLs are printed unchanged.

Accepts the same environment flags as 'folio device'.`,
	Args: cobra.ExactArgs(1),
	RunE: runImage,
}

var (
	imageOpts    deviceFlags
	imageQuality string
)

func init() {
	imageOpts.register(imageCmd)
	imageCmd.Flags().StringVar(&imageQuality, "quality", "", "force an image tier: low, medium or high")
	rootCmd.AddCommand(imageCmd)
}

func runImage(cmd *cobra.Command, args []string) error {
	snap, err := imageOpts.snapshotFrom(cmd)
	if err != nil {
		return err
	}
	profile := device.Observe(snap)

	quality := tuner.DeriveWithOverrides(profile, imageOpts.overrides()).ImageQuality
	if imageQuality != "" {
		q, err := parseQuality(imageQuality)
		if err != nil {
			return err
		}
		quality = q
	}

	src := args[0]
	if !media.Recognized(src) {
		printVerbose("%s is not on a recognized image host; leaving it unchanged", src)
	}
	fmt.Println(media.OptimizeURLWithQuality(src, profile, quality))
	return nil
}

func parseQuality(s string) (tuner.ImageQuality, error) {
	switch q := tuner.ImageQuality(s); q {
	case tuner.QualityLow, tuner.QualityMedium, tuner.QualityHigh:
		return q, nil
	default:
		return "", fmt.Errorf("invalid image quality %q (want low, medium or high)", s)
	}
}
