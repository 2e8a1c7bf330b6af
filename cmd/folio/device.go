package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/folio/pkg/folio/device"
	"github.com/jamesainslie/folio/pkg/folio/media"
	"github.com/jamesainslie/folio/pkg/folio/output"
	"github.com/jamesainslie/folio/pkg/folio/tuner"
	"github.com/jamesainslie/folio/pkg/folio/watch"
)

var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Classify a device and show its performance configuration",
	Long: `Classify a device environment and print the performance configuration the
site would use for it.

The environment starts empty (a 1024x768 desktop with no hardware hints),
from --snapshot, or from this machine with --host. Individual flags override
the base.

Snapshot files are YAML or JSON:

  width: 390
  height: 844
  cores: 6
  memory_gb: 4
  user_agent: "Mozilla/5.0 (Linux; Android 13; SM-A135F)"
  dpr: 3
  reduced_motion: false`,
	Args: cobra.NoArgs,
	RunE: runDevice,
}

var deviceWatchCmd = &cobra.Command{
	Use:   "watch <snapshot>",
	Short: "Re-print the profile whenever a snapshot file changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeviceWatch,
}

var (
	deviceOpts      deviceFlags
	deviceWatchOpts deviceFlags
	deviceImage     string
)

func init() {
	deviceOpts.register(deviceCmd)
	deviceCmd.Flags().StringVar(&deviceImage, "image", "", "also show the optimized form of this image URL")

	deviceWatchCmd.Flags().IntVar(&deviceWatchOpts.maxParticles, "max-particles", 0, "cap the particle count (0 = no cap)")

	deviceCmd.AddCommand(deviceWatchCmd)
	rootCmd.AddCommand(deviceCmd)
}

// deviceView derives everything shown for a profile.
func deviceView(p device.Profile, o tuner.Overrides, image string) *output.DeviceView {
	v := &output.DeviceView{
		Profile: p,
		Config:  tuner.DeriveWithOverrides(p, o),
	}
	if image != "" {
		v.ImageSrc = image
		v.ImageURL = media.OptimizeURLWithQuality(image, p, v.Config.ImageQuality)
	}
	return v
}

func runDevice(cmd *cobra.Command, _ []string) error {
	snap, err := deviceOpts.snapshotFrom(cmd)
	if err != nil {
		return err
	}
	formatter, err := resolveFormatter(loadedConfig())
	if err != nil {
		return err
	}

	v := deviceView(device.Observe(snap), deviceOpts.overrides(), deviceImage)

	var buf bytes.Buffer
	if err := formatter.FormatDevice(&buf, v); err != nil {
		return err
	}
	fmt.Print(buf.String())
	return nil
}

func runDeviceWatch(cmd *cobra.Command, args []string) error {
	formatter, err := resolveFormatter(loadedConfig())
	if err != nil {
		return err
	}

	obs := device.NewObserver(device.Snapshot{})
	defer obs.Close()

	w, err := watch.NewSnapshotWatcher(args[0], obs)
	if err != nil {
		return err
	}
	defer w.Close()

	sub := obs.Subscribe()
	defer obs.Unsubscribe(sub.ID)

	show := func(p device.Profile) error {
		var buf bytes.Buffer
		if err := formatter.FormatDevice(&buf, deviceView(p, deviceWatchOpts.overrides(), "")); err != nil {
			return err
		}
		fmt.Print(buf.String())
		return nil
	}

	if err := show(obs.Profile()); err != nil {
		return err
	}
	printVerbose("watching %s", w.Path())

	ctx := cmd.Context()
	go w.Run(ctx, func(_ device.Snapshot, err error) {
		if err != nil {
			printError("%v", err)
		}
	})

	for {
		select {
		case <-ctx.Done():
			return nil
		case p, ok := <-sub.Events:
			if !ok {
				return nil
			}
			if err := show(p); err != nil {
				return err
			}
		}
	}
}
