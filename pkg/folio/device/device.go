// Package device classifies the rendering environment of the portfolio site
// into a capability profile: a viewport class, a low-power flag, and the
// user's reduced-motion preference. Classification never fails; every
// missing signal falls back to the capable branch.
package device

import (
	"regexp"
)

// Class is the viewport class of a device.
type Class string

// Viewport classes.
const (
	Mobile  Class = "mobile"
	Tablet  Class = "tablet"
	Desktop Class = "desktop"
)

// Width breakpoints in CSS pixels.
const (
	// TabletMinWidth is the narrowest viewport classified as tablet.
	TabletMinWidth = 768

	// DesktopMinWidth is the narrowest viewport classified as desktop.
	DesktopMinWidth = 1024
)

// Fallbacks used when the environment cannot report a value.
const (
	DefaultWidth      = 1024
	DefaultHeight     = 768
	DefaultPixelRatio = 1.0
)

// Low-power thresholds. A device at or below either is low-power.
const (
	LowPowerMaxCores    = 2
	LowPowerMaxMemoryGB = 2.0
)

// lowPowerAgent matches budget Android handsets by model prefix.
var lowPowerAgent = regexp.MustCompile(`(?i)Android.*(SM-|GT-|SCH-|SGH-|SPH-|LG-|HTC|SonyEricsson|BlackBerry)`)

// Profile is the classified capability snapshot of one environment.
type Profile struct {
	ViewportWidth        int     `json:"viewport_width" yaml:"viewport_width"`
	ViewportHeight       int     `json:"viewport_height" yaml:"viewport_height"`
	Class                Class   `json:"class" yaml:"class"`
	LowPower             bool    `json:"low_power" yaml:"low_power"`
	PrefersReducedMotion bool    `json:"prefers_reduced_motion" yaml:"prefers_reduced_motion"`
	DevicePixelRatio     float64 `json:"device_pixel_ratio" yaml:"device_pixel_ratio"`
}

// IsMobile reports whether the profile is in the mobile class.
func (p Profile) IsMobile() bool { return p.Class == Mobile }

// IsTablet reports whether the profile is in the tablet class.
func (p Profile) IsTablet() bool { return p.Class == Tablet }

// IsDesktop reports whether the profile is in the desktop class.
func (p Profile) IsDesktop() bool { return p.Class == Desktop }

// Classify maps a viewport width to exactly one class. Widths below the
// tablet breakpoint, including zero and negative values, are mobile.
func Classify(width int) Class {
	switch {
	case width < TabletMinWidth:
		return Mobile
	case width < DesktopMinWidth:
		return Tablet
	default:
		return Desktop
	}
}

// IsLowPowerAgent reports whether a user-agent string identifies a budget
// Android handset.
func IsLowPowerAgent(ua string) bool {
	return ua != "" && lowPowerAgent.MatchString(ua)
}

// Observe reads every signal from env and classifies it. A nil env yields
// the default desktop profile.
func Observe(env Environment) Profile {
	if env == nil {
		env = Snapshot{}
	}

	width, height := env.Viewport()
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	dpr := env.PixelRatio()
	if dpr <= 0 {
		dpr = DefaultPixelRatio
	}

	return Profile{
		ViewportWidth:        width,
		ViewportHeight:       height,
		Class:                Classify(width),
		LowPower:             lowPower(env),
		PrefersReducedMotion: env.PrefersReducedMotion(),
		DevicePixelRatio:     dpr,
	}
}

func lowPower(env Environment) bool {
	if cores, ok := env.HardwareConcurrency(); ok && cores > 0 && cores <= LowPowerMaxCores {
		return true
	}
	if mem, ok := env.DeviceMemory(); ok && mem > 0 && mem <= LowPowerMaxMemoryGB {
		return true
	}
	return IsLowPowerAgent(env.UserAgent())
}
