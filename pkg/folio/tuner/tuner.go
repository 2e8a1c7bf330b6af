// Package tuner derives the site's performance configuration from a device
// profile: how many particles to draw, how long animations run, which
// effects are enabled, and which image quality tier to request.
package tuner

import (
	"github.com/jamesainslie/folio/pkg/folio/device"
)

// ImageQuality is the requested image tier.
type ImageQuality string

// Image quality tiers.
const (
	QualityLow    ImageQuality = "low"
	QualityMedium ImageQuality = "medium"
	QualityHigh   ImageQuality = "high"
)

// ReducedMotionDuration is the animation scale used whenever the user
// prefers reduced motion.
const ReducedMotionDuration = 0.05

// Config is the performance configuration for one profile.
type Config struct {
	ParticleCount           int          `json:"particle_count" yaml:"particle_count"`
	AnimationDurationScale  float64      `json:"animation_duration_scale" yaml:"animation_duration_scale"`
	EnableComplexAnimations bool         `json:"enable_complex_animations" yaml:"enable_complex_animations"`
	EnableParallax          bool         `json:"enable_parallax" yaml:"enable_parallax"`
	ImageQuality            ImageQuality `json:"image_quality" yaml:"image_quality"`
	DebounceMs              int          `json:"debounce_ms" yaml:"debounce_ms"`

	// EnableBlur gates backdrop blur effects.
	EnableBlur bool `json:"enable_blur" yaml:"enable_blur"`

	// ReducedFrameRate halves the animation frame rate.
	ReducedFrameRate bool `json:"reduced_frame_rate" yaml:"reduced_frame_rate"`

	// EnableScrollReveal gates reveal-on-scroll, which needs an
	// intersection observer.
	EnableScrollReveal bool `json:"enable_scroll_reveal" yaml:"enable_scroll_reveal"`
}

// tier is one row of the derivation table.
type tier struct {
	particles int
	duration  float64
	rich      bool
	quality   ImageQuality
	debounce  int
}

var (
	mobileTier         = tier{particles: 3, duration: 0.3, quality: QualityLow, debounce: 300}
	tabletTier         = tier{particles: 6, duration: 0.5, quality: QualityMedium, debounce: 250}
	tabletLowPowerTier = tier{particles: 5, duration: 0.5, quality: QualityMedium, debounce: 250}
	desktopLowPower    = tier{particles: 5, duration: 0.5, quality: QualityMedium, debounce: 150}
	desktopTier        = tier{particles: 8, duration: 1.0, rich: true, quality: QualityHigh, debounce: 150}
)

func pick(p device.Profile) tier {
	switch p.Class {
	case device.Mobile:
		return mobileTier
	case device.Tablet:
		if p.LowPower {
			return tabletLowPowerTier
		}
		return tabletTier
	default:
		if p.LowPower {
			return desktopLowPower
		}
		return desktopTier
	}
}

// Derive returns the configuration for a profile. It is a pure function.
//
// Complex animations and parallax only run on capable desktops. Reduced
// motion always wins: the duration drops to ReducedMotionDuration and both
// effects are disabled regardless of class.
func Derive(p device.Profile) Config {
	t := pick(p)
	constrained := p.Class == device.Mobile || p.LowPower

	cfg := Config{
		ParticleCount:           t.particles,
		AnimationDurationScale:  t.duration,
		EnableComplexAnimations: t.rich,
		EnableParallax:          t.rich,
		ImageQuality:            t.quality,
		DebounceMs:              t.debounce,
		EnableBlur:              !constrained,
		ReducedFrameRate:        constrained,
		EnableScrollReveal:      p.Class != device.Mobile,
	}

	if p.PrefersReducedMotion {
		cfg.AnimationDurationScale = ReducedMotionDuration
		cfg.EnableComplexAnimations = false
		cfg.EnableParallax = false
	}

	return cfg
}

// Overrides adjusts a derived configuration.
type Overrides struct {
	// MaxParticles caps ParticleCount when positive.
	MaxParticles int

	// ForceReducedMotion treats the profile as preferring reduced motion.
	ForceReducedMotion bool
}

// DeriveWithOverrides applies user overrides on top of Derive. A
// non-positive MaxParticles leaves the derived count untouched.
func DeriveWithOverrides(p device.Profile, o Overrides) Config {
	if o.ForceReducedMotion {
		p.PrefersReducedMotion = true
	}

	cfg := Derive(p)
	if o.MaxParticles > 0 {
		cfg.ParticleCount = min(cfg.ParticleCount, o.MaxParticles)
	}
	return cfg
}
