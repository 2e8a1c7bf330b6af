// Package media rewrites external image URLs so the image host serves a
// file sized and compressed for the requesting device.
package media

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/gobwas/glob"

	"github.com/jamesainslie/folio/pkg/folio/device"
	"github.com/jamesainslie/folio/pkg/folio/tuner"
)

// Params are the sizing parameters for one image quality tier.
type Params struct {
	// DPRCap bounds the pixel ratio used for width calculation.
	DPRCap float64

	// MaxWidth bounds the requested width in pixels.
	MaxWidth int

	// Quality is the requested compression quality, 1-100.
	Quality int
}

var tiers = map[tuner.ImageQuality]Params{
	tuner.QualityLow:    {DPRCap: 1.5, MaxWidth: 300, Quality: 30},
	tuner.QualityMedium: {DPRCap: 2, MaxWidth: 500, Quality: 35},
	tuner.QualityHigh:   {DPRCap: 2, MaxWidth: 800, Quality: 45},
}

// ParamsFor returns the sizing parameters of a tier. Unknown tiers use
// the medium tier.
func ParamsFor(q tuner.ImageQuality) Params {
	if p, ok := tiers[q]; ok {
		return p
	}
	return tiers[tuner.QualityMedium]
}

// Width is min(viewport * min(dpr, cap), max), rounded to whole pixels.
func (p Params) Width(viewportWidth int, dpr float64) int {
	w := float64(viewportWidth) * math.Min(dpr, p.DPRCap)
	return int(math.Round(math.Min(w, float64(p.MaxWidth))))
}

// host is an image CDN that accepts resize parameters.
type host struct {
	name     string
	patterns []glob.Glob
	extra    [][2]string
}

func newHost(name, domain string, extra ...[2]string) host {
	return host{
		name: name,
		patterns: []glob.Glob{
			glob.MustCompile(domain, '.'),
			glob.MustCompile("**."+domain, '.'),
		},
		extra: extra,
	}
}

func (h host) matches(hostname string) bool {
	for _, g := range h.patterns {
		if g.Match(hostname) {
			return true
		}
	}
	return false
}

var hosts = []host{
	newHost("pexels", "pexels.com",
		[2]string{"auto", "compress"},
		[2]string{"cs", "tinysrgb"},
		[2]string{"fm", "webp"},
	),
	newHost("unsplash", "unsplash.com",
		[2]string{"auto", "format"},
		[2]string{"fm", "webp"},
	),
}

// Recognized reports whether src points at a supported image host.
func Recognized(src string) bool {
	_, _, ok := lookup(src)
	return ok
}

func lookup(src string) (*url.URL, host, bool) {
	u, err := url.Parse(src)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, host{}, false
	}
	hostname := strings.ToLower(u.Hostname())
	for _, h := range hosts {
		if h.matches(hostname) {
			return u, h, true
		}
	}
	return nil, host{}, false
}

// OptimizeURL returns src with width, quality and format parameters for
// the profile's image tier. URLs on other hosts, with a non-HTTP scheme, or
// that do not parse are returned unchanged.
func OptimizeURL(src string, p device.Profile) string {
	return OptimizeURLWithQuality(src, p, tuner.Derive(p).ImageQuality)
}

// OptimizeURLWithQuality is OptimizeURL with an explicit tier.
func OptimizeURLWithQuality(src string, p device.Profile, q tuner.ImageQuality) string {
	u, h, ok := lookup(src)
	if !ok {
		return src
	}

	width := p.ViewportWidth
	if width <= 0 {
		width = device.DefaultWidth
	}
	dpr := p.DevicePixelRatio
	if dpr <= 0 {
		dpr = device.DefaultPixelRatio
	}

	params := ParamsFor(q)
	set := [][2]string{
		{"w", strconv.Itoa(params.Width(width, dpr))},
		{"q", strconv.Itoa(params.Quality)},
	}
	set = append(set, h.extra...)
	u.RawQuery = setParams(u.RawQuery, set)

	return u.String()
}

// setParams assigns each key in set within a raw query string. Existing
// parameters keep their position and encoding; an owned key is rewritten
// at its first occurrence and later duplicates are dropped. Keys that were
// absent are appended in the order given.
func setParams(raw string, set [][2]string) string {
	values := make(map[string]string, len(set))
	for _, kv := range set {
		values[kv[0]] = kv[1]
	}

	var parts []string
	written := make(map[string]bool, len(set))
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		name, _, _ := strings.Cut(part, "=")
		if key, err := url.QueryUnescape(name); err == nil {
			if v, ok := values[key]; ok {
				if !written[key] {
					parts = append(parts, url.QueryEscape(key)+"="+url.QueryEscape(v))
					written[key] = true
				}
				continue
			}
		}
		parts = append(parts, part)
	}

	for _, kv := range set {
		if !written[kv[0]] {
			parts = append(parts, url.QueryEscape(kv[0])+"="+url.QueryEscape(kv[1]))
			written[kv[0]] = true
		}
	}
	return strings.Join(parts, "&")
}
