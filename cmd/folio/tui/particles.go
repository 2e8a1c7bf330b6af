package tui

import (
	"math/rand/v2"
	"strings"
)

// particle is one dot in the hero particle field. Positions are in cells.
type particle struct {
	x, y   float64
	vx, vy float64
}

// field is a terminal rendition of the site's hero particles.
type field struct {
	width, height int
	particles     []particle
	rng           *rand.Rand
}

func newField(width, height int, seed uint64) *field {
	return &field{
		width:  max(width, 1),
		height: max(height, 1),
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// setCount grows or shrinks the population, keeping existing particles.
func (f *field) setCount(n int) {
	if n < 0 {
		n = 0
	}
	for len(f.particles) < n {
		f.particles = append(f.particles, particle{
			x:  f.rng.Float64() * float64(f.width),
			y:  f.rng.Float64() * float64(f.height),
			vx: (f.rng.Float64() - 0.5) * 1.2,
			vy: (f.rng.Float64() - 0.5) * 0.6,
		})
	}
	f.particles = f.particles[:n]
}

// resize changes the field bounds and pulls particles inside.
func (f *field) resize(width, height int) {
	f.width = max(width, 1)
	f.height = max(height, 1)
	for i := range f.particles {
		p := &f.particles[i]
		p.x = clamp(p.x, 0, float64(f.width)-1)
		p.y = clamp(p.y, 0, float64(f.height)-1)
	}
}

// step advances every particle by scale, bouncing off the edges.
func (f *field) step(scale float64) {
	w, h := float64(f.width)-1, float64(f.height)-1
	for i := range f.particles {
		p := &f.particles[i]
		p.x += p.vx * scale
		p.y += p.vy * scale
		if p.x < 0 || p.x > w {
			p.vx = -p.vx
			p.x = clamp(p.x, 0, w)
		}
		if p.y < 0 || p.y > h {
			p.vy = -p.vy
			p.y = clamp(p.y, 0, h)
		}
	}
}

// render draws the field as height lines of width cells.
func (f *field) render() string {
	grid := make([][]rune, f.height)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", f.width))
	}
	for _, p := range f.particles {
		x, y := int(p.x+0.5), int(p.y+0.5)
		if x >= 0 && x < f.width && y >= 0 && y < f.height {
			grid[y][x] = '●'
		}
	}

	lines := make([]string, f.height)
	for y, row := range grid {
		lines[y] = particleStyle.Render(string(row))
	}
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
