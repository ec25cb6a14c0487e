package ui

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/abelbrown/aidaily/internal/reveal"
)

const (
	// slideColumns is how far right an entering item starts.
	slideColumns = 12
	motionFPS    = 60
)

// slideTable holds the spring's offset for every frame of the entrance
// transition, computed once.
var slideTable = buildSlideTable()

func buildSlideTable() []float64 {
	frames := int(reveal.Transition.Seconds() * motionFPS)
	if frames < 1 {
		frames = 1
	}
	spring := harmonica.NewSpring(harmonica.FPS(motionFPS), 10.0, 0.8)

	table := make([]float64, frames+1)
	pos, vel := float64(slideColumns), 0.0
	for i := range table {
		table[i] = pos
		pos, vel = spring.Update(pos, vel, 0)
	}
	table[frames] = 0
	return table
}

// slideOffset maps transition progress (0..1) to a column offset.
func slideOffset(progress float64) int {
	if progress <= 0 {
		return slideColumns
	}
	if progress >= 1 {
		return 0
	}
	i := int(progress * float64(len(slideTable)-1))
	off := int(math.Round(slideTable[i]))
	if off < 0 {
		off = 0
	}
	return off
}
