package render

import (
	"fmt"
	"image/color"
	"slices"

	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
)

const neutralColor = "#E6E6E6"

var (
	greenColors = [...]string{"#E5FFCC", "#CCFF99", "#B2FF66", "#99FF33", "#66CC00"}
	redColors   = [...]string{"#FFEEEE", "#FFCCCC", "#FFAAAA", "#FF8888", "#FF3333"}

	removedColor = greenColors[len(greenColors)-1]
	addedColor   = redColors[len(redColors)-1]
)

// diffColor picks the color of a frame present in both profiles by the percentage difference of its samples.
func diffColor(baseline, comparison uint64) string {
	pct := toPercent(baseline, comparison)

	var index int
	switch {
	case pct <= 2:
		return neutralColor
	case pct <= 10:
		index = 0
	case pct <= 40:
		index = 1
	case pct <= 80:
		index = 2
	default:
		index = 3
	}

	if baseline > comparison {
		return greenColors[index]
	}
	return redColors[index]
}

func reverse(s string) string {
	runes := []rune(s)
	slices.Reverse(runes)
	return string(runes)
}

func namehash(name string) float64 {
	vector := 0.0
	weight := 1.0
	max := 1.0
	mod := 10
	for _, c := range name {
		i := int(c) % mod

		vector += float64(i) / float64(mod-1) * weight
		mod += 1
		max += 1 * weight
		weight *= 0.7

		if mod > 13 {
			break
		}
	}
	return (1.0 - vector/max)
}

// hashcolor shades frames by name, kernel frames get a blue palette.
func hashcolor(name string, frameType record.FrameType) color.RGBA {
	v1 := namehash(name)
	v2 := namehash(reverse(name))
	v3 := v2

	switch frameType {
	case record.FrameTypeKernel:
		return color.RGBA{
			R: uint8(96 + 55*v2),
			G: uint8(96 + (255-96)*v1),
			B: uint8(205 + 50*v3),
		}
	default:
		return color.RGBA{
			R: uint8(205 + 50*v3),
			G: uint8(0 + 230*v1),
			B: uint8(0 + 55*v2),
		}
	}
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// frameColor returns the color of the frame type. Kernel frames and frames
// of unknown type are shaded by name instead.
func frameColor(name string, frameType record.FrameType) string {
	switch frameType {
	case record.FrameTypeUnknown, record.FrameTypeKernel:
		return hex(hashcolor(name, frameType))
	default:
		return frameType.Color()
	}
}
