package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/episim/internal/epi"
)

// Curve is a named series to render into an SVG chart.
type Curve struct {
	Label string
	Color string
	Xs    []float64
	Ys    []float64
}

// CompartmentCurves builds the standard three-curve view of a run.
func CompartmentCurves(tr *epi.Trajectory) []Curve {
	return []Curve{
		{Label: "susceptible", Color: "#4488ff", Xs: tr.Times, Ys: tr.Compartment(epi.S)},
		{Label: "infected", Color: "#ff4444", Xs: tr.Times, Ys: tr.Compartment(epi.I)},
		{Label: "recovered", Color: "#44cc44", Xs: tr.Times, Ys: tr.Compartment(epi.R)},
	}
}

// CurvesToSVG renders line curves on a shared axis scaled to the union
// of their bounds.
func CurvesToSVG(curves []Curve, width, height int) string {
	minX, maxX, minY, maxY := bounds(curves)
	if maxX == minX {
		maxX = minX + 1
	}
	if maxY == minY {
		maxY = minY + 1
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	minY -= rangeY * 0.05
	maxY += rangeY * 0.05
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, c := range curves {
		if len(c.Xs) < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, c.Color))
		for i := range c.Xs {
			x := (c.Xs[i] - minX) / rangeX * float64(width)
			y := float64(height) - (c.Ys[i]-minY)/rangeY*float64(height)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func bounds(curves []Curve) (minX, maxX, minY, maxY float64) {
	first := true
	for _, c := range curves {
		for i := range c.Xs {
			if first {
				minX, maxX = c.Xs[i], c.Xs[i]
				minY, maxY = c.Ys[i], c.Ys[i]
				first = false
				continue
			}
			if c.Xs[i] < minX {
				minX = c.Xs[i]
			}
			if c.Xs[i] > maxX {
				maxX = c.Xs[i]
			}
			if c.Ys[i] < minY {
				minY = c.Ys[i]
			}
			if c.Ys[i] > maxY {
				maxY = c.Ys[i]
			}
		}
	}
	return minX, maxX, minY, maxY
}
