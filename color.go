package main

import (
	"image/color"

	"gioui.org/widget/material"
	"github.com/lucasb-eyer/go-colorful"

	"git.sr.ht/~whereswaldon/scrubchart/backend"
	"git.sr.ht/~whereswaldon/scrubchart/chart"
)

var (
	white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	black = color.NRGBA{A: 0xff}
	// errorColor is used for load and render failures.
	errorColor = color.NRGBA{R: 150, A: 255}
)

// palette derives the theme colours from the chart style so that the
// controls match whatever the chart is drawn in.
func palette(style chart.Style, kind chart.Kind) material.Palette {
	accent := style.Line
	if kind == chart.KindBar {
		accent = style.Bar
	}
	return material.Palette{
		Bg:         white,
		Fg:         style.Labels,
		ContrastBg: accent,
		ContrastFg: contrast(accent),
	}
}

// contrast picks black or white, whichever reads better on c.
func contrast(c color.NRGBA) color.NRGBA {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return black
	}
	if l, _, _ := cf.Lab(); l > 0.6 {
		return black
	}
	return white
}

// muted blends c halfway to the background, used for disabled controls.
func muted(c color.NRGBA) color.NRGBA {
	return backend.Blend(c, white, 0.5)
}
