package backend

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/viper"

	"git.sr.ht/~whereswaldon/scrubchart/chart"
)

// Settings are the user-facing options shared by the application and the
// command line tools. Zero values keep the chart defaults.
type Settings struct {
	Kind             string        `mapstructure:"kind"`
	Type             string        `mapstructure:"type"`
	Unit             string        `mapstructure:"unit"`
	KeepIndicator    bool          `mapstructure:"keep_indicator"`
	HidePoints       bool          `mapstructure:"hide_points"`
	HideGrid         bool          `mapstructure:"hide_grid"`
	HideSideLabels   bool          `mapstructure:"hide_side_labels"`
	HideBottomLabels bool          `mapstructure:"hide_bottom_labels"`
	LineWidth        float32       `mapstructure:"line_width"`
	Colors           ColorSettings `mapstructure:"colors"`
	LogLevel         string        `mapstructure:"log_level"`
}

// ColorSettings are hex colours in #rrggbb or #rrggbbaa form.
type ColorSettings struct {
	Line       string `mapstructure:"line"`
	Bar        string `mapstructure:"bar"`
	Grid       string `mapstructure:"grid"`
	Labels     string `mapstructure:"labels"`
	Header     string `mapstructure:"header"`
	Indicator  string `mapstructure:"indicator"`
	Readout    string `mapstructure:"readout"`
	FillTop    string `mapstructure:"fill_top"`
	FillBottom string `mapstructure:"fill_bottom"`
}

// NewViper returns a viper instance with defaults applied, reading
// configFile when it is not empty. Environment variables prefixed with
// SCRUBCHART_ override the file.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault("kind", chart.KindLine.String())
	v.SetDefault("type", chart.Linear.String())
	v.SetDefault("log_level", "info")
	v.SetEnvPrefix("scrubchart")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed reading config %q: %w", configFile, err)
		}
	}
	return v, nil
}

// LoadSettings decodes the settings held by v.
func LoadSettings(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed decoding settings: %w", err)
	}
	return s, nil
}

// ChartConfig applies the settings on top of chart.DefaultConfig.
func (s Settings) ChartConfig() (chart.Config, error) {
	kind := chart.KindLine
	if s.Kind != "" {
		k, ok := chart.ParseKind(s.Kind)
		if !ok {
			return chart.Config{}, fmt.Errorf("unknown chart kind %q", s.Kind)
		}
		kind = k
	}
	cfg := chart.DefaultConfig(kind)
	if s.Type != "" {
		t, ok := chart.ParseLineType(s.Type)
		if !ok {
			return chart.Config{}, fmt.Errorf("unknown line type %q", s.Type)
		}
		cfg.Type = t
	}
	if s.Unit != "" {
		cfg.Unit = s.Unit
	}
	cfg.KeepIndicator = s.KeepIndicator
	if s.HidePoints {
		cfg.ShowPoints = false
	}
	if s.HideGrid {
		cfg.ShowHorizontalGrid = false
		cfg.ShowVerticalGrid = false
	}
	if s.HideSideLabels {
		cfg.ShowSideLabels = false
	}
	if s.HideBottomLabels {
		cfg.ShowBottomLabels = false
	}
	if s.LineWidth > 0 {
		cfg.LineWidth = s.LineWidth
	}

	var errs []error
	set := func(dst *color.NRGBA, name, hex string) {
		if hex == "" {
			return
		}
		c, err := ParseColor(hex)
		if err != nil {
			errs = append(errs, fmt.Errorf("colors.%s: %w", name, err))
			return
		}
		*dst = c
	}
	style := &cfg.Style
	set(&style.Line, "line", s.Colors.Line)
	set(&style.Bar, "bar", s.Colors.Bar)
	set(&style.Grid, "grid", s.Colors.Grid)
	set(&style.Labels, "labels", s.Colors.Labels)
	set(&style.Header, "header", s.Colors.Header)
	set(&style.Indicator, "indicator", s.Colors.Indicator)
	set(&style.PointBorder, "indicator", s.Colors.Indicator)
	set(&style.Readout, "readout", s.Colors.Readout)
	if s.Colors.Line != "" && s.Colors.FillTop == "" {
		style.FillTop = WithAlpha(style.Line, 0x90)
	}
	set(&style.FillTop, "fill_top", s.Colors.FillTop)
	set(&style.FillBottom, "fill_bottom", s.Colors.FillBottom)
	if err := errors.Join(errs...); err != nil {
		return chart.Config{}, err
	}
	return cfg, nil
}

// ParseColor parses #rrggbb, #rgb or #rrggbbaa.
func ParseColor(hex string) (color.NRGBA, error) {
	switch len(hex) {
	case 4, 7, 9:
	default:
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", hex)
	}
	alpha := uint8(0xff)
	if len(hex) == 9 {
		a, err := strconv.ParseUint(hex[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in %q: %w", hex, err)
		}
		alpha = uint8(a)
		hex = hex[:7]
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// HexColor formats the colour part of c as #rrggbb, ignoring alpha.
func HexColor(c color.NRGBA) string {
	return Colorful(c).Hex()
}

// Colorful converts c to a colorful.Color, ignoring alpha.
func Colorful(c color.NRGBA) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

// WithAlpha returns c with its alpha replaced.
func WithAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

// Blend mixes a towards b in Lab space; t of 0 is a and 1 is b. Alpha is
// interpolated linearly.
func Blend(a, b color.NRGBA, t float64) color.NRGBA {
	c := Colorful(a).BlendLab(Colorful(b), t).Clamped()
	r, g, bl := c.RGB255()
	alpha := float64(a.A) + (float64(b.A)-float64(a.A))*t
	return color.NRGBA{R: r, G: g, B: bl, A: uint8(alpha + 0.5)}
}
