package backend

import (
	"image/color"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"

	"git.sr.ht/~whereswaldon/scrubchart/chart"
)

func viperFromYAML(t *testing.T, doc string) *viper.Viper {
	t.Helper()
	v, err := NewViper("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(doc)); err != nil {
		t.Fatalf("failed reading config: %v", err)
	}
	return v
}

func TestSettingsChartConfig(t *testing.T) {
	v := viperFromYAML(t, `
kind: bar
type: curved
unit: W
keep_indicator: true
hide_grid: true
line_width: 2
colors:
  bar: "#102030"
  indicator: "#ff000080"
`)
	s, err := LoadSettings(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := s.ChartConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expect := chart.DefaultConfig(chart.KindBar)
	expect.Type = chart.Curved
	expect.Unit = "W"
	expect.KeepIndicator = true
	expect.ShowHorizontalGrid = false
	expect.ShowVerticalGrid = false
	expect.LineWidth = 2
	expect.Style.Bar = color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}
	expect.Style.Indicator = color.NRGBA{R: 0xff, A: 0x80}
	expect.Style.PointBorder = color.NRGBA{R: 0xff, A: 0x80}
	if diff := cmp.Diff(expect, cfg); diff != "" {
		t.Errorf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestSettingsDefaults(t *testing.T) {
	v, err := NewViper("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, err := LoadSettings(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := s.ChartConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(chart.DefaultConfig(chart.KindLine), cfg); diff != "" {
		t.Errorf("expected default config (-want +got):\n%s", diff)
	}
}

func TestSettingsErrors(t *testing.T) {
	for _, tc := range []struct {
		name     string
		settings Settings
	}{
		{name: "unknown kind", settings: Settings{Kind: "pie"}},
		{name: "unknown type", settings: Settings{Type: "stepped"}},
		{name: "bad colour", settings: Settings{Colors: ColorSettings{Line: "blue"}}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.settings.ChartConfig(); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	for _, tc := range []struct {
		in     string
		expect color.NRGBA
		err    bool
	}{
		{in: "#2b7fa8", expect: color.NRGBA{R: 0x2b, G: 0x7f, B: 0xa8, A: 0xff}},
		{in: "#fff", expect: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{in: "#00000000", expect: color.NRGBA{}},
		{in: "#12345", err: true},
		{in: "#123456zz", err: true},
	} {
		got, err := ParseColor(tc.in)
		if tc.err {
			if err == nil {
				t.Errorf("ParseColor(%q): expected error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseColor(%q): unexpected error: %v", tc.in, err)
		} else if got != tc.expect {
			t.Errorf("ParseColor(%q): expected %v, got %v", tc.in, tc.expect, got)
		}
	}
	if hex := HexColor(color.NRGBA{R: 0x2b, G: 0x7f, B: 0xa8, A: 0x10}); hex != "#2b7fa8" {
		t.Errorf("expected #2b7fa8, got %s", hex)
	}
}

func TestBlendEndpoints(t *testing.T) {
	a := color.NRGBA{R: 0xff, A: 0xff}
	b := color.NRGBA{B: 0xff}
	if got := Blend(a, b, 0); got != a {
		t.Errorf("expected %v at t=0, got %v", a, got)
	}
	if got := Blend(a, b, 1); got != b {
		t.Errorf("expected %v at t=1, got %v", b, got)
	}
}
