package chart

import (
	"testing"

	"gioui.org/f32"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestDashSplit(t *testing.T) {
	type testcase struct {
		name   string
		dash   Dash
		a, b   f32.Point
		expect [][2]f32.Point
	}
	for _, tc := range []testcase{
		{
			name:   "solid",
			a:      f32.Pt(0, 0),
			b:      f32.Pt(10, 0),
			expect: [][2]f32.Point{{f32.Pt(0, 0), f32.Pt(10, 0)}},
		},
		{
			name:   "invalid pattern is solid",
			dash:   Dash{-1, 2},
			a:      f32.Pt(0, 0),
			b:      f32.Pt(10, 0),
			expect: [][2]f32.Point{{f32.Pt(0, 0), f32.Pt(10, 0)}},
		},
		{
			name: "indicator pattern",
			dash: Dash{7, 5},
			a:    f32.Pt(0, 0),
			b:    f32.Pt(0, 30),
			expect: [][2]f32.Point{
				{f32.Pt(0, 0), f32.Pt(0, 7)},
				{f32.Pt(0, 12), f32.Pt(0, 19)},
				{f32.Pt(0, 24), f32.Pt(0, 30)},
			},
		},
		{
			name: "reverse direction",
			dash: Dash{2, 2},
			a:    f32.Pt(10, 5),
			b:    f32.Pt(4, 5),
			expect: [][2]f32.Point{
				{f32.Pt(10, 5), f32.Pt(8, 5)},
				{f32.Pt(6, 5), f32.Pt(4, 5)},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.dash.Split(tc.a, tc.b)
			if diff := cmp.Diff(tc.expect, got, cmpopts.EquateApprox(0, 1e-4)); diff != "" {
				t.Errorf("unexpected pieces (-want +got):\n%s", diff)
			}
		})
	}
}
