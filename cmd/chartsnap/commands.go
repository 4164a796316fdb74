package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"git.sr.ht/~whereswaldon/scrubchart/chart"
	"git.sr.ht/~whereswaldon/scrubchart/scale"
	"git.sr.ht/~whereswaldon/scrubchart/svgexport"
)

func newSVGCmd(e *env) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "svg [file.csv|-]",
		Short: "Render a chart to SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := e.series(args)
			if err != nil {
				return err
			}
			r, err := e.layout(cmd.Context(), src)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				return svgexport.Write(e.stdout, r, e.cfg.Style)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed creating output: %w", err)
			}
			if err := svgexport.Write(f, r, e.cfg.Style); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed closing output: %w", err)
			}
			e.logger.Info("wrote chart", "path", output, "items", len(r.Points))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file")
	return cmd
}

func newTicksCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "ticks [value...]",
		Short: "Print the axis ticks chosen for a set of values",
		Long: `ticks prints the tick interval and tick values the layout engine chooses
for the given values. Without arguments the values are read from the data
selected by --sample.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var values []float64
			if len(args) > 0 {
				for _, arg := range args {
					v, err := strconv.ParseFloat(arg, 64)
					if err != nil {
						return fmt.Errorf("invalid value %q: %w", arg, err)
					}
					values = append(values, v)
				}
			} else {
				src, err := e.series(nil)
				if err != nil {
					return err
				}
				for _, p := range src.Points {
					values = append(values, p.Y)
				}
			}
			writeTicks(e.stdout, values)
			return nil
		},
	}
}

func writeTicks(w io.Writer, values []float64) {
	fmt.Fprintf(w, "interval: %s\n", formatFloat(scale.Interval(values)))
	printTable(w, []string{"#", "Tick"}, func(add func(...string)) {
		for i, t := range scale.Ticks(values) {
			add(strconv.Itoa(i), formatFloat(t))
		}
	})
}

func newLayoutCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "layout [file.csv|-]",
		Short: "Print the computed chart geometry",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := e.series(args)
			if err != nil {
				return err
			}
			r, err := e.layout(cmd.Context(), src)
			if err != nil {
				return err
			}
			writeLayout(e.stdout, r)
			return nil
		},
	}
}

func writeLayout(w io.Writer, r *chart.Result) {
	printTable(w, []string{"Property", "Value"}, func(add func(...string)) {
		add("kind", r.Kind.String())
		add("viewport", fmt.Sprintf("%gx%g", r.Viewport.X, r.Viewport.Y))
		add("plot", fmt.Sprintf("(%g,%g)-(%g,%g)", r.Plot.Min.X, r.Plot.Min.Y, r.Plot.Max.X, r.Plot.Max.Y))
		add("graph", fmt.Sprintf("%gx%g", r.GraphWidth, r.GraphHeight))
		add("range", fmt.Sprintf("%s..%s", formatFloat(r.RangeMin), formatFloat(r.RangeMax)))
		add("step", formatFloat(r.Step))
		add("row spacing", fmt.Sprintf("%g", r.RowSpacing))
		add("column spacing", fmt.Sprintf("%g", r.ColumnSpacing))
		add("ticks", strconv.Itoa(len(r.Ticks)))
	})
	printTable(w, []string{"#", "X", "Y", "Target", "Marker", "Readout"}, func(add func(...string)) {
		for _, t := range r.Targets {
			p := r.Points[t.Index]
			add(
				strconv.Itoa(t.Index),
				p.X.String(),
				formatFloat(p.Y),
				fmt.Sprintf("%.2f", t.X),
				fmt.Sprintf("(%.2f,%.2f)", t.Marker.X, t.Marker.Y),
				r.Readout(t.Index),
			)
		}
	})
}

// printTable renders a table with headers. add is called with the columns of
// each row.
func printTable(w io.Writer, headers []string, fill func(add func(...string))) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(headers)
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)
	fill(func(cols ...string) {
		tw.Append(cols)
	})
	tw.Render()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
