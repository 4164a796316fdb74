// Command chartsnap lays out charts without a window. It renders CSV data to
// SVG and prints the computed scale and geometry.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"gioui.org/f32"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"git.sr.ht/~whereswaldon/scrubchart/backend"
	"git.sr.ht/~whereswaldon/scrubchart/chart"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// env is shared by every subcommand once the persistent flags are parsed.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	logger *log.Logger
	cfg    chart.Config
	width  float32
	height float32
	sample bool
}

func newRootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	e := &env{stdin: stdin, stdout: stdout}
	var configFile string
	root := &cobra.Command{
		Use:   "chartsnap",
		Short: "Lay out charts of x,y CSV data without a window",
		Long: `chartsnap runs the chart layout engine on two-column CSV data and
either renders the result to SVG or prints the computed geometry.

  chartsnap svg data.csv -o chart.svg
  chartsnap ticks 3 17 42
  chartsnap layout --kind bar --sample`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v, err := backend.NewViper(configFile)
			if err != nil {
				return err
			}
			flags := cmd.Root().PersistentFlags()
			for key, flag := range map[string]string{
				"kind":      "kind",
				"type":      "type",
				"unit":      "unit",
				"log_level": "log-level",
			} {
				if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
					return fmt.Errorf("failed binding flag %s: %w", flag, err)
				}
			}
			return e.configure(v)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "configuration file (yaml, toml or json)")
	flags.String("kind", chart.KindLine.String(), "chart kind: line or bar")
	flags.String("type", chart.Linear.String(), "line type: linear or curved")
	flags.String("unit", "", "unit shown in the header and readout")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.Float32Var(&e.width, "width", 400, "viewport width")
	flags.Float32Var(&e.height, "height", 300, "viewport height")
	flags.BoolVar(&e.sample, "sample", false, "use the built-in sample data instead of a file")

	root.AddCommand(
		newSVGCmd(e),
		newTicksCmd(e),
		newLayoutCmd(e),
	)
	return root
}

func (e *env) configure(v *viper.Viper) error {
	settings, err := backend.LoadSettings(v)
	if err != nil {
		return err
	}
	lvl, err := log.ParseLevel(settings.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", settings.LogLevel, err)
	}
	e.logger = log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "chartsnap",
		Level:  lvl,
	})
	e.cfg, err = settings.ChartConfig()
	if err != nil {
		return err
	}
	if e.width <= 0 || e.height <= 0 {
		return fmt.Errorf("invalid viewport %gx%g", e.width, e.height)
	}
	return nil
}

// series loads the data named by args: a CSV file, "-" for standard input,
// or the sample data.
func (e *env) series(args []string) (*chart.Series, error) {
	if e.sample || len(args) == 0 {
		if !e.sample {
			e.logger.Info("no input given, using sample data")
		}
		return backend.SampleSeries(e.cfg.Kind), nil
	}
	name := args[0]
	var r io.Reader = e.stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("failed opening data: %w", err)
		}
		defer f.Close()
		r = f
	}
	s, err := backend.ParseCSV(r)
	if err != nil {
		return nil, fmt.Errorf("failed reading %s: %w", name, err)
	}
	e.logger.Debug("loaded data", "source", name, "items", s.ItemCount())
	return s, nil
}

func (e *env) layout(ctx context.Context, src chart.DataSource) (*chart.Result, error) {
	r, err := chart.Layout(ctx, src, e.cfg, f32.Pt(e.width, e.height))
	if err != nil {
		return nil, fmt.Errorf("failed laying out chart: %w", err)
	}
	e.logger.Debug("laid out chart", "kind", r.Kind, "ticks", len(r.Ticks), "step", r.Step)
	return r, nil
}
