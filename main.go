package main

import (
	"context"
	"fmt"
	"os"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/x/explorer"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"git.sr.ht/~whereswaldon/scrubchart/backend"
	"git.sr.ht/~whereswaldon/scrubchart/chart"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string
	cmd := &cobra.Command{
		Use:   "scrubchart [file.csv|-]",
		Short: "Display a line or bar chart of x,y CSV data and scrub across it",
		Long: `scrubchart charts two-column CSV data. The first column is the x value
(numeric or text) and the second the y value. A header row is optional.
Files are followed while they grow; "-" reads standard input. Without a
file the built-in sample data is shown.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := backend.NewViper(configFile)
			if err != nil {
				return err
			}
			if err := bindFlags(v, cmd.Flags()); err != nil {
				return err
			}
			settings, err := backend.LoadSettings(v)
			if err != nil {
				return err
			}
			var input string
			if len(args) > 0 {
				input = args[0]
			}
			return run(settings, input)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "configuration file (yaml, toml or json)")
	flags.String("kind", chart.KindLine.String(), "chart kind: line or bar")
	flags.String("type", chart.Linear.String(), "line type: linear or curved")
	flags.String("unit", "", "unit shown in the header and readout")
	flags.Bool("keep-indicator", false, "keep the scrub indicator visible after release")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	return cmd
}

// bindFlags lets flags given on the command line override the config file.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, flag := range map[string]string{
		"kind":           "kind",
		"type":           "type",
		"unit":           "unit",
		"keep_indicator": "keep-indicator",
		"log_level":      "log-level",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("failed binding flag %s: %w", flag, err)
		}
	}
	return nil
}

func newLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "scrubchart",
		Level:  lvl,
	}), nil
}

// chartConfigs builds the configuration of every chart kind from settings.
func chartConfigs(settings backend.Settings) (map[chart.Kind]chart.Config, chart.Kind, error) {
	kind, ok := chart.ParseKind(settings.Kind)
	if !ok {
		return nil, 0, fmt.Errorf("unknown chart kind %q", settings.Kind)
	}
	configs := make(map[chart.Kind]chart.Config, 2)
	for _, k := range []chart.Kind{chart.KindLine, chart.KindBar} {
		s := settings
		s.Kind = k.String()
		cfg, err := s.ChartConfig()
		if err != nil {
			return nil, 0, fmt.Errorf("failed building %s chart config: %w", k, err)
		}
		configs[k] = cfg
	}
	return configs, kind, nil
}

func run(settings backend.Settings, input string) error {
	logger, err := newLogger(settings.LogLevel)
	if err != nil {
		return err
	}
	configs, kind, err := chartConfigs(settings)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	bundle, err := backend.NewBundle(ctx, logger)
	if err != nil {
		cancel()
		return err
	}

	go func() {
		defer cancel()
		w := app.NewWindow(
			app.Title("scrubchart"),
			app.Size(unit.Dp(800), unit.Dp(600)),
		)
		expl := explorer.NewExplorer(w)
		status := &renderStatus{logger: logger}
		ws := backend.NewWindowState(ctx, bundle, w.Invalidate, status)
		ui := NewUI(ws, expl, status, configs, kind)
		switch input {
		case "":
			ui.ShowSample()
		case "-":
			bundle.Datasource.LoadReader("stdin", os.Stdin)
		default:
			if err := bundle.Datasource.Load(input); err != nil {
				logger.Error("could not load data", "path", input, "err", err)
			}
		}
		if err := loop(w, expl, ui); err != nil {
			logger.Error("window closed with error", "err", err)
		}
		if err := bundle.Datasource.Close(); err != nil {
			logger.Warn("failed closing datasource", "err", err)
		}
		os.Exit(0)
	}()
	app.Main()
	return nil
}

func loop(w *app.Window, expl *explorer.Explorer, ui *UI) error {
	var ops op.Ops
	for {
		ev := w.NextEvent()
		expl.ListenEvents(ev)
		switch ev := ev.(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, ev)
			ui.Layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}
