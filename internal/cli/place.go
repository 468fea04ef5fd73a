package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tether/pkg/position"
	"github.com/matzehuels/tether/pkg/scenario"
)

// placeOpts holds the flags of the place command. Strategy flags only
// override the scenario when set explicitly.
type placeOpts struct {
	output   string
	jsonOut  bool
	noCache  bool
	refresh  bool
	margin   float64
	push     bool
	lock     bool
	flexible bool
	rtl      bool
}

func (c *CLI) placeCommand() *cobra.Command {
	opts := placeOpts{}

	cmd := &cobra.Command{
		Use:   "place <scenario.toml>",
		Short: "Replay a placement scenario and report where the overlay lands",
		Long: `Replay a placement scenario and report the chosen position, the placement
mode and the styles written to the pane and its host after every step.

Reports are cached by scenario content and engine version.`,
		Example: `  tether place examples/menu.toml
  tether place examples/menu.toml --push --margin 8
  tether place examples/menu.toml -o report.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			opts.apply(cmd, sc)
			return c.runPlace(cmd, sc, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "write the JSON report to a file")
	f.BoolVar(&opts.jsonOut, "json", false, "print the JSON report instead of a table")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the report cache")
	f.BoolVar(&opts.refresh, "refresh", false, "ignore cached reports")
	f.Float64Var(&opts.margin, "margin", 0, "viewport margin in px")
	f.BoolVar(&opts.push, "push", false, "push the overlay on screen when nothing fits")
	f.BoolVar(&opts.lock, "lock", false, "keep the first chosen position")
	f.BoolVar(&opts.flexible, "flexible", false, "shrink the overlay to fit")
	f.BoolVar(&opts.rtl, "rtl", false, "lay out right-to-left")

	return cmd
}

// apply copies explicitly set flags onto sc.
func (o placeOpts) apply(cmd *cobra.Command, sc *scenario.Scenario) {
	f := cmd.Flags()
	if f.Changed("margin") {
		sc.Strategy.ViewportMargin = o.margin
	}
	if f.Changed("push") {
		sc.Strategy.Push = o.push
	}
	if f.Changed("lock") {
		sc.Strategy.Locked = o.lock
	}
	if f.Changed("flexible") {
		sc.Strategy.FlexibleDimensions = o.flexible
	}
	if f.Changed("rtl") {
		sc.Direction = string(position.LTR)
		if o.rtl {
			sc.Direction = string(position.RTL)
		}
	}
}

func (c *CLI) runPlace(cmd *cobra.Command, sc *scenario.Scenario, opts placeOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	prog := newProgress(logger)
	res, err := runner.Run(ctx, sc, scenario.RunOptions{Refresh: opts.refresh})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Replayed %s", sc.Name))

	out := cmd.OutOrStdout()
	if opts.output != "" {
		data, err := json.MarshalIndent(res.Report, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.output, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		printSuccess(out, "Report written")
		printFile(out, opts.output)
		return nil
	}

	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Report)
	}

	printReport(out, res)
	return nil
}
