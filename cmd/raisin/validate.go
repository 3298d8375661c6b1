package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"raisingate/adapters/tabular"
	"raisingate/domain/dataset"
	"raisingate/internal/errors"
	"raisingate/internal/gate"
	"raisingate/internal/report"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		ranges  bool
		format  string
		strict  bool
		profile string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "validate [input]",
		Short: "Run the dataset quality gate",
		Long: `Validate a raisin CSV before it is used downstream.

Checks the file extension and column names first and stops if either fails,
then data types, missing values, duplicate measurements, optionally value
ranges, and finally reports highly correlated features and features that
correlate strongly with the target.

Thresholds come from GATE_* environment variables or a TOML profile
(GATE_PROFILE or --profile).

Example: raisin validate data/raw/raisin.csv --ranges --format markdown`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			if profile != "" {
				a.config.Gate.ProfilePath = profile
			}
			var rangesOverride *bool
			if cmd.Flags().Changed("ranges") {
				rangesOverride = &ranges
			}

			out := cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return errors.Wrapf(err, "failed to create %s", output)
				}
				defer file.Close()
				out = file
			}
			return runValidate(cmd, a, args[0], f, strict, rangesOverride, out)
		},
	}

	cmd.Flags().BoolVar(&ranges, "ranges", false, "Also check feature value ranges")
	cmd.Flags().StringVar(&format, "format", "text", "Report format: text, json, markdown or html")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any check fails")
	cmd.Flags().StringVar(&profile, "profile", "", "TOML gate profile overriding thresholds")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the report to a file instead of stdout")
	return cmd
}

func runValidate(cmd *cobra.Command, a *app, input string, format report.Format, strict bool, ranges *bool, out io.Writer) error {
	gateConfig, err := a.config.GateConfig()
	if err != nil {
		return err
	}
	if ranges != nil {
		gateConfig.CheckRanges = *ranges
	}
	g := gate.New(gateConfig).WithLogger(a.logger)

	ds := dataset.MustNew()
	if gate.ValidateFileFormat(input) {
		ds, err = tabular.NewDataReader(input, tabular.DefaultReaderConfig()).WithLogger(a.logger).Load()
		if err != nil {
			return errors.WithCode(errors.CodeInvalidInput, errors.Wrapf(err, "failed to read %s", input))
		}
	}

	r, err := g.Run(cmd.Context(), input, ds)
	if err != nil {
		return errors.Wrap(err, "validation could not complete")
	}
	if err := report.Write(out, r, format); err != nil {
		return err
	}

	if strict && !r.Passed() {
		return errors.ValidationError(fmt.Sprintf("%d check(s) failed", len(r.Failures())))
	}
	return nil
}
