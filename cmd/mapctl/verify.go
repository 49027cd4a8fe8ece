package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/maps-api-service/internal/fixture"
)

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify FIXTURE",
		Short: "recompute a recorded fixture and report any drift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := fixture.Load(args[0])
			if err != nil {
				return err
			}

			var bar *progressbar.ProgressBar
			if isatty.IsTerminal(os.Stderr.Fd()) {
				bar = progressbar.NewOptions(f.Len(),
					progressbar.OptionSetDescription("Verifying "+args[0]),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
			}
			progress := func() {
				if bar != nil {
					_ = bar.Add(1)
				}
			}

			mismatches := fixture.Verify(cmd.Context(), a.svc, f, progress)
			if bar != nil {
				_ = bar.Finish()
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cases: %d geocode, %d reverse_geocode, %d distance\n",
				len(f.Geocode), len(f.ReverseGeocode), len(f.Distance))
			if len(mismatches) == 0 {
				fmt.Fprintln(out, "PASS")
				return nil
			}
			for _, m := range mismatches {
				fmt.Fprintf(out, "\n--- %s\n", m)
			}
			fmt.Fprintf(out, "\nFAIL (%d mismatches)\n", len(mismatches))
			return fmt.Errorf("%d of %d cases drifted", len(mismatches), f.Len())
		},
	}
}
