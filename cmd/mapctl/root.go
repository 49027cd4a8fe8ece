package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/maps-api-service/internal/domain"
	"github.com/couchcryptid/maps-api-service/internal/mapservice"
)

// app carries state shared by every subcommand.
type app struct {
	provider string
	verbose  bool
	svc      *mapservice.Service
	out      io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{out: os.Stdout}

	root := &cobra.Command{
		Use:     "mapctl",
		Short:   "geocode, reverse geocode, and measure distances offline",
		Version: version,
		Long: `
mapctl runs lookups through the same providers the maps API serves, using the
deterministic engine. Output is JSON, indented when stdout is a terminal.
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelWarn
			if a.verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			svc, err := mapservice.NewStandalone(logger)
			if err != nil {
				return err
			}
			a.svc = svc
			a.out = cmd.OutOrStdout()
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.provider, "provider", "p", "", "provider to use (mock, google, tomtom)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log provider calls to stderr")

	root.AddCommand(
		newGeocodeCmd(a),
		newReverseCmd(a),
		newDistanceCmd(a),
		newVerifyCmd(a),
	)
	return root
}

// printJSON writes v as JSON, indented for terminals and compact for pipes.
func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	if f, ok := a.out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// parsePoint reads "lat,lon".
func parsePoint(s string) (domain.CoordinateInput, error) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return domain.CoordinateInput{}, fmt.Errorf("point %q: want lat,lon", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return domain.CoordinateInput{}, fmt.Errorf("point %q: latitude: %w", s, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return domain.CoordinateInput{}, fmt.Errorf("point %q: longitude: %w", s, err)
	}
	return domain.NewCoordinateInput(lat, lon), nil
}
