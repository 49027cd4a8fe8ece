package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/maps-api-service/internal/domain"
)

func newGeocodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "geocode ADDRESS...",
		Short: "resolve an address to coordinates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.svc.Geocode(cmd.Context(), strings.Join(args, " "), a.provider)
			if err != nil {
				return err
			}
			return a.printJSON(res)
		},
	}
}

func newReverseCmd(a *app) *cobra.Command {
	var lat, lon float64
	cmd := &cobra.Command{
		Use:   "reverse --lat LAT --lon LON",
		Short: "resolve coordinates to an address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.svc.ReverseGeocode(cmd.Context(), domain.NewCoordinateInput(lat, lon), a.provider)
			if err != nil {
				return err
			}
			return a.printJSON(res)
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in decimal degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in decimal degrees")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

func newDistanceCmd(a *app) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "distance --from LAT,LON --to LAT,LON",
		Short: "estimate distance and travel time between two points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			origin, err := parsePoint(from)
			if err != nil {
				return err
			}
			destination, err := parsePoint(to)
			if err != nil {
				return err
			}
			res, err := a.svc.CalculateDistance(cmd.Context(), &origin, &destination, a.provider)
			if err != nil {
				return err
			}
			return a.printJSON(res)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "origin as lat,lon")
	cmd.Flags().StringVar(&to, "to", "", "destination as lat,lon")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
