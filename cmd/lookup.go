package main

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/halfway/internal/config"
	"github.com/sells-group/halfway/internal/geo"
	"github.com/sells-group/halfway/internal/model"
	"github.com/sells-group/halfway/pkg/google"
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode ADDRESS",
	Short: "Resolve an address to coordinates",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := initEnv(ctx, config.ModeLookup)
		if err != nil {
			return err
		}
		defer env.Close()

		loc, err := env.Lookup.ResolveAddress(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), outputFormat, loc)
	},
}

var reverseCmd = &cobra.Command{
	Use:   "reverse LAT,LNG",
	Short: "Resolve coordinates to an address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := geo.ParseCoordinate(args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		env, err := initEnv(ctx, config.ModeLookup)
		if err != nil {
			return err
		}
		defer env.Close()

		loc, err := env.Lookup.ResolveCoordinate(ctx, c)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), outputFormat, loc)
	},
}

var placePhotoWidth int

// placeOutput is a place with its resolved photo URL.
type placeOutput struct {
	Place    *model.Place `json:"place" yaml:"place"`
	PhotoURL string       `json:"photo_url,omitempty" yaml:"photo_url,omitempty"`
}

var placeCmd = &cobra.Command{
	Use:   "place ID",
	Short: "Show details for a place",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := initEnv(ctx, config.ModeLookup)
		if err != nil {
			return err
		}
		defer env.Close()

		p, err := env.Lookup.PlaceDetails(ctx, args[0])
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), outputFormat, placeOutput{
			Place:    p,
			PhotoURL: env.Lookup.PhotoURL(p.PhotoReference, placePhotoWidth),
		})
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest TEXT",
	Short: "Autocomplete a partial place name or address",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := initEnv(ctx, config.ModeLookup)
		if err != nil {
			return err
		}
		defer env.Close()

		out, err := env.Lookup.Suggestions(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), outputFormat, out)
	},
}

var (
	directionsFrom string
	directionsTo   string
	directionsMode string
)

var directionsCmd = &cobra.Command{
	Use:   "directions",
	Short: "Get a route between two locations",
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := strings.ToLower(directionsMode)
		if !google.ValidMode(mode) {
			return eris.Errorf("unsupported travel mode %q", directionsMode)
		}

		ctx := cmd.Context()
		env, err := initEnv(ctx, config.ModeLookup)
		if err != nil {
			return err
		}
		defer env.Close()

		from, err := resolveParty(ctx, env, directionsFrom)
		if err != nil {
			return err
		}
		to, err := resolveParty(ctx, env, directionsTo)
		if err != nil {
			return err
		}

		leg, err := env.Lookup.Directions(ctx, from.Coordinate, to.Coordinate, mode)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), outputFormat, leg)
	},
}

func init() {
	placeCmd.Flags().IntVar(&placePhotoWidth, "photo-width", google.DefaultPhotoWidth, "maximum photo width in pixels")

	directionsCmd.Flags().StringVar(&directionsFrom, "from", "", "origin: lat,lng, an address, or \"current\"")
	directionsCmd.Flags().StringVar(&directionsTo, "to", "", "destination: lat,lng, an address, or \"current\"")
	directionsCmd.Flags().StringVar(&directionsMode, "mode", google.ModeDriving, "driving, walking, bicycling or transit")
	_ = directionsCmd.MarkFlagRequired("from")
	_ = directionsCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(geocodeCmd, reverseCmd, placeCmd, suggestCmd, directionsCmd)
}
