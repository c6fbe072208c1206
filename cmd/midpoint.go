package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/halfway/internal/config"
	"github.com/sells-group/halfway/internal/geo"
	"github.com/sells-group/halfway/internal/midpoint"
)

var (
	midpointA       string
	midpointB       string
	midpointWeightA float64
	midpointWeightB float64
	midpointMap     bool
)

// midpointOutput is the midpoint summary plus an optional static map.
type midpointOutput struct {
	midpoint.Summary `yaml:",inline"`
	MapURL           string `json:"map_url,omitempty" yaml:"map_url,omitempty"`
}

var midpointCmd = &cobra.Command{
	Use:   "midpoint",
	Short: "Compute the meeting point between two locations",
	Example: `  halfway midpoint --a 37.7749,-122.4194 --b 37.8044,-122.2712
  halfway midpoint --a "Ferry Building, SF" --b current --weight-a 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, config.ModeMidpoint)
		if err != nil {
			return err
		}
		defer env.Close()

		a, err := resolveParty(ctx, env, midpointA)
		if err != nil {
			return err
		}
		b, err := resolveParty(ctx, env, midpointB)
		if err != nil {
			return err
		}

		out := midpointOutput{Summary: summarize(cmd, a, b)}
		if midpointMap {
			out.MapURL = env.Lookup.StaticMapURL(a.Coordinate, b.Coordinate, out.Midpoint.Coordinate, 0, 0)
		}

		if outputFormat == formatGeoJSON {
			return writeOutput(cmd.OutOrStdout(), formatJSON, geo.FeatureCollection(out.Midpoint, a, b, nil))
		}
		return writeOutput(cmd.OutOrStdout(), outputFormat, out)
	},
}

// summarize uses the weighted midpoint when either weight flag is set.
func summarize(cmd *cobra.Command, a, b geo.NamedLocation) midpoint.Summary {
	if cmd.Flags().Changed("weight-a") || cmd.Flags().Changed("weight-b") {
		return midpoint.CalculateWeighted(a, b, midpointWeightA, midpointWeightB)
	}
	return midpoint.Calculate(a, b)
}

func init() {
	midpointCmd.Flags().StringVar(&midpointA, "a", "", "first location: lat,lng, an address, or \"current\"")
	midpointCmd.Flags().StringVar(&midpointB, "b", "", "second location: lat,lng, an address, or \"current\"")
	midpointCmd.Flags().Float64Var(&midpointWeightA, "weight-a", 1, "weight of the first location")
	midpointCmd.Flags().Float64Var(&midpointWeightB, "weight-b", 1, "weight of the second location")
	midpointCmd.Flags().BoolVar(&midpointMap, "map", false, "include a static map URL")
	_ = midpointCmd.MarkFlagRequired("a")
	_ = midpointCmd.MarkFlagRequired("b")
	rootCmd.AddCommand(midpointCmd)
}
