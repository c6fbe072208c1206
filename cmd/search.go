package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/halfway/internal/config"
	"github.com/sells-group/halfway/internal/geo"
	"github.com/sells-group/halfway/internal/midpoint"
	"github.com/sells-group/halfway/internal/model"
	"github.com/sells-group/halfway/internal/ranking"
	"github.com/sells-group/halfway/internal/search"
)

var (
	searchA          string
	searchB          string
	searchMidpoint   string
	searchCategories []string
	searchSort       string
)

// searchOutput is the ranked outcome of a search. Message is set when
// nothing was found.
type searchOutput struct {
	Summary      midpoint.Summary `json:"summary" yaml:"summary"`
	Places       []model.Place    `json:"places" yaml:"places"`
	RadiusMeters float64          `json:"radius_m" yaml:"radius_m"`
	Escalations  []string         `json:"escalations,omitempty" yaml:"escalations,omitempty"`
	Message      string           `json:"message,omitempty" yaml:"message,omitempty"`
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for venues near the midpoint of two locations",
	Example: `  halfway search --a 37.7749,-122.4194 --b 37.8044,-122.2712 --category cafe --sort rating
  halfway search --a current --b "Oakland, CA" -o geojson`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sortOpt, err := ranking.ParseSortOption(searchSort)
		if err != nil {
			return err
		}

		env, err := initEnv(ctx, config.ModeSearch)
		if err != nil {
			return err
		}
		defer env.Close()

		a, err := resolveParty(ctx, env, searchA)
		if err != nil {
			return err
		}
		b, err := resolveParty(ctx, env, searchB)
		if err != nil {
			return err
		}

		sum := midpoint.Calculate(a, b)
		if searchMidpoint != "" {
			c, err := geo.ParseCoordinate(searchMidpoint)
			if err != nil {
				return err
			}
			sum = midpoint.Reassess(a, b, geo.NamedLocation{Coordinate: c, Name: midpoint.NameGeographic})
		}

		selected := ranking.NewCategorySet(searchCategories...)
		res, err := env.Orchestrator.Search(ctx, search.Request{
			Midpoint: sum.Midpoint.Coordinate,
			A:        a.Coordinate,
			B:        b.Coordinate,
			Selected: selected,
		})

		out := searchOutput{Summary: sum, Places: []model.Place{}}
		var noPlaces *search.NoPlacesError
		switch {
		case errors.As(err, &noPlaces):
			out.Message = noPlaces.Error()
			zap.L().Info("search: no places found", zap.Float64("radius_m", noPlaces.RadiusMeters))
		case err != nil:
			return err
		}
		if res != nil {
			out.Places = ranking.ApplyFilterAndSort(res.Places, selected, sortOpt)
			out.RadiusMeters = res.RadiusMeters
			out.Escalations = res.Escalations
		}

		if outputFormat == formatGeoJSON {
			fc := geo.FeatureCollection(sum.Midpoint, sum.LocationA, sum.LocationB, model.Features(out.Places))
			return writeOutput(cmd.OutOrStdout(), formatJSON, fc)
		}
		return writeOutput(cmd.OutOrStdout(), outputFormat, out)
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchA, "a", "", "first location: lat,lng, an address, or \"current\"")
	searchCmd.Flags().StringVar(&searchB, "b", "", "second location: lat,lng, an address, or \"current\"")
	searchCmd.Flags().StringVar(&searchMidpoint, "midpoint", "", "search around this lat,lng instead of the computed midpoint")
	searchCmd.Flags().StringSliceVar(&searchCategories, "category", nil, "place type to include (repeatable); defaults to cafe, restaurant, bar")
	searchCmd.Flags().StringVar(&searchSort, "sort", string(ranking.SortDistance), "distance, rating, priceAsc or priceDesc")
	_ = searchCmd.MarkFlagRequired("a")
	_ = searchCmd.MarkFlagRequired("b")
	rootCmd.AddCommand(searchCmd)
}
