package ranking

import (
	"cmp"
	"slices"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/halfway/internal/model"
)

// SortOption selects the ordering applied by ApplyFilterAndSort.
type SortOption string

// Supported orderings.
const (
	SortDistance   SortOption = "distance"
	SortRatingDesc SortOption = "rating"
	SortPriceAsc   SortOption = "priceAsc"
	SortPriceDesc  SortOption = "priceDesc"
)

// ErrUnknownSort is returned by ParseSortOption for unrecognized names.
var ErrUnknownSort = eris.New("ranking: unknown sort option")

// Sort keys substituted for missing values.
const (
	missingRating       = -1.0
	missingPriceAscKey  = 5
	missingPriceDescKey = -1
)

// ParseSortOption accepts the canonical names case-insensitively, plus the
// snake_case spellings price_asc and price_desc.
func ParseSortOption(s string) (SortOption, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "distance":
		return SortDistance, nil
	case "rating", "rating_desc", "ratingdesc":
		return SortRatingDesc, nil
	case "priceasc", "price_asc":
		return SortPriceAsc, nil
	case "pricedesc", "price_desc":
		return SortPriceDesc, nil
	default:
		return "", eris.Wrapf(ErrUnknownSort, "%q", s)
	}
}

// ApplyFilterAndSort returns a new slice of the places whose types intersect
// categories, ordered by opt. An empty category set disables filtering. The
// sort is stable so ties keep their input order. The input is not modified.
func ApplyFilterAndSort(places []model.Place, categories CategorySet, opt SortOption) []model.Place {
	out := make([]model.Place, 0, len(places))
	for _, p := range places {
		if categories.Len() > 0 && !p.HasAnyType(categories.Has) {
			continue
		}
		out = append(out, p)
	}

	switch opt {
	case SortDistance:
		slices.SortStableFunc(out, func(a, b model.Place) int {
			return cmp.Compare(a.DistanceFromMidpoint, b.DistanceFromMidpoint)
		})
	case SortRatingDesc:
		slices.SortStableFunc(out, func(a, b model.Place) int {
			return cmp.Compare(ratingKey(b), ratingKey(a))
		})
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b model.Place) int {
			return cmp.Compare(priceKey(a, missingPriceAscKey), priceKey(b, missingPriceAscKey))
		})
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b model.Place) int {
			return cmp.Compare(priceKey(b, missingPriceDescKey), priceKey(a, missingPriceDescKey))
		})
	}

	return out
}

func ratingKey(p model.Place) float64 {
	if p.Rating == nil {
		return missingRating
	}
	return *p.Rating
}

func priceKey(p model.Place, missing int) int {
	if p.PriceLevel == nil {
		return missing
	}
	return *p.PriceLevel
}
