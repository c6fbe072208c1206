package search

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/halfway/internal/geo"
	"github.com/sells-group/halfway/internal/model"
	"github.com/sells-group/halfway/pkg/google"
)

// GoogleSearcher runs nearby searches against the Places API.
type GoogleSearcher struct {
	client     google.Client
	maxResults int
}

// NewGoogleSearcher wraps client. maxResults caps each category request
// (Google allows 1-20; zero leaves the API default).
func NewGoogleSearcher(client google.Client, maxResults int) *GoogleSearcher {
	return &GoogleSearcher{client: client, maxResults: maxResults}
}

// SearchNearby implements Searcher.
func (s *GoogleSearcher) SearchNearby(ctx context.Context, center geo.Coordinate, radiusMeters float64, category string) ([]model.Place, error) {
	resp, err := s.client.SearchNearby(ctx, google.NearbyRequest{
		Center:       google.LatLng{Latitude: center.Latitude, Longitude: center.Longitude},
		RadiusMeters: radiusMeters,
		Type:         category,
		MaxResults:   s.maxResults,
	})
	if err != nil {
		return nil, eris.Wrapf(err, "search: nearby %s", category)
	}

	out := make([]model.Place, 0, len(resp.Places))
	for _, p := range resp.Places {
		out = append(out, FromGoogle(p))
	}
	return out, nil
}

// FromGoogle converts a Places API resource into a model.Place. The distance
// field is left zero.
func FromGoogle(p google.Place) model.Place {
	out := model.Place{
		PlaceID:          p.ID,
		Name:             p.DisplayName.Text,
		Location:         geo.Coordinate{Latitude: p.Location.Latitude, Longitude: p.Location.Longitude},
		Address:          p.FormattedAddress,
		Vicinity:         p.ShortFormattedAddress,
		Rating:           p.Rating,
		UserRatingsTotal: p.UserRatingCount,
		Types:            p.Types,
		Icon:             p.IconMaskBaseURI,
		Website:          p.WebsiteURI,
		Phone:            p.InternationalPhoneNumber,
	}
	if out.Name == "" {
		out.Name = "Unknown Place"
	}
	if out.Address == "" {
		out.Address = p.ShortFormattedAddress
	}
	if out.Types == nil {
		out.Types = []string{}
	}
	if level, ok := p.NumericPriceLevel(); ok {
		out.PriceLevel = model.Int(level)
	}
	if len(p.Photos) > 0 {
		out.PhotoReference = p.Photos[0].Name
	}
	if h := p.CurrentOpeningHours; h != nil {
		out.OpenNow = h.OpenNow
		out.WeekdayText = h.WeekdayDescriptions
	}
	return out
}
