package google

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const (
	placeFields = "id,displayName,formattedAddress,shortFormattedAddress,location,rating," +
		"userRatingCount,priceLevel,types,photos,currentOpeningHours,iconMaskBaseUri"
	detailFields = placeFields + ",websiteUri,internationalPhoneNumber"

	// DefaultPhotoWidth is used when PhotoURL is called with a non-positive width.
	DefaultPhotoWidth = 400
)

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocalizedText is a display string with its language code.
type LocalizedText struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode,omitempty"`
}

// Photo references a place photo resource ("places/{id}/photos/{ref}").
type Photo struct {
	Name     string `json:"name"`
	WidthPx  int    `json:"widthPx,omitempty"`
	HeightPx int    `json:"heightPx,omitempty"`
}

// OpeningHours holds the current opening state of a place.
type OpeningHours struct {
	OpenNow             *bool    `json:"openNow,omitempty"`
	WeekdayDescriptions []string `json:"weekdayDescriptions,omitempty"`
}

// Place is a place resource as returned by the Places v1 API.
type Place struct {
	ID                       string        `json:"id"`
	DisplayName              LocalizedText `json:"displayName"`
	FormattedAddress         string        `json:"formattedAddress,omitempty"`
	ShortFormattedAddress    string        `json:"shortFormattedAddress,omitempty"`
	Location                 LatLng        `json:"location"`
	Rating                   *float64      `json:"rating,omitempty"`
	UserRatingCount          int           `json:"userRatingCount,omitempty"`
	PriceLevel               string        `json:"priceLevel,omitempty"`
	Types                    []string      `json:"types,omitempty"`
	Photos                   []Photo       `json:"photos,omitempty"`
	CurrentOpeningHours      *OpeningHours `json:"currentOpeningHours,omitempty"`
	IconMaskBaseURI          string        `json:"iconMaskBaseUri,omitempty"`
	WebsiteURI               string        `json:"websiteUri,omitempty"`
	InternationalPhoneNumber string        `json:"internationalPhoneNumber,omitempty"`
}

var priceLevels = map[string]int{
	"PRICE_LEVEL_FREE":           0,
	"PRICE_LEVEL_INEXPENSIVE":    1,
	"PRICE_LEVEL_MODERATE":       2,
	"PRICE_LEVEL_EXPENSIVE":      3,
	"PRICE_LEVEL_VERY_EXPENSIVE": 4,
}

// NumericPriceLevel maps the priceLevel enum onto 0-4. ok is false for an
// unspecified or unrecognized level.
func (p Place) NumericPriceLevel() (level int, ok bool) {
	level, ok = priceLevels[p.PriceLevel]
	return level, ok
}

// NearbyRequest describes a circular nearby search for a single place type.
type NearbyRequest struct {
	Center       LatLng
	RadiusMeters float64
	Type         string
	MaxResults   int
}

// NearbyResponse is the response from Places Nearby Search.
type NearbyResponse struct {
	Places []Place `json:"places"`
}

type circle struct {
	Center LatLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type locationRestriction struct {
	Circle circle `json:"circle"`
}

type nearbyRequestBody struct {
	IncludedTypes       []string            `json:"includedTypes,omitempty"`
	MaxResultCount      int                 `json:"maxResultCount,omitempty"`
	LocationRestriction locationRestriction `json:"locationRestriction"`
}

func (c *httpClient) SearchNearby(ctx context.Context, req NearbyRequest) (*NearbyResponse, error) {
	body := nearbyRequestBody{
		MaxResultCount: req.MaxResults,
		LocationRestriction: locationRestriction{
			Circle: circle{Center: req.Center, Radius: req.RadiusMeters},
		},
	}
	if req.Type != "" {
		body.IncludedTypes = []string{req.Type}
	}

	var result NearbyResponse
	if err := c.postPlaces(ctx, "/places:searchNearby", prefixFields("places.", placeFields), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) PlaceDetails(ctx context.Context, placeID string) (*Place, error) {
	var result Place
	if err := c.getPlaces(ctx, "/places/"+url.PathEscape(placeID), detailFields, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AutocompleteResponse is the response from Places Autocomplete.
type AutocompleteResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// Suggestion is one autocomplete entry. Only place predictions are requested.
type Suggestion struct {
	PlacePrediction *PlacePrediction `json:"placePrediction,omitempty"`
}

// PlacePrediction is a predicted place for the typed input.
type PlacePrediction struct {
	PlaceID          string            `json:"placeId"`
	Text             LocalizedText     `json:"text"`
	StructuredFormat *StructuredFormat `json:"structuredFormat,omitempty"`
	Types            []string          `json:"types,omitempty"`
}

// StructuredFormat splits a prediction into main and secondary text.
type StructuredFormat struct {
	MainText      LocalizedText `json:"mainText"`
	SecondaryText LocalizedText `json:"secondaryText"`
}

type autocompleteRequestBody struct {
	Input string `json:"input"`
}

func (c *httpClient) Autocomplete(ctx context.Context, input string) (*AutocompleteResponse, error) {
	var result AutocompleteResponse
	if err := c.postPlaces(ctx, "/places:autocomplete", "", autocompleteRequestBody{Input: input}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PhotoURL returns the media URL for a photo resource name. It is empty when
// either the name or the API key is missing.
func (c *httpClient) PhotoURL(photoName string, maxWidth int) string {
	if photoName == "" || c.apiKey == "" {
		return ""
	}
	if maxWidth <= 0 {
		maxWidth = DefaultPhotoWidth
	}
	q := url.Values{
		"maxWidthPx": {fmt.Sprint(maxWidth)},
		"key":        {c.apiKey},
	}
	return fmt.Sprintf("%s/%s/media?%s", c.placesURL, strings.TrimPrefix(photoName, "/"), q.Encode())
}

func prefixFields(prefix, fields string) string {
	parts := strings.Split(fields, ",")
	for i, f := range parts {
		parts[i] = prefix + f
	}
	return strings.Join(parts, ",")
}
