package places

import "github.com/burhanuddin20/pinpoint/internal/models"

// Raw shapes of the Places API (New) responses, limited to the fields the
// service consumes.

type rawLocalizedText struct {
	Text string `json:"text"`
}

type rawLatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type rawOpeningHours struct {
	OpenNow             *bool    `json:"openNow"`
	WeekdayDescriptions []string `json:"weekdayDescriptions"`
}

type rawPhoto struct {
	Name string `json:"name"`
}

type rawPlace struct {
	ID                       string            `json:"id"`
	DisplayName              *rawLocalizedText `json:"displayName"`
	Location                 *rawLatLng        `json:"location"`
	Rating                   *float64          `json:"rating"`
	UserRatingCount          *int              `json:"userRatingCount"`
	FormattedAddress         string            `json:"formattedAddress"`
	CurrentOpeningHours      *rawOpeningHours  `json:"currentOpeningHours"`
	NationalPhoneNumber      string            `json:"nationalPhoneNumber"`
	InternationalPhoneNumber string            `json:"internationalPhoneNumber"`
	WebsiteURI               string            `json:"websiteUri"`
	EditorialSummary         *rawLocalizedText `json:"editorialSummary"`
	Photos                   []rawPhoto        `json:"photos"`
}

type searchResponse struct {
	Places []rawPlace `json:"places"`
}

// mapSummary is a pure, total mapping from the upstream shape to the
// internal POI. Absent optional fields stay absent, never a sentinel.
func mapSummary(p rawPlace) models.POI {
	poi := models.POI{
		ID:              p.ID,
		Rating:          p.Rating,
		UserRatingCount: p.UserRatingCount,
	}
	if p.DisplayName != nil {
		poi.Name = p.DisplayName.Text
	}
	if p.Location != nil {
		poi.Lat = p.Location.Latitude
		poi.Lon = p.Location.Longitude
	}
	if p.FormattedAddress != "" {
		addr := p.FormattedAddress
		poi.FormattedAddress = &addr
	}
	if p.CurrentOpeningHours != nil {
		poi.OpenNow = p.CurrentOpeningHours.OpenNow
	}
	return poi
}

func mapDetail(p rawPlace) models.POIDetail {
	var d models.POIDetail
	phone := p.NationalPhoneNumber
	if phone == "" {
		phone = p.InternationalPhoneNumber
	}
	if phone != "" {
		d.Phone = &phone
	}
	if p.WebsiteURI != "" {
		site := p.WebsiteURI
		d.Website = &site
	}
	if p.CurrentOpeningHours != nil {
		d.OpeningHours = &models.OpeningHours{
			OpenNow:             p.CurrentOpeningHours.OpenNow,
			WeekdayDescriptions: p.CurrentOpeningHours.WeekdayDescriptions,
		}
	}
	if p.EditorialSummary != nil && p.EditorialSummary.Text != "" {
		summary := p.EditorialSummary.Text
		d.EditorialSummary = &summary
	}
	for _, photo := range p.Photos {
		if photo.Name != "" {
			d.PhotoRefs = append(d.PhotoRefs, photo.Name)
		}
	}
	return d
}
