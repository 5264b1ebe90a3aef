package vacancy

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pavel-txx/hh-collector/pkg/hh"
)

// Placeholders supplies the output values for absent item fields.
type Placeholders struct {
	Title    string
	Employer string
	Salary   string
	URL      string
}

// Extractor turns raw search items into records. Items outside the target
// city and items that fail to decode are dropped; extraction itself never
// fails the caller.
type Extractor struct {
	city         string
	placeholders Placeholders
	logger       zerolog.Logger
}

// NewExtractor creates an extractor that keeps items whose area name
// contains city, compared case-insensitively. An empty city keeps every
// item.
func NewExtractor(city string, placeholders Placeholders, logger zerolog.Logger) *Extractor {
	return &Extractor{
		city:         strings.ToLower(city),
		placeholders: placeholders,
		logger:       logger,
	}
}

// Extract decodes one raw item into a record. The second return is false
// when the item is malformed or outside the target city.
func (e *Extractor) Extract(raw json.RawMessage) (Vacancy, bool) {
	var item hh.Item
	if err := json.Unmarshal(raw, &item); err != nil {
		e.logger.Warn().Err(err).Msg("Skipping malformed item")
		return Vacancy{}, false
	}

	city := ""
	if item.Area != nil {
		city = strings.ToLower(item.Area.Name)
	}
	if !strings.Contains(city, e.city) {
		e.logger.Debug().
			Str("city", city).
			Str("title", item.Name).
			Msg("Item outside target city")
		return Vacancy{}, false
	}

	v := Vacancy{
		Title:    item.Name,
		Employer: e.placeholders.Employer,
		Salary:   FormatSalary(item.Salary, e.placeholders.Salary),
		City:     city,
		URL:      item.AlternateURL,
	}
	if v.Title == "" {
		v.Title = e.placeholders.Title
	}
	if item.Employer != nil && item.Employer.Name != "" {
		v.Employer = item.Employer.Name
	}
	if v.URL == "" {
		v.URL = e.placeholders.URL
	}

	return v, true
}
