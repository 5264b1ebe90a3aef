// Package vacancy defines the collected job record and the extraction rules
// that turn raw search items into records.
package vacancy

// Vacancy is one collected job listing, flattened for the spreadsheet.
// City is stored lowercased; absent source fields carry the configured
// placeholder text.
type Vacancy struct {
	Title    string
	Employer string
	Salary   string
	City     string
	URL      string
}

// Row returns the cell values in spreadsheet column order: title, employer,
// salary, city, url.
func (v Vacancy) Row() []string {
	return []string{v.Title, v.Employer, v.Salary, v.City, v.URL}
}
