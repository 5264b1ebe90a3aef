package hh

import "encoding/json"

// SearchPage is one page of the vacancy search response. Items stay raw at
// this level so a single malformed item cannot fail the whole page; decoding
// happens per item in the extractor.
type SearchPage struct {
	Items   []json.RawMessage `json:"items"`
	Found   int               `json:"found"`
	Pages   int               `json:"pages"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
}

// Item is a single vacancy as returned by the search endpoint. All nested
// structures are optional; absent and null both decode to nil.
type Item struct {
	Name         string    `json:"name"`
	Area         *Area     `json:"area"`
	Employer     *Employer `json:"employer"`
	Salary       *Salary   `json:"salary"`
	AlternateURL string    `json:"alternate_url"`
}

// Area is the region block of a vacancy.
type Area struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Employer is the employer block of a vacancy.
type Employer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Salary is the salary block of a vacancy. Either bound may be absent;
// currency may be empty.
type Salary struct {
	From     *int   `json:"from"`
	To       *int   `json:"to"`
	Currency string `json:"currency"`
	Gross    bool   `json:"gross"`
}
