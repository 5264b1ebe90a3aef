// Package testutil provides testing utilities for the hh.ru collector.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MockResponse defines one canned response from the mock search endpoint.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockHH is a configurable mock of the hh.ru vacancy search API. Responses
// are queued per page number: each request for a page consumes the next
// queued response, and the last one repeats once the queue is drained. That
// makes retry scenarios like "two 429s, then success" one-liners to set up.
type MockHH struct {
	server *httptest.Server

	mu     sync.RWMutex
	queues map[int][]MockResponse
	served map[int]int

	// Tracking
	RequestCount      int
	LastQuery         url.Values
	LastRequestHeader http.Header
}

// NewMockHH creates a new mock search server.
func NewMockHH() *MockHH {
	mock := &MockHH{
		queues: make(map[int][]MockResponse),
		served: make(map[int]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/vacancies" {
			http.NotFound(w, r)
			return
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))

		mock.mu.Lock()
		mock.RequestCount++
		mock.LastQuery = r.URL.Query()
		mock.LastRequestHeader = r.Header.Clone()

		queue := mock.queues[page]
		idx := mock.served[page]
		mock.served[page]++
		mock.mu.Unlock()

		if len(queue) == 0 {
			mock.defaultHandler(w, page)
			return
		}
		if idx >= len(queue) {
			idx = len(queue) - 1
		}
		writeResponse(w, queue[idx])
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockHH) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockHH) Close() {
	m.server.Close()
}

// Reset clears all queues and tracking counters.
func (m *MockHH) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queues = make(map[int][]MockResponse)
	m.served = make(map[int]int)
	m.RequestCount = 0
	m.LastQuery = nil
	m.LastRequestHeader = nil
}

// QueueResponses appends canned responses to a page's queue.
func (m *MockHH) QueueResponses(page int, responses ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queues[page] = append(m.queues[page], responses...)
}

// SetResponse replaces a page's queue with a single response.
func (m *MockHH) SetResponse(page int, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queues[page] = []MockResponse{resp}
	m.served[page] = 0
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockHH) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// PageRequests returns how many requests hit the given page.
func (m *MockHH) PageRequests(page int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.served[page]
}

// defaultHandler answers an empty final page.
func (m *MockHH) defaultHandler(w http.ResponseWriter, page int) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"items": [], "found": 0, "pages": 0, "page": %d, "per_page": 100}`, page)
}

func writeResponse(w http.ResponseWriter, resp MockResponse) {
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// VacancyItem builds one search item located in the given city.
func VacancyItem(name, city string) string {
	return fmt.Sprintf(`{
		"name": %q,
		"area": {"id": "1041", "name": %q},
		"employer": {"id": "77", "name": "Test Employer"},
		"salary": {"from": 50000, "to": null, "currency": "RUR", "gross": false},
		"alternate_url": "https://hh.ru/vacancy/100"
	}`, name, city)
}

// SearchPageBody builds a search response body with the given total-page
// bound and items.
func SearchPageBody(pages int, items ...string) string {
	return fmt.Sprintf(`{"items": [%s], "found": %d, "pages": %d, "page": 0, "per_page": 100}`,
		strings.Join(items, ", "), len(items), pages)
}

// NewSearchPageResponse creates a 200 response carrying a search page.
func NewSearchPageResponse(pages int, items ...string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       SearchPageBody(pages, items...),
		Headers: map[string]string{
			"Content-Type": "application/json; charset=UTF-8",
		},
	}
}

// NewRateLimitResponse creates a 429 response with a Retry-After header.
func NewRateLimitResponse(retryAfterSeconds int) MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"errors": [{"type": "rate_limit"}]}`,
		Headers: map[string]string{
			"Retry-After":  strconv.Itoa(retryAfterSeconds),
			"Content-Type": "application/json; charset=UTF-8",
		},
	}
}

// NewServerErrorResponse creates a 500 response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"errors": [{"type": "internal"}]}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=UTF-8",
		},
	}
}

// NewMalformedResponse creates a 200 response with a truncated body.
func NewMalformedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"items": [{"name": "`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=UTF-8",
		},
	}
}
