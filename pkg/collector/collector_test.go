package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pavel-txx/hh-collector/pkg/hh"
	"github.com/pavel-txx/hh-collector/pkg/vacancy"
)

// fetchFunc adapts a function to the PageFetcher interface.
type fetchFunc func(ctx context.Context, page int) (*hh.SearchPage, error)

func (f fetchFunc) FetchPage(ctx context.Context, page int) (*hh.SearchPage, error) {
	return f(ctx, page)
}

func matchingItem(title string) string {
	return fmt.Sprintf(`{"name": %q, "area": {"id": "1041", "name": "Сыктывкар"}, "alternate_url": "https://hh.ru/vacancy/1"}`, title)
}

func otherCityItem(title string) string {
	return fmt.Sprintf(`{"name": %q, "area": {"id": "1", "name": "Москва"}}`, title)
}

func searchPage(totalPages int, items ...string) *hh.SearchPage {
	sp := &hh.SearchPage{
		Pages: totalPages,
		Found: len(items),
	}
	for _, item := range items {
		sp.Items = append(sp.Items, json.RawMessage(item))
	}
	return sp
}

func newTestCollector(t *testing.T, fetcher PageFetcher, delay time.Duration) (*Collector, *[]time.Duration) {
	t.Helper()

	extractor := vacancy.NewExtractor("сыктывкар", vacancy.Placeholders{
		Title:    "no title",
		Employer: "not specified",
		Salary:   "not specified",
		URL:      "no link",
	}, zerolog.Nop())

	col, err := New(Config{
		Fetcher:   fetcher,
		Extractor: extractor,
		PageDelay: delay,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	delays := &[]time.Duration{}
	col.SetSleep(func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	})

	return col, delays
}

func TestNew_Validation(t *testing.T) {
	extractor := vacancy.NewExtractor("x", vacancy.Placeholders{}, zerolog.Nop())
	okFetcher := fetchFunc(func(ctx context.Context, page int) (*hh.SearchPage, error) {
		return searchPage(0), nil
	})

	if _, err := New(Config{Extractor: extractor}); err == nil {
		t.Error("New() without fetcher should fail")
	}
	if _, err := New(Config{Fetcher: okFetcher}); err == nil {
		t.Error("New() without extractor should fail")
	}
	if _, err := New(Config{Fetcher: okFetcher, Extractor: extractor, PageDelay: -time.Second}); err == nil {
		t.Error("New() with negative delay should fail")
	}
}

func TestRun_SinglePageSingleMatch(t *testing.T) {
	fetcher := fetchFunc(func(ctx context.Context, page int) (*hh.SearchPage, error) {
		if page != 0 {
			t.Errorf("Unexpected fetch of page %d", page)
		}
		return searchPage(1, matchingItem("Go developer"), otherCityItem("Java developer")), nil
	})

	col, delays := newTestCollector(t, fetcher, 2*time.Second)
	records, stats := col.Run(context.Background())

	if len(records) != 1 {
		t.Fatalf("Run() collected %d records, want exactly 1", len(records))
	}
	if records[0].Title != "Go developer" {
		t.Errorf("Title = %q, want %q", records[0].Title, "Go developer")
	}
	if stats.PagesFetched != 1 || stats.PagesSkipped != 0 {
		t.Errorf("Stats pages = %d fetched / %d skipped, want 1/0", stats.PagesFetched, stats.PagesSkipped)
	}
	if stats.ItemsSeen != 2 || stats.Matched != 1 {
		t.Errorf("Stats items = %d seen / %d matched, want 2/1", stats.ItemsSeen, stats.Matched)
	}

	// One politeness pause after the single page
	if len(*delays) != 1 || (*delays)[0] != 2*time.Second {
		t.Errorf("Delays = %v, want one pause of 2s", *delays)
	}
}

func TestRun_TerminatesWhenEveryPageFails(t *testing.T) {
	calls := 0
	fetcher := fetchFunc(func(ctx context.Context, page int) (*hh.SearchPage, error) {
		calls++
		return nil, fmt.Errorf("page %d: %w after 3 attempts", page, hh.ErrRetriesExhausted)
	})

	col, delays := newTestCollector(t, fetcher, time.Second)
	records, stats := col.Run(context.Background())

	if len(records) != 0 {
		t.Errorf("Run() collected %d records, want 0", len(records))
	}
	// The bound never grows past its initial value of one, so exactly one
	// page is attempted
	if calls != 1 {
		t.Errorf("Fetch calls = %d, want 1", calls)
	}
	if stats.PagesSkipped != 1 || stats.PagesFetched != 0 {
		t.Errorf("Stats pages = %d fetched / %d skipped, want 0/1", stats.PagesFetched, stats.PagesSkipped)
	}

	// The politeness pause fires even after a failed page
	if len(*delays) != 1 {
		t.Errorf("Delays = %v, want one pause after the failed page", *delays)
	}
}

func TestRun_FailedPageIsSkippedOthersCollected(t *testing.T) {
	fetcher := fetchFunc(func(ctx context.Context, page int) (*hh.SearchPage, error) {
		switch page {
		case 0:
			return searchPage(2, matchingItem("Survivor")), nil
		case 1:
			return nil, fmt.Errorf("page 1: %w after 3 attempts", hh.ErrRetriesExhausted)
		default:
			return nil, fmt.Errorf("unexpected page %d", page)
		}
	})

	col, delays := newTestCollector(t, fetcher, time.Second)
	records, stats := col.Run(context.Background())

	if len(records) != 1 {
		t.Fatalf("Run() collected %d records, want exactly 1", len(records))
	}
	if records[0].Title != "Survivor" {
		t.Errorf("Title = %q, want %q", records[0].Title, "Survivor")
	}
	if stats.PagesFetched != 1 || stats.PagesSkipped != 1 {
		t.Errorf("Stats pages = %d fetched / %d skipped, want 1/1", stats.PagesFetched, stats.PagesSkipped)
	}
	if len(*delays) != 2 {
		t.Errorf("Delays fired %d times, want 2 (after both pages)", len(*delays))
	}
}

func TestRun_TotalPageBoundGrows(t *testing.T) {
	fetched := []int{}
	fetcher := fetchFunc(func(ctx context.Context, page int) (*hh.SearchPage, error) {
		fetched = append(fetched, page)
		return searchPage(3, matchingItem(fmt.Sprintf("Vacancy %d", page))), nil
	})

	col, _ := newTestCollector(t, fetcher, 0)
	records, stats := col.Run(context.Background())

	if len(fetched) != 3 {
		t.Fatalf("Fetched pages %v, want pages 0..2", fetched)
	}
	for i, page := range fetched {
		if page != i {
			t.Errorf("fetched[%d] = %d, want %d (strictly sequential)", i, page, i)
		}
	}
	if len(records) != 3 {
		t.Errorf("Run() collected %d records, want 3", len(records))
	}
	if stats.PagesFetched != 3 {
		t.Errorf("PagesFetched = %d, want 3", stats.PagesFetched)
	}
}

func TestRun_TotalPageBoundShrinksMidRun(t *testing.T) {
	calls := 0
	fetcher := fetchFunc(func(ctx context.Context, page int) (*hh.SearchPage, error) {
		calls++
		if page == 0 {
			return searchPage(5, matchingItem("First")), nil
		}
		// The result set shrank between requests
		return searchPage(2, matchingItem("Second")), nil
	})

	col, _ := newTestCollector(t, fetcher, 0)
	records, _ := col.Run(context.Background())

	if calls != 2 {
		t.Errorf("Fetch calls = %d, want 2 (bound re-read from every response)", calls)
	}
	if len(records) != 2 {
		t.Errorf("Run() collected %d records, want 2", len(records))
	}
}

func TestRun_ZeroReportedPagesEndsAfterFirst(t *testing.T) {
	calls := 0
	fetcher := fetchFunc(func(ctx context.Context, page int) (*hh.SearchPage, error) {
		calls++
		return searchPage(0), nil
	})

	col, _ := newTestCollector(t, fetcher, 0)
	records, stats := col.Run(context.Background())

	if calls != 1 {
		t.Errorf("Fetch calls = %d, want 1", calls)
	}
	if len(records) != 0 {
		t.Errorf("Run() collected %d records, want 0", len(records))
	}
	if stats.PagesFetched != 1 {
		t.Errorf("PagesFetched = %d, want 1", stats.PagesFetched)
	}
}

func TestRun_MalformedItemsDoNotAbortPage(t *testing.T) {
	fetcher := fetchFunc(func(ctx context.Context, page int) (*hh.SearchPage, error) {
		return searchPage(1,
			matchingItem("Before"),
			`{"name": "Broken", "area": 12}`,
			matchingItem("After"),
		), nil
	})

	col, _ := newTestCollector(t, fetcher, 0)
	records, stats := col.Run(context.Background())

	if len(records) != 2 {
		t.Fatalf("Run() collected %d records, want 2", len(records))
	}
	if records[0].Title != "Before" || records[1].Title != "After" {
		t.Errorf("Records = %q, %q; want Before, After in order", records[0].Title, records[1].Title)
	}
	if stats.ItemsSeen != 3 || stats.Matched != 2 {
		t.Errorf("Stats items = %d seen / %d matched, want 3/2", stats.ItemsSeen, stats.Matched)
	}
}

func TestRun_PageDoneCallback(t *testing.T) {
	type call struct{ done, total, collected int }
	var calls []call

	fetcher := fetchFunc(func(ctx context.Context, page int) (*hh.SearchPage, error) {
		if page == 0 {
			return searchPage(2, matchingItem("One")), nil
		}
		return nil, errors.New("boom")
	})

	extractor := vacancy.NewExtractor("сыктывкар", vacancy.Placeholders{}, zerolog.Nop())
	col, err := New(Config{
		Fetcher:   fetcher,
		Extractor: extractor,
		PageDelay: 0,
		PageDone: func(done, total, collected int) {
			calls = append(calls, call{done, total, collected})
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	col.SetSleep(func(ctx context.Context, d time.Duration) error { return nil })

	col.Run(context.Background())

	want := []call{{1, 2, 1}, {2, 2, 1}}
	if len(calls) != len(want) {
		t.Fatalf("PageDone fired %d times, want %d", len(calls), len(want))
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls[%d] = %+v, want %+v", i, calls[i], want[i])
		}
	}
}

func TestRun_CancellationReturnsPartialResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	fetcher := fetchFunc(func(fetchCtx context.Context, page int) (*hh.SearchPage, error) {
		if page == 0 {
			return searchPage(10, matchingItem("Kept")), nil
		}
		cancel()
		return nil, fmt.Errorf("%w: %v", hh.ErrContextCancelled, fetchCtx.Err())
	})

	col, _ := newTestCollector(t, fetcher, 0)
	records, stats := col.Run(ctx)

	if len(records) != 1 {
		t.Errorf("Run() collected %d records, want the 1 gathered before cancellation", len(records))
	}
	if stats.PagesSkipped != 0 {
		t.Errorf("PagesSkipped = %d, cancellation must not count as a skip", stats.PagesSkipped)
	}
}
