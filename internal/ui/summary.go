package ui

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
)

// Summary holds the figures shown after a collection run.
type Summary struct {
	Records      int
	PagesFetched int
	PagesSkipped int
	ItemsSeen    int
	Found        int
	Duration     time.Duration
	OutputPath   string
}

// PrintSummary renders the end-of-run figures as aligned rows.
func PrintSummary(s Summary, quiet bool) {
	if quiet {
		return
	}

	records := pterm.Green(humanize.Comma(int64(s.Records)))
	if s.Records == 0 {
		records = pterm.Yellow("0 (nothing to save)")
	}

	skipped := fmt.Sprintf("%d", s.PagesSkipped)
	if s.PagesSkipped > 0 {
		skipped = pterm.Red(skipped)
	}

	fmt.Println()
	fmt.Printf("%-16s %s\n", "Vacancies:", records)
	fmt.Printf("%-16s %s\n", "Items scanned:", humanize.Comma(int64(s.ItemsSeen)))
	fmt.Printf("%-16s %s\n", "Reported total:", humanize.Comma(int64(s.Found)))
	fmt.Printf("%-16s %d\n", "Pages fetched:", s.PagesFetched)
	fmt.Printf("%-16s %s\n", "Pages skipped:", skipped)
	fmt.Printf("%-16s %s\n", "Duration:", s.Duration.Round(time.Millisecond))
	if s.OutputPath != "" {
		fmt.Printf("%-16s %s\n", "Saved to:", s.OutputPath)
	}
	fmt.Println()
}
