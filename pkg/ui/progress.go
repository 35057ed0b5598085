package ui

import (
	"fmt"
	"time"
)

// StatusTracker keeps track of export progress
type StatusTracker struct {
	Pages     int
	Records   int
	StartTime time.Time
}

// NewStatusTracker creates a new status tracker
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{
		StartTime: time.Now(),
	}
}

// PageParsed counts one parsed page and prints the progress line
func (st *StatusTracker) PageParsed(records int) {
	st.Pages++
	st.Records += records
	if quietMode {
		return
	}
	fmt.Fprintf(output, "Parsed page %d\n", st.Pages)
}

// PrintPause announces the politeness delay before the next page
func (st *StatusTracker) PrintPause(delay time.Duration) {
	if quietMode || delay <= 0 {
		return
	}
	fmt.Fprintln(output, Dim(fmt.Sprintf("Waiting %s before the next page", delay)))
}

// PrintSummary prints the totals once the last page is done
func (st *StatusTracker) PrintSummary(artists, albums int) {
	if quietMode {
		return
	}
	fmt.Fprintf(output, "%s %d ratings by %d artists from %d pages in %s\n",
		Green("Exported"),
		albums,
		artists,
		st.Pages,
		st.GetElapsedTime().Round(time.Second))
}

// GetElapsedTime returns the elapsed time since tracking started
func (st *StatusTracker) GetElapsedTime() time.Duration {
	return time.Since(st.StartTime)
}

// GetPageRate returns the average number of pages per minute
func (st *StatusTracker) GetPageRate() float64 {
	elapsed := st.GetElapsedTime().Minutes()
	if elapsed == 0 {
		return 0
	}
	return float64(st.Pages) / elapsed
}
