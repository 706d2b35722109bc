package domain

// Reporter receives progress notifications during an analysis run.
// The CLI backs it with a terminal progress bar, the dashboard server with
// WebSocket broadcasts. Implementations must tolerate being called from the
// goroutine that runs the analysis.
type Reporter interface {
	// Stage announces that a new phase of the run started (e.g. "commits").
	Stage(name string)

	// FileProcessed reports completion of one file, index counting from 1.
	FileProcessed(path string, index, total int)

	// Warnf reports a non-fatal problem (a skipped file, a crawl error).
	Warnf(format string, args ...any)
}

// NopReporter discards all notifications.
type NopReporter struct{}

func (NopReporter) Stage(string) {}

func (NopReporter) FileProcessed(string, int, int) {}

func (NopReporter) Warnf(string, ...any) {}
