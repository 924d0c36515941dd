package autoplace

// Reporter receives progress and is polled for cancellation once per
// committed component.
type Reporter interface {
	Report(title string)
	SetMaxProgress(n int)
	AdvanceProgress()
	// KeepRefreshing returns false to stop the run after the current commit.
	KeepRefreshing() bool
}

// NopReporter ignores progress and never cancels.
type NopReporter struct{}

func (NopReporter) Report(string)        {}
func (NopReporter) SetMaxProgress(int)   {}
func (NopReporter) AdvanceProgress()     {}
func (NopReporter) KeepRefreshing() bool { return true }
