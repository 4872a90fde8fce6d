package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the detail card is
	// stacked under the list instead of beside it.
	LayoutCompactWidth = 100

	// LayoutListRatio is the share of the width given to the list in the
	// side-by-side layout, in percent.
	LayoutListRatio = 45
)

// Chrome rows: header, command bar, filter bar and the status line.
const chromeRows = 4

// LogTailLimit is the maximum number of log lines read for the log view.
const LogTailLimit = 400
