package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutExtraWideWidth is the threshold for extra-wide layouts.
	LayoutExtraWideWidth = 160
)

// Rows taken by the header, command bar and pager footer.
const chromeHeight = 3

// Timing constants.
const (
	// DefaultUIInterval is how often the UI re-reads the state store.
	DefaultUIInterval = time.Second

	// FetchTimeout bounds requests issued from the UI.
	FetchTimeout = 15 * time.Second

	// FlashDuration is how long a status message stays in the command bar.
	FlashDuration = 4 * time.Second
)
