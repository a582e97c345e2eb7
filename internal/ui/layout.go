package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutPeerColumnWidth is the identity column width in the peer list.
	LayoutPeerColumnWidth = 24

	// LayoutSocialKeyWidth is the key column width in social rows.
	LayoutSocialKeyWidth = 14
)

// Form modal dimensions.
const (
	FormModalWidth = 56
	FormInputWidth = 40
)

// PullTimeout bounds a manual refresh.
const PullTimeout = 10 * time.Second
