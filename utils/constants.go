package utils

import (
	"time"
)

// Repair scheduling constants
const (
	// UrgentTurnaround is the estimated completion window for urgent requests
	UrgentTurnaround = 24 * time.Hour

	// StandardTurnaround is the estimated completion window for normal requests
	StandardTurnaround = 3 * 24 * time.Hour
)

// Pagination constants
const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// Notification constants
const (
	// NotifyDescriptionLimit caps the device issue description in outbound messages
	NotifyDescriptionLimit = 200

	// NotifyMessageLimit caps the contact message body in outbound messages
	NotifyMessageLimit = 300
)
