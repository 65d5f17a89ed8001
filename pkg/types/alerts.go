// Package types - alert values produced by the detector.
package types

import "time"

// AlertSeverity indicates urgency level.
type AlertSeverity string

const (
	AlertSeverityCritical AlertSeverity = "critical" // Immediate action required
	AlertSeverityWarning  AlertSeverity = "warning"  // Attention needed
)

// Level returns a numeric level for comparison (higher = more severe).
func (s AlertSeverity) Level() int {
	switch s {
	case AlertSeverityCritical:
		return 2
	case AlertSeverityWarning:
		return 1
	default:
		return 0
	}
}

// Alert is a detected fault condition. Alerts are plain values: every
// detection cycle produces a fresh list and nothing correlates or
// deduplicates them against earlier cycles.
type Alert struct {
	Severity  AlertSeverity `json:"severity"`
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
}

// Critical builds a critical alert captured at ts.
func Critical(ts time.Time, message string) Alert {
	return Alert{Severity: AlertSeverityCritical, Message: message, Timestamp: ts}
}

// Warning builds a warning alert captured at ts.
func Warning(ts time.Time, message string) Alert {
	return Alert{Severity: AlertSeverityWarning, Message: message, Timestamp: ts}
}
