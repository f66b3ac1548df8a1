// Grounded in original_source/shared/src/lib.rs's format_significant_duration,
// ported with the same truncating-division semantics and boundary table.
package shared

import "fmt"

const (
	secsInMinute = 60
	secsInHour   = 60 * 60
	secsInDay    = 24 * 60 * 60
)

// FormatSignificantDuration renders totalSecs as the two most significant
// non-zero units, e.g. 2d4h30m → "2d 4h". See spec.md §8 for the exact
// boundary table this reproduces.
func FormatSignificantDuration(totalSecs uint64) string {
	days := totalSecs / secsInDay
	hours := (totalSecs % secsInDay) / secsInHour
	mins := (totalSecs % secsInHour) / secsInMinute
	secs := totalSecs % secsInMinute

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, mins)
	case mins > 0:
		return fmt.Sprintf("%dm %ds", mins, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}

// PluralKitApplicationID is the well-known PluralKit bot's application
// snowflake, ported from original_source/shared/src/lib.rs's is_pk_proxy.
const PluralKitApplicationID uint64 = 466378653216014359

// IsPluralKitProxy reports whether applicationID identifies a message
// delivered through PluralKit's webhook proxy.
func IsPluralKitProxy(applicationID *uint64) bool {
	return applicationID != nil && *applicationID == PluralKitApplicationID
}
