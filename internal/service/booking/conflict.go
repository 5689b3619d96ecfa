package booking

import "time"

// ConflictWindow is the symmetric interval around an existing booking
// within which no other booking for the same doctor may be placed.
const ConflictWindow = 30 * time.Minute

// HasConflict reports whether candidate lies strictly within the conflict
// window of any existing booking. The bound is exclusive: two bookings
// exactly 30 minutes apart do not conflict. Pure and O(n).
func HasConflict(candidate time.Time, existing []time.Time) bool {
	for _, e := range existing {
		d := candidate.Sub(e)
		if d < 0 {
			d = -d
		}
		if d < ConflictWindow {
			return true
		}
	}
	return false
}
