package calendar

import "github.com/profyt7/carelinkai-sub009/internal/domain"

// IsCoveredByAvailability reports whether ownerID declared an open slot that overlaps
// window and accepts the activity type. Partial overlap is enough.
func IsCoveredByAvailability(ownerID string, window TimeWindow, activity domain.ActivityType, slots []domain.AvailabilitySlot) bool {
	return anyDeclared(ownerID, window, activity, slots, true)
}

// IsBlocked reports whether ownerID declared a block (IsAvailable=false) overlapping
// window for the activity type.
func IsBlocked(ownerID string, window TimeWindow, activity domain.ActivityType, slots []domain.AvailabilitySlot) bool {
	return anyDeclared(ownerID, window, activity, slots, false)
}

func anyDeclared(ownerID string, window TimeWindow, activity domain.ActivityType, slots []domain.AvailabilitySlot, available bool) bool {
	for _, s := range slots {
		if s.OwnerID != ownerID || s.IsAvailable != available {
			continue
		}
		if !Overlaps(s.StartTime, s.EndTime, window.Start, window.End) {
			continue
		}
		if s.Accepts(activity) {
			return true
		}
	}
	return false
}
