package service

import (
	"sort"

	"agenda-service/internal/models"
	"agenda-service/pkg/calendar"
)

// FindConflicts returns the appointments whose interval overlaps the
// candidate [start, start+duration). Intervals are half-open, so touching
// endpoints never conflict. Cancelled rows, recurring templates and the
// appointment identified by excludeID are skipped.
func FindConflicts(existing []*models.Appointment, startMin, durationMinutes int, excludeID *uint) []*models.Appointment {
	endMin := startMin + durationMinutes

	conflicts := []*models.Appointment{}
	for _, appt := range existing {
		if !appt.OccupiesSlot() {
			continue
		}
		if excludeID != nil && appt.ID == *excludeID {
			continue
		}
		if startMin < appt.EndMinutes() && endMin > appt.StartMinutes() {
			conflicts = append(conflicts, appt)
		}
	}
	return conflicts
}

// TimeSlot is a free interval offered back to the caller after a conflict
// rejection.
type TimeSlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// FindFreeSlots lists the gaps of at least durationMinutes between the
// occupied intervals of a day, bounded to [dayStartMin, dayEndMin).
func FindFreeSlots(existing []*models.Appointment, durationMinutes, dayStartMin, dayEndMin int) []TimeSlot {
	type interval struct{ start, end int }

	busy := make([]interval, 0, len(existing))
	for _, appt := range existing {
		if !appt.OccupiesSlot() {
			continue
		}
		busy = append(busy, interval{appt.StartMinutes(), appt.EndMinutes()})
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i].start < busy[j].start })

	slots := []TimeSlot{}
	cursor := dayStartMin
	for _, b := range busy {
		if b.start-cursor >= durationMinutes {
			slots = append(slots, TimeSlot{
				StartTime: calendar.FormatTimeOfDay(cursor),
				EndTime:   calendar.FormatTimeOfDay(b.start),
			})
		}
		if b.end > cursor {
			cursor = b.end
		}
	}
	if dayEndMin-cursor >= durationMinutes {
		slots = append(slots, TimeSlot{
			StartTime: calendar.FormatTimeOfDay(cursor),
			EndTime:   calendar.FormatTimeOfDay(dayEndMin),
		})
	}
	return slots
}
