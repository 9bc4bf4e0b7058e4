package service

import (
	"testing"

	"agenda-service/internal/models"
)

func appt(id uint, start string, duration int, status string) *models.Appointment {
	a := &models.Appointment{
		ID:              id,
		UserID:          1,
		Title:           "Reunião",
		Date:            "2025-08-11",
		StartTime:       start,
		DurationMinutes: duration,
		Status:          status,
	}
	a.UpdateCalculatedFields()
	return a
}

func TestFindConflicts_OverlapDetected(t *testing.T) {
	t.Parallel()

	existing := []*models.Appointment{appt(1, "09:00", 60, models.StatusScheduled)}

	conflicts := FindConflicts(existing, 9*60+30, 60, nil)
	if len(conflicts) != 1 || conflicts[0].ID != 1 {
		t.Fatalf("expected conflict with appointment 1, got %v", conflicts)
	}
}

func TestFindConflicts_Symmetry(t *testing.T) {
	t.Parallel()

	a := appt(1, "09:00", 60, models.StatusScheduled)
	b := appt(2, "09:30", 60, models.StatusScheduled)

	aConflictsB := FindConflicts([]*models.Appointment{b}, a.StartMinutes(), a.DurationMinutes, nil)
	bConflictsA := FindConflicts([]*models.Appointment{a}, b.StartMinutes(), b.DurationMinutes, nil)

	if len(aConflictsB) != len(bConflictsA) {
		t.Errorf("conflict relation must be symmetric: %d vs %d", len(aConflictsB), len(bConflictsA))
	}
}

func TestFindConflicts_TouchingEndpointsNeverConflict(t *testing.T) {
	t.Parallel()

	existing := []*models.Appointment{appt(1, "09:00", 60, models.StatusScheduled)}

	// Ends exactly when the candidate starts.
	if conflicts := FindConflicts(existing, 10*60, 30, nil); len(conflicts) != 0 {
		t.Errorf("touching intervals must not conflict, got %v", conflicts)
	}
	// Candidate ends exactly when the existing one starts.
	if conflicts := FindConflicts(existing, 8*60, 60, nil); len(conflicts) != 0 {
		t.Errorf("touching intervals must not conflict, got %v", conflicts)
	}
}

func TestFindConflicts_SkipsCancelledAndTemplates(t *testing.T) {
	t.Parallel()

	cancelled := appt(1, "09:00", 60, models.StatusCancelled)
	template := appt(2, "09:00", 60, models.StatusScheduled)
	template.IsRecurringTemplate = true

	conflicts := FindConflicts([]*models.Appointment{cancelled, template}, 9*60, 60, nil)
	if len(conflicts) != 0 {
		t.Errorf("cancelled rows and templates must not occupy slots, got %v", conflicts)
	}
}

func TestFindConflicts_ExcludesEditedAppointment(t *testing.T) {
	t.Parallel()

	existing := []*models.Appointment{appt(7, "09:00", 60, models.StatusScheduled)}
	exclude := uint(7)

	conflicts := FindConflicts(existing, 9*60, 60, &exclude)
	if len(conflicts) != 0 {
		t.Errorf("edited appointment must not conflict with itself, got %v", conflicts)
	}
}

func TestFindFreeSlots(t *testing.T) {
	t.Parallel()

	existing := []*models.Appointment{
		appt(1, "09:00", 60, models.StatusScheduled),
		appt(2, "11:00", 30, models.StatusScheduled),
	}

	slots := FindFreeSlots(existing, 60, 8*60, 13*60)

	want := []TimeSlot{
		{StartTime: "08:00", EndTime: "09:00"},
		{StartTime: "10:00", EndTime: "11:00"},
		{StartTime: "11:30", EndTime: "13:00"},
	}
	if len(slots) != len(want) {
		t.Fatalf("slots = %v, want %v", slots, want)
	}
	for i := range want {
		if slots[i] != want[i] {
			t.Errorf("slot %d = %v, want %v", i, slots[i], want[i])
		}
	}
}
