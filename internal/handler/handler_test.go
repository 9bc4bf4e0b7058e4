package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"agenda-service/internal/config"
	"agenda-service/internal/models"
	"agenda-service/internal/service"
	"agenda-service/pkg/calendar"
)

// fakeAppointmentRepo keeps appointments in memory so handler tests can run
// the full request pipeline without a database.
type fakeAppointmentRepo struct {
	rows   map[uint]*models.Appointment
	nextID uint
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{rows: map[uint]*models.Appointment{}, nextID: 1}
}

func (f *fakeAppointmentRepo) Create(appt *models.Appointment) error {
	appt.ID = f.nextID
	f.nextID++
	stored := *appt
	f.rows[appt.ID] = &stored
	return nil
}

func (f *fakeAppointmentRepo) Update(appt *models.Appointment) error {
	stored := *appt
	f.rows[appt.ID] = &stored
	return nil
}

func (f *fakeAppointmentRepo) GetByID(id uint) (*models.Appointment, error) {
	appt, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	copied := *appt
	return &copied, nil
}

func (f *fakeAppointmentRepo) GetByUserAndDate(userID uint, date string) ([]*models.Appointment, error) {
	var result []*models.Appointment
	for _, appt := range f.rows {
		if appt.UserID == userID && appt.Date == date {
			result = append(result, appt)
		}
	}
	return result, nil
}

func (f *fakeAppointmentRepo) GetByUserAndMonth(userID uint, year, month int) ([]*models.Appointment, error) {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	var result []*models.Appointment
	for _, appt := range f.rows {
		if appt.UserID == userID && strings.HasPrefix(appt.Date, prefix) {
			result = append(result, appt)
		}
	}
	return result, nil
}

func (f *fakeAppointmentRepo) GetByRecurringTaskID(recurringTaskID string) ([]*models.Appointment, error) {
	var result []*models.Appointment
	for _, appt := range f.rows {
		if appt.RecurringTaskID != nil && *appt.RecurringTaskID == recurringTaskID {
			result = append(result, appt)
		}
	}
	return result, nil
}

func (f *fakeAppointmentRepo) GetScheduledBefore(date string) ([]*models.Appointment, error) {
	var result []*models.Appointment
	for _, appt := range f.rows {
		if appt.Status == models.StatusScheduled && !appt.IsRecurringTemplate && appt.Date < date {
			result = append(result, appt)
		}
	}
	return result, nil
}

func (f *fakeAppointmentRepo) DeleteByID(id uint) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeAppointmentRepo) DeleteByRecurringTaskID(recurringTaskID string) (int64, error) {
	var deleted int64
	for id, appt := range f.rows {
		if appt.RecurringTaskID != nil && *appt.RecurringTaskID == recurringTaskID {
			delete(f.rows, id)
			deleted++
		}
	}
	return deleted, nil
}

// fakeWorkScheduleRepo has no stored schedules, so every user falls back to
// the default template.
type fakeWorkScheduleRepo struct{}

func (fakeWorkScheduleRepo) Create(*models.WorkSchedule) error  { return nil }
func (fakeWorkScheduleRepo) Update(*models.WorkSchedule) error  { return nil }
func (fakeWorkScheduleRepo) Delete(uint) error                  { return nil }
func (fakeWorkScheduleRepo) GetByID(uint) (*models.WorkSchedule, error) {
	return nil, nil
}
func (fakeWorkScheduleRepo) GetActiveByUserID(uint) (*models.WorkSchedule, error) {
	return nil, nil
}
func (fakeWorkScheduleRepo) ReplaceRules(uint, []models.WorkScheduleRule) error { return nil }

type fakeNonWorkingDayRepo struct{}

func (fakeNonWorkingDayRepo) Create(*models.NonWorkingDay) error { return nil }
func (fakeNonWorkingDayRepo) Upsert([]models.NonWorkingDay) (int64, error) {
	return 0, nil
}
func (fakeNonWorkingDayRepo) GetByDate(string) (*models.NonWorkingDay, error) { return nil, nil }
func (fakeNonWorkingDayRepo) GetByYear(int) ([]*models.NonWorkingDay, error)  { return nil, nil }
func (fakeNonWorkingDayRepo) GetAll() ([]*models.NonWorkingDay, error)        { return nil, nil }
func (fakeNonWorkingDayRepo) DeleteByID(uint) error                           { return nil }

type fakeUserRepo struct{}

func (fakeUserRepo) Create(user *models.User) error { user.ID = 1; return nil }
func (fakeUserRepo) Update(*models.User) error      { return nil }
func (fakeUserRepo) GetByID(id uint) (*models.User, error) {
	return &models.User{ID: id, Name: "Maria"}, nil
}
func (fakeUserRepo) GetAll() ([]*models.User, error) { return nil, nil }

func newTestServer() http.Handler {
	apptRepo := newFakeAppointmentRepo()
	wsRepo := fakeWorkScheduleRepo{}
	nwdRepo := fakeNonWorkingDayRepo{}
	userRepo := fakeUserRepo{}

	clock := calendar.FixedClock{Instant: time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)}

	validator := service.NewScheduleValidator(wsRepo, nwdRepo)
	scheduler := service.NewAppointmentScheduler(apptRepo, validator, clock)
	expander := service.NewRecurrenceExpander(apptRepo, scheduler, nwdRepo)

	h := NewHandler(
		service.NewUserService(userRepo),
		service.NewWorkScheduleService(wsRepo, userRepo),
		validator,
		scheduler,
		expander,
		service.NewNonWorkingDayService(nwdRepo),
		service.NewSummaryService(apptRepo),
		&config.ServerConfig{ListenAddr: ":0", DefaultTimezone: "America/Sao_Paulo"},
	)
	return h.Routes()
}

func doJSON(t *testing.T, srv http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	payload := map[string]any{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("%s %s: invalid JSON response %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec, payload
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	srv := newTestServer()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCreateAppointment_Flow(t *testing.T) {
	t.Parallel()

	srv := newTestServer()

	// A weekday slot inside working hours commits immediately.
	rec, payload := doJSON(t, srv, http.MethodPost, "/api/appointments",
		`{"user_id": 1, "title": "Reunião", "date": "2025-08-11", "start_time": "09:00", "duration_minutes": 60}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("weekday create: status = %d, body %s", rec.Code, rec.Body.String())
	}
	if payload["status"] != service.OutcomeAccepted {
		t.Errorf("outcome = %v", payload["status"])
	}

	// The same slot again is a hard conflict.
	rec, payload = doJSON(t, srv, http.MethodPost, "/api/appointments",
		`{"user_id": 1, "title": "Outra", "date": "2025-08-11", "start_time": "09:30", "duration_minutes": 30}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("conflict create: status = %d, body %s", rec.Code, rec.Body.String())
	}
	if payload["status"] != service.OutcomeRejected {
		t.Errorf("outcome = %v", payload["status"])
	}
	if payload["conflicts"] == nil {
		t.Error("rejection should list conflicting appointments")
	}

	// With overlap consent the encaixe goes through.
	rec, payload = doJSON(t, srv, http.MethodPost, "/api/appointments",
		`{"user_id": 1, "title": "Encaixe", "date": "2025-08-11", "start_time": "09:30", "duration_minutes": 30, "allow_overlap": true}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("encaixe create: status = %d, body %s", rec.Code, rec.Body.String())
	}
	if payload["status"] != service.OutcomeAccepted {
		t.Errorf("outcome = %v", payload["status"])
	}
}

func TestCreateAppointment_WeekendConfirmation(t *testing.T) {
	t.Parallel()

	srv := newTestServer()

	rec, payload := doJSON(t, srv, http.MethodPost, "/api/appointments",
		`{"user_id": 1, "title": "Plantão", "date": "2025-08-16", "start_time": "09:00", "duration_minutes": 60}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("weekend create: status = %d, body %s", rec.Code, rec.Body.String())
	}
	if payload["status"] != service.OutcomeConfirmationRequired {
		t.Errorf("outcome = %v", payload["status"])
	}
	if payload["day_type"] != "SÁBADO" {
		t.Errorf("day_type = %v", payload["day_type"])
	}

	// Resubmitting with the override flag commits the appointment.
	rec, payload = doJSON(t, srv, http.MethodPost, "/api/appointments",
		`{"user_id": 1, "title": "Plantão", "date": "2025-08-16", "start_time": "09:00", "duration_minutes": 60, "allow_weekend_override": true}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("override create: status = %d, body %s", rec.Code, rec.Body.String())
	}
	appt, ok := payload["appointment"].(map[string]any)
	if !ok {
		t.Fatalf("missing appointment in %v", payload)
	}
	if appt["is_overtime"] != true {
		t.Error("weekend appointment should be flagged overtime")
	}
}

func TestCreateAppointment_MalformedInput(t *testing.T) {
	t.Parallel()

	srv := newTestServer()

	rec, _ := doJSON(t, srv, http.MethodPost, "/api/appointments",
		`{"user_id": 1, "title": "X", "date": "2025-02-30", "start_time": "09:00", "duration_minutes": 30}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("impossible date: status = %d", rec.Code)
	}

	rec, _ = doJSON(t, srv, http.MethodPost, "/api/appointments", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("broken body: status = %d", rec.Code)
	}
}

func TestGetAppointment_NotFound(t *testing.T) {
	t.Parallel()

	srv := newTestServer()

	rec, _ := doJSON(t, srv, http.MethodGet, "/api/appointments/999", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}

	rec, _ = doJSON(t, srv, http.MethodGet, "/api/appointments/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRecurringSeries_Endpoints(t *testing.T) {
	t.Parallel()

	srv := newTestServer()

	rec, payload := doJSON(t, srv, http.MethodPost, "/api/appointments/recurring",
		`{"user_id": 1, "title": "Standup", "date": "2025-08-11", "start_time": "09:00", "duration_minutes": 15,
		  "recurrence": {"pattern": "daily", "interval": 1, "count": 3}}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create series: status = %d, body %s", rec.Code, rec.Body.String())
	}

	seriesID, ok := payload["recurring_task_id"].(string)
	if !ok || seriesID == "" {
		t.Fatalf("missing recurring_task_id in %v", payload)
	}

	rec, _ = doJSON(t, srv, http.MethodGet, "/api/recurring/"+seriesID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get series: status = %d", rec.Code)
	}

	rec, payload = doJSON(t, srv, http.MethodDelete, "/api/recurring/"+seriesID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete series: status = %d", rec.Code)
	}
	if payload["deleted"].(float64) < 3 {
		t.Errorf("deleted = %v", payload["deleted"])
	}

	rec, _ = doJSON(t, srv, http.MethodGet, "/api/recurring/"+seriesID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted series: status = %d", rec.Code)
	}
}
