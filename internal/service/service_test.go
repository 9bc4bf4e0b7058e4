package service

import (
	"errors"
	"time"

	"agenda-service/internal/models"
)

// In-memory repository stubs shared by the service tests.

type memAppointmentRepo struct {
	nextID       uint
	appointments map[uint]*models.Appointment
	createErr    error
}

func newMemAppointmentRepo() *memAppointmentRepo {
	return &memAppointmentRepo{
		nextID:       1,
		appointments: map[uint]*models.Appointment{},
	}
}

func (m *memAppointmentRepo) Create(appt *models.Appointment) error {
	if m.createErr != nil {
		return m.createErr
	}
	if !appt.IsValid() {
		return errors.New("dados de agendamento inválidos")
	}
	appt.UpdateCalculatedFields()
	appt.ID = m.nextID
	m.nextID++
	m.appointments[appt.ID] = appt
	return nil
}

func (m *memAppointmentRepo) Update(appt *models.Appointment) error {
	if _, ok := m.appointments[appt.ID]; !ok {
		return errors.New("agendamento não encontrado")
	}
	appt.UpdateCalculatedFields()
	m.appointments[appt.ID] = appt
	return nil
}

func (m *memAppointmentRepo) GetByID(id uint) (*models.Appointment, error) {
	appt, ok := m.appointments[id]
	if !ok {
		return nil, nil
	}
	copied := *appt
	return &copied, nil
}

func (m *memAppointmentRepo) GetByUserAndDate(userID uint, date string) ([]*models.Appointment, error) {
	result := []*models.Appointment{}
	for _, appt := range m.appointments {
		if appt.UserID == userID && appt.Date == date {
			result = append(result, appt)
		}
	}
	return result, nil
}

func (m *memAppointmentRepo) GetByUserAndMonth(userID uint, year, month int) ([]*models.Appointment, error) {
	prefix := timePrefix(year, month)
	result := []*models.Appointment{}
	for _, appt := range m.appointments {
		if appt.UserID == userID && len(appt.Date) >= 7 && appt.Date[:7] == prefix {
			result = append(result, appt)
		}
	}
	return result, nil
}

func timePrefix(year, month int) string {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

func (m *memAppointmentRepo) GetByRecurringTaskID(recurringTaskID string) ([]*models.Appointment, error) {
	result := []*models.Appointment{}
	for _, appt := range m.appointments {
		if appt.RecurringTaskID != nil && *appt.RecurringTaskID == recurringTaskID {
			result = append(result, appt)
		}
	}
	return result, nil
}

func (m *memAppointmentRepo) GetScheduledBefore(date string) ([]*models.Appointment, error) {
	result := []*models.Appointment{}
	for _, appt := range m.appointments {
		if appt.Status == models.StatusScheduled && !appt.IsRecurringTemplate && appt.Date < date {
			result = append(result, appt)
		}
	}
	return result, nil
}

func (m *memAppointmentRepo) DeleteByID(id uint) error {
	if _, ok := m.appointments[id]; !ok {
		return errors.New("agendamento não encontrado")
	}
	delete(m.appointments, id)
	return nil
}

func (m *memAppointmentRepo) DeleteByRecurringTaskID(recurringTaskID string) (int64, error) {
	var deleted int64
	for id, appt := range m.appointments {
		if appt.RecurringTaskID != nil && *appt.RecurringTaskID == recurringTaskID {
			delete(m.appointments, id)
			deleted++
		}
	}
	return deleted, nil
}

type memWorkScheduleRepo struct {
	schedules map[uint]*models.WorkSchedule // keyed by user id
}

func newMemWorkScheduleRepo() *memWorkScheduleRepo {
	return &memWorkScheduleRepo{schedules: map[uint]*models.WorkSchedule{}}
}

func (m *memWorkScheduleRepo) Create(schedule *models.WorkSchedule) error {
	if schedule.ID == 0 {
		schedule.ID = uint(len(m.schedules) + 1)
	}
	m.schedules[schedule.UserID] = schedule
	return nil
}

func (m *memWorkScheduleRepo) Update(schedule *models.WorkSchedule) error {
	m.schedules[schedule.UserID] = schedule
	return nil
}

func (m *memWorkScheduleRepo) Delete(id uint) error {
	for userID, s := range m.schedules {
		if s.ID == id {
			delete(m.schedules, userID)
			return nil
		}
	}
	return errors.New("horário de trabalho não encontrado")
}

func (m *memWorkScheduleRepo) GetByID(id uint) (*models.WorkSchedule, error) {
	for _, s := range m.schedules {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (m *memWorkScheduleRepo) GetActiveByUserID(userID uint) (*models.WorkSchedule, error) {
	s, ok := m.schedules[userID]
	if !ok || !s.IsActive {
		return nil, nil
	}
	return s, nil
}

func (m *memWorkScheduleRepo) ReplaceRules(scheduleID uint, rules []models.WorkScheduleRule) error {
	for _, s := range m.schedules {
		if s.ID == scheduleID {
			s.Rules = rules
			return nil
		}
	}
	return errors.New("horário de trabalho não encontrado")
}

type memNonWorkingDayRepo struct {
	days map[string]*models.NonWorkingDay
}

func newMemNonWorkingDayRepo(dates ...string) *memNonWorkingDayRepo {
	repo := &memNonWorkingDayRepo{days: map[string]*models.NonWorkingDay{}}
	for i, date := range dates {
		repo.days[date] = &models.NonWorkingDay{ID: uint(i + 1), Date: date}
	}
	return repo
}

func (m *memNonWorkingDayRepo) Create(day *models.NonWorkingDay) error {
	if _, exists := m.days[day.Date]; exists {
		return errors.New("feriado já cadastrado")
	}
	day.ID = uint(len(m.days) + 1)
	m.days[day.Date] = day
	return nil
}

func (m *memNonWorkingDayRepo) Upsert(days []models.NonWorkingDay) (int64, error) {
	var inserted int64
	for i := range days {
		if _, exists := m.days[days[i].Date]; exists {
			continue
		}
		d := days[i]
		d.ID = uint(len(m.days) + 1)
		m.days[d.Date] = &d
		inserted++
	}
	return inserted, nil
}

func (m *memNonWorkingDayRepo) GetByDate(date string) (*models.NonWorkingDay, error) {
	return m.days[date], nil
}

func (m *memNonWorkingDayRepo) GetByYear(year int) ([]*models.NonWorkingDay, error) {
	result := []*models.NonWorkingDay{}
	for _, d := range m.days {
		if d.Year == year {
			result = append(result, d)
		}
	}
	return result, nil
}

func (m *memNonWorkingDayRepo) GetAll() ([]*models.NonWorkingDay, error) {
	result := []*models.NonWorkingDay{}
	for _, d := range m.days {
		result = append(result, d)
	}
	return result, nil
}

func (m *memNonWorkingDayRepo) DeleteByID(id uint) error {
	for date, d := range m.days {
		if d.ID == id {
			delete(m.days, date)
			return nil
		}
	}
	return errors.New("feriado não encontrado")
}

type memUserRepo struct {
	users map[uint]*models.User
}

func newMemUserRepo(users ...*models.User) *memUserRepo {
	repo := &memUserRepo{users: map[uint]*models.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (m *memUserRepo) Create(user *models.User) error {
	user.ID = uint(len(m.users) + 1)
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) Update(user *models.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) GetByID(id uint) (*models.User, error) {
	return m.users[id], nil
}

func (m *memUserRepo) GetAll() ([]*models.User, error) {
	result := []*models.User{}
	for _, u := range m.users {
		result = append(result, u)
	}
	return result, nil
}
