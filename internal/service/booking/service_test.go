package booking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerveconnect/clinic-api/internal/model"
	apperrors "github.com/nerveconnect/clinic-api/pkg/errors"
)

type fakeDirectory struct {
	mu       sync.Mutex
	patients map[string]*model.Patient
	doctors  map[string]*model.Doctor
	calls    int
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		patients: make(map[string]*model.Patient),
		doctors:  make(map[string]*model.Doctor),
	}
}

func (f *fakeDirectory) FindOrCreatePatient(_ context.Context, name string) (*model.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if p, ok := f.patients[name]; ok {
		return p, nil
	}
	p := &model.Patient{ID: uuid.New(), Name: name, CreatedAt: time.Now()}
	f.patients[name] = p
	return p, nil
}

func (f *fakeDirectory) FindOrCreateDoctor(_ context.Context, name string) (*model.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if d, ok := f.doctors[name]; ok {
		return d, nil
	}
	d := &model.Doctor{ID: uuid.New(), Name: name, CreatedAt: time.Now()}
	f.doctors[name] = d
	return d, nil
}

// fakeAppointments enforces the same exclusion its storage counterpart does,
// so races that slip past the service-level check are still refused.
type fakeAppointments struct {
	mu    sync.Mutex
	byDoc map[uuid.UUID][]*model.VoiceAppointment
}

func newFakeAppointments() *fakeAppointments {
	return &fakeAppointments{byDoc: make(map[uuid.UUID][]*model.VoiceAppointment)}
}

func (f *fakeAppointments) ListByDoctor(_ context.Context, doctorID uuid.UUID) ([]*model.VoiceAppointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*model.VoiceAppointment(nil), f.byDoc[doctorID]...), nil
}

func (f *fakeAppointments) CreateIfFree(_ context.Context, apt *model.VoiceAppointment, window time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byDoc[apt.DoctorID] {
		d := apt.ScheduledAt.Sub(existing.ScheduledAt)
		if d < 0 {
			d = -d
		}
		if d < window {
			return false, nil
		}
	}
	f.byDoc[apt.DoctorID] = append(f.byDoc[apt.DoctorID], apt)
	return true, nil
}

func newTestService(dir *fakeDirectory, apts *fakeAppointments) *Service {
	return NewService(dir, apts, nil, nil, zerolog.Nop())
}

func futureTime(d time.Duration) time.Time {
	return time.Now().Add(d).UTC().Truncate(time.Second)
}

func TestBookSchedulesAppointment(t *testing.T) {
	dir := newFakeDirectory()
	apts := newFakeAppointments()
	svc := newTestService(dir, apts)

	at := futureTime(48 * time.Hour)
	conf, err := svc.Book(context.Background(), &model.BookVoiceAppointmentRequest{
		PatientName: "John Doe",
		DoctorName:  "Dr. Smith",
		Datetime:    at.Format(time.RFC3339),
	})
	require.NoError(t, err)
	require.NotNil(t, conf)

	assert.NotEqual(t, uuid.Nil, conf.AppointmentID)
	assert.Equal(t, fmt.Sprintf("Appointment successfully scheduled with Dr. Smith at %s",
		at.Format(time.RFC1123)), conf.Message)

	doctor := dir.doctors["Dr. Smith"]
	require.NotNil(t, doctor)
	stored, err := apts.ListByDoctor(context.Background(), doctor.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].ScheduledAt.Equal(at))
}

func TestBookRejectsMissingFields(t *testing.T) {
	svc := newTestService(newFakeDirectory(), newFakeAppointments())

	_, err := svc.Book(context.Background(), &model.BookVoiceAppointmentRequest{
		PatientName: "John Doe",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
	assert.Contains(t, err.Error(), "Missing required fields")
}

func TestBookRejectsMalformedDatetime(t *testing.T) {
	svc := newTestService(newFakeDirectory(), newFakeAppointments())

	_, err := svc.Book(context.Background(), &model.BookVoiceAppointmentRequest{
		PatientName: "John Doe",
		DoctorName:  "Dr. Smith",
		Datetime:    "next tuesday at 3",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestBookRejectsPastDatetime(t *testing.T) {
	svc := newTestService(newFakeDirectory(), newFakeAppointments())

	_, err := svc.Book(context.Background(), &model.BookVoiceAppointmentRequest{
		PatientName: "John Doe",
		DoctorName:  "Dr. Smith",
		Datetime:    time.Now().Add(-time.Hour).UTC().Format(time.RFC3339),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
	assert.Contains(t, err.Error(), "must be in the future")
}

func TestBookDetectsOverlap(t *testing.T) {
	dir := newFakeDirectory()
	apts := newFakeAppointments()
	svc := newTestService(dir, apts)

	base := futureTime(72 * time.Hour)
	_, err := svc.Book(context.Background(), &model.BookVoiceAppointmentRequest{
		PatientName: "John Doe",
		DoctorName:  "Dr. Smith",
		Datetime:    base.Format(time.RFC3339),
	})
	require.NoError(t, err)

	// 15 minutes later falls inside the exclusion window.
	_, err = svc.Book(context.Background(), &model.BookVoiceAppointmentRequest{
		PatientName: "Jane Roe",
		DoctorName:  "Dr. Smith",
		Datetime:    base.Add(15 * time.Minute).Format(time.RFC3339),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
	assert.Contains(t, err.Error(), "Sorry, Dr. Smith is unavailable at that time. Please choose another time.")
}

func TestBookAllowsAdjacentSlots(t *testing.T) {
	dir := newFakeDirectory()
	apts := newFakeAppointments()
	svc := newTestService(dir, apts)

	base := futureTime(72 * time.Hour)
	_, err := svc.Book(context.Background(), &model.BookVoiceAppointmentRequest{
		PatientName: "John Doe",
		DoctorName:  "Dr. Smith",
		Datetime:    base.Format(time.RFC3339),
	})
	require.NoError(t, err)

	conf, err := svc.Book(context.Background(), &model.BookVoiceAppointmentRequest{
		PatientName: "Jane Roe",
		DoctorName:  "Dr. Smith",
		Datetime:    base.Add(35 * time.Minute).Format(time.RFC3339),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, conf.AppointmentID)
}

func TestBookTreatsNamesAsOpaque(t *testing.T) {
	dir := newFakeDirectory()
	apts := newFakeAppointments()
	svc := newTestService(dir, apts)

	base := futureTime(96 * time.Hour)
	for i, doctor := range []string{"Dr. Smith", "dr. smith", " Dr. Smith"} {
		_, err := svc.Book(context.Background(), &model.BookVoiceAppointmentRequest{
			PatientName: "John Doe",
			DoctorName:  doctor,
			Datetime:    base.Add(time.Duration(i) * time.Minute).Format(time.RFC3339),
		})
		require.NoError(t, err, "spelling %q should book against its own doctor", doctor)
	}

	// Three spellings, three distinct doctor records, no cross-conflicts.
	assert.Len(t, dir.doctors, 3)
}

func TestBookConcurrentSameSlot(t *testing.T) {
	dir := newFakeDirectory()
	apts := newFakeAppointments()
	svc := newTestService(dir, apts)

	at := futureTime(120 * time.Hour).Format(time.RFC3339)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Book(context.Background(), &model.BookVoiceAppointmentRequest{
				PatientName: fmt.Sprintf("Patient %d", i),
				DoctorName:  "Dr. Smith",
				Datetime:    at,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
	}
	assert.Equal(t, 1, succeeded)
}

func TestCachedDirectorySkipsRepeatLookups(t *testing.T) {
	dir := newFakeDirectory()
	cached := NewCachedDirectory(dir)

	for i := 0; i < 3; i++ {
		p, err := cached.FindOrCreatePatient(context.Background(), "John Doe")
		require.NoError(t, err)
		assert.Equal(t, "John Doe", p.Name)
	}
	assert.Equal(t, 1, dir.calls)

	d1, err := cached.FindOrCreateDoctor(context.Background(), "Dr. Smith")
	require.NoError(t, err)
	d2, err := cached.FindOrCreateDoctor(context.Background(), "Dr. Smith")
	require.NoError(t, err)
	assert.Equal(t, d1.ID, d2.ID)
	assert.Equal(t, 2, dir.calls)
}
