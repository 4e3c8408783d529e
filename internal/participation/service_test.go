package participation

import (
	"context"
	"testing"
	"time"

	"github.com/campuspulse/campus-events-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeNotifier struct {
	fullEvents []string
}

func (f *fakeNotifier) EventPublished(event models.Event) error { return nil }
func (f *fakeNotifier) EventCancelled(event models.Event) error { return nil }
func (f *fakeNotifier) EventFull(event models.Event) error {
	f.fullEvents = append(f.fullEvents, event.ID)
	return nil
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.College{},
		&models.Student{},
		&models.Event{},
		&models.Registration{},
		&models.Attendance{},
		&models.Feedback{},
	))
	return db
}

func seedCollege(t *testing.T, db *gorm.DB, name string) models.College {
	t.Helper()
	college := models.College{Name: name}
	require.NoError(t, db.Create(&college).Error)
	return college
}

func seedStudent(t *testing.T, db *gorm.DB, collegeID, name, email string) models.Student {
	t.Helper()
	student := models.Student{CollegeID: collegeID, Name: name, Email: email}
	require.NoError(t, db.Create(&student).Error)
	return student
}

func seedEvent(t *testing.T, db *gorm.DB, collegeID string, capacity int) models.Event {
	t.Helper()
	event := models.Event{
		CollegeID: collegeID,
		Title:     "Intro to Distributed Systems",
		EventType: "Workshop",
		StartTime: time.Now().Add(24 * time.Hour),
		EndTime:   time.Now().Add(26 * time.Hour),
		Capacity:  capacity,
		Status:    models.EventStatusActive,
	}
	require.NoError(t, db.Create(&event).Error)
	return event
}

func TestRegister(t *testing.T) {
	db := setupDB(t)
	college := seedCollege(t, db, "Engineering")
	student := seedStudent(t, db, college.ID, "Priya", "priya@campus.edu")
	event := seedEvent(t, db, college.ID, 10)
	svc := NewService(db, nil)

	registration, err := svc.Register(context.Background(), event.ID, student.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, registration.ID)
	assert.Equal(t, student.ID, registration.StudentID)
	assert.Equal(t, event.ID, registration.EventID)
	assert.False(t, registration.RegisteredAt.IsZero())
}

func TestRegisterEventNotFound(t *testing.T) {
	db := setupDB(t)
	college := seedCollege(t, db, "Engineering")
	student := seedStudent(t, db, college.ID, "Priya", "priya@campus.edu")
	svc := NewService(db, nil)

	_, err := svc.Register(context.Background(), "missing-event", student.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
	assert.True(t, IsNotFound(err))
}

func TestRegisterStudentNotFound(t *testing.T) {
	db := setupDB(t)
	college := seedCollege(t, db, "Engineering")
	event := seedEvent(t, db, college.ID, 10)
	svc := NewService(db, nil)

	_, err := svc.Register(context.Background(), event.ID, "missing-student")
	assert.ErrorIs(t, err, ErrStudentNotFound)
	assert.True(t, IsNotFound(err))
}

func TestRegisterCrossCollege(t *testing.T) {
	db := setupDB(t)
	engineering := seedCollege(t, db, "Engineering")
	arts := seedCollege(t, db, "Arts")
	student := seedStudent(t, db, arts.ID, "Priya", "priya@campus.edu")
	event := seedEvent(t, db, engineering.ID, 10)
	svc := NewService(db, nil)

	_, err := svc.Register(context.Background(), event.ID, student.ID)
	assert.ErrorIs(t, err, ErrCollegeMismatch)
	assert.True(t, IsForbidden(err))
}

func TestRegisterCancelledEvent(t *testing.T) {
	db := setupDB(t)
	college := seedCollege(t, db, "Engineering")
	student := seedStudent(t, db, college.ID, "Priya", "priya@campus.edu")
	event := seedEvent(t, db, college.ID, 10)
	require.NoError(t, db.Model(&event).Update("status", models.EventStatusCancelled).Error)
	svc := NewService(db, nil)

	_, err := svc.Register(context.Background(), event.ID, student.ID)
	assert.ErrorIs(t, err, ErrEventCancelled)
	assert.True(t, IsForbidden(err))
}

func TestRegisterDuplicate(t *testing.T) {
	db := setupDB(t)
	college := seedCollege(t, db, "Engineering")
	student := seedStudent(t, db, college.ID, "Priya", "priya@campus.edu")
	event := seedEvent(t, db, college.ID, 10)
	svc := NewService(db, nil)

	_, err := svc.Register(context.Background(), event.ID, student.ID)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), event.ID, student.ID)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.True(t, IsConflict(err))
}

func TestRegisterCapacity(t *testing.T) {
	db := setupDB(t)
	college := seedCollege(t, db, "Engineering")
	event := seedEvent(t, db, college.ID, 2)
	s1 := seedStudent(t, db, college.ID, "Priya", "priya@campus.edu")
	s2 := seedStudent(t, db, college.ID, "Rahul", "rahul@campus.edu")
	s3 := seedStudent(t, db, college.ID, "Meera", "meera@campus.edu")
	svc := NewService(db, nil)

	_, err := svc.Register(context.Background(), event.ID, s1.ID)
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), event.ID, s2.ID)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), event.ID, s3.ID)
	assert.ErrorIs(t, err, ErrEventFull)
	assert.True(t, IsCapacityExceeded(err))

	var count int64
	require.NoError(t, db.Model(&models.Registration{}).Where("event_id = ?", event.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestRegisterNotifiesWhenFull(t *testing.T) {
	db := setupDB(t)
	college := seedCollege(t, db, "Engineering")
	event := seedEvent(t, db, college.ID, 2)
	s1 := seedStudent(t, db, college.ID, "Priya", "priya@campus.edu")
	s2 := seedStudent(t, db, college.ID, "Rahul", "rahul@campus.edu")
	fake := &fakeNotifier{}
	svc := NewService(db, fake)

	_, err := svc.Register(context.Background(), event.ID, s1.ID)
	require.NoError(t, err)
	assert.Empty(t, fake.fullEvents)

	_, err = svc.Register(context.Background(), event.ID, s2.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{event.ID}, fake.fullEvents)
}

func TestCheckIn(t *testing.T) {
	db := setupDB(t)
	college := seedCollege(t, db, "Engineering")
	student := seedStudent(t, db, college.ID, "Priya", "priya@campus.edu")
	event := seedEvent(t, db, college.ID, 10)
	svc := NewService(db, nil)

	_, err := svc.Register(context.Background(), event.ID, student.ID)
	require.NoError(t, err)

	attendance, err := svc.CheckIn(context.Background(), event.ID, student.ID, models.CheckInMethodQRCode)
	require.NoError(t, err)
	assert.Equal(t, models.CheckInMethodQRCode, attendance.Method)
	assert.False(t, attendance.CheckedInAt.IsZero())
}

func TestCheckInDefaultsToManual(t *testing.T) {
	db := setupDB(t)
	college := seedCollege(t, db, "Engineering")
	student := seedStudent(t, db, college.ID, "Priya", "priya@campus.edu")
	event := seedEvent(t, db, college.ID, 10)
	svc := NewService(db, nil)

	_, err := svc.Register(context.Background(), event.ID, student.ID)
	require.NoError(t, err)

	attendance, err := svc.CheckIn(context.Background(), event.ID, student.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.CheckInMethodManual, attendance.Method)
}

func TestCheckInInvalidMethod(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db, nil)

	_, err := svc.CheckIn(context.Background(), "e", "s", "carrier_pigeon")
	assert.ErrorIs(t, err, ErrInvalidCheckInMethod)
	assert.True(t, IsValidation(err))
}

func TestCheckInWithoutRegistration(t *testing.T) {
	db := setupDB(t)
	college := seedCollege(t, db, "Engineering")
	student := seedStudent(t, db, college.ID, "Priya", "priya@campus.edu")
	event := seedEvent(t, db, college.ID, 10)
	svc := NewService(db, nil)

	_, err := svc.CheckIn(context.Background(), event.ID, student.ID, "")
	assert.ErrorIs(t, err, ErrNotRegistered)
	assert.True(t, IsForbidden(err))
}

func TestCheckInDuplicate(t *testing.T) {
	db := setupDB(t)
	college := seedCollege(t, db, "Engineering")
	student := seedStudent(t, db, college.ID, "Priya", "priya@campus.edu")
	event := seedEvent(t, db, college.ID, 10)
	svc := NewService(db, nil)

	_, err := svc.Register(context.Background(), event.ID, student.ID)
	require.NoError(t, err)
	_, err = svc.CheckIn(context.Background(), event.ID, student.ID, "")
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), event.ID, student.ID, "")
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
	assert.True(t, IsConflict(err))
}

func TestSubmitFeedbackRatingOutOfRange(t *testing.T) {
	db := setupDB(t)
	svc := NewService(db, nil)

	for _, rating := range []int{0, 6, -1, 100} {
		_, err := svc.SubmitFeedback(context.Background(), "e", "s", rating, "")
		assert.ErrorIs(t, err, ErrInvalidRating)
		assert.True(t, IsValidation(err))
	}
}

func TestSubmitFeedbackWithoutAttendance(t *testing.T) {
	db := setupDB(t)
	college := seedCollege(t, db, "Engineering")
	student := seedStudent(t, db, college.ID, "Priya", "priya@campus.edu")
	event := seedEvent(t, db, college.ID, 10)
	svc := NewService(db, nil)

	_, err := svc.Register(context.Background(), event.ID, student.ID)
	require.NoError(t, err)

	_, err = svc.SubmitFeedback(context.Background(), event.ID, student.ID, 4, "great talk")
	assert.ErrorIs(t, err, ErrNotAttended)
	assert.True(t, IsForbidden(err))
}

func TestSubmitFeedbackDuplicate(t *testing.T) {
	db := setupDB(t)
	college := seedCollege(t, db, "Engineering")
	student := seedStudent(t, db, college.ID, "Priya", "priya@campus.edu")
	event := seedEvent(t, db, college.ID, 10)
	svc := NewService(db, nil)

	_, err := svc.Register(context.Background(), event.ID, student.ID)
	require.NoError(t, err)
	_, err = svc.CheckIn(context.Background(), event.ID, student.ID, "")
	require.NoError(t, err)
	_, err = svc.SubmitFeedback(context.Background(), event.ID, student.ID, 4, "great talk")
	require.NoError(t, err)

	_, err = svc.SubmitFeedback(context.Background(), event.ID, student.ID, 5, "even better the second time")
	assert.ErrorIs(t, err, ErrFeedbackExists)
	assert.True(t, IsConflict(err))
}

func TestLifecycleOrderCannotBeSkipped(t *testing.T) {
	db := setupDB(t)
	college := seedCollege(t, db, "Engineering")
	student := seedStudent(t, db, college.ID, "Priya", "priya@campus.edu")
	event := seedEvent(t, db, college.ID, 10)
	svc := NewService(db, nil)
	ctx := context.Background()

	// Feedback before any step
	_, err := svc.SubmitFeedback(ctx, event.ID, student.ID, 3, "")
	assert.ErrorIs(t, err, ErrNotAttended)

	// Check-in before registration
	_, err = svc.CheckIn(ctx, event.ID, student.ID, "")
	assert.ErrorIs(t, err, ErrNotRegistered)

	// Register, then feedback still blocked until attendance
	_, err = svc.Register(ctx, event.ID, student.ID)
	require.NoError(t, err)
	_, err = svc.SubmitFeedback(ctx, event.ID, student.ID, 3, "")
	assert.ErrorIs(t, err, ErrNotAttended)

	// Full chain succeeds
	_, err = svc.CheckIn(ctx, event.ID, student.ID, models.CheckInMethodMobileApp)
	require.NoError(t, err)
	feedback, err := svc.SubmitFeedback(ctx, event.ID, student.ID, 5, "worth skipping lunch for")
	require.NoError(t, err)
	assert.Equal(t, 5, feedback.Rating)

	// Exactly one row per child table for the pair
	for _, model := range []any{&models.Registration{}, &models.Attendance{}, &models.Feedback{}} {
		var count int64
		require.NoError(t, db.Model(model).
			Where("student_id = ? AND event_id = ?", student.ID, event.ID).
			Count(&count).Error)
		assert.Equal(t, int64(1), count)
	}
}
