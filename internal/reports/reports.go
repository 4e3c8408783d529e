package reports

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/campuspulse/campus-events-api/internal/models"
	"github.com/campuspulse/campus-events-api/internal/participation"
	"gorm.io/gorm"
)

// Weights of the activity score. Attendance counts double: showing up is
// worth more than signing up. A product decision, change deliberately.
const (
	registrationWeight = 1
	attendanceWeight   = 2
	feedbackWeight     = 1
)

const DefaultTopStudentsLimit = 3

// Service computes read-only aggregations over the accumulated
// participation state. No operation mutates data.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type EventPopularityRow struct {
	EventID              string  `json:"event_id"`
	Title                string  `json:"title"`
	EventType            string  `json:"event_type"`
	CollegeName          string  `json:"college_name"`
	RegistrationCount    int     `json:"registration_count"`
	Capacity             int     `json:"capacity"`
	PopularityPercentage float64 `json:"popularity_percentage"`
}

// EventPopularity ranks events by registration count, breaking ties by how
// full they are relative to capacity. Events with zero registrations are
// included with a count of 0.
func (s *Service) EventPopularity(ctx context.Context, eventType, collegeID string) ([]EventPopularityRow, error) {
	q := s.db.WithContext(ctx).Table("events").
		Select("events.id AS event_id, events.title, events.event_type, colleges.name AS college_name, COUNT(registrations.id) AS registration_count, events.capacity").
		Joins("LEFT JOIN registrations ON registrations.event_id = events.id").
		Joins("JOIN colleges ON colleges.id = events.college_id").
		Group("events.id, events.title, events.event_type, colleges.name, events.capacity")
	if eventType != "" {
		q = q.Where("events.event_type = ?", eventType)
	}
	if collegeID != "" {
		q = q.Where("events.college_id = ?", collegeID)
	}

	rows := []EventPopularityRow{}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].PopularityPercentage = percentage(rows[i].RegistrationCount, rows[i].Capacity)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].RegistrationCount != rows[j].RegistrationCount {
			return rows[i].RegistrationCount > rows[j].RegistrationCount
		}
		return rows[i].PopularityPercentage > rows[j].PopularityPercentage
	})

	return rows, nil
}

type AttendeeRow struct {
	StudentID   string    `json:"student_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	CheckedInAt time.Time `json:"checked_in_at"`
	Method      string    `json:"method"`
}

type EventAttendanceReport struct {
	EventID         string        `json:"event_id"`
	Title           string        `json:"title"`
	TotalRegistered int           `json:"total_registered"`
	TotalAttended   int           `json:"total_attended"`
	AttendanceRate  float64       `json:"attendance_rate"`
	FeedbackCount   int           `json:"feedback_count"`
	AverageRating   *float64      `json:"average_rating"`
	Attendees       []AttendeeRow `json:"attendees"`
}

// EventAttendance reports check-in detail for one event, attendees ordered
// by check-in time.
func (s *Service) EventAttendance(ctx context.Context, eventID string) (*EventAttendanceReport, error) {
	db := s.db.WithContext(ctx)

	var event models.Event
	if err := db.First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, participation.ErrEventNotFound
		}
		return nil, err
	}

	var registered int64
	if err := db.Model(&models.Registration{}).Where("event_id = ?", eventID).Count(&registered).Error; err != nil {
		return nil, err
	}

	attendees := []AttendeeRow{}
	if err := db.Table("attendances").
		Select("attendances.student_id, students.name, students.email, attendances.checked_in_at, attendances.method").
		Joins("JOIN students ON students.id = attendances.student_id").
		Where("attendances.event_id = ?", eventID).
		Order("attendances.checked_in_at ASC").
		Scan(&attendees).Error; err != nil {
		return nil, err
	}

	var ratings []int
	if err := db.Model(&models.Feedback{}).Where("event_id = ?", eventID).Pluck("rating", &ratings).Error; err != nil {
		return nil, err
	}

	return &EventAttendanceReport{
		EventID:         event.ID,
		Title:           event.Title,
		TotalRegistered: int(registered),
		TotalAttended:   len(attendees),
		AttendanceRate:  percentage(len(attendees), int(registered)),
		FeedbackCount:   len(ratings),
		AverageRating:   averageRating(ratings),
		Attendees:       attendees,
	}, nil
}

type StudentEventRow struct {
	EventID   string  `json:"event_id"`
	Title     string  `json:"title"`
	EventType string  `json:"event_type"`
	Attended  bool    `json:"attended"`
	Rating    *int    `json:"rating"`
	Comment   *string `json:"comment"`
}

type StudentSummaryReport struct {
	StudentID          string            `json:"student_id"`
	Name               string            `json:"name"`
	Email              string            `json:"email"`
	CollegeName        string            `json:"college_name"`
	TotalRegistrations int               `json:"total_registrations"`
	TotalAttendances   int               `json:"total_attendances"`
	AttendanceRate     float64           `json:"attendance_rate"`
	TotalFeedbacks     int               `json:"total_feedbacks"`
	AverageRating      *float64          `json:"average_rating"`
	Events             []StudentEventRow `json:"events"`
}

// StudentSummary joins one student's registrations with their attendance
// and feedback records. Every row in Events is a registered event; the
// Attended flag and feedback fields fill in as the lifecycle progressed.
func (s *Service) StudentSummary(ctx context.Context, studentID string) (*StudentSummaryReport, error) {
	db := s.db.WithContext(ctx)

	var student models.Student
	if err := db.Preload("College").First(&student, "id = ?", studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, participation.ErrStudentNotFound
		}
		return nil, err
	}

	var registrations []models.Registration
	if err := db.Preload("Event").
		Where("student_id = ?", studentID).
		Order("registered_at ASC").
		Find(&registrations).Error; err != nil {
		return nil, err
	}

	var attendances []models.Attendance
	if err := db.Where("student_id = ?", studentID).Find(&attendances).Error; err != nil {
		return nil, err
	}
	attendedEvents := make(map[string]bool, len(attendances))
	for _, a := range attendances {
		attendedEvents[a.EventID] = true
	}

	var feedbacks []models.Feedback
	if err := db.Where("student_id = ?", studentID).Find(&feedbacks).Error; err != nil {
		return nil, err
	}
	feedbackByEvent := make(map[string]models.Feedback, len(feedbacks))
	ratings := make([]int, 0, len(feedbacks))
	for _, f := range feedbacks {
		feedbackByEvent[f.EventID] = f
		ratings = append(ratings, f.Rating)
	}

	events := make([]StudentEventRow, 0, len(registrations))
	for _, r := range registrations {
		row := StudentEventRow{
			EventID:   r.EventID,
			Title:     r.Event.Title,
			EventType: r.Event.EventType,
			Attended:  attendedEvents[r.EventID],
		}
		if f, ok := feedbackByEvent[r.EventID]; ok {
			rating := f.Rating
			comment := f.Comment
			row.Rating = &rating
			row.Comment = &comment
		}
		events = append(events, row)
	}

	return &StudentSummaryReport{
		StudentID:          student.ID,
		Name:               student.Name,
		Email:              student.Email,
		CollegeName:        student.College.Name,
		TotalRegistrations: len(registrations),
		TotalAttendances:   len(attendances),
		AttendanceRate:     percentage(len(attendances), len(registrations)),
		TotalFeedbacks:     len(feedbacks),
		AverageRating:      averageRating(ratings),
		Events:             events,
	}, nil
}

type ActiveStudentRow struct {
	StudentID          string   `json:"student_id"`
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	CollegeName        string   `json:"college_name"`
	TotalRegistrations int      `json:"total_registrations"`
	TotalAttendances   int      `json:"total_attendances"`
	AttendanceRate     float64  `json:"attendance_rate"`
	TotalFeedbacks     int      `json:"total_feedbacks"`
	AverageRating      *float64 `json:"average_rating"`
	ActivityScore      int      `json:"activity_score"`
}

// ActivityScore weights a student's participation counts, rewarding actual
// attendance over mere sign-up.
func ActivityScore(registrations, attendances, feedbacks int) int {
	return registrationWeight*registrations +
		attendanceWeight*attendances +
		feedbackWeight*feedbacks
}

// TopActiveStudents ranks students with at least one registration by
// activity score; ties go to more attendances, then more registrations.
func (s *Service) TopActiveStudents(ctx context.Context, limit int, collegeID string) ([]ActiveStudentRow, error) {
	if limit <= 0 {
		limit = DefaultTopStudentsLimit
	}

	db := s.db.WithContext(ctx)

	q := db.Model(&models.Student{}).Preload("College")
	if collegeID != "" {
		q = q.Where("college_id = ?", collegeID)
	}
	var students []models.Student
	if err := q.Find(&students).Error; err != nil {
		return nil, err
	}

	registrationCounts, err := countByStudent(db, &models.Registration{})
	if err != nil {
		return nil, err
	}
	attendanceCounts, err := countByStudent(db, &models.Attendance{})
	if err != nil {
		return nil, err
	}
	feedbackCounts, err := countByStudent(db, &models.Feedback{})
	if err != nil {
		return nil, err
	}
	ratingsByStudent, err := s.ratingsByStudent(db)
	if err != nil {
		return nil, err
	}

	rows := make([]ActiveStudentRow, 0, len(students))
	for _, st := range students {
		regs := registrationCounts[st.ID]
		if regs == 0 {
			continue
		}
		atts := attendanceCounts[st.ID]
		fbs := feedbackCounts[st.ID]
		rows = append(rows, ActiveStudentRow{
			StudentID:          st.ID,
			Name:               st.Name,
			Email:              st.Email,
			CollegeName:        st.College.Name,
			TotalRegistrations: regs,
			TotalAttendances:   atts,
			AttendanceRate:     percentage(atts, regs),
			TotalFeedbacks:     fbs,
			AverageRating:      averageRating(ratingsByStudent[st.ID]),
			ActivityScore:      ActivityScore(regs, atts, fbs),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ActivityScore != rows[j].ActivityScore {
			return rows[i].ActivityScore > rows[j].ActivityScore
		}
		if rows[i].TotalAttendances != rows[j].TotalAttendances {
			return rows[i].TotalAttendances > rows[j].TotalAttendances
		}
		return rows[i].TotalRegistrations > rows[j].TotalRegistrations
	})

	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

type EventTypeStatsRow struct {
	EventType          string   `json:"event_type"`
	TotalEvents        int      `json:"total_events"`
	TotalRegistrations int      `json:"total_registrations"`
	TotalAttendances   int      `json:"total_attendances"`
	AverageRating      *float64 `json:"average_rating"`
}

// EventTypeStats aggregates participation per event type, sorted by
// registrations.
func (s *Service) EventTypeStats(ctx context.Context) ([]EventTypeStatsRow, error) {
	db := s.db.WithContext(ctx)

	eventCounts, err := countByEventType(db, "events", "events.event_type")
	if err != nil {
		return nil, err
	}
	registrationCounts, err := joinCountByEventType(db, "registrations")
	if err != nil {
		return nil, err
	}
	attendanceCounts, err := joinCountByEventType(db, "attendances")
	if err != nil {
		return nil, err
	}

	type typeRating struct {
		EventType string
		Rating    int
	}
	var typeRatings []typeRating
	if err := db.Table("feedbacks").
		Select("events.event_type, feedbacks.rating").
		Joins("JOIN events ON events.id = feedbacks.event_id").
		Scan(&typeRatings).Error; err != nil {
		return nil, err
	}
	ratingsByType := make(map[string][]int)
	for _, tr := range typeRatings {
		ratingsByType[tr.EventType] = append(ratingsByType[tr.EventType], tr.Rating)
	}

	rows := make([]EventTypeStatsRow, 0, len(eventCounts))
	for eventType, total := range eventCounts {
		rows = append(rows, EventTypeStatsRow{
			EventType:          eventType,
			TotalEvents:        total,
			TotalRegistrations: registrationCounts[eventType],
			TotalAttendances:   attendanceCounts[eventType],
			AverageRating:      averageRating(ratingsByType[eventType]),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalRegistrations != rows[j].TotalRegistrations {
			return rows[i].TotalRegistrations > rows[j].TotalRegistrations
		}
		return rows[i].EventType < rows[j].EventType
	})

	return rows, nil
}

type groupCount struct {
	GroupKey string
	N        int
}

func countByStudent(db *gorm.DB, model any) (map[string]int, error) {
	var counts []groupCount
	if err := db.Model(model).
		Select("student_id AS group_key, COUNT(*) AS n").
		Group("student_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int, len(counts))
	for _, c := range counts {
		out[c.GroupKey] = c.N
	}
	return out, nil
}

func countByEventType(db *gorm.DB, table, column string) (map[string]int, error) {
	var counts []groupCount
	if err := db.Table(table).
		Select(column + " AS group_key, COUNT(*) AS n").
		Group(column).
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int, len(counts))
	for _, c := range counts {
		out[c.GroupKey] = c.N
	}
	return out, nil
}

func joinCountByEventType(db *gorm.DB, table string) (map[string]int, error) {
	var counts []groupCount
	if err := db.Table(table).
		Select("events.event_type AS group_key, COUNT(*) AS n").
		Joins("JOIN events ON events.id = " + table + ".event_id").
		Group("events.event_type").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int, len(counts))
	for _, c := range counts {
		out[c.GroupKey] = c.N
	}
	return out, nil
}

func (s *Service) ratingsByStudent(db *gorm.DB) (map[string][]int, error) {
	var feedbacks []models.Feedback
	if err := db.Find(&feedbacks).Error; err != nil {
		return nil, err
	}
	out := make(map[string][]int)
	for _, f := range feedbacks {
		out[f.StudentID] = append(out[f.StudentID], f.Rating)
	}
	return out, nil
}

// percentage is round2(n/d*100) with a zero-denominator guard: a rate over
// nothing is 0, never a division failure.
func percentage(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return round2(float64(n) / float64(d) * 100)
}

// averageRating is nil exactly when there are no ratings.
func averageRating(ratings []int) *float64 {
	if len(ratings) == 0 {
		return nil
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	avg := round2(float64(sum) / float64(len(ratings)))
	return &avg
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
