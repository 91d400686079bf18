package models

import (
	"math"
	"strconv"
	"strings"
)

// Storage keys the application writes each snapshot under.
const (
	ScheduleKey = "widget_schedule_data"
	HomeworkKey = "widget_homework_data"
	GradesKey   = "widget_grades_data"
)

// ScheduleSnapshot is the day's lesson list shown by the schedule widget
type ScheduleSnapshot struct {
	Date        string   `json:"date"`    // Display string, e.g. "19 декабря"
	Lessons     []Lesson `json:"lessons"` // Writer order, never re-sorted
	LastUpdated string   `json:"lastUpdated"`
}

// Lesson is a single row of the schedule
type Lesson struct {
	Num           int     `json:"num"` // 1-based position, used as identity
	Subject       string  `json:"subject"`
	Teacher       string  `json:"teacher"` // Empty means unknown
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	Mark          *string `json:"mark,omitempty"`
	IsPlaceholder bool    `json:"isPlaceholder"`
}

// HomeworkSnapshot is the list of pending assignments
type HomeworkSnapshot struct {
	Items       []HomeworkItem `json:"items"`
	LastUpdated string         `json:"lastUpdated"`
}

// HomeworkItem is a single assignment
type HomeworkItem struct {
	Subject  string  `json:"subject"`
	Text     string  `json:"text"`
	Date     string  `json:"date"`
	Deadline *string `json:"deadline,omitempty"`
	HasFiles bool    `json:"hasFiles"`
}

// GradesSnapshot holds per-subject averages for one reporting period
type GradesSnapshot struct {
	PeriodName  string  `json:"periodName"`
	Grades      []Grade `json:"grades"`
	LastUpdated string  `json:"lastUpdated"`
}

// Grade is the average of one subject
type Grade struct {
	Subject    string  `json:"subject"` // Used as identity
	Average    string  `json:"average"` // Kept verbatim to preserve the writer's formatting
	Rating     *string `json:"rating,omitempty"`
	TotalMarks *int    `json:"totalMarks,omitempty"`
}

// EmptySchedule returns the value shown when no usable schedule exists.
func EmptySchedule() ScheduleSnapshot {
	return ScheduleSnapshot{Lessons: []Lesson{}}
}

// EmptyHomework returns the value shown when no usable homework list exists.
func EmptyHomework() HomeworkSnapshot {
	return HomeworkSnapshot{Items: []HomeworkItem{}}
}

// EmptyGrades returns the value shown when no usable grades exist.
func EmptyGrades() GradesSnapshot {
	return GradesSnapshot{Grades: []Grade{}}
}

// ID returns the lesson number.
func (l Lesson) ID() int { return l.Num }

// DisplayMark returns the mark and whether it should be shown at all.
// An empty mark is treated exactly like a missing one.
func (l Lesson) DisplayMark() (string, bool) {
	return nonEmpty(l.Mark)
}

// ID returns subject and date joined together. Two items sharing both
// fields get the same ID.
func (h HomeworkItem) ID() string { return h.Subject + h.Date }

// DisplayDeadline returns the deadline and whether it should be shown.
func (h HomeworkItem) DisplayDeadline() (string, bool) {
	return nonEmpty(h.Deadline)
}

// ID returns the subject name.
func (g Grade) ID() string { return g.Subject }

// DisplayRating returns the rating label and whether it should be shown.
func (g Grade) DisplayRating() (string, bool) {
	return nonEmpty(g.Rating)
}

// AverageValue parses Average as a number. Both "4.5" and "4,5" are
// accepted; anything else reports false.
func (g Grade) AverageValue() (float64, bool) {
	s := strings.TrimSpace(strings.Replace(g.Average, ",", ".", 1))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func nonEmpty(s *string) (string, bool) {
	if s == nil || *s == "" {
		return "", false
	}
	return *s, true
}
