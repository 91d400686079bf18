package widget

import (
	"fmt"

	"reschool-widgets/models"
)

// Header and empty-state texts.
const (
	scheduleTitle = "Расписание"
	homeworkTitle = "Домашние задания"
	gradesTitle   = "Оценки"

	NoLessons  = "Нет уроков"
	NoHomework = "Нет заданий"
	NoGrades   = "Нет оценок"
)

// Header is shared by every view.
type Header struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	// Empty is set when there are no rows; EmptyText is then shown instead.
	Empty     bool   `json:"empty"`
	EmptyText string `json:"emptyText,omitempty"`
	// More counts rows that did not fit the family.
	More int `json:"more,omitempty"`
}

type LessonRow struct {
	Num         int    `json:"num"`
	Subject     string `json:"subject"`
	Teacher     string `json:"teacher,omitempty"`
	Time        string `json:"time,omitempty"`
	Mark        string `json:"mark,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

type ScheduleView struct {
	Header
	Rows []LessonRow `json:"rows"`
}

type HomeworkRow struct {
	Subject  string `json:"subject"`
	Text     string `json:"text"`
	Deadline string `json:"deadline,omitempty"`
	HasFiles bool   `json:"hasFiles,omitempty"`
}

type HomeworkView struct {
	Header
	Rows []HomeworkRow `json:"rows"`
}

type GradeRow struct {
	Subject string `json:"subject"`
	Average string `json:"average"`
	Rating  string `json:"rating,omitempty"`
	Band    Band   `json:"band"`
}

type GradesView struct {
	Header
	Rows []GradeRow `json:"rows"`
}

// Band buckets an average for colouring.
type Band string

const (
	BandExcellent Band = "excellent"
	BandGood      Band = "good"
	BandFair      Band = "fair"
	BandPoor      Band = "poor"
	BandUnknown   Band = "unknown"
)

// GradeBand classifies an average; text that is not a number is BandUnknown.
func GradeBand(g models.Grade) Band {
	v, ok := g.AverageValue()
	switch {
	case !ok:
		return BandUnknown
	case v >= 4.5:
		return BandExcellent
	case v >= 3.5:
		return BandGood
	case v >= 2.5:
		return BandFair
	default:
		return BandPoor
	}
}

// visible returns how many of n rows fit and how many are left over.
func visible(n, limit int) (int, int) {
	if n <= limit {
		return n, 0
	}
	return limit, n - limit
}

// NewScheduleView lays out a schedule for the given size. Teachers are
// dropped on the small widget.
func NewScheduleView(s models.ScheduleSnapshot, f Family) ScheduleView {
	v := ScheduleView{
		Header: Header{Title: scheduleTitle, Subtitle: s.Date},
		Rows:   []LessonRow{},
	}
	if len(s.Lessons) == 0 {
		v.Empty, v.EmptyText = true, NoLessons
		return v
	}

	n, more := visible(len(s.Lessons), f.Rows(Schedule))
	v.More = more
	for _, l := range s.Lessons[:n] {
		row := LessonRow{
			Num:         l.Num,
			Subject:     l.Subject,
			Placeholder: l.IsPlaceholder,
		}
		if f != Small {
			row.Teacher = l.Teacher
		}
		if l.StartTime != "" {
			row.Time = l.StartTime
			if l.EndTime != "" {
				row.Time += " - " + l.EndTime
			}
		}
		if mark, ok := l.DisplayMark(); ok {
			row.Mark = mark
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}

// NewHomeworkView lays out homework items for the given size.
func NewHomeworkView(h models.HomeworkSnapshot, f Family) HomeworkView {
	v := HomeworkView{
		Header: Header{Title: homeworkTitle},
		Rows:   []HomeworkRow{},
	}
	if len(h.Items) == 0 {
		v.Empty, v.EmptyText = true, NoHomework
		return v
	}

	v.Subtitle = fmt.Sprintf("%d заданий", len(h.Items))
	n, more := visible(len(h.Items), f.Rows(Homework))
	v.More = more
	for _, item := range h.Items[:n] {
		row := HomeworkRow{Subject: item.Subject, Text: item.Text, HasFiles: item.HasFiles}
		if deadline, ok := item.DisplayDeadline(); ok {
			row.Deadline = "До: " + deadline
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}

// NewGradesView lays out subject averages for the given size.
func NewGradesView(g models.GradesSnapshot, f Family) GradesView {
	v := GradesView{
		Header: Header{Title: gradesTitle, Subtitle: g.PeriodName},
		Rows:   []GradeRow{},
	}
	if len(g.Grades) == 0 {
		v.Empty, v.EmptyText = true, NoGrades
		return v
	}

	n, more := visible(len(g.Grades), f.Rows(Grades))
	v.More = more
	for _, grade := range g.Grades[:n] {
		row := GradeRow{Subject: grade.Subject, Average: grade.Average, Band: GradeBand(grade)}
		if rating, ok := grade.DisplayRating(); ok {
			row.Rating = rating
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}
