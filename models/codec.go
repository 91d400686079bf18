package models

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

var errNull = errors.New("expected an object, got null")

// field binds an exact JSON key to the value it fills.
type field struct {
	key string
	dst any
}

func isNull(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// decodeObject splits an object into its members. Keys are kept as written,
// so lookups below are case sensitive.
func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	if isNull(data) {
		return nil, errNull
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// decodeFields fills each field from its exact key. A missing or null member
// leaves the zero value; a member of the wrong type is an error.
func decodeFields(members map[string]json.RawMessage, fields ...field) error {
	for _, f := range fields {
		raw, ok := members[f.key]
		if !ok || isNull(raw) {
			continue
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			return fmt.Errorf("%s: %w", f.key, err)
		}
	}
	return nil
}

// decodeList reads the array under key. A missing or null array is empty;
// a null element is an error.
func decodeList[T any](members map[string]json.RawMessage, key string, decode func([]byte) (T, error)) ([]T, error) {
	out := []T{}
	raw, ok := members[key]
	if !ok || isNull(raw) {
		return out, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	for i, elem := range elems {
		v, err := decode(elem)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", key, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func decodeLesson(data []byte) (Lesson, error) {
	var l Lesson
	members, err := decodeObject(data)
	if err != nil {
		return l, err
	}
	err = decodeFields(members,
		field{"num", &l.Num},
		field{"subject", &l.Subject},
		field{"teacher", &l.Teacher},
		field{"startTime", &l.StartTime},
		field{"endTime", &l.EndTime},
		field{"mark", &l.Mark},
		field{"isPlaceholder", &l.IsPlaceholder},
	)
	return l, err
}

func decodeHomeworkItem(data []byte) (HomeworkItem, error) {
	var h HomeworkItem
	members, err := decodeObject(data)
	if err != nil {
		return h, err
	}
	err = decodeFields(members,
		field{"subject", &h.Subject},
		field{"text", &h.Text},
		field{"date", &h.Date},
		field{"deadline", &h.Deadline},
		field{"hasFiles", &h.HasFiles},
	)
	return h, err
}

func decodeGrade(data []byte) (Grade, error) {
	var g Grade
	members, err := decodeObject(data)
	if err != nil {
		return g, err
	}
	err = decodeFields(members,
		field{"subject", &g.Subject},
		field{"average", &g.Average},
		field{"rating", &g.Rating},
		field{"totalMarks", &g.TotalMarks},
	)
	return g, err
}

// DecodeSchedule parses a schedule document. Keys match exactly. Missing
// fields take their zero value and unknown fields are ignored, but a field of
// the wrong type, a null document or a null lesson fails the whole document:
// the caller gets EmptySchedule and the error.
func DecodeSchedule(data []byte) (ScheduleSnapshot, error) {
	var s ScheduleSnapshot
	members, err := decodeObject(data)
	if err == nil {
		err = decodeFields(members, field{"date", &s.Date}, field{"lastUpdated", &s.LastUpdated})
	}
	if err == nil {
		s.Lessons, err = decodeList(members, "lessons", decodeLesson)
	}
	if err != nil {
		return EmptySchedule(), fmt.Errorf("decode schedule snapshot: %w", err)
	}
	return s, nil
}

// DecodeHomework parses a homework document with the same rules as DecodeSchedule.
func DecodeHomework(data []byte) (HomeworkSnapshot, error) {
	var h HomeworkSnapshot
	members, err := decodeObject(data)
	if err == nil {
		err = decodeFields(members, field{"lastUpdated", &h.LastUpdated})
	}
	if err == nil {
		h.Items, err = decodeList(members, "items", decodeHomeworkItem)
	}
	if err != nil {
		return EmptyHomework(), fmt.Errorf("decode homework snapshot: %w", err)
	}
	return h, nil
}

// DecodeGrades parses a grades document with the same rules as DecodeSchedule.
func DecodeGrades(data []byte) (GradesSnapshot, error) {
	var g GradesSnapshot
	members, err := decodeObject(data)
	if err == nil {
		err = decodeFields(members, field{"periodName", &g.PeriodName}, field{"lastUpdated", &g.LastUpdated})
	}
	if err == nil {
		g.Grades, err = decodeList(members, "grades", decodeGrade)
	}
	if err != nil {
		return EmptyGrades(), fmt.Errorf("decode grades snapshot: %w", err)
	}
	return g, nil
}

// Encode serializes any snapshot back to the JSON the application writes.
func Encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}
