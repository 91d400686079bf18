package widget

import (
	"fmt"
	"strings"

	"reschool-widgets/models"
)

// Kind identifies a widget surface. The value is the name the host uses
// when reloading a single widget's timeline.
type Kind string

const (
	Schedule Kind = "ScheduleWidget"
	Homework Kind = "HomeworkWidget"
	Grades   Kind = "GradesWidget"
)

// Kinds lists every widget surface in display order.
var Kinds = []Kind{Schedule, Homework, Grades}

// Key returns the storage key the kind reads.
func (k Kind) Key() string {
	switch k {
	case Schedule:
		return models.ScheduleKey
	case Homework:
		return models.HomeworkKey
	case Grades:
		return models.GradesKey
	}
	return ""
}

// Short returns the lowercase name used in URLs and on the command line.
func (k Kind) Short() string {
	return strings.ToLower(strings.TrimSuffix(string(k), "Widget"))
}

// ParseKind accepts "schedule", "ScheduleWidget" and the like.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(s, string(k)) || strings.EqualFold(s, k.Short()) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown widget kind %q", s)
}

// KindForKey maps a storage key back to the widget that displays it.
func KindForKey(key string) (Kind, bool) {
	for _, k := range Kinds {
		if k.Key() == key {
			return k, true
		}
	}
	return "", false
}

// Family is the widget size.
type Family string

const (
	Small  Family = "small"
	Medium Family = "medium"
	Large  Family = "large"
)

// ParseFamily defaults to Medium for anything it does not recognise.
func ParseFamily(s string) Family {
	switch Family(strings.ToLower(s)) {
	case Small:
		return Small
	case Large:
		return Large
	}
	return Medium
}

// Rows returns how many rows the kind shows at this size.
func (f Family) Rows(k Kind) int {
	if k == Homework {
		switch f {
		case Small:
			return 2
		case Large:
			return 6
		}
		return 3
	}
	switch f {
	case Small:
		return 3
	case Large:
		return 8
	}
	return 4
}
