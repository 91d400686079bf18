package widget

import (
	"context"
	"reflect"
	"testing"
	"time"

	"reschool-widgets/db"
	"reschool-widgets/models"
	"reschool-widgets/retrieval"
)

func strPtr(s string) *string { return &s }

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"schedule":       Schedule,
		"Homework":       Homework,
		"GradesWidget":   Grades,
		"scheduleWidget": Schedule,
	}
	for in, want := range cases {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseKind("weather"); err == nil {
		t.Errorf("expected error for unknown kind")
	}
}

func TestKindKeys(t *testing.T) {
	for _, k := range Kinds {
		back, ok := KindForKey(k.Key())
		if !ok || back != k {
			t.Errorf("key %q does not map back to %q", k.Key(), k)
		}
	}
	if _, ok := KindForKey("widget_weather_data"); ok {
		t.Errorf("expected unknown key to have no kind")
	}
}

func TestFamilyRows(t *testing.T) {
	cases := []struct {
		kind Kind
		fam  Family
		want int
	}{
		{Schedule, Small, 3}, {Schedule, Medium, 4}, {Schedule, Large, 8},
		{Homework, Small, 2}, {Homework, Medium, 3}, {Homework, Large, 6},
		{Grades, Small, 3}, {Grades, Medium, 4}, {Grades, Large, 8},
	}
	for _, tc := range cases {
		if got := tc.fam.Rows(tc.kind); got != tc.want {
			t.Errorf("%s/%s rows = %d, want %d", tc.kind, tc.fam, got, tc.want)
		}
	}
	if ParseFamily("LARGE") != Large || ParseFamily("") != Medium || ParseFamily("huge") != Medium {
		t.Errorf("unexpected family parsing")
	}
}

func TestGradeBand(t *testing.T) {
	cases := map[string]Band{
		"5":    BandExcellent,
		"4.5":  BandExcellent,
		"4,2":  BandGood,
		"3.5":  BandGood,
		"2.5":  BandFair,
		"2.49": BandPoor,
		"":     BandUnknown,
		"н/а":  BandUnknown,
	}
	for avg, want := range cases {
		if got := GradeBand(models.Grade{Average: avg}); got != want {
			t.Errorf("GradeBand(%q) = %s, want %s", avg, got, want)
		}
	}
}

func TestScheduleView(t *testing.T) {
	s := models.ScheduleSnapshot{Date: "19 декабря"}
	for i := 1; i <= 6; i++ {
		s.Lessons = append(s.Lessons, models.Lesson{Num: i, Subject: "S", Teacher: "T", StartTime: "08:30", EndTime: "09:15"})
	}
	s.Lessons[0].Mark = strPtr("5")
	s.Lessons[1].Mark = strPtr("")

	small := NewScheduleView(s, Small)
	if len(small.Rows) != 3 || small.More != 3 {
		t.Fatalf("expected 3 rows and 3 more on small, got %d/%d", len(small.Rows), small.More)
	}
	if small.Rows[0].Teacher != "" {
		t.Errorf("expected teacher to be hidden on small")
	}
	if small.Rows[0].Mark != "5" || small.Rows[1].Mark != "" {
		t.Errorf("unexpected marks: %q %q", small.Rows[0].Mark, small.Rows[1].Mark)
	}
	if small.Rows[0].Time != "08:30 - 09:15" {
		t.Errorf("unexpected time %q", small.Rows[0].Time)
	}
	if small.Subtitle != "19 декабря" || small.Empty {
		t.Errorf("unexpected header %+v", small.Header)
	}

	large := NewScheduleView(s, Large)
	if len(large.Rows) != 6 || large.More != 0 || large.Rows[0].Teacher != "T" {
		t.Errorf("unexpected large view %+v", large)
	}
	for i, row := range large.Rows {
		if row.Num != i+1 {
			t.Errorf("expected writer order to be kept, row %d has num %d", i, row.Num)
		}
	}
}

func TestEmptyViews(t *testing.T) {
	sv := NewScheduleView(models.EmptySchedule(), Medium)
	if !sv.Empty || sv.EmptyText != NoLessons || len(sv.Rows) != 0 || sv.Subtitle != "" {
		t.Errorf("unexpected empty schedule view %+v", sv)
	}
	hv := NewHomeworkView(models.EmptyHomework(), Medium)
	if !hv.Empty || hv.EmptyText != NoHomework || hv.Subtitle != "" {
		t.Errorf("unexpected empty homework view %+v", hv)
	}
	gv := NewGradesView(models.EmptyGrades(), Medium)
	if !gv.Empty || gv.EmptyText != NoGrades {
		t.Errorf("unexpected empty grades view %+v", gv)
	}
}

func TestHomeworkAndGradesViews(t *testing.T) {
	h := models.HomeworkSnapshot{Items: []models.HomeworkItem{
		{Subject: "Русский", Text: "Упр. 5", Date: "20.12", Deadline: strPtr("21.12"), HasFiles: true},
		{Subject: "Химия", Text: "§3", Date: "22.12", Deadline: strPtr("")},
		{Subject: "Физика", Text: "№7", Date: "23.12"},
	}}
	hv := NewHomeworkView(h, Small)
	if len(hv.Rows) != 2 || hv.More != 1 || hv.Subtitle != "3 заданий" {
		t.Fatalf("unexpected homework view %+v", hv)
	}
	if hv.Rows[0].Deadline != "До: 21.12" || !hv.Rows[0].HasFiles || hv.Rows[1].Deadline != "" {
		t.Errorf("unexpected homework rows %+v", hv.Rows)
	}

	g := models.GradesSnapshot{PeriodName: "2 четверть", Grades: []models.Grade{
		{Subject: "A", Average: "4.8", Rating: strPtr("отлично")},
		{Subject: "B", Average: "-", Rating: strPtr("")},
	}}
	gv := NewGradesView(g, Medium)
	expected := []GradeRow{
		{Subject: "A", Average: "4.8", Rating: "отлично", Band: BandExcellent},
		{Subject: "B", Average: "-", Band: BandUnknown},
	}
	if !reflect.DeepEqual(gv.Rows, expected) || gv.Subtitle != "2 четверть" {
		t.Errorf("unexpected grades view %+v", gv)
	}
}

func TestProviderTimeline(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	chain := &retrieval.Chain{
		Sources: []retrieval.Source{retrieval.StoreSource{Label: "store", Store: store}},
		Logger:  retrieval.Silent(),
	}
	now := time.Date(2026, 12, 19, 8, 0, 0, 0, time.UTC)

	p := NewGradesProvider(chain, 0)
	p.Now = func() time.Time { return now }

	placeholder := p.Placeholder()
	if !reflect.DeepEqual(placeholder.Data, models.EmptyGrades()) || !placeholder.Date.Equal(now) {
		t.Errorf("unexpected placeholder %+v", placeholder)
	}

	tl := p.Timeline(ctx)
	if len(tl.Entries) != 1 || tl.Entries[0].Source != "" {
		t.Fatalf("expected one empty entry, got %+v", tl)
	}
	if !tl.NextUpdate.Equal(now.Add(30 * time.Minute)) {
		t.Errorf("expected refresh in 30 minutes, got %s", tl.NextUpdate)
	}

	_ = store.Set(ctx, models.GradesKey, `{"periodName":"I","grades":[{"subject":"A","average":"5"}]}`)
	entry := p.Snapshot(ctx)
	if entry.Source != "store" || entry.Data.PeriodName != "I" || len(entry.Data.Grades) != 1 {
		t.Errorf("expected stored grades, got %+v", entry)
	}

	sp := NewScheduleProvider(chain, time.Hour)
	sp.Now = func() time.Time { return now }
	if got := sp.Timeline(ctx).NextUpdate; !got.Equal(now.Add(time.Hour)) {
		t.Errorf("expected custom refresh interval, got %s", got)
	}
	if hp := NewHomeworkProvider(chain, 0); hp.Kind != Homework {
		t.Errorf("unexpected homework provider kind %s", hp.Kind)
	}
}
