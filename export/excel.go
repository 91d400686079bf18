package export

import (
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/xuri/excelize/v2"
	"reschool-widgets/models"
)

// Sheet names in the exported workbook.
const (
	ScheduleSheet = "Schedule"
	HomeworkSheet = "Homework"
	GradesSheet   = "Grades"
)

var (
	scheduleHeader = []any{"№", "Предмет", "Учитель", "Начало", "Конец", "Оценка", "Замена"}
	homeworkHeader = []any{"Предмет", "Задание", "Дата", "Срок", "Файлы"}
	gradesHeader   = []any{"Предмет", "Средний балл", "Рейтинг", "Оценок"}
)

// WriteWorkbook writes the three snapshots as one .xlsx file, one sheet per
// widget, rows in the order the application wrote them.
func WriteWorkbook(w io.Writer, s models.ScheduleSnapshot, h models.HomeworkSnapshot, g models.GradesSnapshot) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Error closing excel file: %v", err)
		}
	}()

	// The default sheet becomes the schedule sheet.
	if err := f.SetSheetName(f.GetSheetName(0), ScheduleSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{HomeworkSheet, GradesSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	rows := [][]any{scheduleHeader}
	for _, l := range s.Lessons {
		mark, _ := l.DisplayMark()
		rows = append(rows, []any{l.Num, l.Subject, l.Teacher, l.StartTime, l.EndTime, mark, yesNo(l.IsPlaceholder)})
	}
	if err := writeRows(f, ScheduleSheet, rows); err != nil {
		return err
	}

	rows = [][]any{homeworkHeader}
	for _, item := range h.Items {
		deadline, _ := item.DisplayDeadline()
		rows = append(rows, []any{item.Subject, item.Text, item.Date, deadline, yesNo(item.HasFiles)})
	}
	if err := writeRows(f, HomeworkSheet, rows); err != nil {
		return err
	}

	rows = [][]any{gradesHeader}
	for _, grade := range g.Grades {
		rating, _ := grade.DisplayRating()
		total := ""
		if grade.TotalMarks != nil {
			total = strconv.Itoa(*grade.TotalMarks)
		}
		// Averages stay text so "4,50" keeps its formatting.
		rows = append(rows, []any{grade.Subject, grade.Average, rating, total})
	}
	if err := writeRows(f, GradesSheet, rows); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "да"
	}
	return ""
}
