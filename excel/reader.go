package excel

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/juanguampe/student-distribution-tool/models"
)

// Column names expected on the uploaded choice sheet. GROUP is optional and
// passed through to the output untouched.
const (
	ColName   = "NOMBRE"
	ColCohort = "GROUP"
	ColTrack1 = "CN"
	ColTrack2 = "CS"
	ColTrack3 = "CF"
)

// ReadStudents parses the first sheet of an uploaded xlsx stream into student
// records. The header row must contain the NOMBRE, CN, CS and CF columns; a
// missing required column aborts the whole batch before any distribution
// runs. Fully blank data rows are skipped.
func ReadStudents(r io.Reader) ([]models.StudentRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Error closing excel file: %v", err)
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("excel file does not contain any sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows from sheet %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, errors.New("excel file has no header row")
	}

	columns, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	students := make([]models.StudentRecord, 0, len(rows)-1)
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		record := models.StudentRecord{
			Name:   cellAt(row, columns[ColName]),
			Cohort: cellAt(row, columns[ColCohort]),
			Track1: cellAt(row, columns[ColTrack1]),
			Track2: cellAt(row, columns[ColTrack2]),
			Track3: cellAt(row, columns[ColTrack3]),
		}
		if record == (models.StudentRecord{}) {
			log.Printf("Skipping blank row %d", i+1)
			continue
		}
		students = append(students, record)
	}
	return students, nil
}

// mapColumns resolves header names to column indexes and reports every
// missing required column at once.
func mapColumns(header []string) (map[string]int, error) {
	columns := map[string]int{
		ColName:   -1,
		ColCohort: -1,
		ColTrack1: -1,
		ColTrack2: -1,
		ColTrack3: -1,
	}
	for i, cell := range header {
		name := strings.TrimSpace(cell)
		if _, ok := columns[name]; ok {
			columns[name] = i
		}
	}

	var missing []string
	for _, required := range []string{ColName, ColTrack1, ColTrack2, ColTrack3} {
		if columns[required] == -1 {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return columns, nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
