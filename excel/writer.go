package excel

import (
	"archive/zip"
	"bytes"
	"fmt"
	"log"

	"github.com/xuri/excelize/v2"

	"github.com/juanguampe/student-distribution-tool/models"
)

// Excel caps sheet names at 31 characters.
const maxSheetNameLen = 31

// File names used inside the downloadable bundle.
const (
	RosterFileName  = "subgrupos_asignados.xlsx"
	SummaryFileName = "asignaciones_por_estudiante.xlsx"
)

// WriteRoster builds the group-assignment workbook: one sheet per non-empty
// sub-group, named "{choice}-G{slot}" and truncated to the Excel sheet name
// limit, with members listed in seating order.
func WriteRoster(groups []models.RosterGroup) ([]byte, error) {
	f := excelize.NewFile()
	defer closeFile(f)

	for _, group := range groups {
		sheetName := truncateSheetName(group.Key.String())
		if _, err := f.NewSheet(sheetName); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", sheetName, err)
		}
		if err := writeRow(f, sheetName, 1, ColName, ColCohort); err != nil {
			return nil, err
		}
		for i, member := range group.Members {
			if err := writeRow(f, sheetName, i+2, member.Name, member.Cohort); err != nil {
				return nil, err
			}
		}
	}

	if len(groups) > 0 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, fmt.Errorf("failed to drop default sheet: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write roster workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteSummary builds the per-student workbook: one row per student with
// their choice and assigned slot for each track.
func WriteSummary(summary []models.SummaryRow) ([]byte, error) {
	f := excelize.NewFile()
	defer closeFile(f)

	const sheetName = "Asignaciones"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to rename summary sheet: %w", err)
	}

	header := []interface{}{
		ColName, ColCohort,
		"CN_ELECCION", "CN_GRUPO",
		"CS_ELECCION", "CS_GRUPO",
		"CF_ELECCION", "CF_GRUPO",
	}
	if err := writeRow(f, sheetName, 1, header...); err != nil {
		return nil, err
	}
	for i, row := range summary {
		values := []interface{}{
			row.Name, row.Cohort,
			row.Track1, row.Slot1,
			row.Track2, row.Slot2,
			row.Track3, row.Slot3,
		}
		if err := writeRow(f, sheetName, i+2, values...); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write summary workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteBundle zips the roster and summary workbooks into one download.
func WriteBundle(result *models.Result) ([]byte, error) {
	roster, err := WriteRoster(result.Groups)
	if err != nil {
		return nil, err
	}
	summary, err := WriteSummary(result.Summary)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, file := range []struct {
		name string
		data []byte
	}{
		{RosterFileName, roster},
		{SummaryFileName, summary},
	} {
		w, err := zw.Create(file.name)
		if err != nil {
			return nil, fmt.Errorf("failed to add %s to bundle: %w", file.name, err)
		}
		if _, err := w.Write(file.data); err != nil {
			return nil, fmt.Errorf("failed to write %s into bundle: %w", file.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish bundle: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to compute cell for row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d on sheet %s: %w", row, sheet, err)
	}
	return nil
}

func truncateSheetName(name string) string {
	if len(name) > maxSheetNameLen {
		return name[:maxSheetNameLen]
	}
	return name
}

func closeFile(f *excelize.File) {
	if err := f.Close(); err != nil {
		log.Printf("Error closing excel file: %v", err)
	}
}
