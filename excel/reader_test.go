package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/juanguampe/student-distribution-tool/models"
)

// buildWorkbook writes rows onto the default sheet and returns the xlsx bytes.
func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer func() { require.NoError(t, f.Close()) }()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestReadStudents(t *testing.T) {
	t.Run("parses records with optional cohort column", func(t *testing.T) {
		r := buildWorkbook(t, [][]interface{}{
			{"NOMBRE", "GROUP", "CN", "CS", "CF"},
			{"ana", "11A", "CN1", "CS1", "CF1"},
			{"ben", "11B", "CN2", "CS2", "CF2"},
		})

		students, err := ReadStudents(r)

		require.NoError(t, err)
		require.Equal(t, []models.StudentRecord{
			{Name: "ana", Cohort: "11A", Track1: "CN1", Track2: "CS1", Track3: "CF1"},
			{Name: "ben", Cohort: "11B", Track1: "CN2", Track2: "CS2", Track3: "CF2"},
		}, students)
	})

	t.Run("cohort column may be absent", func(t *testing.T) {
		r := buildWorkbook(t, [][]interface{}{
			{"NOMBRE", "CN", "CS", "CF"},
			{"ana", "CN1", "CS1", "CF1"},
		})

		students, err := ReadStudents(r)

		require.NoError(t, err)
		require.Len(t, students, 1)
		require.Empty(t, students[0].Cohort)
		require.Equal(t, "CN1", students[0].Track1)
	})

	t.Run("reports every missing required column", func(t *testing.T) {
		r := buildWorkbook(t, [][]interface{}{
			{"NOMBRE", "GROUP", "CN"},
			{"ana", "11A", "CN1"},
		})

		_, err := ReadStudents(r)

		require.Error(t, err)
		require.Contains(t, err.Error(), "CS")
		require.Contains(t, err.Error(), "CF")
		require.NotContains(t, err.Error(), "NOMBRE")
	})

	t.Run("skips blank rows and short rows keep empty fields", func(t *testing.T) {
		r := buildWorkbook(t, [][]interface{}{
			{"NOMBRE", "GROUP", "CN", "CS", "CF"},
			{"ana", "11A", "CN1", "CS1", "CF1"},
			{"", "", "", "", ""},
			{"ben", "11B", "CN2"},
		})

		students, err := ReadStudents(r)

		require.NoError(t, err)
		require.Len(t, students, 2)
		require.Equal(t, "ben", students[1].Name)
		require.Empty(t, students[1].Track2)
		require.Empty(t, students[1].Track3)
	})

	t.Run("rejects a stream that is not an xlsx file", func(t *testing.T) {
		_, err := ReadStudents(bytes.NewReader([]byte("not a spreadsheet")))

		require.Error(t, err)
	})
}
