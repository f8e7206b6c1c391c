package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/juanguampe/student-distribution-tool/db"
	"github.com/juanguampe/student-distribution-tool/distribute"
	"github.com/juanguampe/student-distribution-tool/excel"
)

// APIHandler holds the dependencies for API handlers, like the run store
type APIHandler struct {
	Store db.RunStore
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(store db.RunStore) *APIHandler {
	return &APIHandler{
		Store: store,
	}
}

// progressLogInterval controls how often the engine's progress callback is
// echoed to the server log on large uploads.
const progressLogInterval = 50

// --- Distribution Handler ---

// DistributeStudents handles POST /api/distribute. It expects a multipart
// form with an xlsx "file" and an optional integer "seed"; without a seed the
// clock picks one.
func (h *APIHandler) DistributeStudents(c *gin.Context) {
	seed, err := parseSeed(c.PostForm("seed"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'seed' value: " + err.Error()})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		log.Printf("Error getting form file: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error retrieving uploaded file: " + err.Error()})
		return
	}
	defer file.Close()

	log.Printf("Received file upload: %s (seed %d)", header.Filename, seed)

	students, err := excel.ReadStudents(file)
	if err != nil {
		// Validation failures abort the batch before any distribution runs.
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student file: " + err.Error()})
		return
	}

	result, runErrs := distribute.Run(students, seed, func(processed, total int) {
		if processed%progressLogInterval == 0 || processed == total {
			log.Printf("Distributing students: %d/%d", processed, total)
		}
	})

	errMessages := make([]string, 0, len(runErrs))
	for _, runErr := range runErrs {
		errMessages = append(errMessages, runErr.Error())
	}

	run := &db.Run{
		ID:        uuid.NewString(),
		Seed:      seed,
		CreatedAt: time.Now().UTC(),
		Students:  students,
		Result:    result,
		Errors:    errMessages,
	}
	if err := h.Store.SaveRun(run); err != nil {
		log.Printf("Error saving run %s: %v", run.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save distribution run"})
		return
	}

	log.Printf("Run %s: seated %d of %d students", run.ID, result.Seated, result.Total)
	c.JSON(http.StatusOK, gin.H{
		"runId":       run.ID,
		"seed":        run.Seed,
		"seatedCount": result.Seated,
		"totalCount":  result.Total,
		"errors":      errMessages,
		"stats":       groupSizeStats(run),
	})
}

// parseSeed interprets the optional seed form field; an empty field derives a
// seed from the clock, modulo 10000 to keep it short enough to retype.
func parseSeed(raw string) (int64, error) {
	if raw == "" {
		return time.Now().Unix() % 10000, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

// --- Run Handlers ---

// ListRuns handles GET /api/runs
func (h *APIHandler) ListRuns(c *gin.Context) {
	ids, err := h.Store.ListRunIDs()
	if err != nil {
		log.Printf("Error in ListRuns handler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list runs"})
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": ids})
}

// GetRun handles GET /api/runs/:runId
func (h *APIHandler) GetRun(c *gin.Context) {
	run, ok := h.fetchRun(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"runId":       run.ID,
		"seed":        run.Seed,
		"createdAt":   run.CreatedAt,
		"seatedCount": run.Result.Seated,
		"totalCount":  run.Result.Total,
		"errors":      run.Errors,
		"summary":     run.Result.Summary,
	})
}

// GetRoster handles GET /api/runs/:runId/roster
func (h *APIHandler) GetRoster(c *gin.Context) {
	run, ok := h.fetchRun(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"runId":  run.ID,
		"groups": run.Result.Groups,
	})
}

// GetRunStats handles GET /api/runs/:runId/stats
func (h *APIHandler) GetRunStats(c *gin.Context) {
	run, ok := h.fetchRun(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"runId": run.ID,
		"stats": groupSizeStats(run),
	})
}

// --- Download Handlers ---

// DownloadGroups handles GET /api/runs/:runId/download/groups
func (h *APIHandler) DownloadGroups(c *gin.Context) {
	run, ok := h.fetchRun(c)
	if !ok {
		return
	}
	data, err := excel.WriteRoster(run.Result.Groups)
	if err != nil {
		log.Printf("Error building roster workbook for run %s: %v", run.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build roster workbook"})
		return
	}
	sendAttachment(c, excel.RosterFileName, xlsxContentType, data)
}

// DownloadSummary handles GET /api/runs/:runId/download/summary
func (h *APIHandler) DownloadSummary(c *gin.Context) {
	run, ok := h.fetchRun(c)
	if !ok {
		return
	}
	data, err := excel.WriteSummary(run.Result.Summary)
	if err != nil {
		log.Printf("Error building summary workbook for run %s: %v", run.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build summary workbook"})
		return
	}
	sendAttachment(c, excel.SummaryFileName, xlsxContentType, data)
}

// DownloadBundle handles GET /api/runs/:runId/download/bundle
func (h *APIHandler) DownloadBundle(c *gin.Context) {
	run, ok := h.fetchRun(c)
	if !ok {
		return
	}
	data, err := excel.WriteBundle(run.Result)
	if err != nil {
		log.Printf("Error building bundle for run %s: %v", run.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build download bundle"})
		return
	}
	sendAttachment(c, "asignaciones.zip", "application/zip", data)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func sendAttachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}

// fetchRun loads the run named in the route or writes the error response and
// returns false.
func (h *APIHandler) fetchRun(c *gin.Context) (*db.Run, bool) {
	runID := c.Param("runId")
	if runID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Run ID is required"})
		return nil, false
	}

	run, err := h.Store.GetRun(runID)
	if err != nil {
		log.Printf("Error fetching run %s: %v", runID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve run"})
		return nil, false
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return nil, false
	}
	return run, true
}

// groupSizeStats tallies sub-group sizes per track, keyed by the sub-group's
// display name.
func groupSizeStats(run *db.Run) map[string]map[string]int {
	track1, track2, track3 := map[string]bool{}, map[string]bool{}, map[string]bool{}
	for _, s := range run.Students {
		track1[s.Track1] = true
		track2[s.Track2] = true
		track3[s.Track3] = true
	}

	stats := map[string]map[string]int{
		"track1": {},
		"track2": {},
		"track3": {},
	}
	for _, group := range run.Result.Groups {
		size := len(group.Members)
		name := group.Key.String()
		// A choice string shared between tracks counts under each of them.
		if track1[group.Key.Choice] {
			stats["track1"][name] = size
		}
		if track2[group.Key.Choice] {
			stats["track2"][name] = size
		}
		if track3[group.Key.Choice] {
			stats["track3"][name] = size
		}
	}
	return stats
}

// --- Ping Handler ---
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Pong!"})
}
