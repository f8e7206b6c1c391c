package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the API under /api on the given router.
func RegisterRoutes(router *gin.Engine, h *APIHandler) {
	api := router.Group("/api")
	{
		// Distribution route
		api.POST("/distribute", h.DistributeStudents)

		// Run routes
		api.GET("/runs", h.ListRuns)
		api.GET("/runs/:runId", h.GetRun)
		api.GET("/runs/:runId/roster", h.GetRoster)
		api.GET("/runs/:runId/stats", h.GetRunStats)

		// Download routes
		api.GET("/runs/:runId/download/groups", h.DownloadGroups)
		api.GET("/runs/:runId/download/summary", h.DownloadSummary)
		api.GET("/runs/:runId/download/bundle", h.DownloadBundle)

		// Ping route
		api.GET("/ping", PingHandler)
	}
}
