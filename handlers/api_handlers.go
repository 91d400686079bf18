package handlers

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"reschool-widgets/export"
	"reschool-widgets/retrieval"
	"reschool-widgets/widget"
	"reschool-widgets/writer"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// APIHandler holds the dependencies for API handlers: the writer for the
// application side and the retrieval chain for the widget side
type APIHandler struct {
	Writer          *writer.Writer
	Chain           *retrieval.Chain
	RefreshInterval time.Duration
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(w *writer.Writer, chain *retrieval.Chain, refresh time.Duration) *APIHandler {
	return &APIHandler{
		Writer:          w,
		Chain:           chain,
		RefreshInterval: refresh,
	}
}

// RegisterRoutes mounts the widget API under /api
func (h *APIHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// Writer side
		api.POST("/widgets/data", h.SaveWidgetData)
		api.POST("/widgets/reload", h.ReloadWidgets)
		api.POST("/widgets/reload/:kind", h.ReloadWidget)

		// Reader side
		api.GET("/widgets/export", h.ExportWorkbook)
		api.GET("/widgets/:kind", h.GetWidget)

		api.GET("/ping", PingHandler)
	}
}

// writeError turns writer errors into responses. Request errors are the
// caller's fault; everything else is ours.
func writeError(c *gin.Context, err error) {
	var reqErr *writer.RequestError
	if errors.As(err, &reqErr) {
		c.JSON(http.StatusBadRequest, reqErr)
		return
	}
	log.Printf("Error handling %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save widget data"})
}

// --- Writer Handlers ---

// SaveWidgetData handles POST /api/widgets/data
func (h *APIHandler) SaveWidgetData(c *gin.Context) {
	var req writer.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": writer.CodeInvalidArgs, "error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.Writer.Save(c.Request.Context(), req); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ReloadWidgets handles POST /api/widgets/reload
func (h *APIHandler) ReloadWidgets(c *gin.Context) {
	if err := h.Writer.ReloadAll(c.Request.Context()); err != nil {
		log.Printf("Error in ReloadWidgets handler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload widgets"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ReloadWidget handles POST /api/widgets/reload/:kind
func (h *APIHandler) ReloadWidget(c *gin.Context) {
	kind := c.Param("kind")
	if err := h.Writer.Reload(c.Request.Context(), writer.ReloadRequest{Kind: &kind}); err != nil {
		var reqErr *writer.RequestError
		if errors.As(err, &reqErr) {
			c.JSON(http.StatusBadRequest, reqErr)
			return
		}
		log.Printf("Error in ReloadWidget handler for %s: %v", kind, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload widget"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "kind": kind})
}

// --- Reader Handlers ---

// GetWidget handles GET /api/widgets/:kind?family=small|medium|large.
// Missing or broken data is not an error: the empty snapshot and its empty
// view are returned with 200.
func (h *APIHandler) GetWidget(c *gin.Context) {
	kind, err := widget.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Widget not found"})
		return
	}
	family := widget.ParseFamily(c.Query("family"))
	ctx := c.Request.Context()

	switch kind {
	case widget.Schedule:
		tl := widget.NewScheduleProvider(h.Chain, h.RefreshInterval).Timeline(ctx)
		entry := tl.Entries[0]
		c.JSON(http.StatusOK, gin.H{"kind": kind, "family": family, "source": entry.Source, "nextUpdate": tl.NextUpdate,
			"data": entry.Data, "view": widget.NewScheduleView(entry.Data, family)})
	case widget.Homework:
		tl := widget.NewHomeworkProvider(h.Chain, h.RefreshInterval).Timeline(ctx)
		entry := tl.Entries[0]
		c.JSON(http.StatusOK, gin.H{"kind": kind, "family": family, "source": entry.Source, "nextUpdate": tl.NextUpdate,
			"data": entry.Data, "view": widget.NewHomeworkView(entry.Data, family)})
	case widget.Grades:
		tl := widget.NewGradesProvider(h.Chain, h.RefreshInterval).Timeline(ctx)
		entry := tl.Entries[0]
		c.JSON(http.StatusOK, gin.H{"kind": kind, "family": family, "source": entry.Source, "nextUpdate": tl.NextUpdate,
			"data": entry.Data, "view": widget.NewGradesView(entry.Data, family)})
	}
}

// ExportWorkbook handles GET /api/widgets/export
func (h *APIHandler) ExportWorkbook(c *gin.Context) {
	ctx := c.Request.Context()
	schedule := h.Chain.LoadSchedule(ctx)
	homework := h.Chain.LoadHomework(ctx)
	grades := h.Chain.LoadGrades(ctx)

	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, schedule.Value, homework.Value, grades.Value); err != nil {
		log.Printf("Error exporting workbook: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export widgets"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="widgets.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// --- Ping Handler ---
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Pong!"})
}
