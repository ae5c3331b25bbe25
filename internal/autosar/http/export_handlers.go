package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/graph/export"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/naming"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/store"
)

var exportFormats = map[string]struct {
	contentType string
	ext         string
}{
	"arxml": {"application/xml", ".arxml"},
	"yaml":  {"application/yaml", ".yaml"},
	"json":  {"application/json", ".json"},
}

func (h *Handler) render(format string, snap domain.ProjectSnapshot) ([]byte, error) {
	switch format {
	case "yaml":
		return export.EncodeYAML(snap)
	case "json":
		return export.EncodeJSON(snap)
	}
	return h.exporter.Export(snap)
}

// export answers GET /:id/export/:format with the whole project as a download.
func (h *Handler) export(c *gin.Context) {
	format := strings.ToLower(c.Param("format"))
	f, ok := exportFormats[format]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "unsupported format: " + format})
		return
	}
	h.withStore(func(c *gin.Context, st *store.Store) {
		snap := st.Snapshot()
		doc, err := h.render(format, snap)
		if err != nil {
			writeError(c, "export_"+format, err)
			return
		}
		if h.archive != nil {
			rec, err := h.archive.Record(c.Request.Context(), snap.Project.ID, format, snap.Project.LastModified, doc)
			if err != nil {
				writeError(c, "archive_export", err)
				return
			}
			c.Header("X-Export-Id", rec.ID)
		}
		name := naming.SanitizeShortName(snap.Project.Name) + f.ext
		c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
		c.Data(http.StatusOK, f.contentType, doc)
	})(c)
}

func (h *Handler) exportDOT(c *gin.Context) {
	h.withStore(func(c *gin.Context, st *store.Store) {
		dot, err := export.ToDOT(st.Snapshot(), c.Param("compId"))
		if err != nil {
			writeError(c, "export_dot", err)
			return
		}
		c.Data(http.StatusOK, "text/vnd.graphviz", []byte(dot))
	})(c)
}

func (h *Handler) archiveEnabled(c *gin.Context) bool {
	if h.archive == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"ok": false, "error": "export archive is disabled"})
		return false
	}
	return true
}

func (h *Handler) listExports(c *gin.Context) {
	if !h.archiveEnabled(c) {
		return
	}
	h.withStore(func(c *gin.Context, st *store.Store) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "limit must be a positive integer"})
			return
		}
		recs, err := h.archive.List(c.Request.Context(), st.Project().ID, limit)
		reply(c, "list_exports", http.StatusOK, "exports", recs, err)
	})(c)
}

// getExport returns an archived document exactly as it was generated.
func (h *Handler) getExport(c *gin.Context) {
	if !h.archiveEnabled(c) {
		return
	}
	h.withStore(func(c *gin.Context, st *store.Store) {
		rec, err := h.archive.Get(c.Request.Context(), c.Param("exportId"))
		if err != nil {
			writeError(c, "get_export", err)
			return
		}
		if rec.ProjectID != st.Project().ID {
			writeError(c, "get_export", domain.NewNotFoundError(domain.KindProject, rec.ID))
			return
		}
		ct := "application/octet-stream"
		if f, ok := exportFormats[rec.Format]; ok {
			ct = f.contentType
		}
		c.Data(http.StatusOK, ct, rec.Document)
	})(c)
}
