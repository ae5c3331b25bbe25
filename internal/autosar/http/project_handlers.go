package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/store"
)

// createProjectReq creates an empty project, or imports Snapshot when it is set.
type createProjectReq struct {
	Name           string                  `json:"name"`
	AutosarVersion string                  `json:"autosar_version"`
	Snapshot       *domain.ProjectSnapshot `json:"snapshot"`
}

func (h *Handler) createProject(c *gin.Context) {
	var req createProjectReq
	if !bind(c, &req) {
		return
	}
	var (
		p   domain.Project
		err error
	)
	if req.Snapshot != nil {
		p, err = h.manager.ImportProject(*req.Snapshot)
	} else {
		p, err = h.manager.CreateProject(req.Name, req.AutosarVersion)
	}
	if err != nil {
		writeError(c, "create_project", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

// listProjects returns the open projects; ?source=persisted lists the repository instead.
func (h *Handler) listProjects(c *gin.Context) {
	if c.Query("source") == "persisted" {
		items, err := h.manager.Persisted(c.Request.Context())
		if err != nil {
			writeError(c, "list_projects", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": h.manager.Projects(), "current": h.manager.CurrentID()})
}

func (h *Handler) getProject(c *gin.Context) {
	st, ok := h.project(c)
	if !ok {
		return
	}
	p := st.Project()
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p, "dirty": h.manager.IsDirty(p.ID)})
}

func (h *Handler) updateProject(c *gin.Context) {
	st, ok := h.project(c)
	if !ok {
		return
	}
	var patch domain.ProjectPatch
	if !bind(c, &patch) {
		return
	}
	p, err := st.UpdateProject(patch)
	if err != nil {
		writeError(c, "update_project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) removeProject(c *gin.Context) {
	purge, _ := strconv.ParseBool(c.DefaultQuery("purge", "false"))
	if err := h.manager.RemoveProject(c.Request.Context(), c.Param("id"), purge); err != nil {
		writeError(c, "remove_project", err)
		return
	}
	h.dropBatches(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) selectProject(c *gin.Context) {
	if err := h.manager.SetCurrent(c.Param("id")); err != nil {
		writeError(c, "select_project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "current": c.Param("id")})
}

func (h *Handler) openProject(c *gin.Context) {
	p, err := h.manager.OpenProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "open_project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) saveDraft(c *gin.Context) {
	p, err := h.manager.SaveDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "save_draft", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) save(c *gin.Context) {
	p, err := h.manager.Save(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "save_project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) autoSave(c *gin.Context) {
	saved, err := h.manager.AutoSaveProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "autosave", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "saved": saved})
}

func (h *Handler) refresh(c *gin.Context) {
	p, err := h.manager.Refresh(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "refresh_project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) snapshot(c *gin.Context) {
	st, ok := h.project(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "snapshot": st.Snapshot()})
}

// validate re-checks every model invariant of the live graph.
func (h *Handler) validate(c *gin.Context) {
	st, ok := h.project(c)
	if !ok {
		return
	}
	if err := store.CheckInvariants(st.Snapshot()); err != nil {
		c.JSON(http.StatusOK, gin.H{"ok": true, "valid": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "valid": true})
}
