package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/interpreter"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/store"
)

type extractReq struct {
	Text string `json:"text"`
}

type reviewReq struct {
	Status interpreter.Status `json:"status"`
}

func (h *Handler) extract(c *gin.Context) {
	withBody(h, func(c *gin.Context, st *store.Store, req extractReq) {
		if strings.TrimSpace(req.Text) == "" {
			writeError(c, "interpret", domain.NewValidationError(domain.KindProject, "text", "must not be empty"))
			return
		}
		b := interpreter.Extract(req.Text)
		h.mu.Lock()
		h.batches[b.ID] = b
		h.owners[b.ID] = st.Project().ID
		h.mu.Unlock()
		c.JSON(http.StatusCreated, gin.H{"ok": true, "batch": b})
	})(c)
}

// batch runs fn under h.mu with the :batchId batch of the :id project.
func (h *Handler) batch(c *gin.Context, fn func(st *store.Store, b *interpreter.Batch)) {
	st, ok := h.project(c)
	if !ok {
		return
	}
	id := c.Param("batchId")
	h.mu.Lock()
	defer h.mu.Unlock()
	b, found := h.batches[id]
	if !found || h.owners[id] != st.Project().ID {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "batch not found: " + id})
		return
	}
	fn(st, b)
}

func (h *Handler) getBatch(c *gin.Context) {
	h.batch(c, func(_ *store.Store, b *interpreter.Batch) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "batch": b})
	})
}

func (h *Handler) reviewProposal(c *gin.Context) {
	var req reviewReq
	if !bind(c, &req) {
		return
	}
	h.batch(c, func(_ *store.Store, b *interpreter.Batch) {
		if err := b.Review(c.Param("propId"), req.Status); err != nil {
			writeError(c, "review_proposal", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "batch": b})
	})
}

func (h *Handler) acceptAll(c *gin.Context) {
	h.batch(c, func(_ *store.Store, b *interpreter.Batch) {
		b.AcceptAll()
		c.JSON(http.StatusOK, gin.H{"ok": true, "accepted": b.Count(interpreter.StatusAccepted)})
	})
}

// replay applies the accepted proposals to the project. Failures are reported per proposal
// and do not fail the request.
func (h *Handler) replay(c *gin.Context) {
	h.batch(c, func(st *store.Store, b *interpreter.Batch) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "report": interpreter.Replay(st, b)})
	})
}
