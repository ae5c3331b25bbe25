// Package http exposes the project lifecycle, the entity store, the exporters and the
// requirement interpreter over a gin router.
package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/arxml"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/interpreter"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/lifecycle"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/repository"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/store"
	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/platform/logger"
)

// ExportArchive keeps a copy of every generated document. It is optional.
type ExportArchive interface {
	Record(ctx context.Context, projectID, format string, lastModified time.Time, doc []byte) (*repository.ExportRecord, error)
	List(ctx context.Context, projectID string, limit int) ([]repository.ExportRecord, error)
	Get(ctx context.Context, id string) (*repository.ExportRecord, error)
}

type Handler struct {
	manager  *lifecycle.Manager
	exporter *arxml.Exporter
	archive  ExportArchive

	mu      sync.Mutex
	batches map[string]*interpreter.Batch // keyed by batch id
	owners  map[string]string             // batch id -> project id
}

// New builds the handler. archive may be nil.
func New(manager *lifecycle.Manager, exporter *arxml.Exporter, archive ExportArchive) *Handler {
	if exporter == nil {
		exporter = arxml.NewExporter()
	}
	return &Handler{
		manager:  manager,
		exporter: exporter,
		archive:  archive,
		batches:  map[string]*interpreter.Batch{},
		owners:   map[string]string{},
	}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrIncompatibleReference):
		return http.StatusUnprocessableEntity
	}
	// arxml.ErrUnresolvedReference means the graph broke an invariant; it lands here and is logged
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, op string, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.NewLogger(c.Request.Context()).LogError(op, err)
	}
	body := gin.H{"ok": false, "error": err.Error()}
	var ee *domain.EntityError
	if errors.As(err, &ee) {
		body["kind"] = ee.Kind
		if ee.Field != "" {
			body["field"] = ee.Field
		}
	}
	c.JSON(code, body)
}

func badBody(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body: " + err.Error()})
}

// dropBatches forgets the interpreter batches extracted for a project.
func (h *Handler) dropBatches(projectID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, owner := range h.owners {
		if owner == projectID {
			delete(h.owners, id)
			delete(h.batches, id)
		}
	}
}

// project returns the store of the :id project.
func (h *Handler) project(c *gin.Context) (*store.Store, bool) {
	st, err := h.manager.Store(c.Param("id"))
	if err != nil {
		writeError(c, "get_project", err)
		return nil, false
	}
	return st, true
}

// bind decodes the JSON body into v, answering 400 on failure.
func bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		badBody(c, err)
		return false
	}
	return true
}
