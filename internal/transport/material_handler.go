package transport

import (
	"errors"
	"net/http"
	"strconv"

	"material-api/internal/domain"
	"material-api/internal/response"
	"material-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const internalErrorMessage = "An unexpected server error occurred"

// MaterialHandler handles HTTP requests for material operations
type MaterialHandler struct {
	materialService service.MaterialService
	logger          *zap.Logger
}

// NewMaterialHandler creates a new MaterialHandler
func NewMaterialHandler(materialService service.MaterialService, logger *zap.Logger) *MaterialHandler {
	return &MaterialHandler{
		materialService: materialService,
		logger:          logger,
	}
}

// RegisterRoutes registers all material routes. Mutating routes sit behind
// authMiddleware.
func (h *MaterialHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/material", func(r chi.Router) {
		r.Get("/", h.List)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/create", h.Create)
			r.Put("/update/{id}", h.Update)
			r.Delete("/delete/{id}", h.Delete)
		})
	})
}

// List handles GET /api/material with optional equality filters
func (h *MaterialHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			filters[key] = values[0]
		}
	}

	materials, err := h.materialService.List(r.Context(), filters)
	if err != nil {
		response.Write(w, failureEnvelope(err))
		return
	}
	if materials == nil {
		materials = []*domain.Material{}
	}

	response.Write(w, response.Success(materials, r.Method))
}

// Create handles POST /api/material/create
func (h *MaterialHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		h.logger.Debug("Material create body rejected", zap.Error(err))
		req.reply(w, response.Failure(http.StatusBadRequest, err.Error()))
		return
	}

	material, err := h.materialService.Create(r.Context(), req.payload)
	if err != nil {
		req.reply(w, failureEnvelope(err))
		return
	}

	req.reply(w, response.Success(material, r.Method))
}

// Update handles PUT /api/material/update/{id}
func (h *MaterialHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := materialID(r)
	if !ok {
		// The body only decides the reply shape here
		req, _ := decodeRequest(r)
		req.reply(w, response.Failure(http.StatusNotFound, "Material not found"))
		return
	}

	req, err := decodeRequest(r)
	if err != nil {
		h.logger.Debug("Material update body rejected", zap.Error(err))
		req.reply(w, response.Failure(http.StatusBadRequest, err.Error()))
		return
	}

	material, err := h.materialService.Update(r.Context(), id, req.payload)
	if err != nil {
		req.reply(w, failureEnvelope(err))
		return
	}

	req.reply(w, response.Success(material, r.Method))
}

// Delete handles DELETE /api/material/delete/{id}
func (h *MaterialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := materialID(r)
	if !ok {
		response.Write(w, response.Failure(http.StatusNotFound, "Material not found"))
		return
	}

	if err := h.materialService.Delete(r.Context(), id); err != nil {
		response.Write(w, failureEnvelope(err))
		return
	}

	response.Write(w, response.Success(map[string]string{
		"message": "Material deleted successfully",
	}, r.Method))
}

func materialID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// failureEnvelope maps a service error onto the response envelope
func failureEnvelope(err error) response.Envelope {
	var serr *service.Error
	if errors.As(err, &serr) {
		return response.Failure(serr.Kind.Status(), serr.Message)
	}
	return response.Failure(http.StatusInternalServerError, internalErrorMessage)
}
