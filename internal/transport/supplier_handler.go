package transport

import (
	"net/http"

	"material-api/internal/domain"
	"material-api/internal/middleware"
	"material-api/internal/response"
	"material-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateSupplierRequest represents the supplier creation payload
type CreateSupplierRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// SupplierHandler handles HTTP requests for supplier operations
type SupplierHandler struct {
	supplierService service.SupplierService
	logger          *zap.Logger
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(supplierService service.SupplierService, logger *zap.Logger) *SupplierHandler {
	return &SupplierHandler{
		supplierService: supplierService,
		logger:          logger,
	}
}

// RegisterRoutes registers all supplier routes
func (h *SupplierHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/supplier", func(r chi.Router) {
		r.Get("/", h.List)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/create", h.Create)
		})
	})
}

// List handles GET /api/supplier
func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.supplierService.List(r.Context())
	if err != nil {
		response.Write(w, failureEnvelope(err))
		return
	}
	if suppliers == nil {
		suppliers = []*domain.Supplier{}
	}

	response.Write(w, response.Success(suppliers, r.Method))
}

// Create handles POST /api/supplier/create
func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSupplierRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Supplier validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	supplier, err := h.supplierService.Create(r.Context(), req.Name)
	if err != nil {
		response.Write(w, failureEnvelope(err))
		return
	}

	response.Write(w, response.Success(supplier, r.Method))
}
