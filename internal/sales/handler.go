package sales

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/JawadErfani01/computer-management-system/internal/platform/httpx"
)

// Handler exposes the sales endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

// MountRoutes registers sales routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

// saleEnvelope wraps mutation responses so clients get both a status message
// and the recorded sale.
type saleEnvelope struct {
	Message string `json:"message"`
	Sale    *Sale  `json:"sale"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list sales", slog.Any("error", err))
		httpx.Message(w, http.StatusInternalServerError, "Error fetching sales")
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateSaleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Customer and products are required")
		return
	}

	sale, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.writeSaleError(w, err, "create sale", "Error creating sale")
		return
	}
	httpx.JSON(w, http.StatusCreated, saleEnvelope{Message: "Sale created successfully", Sale: sale})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Message(w, http.StatusNotFound, "Sale not found")
		return
	}
	sale, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrSaleNotFound) {
			httpx.Message(w, http.StatusNotFound, "Sale not found")
			return
		}
		h.logger.Error("get sale", slog.Any("error", err), slog.String("id", id.String()))
		httpx.Message(w, http.StatusInternalServerError, "Error fetching sale")
		return
	}
	httpx.JSON(w, http.StatusOK, sale)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Message(w, http.StatusNotFound, "Sale not found")
		return
	}

	var req UpdateSaleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Customer and products are required")
		return
	}

	sale, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.writeSaleError(w, err, "update sale", "Error updating sale")
		return
	}
	httpx.JSON(w, http.StatusOK, saleEnvelope{Message: "Sale updated successfully", Sale: sale})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Message(w, http.StatusNotFound, "Sale not found")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrSaleNotFound) {
			httpx.Message(w, http.StatusNotFound, "Sale not found")
			return
		}
		h.logger.Error("delete sale", slog.Any("error", err), slog.String("id", id.String()))
		httpx.Message(w, http.StatusInternalServerError, "Error deleting sale")
		return
	}
	httpx.Message(w, http.StatusOK, "Sale deleted successfully")
}

func (h *Handler) writeSaleError(w http.ResponseWriter, err error, op, fallback string) {
	var stockErr *InsufficientStockError
	switch {
	case errors.Is(err, ErrSaleNotFound):
		httpx.Message(w, http.StatusNotFound, "Sale not found")
	case errors.Is(err, ErrCustomerNotFound):
		httpx.Message(w, http.StatusNotFound, "Customer not found")
	case errors.Is(err, ErrProductNotFound):
		httpx.Message(w, http.StatusNotFound, "Product not found")
	case errors.As(err, &stockErr):
		httpx.Message(w, http.StatusBadRequest, stockErr.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Message(w, http.StatusInternalServerError, fallback)
	}
}
