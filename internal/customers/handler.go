package customers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JawadErfani01/computer-management-system/internal/platform/httpx"
)

// Handler exposes customer CRUD endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers customer routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list customers", slog.Any("error", err))
		httpx.Message(w, http.StatusInternalServerError, "Error fetching customers")
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "All fields are required")
		return
	}

	customer, err := h.service.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrFieldsRequired):
			httpx.Message(w, http.StatusBadRequest, "All fields are required")
		case errors.Is(err, ErrAlreadyExists):
			httpx.Message(w, http.StatusBadRequest, "Email already exists")
		default:
			h.logger.Error("create customer", slog.Any("error", err))
			httpx.Message(w, http.StatusInternalServerError, "Error creating customer")
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, customer)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Message(w, http.StatusNotFound, "Customer not found")
		return
	}
	customer, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Message(w, http.StatusNotFound, "Customer not found")
			return
		}
		h.logger.Error("get customer", slog.Any("error", err), slog.String("id", id.String()))
		httpx.Message(w, http.StatusInternalServerError, "Error fetching customer")
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Message(w, http.StatusNotFound, "Customer not found")
		return
	}

	var req UpdateCustomerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	customer, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpx.Message(w, http.StatusNotFound, "Customer not found")
		case errors.Is(err, ErrAlreadyExists):
			httpx.Message(w, http.StatusBadRequest, "Email already exists")
		case errors.Is(err, ErrFieldsRequired):
			httpx.Message(w, http.StatusBadRequest, "Invalid request body")
		default:
			h.logger.Error("update customer", slog.Any("error", err), slog.String("id", id.String()))
			httpx.Message(w, http.StatusInternalServerError, "Error updating customer")
		}
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Message(w, http.StatusNotFound, "Customer not found")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Message(w, http.StatusNotFound, "Customer not found")
			return
		}
		h.logger.Error("delete customer", slog.Any("error", err), slog.String("id", id.String()))
		httpx.Message(w, http.StatusInternalServerError, "Error deleting customer")
		return
	}
	httpx.Message(w, http.StatusOK, "Customer deleted successfully")
}
