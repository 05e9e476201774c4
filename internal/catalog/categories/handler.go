package categories

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JawadErfani01/computer-management-system/internal/platform/httpx"
)

// Handler exposes category CRUD endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers category routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list categories", slog.Any("error", err))
		httpx.Message(w, http.StatusInternalServerError, "Server error")
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req UpsertCategoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.CategoryName == "" {
		httpx.Message(w, http.StatusBadRequest, "Category name is required")
		return
	}

	category, err := h.service.Create(r.Context(), req.CategoryName)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			httpx.Message(w, http.StatusBadRequest, "Category already exists")
			return
		}
		h.logger.Error("create category", slog.Any("error", err))
		httpx.Message(w, http.StatusInternalServerError, "Server error")
		return
	}
	httpx.JSON(w, http.StatusCreated, category)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	var req UpsertCategoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.CategoryName == "" {
		httpx.Message(w, http.StatusBadRequest, "Category name is required")
		return
	}

	category, err := h.service.Update(r.Context(), id, req.CategoryName)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Message(w, http.StatusNotFound, "Category not found")
			return
		}
		h.logger.Error("update category", slog.Any("error", err), slog.String("id", id.String()))
		httpx.Message(w, http.StatusInternalServerError, "Server error")
		return
	}
	httpx.JSON(w, http.StatusOK, category)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Error("delete category", slog.Any("error", err), slog.String("id", id.String()))
		httpx.Message(w, http.StatusInternalServerError, "Server error")
		return
	}
	httpx.Message(w, http.StatusOK, "Category deleted")
}
