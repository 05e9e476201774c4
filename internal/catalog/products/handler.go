package products

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JawadErfani01/computer-management-system/internal/platform/httpx"
)

const maxUploadSize = 10 << 20

// ImageSaver stores an uploaded image and returns its public path.
type ImageSaver interface {
	Save(src io.Reader, originalName string) (string, error)
}

// Handler exposes product CRUD and search endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	images  ImageSaver
}

// NewHandler builds Handler.
func NewHandler(logger *slog.Logger, service *Service, images ImageSaver) *Handler {
	return &Handler{logger: logger, service: service, images: images}
}

// MountRoutes registers product routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/search", h.search)
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.Message(w, http.StatusInternalServerError, "Server error")
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		h.logger.Error("search products", slog.Any("error", err))
		httpx.Message(w, http.StatusInternalServerError, "Error while searching products")
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Message(w, http.StatusNotFound, "Product not found")
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Message(w, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.Error("get product", slog.Any("error", err), slog.String("id", id.String()))
		httpx.Message(w, http.StatusInternalServerError, "Server error")
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

// create accepts a multipart form with an "image" file part plus the product
// fields. The image is stored first so the record always references a file
// that exists.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		httpx.Message(w, http.StatusBadRequest, "All fields are required")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		httpx.Message(w, http.StatusBadRequest, "All fields are required")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	price, priceErr := strconv.ParseFloat(r.FormValue("price"), 64)
	stock, stockErr := strconv.Atoi(r.FormValue("stock"))
	if priceErr != nil || stockErr != nil {
		httpx.Message(w, http.StatusBadRequest, "All fields are required")
		return
	}

	categoryID, err := uuid.Parse(r.FormValue("category"))
	if err != nil {
		httpx.Message(w, http.StatusBadRequest, "Category not found")
		return
	}

	imagePath, err := h.images.Save(file, header.Filename)
	if err != nil {
		h.logger.Error("store product image", slog.Any("error", err))
		httpx.Message(w, http.StatusInternalServerError, "Server error")
		return
	}

	input := CreateProductInput{
		Name:        r.FormValue("name"),
		Price:       price,
		Stock:       stock,
		Description: r.FormValue("description"),
		CategoryID:  categoryID,
		Brand:       r.FormValue("brand"),
		Image:       imagePath,
		SKU:         r.FormValue("SKU"),
	}

	product, err := h.service.Create(r.Context(), input)
	if err != nil {
		switch {
		case IsInvalidInput(err):
			httpx.Message(w, http.StatusBadRequest, "All fields are required")
		case errors.Is(err, ErrCategoryNotFound):
			httpx.Message(w, http.StatusBadRequest, "Category not found")
		default:
			h.logger.Error("create product", slog.Any("error", err))
			httpx.Message(w, http.StatusInternalServerError, "Server error")
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Message(w, http.StatusNotFound, "Product not found")
		return
	}

	var req UpdateProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpx.Message(w, http.StatusNotFound, "Product not found")
		case IsInvalidInput(err):
			httpx.Message(w, http.StatusBadRequest, "Invalid request body")
		case errors.Is(err, ErrCategoryNotFound):
			httpx.Message(w, http.StatusBadRequest, "Category not found")
		default:
			h.logger.Error("update product", slog.Any("error", err), slog.String("id", id.String()))
			httpx.Message(w, http.StatusInternalServerError, "Server error")
		}
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Message(w, http.StatusNotFound, "Product not found")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Message(w, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.Error("delete product", slog.Any("error", err), slog.String("id", id.String()))
		httpx.Message(w, http.StatusInternalServerError, "Server error")
		return
	}
	httpx.Message(w, http.StatusOK, "Product deleted successfully")
}
