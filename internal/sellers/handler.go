// Package sellers provides the authenticated seller surface: profile
// management, product listings, and the dashboard.
package sellers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/handcrafted-haven/marketplace/internal/pkg/httputil"
)

// Handler handles HTTP requests for the sellers module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new sellers handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterProfileRoutes registers profile routes. These require only
// authentication: creating a profile is how a BASIC user becomes a SELLER.
func (h *Handler) RegisterProfileRoutes(r chi.Router) {
	r.Route("/seller/profile", func(r chi.Router) {
		r.Get("/", h.GetProfile)
		r.Post("/", h.CreateProfile)
		r.Patch("/", h.UpdateProfile)
	})
}

// RegisterSellerRoutes registers routes that require the SELLER role.
func (h *Handler) RegisterSellerRoutes(r chi.Router) {
	r.Route("/seller/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.CreateProduct)
		r.Put("/{id}", h.UpdateProduct)
		r.Delete("/{id}", h.DeleteProduct)
	})
	r.Get("/seller/dashboard", h.GetDashboard)
}

// ProfileRequest represents the request body for profile create/update.
type ProfileRequest struct {
	Bio      string `json:"bio" validate:"max=2000"`
	Story    string `json:"story" validate:"max=5000"`
	Banner   string `json:"banner" validate:"omitempty,url"`
	Location string `json:"location" validate:"max=255"`
	Website  string `json:"website" validate:"omitempty,url"`
}

// GetProfile handles GET /seller/profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, profile)
}

// CreateProfileRequest requires a story: a Handcrafted Haven seller page is
// built around the maker's story.
type CreateProfileRequest struct {
	Bio      string `json:"bio" validate:"max=2000"`
	Story    string `json:"story" validate:"required,min=1,max=5000"`
	Banner   string `json:"banner" validate:"omitempty,url"`
	Location string `json:"location" validate:"max=255"`
	Website  string `json:"website" validate:"omitempty,url"`
}

// CreateProfile handles POST /seller/profile. Creating a profile promotes
// the caller to SELLER; the promotion takes effect in tokens issued by
// subsequent logins.
func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	profile, err := h.service.CreateProfile(r.Context(), userID, ProfileInput{
		Bio:      req.Bio,
		Story:    req.Story,
		Banner:   req.Banner,
		Location: req.Location,
		Website:  req.Website,
	})
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, profile)
}

// UpdateProfile handles PATCH /seller/profile.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, ProfileInput(req))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, profile)
}

// ProductRequest represents the request body for product create/update.
type ProductRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description string  `json:"description" validate:"max=5000"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Image       string  `json:"image" validate:"omitempty,url"`
	CategoryID  int64   `json:"category_id" validate:"required,gt=0"`
}

// ListProducts handles GET /seller/products.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	userID, _ := httputil.GetUserID(r.Context())

	products, err := h.service.ListProducts(r.Context(), userID)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, products)
}

// CreateProduct handles POST /seller/products.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	userID, _ := httputil.GetUserID(r.Context())

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), userID, ProductInput(req))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, product)
}

// UpdateProduct handles PUT /seller/products/{id}.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	userID, _ := httputil.GetUserID(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), userID, id, ProductInput(req))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /seller/products/{id}.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	userID, _ := httputil.GetUserID(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.service.DeleteProduct(r.Context(), userID, id); err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetDashboard handles GET /seller/dashboard.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	userID, _ := httputil.GetUserID(r.Context())

	stats, err := h.service.GetDashboard(r.Context(), userID)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, stats)
}

func (h *Handler) handleServiceError(r *http.Request, w http.ResponseWriter, err error) {
	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: ErrProductNotFound, Status: http.StatusNotFound},
		{Error: ErrProfileNotFound, Status: http.StatusNotFound},
		{Error: ErrProfileExists, Status: http.StatusConflict},
		{Error: ErrInvalidCategory, Status: http.StatusBadRequest},
	})
}
