package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/fintrack/internal/dto"
	"github.com/GregMSThompson/fintrack/internal/middleware"
	"github.com/GregMSThompson/fintrack/internal/models"
	"github.com/GregMSThompson/fintrack/internal/response"
)

type UserService interface {
	Register(ctx context.Context, p models.Principal, first, last string) (*models.User, error)
	Me(ctx context.Context, p models.Principal) (*models.User, error)
	List(ctx context.Context, p models.Principal) ([]models.User, error)
	Get(ctx context.Context, p models.Principal, uid string) (*models.User, error)
	Update(ctx context.Context, p models.Principal, uid string, req dto.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, p models.Principal, uid string) error
}

type userHandlers struct {
	ResponseHandler response.ResponseHandler
	UserSvc         UserService
}

func NewUserHandlers(deps *Deps) *userHandlers {
	return &userHandlers{
		ResponseHandler: deps.ResponseHandler,
		UserSvc:         deps.UserSvc,
	}
}

// AuthRoutes expects to be mounted behind the auth middleware.
func (h *userHandlers) AuthRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.Register)
	r.Get("/me", h.Me)
	return r
}

// UserRoutes expects to be mounted behind the auth middleware.
func (h *userHandlers) UserRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequireRole(models.RoleSuperAdmin))
	r.Get("/", h.List)
	r.Get("/{uid}", h.Get)
	r.Put("/{uid}", h.Update)
	r.Delete("/{uid}", h.Delete)
	return r
}

func (h *userHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	user, err := h.UserSvc.Register(r.Context(), middleware.Principal(r.Context()), req.FirstName, req.LastName)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, user)
}

func (h *userHandlers) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserSvc.Me(r.Context(), middleware.Principal(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, user)
}

func (h *userHandlers) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserSvc.List(r.Context(), middleware.Principal(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	h.ResponseHandler.WriteList(w, r, len(users), users)
}

func (h *userHandlers) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserSvc.Get(r.Context(), middleware.Principal(r.Context()), chi.URLParam(r, "uid"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, user)
}

func (h *userHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	user, err := h.UserSvc.Update(r.Context(), middleware.Principal(r.Context()), chi.URLParam(r, "uid"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, user)
}

func (h *userHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.UserSvc.Delete(r.Context(), middleware.Principal(r.Context()), chi.URLParam(r, "uid")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
