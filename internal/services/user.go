package services

import (
	"context"
	"strings"

	"github.com/GregMSThompson/fintrack/internal/dto"
	"github.com/GregMSThompson/fintrack/internal/errs"
	"github.com/GregMSThompson/fintrack/internal/models"
	"github.com/GregMSThompson/fintrack/pkg/logger"
)

type userUSStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, uid string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, uid string) error
}

// roleClaims writes the role custom claim carried by the caller's ID token.
type roleClaims interface {
	SetRole(ctx context.Context, uid string, role models.Role) error
}

type userService struct {
	Store  userUSStore
	Claims roleClaims
}

func NewUserService(store userUSStore, claims roleClaims) *userService {
	return &userService{
		Store:  store,
		Claims: claims,
	}
}

func (s *userService) Register(ctx context.Context, p models.Principal, first, last string) (*models.User, error) {
	// Get logger from context - already has uid, role, request_id, method, path
	log := logger.FromContext(ctx)

	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	if first == "" || last == "" {
		return nil, errs.NewValidationError("firstName and lastName are required")
	}

	user := &models.User{
		UID:       p.UID,
		Email:     p.Email,
		FirstName: first,
		LastName:  last,
		Role:      models.RoleMember,
	}

	err := s.Store.CreateUser(ctx, user)
	if err != nil {
		log.Error("failed to create user in store", "error", err)
		return nil, err
	}

	log.Info("user registered", "first_name", first, "last_name", last)
	log.Debug("user registered with full details", "user", user)

	return user, nil
}

func (s *userService) Me(ctx context.Context, p models.Principal) (*models.User, error) {
	return s.Store.GetUser(ctx, p.UID)
}

func (s *userService) List(ctx context.Context, p models.Principal) ([]models.User, error) {
	if !p.IsSuperAdmin() {
		return nil, errs.NewForbiddenError("only super admins can manage users")
	}
	return s.Store.ListUsers(ctx)
}

func (s *userService) Get(ctx context.Context, p models.Principal, uid string) (*models.User, error) {
	if !p.IsSuperAdmin() {
		return nil, errs.NewForbiddenError("only super admins can manage users")
	}
	return s.Store.GetUser(ctx, uid)
}

// Update changes profile names and role. A role change is written to the
// identity provider before the profile.
func (s *userService) Update(ctx context.Context, p models.Principal, uid string, req dto.UpdateUserRequest) (*models.User, error) {
	log := logger.FromContext(ctx)

	if !p.IsSuperAdmin() {
		return nil, errs.NewForbiddenError("only super admins can manage users")
	}
	user, err := s.Store.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Role != nil && *req.Role != user.Role {
		if !req.Role.Valid() {
			return nil, errs.NewValidationErrorf("invalid role %q", *req.Role)
		}
		if err := s.Claims.SetRole(ctx, uid, *req.Role); err != nil {
			log.Error("failed to set role claim", "target_uid", uid, "error", err)
			return nil, err
		}
		log.Info("user role changed", "target_uid", uid, "from", user.Role, "to", *req.Role)
		user.Role = *req.Role
	}

	if err := s.Store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, p models.Principal, uid string) error {
	if !p.IsSuperAdmin() {
		return errs.NewForbiddenError("only super admins can manage users")
	}
	if _, err := s.Store.GetUser(ctx, uid); err != nil {
		return err
	}
	if err := s.Store.DeleteUser(ctx, uid); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("user deleted", "target_uid", uid)
	return nil
}
