package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"assetverse/internal/auth"
	"assetverse/internal/cache"
	apperrors "assetverse/internal/errors"
	"assetverse/internal/model"
	"assetverse/internal/notify"
	"assetverse/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// ProfileUpdate holds the editable profile fields; nil means unchanged.
type ProfileUpdate struct {
	Name        *string
	Photo       *string
	DateOfBirth *string
	CompanyName *string
	CompanyLogo *string
}

// UserService covers profiles and the company roster.
type UserService interface {
	GetProfile(ctx context.Context, caller auth.Principal, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, caller auth.Principal, email string, in ProfileUpdate) (*model.User, error)
	GetRole(ctx context.Context, email string) (model.Role, error)
	ListTeam(ctx context.Context, caller auth.Principal, email string) ([]model.User, error)
	ListEmployees(ctx context.Context, caller auth.Principal) ([]model.User, error)
	RemoveEmployee(ctx context.Context, caller auth.Principal, employeeID uuid.UUID) error
}

type userService struct {
	repo      repository.UserRepository
	cache     *cache.Client
	publisher notify.Publisher
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client, publisher notify.Publisher) UserService {
	return &userService{repo: repo, cache: cache, publisher: publisher}
}

func userCacheKey(email string) string {
	return fmt.Sprintf("user:%s", email)
}

// GetProfile returns the caller's own profile.
func (s *userService) GetProfile(ctx context.Context, caller auth.Principal, email string) (*model.User, error) {
	email = normalizeEmail(email)
	if !caller.Can(auth.IsEmail(email)) {
		return nil, apperrors.ErrForbidden
	}

	var cached model.User
	if s.cache.GetJSON(ctx, userCacheKey(email), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, orNotFound(err, apperrors.ErrUserNotFound)
	}
	s.cache.SetJSON(ctx, userCacheKey(email), user, userCacheTTL)
	return user, nil
}

// UpdateProfile edits the caller's own profile. Company fields are HR only
// and the company name is fixed once registered.
func (s *userService) UpdateProfile(ctx context.Context, caller auth.Principal, email string, in ProfileUpdate) (*model.User, error) {
	email = normalizeEmail(email)
	if !caller.Can(auth.IsEmail(email)) {
		return nil, apperrors.ErrForbidden
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, orNotFound(err, apperrors.ErrUserNotFound)
	}
	if (in.CompanyName != nil || in.CompanyLogo != nil) && !user.IsHR() {
		return nil, apperrors.ErrForbidden
	}
	if in.CompanyName != nil && *in.CompanyName != user.CompanyName {
		return nil, apperrors.ErrCompanyNameLocked
	}

	fields := profileFields(in)
	if len(fields) == 0 {
		return user, nil
	}
	if err := s.repo.UpdateFields(ctx, user.ID, fields); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	_ = s.cache.Delete(ctx, userCacheKey(email))

	updated, err := s.repo.FindByID(ctx, user.ID)
	if err != nil {
		return nil, orNotFound(err, apperrors.ErrUserNotFound)
	}
	return updated, nil
}

// profileFields maps the set fields of a ProfileUpdate to their columns.
// Approval and checkout write the same row, so nothing else is touched.
func profileFields(in ProfileUpdate) map[string]interface{} {
	fields := make(map[string]interface{})
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Photo != nil {
		fields["photo"] = *in.Photo
	}
	if in.DateOfBirth != nil {
		fields["date_of_birth"] = *in.DateOfBirth
	}
	if in.CompanyLogo != nil {
		fields["company_logo"] = *in.CompanyLogo
	}
	return fields
}

func (s *userService) GetRole(ctx context.Context, email string) (model.Role, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", orNotFound(err, apperrors.ErrUserNotFound)
	}
	return user.Role, nil
}

// ListTeam returns the company of email. Only members of that company may look.
func (s *userService) ListTeam(ctx context.Context, caller auth.Principal, email string) ([]model.User, error) {
	email = normalizeEmail(email)
	target, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, orNotFound(err, apperrors.ErrUserNotFound)
	}

	if !caller.Can(auth.IsEmail(email)) {
		self, err := s.repo.FindByEmail(ctx, caller.Email)
		if err != nil {
			return nil, orNotFound(err, apperrors.ErrForbidden)
		}
		if !sameCompany(self, target) {
			return nil, apperrors.ErrForbidden
		}
	}

	if target.CompanyName == "" || target.Status == model.MemberStatusRemoved {
		return []model.User{}, nil
	}
	return s.repo.ListByCompany(ctx, target.CompanyName)
}

func sameCompany(a, b *model.User) bool {
	if a.CompanyName == "" || a.Status == model.MemberStatusRemoved || b.Status == model.MemberStatusRemoved {
		return false
	}
	return a.CompanyName == b.CompanyName
}

// ListEmployees returns the caller's approved roster.
func (s *userService) ListEmployees(ctx context.Context, caller auth.Principal) ([]model.User, error) {
	if !caller.IsHR() {
		return nil, apperrors.ErrForbidden
	}
	return s.repo.ListEmployeesByHR(ctx, caller.Email)
}

// RemoveEmployee soft-removes an employee from the caller's roster.
func (s *userService) RemoveEmployee(ctx context.Context, caller auth.Principal, employeeID uuid.UUID) error {
	if !caller.IsHR() {
		return apperrors.ErrForbidden
	}

	employee, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		return orNotFound(err, apperrors.ErrUserNotFound)
	}
	if employee.Role != model.RoleEmployee || employee.Status != model.MemberStatusApproved {
		return apperrors.ErrUserNotFound
	}
	if !caller.Can(auth.IsEmail(employee.HREmail)) {
		return apperrors.ErrForbidden
	}

	err = s.repo.UpdateFields(ctx, employee.ID, map[string]interface{}{
		"status":   model.MemberStatusRemoved,
		"hr_email": "",
	})
	if err != nil {
		return fmt.Errorf("remove employee: %w", err)
	}
	_ = s.cache.Delete(ctx, userCacheKey(employee.Email))

	log.WithFields(log.Fields{"hr": caller.Email, "employee": employee.Email}).Info("employee removed")

	event := notify.NewEvent(notify.EventEmployeeRemoved, caller.Email,
		fmt.Sprintf("%s removed %s from %s", caller.Email, employee.Name, employee.CompanyName))
	event.Recipients = []string{employee.Email}
	event.HREmail = caller.Email
	event.CompanyName = employee.CompanyName
	event.EntityID = employee.ID.String()
	s.publisher.Publish(ctx, event)
	return nil
}
