package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"assetverse/internal/auth"
	"assetverse/internal/cache"
	apperrors "assetverse/internal/errors"
	"assetverse/internal/model"
	"assetverse/internal/notify"
	"assetverse/internal/repository"
)

// SubmitRequestInput is an employee's claim on an asset.
type SubmitRequestInput struct {
	AssetID uuid.UUID
	Note    string
}

// RequestService drives the pending -> approved | rejected lifecycle.
type RequestService interface {
	Submit(ctx context.Context, caller auth.Principal, in SubmitRequestInput) (*model.AssetRequest, error)
	Approve(ctx context.Context, caller auth.Principal, requestID uuid.UUID) (*model.AssignedAsset, error)
	Reject(ctx context.Context, caller auth.Principal, requestID uuid.UUID) (*model.AssetRequest, error)
	Delete(ctx context.Context, caller auth.Principal, requestID uuid.UUID) error
	ListForHR(ctx context.Context, caller auth.Principal) ([]model.AssetRequest, error)
	ListForEmployee(ctx context.Context, caller auth.Principal) ([]model.AssetRequest, error)
	ListAssignments(ctx context.Context, caller auth.Principal) ([]model.AssignedAsset, error)
}

type requestService struct {
	repos      repository.Repositories
	transactor repository.Transactor
	cache      *cache.Client
	publisher  notify.Publisher
}

// NewRequestService creates a new request service.
func NewRequestService(repos repository.Repositories, transactor repository.Transactor, cache *cache.Client, publisher notify.Publisher) RequestService {
	return &requestService{
		repos:      repos,
		transactor: transactor,
		cache:      cache,
		publisher:  publisher,
	}
}

// Submit records a pending request with a snapshot of the asset.
func (s *requestService) Submit(ctx context.Context, caller auth.Principal, in SubmitRequestInput) (*model.AssetRequest, error) {
	if !caller.Can(auth.HasRole(model.RoleEmployee)) {
		return nil, apperrors.ErrForbidden
	}

	asset, err := s.repos.Assets.FindByID(ctx, in.AssetID)
	if err != nil {
		return nil, orNotFound(err, apperrors.ErrAssetNotFound)
	}

	// Early friendly answer; the unique index is what actually guarantees it.
	if _, err := s.repos.Requests.FindPending(ctx, asset.ID, caller.Email); err == nil {
		return nil, apperrors.ErrDuplicateRequest
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("check pending request: %w", err)
	}

	requester, err := s.repos.Users.FindByEmail(ctx, caller.Email)
	if err != nil {
		return nil, orNotFound(err, apperrors.ErrUserNotFound)
	}

	request := &model.AssetRequest{
		AssetID:        asset.ID,
		AssetName:      asset.ProductName,
		AssetType:      asset.ProductType,
		AssetImage:     asset.ProductImage,
		RequesterEmail: requester.Email,
		RequesterName:  requester.Name,
		HREmail:        asset.HREmail,
		CompanyName:    asset.CompanyName,
		Note:           strings.TrimSpace(in.Note),
		Status:         model.RequestStatusPending,
	}
	if err := s.repos.Requests.Create(ctx, request); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateRequest
		}
		return nil, fmt.Errorf("create request: %w", err)
	}

	event := requestEvent(notify.EventRequestSubmitted, caller.Email, request,
		fmt.Sprintf("%s requested %s", request.RequesterName, request.AssetName))
	event.Recipients = []string{request.HREmail}
	s.publisher.Publish(ctx, event)
	return request, nil
}

// Approve hands one unit of the asset to the requester.
//
// Everything happens in one transaction: the request row is locked, stock is
// decremented conditionally, the status flip is guarded on pending, and the
// requester joins the HR's roster when not already on it.
func (s *requestService) Approve(ctx context.Context, caller auth.Principal, requestID uuid.UUID) (*model.AssignedAsset, error) {
	if !caller.IsHR() {
		return nil, apperrors.ErrForbidden
	}

	var (
		assignment *model.AssignedAsset
		request    *model.AssetRequest
		employee   *model.User
	)
	err := s.transactor.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		request, err = repos.Requests.FindByIDForUpdate(ctx, requestID)
		if err != nil {
			return orNotFound(err, apperrors.ErrRequestNotFound)
		}
		if !caller.Can(auth.IsEmail(request.HREmail)) {
			return apperrors.ErrForbidden
		}
		if !request.IsPending() {
			return apperrors.ErrRequestNotPending
		}

		// Locking the HR row serializes approvals against the same seat count.
		hr, err := repos.Users.FindByEmailForUpdate(ctx, caller.Email)
		if err != nil {
			return orNotFound(err, apperrors.ErrUserNotFound)
		}
		employee, err = repos.Users.FindByEmail(ctx, request.RequesterEmail)
		if err != nil {
			return orNotFound(err, apperrors.ErrUserNotFound)
		}

		joining := !(employee.HREmail == hr.Email && employee.Status == model.MemberStatusApproved)
		if joining {
			count, err := repos.Users.CountEmployeesByHR(ctx, hr.Email)
			if err != nil {
				return fmt.Errorf("count employees: %w", err)
			}
			if count >= int64(packageLimit(hr)) {
				return apperrors.ErrEmployeeLimitReached
			}
		}

		asset, err := repos.Assets.FindByID(ctx, request.AssetID)
		if err != nil {
			return orNotFound(err, apperrors.ErrAssetNotFound)
		}
		ok, err := repos.Assets.DecrementAvailable(ctx, asset.ID)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if !ok {
			return apperrors.ErrOutOfStock
		}

		now := time.Now()
		ok, err = repos.Requests.Transition(ctx, request.ID, model.RequestStatusPending, model.RequestStatusApproved, caller.Email, now)
		if err != nil {
			return fmt.Errorf("approve request: %w", err)
		}
		if !ok {
			return apperrors.ErrRequestNotPending
		}
		request.Status = model.RequestStatusApproved

		if joining {
			err = repos.Users.UpdateFields(ctx, employee.ID, map[string]interface{}{
				"hr_email":     hr.Email,
				"company_name": hr.CompanyName,
				"company_logo": hr.CompanyLogo,
				"status":       model.MemberStatusApproved,
				"joined_at":    now,
			})
			if err != nil {
				return fmt.Errorf("affiliate employee: %w", err)
			}
		}

		assignment = &model.AssignedAsset{
			AssetID:        asset.ID,
			RequestID:      request.ID,
			AssetName:      asset.ProductName,
			AssetImage:     asset.ProductImage,
			AssetType:      asset.ProductType,
			EmployeeEmail:  employee.Email,
			EmployeeName:   employee.Name,
			HREmail:        hr.Email,
			CompanyName:    hr.CompanyName,
			AssignmentDate: now,
			Status:         model.AssignmentStatusAssigned,
		}
		if err := repos.Assignments.Create(ctx, assignment); err != nil {
			return fmt.Errorf("create assignment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, userCacheKey(employee.Email))
	log.WithFields(log.Fields{"request": requestID, "hr": caller.Email, "employee": employee.Email}).Info("request approved")

	event := requestEvent(notify.EventRequestApproved, caller.Email, request,
		fmt.Sprintf("Your request for %s was approved", request.AssetName))
	event.Recipients = []string{request.RequesterEmail}
	s.publisher.Publish(ctx, event)
	return assignment, nil
}

func packageLimit(hr *model.User) int {
	if hr.PackageLimit > 0 {
		return hr.PackageLimit
	}
	return model.DefaultPackageLimit
}

// Reject closes a pending request without touching stock.
func (s *requestService) Reject(ctx context.Context, caller auth.Principal, requestID uuid.UUID) (*model.AssetRequest, error) {
	if !caller.IsHR() {
		return nil, apperrors.ErrForbidden
	}

	request, err := s.repos.Requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, orNotFound(err, apperrors.ErrRequestNotFound)
	}
	if !caller.Can(auth.IsEmail(request.HREmail)) {
		return nil, apperrors.ErrForbidden
	}

	now := time.Now()
	ok, err := s.repos.Requests.Transition(ctx, request.ID, model.RequestStatusPending, model.RequestStatusRejected, caller.Email, now)
	if err != nil {
		return nil, fmt.Errorf("reject request: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrRequestNotPending
	}
	request.Status = model.RequestStatusRejected
	request.PendingKey = nil
	request.ProcessedBy = caller.Email
	request.ProcessedAt = &now

	event := requestEvent(notify.EventRequestRejected, caller.Email, request,
		fmt.Sprintf("Your request for %s was rejected", request.AssetName))
	event.Recipients = []string{request.RequesterEmail}
	s.publisher.Publish(ctx, event)
	return request, nil
}

// Delete removes a request for its requester or owning HR. Stock is not restored.
func (s *requestService) Delete(ctx context.Context, caller auth.Principal, requestID uuid.UUID) error {
	request, err := s.repos.Requests.FindByID(ctx, requestID)
	if err != nil {
		return orNotFound(err, apperrors.ErrRequestNotFound)
	}

	allowed := auth.AnyOf(
		auth.IsEmail(request.RequesterEmail),
		auth.AllOf(auth.HasRole(model.RoleHR), auth.IsEmail(request.HREmail)),
	)
	if !caller.Can(allowed) {
		return apperrors.ErrForbidden
	}

	if err := s.repos.Requests.Delete(ctx, request.ID); err != nil {
		return orNotFound(err, apperrors.ErrRequestNotFound)
	}

	event := requestEvent(notify.EventRequestDeleted, caller.Email, request,
		fmt.Sprintf("Request for %s was deleted by %s", request.AssetName, caller.Email))
	event.Recipients = []string{request.RequesterEmail}
	s.publisher.Publish(ctx, event)
	return nil
}

func (s *requestService) ListForHR(ctx context.Context, caller auth.Principal) ([]model.AssetRequest, error) {
	if !caller.IsHR() {
		return nil, apperrors.ErrForbidden
	}
	return s.repos.Requests.ListByHR(ctx, caller.Email)
}

func (s *requestService) ListForEmployee(ctx context.Context, caller auth.Principal) ([]model.AssetRequest, error) {
	return s.repos.Requests.ListByRequester(ctx, caller.Email)
}

func (s *requestService) ListAssignments(ctx context.Context, caller auth.Principal) ([]model.AssignedAsset, error) {
	return s.repos.Assignments.ListByEmployee(ctx, caller.Email)
}

func requestEvent(t notify.EventType, actor string, r *model.AssetRequest, message string) notify.Event {
	event := notify.NewEvent(t, actor, message)
	event.HREmail = r.HREmail
	event.CompanyName = r.CompanyName
	event.EntityID = r.ID.String()
	event.Data = map[string]interface{}{
		"assetId":       r.AssetID.String(),
		"assetName":     r.AssetName,
		"requester":     r.RequesterEmail,
		"requestStatus": string(r.Status),
	}
	return event
}
