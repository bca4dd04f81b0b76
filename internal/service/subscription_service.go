package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"assetverse/internal/auth"
	"assetverse/internal/cache"
	apperrors "assetverse/internal/errors"
	"assetverse/internal/export"
	"assetverse/internal/model"
	"assetverse/internal/notify"
	"assetverse/internal/payment"
	"assetverse/internal/repository"
)

const (
	retrieveAttempts = 3
	retrieveBackoff  = 200 * time.Millisecond
)

// CheckoutSession is what the client needs to redirect to the hosted checkout.
type CheckoutSession struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}

// SubscriptionConfig holds checkout settings.
type SubscriptionConfig struct {
	SiteDomain string
	Currency   string
}

// SubscriptionService bridges package purchases with the payment provider.
type SubscriptionService interface {
	CreateCheckoutSession(ctx context.Context, caller auth.Principal, packageID uuid.UUID) (*CheckoutSession, error)
	FinalizeSession(ctx context.Context, sessionID string) (*model.Payment, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*model.Payment, error)
	ListPayments(ctx context.Context, caller auth.Principal) ([]model.Payment, error)
	Receipt(ctx context.Context, caller auth.Principal, paymentID uuid.UUID) ([]byte, *model.Payment, error)
}

type subscriptionService struct {
	repos      repository.Repositories
	transactor repository.Transactor
	gateway    payment.Gateway
	cache      *cache.Client
	publisher  notify.Publisher
	conf       SubscriptionConfig
	backoff    time.Duration
}

// NewSubscriptionService creates a new subscription service.
func NewSubscriptionService(
	repos repository.Repositories,
	transactor repository.Transactor,
	gateway payment.Gateway,
	cache *cache.Client,
	publisher notify.Publisher,
	conf SubscriptionConfig,
) SubscriptionService {
	if conf.Currency == "" {
		conf.Currency = "usd"
	}
	conf.SiteDomain = strings.TrimRight(conf.SiteDomain, "/")
	return &subscriptionService{
		repos:      repos,
		transactor: transactor,
		gateway:    gateway,
		cache:      cache,
		publisher:  publisher,
		conf:       conf,
		backoff:    retrieveBackoff,
	}
}

// CreateCheckoutSession opens a hosted checkout for an HR buying a package.
func (s *subscriptionService) CreateCheckoutSession(ctx context.Context, caller auth.Principal, packageID uuid.UUID) (*CheckoutSession, error) {
	if !caller.IsHR() {
		return nil, apperrors.ErrForbidden
	}

	user, err := s.repos.Users.FindByEmail(ctx, caller.Email)
	if err != nil {
		return nil, orNotFound(err, apperrors.ErrUserNotFound)
	}
	pkg, err := s.repos.Packages.FindByID(ctx, packageID)
	if err != nil {
		return nil, orNotFound(err, apperrors.ErrPackageNotFound)
	}

	session, err := s.gateway.CreateSession(ctx, payment.CheckoutRequest{
		ProductName:   pkg.Name,
		Description:   fmt.Sprintf("Employee Limit: %d", pkg.EmployeeLimit),
		UnitAmount:    pkg.Price.Mul(decimal.NewFromInt(100)).IntPart(),
		Currency:      s.conf.Currency,
		CustomerEmail: user.Email,
		Metadata: map[string]string{
			payment.MetadataUserID:    user.ID.String(),
			payment.MetadataPackageID: pkg.ID.String(),
		},
		SuccessURL: s.conf.SiteDomain + "/payment-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.conf.SiteDomain + "/payment-cancelled",
	})
	if err != nil {
		return nil, providerError(err)
	}
	return &CheckoutSession{URL: session.URL, SessionID: session.ID}, nil
}

// FinalizeSession re-reads the session from the provider and activates the package once.
func (s *subscriptionService) FinalizeSession(ctx context.Context, sessionID string) (*model.Payment, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, apperrors.ErrInvalidInput
	}

	var session *payment.Session
	err := withRetry(ctx, retrieveAttempts, s.backoff, isPermanentProviderError, func() error {
		var err error
		session, err = s.gateway.RetrieveSession(ctx, sessionID)
		return err
	})
	if err != nil {
		return nil, providerError(err)
	}
	return s.finalize(ctx, session)
}

// HandleWebhook finalizes completed checkouts reported by a signed provider event.
// Events that do not complete a checkout yield a nil payment.
func (s *subscriptionService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*model.Payment, error) {
	session, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	return s.finalize(ctx, session)
}

func (s *subscriptionService) finalize(ctx context.Context, session *payment.Session) (*model.Payment, error) {
	if !session.Paid {
		return nil, apperrors.ErrPaymentNotCompleted
	}
	userID, err := uuid.Parse(session.Metadata[payment.MetadataUserID])
	if err != nil {
		return nil, fmt.Errorf("%w: session metadata has no user", apperrors.ErrInvalidInput)
	}
	packageID, err := uuid.Parse(session.Metadata[payment.MetadataPackageID])
	if err != nil {
		return nil, fmt.Errorf("%w: session metadata has no package", apperrors.ErrInvalidInput)
	}

	var (
		record  *model.Payment
		created bool
	)
	err = s.transactor.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		existing, err := repos.Payments.FindByTransactionID(ctx, session.ID)
		if err == nil {
			record = existing
			return nil
		}
		if !isNotFound(err) {
			return fmt.Errorf("find payment: %w", err)
		}

		user, err := repos.Users.FindByID(ctx, userID)
		if err != nil {
			return orNotFound(err, apperrors.ErrUserNotFound)
		}
		pkg, err := repos.Packages.FindByID(ctx, packageID)
		if err != nil {
			return orNotFound(err, apperrors.ErrPackageNotFound)
		}

		err = repos.Users.UpdateFields(ctx, user.ID, map[string]interface{}{
			"package_name":  pkg.Name,
			"package_limit": pkg.EmployeeLimit,
			"subscription":  model.SubscriptionActive,
		})
		if err != nil {
			return fmt.Errorf("update subscription: %w", err)
		}

		record = &model.Payment{
			UserID:        user.ID,
			UserEmail:     user.Email,
			PackageID:     pkg.ID,
			PackageName:   pkg.Name,
			EmployeeLimit: pkg.EmployeeLimit,
			Amount:        s.amount(session, pkg),
			Currency:      s.currency(session),
			TransactionID: session.ID,
			Status:        model.PaymentStatusCompleted,
			PaymentDate:   time.Now(),
		}
		if err := repos.Payments.Create(ctx, record); err != nil {
			return err
		}
		created = true
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// A concurrent finalization won; its payment is the one that counts.
		existing, findErr := s.repos.Payments.FindByTransactionID(ctx, session.ID)
		if findErr != nil {
			return nil, fmt.Errorf("find payment: %w", findErr)
		}
		return existing, nil
	}
	if err != nil {
		return nil, err
	}

	if created {
		_ = s.cache.Delete(ctx, userCacheKey(record.UserEmail))
		log.WithFields(log.Fields{
			"transaction": record.TransactionID,
			"user":        record.UserEmail,
			"package":     record.PackageName,
		}).Info("subscription activated")

		event := notify.NewEvent(notify.EventSubscriptionActivated, record.UserEmail,
			fmt.Sprintf("%s package activated, employee limit %d", record.PackageName, record.EmployeeLimit))
		event.HREmail = record.UserEmail
		event.EntityID = record.ID.String()
		event.Data = map[string]interface{}{
			"transactionId": record.TransactionID,
			"amount":        record.Amount.StringFixed(2),
		}
		s.publisher.Publish(ctx, event)
	}
	return record, nil
}

func (s *subscriptionService) amount(session *payment.Session, pkg *model.Package) decimal.Decimal {
	if session.AmountTotal > 0 {
		return decimal.New(session.AmountTotal, -2)
	}
	return pkg.Price
}

func (s *subscriptionService) currency(session *payment.Session) string {
	if session.Currency != "" {
		return session.Currency
	}
	return s.conf.Currency
}

func (s *subscriptionService) ListPayments(ctx context.Context, caller auth.Principal) ([]model.Payment, error) {
	return s.repos.Payments.ListByUser(ctx, caller.ID)
}

// Receipt renders a PDF for one of the caller's payments.
func (s *subscriptionService) Receipt(ctx context.Context, caller auth.Principal, paymentID uuid.UUID) ([]byte, *model.Payment, error) {
	record, err := s.repos.Payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, nil, orNotFound(err, apperrors.ErrPaymentNotFound)
	}
	if record.UserID != caller.ID {
		return nil, nil, apperrors.ErrForbidden
	}

	pdf, err := export.ReceiptPDF(record)
	if err != nil {
		return nil, nil, fmt.Errorf("render receipt: %w", err)
	}
	return pdf, record, nil
}

func isPermanentProviderError(err error) bool {
	return errors.Is(err, apperrors.ErrFeatureDisabled) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// providerError hides provider details behind ErrPaymentProvider.
func providerError(err error) error {
	if isPermanentProviderError(err) {
		return err
	}
	log.WithError(err).Error("payment provider call failed")
	return fmt.Errorf("%w: %v", apperrors.ErrPaymentProvider, err)
}
