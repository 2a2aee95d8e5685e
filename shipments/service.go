// Package shipments implements the shipment operations. Every operation
// resolves a user, shapes its query by role and runs on one pooled connection.
package shipments

import (
	"context"
	"errors"
	"fmt"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"shippio-service/shipments/access"
	"shippio-service/shipments/models"
	"shippio-service/shipments/repositories"
	"time"
)

type ShipmentInput struct {
	InternalReferenceName string            `json:"internal_reference_name"`
	UserID                string            `json:"user_id"`
	EstimatedStartedAt    *models.Timestamp `json:"estimated_started_at"`
	ActualStartedAt       *models.Timestamp `json:"actual_started_at"`
	EstimatedCompletionAt *models.Timestamp `json:"estimated_completion_at"`
	ActualCompletionAt    *models.Timestamp `json:"actual_completion_at"`
}

func (in ShipmentInput) toModel() *models.Shipment {
	return &models.Shipment{
		InternalReferenceName: in.InternalReferenceName,
		UserID:                in.UserID,
		EstimatedStartedAt:    in.EstimatedStartedAt,
		ActualStartedAt:       in.ActualStartedAt,
		EstimatedCompletionAt: in.EstimatedCompletionAt,
		ActualCompletionAt:    in.ActualCompletionAt,
	}
}

type UpdateInput struct {
	ID uint `json:"id"`
	ShipmentInput
}

type UpdateSummary struct {
	RowsAffected int64 `json:"rows_affected"`
}

type Service struct {
	db           *gorm.DB
	logger       *zap.Logger
	queryTimeout time.Duration
}

// NewService creates the shipment operations. A zero queryTimeout leaves
// operations bounded only by the caller's context.
func NewService(logger *zap.Logger, db *gorm.DB, queryTimeout time.Duration) *Service {
	return &Service{
		db:           db,
		logger:       logger,
		queryTimeout: queryTimeout,
	}
}

// withConnection pins one pooled connection for the duration of fn.
// gorm closes it on return, whatever path fn took.
func (s *Service) withConnection(ctx context.Context, fn func(repo *repositories.Repository) error) error {
	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}

	return s.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		// tx is not a new session; conditions would leak between queries without one.
		return fn(repositories.NewRepository(tx.Session(&gorm.Session{})))
	})
}

func (s *Service) resolveUser(repo *repositories.Repository, userID string) (*models.User, error) {
	s.logger.Info("Checking user", zap.String("user_id", userID))

	user, err := repo.FindUser(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		message := userNotFoundMessage(userID)
		s.logger.Error(message, zap.String("user_id", userID))
		return nil, notFound(message)
	}
	return user, nil
}

// failure passes expected errors through and turns anything else into a 500 with message.
func (s *Service) failure(err error, message string, fields ...zap.Field) error {
	var opErr *Error
	if errors.As(err, &opErr) {
		return opErr
	}

	s.logger.Error(message, append(fields, zap.Error(err))...)
	return internal(message, err)
}

// List returns the shipments visible to requesterID.
func (s *Service) List(ctx context.Context, requesterID string) (any, error) {
	var rows any

	err := s.withConnection(ctx, func(repo *repositories.Repository) error {
		user, err := s.resolveUser(repo, requesterID)
		if err != nil {
			return err
		}

		scope, err := access.ReadScope(user.Type, access.OpList, user.UserID, "")
		if err != nil {
			return err
		}

		s.logger.Info("Fetching all shipments from DB",
			zap.String("user_id", user.UserID),
			zap.String("role", string(user.Type)),
		)
		rows, err = repo.FindShipments(scope)
		return err
	})
	if err != nil {
		return nil, s.failure(err, fetchFailedMessage, zap.String("user_id", requesterID))
	}

	return rows, nil
}

// GetByReference returns the shipments named referenceName that requesterID may see.
// Owners are refused outright.
func (s *Service) GetByReference(ctx context.Context, requesterID string, referenceName string) (any, error) {
	var rows any

	err := s.withConnection(ctx, func(repo *repositories.Repository) error {
		user, err := s.resolveUser(repo, requesterID)
		if err != nil {
			return err
		}

		scope, err := access.ReadScope(user.Type, access.OpGetByReference, user.UserID, referenceName)
		if errors.Is(err, access.ErrForbidden) {
			s.logger.Error(ownerForbiddenMessage,
				zap.String("user_id", user.UserID),
				zap.String("role", string(user.Type)),
			)
			return forbidden(ownerForbiddenMessage, err)
		}
		if err != nil {
			return err
		}

		s.logger.Info("Fetching shipments by internal reference name",
			zap.String("user_id", user.UserID),
			zap.String("internal_reference_name", referenceName),
		)
		rows, err = repo.FindShipments(scope)
		return err
	})
	if err != nil {
		return nil, s.failure(err, fetchFailedMessage,
			zap.String("user_id", requesterID),
			zap.String("internal_reference_name", referenceName),
		)
	}

	return rows, nil
}

// Create inserts a shipment owned by input.UserID and returns its id.
func (s *Service) Create(ctx context.Context, input ShipmentInput) (uint, error) {
	shipment := input.toModel()

	err := s.withConnection(ctx, func(repo *repositories.Repository) error {
		owner, err := s.resolveUser(repo, input.UserID)
		if err != nil {
			return err
		}
		if !access.WriteAllowed(owner.Type, access.OpCreate) {
			return fmt.Errorf("%w: %q", access.ErrUnknownRole, owner.Type)
		}

		s.logger.Info("Creating shipment", zap.String("internal_reference_name", input.InternalReferenceName))
		if err := repo.CreateShipment(shipment); err != nil {
			return err
		}

		s.logger.Info("Created shipment",
			zap.Uint("shipment_id", shipment.ID),
			zap.String("internal_reference_name", input.InternalReferenceName),
		)
		return nil
	})
	if err != nil {
		return 0, s.failure(err, createFailedMessage, zap.String("internal_reference_name", input.InternalReferenceName))
	}

	return shipment.ID, nil
}

// Update replaces all mutable fields of shipment input.ID. The shipment is
// checked before the target user, so a missing shipment wins when both are absent.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*UpdateSummary, error) {
	var summary UpdateSummary

	err := s.withConnection(ctx, func(repo *repositories.Repository) error {
		s.logger.Info("Fetching shipment", zap.Uint("shipment_id", input.ID))
		exists, err := repo.ShipmentExists(input.ID)
		if err != nil {
			return err
		}
		if !exists {
			message := shipmentNotFoundMessage(input.ID)
			s.logger.Error(message, zap.Uint("shipment_id", input.ID))
			return notFound(message)
		}

		owner, err := s.resolveUser(repo, input.UserID)
		if err != nil {
			return err
		}
		if !access.WriteAllowed(owner.Type, access.OpUpdate) {
			return fmt.Errorf("%w: %q", access.ErrUnknownRole, owner.Type)
		}

		s.logger.Info("Modifying shipment", zap.Uint("shipment_id", input.ID))
		summary.RowsAffected, err = repo.UpdateShipment(input.ID, input.toModel())
		if err != nil {
			return err
		}

		s.logger.Info("Shipment successfully updated",
			zap.Uint("shipment_id", input.ID),
			zap.Int64("rows_affected", summary.RowsAffected),
		)
		return nil
	})
	if err != nil {
		return nil, s.failure(err, updateFailedMessage, zap.Uint("shipment_id", input.ID))
	}

	return &summary, nil
}
