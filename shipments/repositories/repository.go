package repositories

import (
	"errors"
	"gorm.io/gorm"
	"shippio-service/shipments/access"
	"shippio-service/shipments/models"
	"time"
)

// Repository is the repo for accessing users and shipments. All values are bound as parameters.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository over db, which may be pinned to a single connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindUser returns the user with the given id, or nil when no row matches.
func (r *Repository) FindUser(userID string) (*models.User, error) {
	var user models.User
	err := r.db.Where("user_id = ?", userID).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindShipments runs the read described by scope. The result is either
// []models.Shipment or []models.ShipmentSummary depending on the projection.
func (r *Repository) FindShipments(scope access.Scope) (any, error) {
	q := r.db.Model(&models.Shipment{})

	if scope.OwnerID != nil {
		q = q.Where("user_id = ?", *scope.OwnerID)
	}
	if scope.ReferenceName != nil {
		q = q.Where("internal_reference_name = ?", *scope.ReferenceName)
	}
	if scope.Limit > 0 {
		q = q.Limit(scope.Limit)
	}

	switch scope.Projection {
	case access.ProjectionSummary:
		var rows []models.ShipmentSummary
		if err := q.Select(scope.Columns()).Find(&rows).Error; err != nil {
			return nil, err
		}
		if rows == nil {
			rows = []models.ShipmentSummary{}
		}
		return rows, nil
	default:
		var rows []models.Shipment
		if err := q.Find(&rows).Error; err != nil {
			return nil, err
		}
		if rows == nil {
			rows = []models.Shipment{}
		}
		return rows, nil
	}
}

func (r *Repository) ShipmentExists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Shipment{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// CreateShipment inserts the shipment and fills in its generated id and updated_at.
func (r *Repository) CreateShipment(shipment *models.Shipment) error {
	return r.db.Omit("User").Create(shipment).Error
}

// UpdateShipment replaces every mutable column of the shipment with the given id.
// It returns the number of rows the store reports as affected.
func (r *Repository) UpdateShipment(id uint, shipment *models.Shipment) (int64, error) {
	result := r.db.Model(&models.Shipment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"internal_reference_name": shipment.InternalReferenceName,
			"user_id":                 shipment.UserID,
			"estimated_started_at":    shipment.EstimatedStartedAt,
			"actual_started_at":       shipment.ActualStartedAt,
			"estimated_completion_at": shipment.EstimatedCompletionAt,
			"actual_completion_at":    shipment.ActualCompletionAt,
		})
	return result.RowsAffected, result.Error
}

// FindOverdueShipments returns shipments whose estimated start or completion
// is before now without the matching actual timestamp.
func (r *Repository) FindOverdueShipments(now time.Time) ([]models.Shipment, error) {
	var shipments []models.Shipment
	err := r.db.
		Where("(actual_started_at IS NULL AND estimated_started_at < ?)", now).
		Or("(actual_completion_at IS NULL AND estimated_completion_at < ?)", now).
		Order("id").
		Find(&shipments).Error
	return shipments, err
}
