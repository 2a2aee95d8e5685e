// Package access decides which shipment rows and columns a role may see.
// It only produces query descriptors; values are bound by the repository.
package access

import (
	"errors"
	"fmt"
	"shippio-service/shipments/models"
)

type Operation int

const (
	OpList Operation = iota
	OpGetByReference
	OpCreate
	OpUpdate
)

func (o Operation) String() string {
	switch o {
	case OpList:
		return "list"
	case OpGetByReference:
		return "get_by_reference"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	default:
		return fmt.Sprintf("operation(%d)", int(o))
	}
}

// Projection selects the column set returned for a read.
type Projection int

const (
	ProjectionFull Projection = iota
	ProjectionSummary
)

// SummaryColumns are the only columns warehouse staff may read.
var SummaryColumns = []string{"id", "internal_reference_name", "user_id", "updated_at"}

const warehouseRowCap = 2

var (
	ErrForbidden        = errors.New("role may not run this operation")
	ErrUnknownRole      = errors.New("unknown role")
	ErrUnknownOperation = errors.New("unknown operation")
)

// Scope describes a read query. Nil filters match everything, Limit 0 means no cap.
type Scope struct {
	Projection    Projection
	OwnerID       *string
	ReferenceName *string
	Limit         int
}

func (s Scope) Columns() []string {
	if s.Projection == ProjectionSummary {
		return SummaryColumns
	}
	return nil
}

// ReadScope maps a role and a read operation to the query shape it is allowed to run.
func ReadScope(role models.Role, op Operation, requesterID string, referenceName string) (Scope, error) {
	var scope Scope

	switch op {
	case OpList:
	case OpGetByReference:
		scope.ReferenceName = &referenceName
	default:
		return Scope{}, fmt.Errorf("%w: %s is not a read", ErrUnknownOperation, op)
	}

	switch role {
	case models.RoleStaff:
		scope.Projection = ProjectionFull
	case models.RoleOwner:
		if op == OpGetByReference {
			return Scope{}, ErrForbidden
		}
		scope.Projection = ProjectionFull
		scope.OwnerID = &requesterID
	case models.RoleWarehouseStaff:
		scope.Projection = ProjectionSummary
		scope.Limit = warehouseRowCap
	default:
		return Scope{}, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}

	return scope, nil
}

// WriteAllowed reports whether a role may create or update shipments.
// Writes are not restricted by role.
func WriteAllowed(role models.Role, op Operation) bool {
	if op != OpCreate && op != OpUpdate {
		return false
	}
	return role.Valid()
}
