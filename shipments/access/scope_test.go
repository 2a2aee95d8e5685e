package access

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"shippio-service/shipments/models"
	"testing"
)

func TestOwnerWithEmptyIDIsStillFiltered(t *testing.T) {
	scope, err := ReadScope(models.RoleOwner, OpList, "", "")
	require.NoError(t, err)

	require.NotNil(t, scope.OwnerID)
	assert.Equal(t, "", *scope.OwnerID)
	assert.Nil(t, scope.ReferenceName)
}

func TestReadScopeMatrix(t *testing.T) {
	ref := "REF-1"
	requester := "Jane"

	tests := []struct {
		name     string
		role     models.Role
		op       Operation
		expected Scope
		err      error
	}{
		{
			name:     "staff list",
			role:     models.RoleStaff,
			op:       OpList,
			expected: Scope{Projection: ProjectionFull},
		},
		{
			name:     "staff get",
			role:     models.RoleStaff,
			op:       OpGetByReference,
			expected: Scope{Projection: ProjectionFull, ReferenceName: &ref},
		},
		{
			name:     "owner list",
			role:     models.RoleOwner,
			op:       OpList,
			expected: Scope{Projection: ProjectionFull, OwnerID: &requester},
		},
		{
			name: "owner get",
			role: models.RoleOwner,
			op:   OpGetByReference,
			err:  ErrForbidden,
		},
		{
			name:     "warehouse list",
			role:     models.RoleWarehouseStaff,
			op:       OpList,
			expected: Scope{Projection: ProjectionSummary, Limit: 2},
		},
		{
			name:     "warehouse get",
			role:     models.RoleWarehouseStaff,
			op:       OpGetByReference,
			expected: Scope{Projection: ProjectionSummary, ReferenceName: &ref, Limit: 2},
		},
		{
			name: "unknown role",
			role: models.Role("Admin"),
			op:   OpList,
			err:  ErrUnknownRole,
		},
		{
			name: "write operation",
			role: models.RoleStaff,
			op:   OpCreate,
			err:  ErrUnknownOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, err := ReadScope(tt.role, tt.op, requester, ref)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				assert.Equal(t, Scope{}, scope)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, scope)
		})
	}
}

func TestScopeColumns(t *testing.T) {
	assert.Nil(t, Scope{Projection: ProjectionFull}.Columns())
	assert.Equal(t, []string{"id", "internal_reference_name", "user_id", "updated_at"}, Scope{Projection: ProjectionSummary}.Columns())
}

func TestOwnerGetIsForbiddenWhateverTheReference(t *testing.T) {
	for _, ref := range []string{"", "REF-1", "' OR 1=1 --"} {
		_, err := ReadScope(models.RoleOwner, OpGetByReference, "Jane", ref)
		assert.ErrorIs(t, err, ErrForbidden)
	}
}

func TestWriteAllowed(t *testing.T) {
	for _, role := range models.Roles {
		assert.True(t, WriteAllowed(role, OpCreate), role)
		assert.True(t, WriteAllowed(role, OpUpdate), role)
		assert.False(t, WriteAllowed(role, OpList), role)
	}
	assert.False(t, WriteAllowed(models.Role("Admin"), OpCreate))
}

func TestOperationString(t *testing.T) {
	assert.Equal(t, "list", OpList.String())
	assert.Equal(t, "get_by_reference", OpGetByReference.String())
	assert.Equal(t, "operation(9)", Operation(9).String())
}
