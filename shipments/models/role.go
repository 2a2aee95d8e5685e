package models

import (
	"fmt"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
	"strings"
)

// Role is the access level of a user. Only the three constants below are valid.
type Role string

const (
	RoleStaff          Role = "Staff"
	RoleOwner          Role = "Owner"
	RoleWarehouseStaff Role = "Warehouse staff"
)

var Roles = []Role{RoleStaff, RoleOwner, RoleWarehouseStaff}

func (r Role) Valid() bool {
	switch r {
	case RoleStaff, RoleOwner, RoleWarehouseStaff:
		return true
	}
	return false
}

// GormDBDataType keeps the MySQL column an ENUM while other dialects store plain text.
func (Role) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		quoted := make([]string, len(Roles))
		for i, role := range Roles {
			quoted[i] = fmt.Sprintf("'%s'", role)
		}
		return "ENUM(" + strings.Join(quoted, ",") + ")"
	case "postgres":
		return "varchar(20)"
	default:
		return "text"
	}
}
