package models

// User represents the users table. Rows are seeded at startup and never change.
type User struct {
	UserID string `gorm:"column:user_id;primaryKey;size:20" json:"user_id"`
	Type   Role   `gorm:"column:type" json:"type"`
}

func (User) TableName() string {
	return "users"
}

// SeedUsers are inserted by the bootstrap when missing.
var SeedUsers = []User{
	{UserID: "John", Type: RoleStaff},
	{UserID: "Jane", Type: RoleOwner},
	{UserID: "Doe", Type: RoleWarehouseStaff},
}
