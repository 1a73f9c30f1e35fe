// Package model defines the database tables of the userdesk service.
package model

import "time"

// Permission tier names. The catalog is closed and seeded once.
const (
	PermBlock = "block"
	PermAdmin = "admin"
	PermRead  = "read"
)

// Seeded permission ids.
const (
	PermBlockID = 1
	PermAdminID = 2
	PermReadID  = 3
)

type Permission struct {
	Id       int    `json:"id" gorm:"primaryKey"`
	PermName string `json:"perm_name" gorm:"type:varchar(10);not null;uniqueIndex"`
}

func (Permission) TableName() string {
	return "permissions"
}

type User struct {
	Id           int         `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         *string     `json:"name" gorm:"type:varchar(32)"`
	Surname      *string     `json:"surname" gorm:"type:varchar(32)"`
	Login        string      `json:"login" gorm:"type:varchar(128);uniqueIndex;not null"`
	Password     string      `json:"-" gorm:"type:varchar(256);not null"`
	DateOfBirth  *time.Time  `json:"date_of_birth" gorm:"type:date"`
	PermissionId *int        `json:"-" gorm:"column:permissions;default:3"`
	Permission   *Permission `json:"-" gorm:"foreignKey:PermissionId;references:Id;constraint:OnDelete:SET NULL"`
}

func (User) TableName() string {
	return "user"
}

// DefaultPermissions is the seeded permission catalog.
func DefaultPermissions() []Permission {
	return []Permission{
		{Id: PermBlockID, PermName: PermBlock},
		{Id: PermAdminID, PermName: PermAdmin},
		{Id: PermReadID, PermName: PermRead},
	}
}
