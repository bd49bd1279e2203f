package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	Email string
	Name  string
	Model
	Metadata datatypes.JSONMap `gorm:"type:jsonb"`
}

func (User) TableName() string {
	return "platform.platform_user"
}

func (u User) GetID() uuid.UUID {
	return u.ID
}
