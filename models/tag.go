package models

import (
	"time"
)

const DefaultTagColor = "#3b82f6"

type Tag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(50);uniqueIndex;not null"`
	Color     string    `json:"color" gorm:"type:varchar(20);default:'#3b82f6'"`
	CreatedAt time.Time `json:"createdAt"`
}

// TagCreate model for creating a tag
type TagCreate struct {
	Name  string `json:"name" binding:"required,max=50" example:"sleep"`
	Color string `json:"color" binding:"omitempty,hexcolor" example:"#10b981"`
}

func (Tag) TableName() string {
	return "tags"
}
