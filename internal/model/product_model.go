package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Product struct {
	Id                 uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title              string                      `gorm:"type:text;not null"`
	Description        string                      `gorm:"type:text;not null;default:''"`
	Price              float64                     `gorm:"type:numeric(12,2);not null;default:0"`
	DiscountPercentage float64                     `gorm:"type:numeric(5,2);not null;default:0;index"`
	StockQuantity      int                         `gorm:"not null;default:0"`
	Thumbnail          string                      `gorm:"type:text"`
	Images             datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	IsDeleted          bool                        `gorm:"not null;default:false;index"`
	CategoryId         uuid.UUID                   `gorm:"type:uuid;not null;index"`
	BrandId            uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Category           *Category                   `gorm:"foreignKey:CategoryId"`
	Brand              *Brand                      `gorm:"foreignKey:BrandId"`
	CreatedAt          time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt          time.Time                   `gorm:"autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}

type Category struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:text;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Category) TableName() string {
	return "categories"
}

type Brand struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:text;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Brand) TableName() string {
	return "brands"
}
