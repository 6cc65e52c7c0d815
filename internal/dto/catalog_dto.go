package dto

import (
	"time"

	"github.com/google/uuid"
)

type NamedRefResponse struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type ProductResponse struct {
	Id                 uuid.UUID         `json:"id"`
	Title              string            `json:"title"`
	Description        string            `json:"description"`
	Price              float64           `json:"price"`
	DiscountPercentage float64           `json:"discountPercentage"`
	StockQuantity      int               `json:"stockQuantity"`
	Thumbnail          string            `json:"thumbnail"`
	Images             []string          `json:"images"`
	Category           *NamedRefResponse `json:"category,omitempty"`
	Brand              *NamedRefResponse `json:"brand,omitempty"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          *time.Time        `json:"updatedAt"`
}

type ListProductsRequest struct {
	Q          string `query:"q"`
	CategoryId string `query:"category" validate:"omitempty,uuid"`
	BrandId    string `query:"brand" validate:"omitempty,uuid"`
	Page       int    `query:"page" validate:"min=0"`
	Limit      int    `query:"limit" validate:"min=0,max=100"`
}

type ListProductsResponse struct {
	Items []ProductResponse `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
