package specification

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotSoftDeleted hides products flagged with is_deleted.
type NotSoftDeleted struct{}

func (s NotSoftDeleted) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ProductTextMatch keeps products whose title or description contains Term,
// case-insensitively. Wildcards in Term are matched literally.
type ProductTextMatch struct {
	Term string
}

func (s ProductTextMatch) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + likeEscaper.Replace(s.Term) + "%"
	return db.Where("(title ILIKE ? OR description ILIKE ?)", pattern, pattern)
}

// HasDiscount keeps products with a positive discount percentage.
type HasDiscount struct{}

func (s HasDiscount) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("discount_percentage > ?", 0)
}

// WithCatalogRefs populates the category and brand of each product.
type WithCatalogRefs struct{}

func (s WithCatalogRefs) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("Category").Preload("Brand")
}

type ByCategoryID struct {
	CategoryID uuid.UUID
}

func (s ByCategoryID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category_id = ?", s.CategoryID)
}

type ByBrandID struct {
	BrandID uuid.UUID
}

func (s ByBrandID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("brand_id = ?", s.BrandID)
}
