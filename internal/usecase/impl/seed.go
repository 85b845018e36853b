package impl

import (
	"milkrun/internal/domain/entity"
)

func intPtr(v int) *int { return &v }

// DefaultCatalog is the fixed starter catalog inserted into an empty
// backing store on first startup.
func DefaultCatalog() []*entity.Product {
	return []*entity.Product{
		{
			ID:           entity.NewID(),
			Name:         "Whole Milk 1L",
			Description:  "Fresh whole milk, pasteurized, 3.5% fat.",
			Price:        1.49,
			ImageURL:     "https://placehold.co/300x300?text=Whole+Milk",
			QuantityType: entity.QuantityUnit,
			Stock:        intPtr(120),
			IsVisible:    true,
		},
		{
			ID:           entity.NewID(),
			Name:         "Semi-Skimmed Milk 1L",
			Description:  "Fresh semi-skimmed milk, pasteurized, 1.5% fat.",
			Price:        1.39,
			ImageURL:     "https://placehold.co/300x300?text=Semi-Skimmed",
			QuantityType: entity.QuantityUnit,
			Stock:        intPtr(120),
			IsVisible:    true,
		},
		{
			ID:           entity.NewID(),
			Name:         "Greek Yogurt 500g",
			Description:  "Strained yogurt, thick and creamy.",
			Price:        2.99,
			ImageURL:     "https://placehold.co/300x300?text=Greek+Yogurt",
			QuantityType: entity.QuantityUnit,
			Stock:        intPtr(60),
			IsVisible:    true,
		},
		{
			ID:           entity.NewID(),
			Name:         "Butter 250g",
			Description:  "Sweet cream butter, unsalted.",
			Price:        3.49,
			ImageURL:     "https://placehold.co/300x300?text=Butter",
			QuantityType: entity.QuantityUnit,
			Stock:        intPtr(80),
			IsVisible:    true,
		},
		{
			ID:           entity.NewID(),
			Name:         "Aged Gouda",
			Description:  "Matured gouda cheese, sold by weight.",
			Price:        18.90,
			ImageURL:     "https://placehold.co/300x300?text=Aged+Gouda",
			QuantityType: entity.QuantityKg,
			Stock:        intPtr(25),
			IsVisible:    true,
		},
		{
			ID:           entity.NewID(),
			Name:         "Fresh Cream 200ml",
			Description:  "Whipping cream, 35% fat.",
			Price:        1.89,
			ImageURL:     "https://placehold.co/300x300?text=Fresh+Cream",
			QuantityType: entity.QuantityUnit,
			Stock:        intPtr(40),
			IsVisible:    true,
		},
	}
}
