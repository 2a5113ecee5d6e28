package models

import (
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryShopping      Category = "Shopping"
	CategoryEntertainment Category = "Entertainment"
	CategoryBills         Category = "Bills"
	CategoryHealth        Category = "Health"
	CategoryEducation     Category = "Education"
	CategoryOther         Category = "Other"
)

var categoryIcons = map[Category]string{
	CategoryFood:          "🍔",
	CategoryTransport:     "🚗",
	CategoryShopping:      "🛒",
	CategoryEntertainment: "🎮",
	CategoryBills:         "📄",
	CategoryHealth:        "💊",
	CategoryEducation:     "📚",
	CategoryOther:         "📦",
}

func Categories() []Category {
	return []Category{
		CategoryFood, CategoryTransport, CategoryShopping, CategoryEntertainment,
		CategoryBills, CategoryHealth, CategoryEducation, CategoryOther,
	}
}

func (c Category) Icon() string {
	if icon, ok := categoryIcons[c]; ok {
		return icon
	}
	return categoryIcons[CategoryOther]
}

func (c Category) Valid() bool {
	_, ok := categoryIcons[c]
	return ok
}

// NormalizeCategory maps an arbitrary category string onto the closed set,
// falling back to Other for anything unrecognized.
func NormalizeCategory(s string) Category {
	for _, c := range Categories() {
		if string(c) == s {
			return c
		}
	}
	return CategoryOther
}

type InputSource string

const (
	SourceText    InputSource = "text"
	SourceVoice   InputSource = "voice"
	SourceReceipt InputSource = "receipt"
)

type Transaction struct {
	ID              uuid.UUID   `db:"id"`
	UserID          uuid.UUID   `db:"user_id"`
	AmountEncrypted string      `db:"amount_encrypted"`
	Description     string      `db:"description"`
	Category        Category    `db:"category"`
	Source          InputSource `db:"source"`
	WalletID        *uuid.UUID  `db:"wallet_id"`
	StoreName       string      `db:"store_name"`
	ReceiptDate     *time.Time  `db:"receipt_date"`
	CreatedAt       time.Time   `db:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at"`
}
