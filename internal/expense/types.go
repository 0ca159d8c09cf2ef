package expense

import (
	"context"
	"time"
)

// Category classifies a bill.
type Category string

const (
	CategoryFood        Category = "food"
	CategoryElectricity Category = "electricity"
	CategoryOther       Category = "other"
)

// Submission is the categorization form payload for one stored bill image.
type Submission struct {
	ImageID  string    `form:"imageId" json:"imageId" validate:"required"`
	ImageURL string    `form:"imageUrl" json:"imageUrl" validate:"omitempty,url"`
	Category Category  `form:"category" json:"category" validate:"required,oneof=food electricity other"`
	Amount   float64   `form:"amount" json:"amount" validate:"required,gt=0"`
	SpentOn  time.Time `json:"date" validate:"required"`
	Members  []string  `form:"members" json:"members" validate:"omitempty,dive,required"`
}

// Record is a persisted expense.
type Record struct {
	ID        string    `json:"id"`
	ImageID   string    `json:"image_id"`
	ImageURL  string    `json:"image_url"`
	Category  Category  `json:"category"`
	Amount    float64   `json:"amount"`
	SpentOn   time.Time `json:"spent_on"`
	Members   []string  `json:"members,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryTotal is one row of a monthly per-category aggregate.
type CategoryTotal struct {
	Category Category
	Total    float64
}

// Store persists expense records.
type Store interface {
	Insert(ctx context.Context, record Record) error
	MonthlyTotals(ctx context.Context, year int, month time.Month) ([]CategoryTotal, error)
}

// SheetAppender mirrors each expense into the shared spreadsheet.
type SheetAppender interface {
	AppendExpense(ctx context.Context, record Record) error
}
