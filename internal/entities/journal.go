package entities

import "time"

type Category string

const (
	CategoryBreakfast Category = "Breakfast"
	CategoryLunch     Category = "Lunch"
	CategoryDinner    Category = "Dinner"
	CategorySnack     Category = "Snack"

	// CategoryAll is a list filter, never a stored value.
	CategoryAll Category = "All"
)

// Categories lists the storable categories in display order.
var Categories = []Category{
	CategoryBreakfast,
	CategoryLunch,
	CategoryDinner,
	CategorySnack,
}

// Valid reports whether c can be stored on an entry.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type JournalEntry struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	UserID      uint     `gorm:"index;not null" json:"user_id"`
	User        User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ImageURI    string   `gorm:"column:image_uri;size:2048;not null" json:"image_uri"`
	Description string   `gorm:"type:text;not null" json:"description"`
	Category    Category `gorm:"size:32;not null;index" json:"category"`
	// Date is stored as an RFC 3339 string so lexical order matches time order.
	Date time.Time `gorm:"type:text;not null;index" json:"date"`
}

func (JournalEntry) TableName() string {
	return "journal_entries"
}
