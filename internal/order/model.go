package order

import (
	"time"

	"github.com/gofrs/uuid"
)

// Record is one participant's order text for one calendar day.
type Record struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Identity  string    `json:"identity" db:"identity"`
	Day       time.Time `json:"day" db:"day"` // полночь, ключ агрегации
	Content   string    `json:"content" db:"content"`
	Seq       int64     `json:"-" db:"seq"` // порядок вставки, разрешает равные created_at
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Day truncates t to the calendar date it falls on in its own location.
// The result is midnight UTC of that date so it compares and stores as a plain DATE.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
