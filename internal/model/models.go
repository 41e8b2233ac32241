// Package model holds the lot records, status transitions and filter
// configuration shared by the crawler, storage and delivery layers.
package model

import "time"

// DefaultCurrency is assigned to lots whose source does not name one.
const DefaultCurrency = "₽"

// Lot is one auctioned item tracked by its lot number.
type Lot struct {
	LotNumber           string    `json:"lot_number"`
	Title               string    `json:"title"`
	LotType             string    `json:"lot_type"`
	InitialPrice        *float64  `json:"initial_price"`
	CurrentPrice        *float64  `json:"current_price"`
	Currency            string    `json:"currency"`
	Region              string    `json:"region"`
	Address             string    `json:"address"`
	ApplicationDeadline string    `json:"application_deadline"`
	Status              string    `json:"status"`
	Organizer           string    `json:"organizer"`
	LotURL              string    `json:"lot_url"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Details are the fields recovered from a lot's detail page.
type Details struct {
	Organizer string
	Address   string
	Region    string
}

// Apply copies every recognized detail onto the lot. Empty details never
// overwrite list values.
func (l *Lot) Apply(d Details) {
	if d.Organizer != "" {
		l.Organizer = d.Organizer
	}
	if d.Address != "" {
		l.Address = d.Address
	}
	if d.Region != "" {
		l.Region = d.Region
	}
}

// StatusChange is one append-only status transition.
type StatusChange struct {
	LotNumber string    `json:"lot_number"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	ChangedAt time.Time `json:"changed_at"`
}

// Filter is the single active search configuration.
type Filter struct {
	Region    string   `json:"region,omitempty" validate:"max=200"`
	Status    string   `json:"status,omitempty" validate:"max=100"`
	LotType   string   `json:"lot_type,omitempty" validate:"max=100"`
	Organizer string   `json:"organizer,omitempty" validate:"max=300"`
	MinPrice  *float64 `json:"min_price,omitempty" validate:"omitempty,gte=0"`
	MaxPrice  *float64 `json:"max_price,omitempty" validate:"omitempty,gte=0"`
}

// ListQuery narrows stored lots: Region matches as a substring, Status exactly.
type ListQuery struct {
	Region string
	Status string
}

// Float returns a pointer to v, for optional prices.
func Float(v float64) *float64 {
	return &v
}
