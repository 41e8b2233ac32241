package store

import (
	"database/sql"
	"fmt"
	"time"

	"lotwatch/torgiwatch/internal/model"
)

// timeLayout is fixed width so that text ordering matches time ordering
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const lotColumns = `lot_number, title, lot_type, initial_price, current_price, currency,
	region, address, application_deadline, status, organizer, lot_url,
	created_at, updated_at, first_seen_at`

// migrations returns the DDL for driver. Column types differ only in the
// identity column and the price type.
func migrations(driver string) []string {
	idType, floatType := "INTEGER PRIMARY KEY AUTOINCREMENT", "REAL"
	if driver == DriverPostgres {
		idType, floatType = "BIGSERIAL PRIMARY KEY", "DOUBLE PRECISION"
	}

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS lots (
			id %s,
			lot_number TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL DEFAULT '',
			lot_type TEXT NOT NULL DEFAULT '',
			initial_price %s,
			current_price %s,
			currency TEXT NOT NULL DEFAULT '₽',
			region TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			application_deadline TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT '',
			organizer TEXT NOT NULL DEFAULT '',
			lot_url TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			first_seen_at TEXT NOT NULL
		)`, idType, floatType, floatType),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS status_history (
			id %s,
			lot_number TEXT NOT NULL,
			old_status TEXT NOT NULL DEFAULT '',
			new_status TEXT NOT NULL DEFAULT '',
			changed_at TEXT NOT NULL
		)`, idType),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS filters (
			id %s,
			filter_name TEXT NOT NULL,
			filter_data TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`, idType),
		`CREATE INDEX IF NOT EXISTS idx_lots_lot_number ON lots(lot_number)`,
		`CREATE INDEX IF NOT EXISTS idx_lots_status ON lots(status)`,
		`CREATE INDEX IF NOT EXISTS idx_lots_region ON lots(region)`,
		`CREATE INDEX IF NOT EXISTS idx_status_history_lot_number ON status_history(lot_number)`,
	}
}

type lotSchema struct {
	ID                  int64           `db:"id"`
	LotNumber           string          `db:"lot_number"`
	Title               string          `db:"title"`
	LotType             string          `db:"lot_type"`
	InitialPrice        sql.NullFloat64 `db:"initial_price"`
	CurrentPrice        sql.NullFloat64 `db:"current_price"`
	Currency            string          `db:"currency"`
	Region              string          `db:"region"`
	Address             string          `db:"address"`
	ApplicationDeadline string          `db:"application_deadline"`
	Status              string          `db:"status"`
	Organizer           string          `db:"organizer"`
	LotURL              string          `db:"lot_url"`
	CreatedAt           string          `db:"created_at"`
	UpdatedAt           string          `db:"updated_at"`
	FirstSeenAt         string          `db:"first_seen_at"`
}

func (s lotSchema) toDomain() model.Lot {
	return model.Lot{
		LotNumber:           s.LotNumber,
		Title:               s.Title,
		LotType:             s.LotType,
		InitialPrice:        fromNull(s.InitialPrice),
		CurrentPrice:        fromNull(s.CurrentPrice),
		Currency:            s.Currency,
		Region:              s.Region,
		Address:             s.Address,
		ApplicationDeadline: s.ApplicationDeadline,
		Status:              s.Status,
		Organizer:           s.Organizer,
		LotURL:              s.LotURL,
		CreatedAt:           parseTime(s.CreatedAt),
		UpdatedAt:           parseTime(s.UpdatedAt),
	}
}

type historySchema struct {
	LotNumber string `db:"lot_number"`
	OldStatus string `db:"old_status"`
	NewStatus string `db:"new_status"`
	ChangedAt string `db:"changed_at"`
}

func (s historySchema) toDomain() model.StatusChange {
	return model.StatusChange{
		LotNumber: s.LotNumber,
		OldStatus: s.OldStatus,
		NewStatus: s.NewStatus,
		ChangedAt: parseTime(s.ChangedAt),
	}
}

func toNull(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func fromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return model.Float(v.Float64)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
