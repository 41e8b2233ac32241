// Package store persists lots, their status transitions and the active
// filter configuration in SQLite or PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	_ "modernc.org/sqlite" // sqlite driver

	"lotwatch/torgiwatch/internal/model"
	"lotwatch/torgiwatch/logger"
	"lotwatch/torgiwatch/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

// Supported database/sql driver names
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

const activeFilterName = "default"

// Store is the lot repository
type Store struct {
	db  *sqlx.DB
	now func() time.Time
	log *logger.Logger
}

// Open connects to the database and applies the schema
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, errors.NewConfiguration(fmt.Sprintf("unsupported database driver %q", driver), nil)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, errors.NewStorage(driver, "failed to connect", err)
	}
	if driver == DriverSQLite {
		// one writer at a time
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, now: time.Now, log: logger.ForStore()}
	if err := s.migrate(ctx, driver); err != nil {
		_ = db.Close()
		return nil, err
	}

	s.log.Info().Str("driver", driver).Msg("Database ready")
	return s, nil
}

func (s *Store) migrate(ctx context.Context, driver string) error {
	for _, stmt := range migrations(driver) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.NewStorage(driver, "migration failed", err)
		}
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// withTx runs fn in a transaction
func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.NewStorage("tx", "failed to begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.NewStorage("tx", "transaction failed", fmt.Errorf("%w; rollback: %v", err, rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.NewStorage("tx", "failed to commit", err)
	}
	return nil
}

// Upsert inserts a lot seen for the first time or overwrites the stored one.
// A status that differs from the stored status appends a transition record.
// It reports whether the lot was inserted.
func (s *Store) Upsert(ctx context.Context, lot model.Lot) (bool, error) {
	now := formatTime(s.now())
	inserted := false

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var oldStatus string
		err := tx.GetContext(ctx, &oldStatus, tx.Rebind(`SELECT status FROM lots WHERE lot_number = ?`), lot.LotNumber)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			inserted = true
			return s.insertTx(ctx, tx, lot, now)
		case err != nil:
			return errors.NewStorage("lots", "failed to look up lot", err)
		}

		if err := s.updateTx(ctx, tx, lot, now); err != nil {
			return err
		}
		if oldStatus != lot.Status {
			_, err := tx.ExecContext(ctx, tx.Rebind(`
				INSERT INTO status_history (lot_number, old_status, new_status, changed_at)
				VALUES (?, ?, ?, ?)`),
				lot.LotNumber, oldStatus, lot.Status, now)
			if err != nil {
				return errors.NewStorage("status_history", "failed to append transition", err)
			}
		}
		return nil
	})

	return inserted, err
}

func (s *Store) insertTx(ctx context.Context, tx *sqlx.Tx, lot model.Lot, now string) error {
	query := tx.Rebind(`INSERT INTO lots (` + lotColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := tx.ExecContext(ctx, query,
		lot.LotNumber, lot.Title, lot.LotType,
		toNull(lot.InitialPrice), toNull(lot.CurrentPrice), currency(lot.Currency),
		lot.Region, lot.Address, lot.ApplicationDeadline, lot.Status, lot.Organizer, lot.LotURL,
		now, now, now,
	)
	if err != nil {
		return errors.NewStorage("lots", "failed to insert lot", err)
	}
	return nil
}

func (s *Store) updateTx(ctx context.Context, tx *sqlx.Tx, lot model.Lot, now string) error {
	query := tx.Rebind(`UPDATE lots SET
		title = ?, lot_type = ?, initial_price = ?, current_price = ?, currency = ?,
		region = ?, address = ?, application_deadline = ?, status = ?, organizer = ?, lot_url = ?,
		updated_at = ?
		WHERE lot_number = ?`)

	_, err := tx.ExecContext(ctx, query,
		lot.Title, lot.LotType, toNull(lot.InitialPrice), toNull(lot.CurrentPrice), currency(lot.Currency),
		lot.Region, lot.Address, lot.ApplicationDeadline, lot.Status, lot.Organizer, lot.LotURL,
		now, lot.LotNumber,
	)
	if err != nil {
		return errors.NewStorage("lots", "failed to update lot", err)
	}
	return nil
}

// Get returns the stored lot or an error wrapping errors.ErrNotFound
func (s *Store) Get(ctx context.Context, lotNumber string) (model.Lot, error) {
	var schema lotSchema
	query := s.db.Rebind(`SELECT id, ` + lotColumns + ` FROM lots WHERE lot_number = ?`)
	if err := s.db.GetContext(ctx, &schema, query, lotNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Lot{}, errors.NewStorage("lots", "lot "+lotNumber, errors.ErrNotFound)
		}
		return model.Lot{}, errors.NewStorage("lots", "failed to get lot", err)
	}
	return schema.toDomain(), nil
}

// List returns stored lots newest first. Region matches as a substring and
// status exactly; empty criteria match everything.
func (s *Store) List(ctx context.Context, q model.ListQuery) ([]model.Lot, error) {
	query := `SELECT id, ` + lotColumns + ` FROM lots WHERE 1 = 1`
	var args []interface{}
	if q.Region != "" {
		query += ` AND region LIKE ?`
		args = append(args, "%"+q.Region+"%")
	}
	if q.Status != "" {
		query += ` AND status = ?`
		args = append(args, q.Status)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	var schemas []lotSchema
	if err := s.db.SelectContext(ctx, &schemas, s.db.Rebind(query), args...); err != nil {
		return nil, errors.NewStorage("lots", "failed to list lots", err)
	}

	lots := make([]model.Lot, 0, len(schemas))
	for _, schema := range schemas {
		lots = append(lots, schema.toDomain())
	}
	return lots, nil
}

// Count returns the number of stored lots
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM lots`); err != nil {
		return 0, errors.NewStorage("lots", "failed to count lots", err)
	}
	return count, nil
}

// StatusHistory returns the transitions of one lot, newest first
func (s *Store) StatusHistory(ctx context.Context, lotNumber string) ([]model.StatusChange, error) {
	var schemas []historySchema
	query := s.db.Rebind(`
		SELECT lot_number, old_status, new_status, changed_at
		FROM status_history
		WHERE lot_number = ?
		ORDER BY changed_at DESC, id DESC`)
	if err := s.db.SelectContext(ctx, &schemas, query, lotNumber); err != nil {
		return nil, errors.NewStorage("status_history", "failed to load history", err)
	}

	changes := make([]model.StatusChange, 0, len(schemas))
	for _, schema := range schemas {
		changes = append(changes, schema.toDomain())
	}
	return changes, nil
}

// GetFilter returns the active filter configuration. ok is false when none was saved.
func (s *Store) GetFilter(ctx context.Context) (filter model.Filter, ok bool, err error) {
	var data string
	err = s.db.GetContext(ctx, &data, `SELECT filter_data FROM filters ORDER BY id DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Filter{}, false, nil
	}
	if err != nil {
		return model.Filter{}, false, errors.NewStorage("filters", "failed to load filter", err)
	}

	if err := json.Unmarshal([]byte(data), &filter); err != nil {
		return model.Filter{}, false, errors.NewStorage("filters", "stored filter is not valid JSON", err)
	}
	return filter, true, nil
}

// SaveFilter replaces the active filter configuration
func (s *Store) SaveFilter(ctx context.Context, filter model.Filter) error {
	data, err := json.Marshal(filter)
	if err != nil {
		return errors.NewStorage("filters", "failed to encode filter", err)
	}
	now := formatTime(s.now())

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM filters`); err != nil {
			return errors.NewStorage("filters", "failed to clear filter", err)
		}
		_, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO filters (filter_name, filter_data, created_at, updated_at)
			VALUES (?, ?, ?, ?)`),
			activeFilterName, string(data), now, now)
		if err != nil {
			return errors.NewStorage("filters", "failed to save filter", err)
		}
		return nil
	})
}

func currency(c string) string {
	if c == "" {
		return model.DefaultCurrency
	}
	return c
}
