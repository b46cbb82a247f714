package repository

import (
	"context"      // context carries deadlines and cancellation to DB calls
	"database/sql" // sql provides generic database operations and drivers
	"errors"
	"strconv"

	"github.com/iliyamo/skate-pins/internal/model"
)

// PinRepo encapsulates all queries against the pins table.  Ids are decimal
// AUTO_INCREMENT values exposed to callers as opaque strings.
type PinRepo struct {
	db *sql.DB
}

// NewPinRepo constructs a PinRepo with the provided DB handle.
func NewPinRepo(db *sql.DB) *PinRepo {
	return &PinRepo{db: db}
}

// parseID converts an opaque pin id back into the table key.
func parseID(id string) (uint64, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return 0, ErrInvalidID
	}
	return n, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// ListAll returns every stored pin ordered by id.
func (r *PinRepo) ListAll(ctx context.Context) ([]*model.Pin, error) {
	const q = `SELECT id, lat, lng, type, title, description, created_at FROM pins ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Pin{}
	for rows.Next() {
		p, err := scanPin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts p and fills in the store-assigned ID and CreatedAt so the
// caller holds the row exactly as stored.
func (r *PinRepo) Create(ctx context.Context, p *model.Pin) error {
	const qInsert = `INSERT INTO pins (lat, lng, type, title, description) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, p.Lat, p.Lng, string(p.Type), nullable(p.Title), nullable(p.Description))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, strconv.FormatInt(id, 10))
	if err != nil {
		return err
	}
	*p = *stored
	return nil
}

// GetByID fetches one pin.  It returns ErrPinNotFound when no row matches.
func (r *PinRepo) GetByID(ctx context.Context, id string) (*model.Pin, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	const q = `SELECT id, lat, lng, type, title, description, created_at FROM pins WHERE id = ?`
	p, err := scanPin(r.db.QueryRowContext(ctx, q, n))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPinNotFound
	}
	return p, err
}

// DeleteByID removes a pin.  It returns ErrPinNotFound when nothing was
// deleted.
func (r *PinRepo) DeleteByID(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM pins WHERE id = ?`, n)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrPinNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPin(s rowScanner) (*model.Pin, error) {
	var (
		p           model.Pin
		id          uint64
		typ         string
		title, desc sql.NullString
		createdAt   sql.NullString
	)
	if err := s.Scan(&id, &p.Lat, &p.Lng, &typ, &title, &desc, &createdAt); err != nil {
		return nil, err
	}
	p.ID = strconv.FormatUint(id, 10)
	p.Type = model.PinType(typ)
	p.Title = title.String
	p.Description = desc.String
	p.CreatedAt = createdAt.String
	return &p, nil
}
