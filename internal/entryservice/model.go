package entryservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sushihentaime/diarist/internal/common"
)

const dateOnlyFilter = "(entry_date AT TIME ZONE 'UTC')::date = $1::date"

func newEntryModel(db *sql.DB) *EntryModel {
	return &EntryModel{db: db}
}

func (m *EntryModel) insert(ctx context.Context, title, description string, date time.Time) (*Entry, error) {
	query := `
		INSERT INTO entries (title, description, entry_date)
		VALUES ($1, $2, $3)
		RETURNING id, title, description, entry_date, created_at`

	var entry Entry
	err := m.db.QueryRowContext(ctx, query, title, description, date).Scan(&entry.ID, &entry.Title, &entry.Description, &entry.Date, &entry.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

func (m *EntryModel) getEntryById(ctx context.Context, id int) (*Entry, error) {
	query := `
		SELECT id, title, description, entry_date, created_at
		FROM entries
		WHERE id = $1`

	row := m.db.QueryRowContext(ctx, query, id)

	var entry Entry
	err := row.Scan(&entry.ID, &entry.Title, &entry.Description, &entry.Date, &entry.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &entry, nil
}

func (m *EntryModel) countEntries(ctx context.Context, date *time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM entries`

	var args []any
	if date != nil {
		query += " WHERE " + dateOnlyFilter
		args = append(args, date.UTC().Format(time.DateOnly))
	}

	var total int
	err := m.db.QueryRowContext(ctx, query, args...).Scan(&total)
	if err != nil {
		return 0, err
	}

	return total, nil
}

// getEntries returns one window of entries sorted by creation time. The
// direction is restricted to ASC or DESC by the caller before it is
// interpolated.
func (m *EntryModel) getEntries(ctx context.Context, limit, offset int, direction string, date *time.Time) ([]Entry, error) {
	where := ""
	var args []any
	if date != nil {
		where = "WHERE " + dateOnlyFilter
		args = append(args, date.UTC().Format(time.DateOnly))
	}

	query := fmt.Sprintf(`
		SELECT id, title, description, entry_date, created_at
		FROM entries
		%s
		ORDER BY created_at %s, id %s
		LIMIT $%d OFFSET $%d`, where, direction, direction, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		err := rows.Scan(&entry.ID, &entry.Title, &entry.Description, &entry.Date, &entry.CreatedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (m *EntryModel) getEntriesByDate(ctx context.Context, date time.Time) ([]Entry, error) {
	query := `
		SELECT id, title, description, entry_date, created_at
		FROM entries
		WHERE ` + dateOnlyFilter + `
		ORDER BY created_at DESC`

	rows, err := m.db.QueryContext(ctx, query, date.UTC().Format(time.DateOnly))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		err := rows.Scan(&entry.ID, &entry.Title, &entry.Description, &entry.Date, &entry.CreatedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// updateEntry overwrites only the provided fields; nil keeps the stored value.
func (m *EntryModel) updateEntry(ctx context.Context, id int, title, description *string, date *time.Time) (*Entry, error) {
	query := `
		UPDATE entries
		SET title = COALESCE($1, title),
		    description = COALESCE($2, description),
		    entry_date = COALESCE($3, entry_date)
		WHERE id = $4
		RETURNING id, title, description, entry_date, created_at`

	var entry Entry
	err := m.db.QueryRowContext(ctx, query, title, description, date, id).Scan(&entry.ID, &entry.Title, &entry.Description, &entry.Date, &entry.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &entry, nil
}

// deleteEntry removes the entry row; image rows follow through the foreign
// key cascade. It reports whether a row existed.
func (m *EntryModel) deleteEntry(ctx context.Context, id int) (bool, error) {
	query := `
		DELETE FROM entries
		WHERE id = $1`

	res, err := m.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (m *EntryModel) getImageIds(ctx context.Context, entryID int) ([]int, error) {
	query := `
		SELECT id
		FROM images
		WHERE entry_id = $1
		ORDER BY id`

	rows, err := m.db.QueryContext(ctx, query, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}
