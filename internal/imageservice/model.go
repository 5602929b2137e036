package imageservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/sushihentaime/diarist/internal/common"
)

var ErrEntryForeignKey = errors.New("entry_id does not exist")

func newImageModel(db *sql.DB) *ImageModel {
	return &ImageModel{db: db}
}

// ForeignKeyError is a helper function to check if the error is a foreign key constraint error.
func ForeignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

func (m *ImageModel) entryExists(ctx context.Context, entryID int) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM entries WHERE id = $1)`

	var exists bool
	err := m.db.QueryRowContext(ctx, query, entryID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (m *ImageModel) insert(ctx context.Context, entryID int) (*Image, error) {
	query := `
		INSERT INTO images (entry_id)
		VALUES ($1)
		RETURNING id, entry_id, created_at`

	var image Image
	err := m.db.QueryRowContext(ctx, query, entryID).Scan(&image.ID, &image.EntryID, &image.CreatedAt)
	if err != nil {
		switch {
		case ForeignKeyError(err, "images_entry_id_fkey"):
			return nil, ErrEntryForeignKey
		default:
			return nil, err
		}
	}

	return &image, nil
}

func (m *ImageModel) getImageById(ctx context.Context, id int) (*Image, error) {
	query := `
		SELECT id, entry_id, created_at
		FROM images
		WHERE id = $1`

	row := m.db.QueryRowContext(ctx, query, id)

	var image Image
	err := row.Scan(&image.ID, &image.EntryID, &image.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &image, nil
}

func (m *ImageModel) deleteImage(ctx context.Context, id int) (bool, error) {
	query := `
		DELETE FROM images
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
