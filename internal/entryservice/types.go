package entryservice

import (
	"database/sql"
	"time"

	"github.com/sushihentaime/diarist/internal/common"
)

type Entry struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

// EntryWithImages is the read view of an entry together with the ids of its
// uploaded images. It is assembled per query and never stored.
type EntryWithImages struct {
	Entry
	ImageIDs []int `json:"image_ids"`
}

type EntryList struct {
	Items      []EntryWithImages `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

type EntryModel struct {
	db *sql.DB
}

// BlobRemover deletes the stored file for an image id, reporting whether a
// file was found.
type BlobRemover interface {
	Remove(id int) bool
}

type EntryService struct {
	m     *EntryModel
	c     *common.Cache
	blobs BlobRemover
}
