package imageservice

import (
	"database/sql"
	"time"

	"github.com/sushihentaime/diarist/internal/common"
)

type Image struct {
	ID        int       `json:"id"`
	EntryID   int       `json:"entry_id"`
	CreatedAt time.Time `json:"created_at"`
}

type ImageModel struct {
	db *sql.DB
}

type ImageService struct {
	m     *ImageModel
	blobs *BlobStore
	c     *common.Cache
}
