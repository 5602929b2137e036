package imageservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sushihentaime/diarist/internal/common"
)

func NewImageService(db *sql.DB, blobs *BlobStore, cache *common.Cache) *ImageService {
	return &ImageService{m: newImageModel(db), blobs: blobs, c: cache}
}

type UploadImageRequest struct {
	EntryID  int
	FileName string
	Data     []byte
}

// Upload validates the payload, records the image row and writes the file to
// the blob store. A failed file write rolls the row back so no orphan row
// remains.
func (s *ImageService) Upload(ctx context.Context, req *UploadImageRequest) (*Image, error) {
	v := common.NewValidator()
	validateInt(v, req.EntryID, "entry_id")
	validateFile(v, req.FileName, req.Data)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	exists, err := s.m.entryExists(ctx, req.EntryID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrEntryForeignKey
	}

	image, err := s.m.insert(ctx, req.EntryID)
	if err != nil {
		return nil, err
	}

	if err := s.blobs.Write(image.ID, fileExtension(req.FileName), req.Data); err != nil {
		// compensating delete; the write error is the one reported
		_, _ = s.m.deleteImage(ctx, image.ID)
		return nil, fmt.Errorf("could not write image file: %w", err)
	}

	s.c.Delete(common.CacheKeyEntry(req.EntryID))

	return image, nil
}

// Get returns the stored bytes for an image. A row without a matching file on
// disk is reported as not found.
func (s *ImageService) Get(ctx context.Context, id int) ([]byte, error) {
	if id < 1 {
		return nil, common.ErrRecordNotFound
	}

	if _, err := s.m.getImageById(ctx, id); err != nil {
		return nil, err
	}

	data, err := s.blobs.Read(id)
	if err != nil {
		switch {
		case errors.Is(err, ErrBlobNotFound):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return data, nil
}

// Delete removes the image row and its file. It returns false when the image
// does not exist; a missing file alone does not fail the delete.
func (s *ImageService) Delete(ctx context.Context, id int) (bool, error) {
	if id < 1 {
		return false, nil
	}

	image, err := s.m.getImageById(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			return false, nil
		default:
			return false, err
		}
	}

	s.blobs.Remove(id)

	if _, err := s.m.deleteImage(ctx, id); err != nil {
		return false, err
	}

	s.c.Delete(common.CacheKeyEntry(image.EntryID))

	return true, nil
}
