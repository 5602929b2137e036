package entryservice

import (
	"context"
	"database/sql"
	"time"

	"github.com/sushihentaime/diarist/internal/common"
)

const (
	SortAscending  = "asc"
	SortDescending = "desc"

	defaultPageSize = 10
	maxPageSize     = 100
)

func NewEntryService(db *sql.DB, cache *common.Cache, blobs BlobRemover) *EntryService {
	return &EntryService{m: newEntryModel(db), c: cache, blobs: blobs}
}

type CreateEntryRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        *time.Time `json:"date"`
}

// CreateEntry creates a new diary entry. The date defaults to the current
// time when not provided.
func (s *EntryService) CreateEntry(ctx context.Context, req *CreateEntryRequest) (*Entry, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = req.Date.UTC()
	}

	return s.m.insert(ctx, req.Title, req.Description, date)
}

type ListEntriesRequest struct {
	Page       int
	PageSize   int
	Sort       string
	FilterDate *time.Time
}

// GetEntries returns one page of entries, each enriched with its image ids.
// Page is coerced to at least 1, page size to 10 when outside [1, 100] and
// sort to newest first unless ascending is asked for explicitly.
func (s *EntryService) GetEntries(ctx context.Context, req ListEntriesRequest) (*EntryList, error) {
	if req.Page < 1 {
		req.Page = 1
	}

	if req.PageSize < 1 || req.PageSize > maxPageSize {
		req.PageSize = defaultPageSize
	}

	direction := "DESC"
	if req.Sort == SortAscending {
		direction = "ASC"
	}

	total, err := s.m.countEntries(ctx, req.FilterDate)
	if err != nil {
		return nil, err
	}

	offset := (req.Page - 1) * req.PageSize
	entries, err := s.m.getEntries(ctx, req.PageSize, offset, direction, req.FilterDate)
	if err != nil {
		return nil, err
	}

	items, err := s.withImages(ctx, entries)
	if err != nil {
		return nil, err
	}

	totalPages := (total + req.PageSize - 1) / req.PageSize

	return &EntryList{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}

// GetEntriesByDate returns all entries whose date falls on the given day,
// without pagination.
func (s *EntryService) GetEntriesByDate(ctx context.Context, date time.Time) ([]EntryWithImages, error) {
	entries, err := s.m.getEntriesByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	return s.withImages(ctx, entries)
}

// GetEntryByID returns a single entry with its image ids.
func (s *EntryService) GetEntryByID(ctx context.Context, id int) (*EntryWithImages, error) {
	// ids start at 1, so anything below can never match a row
	if id < 1 {
		return nil, common.ErrRecordNotFound
	}

	if cached, ok := s.c.Get(common.CacheKeyEntry(id)); ok {
		if entry, ok := cached.(*EntryWithImages); ok {
			return entry, nil
		}
	}

	entry, err := s.m.getEntryById(ctx, id)
	if err != nil {
		return nil, err
	}

	ids, err := s.m.getImageIds(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &EntryWithImages{Entry: *entry, ImageIDs: ids}
	s.c.Set(common.CacheKeyEntry(id), result)

	return result, nil
}

type UpdateEntryRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Date        *time.Time `json:"date"`
}

// UpdateEntry applies a partial update. Omitted fields keep their stored
// values.
func (s *EntryService) UpdateEntry(ctx context.Context, id int, req *UpdateEntryRequest) (*Entry, error) {
	if id < 1 {
		return nil, common.ErrRecordNotFound
	}

	v := common.NewValidator()
	if req.Title != nil {
		validateTitle(v, *req.Title)
	}
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	var date *time.Time
	if req.Date != nil {
		utc := req.Date.UTC()
		date = &utc
	}

	entry, err := s.m.updateEntry(ctx, id, req.Title, req.Description, date)
	if err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyEntry(id))

	return entry, nil
}

// DeleteEntry removes the entry, its image rows and their stored files. It
// returns false when the entry did not exist so callers can tell "already
// gone" from failure.
func (s *EntryService) DeleteEntry(ctx context.Context, id int) (bool, error) {
	if id < 1 {
		return false, nil
	}

	imageIds, err := s.m.getImageIds(ctx, id)
	if err != nil {
		return false, err
	}

	// file removal is best-effort; missing files are skipped
	for _, imageId := range imageIds {
		s.blobs.Remove(imageId)
	}

	deleted, err := s.m.deleteEntry(ctx, id)
	if err != nil {
		return false, err
	}

	s.c.Delete(common.CacheKeyEntry(id))

	return deleted, nil
}

func (s *EntryService) withImages(ctx context.Context, entries []Entry) ([]EntryWithImages, error) {
	items := make([]EntryWithImages, 0, len(entries))
	for _, entry := range entries {
		ids, err := s.m.getImageIds(ctx, entry.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, EntryWithImages{Entry: entry, ImageIDs: ids})
	}

	return items, nil
}
