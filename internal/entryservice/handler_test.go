package entryservice

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/sushihentaime/diarist/internal/common"
	"github.com/sushihentaime/diarist/internal/imageservice"
)

func setupTestEnvironment(t *testing.T) (*EntryService, *sql.DB, *imageservice.BlobStore, func() error) {
	db := common.TestDB("file://../../migrations", t)
	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	blobs, err := imageservice.NewBlobStore(t.TempDir())
	assert.NoError(t, err)

	cleanup := func() error {
		_, err := db.Exec("DELETE FROM entries")
		if err != nil {
			return err
		}

		cache.Flush()

		return nil
	}

	return NewEntryService(db, cache, blobs), db, blobs, cleanup
}

func createRandomEntry(db *sql.DB, title string, date time.Time) (*int, error) {
	query := `
		INSERT INTO entries (title, description, entry_date)
		VALUES ($1, $2, $3)
		RETURNING id`

	var id int
	err := db.QueryRow(query, title, "A test entry.", date).Scan(&id)
	if err != nil {
		return nil, err
	}

	return &id, nil
}

func createRandomImage(db *sql.DB, entryId int) (*int, error) {
	query := `
		INSERT INTO images (entry_id)
		VALUES ($1)
		RETURNING id`

	var id int
	err := db.QueryRow(query, entryId).Scan(&id)
	if err != nil {
		return nil, err
	}

	return &id, nil
}

func TestCreateEntry(t *testing.T) {
	s, db, _, cleanup := setupTestEnvironment(t)

	date := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	testCases := []struct {
		name        string
		req         *CreateEntryRequest
		expectedErr error
	}{
		{
			name: "valid entry",
			req: &CreateEntryRequest{
				Title:       "A quiet morning",
				Description: "Coffee on the balcony.",
				Date:        &date,
			},
			expectedErr: nil,
		},
		{
			name: "date defaults to now",
			req: &CreateEntryRequest{
				Title: "No date given",
			},
			expectedErr: nil,
		},
		{
			name: "empty title",
			req: &CreateEntryRequest{
				Description: "Coffee on the balcony.",
			},
			expectedErr: common.ValidationError{Errors: map[string]string{"title": "must be provided"}},
		},
		{
			name: "blank title",
			req: &CreateEntryRequest{
				Title: "   ",
			},
			expectedErr: common.ValidationError{Errors: map[string]string{"title": "must be provided"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()

			entry, err := s.CreateEntry(ctx, tc.req)
			assert.Equal(t, tc.expectedErr, err)

			if err == nil {
				assert.NotZero(t, entry.ID)
				assert.Equal(t, tc.req.Title, entry.Title)
				assert.Equal(t, tc.req.Description, entry.Description)

				if tc.req.Date != nil {
					assert.True(t, tc.req.Date.Equal(entry.Date))
				} else {
					assert.WithinDuration(t, time.Now().UTC(), entry.Date, time.Minute)
				}

				var count int
				err := db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&count)
				assert.NoError(t, err)
				assert.Equal(t, 1, count)
			}

			t.Cleanup(func() {
				err := cleanup()
				assert.NoError(t, err)
			})
		})
	}
}

func TestGetEntryByID(t *testing.T) {
	s, db, _, cleanup := setupTestEnvironment(t)

	entryId, err := createRandomEntry(db, "With images", time.Now().UTC())
	assert.NoError(t, err)

	imageId, err := createRandomImage(db, *entryId)
	assert.NoError(t, err)

	emptyId, err := createRandomEntry(db, "Without images", time.Now().UTC())
	assert.NoError(t, err)

	testCases := []struct {
		name        string
		id          int
		expectedIds []int
		expectedErr error
	}{
		{
			name:        "entry with images",
			id:          *entryId,
			expectedIds: []int{*imageId},
			expectedErr: nil,
		},
		{
			name:        "entry without images",
			id:          *emptyId,
			expectedIds: []int{},
			expectedErr: nil,
		},
		{
			name:        "missing entry",
			id:          999999,
			expectedErr: common.ErrRecordNotFound,
		},
		{
			name:        "non-positive id",
			id:          0,
			expectedErr: common.ErrRecordNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()

			entry, err := s.GetEntryByID(ctx, tc.id)
			assert.Equal(t, tc.expectedErr, err)

			if err == nil {
				assert.Equal(t, tc.id, entry.ID)
				assert.Equal(t, tc.expectedIds, entry.ImageIDs)
			}
		})
	}

	t.Cleanup(func() {
		err := cleanup()
		assert.NoError(t, err)
	})
}

func TestGetEntryByIDCached(t *testing.T) {
	s, db, _, cleanup := setupTestEnvironment(t)

	entryId, err := createRandomEntry(db, "Cache me", time.Now().UTC())
	assert.NoError(t, err)

	ctx := context.Background()

	first, err := s.GetEntryByID(ctx, *entryId)
	assert.NoError(t, err)

	// the row is gone but the cached view still answers
	_, err = db.Exec("DELETE FROM entries WHERE id = $1", *entryId)
	assert.NoError(t, err)

	second, err := s.GetEntryByID(ctx, *entryId)
	assert.NoError(t, err)
	assert.Equal(t, first, second)

	t.Cleanup(func() {
		err := cleanup()
		assert.NoError(t, err)
	})
}

func TestGetEntries(t *testing.T) {
	s, db, _, cleanup := setupTestEnvironment(t)

	march := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	april := time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := createRandomEntry(db, "March entry", march.Add(time.Duration(i)*time.Hour))
		assert.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		_, err := createRandomEntry(db, "April entry", april.Add(time.Duration(i)*time.Hour))
		assert.NoError(t, err)
	}

	testCases := []struct {
		name               string
		req                ListEntriesRequest
		expectedItems      int
		expectedTotal      int
		expectedPage       int
		expectedPageSize   int
		expectedTotalPages int
	}{
		{
			name:               "first page",
			req:                ListEntriesRequest{Page: 1, PageSize: 2},
			expectedItems:      2,
			expectedTotal:      5,
			expectedPage:       1,
			expectedPageSize:   2,
			expectedTotalPages: 3,
		},
		{
			name:               "last page",
			req:                ListEntriesRequest{Page: 3, PageSize: 2},
			expectedItems:      1,
			expectedTotal:      5,
			expectedPage:       3,
			expectedPageSize:   2,
			expectedTotalPages: 3,
		},
		{
			name:               "page beyond the end",
			req:                ListEntriesRequest{Page: 9, PageSize: 2},
			expectedItems:      0,
			expectedTotal:      5,
			expectedPage:       9,
			expectedPageSize:   2,
			expectedTotalPages: 3,
		},
		{
			name:               "page coerced to one",
			req:                ListEntriesRequest{Page: -1, PageSize: 2},
			expectedItems:      2,
			expectedTotal:      5,
			expectedPage:       1,
			expectedPageSize:   2,
			expectedTotalPages: 3,
		},
		{
			name:               "page size coerced to default",
			req:                ListEntriesRequest{Page: 1, PageSize: 500},
			expectedItems:      5,
			expectedTotal:      5,
			expectedPage:       1,
			expectedPageSize:   10,
			expectedTotalPages: 1,
		},
		{
			name:               "date filter",
			req:                ListEntriesRequest{FilterDate: &march},
			expectedItems:      3,
			expectedTotal:      3,
			expectedPage:       1,
			expectedPageSize:   10,
			expectedTotalPages: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()

			list, err := s.GetEntries(ctx, tc.req)
			assert.NoError(t, err)

			assert.Len(t, list.Items, tc.expectedItems)
			assert.Equal(t, tc.expectedTotal, list.Total)
			assert.Equal(t, tc.expectedPage, list.Page)
			assert.Equal(t, tc.expectedPageSize, list.PageSize)
			assert.Equal(t, tc.expectedTotalPages, list.TotalPages)
		})
	}

	t.Run("sort order", func(t *testing.T) {
		ctx := context.Background()

		desc, err := s.GetEntries(ctx, ListEntriesRequest{Sort: "bogus"})
		assert.NoError(t, err)

		asc, err := s.GetEntries(ctx, ListEntriesRequest{Sort: SortAscending})
		assert.NoError(t, err)

		assert.Len(t, desc.Items, 5)
		assert.Len(t, asc.Items, 5)
		assert.Equal(t, desc.Items[0].ID, asc.Items[4].ID)
		assert.Equal(t, desc.Items[4].ID, asc.Items[0].ID)
	})

	t.Cleanup(func() {
		err := cleanup()
		assert.NoError(t, err)
	})
}

func TestGetEntriesByDate(t *testing.T) {
	s, db, _, cleanup := setupTestEnvironment(t)

	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	_, err := createRandomEntry(db, "Morning", day.Add(8*time.Hour))
	assert.NoError(t, err)
	_, err = createRandomEntry(db, "Evening", day.Add(20*time.Hour))
	assert.NoError(t, err)
	_, err = createRandomEntry(db, "Other day", day.AddDate(0, 0, 1))
	assert.NoError(t, err)

	ctx := context.Background()

	entries, err := s.GetEntriesByDate(ctx, day)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = s.GetEntriesByDate(ctx, day.AddDate(0, 0, 5))
	assert.NoError(t, err)
	assert.Len(t, entries, 0)

	t.Cleanup(func() {
		err := cleanup()
		assert.NoError(t, err)
	})
}

func TestUpdateEntry(t *testing.T) {
	s, db, _, cleanup := setupTestEnvironment(t)

	title := "Updated title"
	description := "Updated description."
	date := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name                string
		req                 *UpdateEntryRequest
		expectedTitle       string
		expectedDescription string
		expectedErr         error
	}{
		{
			name:                "update title only",
			req:                 &UpdateEntryRequest{Title: &title},
			expectedTitle:       title,
			expectedDescription: "A test entry.",
		},
		{
			name:                "update description only",
			req:                 &UpdateEntryRequest{Description: &description},
			expectedTitle:       "Original",
			expectedDescription: description,
		},
		{
			name:                "update date only",
			req:                 &UpdateEntryRequest{Date: &date},
			expectedTitle:       "Original",
			expectedDescription: "A test entry.",
		},
		{
			name:        "blank title rejected",
			req:         &UpdateEntryRequest{Title: strptr("  ")},
			expectedErr: common.ValidationError{Errors: map[string]string{"title": "must be provided"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()

			entryId, err := createRandomEntry(db, "Original", time.Now().UTC())
			assert.NoError(t, err)

			entry, err := s.UpdateEntry(ctx, *entryId, tc.req)
			assert.Equal(t, tc.expectedErr, err)

			if err == nil {
				assert.Equal(t, tc.expectedTitle, entry.Title)
				assert.Equal(t, tc.expectedDescription, entry.Description)

				if tc.req.Date != nil {
					assert.True(t, tc.req.Date.Equal(entry.Date))
				}
			}

			t.Cleanup(func() {
				err := cleanup()
				assert.NoError(t, err)
			})
		})
	}

	t.Run("missing entry", func(t *testing.T) {
		_, err := s.UpdateEntry(context.Background(), 999999, &UpdateEntryRequest{Title: &title})
		assert.Equal(t, common.ErrRecordNotFound, err)
	})

	t.Run("non-positive id", func(t *testing.T) {
		_, err := s.UpdateEntry(context.Background(), 0, &UpdateEntryRequest{Title: &title})
		assert.Equal(t, common.ErrRecordNotFound, err)
	})
}

func strptr(s string) *string {
	return &s
}

func TestDeleteEntry(t *testing.T) {
	s, db, blobs, cleanup := setupTestEnvironment(t)

	entryId, err := createRandomEntry(db, "Doomed", time.Now().UTC())
	assert.NoError(t, err)

	imageId, err := createRandomImage(db, *entryId)
	assert.NoError(t, err)

	err = blobs.Write(*imageId, ".png", []byte("fake image bytes"))
	assert.NoError(t, err)

	ctx := context.Background()

	deleted, err := s.DeleteEntry(ctx, *entryId)
	assert.NoError(t, err)
	assert.True(t, deleted)

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&count)
	assert.NoError(t, err)
	assert.Equal(t, 0, count)

	err = db.QueryRow("SELECT COUNT(*) FROM images").Scan(&count)
	assert.NoError(t, err)
	assert.Equal(t, 0, count)

	_, found := blobs.Find(*imageId)
	assert.False(t, found)

	// deleting a missing entry reports false without an error
	deleted, err = s.DeleteEntry(ctx, *entryId)
	assert.NoError(t, err)
	assert.False(t, deleted)

	// non-positive ids behave like any other missing entry
	deleted, err = s.DeleteEntry(ctx, 0)
	assert.NoError(t, err)
	assert.False(t, deleted)

	t.Cleanup(func() {
		err := cleanup()
		assert.NoError(t, err)
	})
}
