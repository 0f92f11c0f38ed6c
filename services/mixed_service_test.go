package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"jotter/models"
)

func at(dayOffset int) time.Time {
	base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.Local)
	return base.AddDate(0, 0, dayOffset)
}

func TestMergeTaggedOrdering(t *testing.T) {
	folders := []models.Folder{
		{Name: "Projects", CreatedAt: at(0), UpdatedAt: at(0)},
		{Name: "Archive", CreatedAt: at(5), UpdatedAt: at(5)},
	}
	files := []models.File{
		{Name: "scan.pdf", CreatedAt: at(3), UpdatedAt: at(3)},
		{Name: "photo.png", CreatedAt: at(1), UpdatedAt: at(1)},
	}
	notes := []models.Note{
		{Title: "Ideas", CreatedAt: at(4), UpdatedAt: at(4)},
		{Title: "Todo", CreatedAt: at(2), UpdatedAt: at(2)},
	}

	items, breakdown := mergeTagged(folders, files, notes)
	sortByCreatedAtDesc(items)

	require.Len(t, items, 6)
	assert.Equal(t, KindBreakdown{Folders: 2, Files: 2, Notes: 2}, breakdown)

	// Strictly newest first across all kinds.
	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].CreatedAt.After(items[i-1].CreatedAt),
			"items[%d] is newer than items[%d]", i, i-1)
	}

	assert.Equal(t, EntityTypeFolder, items[0].EntityType)
	assert.Equal(t, EntityTypeNote, items[1].EntityType)
	assert.Equal(t, EntityTypeFile, items[2].EntityType)
}

func TestSortByUpdatedAtDesc(t *testing.T) {
	items := []TaggedItem{
		{EntityType: EntityTypeNote, UpdatedAt: at(1)},
		{EntityType: EntityTypeFile, UpdatedAt: at(3)},
		{EntityType: EntityTypeFolder, UpdatedAt: at(2)},
	}

	sortByUpdatedAtDesc(items)

	assert.Equal(t, EntityTypeFile, items[0].EntityType)
	assert.Equal(t, EntityTypeFolder, items[1].EntityType)
	assert.Equal(t, EntityTypeNote, items[2].EntityType)
}

func TestTruncationAfterMerge(t *testing.T) {
	var folders []models.Folder
	for i := 0; i < 4; i++ {
		folders = append(folders, models.Folder{CreatedAt: at(i)})
	}
	files := []models.File{{CreatedAt: at(10)}}

	items, _ := mergeTagged(folders, files, nil)
	sortByCreatedAtDesc(items)

	limit := 3
	if len(items) > limit {
		items = items[:limit]
	}

	require.Len(t, items, 3)
	// The newest item survives truncation regardless of kind.
	assert.Equal(t, EntityTypeFile, items[0].EntityType)
	assert.Equal(t, at(10), items[0].CreatedAt)
}

func TestTaggedItemMarshalJSON(t *testing.T) {
	item := TaggedItem{
		EntityType: EntityTypeFolder,
		Item:       models.Folder{Name: "Taxes", Color: "#ff0000"},
	}

	data, err := json.Marshal(item)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "folder", decoded["entity_type"])
	assert.Equal(t, "Taxes", decoded["name"])
	assert.Equal(t, "#ff0000", decoded["color"])
}

func TestBucketDays(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2024, time.March, d, 15, 30, 0, 0, time.Local)
	}

	days := bucketDays(
		[]time.Time{day(1), day(1)},
		[]time.Time{day(1), day(15)},
		[]time.Time{day(15), day(15), day(28)},
	)

	require.Len(t, days, 3)

	assert.Equal(t, &DayCounts{Folders: 2, Files: 1, Notes: 0, Total: 3}, days[1])
	assert.Equal(t, &DayCounts{Folders: 0, Files: 1, Notes: 2, Total: 3}, days[15])
	assert.Equal(t, &DayCounts{Folders: 0, Files: 0, Notes: 1, Total: 1}, days[28])

	// Days with no activity are absent, not zeroed.
	_, ok := days[2]
	assert.False(t, ok)
}

func TestBucketDaysEmpty(t *testing.T) {
	assert.Empty(t, bucketDays(nil, nil, nil))
}

func TestSearchEmptyQueryShortCircuits(t *testing.T) {
	// A blank query never touches storage, so a zero-value service is safe.
	s := &MixedService{}

	for _, query := range []string{"", "   ", "\t\n"} {
		result, err := s.Search(context.Background(), primitive.NewObjectID(), query, "")
		require.NoError(t, err)
		assert.Empty(t, result.Items)
		assert.Equal(t, 0, result.Count)
	}
}
