package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"jotter/models"
	"jotter/utils"
)

// Entity kinds a merged feed can carry, also accepted as search filters
// (image and pdf narrow files by type).
const (
	EntityTypeFolder = "folder"
	EntityTypeFile   = "file"
	EntityTypeNote   = "note"
)

// MixedService produces the cross-entity views: recent items, date buckets,
// favorites, and search. It merges the three kinds into one ordered feed,
// tagging each item so consumers can tell them apart. Missing entities are
// simply absent from results; these reads never raise NotFound.
type MixedService struct {
	folderCollection *mongo.Collection
	fileCollection   *mongo.Collection
	noteCollection   *mongo.Collection
}

func NewMixedService(db *mongo.Database) *MixedService {
	return &MixedService{
		folderCollection: db.Collection("folders"),
		fileCollection:   db.Collection("files"),
		noteCollection:   db.Collection("notes"),
	}
}

// TaggedItem wraps one entity of any kind for a merged heterogeneous feed.
type TaggedItem struct {
	EntityType string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Item       interface{}
}

// MarshalJSON flattens the wrapped entity and injects entity_type next to
// its own fields.
func (t TaggedItem) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(t.Item)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["entity_type"] = json.RawMessage(`"` + t.EntityType + `"`)

	return json.Marshal(fields)
}

// KindBreakdown counts how many of each kind a merged result contains.
type KindBreakdown struct {
	Folders int `json:"folders"`
	Files   int `json:"files"`
	Notes   int `json:"notes"`
}

type MixedResult struct {
	Items     []TaggedItem  `json:"items"`
	Count     int           `json:"count"`
	Breakdown KindBreakdown `json:"breakdown"`
}

func tagFolders(folders []models.Folder) []TaggedItem {
	items := make([]TaggedItem, 0, len(folders))
	for _, f := range folders {
		items = append(items, TaggedItem{EntityType: EntityTypeFolder, CreatedAt: f.CreatedAt, UpdatedAt: f.UpdatedAt, Item: f})
	}
	return items
}

func tagFiles(files []models.File) []TaggedItem {
	items := make([]TaggedItem, 0, len(files))
	for _, f := range files {
		items = append(items, TaggedItem{EntityType: EntityTypeFile, CreatedAt: f.CreatedAt, UpdatedAt: f.UpdatedAt, Item: f})
	}
	return items
}

func tagNotes(notes []models.Note) []TaggedItem {
	items := make([]TaggedItem, 0, len(notes))
	for _, n := range notes {
		items = append(items, TaggedItem{EntityType: EntityTypeNote, CreatedAt: n.CreatedAt, UpdatedAt: n.UpdatedAt, Item: n})
	}
	return items
}

func sortByCreatedAtDesc(items []TaggedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

func sortByUpdatedAtDesc(items []TaggedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})
}

func mergeTagged(folders []models.Folder, files []models.File, notes []models.Note) ([]TaggedItem, KindBreakdown) {
	items := append(tagFolders(folders), tagFiles(files)...)
	items = append(items, tagNotes(notes)...)
	return items, KindBreakdown{Folders: len(folders), Files: len(files), Notes: len(notes)}
}

// RecentItems returns up to limit items across all kinds, newest first.
// Each kind contributes its own top-limit slice before the merged resort,
// so ordering is exact whenever no single kind dominates the window.
func (s *MixedService) RecentItems(ctx context.Context, ownerID primitive.ObjectID, limit int) ([]TaggedItem, error) {
	if limit <= 0 {
		limit = 50
	}

	filter := bson.M{"owner_id": ownerID}
	opts := options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(int64(limit))

	folders, files, notes, err := s.fetchAll(ctx, filter, filter, filter, opts)
	if err != nil {
		return nil, err
	}

	items, _ := mergeTagged(folders, files, notes)
	sortByCreatedAtDesc(items)
	if len(items) > limit {
		items = items[:limit]
	}

	return items, nil
}

// ItemsByDate returns everything created on the given day, server-local
// time, newest first.
func (s *MixedService) ItemsByDate(ctx context.Context, ownerID primitive.ObjectID, startOfDay, nextDay time.Time) (*MixedResult, error) {
	filter := bson.M{
		"owner_id":   ownerID,
		"created_at": bson.M{"$gte": startOfDay, "$lt": nextDay},
	}

	folders, files, notes, err := s.fetchAll(ctx, filter, filter, filter, nil)
	if err != nil {
		return nil, err
	}

	items, breakdown := mergeTagged(folders, files, notes)
	sortByCreatedAtDesc(items)

	return &MixedResult{Items: items, Count: len(items), Breakdown: breakdown}, nil
}

// DayCounts is one calendar day's per-kind item counts.
type DayCounts struct {
	Folders int `json:"folders"`
	Files   int `json:"files"`
	Notes   int `json:"notes"`
	Total   int `json:"total"`
}

// MonthOverview buckets creation counts per day-of-month for the given
// calendar month. Only days with at least one item appear. Bucketing runs
// in Go over projected timestamps so "day" follows server-local time, the
// same clock ItemsByDate filters with.
func (s *MixedService) MonthOverview(ctx context.Context, ownerID primitive.ObjectID, year, month int) (map[int]*DayCounts, error) {
	start, end := utils.MonthRange(year, month)
	filter := bson.M{
		"owner_id":   ownerID,
		"created_at": bson.M{"$gte": start, "$lt": end},
	}

	folderTimes, err := s.createdAtValues(ctx, s.folderCollection, filter)
	if err != nil {
		return nil, err
	}
	fileTimes, err := s.createdAtValues(ctx, s.fileCollection, filter)
	if err != nil {
		return nil, err
	}
	noteTimes, err := s.createdAtValues(ctx, s.noteCollection, filter)
	if err != nil {
		return nil, err
	}

	return bucketDays(folderTimes, fileTimes, noteTimes), nil
}

// bucketDays folds per-kind creation timestamps into a sparse day-of-month
// map.
func bucketDays(folderTimes, fileTimes, noteTimes []time.Time) map[int]*DayCounts {
	days := map[int]*DayCounts{}

	bump := func(times []time.Time, add func(*DayCounts)) {
		for _, t := range times {
			day := t.Local().Day()
			if days[day] == nil {
				days[day] = &DayCounts{}
			}
			add(days[day])
			days[day].Total++
		}
	}

	bump(folderTimes, func(d *DayCounts) { d.Folders++ })
	bump(fileTimes, func(d *DayCounts) { d.Files++ })
	bump(noteTimes, func(d *DayCounts) { d.Notes++ })

	return days
}

func (s *MixedService) createdAtValues(ctx context.Context, collection *mongo.Collection, filter bson.M) ([]time.Time, error) {
	cursor, err := collection.Find(ctx, filter,
		options.Find().SetProjection(bson.M{"created_at": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch creation times: %w", err)
	}
	defer cursor.Close(ctx)

	var times []time.Time
	for cursor.Next(ctx) {
		var doc struct {
			CreatedAt time.Time `bson:"created_at"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode creation time: %w", err)
		}
		times = append(times, doc.CreatedAt)
	}

	return times, cursor.Err()
}

// Favorites returns every favorited entity across all kinds, most recently
// updated first.
func (s *MixedService) Favorites(ctx context.Context, ownerID primitive.ObjectID) (*MixedResult, error) {
	filter := bson.M{"owner_id": ownerID, "is_favorite": true}

	folders, files, notes, err := s.fetchAll(ctx, filter, filter, filter, nil)
	if err != nil {
		return nil, err
	}

	items, breakdown := mergeTagged(folders, files, notes)
	sortByUpdatedAtDesc(items)

	return &MixedResult{Items: items, Count: len(items), Breakdown: breakdown}, nil
}

// Search matches a case-insensitive substring against folder and file names
// and note titles or content, optionally restricted to one kind (image and
// pdf narrow to files of that type). An empty or whitespace-only query is
// answered immediately with an empty result, never an error.
func (s *MixedService) Search(ctx context.Context, ownerID primitive.ObjectID, query, kindFilter string) (*MixedResult, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return &MixedResult{Items: []TaggedItem{}}, nil
	}

	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(trimmed), Options: "i"}

	var folders []models.Folder
	var files []models.File
	var notes []models.Note

	if kindFilter == "" || kindFilter == EntityTypeFolder {
		cursor, err := s.folderCollection.Find(ctx, bson.M{"owner_id": ownerID, "name": pattern})
		if err != nil {
			return nil, fmt.Errorf("failed to search folders: %w", err)
		}
		if err := cursor.All(ctx, &folders); err != nil {
			return nil, fmt.Errorf("failed to decode folders: %w", err)
		}
	}

	if kindFilter == "" || kindFilter == EntityTypeFile ||
		kindFilter == models.FileTypeImage || kindFilter == models.FileTypePDF {
		fileFilter := bson.M{"owner_id": ownerID, "name": pattern}
		if kindFilter == models.FileTypeImage || kindFilter == models.FileTypePDF {
			fileFilter["file_type"] = kindFilter
		}
		cursor, err := s.fileCollection.Find(ctx, fileFilter)
		if err != nil {
			return nil, fmt.Errorf("failed to search files: %w", err)
		}
		if err := cursor.All(ctx, &files); err != nil {
			return nil, fmt.Errorf("failed to decode files: %w", err)
		}
	}

	if kindFilter == "" || kindFilter == EntityTypeNote {
		noteFilter := bson.M{
			"owner_id": ownerID,
			"$or": []bson.M{
				{"title": pattern},
				{"content": pattern},
			},
		}
		cursor, err := s.noteCollection.Find(ctx, noteFilter)
		if err != nil {
			return nil, fmt.Errorf("failed to search notes: %w", err)
		}
		if err := cursor.All(ctx, &notes); err != nil {
			return nil, fmt.Errorf("failed to decode notes: %w", err)
		}
	}

	items, breakdown := mergeTagged(folders, files, notes)
	sortByUpdatedAtDesc(items)

	return &MixedResult{Items: items, Count: len(items), Breakdown: breakdown}, nil
}

func (s *MixedService) fetchAll(ctx context.Context, folderFilter, fileFilter, noteFilter bson.M, opts *options.FindOptions) ([]models.Folder, []models.File, []models.Note, error) {
	var folders []models.Folder
	cursor, err := s.folderCollection.Find(ctx, folderFilter, opts)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to fetch folders: %w", err)
	}
	if err := cursor.All(ctx, &folders); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to decode folders: %w", err)
	}

	var files []models.File
	cursor, err = s.fileCollection.Find(ctx, fileFilter, opts)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to fetch files: %w", err)
	}
	if err := cursor.All(ctx, &files); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to decode files: %w", err)
	}

	var notes []models.Note
	cursor, err = s.noteCollection.Find(ctx, noteFilter, opts)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to fetch notes: %w", err)
	}
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to decode notes: %w", err)
	}

	return folders, files, notes, nil
}
