package services

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"jotter/models"
	"jotter/utils"
)

var colorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

// FolderService maintains the per-user folder tree: ancestor and descendant
// resolution plus the cascading delete that fans out across files and notes.
type FolderService struct {
	folderCollection *mongo.Collection
	fileCollection   *mongo.Collection
	noteCollection   *mongo.Collection
	storageService   *StorageService
	blobStore        BlobStore
}

func NewFolderService(db *mongo.Database, storageService *StorageService, blobStore BlobStore) *FolderService {
	return &FolderService{
		folderCollection: db.Collection("folders"),
		fileCollection:   db.Collection("files"),
		noteCollection:   db.Collection("notes"),
		storageService:   storageService,
		blobStore:        blobStore,
	}
}

// FolderContents is the folder detail view: the folder itself, its ancestor
// chain, and everything directly inside it.
type FolderContents struct {
	Folder    *models.Folder  `json:"folder"`
	Ancestors []models.Folder `json:"ancestors"`
	Contents  struct {
		Folders []models.Folder `json:"folders"`
		Files   []models.File   `json:"files"`
		Notes   []models.Note   `json:"notes"`
	} `json:"contents"`
	Counts struct {
		Folders int `json:"folders"`
		Files   int `json:"files"`
		Notes   int `json:"notes"`
		Total   int `json:"total"`
	} `json:"counts"`
}

// FavoriteResult is the shared shape every kind's favorite toggle returns.
type FavoriteResult struct {
	ID         primitive.ObjectID `json:"id"`
	IsFavorite bool               `json:"is_favorite"`
}

// DeleteResult reports what a cascading folder delete removed.
type DeleteResult struct {
	DeletedFolders int   `json:"deleted_folders"`
	DeletedFiles   int   `json:"deleted_files"`
	FreedStorage   int64 `json:"freed_storage"`
}

// Create adds a folder under parentID (nil means root). The parent must
// exist and belong to the same owner.
func (s *FolderService) Create(ctx context.Context, ownerID primitive.ObjectID, name string, parentID *primitive.ObjectID, color string) (*models.Folder, error) {
	if name == "" || len(name) > 255 {
		return nil, utils.ValidationError("Folder name must be between 1 and 255 characters")
	}
	if color != "" && !colorPattern.MatchString(color) {
		return nil, utils.ValidationError("Invalid color format")
	}

	if parentID != nil {
		if _, err := s.getOwned(ctx, ownerID, *parentID, "Parent folder"); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	folder := &models.Folder{
		ID:        primitive.NewObjectID(),
		OwnerID:   ownerID,
		Name:      name,
		ParentID:  parentID,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.folderCollection.InsertOne(ctx, folder); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	return folder, nil
}

func (s *FolderService) GetRootFolders(ctx context.Context, ownerID primitive.ObjectID) ([]models.Folder, error) {
	return s.list(ctx, bson.M{"owner_id": ownerID, "parent_id": nil}, options.Find().SetSort(bson.M{"name": 1}))
}

func (s *FolderService) GetByID(ctx context.Context, ownerID, folderID primitive.ObjectID) (*models.Folder, error) {
	return s.getOwned(ctx, ownerID, folderID, "Folder")
}

// GetContents loads the folder, its ancestors, and its direct children of
// all three kinds with counts.
func (s *FolderService) GetContents(ctx context.Context, ownerID, folderID primitive.ObjectID) (*FolderContents, error) {
	folder, err := s.getOwned(ctx, ownerID, folderID, "Folder")
	if err != nil {
		return nil, err
	}

	subfolders, err := s.list(ctx, bson.M{"owner_id": ownerID, "parent_id": folderID}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}

	fileCursor, err := s.fileCollection.Find(ctx,
		bson.M{"owner_id": ownerID, "parent_id": folderID},
		options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	var files []models.File
	if err := fileCursor.All(ctx, &files); err != nil {
		return nil, fmt.Errorf("failed to decode files: %w", err)
	}

	noteCursor, err := s.noteCollection.Find(ctx,
		bson.M{"owner_id": ownerID, "parent_id": folderID},
		options.Find().SetSort(bson.M{"updated_at": -1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	var notes []models.Note
	if err := noteCursor.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("failed to decode notes: %w", err)
	}

	ancestors, err := s.GetAncestors(ctx, folderID)
	if err != nil {
		return nil, err
	}

	contents := &FolderContents{Folder: folder, Ancestors: ancestors}
	contents.Contents.Folders = subfolders
	contents.Contents.Files = files
	contents.Contents.Notes = notes
	contents.Counts.Folders = len(subfolders)
	contents.Counts.Files = len(files)
	contents.Counts.Notes = len(notes)
	contents.Counts.Total = len(subfolders) + len(files) + len(notes)

	return contents, nil
}

// GetAncestors walks parent links upward and returns the chain ordered from
// root to immediate parent. The walk terminates at the first folder without
// a parent; the tree is acyclic by construction.
func (s *FolderService) GetAncestors(ctx context.Context, folderID primitive.ObjectID) ([]models.Folder, error) {
	ancestors := []models.Folder{}

	var current models.Folder
	err := s.folderCollection.FindOne(ctx, bson.M{"_id": folderID}).Decode(&current)
	if err == mongo.ErrNoDocuments {
		return ancestors, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load folder: %w", err)
	}

	for current.ParentID != nil {
		var parent models.Folder
		err := s.folderCollection.FindOne(ctx, bson.M{"_id": *current.ParentID}).Decode(&parent)
		if err == mongo.ErrNoDocuments {
			break
		} else if err != nil {
			return nil, fmt.Errorf("failed to load ancestor: %w", err)
		}
		ancestors = append([]models.Folder{parent}, ancestors...)
		current = parent
	}

	return ancestors, nil
}

// GetAllDescendantIDs collects every folder reachable below folderID, to
// unlimited depth. Traversal is an iterative per-level batch fetch so a deep
// tree costs one query per level, not one per node.
func (s *FolderService) GetAllDescendantIDs(ctx context.Context, folderID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return collectDescendantIDs(ctx, folderID, s.childFolderIDs)
}

// collectDescendantIDs runs a breadth-first traversal over batched child
// lookups. children must return the ids of all folders whose parent is in
// the given set.
func collectDescendantIDs(
	ctx context.Context,
	root primitive.ObjectID,
	children func(ctx context.Context, parents []primitive.ObjectID) ([]primitive.ObjectID, error),
) ([]primitive.ObjectID, error) {
	descendants := []primitive.ObjectID{}
	level := []primitive.ObjectID{root}

	for len(level) > 0 {
		next, err := children(ctx, level)
		if err != nil {
			return nil, err
		}
		descendants = append(descendants, next...)
		level = next
	}

	return descendants, nil
}

func (s *FolderService) childFolderIDs(ctx context.Context, parents []primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := s.folderCollection.Find(ctx,
		bson.M{"parent_id": bson.M{"$in": parents}},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch child folders: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []primitive.ObjectID
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode child folder: %w", err)
		}
		ids = append(ids, doc.ID)
	}

	return ids, cursor.Err()
}

func (s *FolderService) Update(ctx context.Context, ownerID, folderID primitive.ObjectID, name, color *string) (*models.Folder, error) {
	set := bson.M{"updated_at": time.Now()}
	if name != nil {
		if *name == "" || len(*name) > 255 {
			return nil, utils.ValidationError("Folder name must be between 1 and 255 characters")
		}
		set["name"] = *name
	}
	if color != nil {
		if *color != "" && !colorPattern.MatchString(*color) {
			return nil, utils.ValidationError("Invalid color format")
		}
		set["color"] = *color
	}

	var folder models.Folder
	err := s.folderCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": folderID, "owner_id": ownerID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&folder)

	if err == mongo.ErrNoDocuments {
		return nil, utils.NotFound("Folder")
	} else if err != nil {
		return nil, fmt.Errorf("failed to update folder: %w", err)
	}

	return &folder, nil
}

// ToggleFavorite flips the favorite flag and reports the new state.
func (s *FolderService) ToggleFavorite(ctx context.Context, ownerID, folderID primitive.ObjectID) (*FavoriteResult, error) {
	folder, err := s.getOwned(ctx, ownerID, folderID, "Folder")
	if err != nil {
		return nil, err
	}

	newValue := !folder.IsFavorite
	_, err = s.folderCollection.UpdateOne(ctx,
		bson.M{"_id": folderID, "owner_id": ownerID},
		bson.M{"$set": bson.M{"is_favorite": newValue, "updated_at": time.Now()}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle favorite: %w", err)
	}

	return &FavoriteResult{ID: folderID, IsFavorite: newValue}, nil
}

// Duplicate creates a sibling copy next to the original. Like Copy, the
// duplicate is shallow: contained folders, files, and notes stay with the
// original.
func (s *FolderService) Duplicate(ctx context.Context, ownerID, folderID primitive.ObjectID) (*models.Folder, error) {
	original, err := s.getOwned(ctx, ownerID, folderID, "Folder")
	if err != nil {
		return nil, err
	}
	return s.createCopy(ctx, original, original.ParentID)
}

// Copy creates a shallow copy of the folder under targetFolderID (nil means
// root). Descendants are not copied.
func (s *FolderService) Copy(ctx context.Context, ownerID, folderID primitive.ObjectID, targetFolderID *primitive.ObjectID) (*models.Folder, error) {
	original, err := s.getOwned(ctx, ownerID, folderID, "Folder")
	if err != nil {
		return nil, err
	}

	if targetFolderID != nil {
		if *targetFolderID == folderID {
			return nil, utils.BadRequest("Cannot copy folder into itself")
		}
		if _, err := s.getOwned(ctx, ownerID, *targetFolderID, "Target folder"); err != nil {
			return nil, err
		}
	}

	return s.createCopy(ctx, original, targetFolderID)
}

func (s *FolderService) createCopy(ctx context.Context, original *models.Folder, parentID *primitive.ObjectID) (*models.Folder, error) {
	now := time.Now()
	copied := &models.Folder{
		ID:        primitive.NewObjectID(),
		OwnerID:   original.OwnerID,
		Name:      utils.AppendCopySuffix(original.Name),
		ParentID:  parentID,
		Color:     original.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.folderCollection.InsertOne(ctx, copied); err != nil {
		return nil, fmt.Errorf("failed to copy folder: %w", err)
	}

	return copied, nil
}

// Delete removes the folder and everything below it. Files and notes go
// first, folders last, so a crash mid-way leaves at worst empty folders
// that a retry can remove, never orphaned content pointing at a missing
// folder. The quota is decremented once by the summed file sizes; blob
// cleanup is best-effort.
func (s *FolderService) Delete(ctx context.Context, ownerID, folderID primitive.ObjectID) (*DeleteResult, error) {
	folder, err := s.getOwned(ctx, ownerID, folderID, "Folder")
	if err != nil {
		return nil, err
	}

	descendantIDs, err := s.GetAllDescendantIDs(ctx, folderID)
	if err != nil {
		return nil, err
	}
	allFolderIDs := append([]primitive.ObjectID{folder.ID}, descendantIDs...)

	fileFilter := bson.M{"owner_id": ownerID, "parent_id": bson.M{"$in": allFolderIDs}}
	fileCursor, err := s.fileCollection.Find(ctx, fileFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list files for deletion: %w", err)
	}
	var files []models.File
	if err := fileCursor.All(ctx, &files); err != nil {
		return nil, fmt.Errorf("failed to decode files for deletion: %w", err)
	}

	var totalFileSize int64
	blobKeysByKind := map[string][]string{}
	for _, file := range files {
		totalFileSize += file.Size
		blobKeysByKind[file.FileType] = append(blobKeysByKind[file.FileType], file.BlobKey)
	}

	if _, err := s.fileCollection.DeleteMany(ctx, fileFilter); err != nil {
		return nil, fmt.Errorf("failed to delete files: %w", err)
	}
	if _, err := s.noteCollection.DeleteMany(ctx, bson.M{"owner_id": ownerID, "parent_id": bson.M{"$in": allFolderIDs}}); err != nil {
		return nil, fmt.Errorf("failed to delete notes: %w", err)
	}
	if _, err := s.folderCollection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": allFolderIDs}}); err != nil {
		return nil, fmt.Errorf("failed to delete folders: %w", err)
	}

	// Record deletion is the source of truth; a failed blob delete only
	// leaks storage-provider content and is picked up as cleanup debt.
	// Duplicated or copied records outside the subtree share the original's
	// blob key, so only keys no surviving record references are released.
	if s.blobStore != nil {
		var allKeys []string
		for _, keys := range blobKeysByKind {
			allKeys = append(allKeys, keys...)
		}
		referenced, err := s.referencedBlobKeys(ctx, allKeys)
		if err != nil {
			utils.LogWarning("failed to check blob references, skipping blob cleanup",
				"folder_id", folderID.Hex(), "error", err)
		} else {
			for kind, keys := range blobKeysByKind {
				release := releasableBlobKeys(keys, referenced)
				if len(release) == 0 {
					continue
				}
				if err := s.blobStore.DeleteMany(ctx, release, kind); err != nil {
					utils.LogWarning("failed to delete blobs during folder delete",
						"folder_id", folderID.Hex(), "kind", kind, "error", err)
				}
			}
		}
	}

	if totalFileSize > 0 {
		if err := s.storageService.DecrementUsage(ctx, ownerID, totalFileSize); err != nil {
			return nil, err
		}
	}

	return &DeleteResult{
		DeletedFolders: len(allFolderIDs),
		DeletedFiles:   len(files),
		FreedStorage:   totalFileSize,
	}, nil
}

// referencedBlobKeys returns the subset of keys that file records still
// carry. Called after the cascade's DeleteMany, so a hit means a record
// outside the deleted subtree shares the blob.
func (s *FolderService) referencedBlobKeys(ctx context.Context, keys []string) (map[string]bool, error) {
	if len(keys) == 0 {
		return map[string]bool{}, nil
	}

	values, err := s.fileCollection.Distinct(ctx, "blob_key", bson.M{"blob_key": bson.M{"$in": keys}})
	if err != nil {
		return nil, fmt.Errorf("failed to check blob references: %w", err)
	}

	referenced := make(map[string]bool, len(values))
	for _, v := range values {
		if key, ok := v.(string); ok {
			referenced[key] = true
		}
	}
	return referenced, nil
}

// releasableBlobKeys drops keys still referenced elsewhere and collapses
// duplicates within the deleted set.
func releasableBlobKeys(keys []string, referenced map[string]bool) []string {
	seen := map[string]bool{}
	var release []string
	for _, key := range keys {
		if key == "" || seen[key] || referenced[key] {
			continue
		}
		seen[key] = true
		release = append(release, key)
	}
	return release
}

func (s *FolderService) getOwned(ctx context.Context, ownerID, folderID primitive.ObjectID, resource string) (*models.Folder, error) {
	var folder models.Folder
	err := s.folderCollection.FindOne(ctx, bson.M{"_id": folderID, "owner_id": ownerID}).Decode(&folder)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NotFound(resource)
	} else if err != nil {
		return nil, fmt.Errorf("failed to load folder: %w", err)
	}
	return &folder, nil
}

func (s *FolderService) list(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Folder, error) {
	cursor, err := s.folderCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}

	var folders []models.Folder
	if err := cursor.All(ctx, &folders); err != nil {
		return nil, fmt.Errorf("failed to decode folders: %w", err)
	}
	if folders == nil {
		folders = []models.Folder{}
	}
	return folders, nil
}
