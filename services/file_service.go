package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"jotter/models"
	"jotter/utils"
)

// FileService owns file metadata records. Binary content lives behind the
// BlobStore; every mutation that changes byte usage goes through the
// storage service's counters.
type FileService struct {
	fileCollection   *mongo.Collection
	folderCollection *mongo.Collection
	storageService   *StorageService
	blobStore        BlobStore
	maxFileSize      int64
}

func NewFileService(db *mongo.Database, storageService *StorageService, blobStore BlobStore, maxFileSize int64) *FileService {
	return &FileService{
		fileCollection:   db.Collection("files"),
		folderCollection: db.Collection("folders"),
		storageService:   storageService,
		blobStore:        blobStore,
		maxFileSize:      maxFileSize,
	}
}

// UploadResult reports a batch upload: what landed, what it weighs, and how
// many items failed to store.
type UploadResult struct {
	Files     []models.File `json:"files"`
	TotalSize int64         `json:"total_size"`
	Failed    int           `json:"failed"`
}

// UploadFiles stores a batch. The quota gate runs once, up front, against
// the summed batch size: if the whole batch would not fit, nothing is
// persisted. Past the gate each file is stored independently; one item
// failing does not roll back already-stored siblings, and usage is
// incremented once by the bytes that actually landed.
func (s *FileService) UploadFiles(ctx context.Context, ownerID primitive.ObjectID, headers []*multipart.FileHeader, parentID *primitive.ObjectID) (*UploadResult, error) {
	if len(headers) == 0 {
		return nil, utils.BadRequest("No files to upload")
	}

	user, err := s.storageService.GetUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var totalSize int64
	for _, header := range headers {
		if err := utils.ValidateUpload(header, s.maxFileSize); err != nil {
			return nil, utils.ValidationError(err.Error())
		}
		totalSize += header.Size
	}

	if !user.HasAvailableStorage(totalSize) {
		return nil, utils.StorageQuotaExceeded(user.StorageLimit)
	}

	if parentID != nil {
		if err := s.validateTargetFolder(ctx, ownerID, *parentID, "Parent folder"); err != nil {
			return nil, err
		}
	}

	result := &UploadResult{Files: []models.File{}}
	var uploadedSize int64

	for _, header := range headers {
		file, err := s.storeOne(ctx, ownerID, header, parentID)
		if err != nil {
			utils.LogWarning("file upload failed, continuing batch",
				"filename", header.Filename, "owner_id", ownerID.Hex(), "error", err)
			result.Failed++
			continue
		}
		result.Files = append(result.Files, *file)
		uploadedSize += file.Size
	}

	result.TotalSize = uploadedSize

	if err := s.storageService.IncrementUsage(ctx, ownerID, uploadedSize); err != nil {
		// Files landed but the counter lagged; the reconciler closes the gap.
		utils.LogError("uploaded files but failed to update storage usage", err,
			"owner_id", ownerID.Hex(), "bytes", uploadedSize)
	}

	return result, nil
}

func (s *FileService) storeOne(ctx context.Context, ownerID primitive.ObjectID, header *multipart.FileHeader, parentID *primitive.ObjectID) (*models.File, error) {
	fileType, err := utils.FileTypeForMime(header.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload %s: %w", header.Filename, err)
	}
	defer src.Close()

	stored, err := s.blobStore.Store(ctx, src, header.Filename, "users/"+ownerID.Hex(), fileType)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	file := &models.File{
		ID:           primitive.NewObjectID(),
		OwnerID:      ownerID,
		Name:         header.Filename,
		OriginalName: header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		FileType:     fileType,
		Size:         header.Size,
		BlobKey:      stored.Key,
		URL:          stored.URL,
		ThumbnailURL: stored.ThumbnailURL,
		ParentID:     parentID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.fileCollection.InsertOne(ctx, file); err != nil {
		// The blob is already stored; release it so the failed insert does
		// not strand content.
		if delErr := s.blobStore.Delete(ctx, stored.Key, fileType); delErr != nil {
			utils.LogWarning("failed to clean up blob after insert failure",
				"blob_key", stored.Key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to save file metadata for %s: %w", header.Filename, err)
	}

	return file, nil
}

// GetFiles lists the owner's files, optionally restricted to a file type
// and/or a parent folder. A nil parentID means no parent filter; rootOnly
// restricts to files outside any folder.
func (s *FileService) GetFiles(ctx context.Context, ownerID primitive.ObjectID, fileType string, parentID *primitive.ObjectID, rootOnly bool) ([]models.File, error) {
	filter := bson.M{"owner_id": ownerID}
	if fileType == models.FileTypeImage || fileType == models.FileTypePDF {
		filter["file_type"] = fileType
	}
	if parentID != nil {
		filter["parent_id"] = *parentID
	} else if rootOnly {
		filter["parent_id"] = nil
	}

	cursor, err := s.fileCollection.Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	var files []models.File
	if err := cursor.All(ctx, &files); err != nil {
		return nil, fmt.Errorf("failed to decode files: %w", err)
	}
	if files == nil {
		files = []models.File{}
	}
	return files, nil
}

func (s *FileService) GetByID(ctx context.Context, ownerID, fileID primitive.ObjectID) (*models.File, error) {
	return s.getOwned(ctx, ownerID, fileID)
}

// Rename updates the display name and refreshes updated_at.
func (s *FileService) Rename(ctx context.Context, ownerID, fileID primitive.ObjectID, name string) (*models.File, error) {
	if err := utils.ValidateFileName(name); err != nil {
		return nil, utils.ValidationError(err.Error())
	}

	var file models.File
	err := s.fileCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": fileID, "owner_id": ownerID},
		bson.M{"$set": bson.M{"name": name, "updated_at": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&file)

	if err == mongo.ErrNoDocuments {
		return nil, utils.NotFound("File")
	} else if err != nil {
		return nil, fmt.Errorf("failed to rename file: %w", err)
	}

	return &file, nil
}

func (s *FileService) ToggleFavorite(ctx context.Context, ownerID, fileID primitive.ObjectID) (*FavoriteResult, error) {
	file, err := s.getOwned(ctx, ownerID, fileID)
	if err != nil {
		return nil, err
	}

	newValue := !file.IsFavorite
	_, err = s.fileCollection.UpdateOne(ctx,
		bson.M{"_id": fileID, "owner_id": ownerID},
		bson.M{"$set": bson.M{"is_favorite": newValue, "updated_at": time.Now()}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle favorite: %w", err)
	}

	return &FavoriteResult{ID: fileID, IsFavorite: newValue}, nil
}

// Duplicate creates a sibling copy of the file record in the same parent.
// The copy shares the original's blob and consumes fresh quota, so the
// quota is re-checked before the record is created.
func (s *FileService) Duplicate(ctx context.Context, ownerID, fileID primitive.ObjectID) (*models.File, error) {
	original, err := s.getOwned(ctx, ownerID, fileID)
	if err != nil {
		return nil, err
	}
	return s.createCopy(ctx, ownerID, original, original.ParentID)
}

// Copy is Duplicate with an explicit target folder (nil means root).
func (s *FileService) Copy(ctx context.Context, ownerID, fileID primitive.ObjectID, targetFolderID *primitive.ObjectID) (*models.File, error) {
	original, err := s.getOwned(ctx, ownerID, fileID)
	if err != nil {
		return nil, err
	}

	if targetFolderID != nil {
		if err := s.validateTargetFolder(ctx, ownerID, *targetFolderID, "Target folder"); err != nil {
			return nil, err
		}
	}

	return s.createCopy(ctx, ownerID, original, targetFolderID)
}

func (s *FileService) createCopy(ctx context.Context, ownerID primitive.ObjectID, original *models.File, parentID *primitive.ObjectID) (*models.File, error) {
	user, err := s.storageService.GetUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !user.HasAvailableStorage(original.Size) {
		return nil, utils.StorageQuotaExceeded(user.StorageLimit)
	}

	now := time.Now()
	copied := &models.File{
		ID:           primitive.NewObjectID(),
		OwnerID:      ownerID,
		Name:         utils.AppendCopySuffix(original.Name),
		OriginalName: original.OriginalName,
		MimeType:     original.MimeType,
		FileType:     original.FileType,
		Size:         original.Size,
		BlobKey:      original.BlobKey,
		URL:          original.URL,
		ThumbnailURL: original.ThumbnailURL,
		ParentID:     parentID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.fileCollection.InsertOne(ctx, copied); err != nil {
		return nil, fmt.Errorf("failed to copy file: %w", err)
	}

	if err := s.storageService.IncrementUsage(ctx, ownerID, original.Size); err != nil {
		return nil, err
	}

	return copied, nil
}

// Delete removes the record, releases the blob (best-effort), and returns
// the file's bytes to the owner's quota.
func (s *FileService) Delete(ctx context.Context, ownerID, fileID primitive.ObjectID) (int64, error) {
	file, err := s.getOwned(ctx, ownerID, fileID)
	if err != nil {
		return 0, err
	}

	// Another record may still reference the same blob after a duplicate or
	// copy; only release it when this is the last reference.
	refs, err := s.fileCollection.CountDocuments(ctx, bson.M{"blob_key": file.BlobKey})
	if err != nil {
		return 0, fmt.Errorf("failed to count blob references: %w", err)
	}

	if refs <= 1 && s.blobStore != nil {
		if err := s.blobStore.Delete(ctx, file.BlobKey, file.FileType); err != nil {
			utils.LogWarning("failed to delete blob, removing record anyway",
				"blob_key", file.BlobKey, "error", err)
		}
	}

	result, err := s.fileCollection.DeleteOne(ctx, bson.M{"_id": fileID, "owner_id": ownerID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete file: %w", err)
	}
	if result.DeletedCount == 0 {
		return 0, utils.NotFound("File")
	}

	if err := s.storageService.DecrementUsage(ctx, ownerID, file.Size); err != nil {
		return 0, err
	}

	return file.Size, nil
}

func (s *FileService) getOwned(ctx context.Context, ownerID, fileID primitive.ObjectID) (*models.File, error) {
	var file models.File
	err := s.fileCollection.FindOne(ctx, bson.M{"_id": fileID, "owner_id": ownerID}).Decode(&file)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NotFound("File")
	} else if err != nil {
		return nil, fmt.Errorf("failed to load file: %w", err)
	}
	return &file, nil
}

func (s *FileService) validateTargetFolder(ctx context.Context, ownerID, folderID primitive.ObjectID, resource string) error {
	err := s.folderCollection.FindOne(ctx,
		bson.M{"_id": folderID, "owner_id": ownerID},
		options.FindOne().SetProjection(bson.M{"_id": 1}),
	).Err()
	if err == mongo.ErrNoDocuments {
		return utils.NotFound(resource)
	} else if err != nil {
		return fmt.Errorf("failed to validate folder: %w", err)
	}
	return nil
}
