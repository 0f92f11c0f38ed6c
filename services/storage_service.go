package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"jotter/models"
	"jotter/utils"
)

// StorageService is the quota ledger. Usage is a denormalized counter on the
// user document, mutated only through the atomic $inc paths here and
// corrected by RecalculateUsage when partial failures elsewhere leave drift.
type StorageService struct {
	userCollection   *mongo.Collection
	fileCollection   *mongo.Collection
	folderCollection *mongo.Collection
	noteCollection   *mongo.Collection
}

func NewStorageService(db *mongo.Database) *StorageService {
	return &StorageService{
		userCollection:   db.Collection("users"),
		fileCollection:   db.Collection("files"),
		folderCollection: db.Collection("folders"),
		noteCollection:   db.Collection("notes"),
	}
}

func (s *StorageService) GetUser(ctx context.Context, ownerID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.userCollection.FindOne(ctx, bson.M{"_id": ownerID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NotFound("User")
	} else if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// IncrementUsage adds bytes to the owner's usage counter. No-op for
// bytes <= 0.
func (s *StorageService) IncrementUsage(ctx context.Context, ownerID primitive.ObjectID, bytes int64) error {
	if bytes <= 0 {
		return nil
	}
	_, err := s.userCollection.UpdateOne(ctx,
		bson.M{"_id": ownerID},
		bson.M{"$inc": bson.M{"used_storage": bytes}},
	)
	if err != nil {
		return fmt.Errorf("failed to increment storage usage: %w", err)
	}
	return nil
}

// DecrementUsage releases bytes from the owner's usage counter. No-op for
// bytes <= 0.
func (s *StorageService) DecrementUsage(ctx context.Context, ownerID primitive.ObjectID, bytes int64) error {
	if bytes <= 0 {
		return nil
	}
	_, err := s.userCollection.UpdateOne(ctx,
		bson.M{"_id": ownerID},
		bson.M{"$inc": bson.M{"used_storage": -bytes}},
	)
	if err != nil {
		return fmt.Errorf("failed to decrement storage usage: %w", err)
	}
	return nil
}

// SetUsage overwrites the counter, clamped to >= 0. Only the reconciliation
// path calls this; normal mutations must go through increment/decrement so
// the counter stays auditable.
func (s *StorageService) SetUsage(ctx context.Context, ownerID primitive.ObjectID, bytes int64) error {
	if bytes < 0 {
		bytes = 0
	}
	_, err := s.userCollection.UpdateOne(ctx,
		bson.M{"_id": ownerID},
		bson.M{"$set": bson.M{"used_storage": bytes}},
	)
	if err != nil {
		return fmt.Errorf("failed to set storage usage: %w", err)
	}
	return nil
}

// RecalculateUsage recomputes the counter from scratch as the sum of the
// owner's file sizes. Only binary blobs count against quota; folders and
// notes are free. Returns the authoritative value it wrote.
func (s *StorageService) RecalculateUsage(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"owner_id": ownerID}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total_size": bson.M{"$sum": "$size"}}}},
	}

	cursor, err := s.fileCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate file sizes: %w", err)
	}
	defer cursor.Close(ctx)

	var totalSize int64
	if cursor.Next(ctx) {
		var result struct {
			TotalSize int64 `bson:"total_size"`
		}
		if err := cursor.Decode(&result); err != nil {
			return 0, fmt.Errorf("failed to decode aggregate result: %w", err)
		}
		totalSize = result.TotalSize
	}
	if err := cursor.Err(); err != nil {
		return 0, fmt.Errorf("cursor error: %w", err)
	}

	if err := s.SetUsage(ctx, ownerID, totalSize); err != nil {
		return 0, err
	}

	return totalSize, nil
}

type StorageStats struct {
	Total      int64   `json:"total"`
	Used       int64   `json:"used"`
	Available  int64   `json:"available"`
	Percentage float64 `json:"percentage"`
	Formatted  struct {
		Total     string `json:"total"`
		Used      string `json:"used"`
		Available string `json:"available"`
	} `json:"formatted"`
}

func (s *StorageService) Stats(ctx context.Context, ownerID primitive.ObjectID) (*StorageStats, error) {
	user, err := s.GetUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	stats := &StorageStats{
		Total:      user.StorageLimit,
		Used:       user.UsedStorage,
		Available:  user.AvailableStorage(),
		Percentage: utils.CalculateStoragePercentage(user.UsedStorage, user.StorageLimit),
	}
	stats.Formatted.Total = utils.FormatBytes(user.StorageLimit)
	stats.Formatted.Used = utils.FormatBytes(user.UsedStorage)
	stats.Formatted.Available = utils.FormatBytes(user.AvailableStorage())

	return stats, nil
}

type TypeBreakdown struct {
	Count         int64  `json:"count"`
	Size          int64  `json:"size"`
	SizeFormatted string `json:"size_formatted"`
}

type StorageBreakdown struct {
	Folders struct {
		Count int64 `json:"count"`
	} `json:"folders"`
	Notes struct {
		Count int64 `json:"count"`
	} `json:"notes"`
	Images  TypeBreakdown `json:"images"`
	PDFs    TypeBreakdown `json:"pdfs"`
	Summary struct {
		TotalItems         int64  `json:"total_items"`
		TotalUsed          int64  `json:"total_used"`
		TotalUsedFormatted string `json:"total_used_formatted"`
	} `json:"summary"`
}

// Breakdown reports per-kind item counts and per-file-type sizes.
func (s *StorageService) Breakdown(ctx context.Context, ownerID primitive.ObjectID) (*StorageBreakdown, error) {
	folderCount, err := s.folderCollection.CountDocuments(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("failed to count folders: %w", err)
	}

	noteCount, err := s.noteCollection.CountDocuments(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("failed to count notes: %w", err)
	}

	images, err := s.fileTypeBreakdown(ctx, ownerID, models.FileTypeImage)
	if err != nil {
		return nil, err
	}
	pdfs, err := s.fileTypeBreakdown(ctx, ownerID, models.FileTypePDF)
	if err != nil {
		return nil, err
	}

	breakdown := &StorageBreakdown{Images: images, PDFs: pdfs}
	breakdown.Folders.Count = folderCount
	breakdown.Notes.Count = noteCount
	breakdown.Summary.TotalItems = folderCount + noteCount + images.Count + pdfs.Count
	breakdown.Summary.TotalUsed = images.Size + pdfs.Size
	breakdown.Summary.TotalUsedFormatted = utils.FormatBytes(images.Size + pdfs.Size)

	return breakdown, nil
}

func (s *StorageService) fileTypeBreakdown(ctx context.Context, ownerID primitive.ObjectID, fileType string) (TypeBreakdown, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"owner_id": ownerID, "file_type": fileType}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"count": bson.M{"$sum": 1},
			"size":  bson.M{"$sum": "$size"},
		}}},
	}

	cursor, err := s.fileCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return TypeBreakdown{}, fmt.Errorf("failed to aggregate %s files: %w", fileType, err)
	}
	defer cursor.Close(ctx)

	var breakdown TypeBreakdown
	if cursor.Next(ctx) {
		var result struct {
			Count int64 `bson:"count"`
			Size  int64 `bson:"size"`
		}
		if err := cursor.Decode(&result); err != nil {
			return TypeBreakdown{}, fmt.Errorf("failed to decode breakdown: %w", err)
		}
		breakdown.Count = result.Count
		breakdown.Size = result.Size
	}
	breakdown.SizeFormatted = utils.FormatBytes(breakdown.Size)

	return breakdown, cursor.Err()
}
