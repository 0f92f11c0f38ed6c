package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"jotter/models"
	"jotter/utils"
)

type NoteService struct {
	noteCollection   *mongo.Collection
	folderCollection *mongo.Collection
}

func NewNoteService(db *mongo.Database) *NoteService {
	return &NoteService{
		noteCollection:   db.Collection("notes"),
		folderCollection: db.Collection("folders"),
	}
}

func validateNoteFields(title *string, content *string) error {
	if title != nil && (*title == "" || len(*title) > models.MaxNoteTitleLength) {
		return utils.ValidationError("Note title must be between 1 and 255 characters")
	}
	if content != nil && len([]rune(*content)) > models.MaxNoteContentLength {
		return utils.ValidationError("Note content cannot exceed 100,000 characters")
	}
	return nil
}

func (s *NoteService) Create(ctx context.Context, ownerID primitive.ObjectID, title, content string, parentID *primitive.ObjectID, color string) (*models.Note, error) {
	if err := validateNoteFields(&title, &content); err != nil {
		return nil, err
	}
	if color != "" && !colorPattern.MatchString(color) {
		return nil, utils.ValidationError("Invalid color format")
	}

	if parentID != nil {
		if err := s.validateParent(ctx, ownerID, *parentID, "Parent folder"); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	note := &models.Note{
		ID:        primitive.NewObjectID(),
		OwnerID:   ownerID,
		Title:     title,
		Content:   content,
		ParentID:  parentID,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.noteCollection.InsertOne(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return note, nil
}

// GetNotes lists the owner's notes newest-edited first, optionally scoped
// to one folder (rootOnly limits to notes outside any folder).
func (s *NoteService) GetNotes(ctx context.Context, ownerID primitive.ObjectID, parentID *primitive.ObjectID, rootOnly bool) ([]models.Note, error) {
	filter := bson.M{"owner_id": ownerID}
	if parentID != nil {
		filter["parent_id"] = *parentID
	} else if rootOnly {
		filter["parent_id"] = nil
	}

	cursor, err := s.noteCollection.Find(ctx, filter, options.Find().SetSort(bson.M{"updated_at": -1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	var notes []models.Note
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("failed to decode notes: %w", err)
	}
	if notes == nil {
		notes = []models.Note{}
	}
	return notes, nil
}

func (s *NoteService) GetByID(ctx context.Context, ownerID, noteID primitive.ObjectID) (*models.Note, error) {
	return s.getOwned(ctx, ownerID, noteID)
}

// Update applies a partial update of title, content, and color, always
// refreshing updated_at.
func (s *NoteService) Update(ctx context.Context, ownerID, noteID primitive.ObjectID, title, content, color *string) (*models.Note, error) {
	if err := validateNoteFields(title, content); err != nil {
		return nil, err
	}
	if color != nil && *color != "" && !colorPattern.MatchString(*color) {
		return nil, utils.ValidationError("Invalid color format")
	}

	set := bson.M{"updated_at": time.Now()}
	if title != nil {
		set["title"] = *title
	}
	if content != nil {
		set["content"] = *content
	}
	if color != nil {
		set["color"] = *color
	}

	var note models.Note
	err := s.noteCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": noteID, "owner_id": ownerID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&note)

	if err == mongo.ErrNoDocuments {
		return nil, utils.NotFound("Note")
	} else if err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return &note, nil
}

func (s *NoteService) ToggleFavorite(ctx context.Context, ownerID, noteID primitive.ObjectID) (*FavoriteResult, error) {
	note, err := s.getOwned(ctx, ownerID, noteID)
	if err != nil {
		return nil, err
	}

	newValue := !note.IsFavorite
	_, err = s.noteCollection.UpdateOne(ctx,
		bson.M{"_id": noteID, "owner_id": ownerID},
		bson.M{"$set": bson.M{"is_favorite": newValue, "updated_at": time.Now()}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle favorite: %w", err)
	}

	return &FavoriteResult{ID: noteID, IsFavorite: newValue}, nil
}

func (s *NoteService) Duplicate(ctx context.Context, ownerID, noteID primitive.ObjectID) (*models.Note, error) {
	original, err := s.getOwned(ctx, ownerID, noteID)
	if err != nil {
		return nil, err
	}
	return s.createCopy(ctx, original, original.ParentID)
}

func (s *NoteService) Copy(ctx context.Context, ownerID, noteID primitive.ObjectID, targetFolderID *primitive.ObjectID) (*models.Note, error) {
	original, err := s.getOwned(ctx, ownerID, noteID)
	if err != nil {
		return nil, err
	}

	if targetFolderID != nil {
		if err := s.validateParent(ctx, ownerID, *targetFolderID, "Target folder"); err != nil {
			return nil, err
		}
	}

	return s.createCopy(ctx, original, targetFolderID)
}

func (s *NoteService) createCopy(ctx context.Context, original *models.Note, parentID *primitive.ObjectID) (*models.Note, error) {
	now := time.Now()
	copied := &models.Note{
		ID:        primitive.NewObjectID(),
		OwnerID:   original.OwnerID,
		Title:     utils.AppendCopySuffix(original.Title),
		Content:   original.Content,
		ParentID:  parentID,
		Color:     original.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.noteCollection.InsertOne(ctx, copied); err != nil {
		return nil, fmt.Errorf("failed to copy note: %w", err)
	}

	return copied, nil
}

func (s *NoteService) Delete(ctx context.Context, ownerID, noteID primitive.ObjectID) error {
	result, err := s.noteCollection.DeleteOne(ctx, bson.M{"_id": noteID, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if result.DeletedCount == 0 {
		return utils.NotFound("Note")
	}
	return nil
}

func (s *NoteService) getOwned(ctx context.Context, ownerID, noteID primitive.ObjectID) (*models.Note, error) {
	var note models.Note
	err := s.noteCollection.FindOne(ctx, bson.M{"_id": noteID, "owner_id": ownerID}).Decode(&note)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NotFound("Note")
	} else if err != nil {
		return nil, fmt.Errorf("failed to load note: %w", err)
	}
	return &note, nil
}

func (s *NoteService) validateParent(ctx context.Context, ownerID, folderID primitive.ObjectID, resource string) error {
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
