package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"jotter/models"
	"jotter/utils"
)

// UserService owns the account itself: profile edits, password changes, and
// the account deletion that cascades over everything the user stored.
type UserService struct {
	userCollection   *mongo.Collection
	folderCollection *mongo.Collection
	fileCollection   *mongo.Collection
	noteCollection   *mongo.Collection
	blobStore        BlobStore
}

func NewUserService(db *mongo.Database, blobStore BlobStore) *UserService {
	return &UserService{
		userCollection:   db.Collection("users"),
		folderCollection: db.Collection("folders"),
		fileCollection:   db.Collection("files"),
		noteCollection:   db.Collection("notes"),
		blobStore:        blobStore,
	}
}

// UpdateProfile applies a partial update of the display fields.
func (s *UserService) UpdateProfile(ctx context.Context, ownerID primitive.ObjectID, firstName, lastName, avatar *string) (*models.User, error) {
	if firstName == nil && lastName == nil && avatar == nil {
		return nil, utils.BadRequest("No fields to update")
	}

	set := bson.M{"updated_at": time.Now()}
	if firstName != nil {
		if *firstName == "" || len(*firstName) > 100 {
			return nil, utils.ValidationError("First name must be between 1 and 100 characters")
		}
		set["first_name"] = *firstName
	}
	if lastName != nil {
		if len(*lastName) > 100 {
			return nil, utils.ValidationError("Last name cannot exceed 100 characters")
		}
		set["last_name"] = *lastName
	}
	if avatar != nil {
		set["avatar"] = *avatar
	}

	var user models.User
	err := s.userCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": ownerID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)

	if err == mongo.ErrNoDocuments {
		return nil, utils.NotFound("User")
	} else if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return &user, nil
}

// ChangePassword verifies the current password before storing the new one.
func (s *UserService) ChangePassword(ctx context.Context, ownerID primitive.ObjectID, currentPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.getUser(ctx, ownerID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)) != nil {
		return utils.Unauthorized("Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.userCollection.UpdateOne(ctx,
		bson.M{"_id": ownerID},
		bson.M{"$set": bson.M{"password": string(hash), "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// DeleteAccount removes the user and cascades over everything they stored.
// The password is re-verified. Files and notes go before folders, the same
// recovery order as a folder cascade, and the user document goes last so an
// interrupted delete can be retried. Blob cleanup is best-effort; no quota
// bookkeeping, the counter dies with the user.
func (s *UserService) DeleteAccount(ctx context.Context, ownerID primitive.ObjectID, password string) error {
	user, err := s.getUser(ctx, ownerID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return utils.Unauthorized("Password is incorrect")
	}

	ownerFilter := bson.M{"owner_id": ownerID}

	fileCursor, err := s.fileCollection.Find(ctx, ownerFilter,
		options.Find().SetProjection(bson.M{"blob_key": 1, "file_type": 1}))
	if err != nil {
		return fmt.Errorf("failed to list files for deletion: %w", err)
	}
	var files []models.File
	if err := fileCursor.All(ctx, &files); err != nil {
		return fmt.Errorf("failed to decode files for deletion: %w", err)
	}

	blobKeysByKind := map[string][]string{}
	for _, file := range files {
		blobKeysByKind[file.FileType] = append(blobKeysByKind[file.FileType], file.BlobKey)
	}

	if _, err := s.fileCollection.DeleteMany(ctx, ownerFilter); err != nil {
		return fmt.Errorf("failed to delete files: %w", err)
	}
	if _, err := s.noteCollection.DeleteMany(ctx, ownerFilter); err != nil {
		return fmt.Errorf("failed to delete notes: %w", err)
	}
	if _, err := s.folderCollection.DeleteMany(ctx, ownerFilter); err != nil {
		return fmt.Errorf("failed to delete folders: %w", err)
	}

	// Every record referencing these blobs was owner-scoped and is gone.
	if s.blobStore != nil {
		for kind, keys := range blobKeysByKind {
			release := releasableBlobKeys(keys, nil)
			if len(release) == 0 {
				continue
			}
			if err := s.blobStore.DeleteMany(ctx, release, kind); err != nil {
				utils.LogWarning("failed to delete blobs during account delete",
					"user_id", ownerID.Hex(), "kind", kind, "error", err)
			}
		}
	}

	if _, err := s.userCollection.DeleteOne(ctx, bson.M{"_id": ownerID}); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

func (s *UserService) getUser(ctx context.Context, ownerID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.userCollection.FindOne(ctx, bson.M{"_id": ownerID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NotFound("User")
	} else if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}
