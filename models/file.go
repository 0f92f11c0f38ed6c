package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	FileTypeImage = "image"
	FileTypePDF   = "pdf"
)

// File is the metadata record for a stored binary. The bytes themselves live
// in the blob store under BlobKey; Size is what counts against the owner's
// storage quota.
type File struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OwnerID      primitive.ObjectID  `bson:"owner_id" json:"owner_id"`
	Name         string              `bson:"name" json:"name"`
	OriginalName string              `bson:"original_name" json:"original_name"`
	MimeType     string              `bson:"mime_type" json:"mime_type"`
	FileType     string              `bson:"file_type" json:"file_type"`
	Size         int64               `bson:"size" json:"size"`
	BlobKey      string              `bson:"blob_key" json:"-"`
	URL          string              `bson:"url" json:"url"`
	ThumbnailURL string              `bson:"thumbnail_url,omitempty" json:"thumbnail_url,omitempty"`
	ParentID     *primitive.ObjectID `bson:"parent_id" json:"parent_id"`
	IsFavorite   bool                `bson:"is_favorite" json:"is_favorite"`
	CreatedAt    time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time           `bson:"updated_at" json:"updated_at"`
}
