package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Folder is a node in a per-owner tree. Children reference their parent by
// id only; a nil ParentID means the folder sits at the root. The tree is
// kept acyclic by construction: a folder's parent is validated at creation
// and copies always mint new nodes.
type Folder struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OwnerID    primitive.ObjectID  `bson:"owner_id" json:"owner_id"`
	Name       string              `bson:"name" json:"name"`
	ParentID   *primitive.ObjectID `bson:"parent_id" json:"parent_id"`
	Color      string              `bson:"color,omitempty" json:"color,omitempty"`
	IsFavorite bool                `bson:"is_favorite" json:"is_favorite"`
	CreatedAt  time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time           `bson:"updated_at" json:"updated_at"`
}

func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}
