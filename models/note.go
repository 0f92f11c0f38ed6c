package models

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MaxNoteTitleLength   = 255
	MaxNoteContentLength = 100000
	notePreviewLength    = 100
)

// Note is a rich-text note. Preview and word count are derived at
// serialization time, never stored.
type Note struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OwnerID    primitive.ObjectID  `bson:"owner_id" json:"owner_id"`
	Title      string              `bson:"title" json:"title"`
	Content    string              `bson:"content" json:"content"`
	ParentID   *primitive.ObjectID `bson:"parent_id" json:"parent_id"`
	Color      string              `bson:"color,omitempty" json:"color,omitempty"`
	IsFavorite bool                `bson:"is_favorite" json:"is_favorite"`
	CreatedAt  time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time           `bson:"updated_at" json:"updated_at"`
}

// Preview returns the first 100 characters of the content, with an ellipsis
// when truncated.
func (n *Note) Preview() string {
	if n.Content == "" {
		return ""
	}
	runes := []rune(n.Content)
	if len(runes) <= notePreviewLength {
		return n.Content
	}
	return string(runes[:notePreviewLength]) + "..."
}

func (n *Note) WordCount() int {
	if n.Content == "" {
		return 0
	}
	return len(strings.Fields(n.Content))
}

func (n Note) MarshalJSON() ([]byte, error) {
	type noteAlias Note
	return json.Marshal(struct {
		noteAlias
		Preview   string `json:"preview"`
		WordCount int    `json:"word_count"`
	}{
		noteAlias: noteAlias(n),
		Preview:   n.Preview(),
		WordCount: n.WordCount(),
	})
}
