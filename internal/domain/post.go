package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"        json:"_id"`
	Title       string               `bson:"title"                json:"title"`
	Content     string               `bson:"content"              json:"content"`
	Summary     string               `bson:"summary"              json:"summary"`
	CoverImage  string               `bson:"coverImage,omitempty" json:"coverImage,omitempty"`
	IsPublished bool                 `bson:"isPublished"          json:"isPublished"`
	TagIDs      []primitive.ObjectID `bson:"tags"                 json:"-"`
	Tags        []Tag                `bson:"-"                    json:"tags"`
	CreatedAt   time.Time            `bson:"createdAt"            json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt"            json:"updatedAt"`
}

// PostPage is one page of published posts.
type PostPage struct {
	Posts []Post `json:"posts"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Pages int    `json:"pages"`
}
