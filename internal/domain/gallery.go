package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Gallery struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name         string               `bson:"name"          json:"name"`
	Description  string               `bson:"description"   json:"description"`
	Story        string               `bson:"story"         json:"story"`
	CoverImage   string               `bson:"coverImage,omitempty" json:"coverImage,omitempty"`
	IsFamilyOnly bool                 `bson:"isFamilyOnly"  json:"isFamilyOnly"`
	TagIDs       []primitive.ObjectID `bson:"tags"          json:"-"`
	Tags         []Tag                `bson:"-"             json:"tags"`
	Year         int                  `bson:"year"          json:"year"`
	Month        int                  `bson:"month"         json:"month"`
	CreatedAt    time.Time            `bson:"createdAt"     json:"createdAt"`
}

// GalleryPatch holds the fields of a partial update; nil means "leave as is".
type GalleryPatch struct {
	Name        *string
	Description *string
	Story       *string
	CoverImage  *string
	TagIDs      *[]primitive.ObjectID
	Year        *int
	Month       *int
}

func (p GalleryPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Story == nil && p.CoverImage == nil &&
		p.TagIDs == nil && p.Year == nil && p.Month == nil
}
