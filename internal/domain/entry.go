package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Entry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"       json:"_id"`
	Title       string             `bson:"title"               json:"title"`
	Description string             `bson:"description"         json:"description"`
	ImageURL    string             `bson:"imageUrl"            json:"imageUrl"`
	GalleryID   primitive.ObjectID `bson:"gallery"             json:"gallery"`
	DateTaken   *time.Time         `bson:"dateTaken,omitempty" json:"dateTaken"`
	CreatedAt   time.Time          `bson:"createdAt"           json:"createdAt"`
}
