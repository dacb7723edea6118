package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

type Tag struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name string             `bson:"name"          json:"name"`
	Slug string             `bson:"slug"          json:"slug"`
}
