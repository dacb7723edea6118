package queue

import "go.mongodb.org/mongo-driver/bson/primitive"

// Routing keys.
const (
	KeyFamilyRegistered = "familyuser.registered"
	KeyGalleryCreated   = "gallery.created"
	KeyEntriesImported  = "entries.imported"
)

type FamilyRegistered struct {
	FamilyUserID primitive.ObjectID `json:"familyUserId"`
	Email        string             `json:"email"`
	Name         string             `json:"name"`
}

type GalleryCreated struct {
	GalleryID    primitive.ObjectID `json:"galleryId"`
	Name         string             `json:"name"`
	IsFamilyOnly bool               `json:"isFamilyOnly"`
}

type EntriesImported struct {
	GalleryID primitive.ObjectID `json:"galleryId"`
	Imported  int                `json:"imported"`
	Failed    int                `json:"failed"`
}
