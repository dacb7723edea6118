package service

import (
	"io"
	"strings"
	"time"

	"github.com/tazhibayda/family-gallery/internal/domain"
	"github.com/tazhibayda/family-gallery/internal/service/servicetest"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func upload(name, body string) Upload {
	return Upload{Name: name, Open: func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(body)), nil
	}}
}

type fixture struct {
	db      *servicetest.MemDB
	files   *servicetest.MemFiles
	pub     *servicetest.RecPub
	admins  *AdminService
	family  *FamilyService
	tags    *TagService
	gallery *GalleryService
	entries *EntryService
	posts   *PostService
}

func newFixture() *fixture {
	db := servicetest.NewMemDB()
	files := &servicetest.MemFiles{Taken: time.Date(2019, 8, 1, 9, 0, 0, 0, time.UTC)}
	pub := &servicetest.RecPub{}
	return &fixture{
		db:      db,
		files:   files,
		pub:     pub,
		admins:  NewAdminService(db),
		family:  NewFamilyService(db, pub),
		tags:    NewTagService(db),
		gallery: NewGalleryService(db, db, db, files, pub),
		entries: NewEntryService(db, db, files, &servicetest.Source{}, pub, ImportOptions{Concurrency: 2, ItemTimeout: time.Second}),
		posts:   NewPostService(db, db, files),
	}
}

var (
	anonymous = domain.Viewer{}
	admin     = domain.Viewer{AdminID: primitive.NewObjectID()}
	approved  = domain.Viewer{Family: &domain.FamilyUser{Status: domain.StatusApproved}}
	pending   = domain.Viewer{Family: &domain.FamilyUser{Status: domain.StatusPending}}
	blocked   = domain.Viewer{Family: &domain.FamilyUser{Status: domain.StatusBlocked}}
)
