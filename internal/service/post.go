package service

import (
	"context"
	"math"
	"strings"

	"github.com/tazhibayda/family-gallery/internal/domain"
	"github.com/tazhibayda/family-gallery/internal/ingest"
	"github.com/tazhibayda/family-gallery/internal/serr"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type PostInput struct {
	Title       string
	Content     string
	Summary     string
	CoverImage  string
	IsPublished bool
	Tags        []string
}

// PostUpdate is a partial update; nil fields are kept.
type PostUpdate struct {
	Title       *string
	Content     *string
	Summary     *string
	CoverImage  *string
	IsPublished *bool
	Tags        *[]string
}

type PostService struct {
	posts PostStore
	tags  TagStore
	files Files
}

func NewPostService(posts PostStore, tags TagStore, files Files) *PostService {
	return &PostService{posts: posts, tags: tags, files: files}
}

// ListPublished returns one page of published posts, newest first.
func (s *PostService) ListPublished(ctx context.Context, page, limit int) (*domain.PostPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	skip := int64(math.MaxInt64)
	if int64(page-1) <= math.MaxInt64/int64(limit) {
		skip = int64(page-1) * int64(limit)
	}
	posts, total, err := s.posts.ListPublishedPosts(ctx, skip, int64(limit))
	if err != nil {
		return nil, internalErr(err, "list posts")
	}
	if err := s.populateAll(ctx, posts); err != nil {
		return nil, err
	}
	return &domain.PostPage{
		Posts: posts,
		Total: total,
		Page:  page,
		Pages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

// ListAll includes drafts.
func (s *PostService) ListAll(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.posts.ListAllPosts(ctx)
	if err != nil {
		return nil, internalErr(err, "list posts")
	}
	if err := s.populateAll(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *PostService) populateAll(ctx context.Context, posts []domain.Post) error {
	for i := range posts {
		ts, err := populate(ctx, s.tags, posts[i].TagIDs)
		if err != nil {
			return err
		}
		posts[i].Tags = ts
	}
	return nil
}

// Get hides drafts from everyone but the admin.
func (s *PostService) Get(ctx context.Context, v domain.Viewer, id string) (*domain.Post, error) {
	oid, err := parseID(id, "post")
	if err != nil {
		return nil, err
	}
	p, err := s.posts.FindPost(ctx, oid)
	if err != nil {
		return nil, internalErr(err, "find post")
	}
	if p == nil || (!p.IsPublished && !v.IsAdmin()) {
		return nil, serr.New(serr.NotFound, "post not found")
	}
	if p.Tags, err = populate(ctx, s.tags, p.TagIDs); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostService) Create(ctx context.Context, in PostInput, cover *Upload) (*domain.Post, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return nil, serr.New(serr.Validation, "title and content are required")
	}
	tagIDs, err := parseIDs(in.Tags)
	if err != nil {
		return nil, err
	}
	p := &domain.Post{
		Title:       strings.TrimSpace(in.Title),
		Content:     in.Content,
		Summary:     in.Summary,
		CoverImage:  in.CoverImage,
		IsPublished: in.IsPublished,
		TagIDs:      tagIDs,
	}
	stored := ""
	if cover != nil {
		st, err := storeFile(ctx, s.files, ingest.DirPosts, *cover)
		if err != nil {
			return nil, err
		}
		stored, p.CoverImage = st.URL, st.URL
	}
	if err := s.posts.CreatePost(ctx, p); err != nil {
		s.files.Discard(ctx, stored)
		return nil, internalErr(err, "create post")
	}
	if p.Tags, err = populate(ctx, s.tags, p.TagIDs); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostService) Update(ctx context.Context, id string, in PostUpdate, cover *Upload) (*domain.Post, error) {
	oid, err := parseID(id, "post")
	if err != nil {
		return nil, err
	}
	p, err := s.posts.FindPost(ctx, oid)
	if err != nil {
		return nil, internalErr(err, "find post")
	}
	if p == nil {
		return nil, serr.New(serr.NotFound, "post not found")
	}
	prevCover := p.CoverImage

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, serr.New(serr.Validation, "title must not be empty")
		}
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, serr.New(serr.Validation, "content must not be empty")
		}
		p.Content = *in.Content
	}
	if in.Summary != nil {
		p.Summary = *in.Summary
	}
	if in.IsPublished != nil {
		p.IsPublished = *in.IsPublished
	}
	if in.CoverImage != nil {
		p.CoverImage = *in.CoverImage
	}
	if in.Tags != nil {
		if p.TagIDs, err = parseIDs(*in.Tags); err != nil {
			return nil, err
		}
	}

	stored := ""
	if cover != nil {
		st, err := storeFile(ctx, s.files, ingest.DirPosts, *cover)
		if err != nil {
			return nil, err
		}
		stored, p.CoverImage = st.URL, st.URL
	}
	ok, err := s.posts.SavePost(ctx, p)
	if err != nil || !ok {
		s.files.Discard(ctx, stored)
		if err != nil {
			return nil, internalErr(err, "save post")
		}
		return nil, serr.New(serr.NotFound, "post not found")
	}
	if prevCover != "" && prevCover != p.CoverImage {
		s.files.Discard(ctx, prevCover)
	}
	if p.Tags, err = populate(ctx, s.tags, p.TagIDs); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, "post")
	if err != nil {
		return err
	}
	p, err := s.posts.FindPost(ctx, oid)
	if err != nil {
		return internalErr(err, "find post")
	}
	if p == nil {
		return serr.New(serr.NotFound, "post not found")
	}
	s.files.Discard(ctx, p.CoverImage)
	if _, err := s.posts.DeletePost(ctx, oid); err != nil {
		return internalErr(err, "delete post")
	}
	return nil
}
