package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tazhibayda/family-gallery/internal/serr"
	"github.com/tazhibayda/family-gallery/internal/service"
)

const (
	maxJSONBody   = 1 << 20
	maxBatchFiles = 50
)

// flexBool accepts a JSON bool or one of the strings forms send for checkboxes.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = flexBool(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New("invalid boolean")
	}
	*b = flexBool(parseBool(s))
	return nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "on", "yes":
		return true
	}
	return false
}

// flexTags accepts an array of ids, a JSON array encoded as a string, or a comma list.
type flexTags []string

func (t *flexTags) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*t = cleanTags(arr)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New("invalid tags")
	}
	*t = parseTags([]string{s})
	return nil
}

func parseTags(values []string) []string {
	if len(values) == 1 {
		s := strings.TrimSpace(values[0])
		if strings.HasPrefix(s, "[") {
			var arr []string
			if err := json.Unmarshal([]byte(s), &arr); err == nil {
				return cleanTags(arr)
			}
		}
		return cleanTags(strings.Split(s, ","))
	}
	return cleanTags(values)
}

func cleanTags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type postReq struct {
	Title       *string   `json:"title"`
	Content     *string   `json:"content"`
	Summary     *string   `json:"summary"`
	CoverImage  *string   `json:"coverImage"`
	IsPublished *flexBool `json:"isPublished"`
	Tags        *flexTags `json:"tags"`
}

func (p postReq) input() service.PostInput {
	in := service.PostInput{
		Title:      deref(p.Title),
		Content:    deref(p.Content),
		Summary:    deref(p.Summary),
		CoverImage: deref(p.CoverImage),
	}
	if p.IsPublished != nil {
		in.IsPublished = bool(*p.IsPublished)
	}
	if p.Tags != nil {
		in.Tags = *p.Tags
	}
	return in
}

func (p postReq) update() service.PostUpdate {
	up := service.PostUpdate{
		Title:      p.Title,
		Content:    p.Content,
		Summary:    p.Summary,
		CoverImage: p.CoverImage,
	}
	if p.IsPublished != nil {
		b := bool(*p.IsPublished)
		up.IsPublished = &b
	}
	if p.Tags != nil {
		tags := []string(*p.Tags)
		up.Tags = &tags
	}
	return up
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isMultipart(c *gin.Context) bool {
	ct := c.ContentType()
	return ct == "multipart/form-data" || ct == "application/x-www-form-urlencoded"
}

// bindPost reads a post from JSON or a form. Form requests may carry a coverImage file.
func (h *Handler) bindPost(c *gin.Context) (postReq, *service.Upload, error) {
	var p postReq
	if !isMultipart(c) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxJSONBody)
		if err := c.ShouldBindJSON(&p); err != nil {
			return p, nil, serr.Wrap(err, serr.Validation, "invalid json")
		}
		return p, nil, nil
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUpload+maxJSONBody)
	form, err := parseForm(c)
	if err != nil {
		return p, nil, err
	}
	field := func(name string) *string {
		if vs, ok := form.Value[name]; ok && len(vs) > 0 {
			s := vs[0]
			return &s
		}
		return nil
	}
	p.Title = field("title")
	p.Content = field("content")
	p.Summary = field("summary")
	p.CoverImage = field("coverImage")
	if s := field("isPublished"); s != nil {
		b := flexBool(parseBool(*s))
		p.IsPublished = &b
	}
	if vs := append(append([]string(nil), form.Value["tags"]...), form.Value["tags[]"]...); len(vs) > 0 {
		t := flexTags(parseTags(vs))
		p.Tags = &t
	}
	var cover *service.Upload
	if fhs := form.File["coverImage"]; len(fhs) > 0 {
		up := fileUpload(fhs[0])
		cover = &up
	}
	return p, cover, nil
}

// parseForm handles both multipart and urlencoded bodies.
func parseForm(c *gin.Context) (*multipart.Form, error) {
	if c.ContentType() == "application/x-www-form-urlencoded" {
		if err := c.Request.ParseForm(); err != nil {
			return nil, formErr(err)
		}
		return &multipart.Form{Value: c.Request.PostForm}, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, formErr(err)
	}
	return form, nil
}

func formErr(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return serr.Wrap(err, serr.Validation, "request too large")
	}
	return serr.Wrap(err, serr.Validation, "invalid form")
}

func fileUpload(fh *multipart.FileHeader) service.Upload {
	return service.Upload{
		Name: fh.Filename,
		Open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}

func formValue(form *multipart.Form, name string) string {
	if vs := form.Value[name]; len(vs) > 0 {
		return strings.TrimSpace(vs[0])
	}
	return ""
}

// parseDate accepts RFC 3339 timestamps and plain dates.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, serr.New(serr.Validation, "invalid dateTaken")
}
