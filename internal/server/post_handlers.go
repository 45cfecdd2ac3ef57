package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"scribe/internal/middleware"
	"scribe/internal/models"
	"scribe/internal/service"

	"github.com/gofiber/fiber/v2"
)

// postForm is a create or edit request decoded from JSON or multipart form data.
// Text and Group are optional for edits; SetGroup reports whether the request
// mentioned the group at all, so an explicit null or "" clears it.
type postForm struct {
	Text     *string
	SetGroup bool
	GroupID  *uint
	Image    *service.UploadImageInput
}

var jsonNull = []byte("null")

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}

func parsePostForm(c *fiber.Ctx) (*postForm, error) {
	if isMultipart(c) {
		return parseMultipartPostForm(c)
	}

	var req struct {
		Text  *string         `json:"text"`
		Group json.RawMessage `json:"group"`
	}
	if err := c.BodyParser(&req); err != nil {
		return nil, models.NewValidationError("Invalid request body")
	}

	form := &postForm{Text: req.Text}
	if len(req.Group) > 0 {
		form.SetGroup = true
		if !bytes.Equal(req.Group, jsonNull) {
			var id uint
			if err := json.Unmarshal(req.Group, &id); err != nil || id == 0 {
				return nil, models.NewFieldValidationError("group", "Select a valid choice.")
			}
			form.GroupID = &id
		}
	}
	return form, nil
}

func parseMultipartPostForm(c *fiber.Ctx) (*postForm, error) {
	mf, err := c.MultipartForm()
	if err != nil {
		return nil, models.NewValidationError("Invalid form data")
	}

	form := &postForm{}
	if values, ok := mf.Value["text"]; ok && len(values) > 0 {
		form.Text = &values[0]
	}
	if values, ok := mf.Value["group"]; ok && len(values) > 0 {
		form.SetGroup = true
		if raw := strings.TrimSpace(values[0]); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 32)
			if err != nil || id == 0 {
				return nil, models.NewFieldValidationError("group", "Select a valid choice.")
			}
			gid := uint(id)
			form.GroupID = &gid
		}
	}
	if files := mf.File["image"]; len(files) > 0 {
		img, err := readUpload(files[0])
		if err != nil {
			return nil, err
		}
		form.Image = img
	}
	return form, nil
}

func readUpload(file *multipart.FileHeader) (*service.UploadImageInput, error) {
	src, err := file.Open()
	if err != nil {
		return nil, models.NewFieldValidationError("image", "Unable to read uploaded file")
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return nil, models.NewFieldValidationError("image", "Unable to read uploaded file")
	}
	return &service.UploadImageInput{
		Filename:    file.Filename,
		ContentType: file.Header.Get(fiber.HeaderContentType),
		Content:     content,
	}, nil
}

// CreatePost handles POST /api/posts
// @Summary Create post
// @Description Publishes a post as the caller. Accepts JSON or multipart form data with an optional image file.
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body object{text=string,group=int} true "Post"
// @Success 303 {object} models.Post "Location points to the author's profile"
// @Failure 400 {object} models.ErrorResponse
// @Failure 302 {string} string "Redirect to login"
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	form, err := parsePostForm(c)
	if err != nil {
		return respondError(c, err)
	}

	in := service.CreatePostInput{
		AuthorID: middleware.UserID(c),
		GroupID:  form.GroupID,
		Image:    form.Image,
	}
	if form.Text != nil {
		in.Text = *form.Text
	}

	post, err := s.postService.CreatePost(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return seeOther(c, profileURL(post.Author.Username), post)
}

// UpdatePost handles PUT /api/posts/:id
// @Summary Edit post
// @Description Changes text and/or group of the caller's own post. Other users are redirected to the unchanged post.
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body object{text=string,group=int} true "Changes"
// @Success 303 {object} models.Post "Location points to the post"
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	form, err := parsePostForm(c)
	if err != nil {
		return respondError(c, err)
	}

	post, err := s.postService.EditPost(c.UserContext(), service.EditPostInput{
		UserID:   middleware.UserID(c),
		PostID:   postID,
		Text:     form.Text,
		SetGroup: form.SetGroup,
		GroupID:  form.GroupID,
	})
	if err != nil {
		if models.ErrorCode(err) == models.CodeForbidden {
			return seeOther(c, postURL(postID), models.ErrorResponse{
				Error: err.Error(),
				Code:  models.CodeForbidden,
			})
		}
		return respondError(c, err)
	}
	return seeOther(c, postURL(post.ID), post)
}

// CreateComment handles POST /api/posts/:id/comments
// @Summary Add comment
// @Tags comments
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body object{text=string} true "Comment"
// @Success 303 {object} models.Comment "Location points to the post"
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text" form:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		AuthorID: middleware.UserID(c),
		PostID:   postID,
		Text:     req.Text,
	})
	if err != nil {
		return respondError(c, err)
	}
	return seeOther(c, postURL(postID), comment)
}
