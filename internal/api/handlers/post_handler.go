package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postgate/internal/models"
	"github.com/maheshrc27/postgate/internal/queue"
	"github.com/maheshrc27/postgate/internal/service"
	"github.com/maheshrc27/postgate/internal/transfer"
)

type PostHandler struct {
	s        service.PostService
	ps       service.PublishService
	enqueuer queue.Enqueuer
}

func NewPostHandler(s service.PostService, ps service.PublishService, enqueuer queue.Enqueuer) *PostHandler {
	return &PostHandler{s: s, ps: ps, enqueuer: enqueuer}
}

// CreatePost accepts either a JSON body or a multipart form carrying
// files to upload.
func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	operatorID := GetOperatorID(c)

	var (
		pc    transfer.PostCreation
		files []transfer.MediaFile
		err   error
	)
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		pc, files, err = parsePostForm(c)
		if err != nil {
			return respondError(c, err)
		}
	} else if err := c.BodyParser(&pc); err != nil {
		return badBody(c)
	}

	post, err := h.s.CreatePost(c.Context(), operatorID, &pc, files)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

func parsePostForm(c *fiber.Ctx) (transfer.PostCreation, []transfer.MediaFile, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return transfer.PostCreation{}, nil, models.NewValidationError("unable to parse form")
	}

	pc := transfer.PostCreation{
		Content:   c.FormValue("content"),
		Hashtags:  c.FormValue("hashtags"),
		MediaURLs: splitFormList(form.Value["media_urls"]),
		Platforms: splitFormList(form.Value["platforms"]),
	}
	if draft := c.FormValue("draft"); draft != "" {
		pc.Draft, err = strconv.ParseBool(draft)
		if err != nil {
			return pc, nil, models.NewValidationError("draft must be true or false")
		}
	}
	if scheduled := c.FormValue("scheduled_time"); scheduled != "" {
		t, err := time.Parse(time.RFC3339, scheduled)
		if err != nil {
			return pc, nil, models.NewValidationError("scheduled_time must be an RFC3339 timestamp")
		}
		pc.ScheduledTime = &t
	}

	files := make([]transfer.MediaFile, 0, len(form.File["files"]))
	for _, fh := range form.File["files"] {
		data, err := readFormFile(fh)
		if err != nil {
			return pc, nil, err
		}
		files = append(files, transfer.MediaFile{Name: fh.Filename, Data: data})
	}
	return pc, files, nil
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", fh.Filename, err)
	}
	return data, nil
}

// splitFormList accepts repeated fields as well as comma separated values.
func splitFormList(values []string) []string {
	out := []string{}
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	posts, err := h.s.List(c.Context(), GetOperatorID(c), c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	postID, err := postIDParam(c)
	if err != nil {
		return respondError(c, err)
	}

	post, err := h.s.PostInfo(c.Context(), GetOperatorID(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	postID, err := postIDParam(c)
	if err != nil {
		return respondError(c, err)
	}

	var pu transfer.PostUpdate
	if err := c.BodyParser(&pu); err != nil {
		return badBody(c)
	}

	post, err := h.s.UpdatePost(c.Context(), GetOperatorID(c), postID, &pu)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

func (h *PostHandler) ApprovePost(c *fiber.Ctx) error {
	postID, err := postIDParam(c)
	if err != nil {
		return respondError(c, err)
	}

	post, err := h.s.Approve(c.Context(), GetOperatorID(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// publishRequest reads an optional JSON body; ?force=true also forces.
func publishRequest(c *fiber.Ctx) (*transfer.PublishRequest, error) {
	req := &transfer.PublishRequest{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return nil, models.NewValidationError("unable to parse request body")
		}
	}
	if c.QueryBool("force", false) {
		req.Force = true
	}
	return req, nil
}

func (h *PostHandler) PublishPost(c *fiber.Ctx) error {
	postID, err := postIDParam(c)
	if err != nil {
		return respondError(c, err)
	}
	req, err := publishRequest(c)
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.ps.Publish(c.Context(), GetOperatorID(c), postID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func (h *PostHandler) PreviewPost(c *fiber.Ctx) error {
	postID, err := postIDParam(c)
	if err != nil {
		return respondError(c, err)
	}

	override := models.AccountContext{
		WorkspaceID: c.Query("workspace_id"),
		UserID:      c.Query("user_id"),
		BlogID:      c.Query("blog_id"),
	}
	preview, err := h.ps.Preview(c.Context(), GetOperatorID(c), postID, override)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(preview)
}

func (h *PostHandler) SchedulePost(c *fiber.Ctx) error {
	operatorID := GetOperatorID(c)
	postID, err := postIDParam(c)
	if err != nil {
		return respondError(c, err)
	}
	req, err := publishRequest(c)
	if err != nil {
		return respondError(c, err)
	}

	delay, err := h.ps.Schedule(c.Context(), operatorID, postID, req)
	if err != nil {
		return respondError(c, err)
	}

	info, err := queue.EnqueuePublish(h.enqueuer, queue.NewPublishPostPayload(operatorID, postID, req), delay)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"task_id":    info.ID,
		"post_id":    postID,
		"process_at": time.Now().Add(delay).UTC(),
	})
}

func (h *PostHandler) ListAttempts(c *fiber.Ctx) error {
	postID, err := postIDParam(c)
	if err != nil {
		return respondError(c, err)
	}

	attempts, err := h.ps.Attempts(c.Context(), GetOperatorID(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(attempts)
}

// RemovePost deletes the local record; the provider is not contacted.
func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	postID, err := postIDParam(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.s.Remove(c.Context(), GetOperatorID(c), postID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
