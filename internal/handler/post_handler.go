package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gorilla/mux"

	"contentplanner/internal/models"
)

// multipartOverhead is allowed on top of MaxUploadSize for form boundaries
// and headers.
const multipartOverhead = 1 << 20

var allowedThumbnailTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

type StatusRequest struct {
	Status models.Status `json:"status"`
}

type StatusResponse struct {
	Message string       `json:"message"`
	Post    *models.Post `json:"post"`
}

// owner returns the authenticated user id. Routes using it sit behind
// AuthMiddleware.
func owner(r *http.Request) (string, bool) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		return "", false
	}
	return user.UserID, true
}

func parseFilter(r *http.Request) (models.PostFilter, error) {
	q := r.URL.Query()
	filter := models.PostFilter{
		Platform:    models.Platform(q.Get("platform")),
		Status:      models.Status(q.Get("status")),
		ContentType: models.ContentType(q.Get("content_type")),
		Priority:    models.Priority(q.Get("priority")),
		Tag:         q.Get("tag"),
		Search:      q.Get("search"),
	}

	var err error
	if v := q.Get("limit"); v != "" {
		if filter.Limit, err = strconv.Atoi(v); err != nil {
			return filter, fmt.Errorf("limit must be an integer")
		}
	}
	if v := q.Get("offset"); v != "" {
		if filter.Offset, err = strconv.Atoi(v); err != nil {
			return filter, fmt.Errorf("offset must be an integer")
		}
	}
	return filter, nil
}

func (h *Handlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(r)
	if !ok {
		WriteError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	page, err := h.PostService.ListPosts(r.Context(), userID, filter)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	posts := page.Posts
	if posts == nil {
		posts = []*models.Post{}
	}

	w.Header().Set("X-Total-Count", strconv.FormatInt(page.Total, 10))
	writeSuccess(w, posts, http.StatusOK)
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(r)
	if !ok {
		WriteError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	var req models.CreatePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBodyError(w, err)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, validationMessage(err), http.StatusBadRequest)
		return
	}

	post, err := h.PostService.CreatePost(r.Context(), userID, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, post, http.StatusCreated)
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(r)
	if !ok {
		WriteError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	post, err := h.PostService.GetPost(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, post, http.StatusOK)
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(r)
	if !ok {
		WriteError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	var req models.UpdatePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBodyError(w, err)
		return
	}

	post, err := h.PostService.UpdatePost(r.Context(), userID, mux.Vars(r)["id"], &req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, post, http.StatusOK)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(r)
	if !ok {
		WriteError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	if err := h.PostService.DeletePost(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]string{"message": "Post deleted successfully"}, http.StatusOK)
}

// UpdatePostStatus takes the new status from the status query parameter or,
// when that is absent, from a JSON body.
func (h *Handlers) UpdatePostStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(r)
	if !ok {
		WriteError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	status := models.Status(r.URL.Query().Get("status"))
	if status == "" {
		var req StatusRequest
		if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
			writeBodyError(w, err)
			return
		}
		status = req.Status
	}
	if status == "" {
		WriteError(w, "status is required", http.StatusBadRequest)
		return
	}

	post, err := h.PostService.SetStatus(r.Context(), userID, mux.Vars(r)["id"], status)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, StatusResponse{Message: "Status updated", Post: post}, http.StatusOK)
}

func (h *Handlers) UploadThumbnail(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(r)
	if !ok {
		WriteError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	tooLarge := fmt.Sprintf("File too large (max %s)", humanize.IBytes(uint64(h.Cfg.MaxUploadSize)))

	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, tooLarge, http.StatusBadRequest)
		} else {
			WriteError(w, "Could not parse upload", http.StatusBadRequest)
		}
		return
	}

	file, header, err := r.FormFile("thumbnail")
	if err != nil {
		WriteError(w, "thumbnail file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Size > h.Cfg.MaxUploadSize {
		WriteError(w, tooLarge, http.StatusBadRequest)
		return
	}

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		WriteError(w, "Could not read upload", http.StatusBadRequest)
		return
	}
	if !mimetype.EqualsAny(mtype.String(), allowedThumbnailTypes...) {
		WriteError(w, "Unsupported file type. Allowed: JPEG, PNG, GIF, WebP", http.StatusBadRequest)
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		WriteError(w, "Could not read upload", http.StatusBadRequest)
		return
	}

	post, err := h.PostService.UploadThumbnail(r.Context(), userID, mux.Vars(r)["id"], file, header.Size, mtype.String(), mtype.Extension())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, post, http.StatusOK)
}
