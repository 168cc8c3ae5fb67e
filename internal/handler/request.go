package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Rahanur19/youStream/internal/httputil"
	"github.com/Rahanur19/youStream/internal/model"
	"github.com/Rahanur19/youStream/internal/service"
	"github.com/Rahanur19/youStream/internal/transport/http/middleware"
)

const (
	maxJSONBody = 1 << 20 // 1MB is plenty for JSON

	// Multipart limits leave room for form fields next to the files.
	maxImageForm = model.MaxImageSizeBytes*2 + 1<<20
	maxVideoForm = model.MaxVideoSizeBytes + model.MaxImageSizeBytes + 1<<20
)

// currentUser returns the authenticated user ID or writes 401.
func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteServiceError(w, r, model.ErrTokenMissing)
		return "", false
	}
	return userID, true
}

// pathID reads a UUID path parameter or writes 400.
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := chi.URLParam(r, name)
	if err := service.ValidateID(id); err != nil {
		httputil.WriteServiceError(w, r, err)
		return "", false
	}
	return id, true
}

// decodeJSON reads a bounded JSON body into dst or writes 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return false
	}
	return true
}

// parseMultipart bounds and parses a multipart form or writes 400.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, http.ErrNotMultipart):
			httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
		case errors.As(err, &tooLarge), strings.Contains(err.Error(), "request body too large"):
			httputil.WriteServiceError(w, r, model.ErrFileTooLarge)
		default:
			httputil.WriteBadRequest(w, "Invalid form data")
		}
		return false
	}
	return true
}

// formFile reads an uploaded file into memory. A missing field yields nil.
func formFile(r *http.Request, field string) (*model.MediaFile, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, model.InvalidArgument("invalid " + field + " upload")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, model.InvalidArgument("invalid " + field + " upload")
	}
	return &model.MediaFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// optionalFormValue distinguishes an absent field (nil) from an empty one.
func optionalFormValue(r *http.Request, field string) *string {
	values, ok := r.MultipartForm.Value[field]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

// queryInt parses an optional integer query parameter; absent means 0.
func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.InvalidArgument(name + " must be a number")
	}
	return n, nil
}

// pageParams reads page and limit from the query string.
func pageParams(r *http.Request) (page, limit int, err error) {
	if page, err = queryInt(r, "page"); err != nil {
		return 0, 0, err
	}
	if limit, err = queryInt(r, "limit"); err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}
