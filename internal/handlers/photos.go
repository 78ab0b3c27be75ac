package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store"
	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store/model"
)

const maxUploadSize = 50 << 20 // 50MB max upload size

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".heic": true,
}

type uploadRequest struct {
	ContractorID string `validate:"required"`
	JobID        string `validate:"required"`
	DamageType   string
	Notes        string
}

type UploadReply struct {
	PhotoID string `json:"photo_id"`
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (UploadReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (h *ServiceHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		renderError(w, r, http.StatusRequestEntityTooLarge, "upload exceeds the 50MB limit")
		return
	}

	req := uploadRequest{
		ContractorID: r.Header.Get("X-Contractor-ID"),
		JobID:        r.FormValue("job_id"),
		DamageType:   r.FormValue("damage_type"),
		Notes:        r.FormValue("notes"),
	}
	if err := h.validate.Struct(req); err != nil {
		renderError(w, r, http.StatusBadRequest, "contractor ID header and job_id are required")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "no photo part")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		renderError(w, r, http.StatusBadRequest, "no selected file")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		renderError(w, r, http.StatusBadRequest, fmt.Sprintf("file type %q not allowed, accepted types are jpg, jpeg, png and heic", ext))
		return
	}

	photoID := uuid.New()
	objectKey := fmt.Sprintf("%s/%s%s", req.JobID, photoID, ext)

	if err := h.photos.Put(r.Context(), objectKey, file, header.Size, contentTypeFor(ext, header)); err != nil {
		zap.S().Named("handlers").Errorw("failed to store photo", "photo_id", photoID, "error", err)
		renderError(w, r, http.StatusInternalServerError, "failed to store photo")
		return
	}

	photo := model.Photo{
		ID:               photoID,
		JobID:            req.JobID,
		ContractorID:     req.ContractorID,
		DamageTypeHint:   req.DamageType,
		Description:      req.Notes,
		OriginalFilename: header.Filename,
		ObjectKey:        objectKey,
		Status:           model.PhotoStatusPending,
	}
	if lat, err := strconv.ParseFloat(r.FormValue("latitude"), 64); err == nil {
		photo.Latitude = &lat
	}
	if lon, err := strconv.ParseFloat(r.FormValue("longitude"), 64); err == nil {
		photo.Longitude = &lon
	}

	if _, err := h.store.Photo().Create(r.Context(), photo); err != nil {
		zap.S().Named("handlers").Errorw("failed to persist photo record", "photo_id", photoID, "error", err)
		renderError(w, r, http.StatusInternalServerError, "failed to persist photo record")
		return
	}

	zap.S().Named("handlers").Infof("photo %s uploaded for job %s", photoID, req.JobID)
	_ = render.Render(w, r, UploadReply{
		PhotoID: photoID.String(),
		JobID:   req.JobID,
		Status:  "uploaded",
		Message: "Photo uploaded successfully and queued for processing",
	})
}

type PhotoReply struct {
	PhotoID    string `json:"photo_id"`
	Filename   string `json:"filename"`
	URL        string `json:"url"`
	UploadTime string `json:"upload_time"`
	DamageType string `json:"damage_type,omitempty"`
	Status     string `json:"processing_status"`
}

type JobPhotosReply struct {
	JobID      string       `json:"job_id"`
	PhotoCount int          `json:"photo_count"`
	Photos     []PhotoReply `json:"photos"`
}

func (JobPhotosReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (h *ServiceHandler) ListJobPhotos(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	photos, err := h.store.Photo().List(r.Context(), store.NewPhotoQueryFilter().WithJobID(jobID))
	if err != nil {
		renderError(w, r, http.StatusInternalServerError, "failed to list photos")
		return
	}
	if len(photos) == 0 {
		renderError(w, r, http.StatusNotFound, "job not found or no photos uploaded")
		return
	}

	reply := JobPhotosReply{JobID: jobID, PhotoCount: len(photos), Photos: []PhotoReply{}}
	for _, p := range photos {
		reply.Photos = append(reply.Photos, PhotoReply{
			PhotoID:    p.ID.String(),
			Filename:   p.OriginalFilename,
			URL:        fmt.Sprintf("/api/v1/photos/view/%s/%s", p.JobID, p.ID),
			UploadTime: p.CreatedAt.Format(time.RFC3339),
			DamageType: p.DamageTypeHint,
			Status:     p.Status,
		})
	}
	_ = render.Render(w, r, reply)
}

func (h *ServiceHandler) ViewPhoto(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	photoID, err := uuid.Parse(chi.URLParam(r, "photoID"))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid photo id")
		return
	}

	photo, err := h.store.Photo().Get(r.Context(), photoID)
	if err != nil || photo.JobID != jobID {
		if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
			renderError(w, r, http.StatusInternalServerError, "failed to load photo record")
			return
		}
		renderError(w, r, http.StatusNotFound, "photo not found")
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(strings.ToLower(filepath.Ext(photo.ObjectKey)), nil))
	if err := h.photos.Get(r.Context(), photo.ObjectKey, w); err != nil {
		zap.S().Named("handlers").Errorw("failed to stream photo", "photo_id", photoID, "error", err)
	}
}

func contentTypeFor(ext string, header *multipart.FileHeader) string {
	if header != nil {
		if ct := header.Header.Get("Content-Type"); ct != "" {
			return ct
		}
	}
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".heic":
		return "image/heic"
	default:
		return "application/octet-stream"
	}
}
