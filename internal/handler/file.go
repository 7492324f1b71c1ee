package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"fileshare/internal/middleware"
	"fileshare/internal/model"
	"fileshare/internal/pkg/httputils"
	"fileshare/internal/repository"
	"fileshare/internal/service"

	"github.com/gorilla/mux"
)

type FileHandler struct {
	fileService service.FileService
	uploads     *service.UploadManager
}

func NewFileHandler(fileService service.FileService, uploads *service.UploadManager) *FileHandler {
	return &FileHandler{fileService: fileService, uploads: uploads}
}

func (h *FileHandler) RegisterRoutes(public, private *mux.Router) {
	private.HandleFunc("/files", h.listFiles).Methods("GET", "OPTIONS")
	private.HandleFunc("/files", h.uploadFile).Methods("POST", "OPTIONS")
	private.HandleFunc("/files/progress", h.uploadProgress).Methods("GET", "OPTIONS")
	private.HandleFunc("/files/{id}", h.deleteFile).Methods("DELETE", "OPTIONS")
	private.HandleFunc("/files/{id}/share", h.shareFile).Methods("POST", "OPTIONS")
	public.HandleFunc("/share/{token}", h.resolveShare).Methods("GET", "OPTIONS")
	public.HandleFunc("/share/{token}/download", h.downloadShare).Methods("GET", "OPTIONS")
}

type ListFilesResponse struct {
	Files      []model.FileRecord `json:"files"`
	UsedBytes  int64              `json:"used_bytes"`
	QuotaBytes int64              `json:"quota_bytes"`
	SortBy     string             `json:"sort_by"`
	View       string             `json:"view"`
}

// @Summary List files
// @Description List the current user's files, ordered by the sort key
// @ID list-files
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} ListFilesResponse
// @Failure 401 {object} response.ErrorResponse
// @Param sort query string false "Sort key: name, date or size"
// @Router /files [get]
func (h *FileHandler) listFiles(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		httputils.ResponseError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	sortParam := r.URL.Query().Get("sort")
	if sortParam == "" {
		sortParam = user.SortBy
	}
	sortBy := service.ParseSortKey(sortParam)

	files, err := h.fileService.ListFiles(user.ID, sortBy)
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to list files")
		return
	}

	used, err := h.fileService.StorageUsed(user.ID)
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to compute storage usage")
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, ListFilesResponse{
		Files:      files,
		UsedBytes:  used,
		QuotaBytes: model.MaxUploadSize(user.Plan),
		SortBy:     string(sortBy),
		View:       user.View,
	})
}

// @Summary Upload a file
// @Description Upload a file as multipart form data under the "file" field
// @ID upload-file
// @Security ApiKeyAuth
// @Accept mpfd
// @Produce json
// @Success 201 {object} model.FileRecord
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 413 {object} response.ErrorResponse
// @Param file formData file true "File content"
// @Router /files [post]
func (h *FileHandler) uploadFile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		httputils.ResponseError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Missing 'file' form field")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	rec, err := h.uploads.Upload(r.Context(), user, header.Filename, contentType, header.Size, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			httputils.ResponseError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrFileTooLarge):
			httputils.ResponseError(w, http.StatusRequestEntityTooLarge, "File exceeds the upload limit for your plan")
		case errors.Is(err, service.ErrUploadInProgress):
			httputils.ResponseError(w, http.StatusConflict, "Another upload is already in progress")
		default:
			httputils.ResponseError(w, http.StatusInternalServerError, "Upload failed")
		}
		return
	}

	httputils.ResponseJSON(w, http.StatusCreated, rec)
}

// @Summary Upload progress
// @Description Report the state of the current user's upload
// @ID upload-progress
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} service.UploadStatus
// @Failure 401 {object} response.ErrorResponse
// @Router /files/progress [get]
func (h *FileHandler) uploadProgress(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		httputils.ResponseError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	httputils.ResponseJSON(w, http.StatusOK, h.uploads.Progress(user.ID))
}

// @Summary Delete a file
// @Description Remove a file and its stored content
// @ID delete-file
// @Security ApiKeyAuth
// @Success 204
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Param id path string true "File ID"
// @Router /files/{id} [delete]
func (h *FileHandler) deleteFile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		httputils.ResponseError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	vars := mux.Vars(r)
	if err := h.fileService.DeleteFile(r.Context(), user.ID, vars["id"]); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httputils.ResponseError(w, http.StatusNotFound, "No such file")
			return
		}
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to delete file")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type ShareRequest struct {
	ExpiresInDays int `json:"expires_in_days"`
}

// @Summary Share a file
// @Description Issue an expiring share link. Re-sharing replaces the previous link.
// @ID share-file
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Success 201 {object} service.ShareLink
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Param id path string true "File ID"
// @Param shareData body ShareRequest false "Expiration in days, default 7"
// @Router /files/{id}/share [post]
func (h *FileHandler) shareFile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		httputils.ResponseError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var request ShareRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	r.Body.Close()

	vars := mux.Vars(r)
	link, err := h.fileService.ShareFile(r.Context(), user.ID, vars["id"], request.ExpiresInDays)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httputils.ResponseError(w, http.StatusNotFound, "No such file")
			return
		}
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to share file")
		return
	}

	httputils.ResponseJSON(w, http.StatusCreated, link)
}

// @Summary Resolve a share link
// @Description Look up the file behind a share token. Expired links still resolve, with expired=true.
// @ID resolve-share
// @Produce json
// @Success 200 {object} service.SharedFile
// @Failure 404 {object} response.ErrorResponse
// @Param token path string true "Share token"
// @Router /share/{token} [get]
func (h *FileHandler) resolveShare(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	shared, err := h.fileService.ResolveShare(r.Context(), vars["token"])
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httputils.ResponseError(w, http.StatusNotFound, "This file may have been deleted or the link is invalid")
			return
		}
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to resolve share link")
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, shared)
}

// @Summary Download a shared file
// @Description Redirect to the file content behind a share token
// @ID download-share
// @Success 302
// @Failure 404 {object} response.ErrorResponse
// @Failure 410 {object} response.ErrorResponse
// @Param token path string true "Share token"
// @Router /share/{token}/download [get]
func (h *FileHandler) downloadShare(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	shared, err := h.fileService.ResolveShare(r.Context(), vars["token"])
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httputils.ResponseError(w, http.StatusNotFound, "This file may have been deleted or the link is invalid")
			return
		}
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to resolve share link")
		return
	}

	if shared.Expired {
		httputils.ResponseError(w, http.StatusGone, "This share link has expired and is no longer valid")
		return
	}

	url, err := h.fileService.DownloadURL(r.Context(), &shared.File)
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to generate download link")
		return
	}

	http.Redirect(w, r, url, http.StatusFound)
}
