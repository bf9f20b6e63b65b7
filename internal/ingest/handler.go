package ingest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/supplyboard/backend-go/internal/domain"
	"github.com/supplyboard/backend-go/internal/drive"
)

const maxUploadBytes = 32 << 20

type Handler struct {
	service      *Service
	driveService *drive.Service
}

func NewHandler(service *Service, driveService *drive.Service) *Handler {
	return &Handler{
		service:      service,
		driveService: driveService,
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/ingest/upload", h.Upload).Methods("POST")
	router.HandleFunc("/api/ingest/refresh", h.Refresh).Methods("POST")
	router.HandleFunc("/api/ingest/drive/files", h.ListDriveFiles).Methods("GET")
	router.HandleFunc("/api/ingest/drive/pull", h.PullFromDrive).Methods("POST")
	router.HandleFunc("/api/ingest/storage/pull", h.PullFromStorage).Methods("POST")
}

// Upload stages one or more dataset CSVs sent as multipart form files.
// Staged files are not loaded until a refresh or pull runs.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf("invalid multipart form: %v", err), http.StatusBadRequest)
		return
	}

	staged := 0
	for _, headers := range r.MultipartForm.File {
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			err = h.service.StageFile(fh.Filename, f)
			f.Close()
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			staged++
		}
	}
	if staged == 0 {
		http.Error(w, "no files in upload", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"status": "staged", "files": staged})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	ds, err := h.service.Refresh(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("refresh failed: %v", err), http.StatusInternalServerError)
		return
	}
	writeRefreshResult(w, ds)
}

func (h *Handler) ListDriveFiles(w http.ResponseWriter, r *http.Request) {
	if h.driveService == nil {
		http.Error(w, "drive source is not configured", http.StatusServiceUnavailable)
		return
	}

	files, err := h.driveService.ListCSVFiles(r.URL.Query().Get("folderId"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(files)
}

func (h *Handler) PullFromDrive(w http.ResponseWriter, r *http.Request) {
	ds, err := h.service.PullFromDrive(r.Context(), r.URL.Query().Get("folderId"))
	if err != nil {
		http.Error(w, fmt.Sprintf("drive pull failed: %v", err), http.StatusInternalServerError)
		return
	}
	writeRefreshResult(w, ds)
}

func (h *Handler) PullFromStorage(w http.ResponseWriter, r *http.Request) {
	ds, err := h.service.PullFromStorage(r.Context(), r.URL.Query().Get("prefix"))
	if err != nil {
		http.Error(w, fmt.Sprintf("storage pull failed: %v", err), http.StatusInternalServerError)
		return
	}
	writeRefreshResult(w, ds)
}

func writeRefreshResult(w http.ResponseWriter, ds *domain.Dataset) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "success",
		"orders":    len(ds.Orders),
		"inventory": len(ds.Inventory),
		"products":  len(ds.Products),
		"suppliers": len(ds.Suppliers),
	})
}
