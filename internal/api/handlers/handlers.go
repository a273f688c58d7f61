package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmorrow/taplist/internal/api/middleware"
	infra "github.com/bmorrow/taplist/internal/infra/bigquery"
	"github.com/bmorrow/taplist/internal/jobs"
	"github.com/bmorrow/taplist/internal/photostore"
	"github.com/bmorrow/taplist/internal/pipeline"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxPhotoBytes caps menu photo uploads; phone camera JPEGs stay well under it.
const maxPhotoBytes = 20 << 20

// ScansHandler handles scan-related endpoints: photo upload, scan enqueue
// and result polling.
type ScansHandler struct {
	repo      infra.CatalogRepository
	publisher jobs.Publisher
	store     jobs.JobStore
	photos    *photostore.PhotoStore
	log       zerolog.Logger
}

// NewScansHandler creates a new scans handler.
func NewScansHandler(repo infra.CatalogRepository, publisher jobs.Publisher, store jobs.JobStore, photos *photostore.PhotoStore, log zerolog.Logger) *ScansHandler {
	return &ScansHandler{
		repo:      repo,
		publisher: publisher,
		store:     store,
		photos:    photos,
		log:       log,
	}
}

// CreateUploadURL handles POST /api/scans/upload-url
func (h *ScansHandler) CreateUploadURL(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filename string `json:"filename"`
		BarID    string `json:"bar_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Filename == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Filename is required")
		return
	}
	if req.BarID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "bar_id is required")
		return
	}

	scanID := uuid.NewString()

	// For local development with user credentials, return a direct upload URL.
	// In production with service accounts, this would use signed URLs.
	uploadURL := fmt.Sprintf("/api/scans/upload/%s?filename=%s&bar_id=%s",
		scanID, url.QueryEscape(req.Filename), url.QueryEscape(req.BarID))

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"upload_url": uploadURL,
		"scan_id":    scanID,
	})
}

// UploadPhoto handles POST /api/scans/upload/{scanId}
// Direct upload endpoint for local development with user credentials.
func (h *ScansHandler) UploadPhoto(w http.ResponseWriter, r *http.Request, scanID string) {
	ctx := r.Context()

	barID := r.URL.Query().Get("bar_id")
	if barID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "bar_id is required")
		return
	}

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		filename = "menu.jpg"
	}
	if idx := strings.Index(filename, "?"); idx > 0 {
		filename = filename[:idx]
	}
	filename = filepath.Base(filename)

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxPhotoBytes+1))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read upload body")
		middleware.WriteError(w, http.StatusBadRequest, "Failed to read photo")
		return
	}
	if len(data) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "Empty photo upload")
		return
	}
	if len(data) > maxPhotoBytes {
		middleware.WriteError(w, http.StatusRequestEntityTooLarge, "Photo too large")
		return
	}

	gcsURI, err := h.photos.UploadPhoto(ctx, scanID, filename, data)
	if err != nil {
		h.log.Error().Err(err).Str("scan_id", scanID).Msg("Failed to upload photo")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to upload photo")
		return
	}

	h.log.Info().
		Str("scan_id", scanID).
		Str("gcs_uri", gcsURI).
		Int("bytes", len(data)).
		Msg("Menu photo uploaded")

	scan := &infra.ScanRow{
		ScanID:           scanID,
		BarID:            barID,
		GCSURI:           gcsURI,
		UploadTS:         time.Now(),
		Status:           "PENDING",
		OriginalFilename: filename,
		FileMimeType:     contentType,
	}

	if err := h.repo.InsertScan(ctx, scan); err != nil {
		h.log.Error().Err(err).Msg("Failed to insert scan metadata")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save scan metadata")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"scan_id": scanID,
		"gcs_uri": gcsURI,
		"status":  "uploaded",
	})
}

// EnqueueScan handles POST /api/scans
func (h *ScansHandler) EnqueueScan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScanID           string `json:"scan_id"`
		GCSURI           string `json:"gcs_uri"`
		BarID            string `json:"bar_id"`
		SingleBrewery    bool   `json:"single_brewery"`
		HouseAttribution bool   `json:"house_attribution"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.ScanID == "" || req.GCSURI == "" {
		middleware.WriteError(w, http.StatusBadRequest, "scan_id and gcs_uri are required")
		return
	}

	ctx := r.Context()

	job := &jobs.MenuScanJob{
		ScanID:           req.ScanID,
		GCSURI:           req.GCSURI,
		BarID:            req.BarID,
		SingleBrewery:    req.SingleBrewery,
		HouseAttribution: req.HouseAttribution,
	}

	if err := h.publisher.PublishMenuScan(ctx, job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue scan job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue scan job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("scan_id", req.ScanID).Msg("Scan job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id":  job.JobID,
		"scan_id": req.ScanID,
		"status":  string(job.Status),
	})
}

// GetScan handles GET /api/scans/{scanId}
// It returns the newest job for the scan, including candidates once the
// worker has finished.
func (h *ScansHandler) GetScan(w http.ResponseWriter, r *http.Request, scanID string) {
	ctx := r.Context()

	jobList, err := h.store.ListJobs(ctx, jobs.JobFilter{ScanID: scanID})
	if err != nil {
		h.log.Error().Err(err).Str("scan_id", scanID).Msg("Failed to list scan jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to look up scan")
		return
	}

	if len(jobList) == 0 {
		scan, err := h.repo.GetScan(ctx, scanID)
		if err != nil {
			h.log.Error().Err(err).Str("scan_id", scanID).Msg("Failed to get scan")
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to look up scan")
			return
		}
		if scan == nil {
			middleware.WriteError(w, http.StatusNotFound, "Scan not found")
			return
		}
		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"scan_id": scan.ScanID,
			"status":  scan.Status,
		})
		return
	}

	newest := jobList[0]
	for _, j := range jobList[1:] {
		if j.CreatedAt.After(newest.CreatedAt) {
			newest = j
		}
	}

	middleware.WriteJSON(w, http.StatusOK, newest)
}

// StylesHandler serves the canonical style vocabulary.
type StylesHandler struct {
	vocab *pipeline.StyleVocabulary
	log   zerolog.Logger
}

// NewStylesHandler creates a new styles handler.
func NewStylesHandler(vocab *pipeline.StyleVocabulary, log zerolog.Logger) *StylesHandler {
	return &StylesHandler{
		vocab: vocab,
		log:   log,
	}
}

// ListStyles handles GET /api/styles
func (h *StylesHandler) ListStyles(w http.ResponseWriter, r *http.Request) {
	styles := h.vocab.Styles(r.Context())

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"styles": styles,
		"count":  len(styles),
	})
}

// BeersHandler persists user-confirmed candidates.
type BeersHandler struct {
	repo infra.CatalogRepository
	log  zerolog.Logger
}

// NewBeersHandler creates a new beers handler.
func NewBeersHandler(repo infra.CatalogRepository, log zerolog.Logger) *BeersHandler {
	return &BeersHandler{
		repo: repo,
		log:  log,
	}
}

// BulkInsert handles POST /api/beers/bulk
// Confirmed candidates always enter the catalog as pending_review rows; the
// moderation board flips them live.
func (h *BeersHandler) BulkInsert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BarID string                   `json:"bar_id"`
		Beers []pipeline.CandidateBeer `json:"beers"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.BarID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "bar_id is required")
		return
	}
	if len(req.Beers) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "beers is required")
		return
	}

	now := time.Now()
	rows := make([]*infra.PendingBeerRow, 0, len(req.Beers))
	for _, b := range req.Beers {
		if err := pipeline.ValidateName(b.Name); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid beer name %q", b.Name))
			return
		}

		row := &infra.PendingBeerRow{
			BeerID:        uuid.NewString(),
			Name:          b.Name,
			Type:          b.Type,
			BarID:         req.BarID,
			PendingReview: true,
			Status:        "pending",
			CreatedTS:     now,
		}
		if b.ABV != nil {
			row.ABV = bigqueryNullFloat(*b.ABV)
		}
		if b.Price != nil {
			row.Price = bigqueryNullFloat(*b.Price)
		}
		if b.Size != nil {
			row.Size = bigqueryNullInt(int64(*b.Size))
		}
		if b.Brewery != nil {
			row.Brewery = bigqueryNullString(*b.Brewery)
		}
		rows = append(rows, row)
	}

	ctx := r.Context()
	if err := h.repo.InsertPendingBeers(ctx, rows); err != nil {
		h.log.Error().Err(err).Int("count", len(rows)).Msg("Failed to insert beers")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save beers")
		return
	}

	h.log.Info().Int("count", len(rows)).Str("bar_id", req.BarID).Msg("Beers submitted for review")

	middleware.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"inserted": len(rows),
		"status":   "pending",
	})
}
