package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"asset-qr/internal/codec"
	"asset-qr/internal/domain"
	"asset-qr/internal/render"
	"asset-qr/internal/service"
)

// AssetService defines the record store methods needed by the handler
// Using an interface instead of concrete type allows for easy mocking in tests
type AssetService interface {
	Create(ctx context.Context, record *domain.AssetRecord) (string, error)
	Get(ctx context.Context, id string) (*domain.AssetRecord, error)
	RecordScan(ctx context.Context, assetID, ipAddress, userAgent, referer string) error
	ScanCount(ctx context.Context, assetID string) (int64, error)
}

// LinkResolver turns the query of a scanned code back into a record.
type LinkResolver interface {
	ResolveLink(ctx context.Context, link codec.Link) (*service.Resolution, error)
}

// CodeGenerator builds code URLs for submitted records.
type CodeGenerator interface {
	Generate(ctx context.Context, record *domain.AssetRecord, useStore bool) (*service.Session, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	assets    AssetService
	resolver  LinkResolver
	generator CodeGenerator
	logger    *slog.Logger
	qrSize    int
}

// NewHandler creates a new HTTP handler
func NewHandler(assets AssetService, resolver LinkResolver, generator CodeGenerator, logger *slog.Logger, qrSize int) *Handler {
	return &Handler{
		assets:    assets,
		resolver:  resolver,
		generator: generator,
		logger:    logger,
		qrSize:    qrSize,
	}
}

// CreateAssetResponse is the body of a successful POST /assets.
type CreateAssetResponse struct {
	ID string `json:"id"`
}

// AssetStatsResponse reports how often a reference code was viewed.
type AssetStatsResponse struct {
	ID    string `json:"id"`
	Scans int64  `json:"scans"`
}

// GenerateCodeRequest is the body of POST /api/v1/codes.
type GenerateCodeRequest struct {
	Record   domain.AssetForm `json:"record"`
	UseStore bool             `json:"use_store"`
}

// GenerateCodeResponse describes a generated code.
type GenerateCodeResponse struct {
	URL            string              `json:"url"`
	Mode           string              `json:"mode"`
	ID             string              `json:"id,omitempty"`
	QRCode         string              `json:"qr_code"`
	Record         *domain.AssetRecord `json:"record"`
	FallbackReason string              `json:"fallback_reason,omitempty"`
}

// CreateAsset handles POST /assets
func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var record domain.AssetRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	id, err := h.assets.Create(r.Context(), &record)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			respondValidationError(w, "Missing required fields", vErr)
			return
		}
		h.logger.Error("Failed to save asset", "error", err, "request_id", requestIDFrom(r))
		respondError(w, http.StatusInternalServerError, "Failed to save asset")
		return
	}

	respondJSON(w, http.StatusCreated, CreateAssetResponse{ID: id})
}

// GetAsset handles GET /assets/{id}
func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		respondError(w, http.StatusBadRequest, "Asset ID is required")
		return
	}

	record, err := h.assets.Get(r.Context(), id)
	if err != nil {
		var nErr *domain.NotFoundError
		if errors.As(err, &nErr) {
			respondError(w, http.StatusNotFound, "Asset not found")
			return
		}
		h.logger.Error("Failed to fetch asset", "id", id, "error", err, "request_id", requestIDFrom(r))
		respondError(w, http.StatusInternalServerError, "Failed to fetch asset")
		return
	}

	respondJSON(w, http.StatusOK, record)
}

// AssetStats handles GET /assets/{id}/stats
func (h *Handler) AssetStats(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		respondError(w, http.StatusBadRequest, "Asset ID is required")
		return
	}

	if _, err := h.assets.Get(r.Context(), id); err != nil {
		var nErr *domain.NotFoundError
		if errors.As(err, &nErr) {
			respondError(w, http.StatusNotFound, "Asset not found")
			return
		}
		h.logger.Error("Failed to fetch asset", "id", id, "error", err, "request_id", requestIDFrom(r))
		respondError(w, http.StatusInternalServerError, "Failed to fetch asset")
		return
	}

	scans, err := h.assets.ScanCount(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to count scans", "id", id, "error", err, "request_id", requestIDFrom(r))
		respondError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}

	respondJSON(w, http.StatusOK, AssetStatsResponse{ID: id, Scans: scans})
}

// View handles GET /view?id=... and GET /view?data=..., the page a scanned code opens.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	link, err := codec.LinkFromRawQuery(r.URL.RawQuery, r.URL.String())
	if err != nil {
		view := render.AssetView{Details: err.Error()}
		var mErr *domain.MissingDataError
		if errors.As(err, &mErr) {
			view.Error = "No asset data found"
		}
		h.renderView(w, http.StatusBadRequest, view)
		return
	}

	res, err := h.resolver.ResolveLink(r.Context(), link)
	if err != nil {
		h.logger.Warn("Failed to resolve code", "mode", link.Mode(), "id", link.ID, "error", err)
		h.renderView(w, viewStatus(err), render.AssetView{Details: err.Error()})
		return
	}

	if res.Mode == codec.ModeReference {
		// Record the scan asynchronously (don't block the page)
		ipAddress, userAgent, referer := extractIP(r), r.UserAgent(), r.Referer()
		ctx := context.WithoutCancel(r.Context())
		go func() {
			if err := h.assets.RecordScan(ctx, res.ID, ipAddress, userAgent, referer); err != nil {
				h.logger.Error("Failed to record scan", "id", res.ID, "error", err)
			}
		}()
	}

	h.renderView(w, http.StatusOK, render.AssetView{Record: res.Record, Mode: string(res.Mode)})
}

// viewStatus maps a resolution failure to the status of the error page.
func viewStatus(err error) int {
	var (
		nErr *domain.NotFoundError
		sErr *domain.StoreError
	)
	switch {
	case errors.As(err, &nErr):
		return http.StatusNotFound
	case errors.As(err, &sErr):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func (h *Handler) renderView(w http.ResponseWriter, status int, view render.AssetView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := render.RenderAssetPage(w, view); err != nil {
		h.logger.Error("Failed to render asset page", "error", err)
	}
}

// GenerateCode handles POST /api/v1/codes
func (h *Handler) GenerateCode(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req GenerateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	record := domain.NewAssetRecord(req.Record)
	session, err := h.generator.Generate(r.Context(), record, req.UseStore)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			respondValidationError(w, "Invalid asset details", vErr)
			return
		}
		h.logger.Error("Failed to generate code", "error", err, "request_id", requestIDFrom(r))
		respondError(w, http.StatusBadGateway, "Failed to save asset")
		return
	}

	qr, err := render.QRCodeDataURI(session.URL, h.qrSize)
	switch {
	case errors.Is(err, render.ErrContentTooLong) && session.FallbackErr != nil:
		// the store failed and the record is too large to embed
		h.logger.Error("Failed to generate code", "error", session.FallbackErr, "request_id", requestIDFrom(r))
		respondError(w, http.StatusBadGateway, "Failed to save asset")
		return
	case errors.Is(err, render.ErrContentTooLong):
		respondError(w, http.StatusUnprocessableEntity,
			"Asset details are too long for an inline QR code; retry with use_store: true")
		return
	case err != nil:
		h.logger.Error("Failed to render QR code", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to render QR code")
		return
	}

	response := GenerateCodeResponse{
		URL:    session.URL,
		Mode:   string(session.Mode),
		ID:     session.ID,
		QRCode: qr,
		Record: session.Record,
	}
	if session.FallbackErr != nil {
		response.FallbackReason = session.FallbackErr.Error()
	}

	respondSuccess(w, http.StatusCreated, response, "")
}

// HealthCheck handles GET /health/live
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}
