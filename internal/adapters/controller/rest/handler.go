package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tapfolio/tapfolio/internal/domain/common/errorz"
	"github.com/tapfolio/tapfolio/internal/domain/dto"
	"github.com/tapfolio/tapfolio/internal/domain/entity"
	"github.com/tapfolio/tapfolio/internal/domain/service"
	"github.com/tapfolio/tapfolio/pkg/logger/types"
	qr "github.com/tapfolio/tapfolio/pkg/qrcode"
)

// pipelineTimeout bounds a full generation run (logo fetch, composition,
// upload) so a hung remote image cannot pin a request forever.
const pipelineTimeout = 10 * time.Second

type cardService interface {
	Create(ctx context.Context, data dto.CardCreate) (*entity.Card, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.Card, error)
	GetByOwnerID(ctx context.Context, ownerID string) ([]entity.Card, error)
	Save(ctx context.Context, id uuid.UUID, data dto.CardUpdate) (*entity.Card, error)
	Publish(ctx context.Context, id uuid.UUID) (*entity.Card, error)
	Regenerate(ctx context.Context, id uuid.UUID) (*entity.Card, *service.Artifact, error)
	Preview(ctx context.Context, id uuid.UUID) ([]byte, error)
	ShareCode(ctx context.Context, id uuid.UUID, expiration time.Duration) (string, error)
	View(ctx context.Context, slugOrCode string) (*entity.Card, int64, error)
}

type Handler struct {
	cards  cardService
	logger *types.Logger
}

func NewHandler(cards cardService, logger *types.Logger) *Handler {
	return &Handler{
		cards:  cards,
		logger: logger,
	}
}

func (h *Handler) createCard(w http.ResponseWriter, r *http.Request) {
	var data dto.CardCreate
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	card, err := h.cards.Create(r.Context(), data)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, card)
}

func (h *Handler) listCards(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("owner")
	if ownerID == "" {
		h.writeError(w, http.StatusBadRequest, errors.New("owner query parameter is required"))
		return
	}
	cards, err := h.cards.GetByOwnerID(r.Context(), ownerID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, cards)
}

func (h *Handler) getCard(w http.ResponseWriter, r *http.Request) {
	id, err := h.cardID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	card, err := h.cards.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, card)
}

func (h *Handler) saveCard(w http.ResponseWriter, r *http.Request) {
	id, err := h.cardID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	var data dto.CardUpdate
	if err = json.NewDecoder(r.Body).Decode(&data); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), pipelineTimeout)
	defer cancel()
	card, err := h.cards.Save(ctx, id, data)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, card)
}

func (h *Handler) publishCard(w http.ResponseWriter, r *http.Request) {
	id, err := h.cardID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), pipelineTimeout)
	defer cancel()
	card, err := h.cards.Publish(ctx, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, card)
}

func (h *Handler) regenerateQR(w http.ResponseWriter, r *http.Request) {
	id, err := h.cardID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), pipelineTimeout)
	defer cancel()
	card, artifact, err := h.cards.Regenerate(ctx, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{
		"cardId": card.ID.String(),
		"url":    artifact.URL,
	})
}

func (h *Handler) previewQR(w http.ResponseWriter, r *http.Request) {
	id, err := h.cardID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), pipelineTimeout)
	defer cancel()
	data, err := h.cards.Preview(ctx, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// downloadQR runs the full pipeline and offers the fresh artifact as a file
// named after the card.
func (h *Handler) downloadQR(w http.ResponseWriter, r *http.Request) {
	id, err := h.cardID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), pipelineTimeout)
	defer cancel()
	card, artifact, err := h.cards.Regenerate(ctx, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", card.Slug+".png"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact.Data)
}

func (h *Handler) shareCode(w http.ResponseWriter, r *http.Request) {
	id, err := h.cardID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	expiration := 30 * 24 * time.Hour
	if raw := r.URL.Query().Get("ttl"); raw != "" {
		if expiration, err = time.ParseDuration(raw); err != nil {
			h.writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	code, err := h.cards.ShareCode(r.Context(), id, expiration)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"code": code})
}

func (h *Handler) viewCard(w http.ResponseWriter, r *http.Request) {
	card, viewCount, err := h.cards.View(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"card":  card,
		"views": viewCount,
	})
}

func (h *Handler) cardID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Errorf("failed to write response: %v", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeServiceError maps pipeline and record errors onto distinct statuses
// so the editing UI can show a retry affordance instead of a generic
// failure. Nothing is swallowed: every branch carries the error message.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errorz.ErrCardNotFound), errors.Is(err, errorz.ErrCodeNotFound):
		h.writeError(w, http.StatusNotFound, err)
	case errors.Is(err, errorz.ErrSlugRequired):
		h.writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, errorz.ErrNoPayload), errors.Is(err, errorz.ErrSlugTaken):
		h.writeError(w, http.StatusConflict, err)
	case errors.Is(err, qr.ErrLogoLoad):
		h.writeError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, errorz.ErrPublish):
		h.writeError(w, http.StatusBadGateway, err)
	default:
		h.logger.Errorf("request failed: %v", err)
		h.writeError(w, http.StatusInternalServerError, err)
	}
}
