package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/tapfolio/tapfolio/internal/domain/common/errorz"
	"github.com/tapfolio/tapfolio/internal/domain/dto"
	"github.com/tapfolio/tapfolio/internal/domain/entity"
	"github.com/tapfolio/tapfolio/pkg/logger/types"
	"gorm.io/gorm"
)

type CardStorage interface {
	Create(ctx context.Context, card *entity.Card) (*entity.Card, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.Card, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Card, error)
	GetByOwnerID(ctx context.Context, ownerID string) ([]entity.Card, error)
	Update(ctx context.Context, card *entity.Card) (*entity.Card, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type shareCodeStorage interface {
	Get(ctx context.Context, code string) (string, error)
	Set(ctx context.Context, code, cardID string, expiration time.Duration) error
}

type viewStorage interface {
	Increment(ctx context.Context, cardID string) (int64, error)
	Get(ctx context.Context, cardID string) (int64, error)
}

type CardService struct {
	storage    CardStorage
	qr         *QRService
	codes      shareCodeStorage
	views      viewStorage
	publicHost string
	logger     *types.Logger
}

func NewCardService(storage CardStorage, qrService *QRService, codes shareCodeStorage, views viewStorage, publicHost string, logger *types.Logger) *CardService {
	return &CardService{
		storage:    storage,
		qr:         qrService,
		codes:      codes,
		views:      views,
		publicHost: publicHost,
		logger:     logger,
	}
}

func (s *CardService) Create(ctx context.Context, data dto.CardCreate) (*entity.Card, error) {
	slug := strings.ToLower(strings.TrimSpace(data.Slug))
	if slug == "" {
		return nil, errorz.ErrSlugRequired
	}
	if _, err := s.storage.GetBySlug(ctx, slug); err == nil {
		return nil, errorz.ErrSlugTaken
	}

	card := &entity.Card{
		OwnerID: data.OwnerID,
		Slug:    slug,
		Name:    data.Name,
		Title:   data.Title,
		Company: data.Company,
		Phone:   data.Phone,
		Email:   data.Email,
		Links:   pq.StringArray(data.Links),
	}
	return s.storage.Create(ctx, card)
}

func (s *CardService) Get(ctx context.Context, id uuid.UUID) (*entity.Card, error) {
	card, err := s.storage.Get(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errorz.ErrCardNotFound
	}
	return card, err
}

func (s *CardService) GetByOwnerID(ctx context.Context, ownerID string) ([]entity.Card, error) {
	return s.storage.GetByOwnerID(ctx, ownerID)
}

// Save applies edits and persists them. When the card is already published
// the regeneration policy may decide the stored artifact is stale (missing
// or legacy format); a failed regeneration is logged and the previous
// artifact URL stays intact, because a stale code image must never block a
// save.
func (s *CardService) Save(ctx context.Context, id uuid.UUID, data dto.CardUpdate) (*entity.Card, error) {
	card, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if data.Name != nil {
		card.Name = *data.Name
	}
	if data.Title != nil {
		card.Title = *data.Title
	}
	if data.Company != nil {
		card.Company = *data.Company
	}
	if data.Phone != nil {
		card.Phone = *data.Phone
	}
	if data.Email != nil {
		card.Email = *data.Email
	}
	if data.Links != nil {
		card.Links = pq.StringArray(data.Links)
	}
	if data.Style != nil {
		card.Style = data.Style
	}

	card, err = s.storage.Update(ctx, card)
	if err != nil {
		return nil, err
	}

	if _, err = s.maybeRegenerate(ctx, card, TriggerSave); err != nil {
		s.logger.Errorf("card %s: regeneration on save failed: %v", card.ID, err)
	}
	return card, nil
}

// Publish flips the card public, assigns its share URL, and generates the
// first artifact. A pipeline failure leaves the card published with its
// previous artifact URL (if any) untouched and is returned to the caller.
func (s *CardService) Publish(ctx context.Context, id uuid.UUID) (*entity.Card, error) {
	card, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	card.Published = true
	card.ShareURL = fmt.Sprintf("https://%s/c/%s", s.publicHost, card.Slug)
	if card, err = s.storage.Update(ctx, card); err != nil {
		return nil, err
	}

	if _, err = s.maybeRegenerate(ctx, card, TriggerPublish); err != nil {
		return card, err
	}
	return card, nil
}

// Regenerate is the explicit user request: always rebuild, provided the
// card has a payload to encode.
func (s *CardService) Regenerate(ctx context.Context, id uuid.UUID) (*entity.Card, *Artifact, error) {
	card, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	artifact, err := s.maybeRegenerate(ctx, card, TriggerRegenerate)
	if err != nil {
		return card, nil, err
	}
	return card, artifact, nil
}

func (s *CardService) maybeRegenerate(ctx context.Context, card *entity.Card, trigger Trigger) (*Artifact, error) {
	state := ArtifactState{
		ArtifactURL:   card.ArtifactURL,
		Version:       card.ArtifactVersion,
		Payload:       card.ShareURL,
		Published:     card.Published,
		CanonicalHost: s.publicHost,
	}
	ok, err := ShouldRegenerate(state, trigger)
	if err != nil || !ok {
		return nil, err
	}

	artifact, err := s.qr.Generate(ctx, card)
	if err != nil {
		return nil, err
	}

	card.ArtifactURL = artifact.URL
	card.ArtifactVersion = artifact.Version
	if _, err = s.storage.Update(ctx, card); err != nil {
		return nil, err
	}
	return artifact, nil
}

// Preview renders the card's code with its current style without touching
// storage. Unpublished cards preview against their future share URL.
func (s *CardService) Preview(ctx context.Context, id uuid.UUID) ([]byte, error) {
	card, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	payload := card.ShareURL
	if payload == "" {
		payload = fmt.Sprintf("https://%s/c/%s", s.publicHost, card.Slug)
	}
	return s.qr.Render(ctx, payload, s.qr.Style(card))
}

// ShareCode mints a short code that resolves to the card for the given
// duration.
func (s *CardService) ShareCode(ctx context.Context, id uuid.UUID, expiration time.Duration) (string, error) {
	card, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	code := strings.Split(uuid.New().String(), "-")[0]
	if err = s.codes.Set(ctx, code, card.ID.String(), expiration); err != nil {
		return "", err
	}
	return code, nil
}

// View resolves a public slug or share code, counts the view, and returns
// the card with its running view count.
func (s *CardService) View(ctx context.Context, slugOrCode string) (*entity.Card, int64, error) {
	card, err := s.storage.GetBySlug(ctx, slugOrCode)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var cardID string
		if cardID, err = s.codes.Get(ctx, slugOrCode); err != nil {
			return nil, 0, errorz.ErrCardNotFound
		}
		var id uuid.UUID
		if id, err = uuid.Parse(cardID); err != nil {
			return nil, 0, errorz.ErrCardNotFound
		}
		if card, err = s.Get(ctx, id); err != nil {
			return nil, 0, err
		}
	} else if err != nil {
		return nil, 0, err
	}

	if !card.Published {
		return nil, 0, errorz.ErrCardNotFound
	}

	count, err := s.views.Increment(ctx, card.ID.String())
	if err != nil {
		s.logger.Warnf("card %s: view count not recorded: %v", card.ID, err)
	}
	return card, count, nil
}
