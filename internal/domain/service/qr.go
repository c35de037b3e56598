package service

import (
	"context"
	"encoding/json"
	"fmt"
	"image/color"
	"time"

	"github.com/tapfolio/tapfolio/internal/adapters/storage"
	"github.com/tapfolio/tapfolio/internal/domain/common/errorz"
	"github.com/tapfolio/tapfolio/internal/domain/entity"
	"github.com/tapfolio/tapfolio/pkg/logger/types"
	qr "github.com/tapfolio/tapfolio/pkg/qrcode"
	"golang.org/x/sync/singleflight"
)

// QRService runs the code generation pipeline: resolve style, render,
// composite the background logo when requested, and publish the result to
// object storage.
type QRService struct {
	renderer   *qr.Renderer
	compositor *qr.Compositor
	storage    storage.ObjectStorage
	logger     *types.Logger
	group      singleflight.Group
}

func NewQRService(renderer *qr.Renderer, compositor *qr.Compositor, store storage.ObjectStorage, logger *types.Logger) *QRService {
	return &QRService{
		renderer:   renderer,
		compositor: compositor,
		storage:    store,
		logger:     logger,
	}
}

// Artifact is the published output of one pipeline run.
type Artifact struct {
	Key     string
	URL     string
	Data    []byte
	Version int
}

// Generate runs the full pipeline for one card and returns the published
// artifact. Concurrent calls for the same card collapse into a single run,
// so two triggers can never race two different URLs onto one record.
func (s *QRService) Generate(ctx context.Context, card *entity.Card) (*Artifact, error) {
	v, err, _ := s.group.Do(card.ID.String(), func() (interface{}, error) {
		return s.generate(ctx, card)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Artifact), nil
}

func (s *QRService) generate(ctx context.Context, card *entity.Card) (*Artifact, error) {
	if card.ShareURL == "" {
		return nil, errorz.ErrNoPayload
	}

	data, err := s.Render(ctx, card.ShareURL, s.Style(card))
	if err != nil {
		return nil, err
	}

	// Every run mints a fresh key; superseded artifacts stay behind and
	// the record only ever points at the newest one.
	key := fmt.Sprintf("%s/%s-qr-%d.png", card.OwnerID, card.Slug, time.Now().Unix())
	if err = s.storage.Upload(ctx, key, data, true); err != nil {
		return nil, fmt.Errorf("%w: %v", errorz.ErrPublish, err)
	}

	return &Artifact{
		Key:     key,
		URL:     s.storage.PublicURL(key),
		Data:    data,
		Version: CurrentArtifactVersion,
	}, nil
}

// Render produces the final raster without publishing it. The live preview
// uses it directly; Generate uses it before uploading. Both therefore share
// one renderer and one compositor, and a missing raster is fatal on either
// path.
func (s *QRService) Render(ctx context.Context, payload string, style qr.Style) ([]byte, error) {
	style = qr.Resolve(&style)

	data, err := s.renderer.Render(ctx, payload, style)
	if err != nil {
		return nil, err
	}

	if style.Logo.Position == qr.LogoBackground && style.Logo.URL != "" {
		backdrop := qr.Color(style.LightColor, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		data, err = s.compositor.CompositeBackground(ctx, data, style.Logo.URL, style.Size, style.Logo.Opacity, backdrop)
		if err != nil {
			return nil, err
		}
	}

	return data, nil
}

// Style decodes the card's persisted style JSON. Unreadable JSON is logged
// and replaced by defaults; malformed style data must never block editing
// or publishing.
func (s *QRService) Style(card *entity.Card) qr.Style {
	var style qr.Style
	if len(card.Style) > 0 {
		if err := json.Unmarshal(card.Style, &style); err != nil && s.logger != nil {
			s.logger.Warnf("card %s: unreadable style json, using defaults: %v", card.ID, err)
		}
	}
	return qr.Resolve(&style)
}
