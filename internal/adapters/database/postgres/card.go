package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/tapfolio/tapfolio/internal/domain/entity"
	"gorm.io/gorm"
)

type cardStorage struct {
	db *gorm.DB
}

func NewCardStorage(db *gorm.DB) *cardStorage {
	return &cardStorage{
		db: db,
	}
}

// Create is a function that creates a new card in the database.
func (s *cardStorage) Create(ctx context.Context, card *entity.Card) (*entity.Card, error) {
	err := s.db.WithContext(ctx).Create(&card).Error
	return card, err
}

// Get is a function that gets a card from the database by id.
func (s *cardStorage) Get(ctx context.Context, id uuid.UUID) (*entity.Card, error) {
	var card entity.Card
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&card).Error
	return &card, err
}

// GetBySlug is a function that gets a card from the database by its public slug.
func (s *cardStorage) GetBySlug(ctx context.Context, slug string) (*entity.Card, error) {
	var card entity.Card
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&card).Error
	return &card, err
}

// GetByOwnerID is a function that gets all cards of one owner from the database.
func (s *cardStorage) GetByOwnerID(ctx context.Context, ownerID string) ([]entity.Card, error) {
	var cards []entity.Card
	err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Find(&cards).Error
	return cards, err
}

// Update is a function that updates a card in the database.
func (s *cardStorage) Update(ctx context.Context, card *entity.Card) (*entity.Card, error) {
	err := s.db.WithContext(ctx).Save(&card).Error
	return card, err
}

// Delete is a function that soft-deletes a card from the database.
func (s *cardStorage) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&entity.Card{}, "id = ?", id).Error
}

// Count is a function that gets the count of cards from the database.
func (s *cardStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.Card{}).Count(&count).Error
	return count, err
}
