package dto

import "encoding/json"

// CardCreate is the payload for creating a card.
type CardCreate struct {
	OwnerID string   `json:"ownerId"`
	Slug    string   `json:"slug"`
	Name    string   `json:"name"`
	Title   string   `json:"title"`
	Company string   `json:"company"`
	Phone   string   `json:"phone"`
	Email   string   `json:"email"`
	Links   []string `json:"links"`
}

// CardUpdate is the payload for saving edits to a card. Style is passed
// through opaquely; the style resolver interprets it at render time.
type CardUpdate struct {
	Name    *string         `json:"name"`
	Title   *string         `json:"title"`
	Company *string         `json:"company"`
	Phone   *string         `json:"phone"`
	Email   *string         `json:"email"`
	Links   []string        `json:"links"`
	Style   json.RawMessage `json:"style"`
}
