package errorz

import "errors"

var (
	ErrCardNotFound = errors.New("card not found")
	ErrCodeNotFound = errors.New("share code not found")
	ErrSlugRequired = errors.New("slug is required")
	ErrSlugTaken    = errors.New("slug already taken")

	// ErrNoPayload means the card has no public share URL yet, so there
	// is nothing for a code to point at.
	ErrNoPayload = errors.New("card has no share url yet")

	// ErrPublish means the artifact upload failed. The previously stored
	// artifact URL must be kept intact by the caller.
	ErrPublish = errors.New("artifact upload failed")
)
