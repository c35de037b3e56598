package service

import (
	"strings"

	"github.com/tapfolio/tapfolio/internal/domain/common/errorz"
)

// Trigger is the event that may start a regeneration run. Style-only edits
// are staged in memory and never trigger on their own; generation is
// comparatively expensive (logo fetch, composition, upload) and must not
// run on every keystroke.
type Trigger int

const (
	TriggerSave Trigger = iota
	TriggerPublish
	TriggerRegenerate
)

// CurrentArtifactVersion tags artifacts produced by the current pipeline.
// Bump it when the artifact format changes and every stored artifact must
// be rebuilt on the next qualifying trigger.
const CurrentArtifactVersion = 2

// ArtifactState is the slice of a card the regeneration policy looks at.
type ArtifactState struct {
	ArtifactURL   string
	Version       int
	Payload       string
	Published     bool
	CanonicalHost string
}

// ShouldRegenerate decides whether a stored artifact is still valid or must
// be rebuilt for the given trigger.
func ShouldRegenerate(state ArtifactState, trigger Trigger) (bool, error) {
	switch trigger {
	case TriggerRegenerate:
		if state.Payload == "" {
			return false, errorz.ErrNoPayload
		}
		return true, nil
	case TriggerPublish:
		if state.Payload == "" {
			return false, errorz.ErrNoPayload
		}
		return state.ArtifactURL == "" || stale(state), nil
	case TriggerSave:
		if !state.Published || state.Payload == "" {
			return false, nil
		}
		return state.ArtifactURL == "" || stale(state), nil
	}
	return false, nil
}

// stale reports whether the stored artifact predates the current format.
// Rows written before the version column existed carry version zero; for
// those the canonical hosting domain in the URL decides, so pre-migration
// artifacts regenerate exactly once.
func stale(state ArtifactState) bool {
	if state.ArtifactURL == "" {
		return false
	}
	if state.Version != 0 {
		return state.Version != CurrentArtifactVersion
	}
	if state.CanonicalHost == "" {
		return false
	}
	return !strings.Contains(state.ArtifactURL, state.CanonicalHost)
}
