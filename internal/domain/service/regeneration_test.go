package service

import (
	"errors"
	"testing"

	"github.com/tapfolio/tapfolio/internal/domain/common/errorz"
)

func TestShouldRegenerateExplicitRequest(t *testing.T) {
	ok, err := ShouldRegenerate(ArtifactState{Payload: "https://tapfolio.app/c/jane"}, TriggerRegenerate)
	if err != nil || !ok {
		t.Fatalf("explicit request with a payload must regenerate, got ok=%v err=%v", ok, err)
	}

	_, err = ShouldRegenerate(ArtifactState{}, TriggerRegenerate)
	if !errors.Is(err, errorz.ErrNoPayload) {
		t.Fatalf("explicit request without a payload must fail with ErrNoPayload, got %v", err)
	}
}

func TestShouldRegenerateOnPublish(t *testing.T) {
	base := ArtifactState{
		Payload:       "https://tapfolio.app/c/jane",
		Published:     true,
		CanonicalHost: "tapfolio.app",
	}

	state := base
	ok, err := ShouldRegenerate(state, TriggerPublish)
	if err != nil || !ok {
		t.Fatalf("publish without an artifact must regenerate, got ok=%v err=%v", ok, err)
	}

	state.ArtifactURL = "https://tapfolio.app/files/u1/jane-qr-1700000000.png"
	state.Version = CurrentArtifactVersion
	if ok, _ = ShouldRegenerate(state, TriggerPublish); ok {
		t.Fatal("publish with a current artifact must not regenerate")
	}

	state.Version = CurrentArtifactVersion - 1
	if ok, _ = ShouldRegenerate(state, TriggerPublish); !ok {
		t.Fatal("publish with an outdated artifact version must regenerate")
	}
}

func TestShouldRegenerateOnSave(t *testing.T) {
	current := ArtifactState{
		ArtifactURL:   "https://tapfolio.app/files/u1/jane-qr-1700000000.png",
		Version:       CurrentArtifactVersion,
		Payload:       "https://tapfolio.app/c/jane",
		Published:     true,
		CanonicalHost: "tapfolio.app",
	}
	if ok, err := ShouldRegenerate(current, TriggerSave); err != nil || ok {
		t.Fatalf("save with a current artifact must not regenerate, got ok=%v err=%v", ok, err)
	}

	// Rows from before the version column: the hosting domain decides.
	legacy := current
	legacy.Version = 0
	legacy.ArtifactURL = "https://old-host.example/u1/jane-qr-1600000000.png"
	if ok, _ := ShouldRegenerate(legacy, TriggerSave); !ok {
		t.Fatal("save with a legacy-host artifact must regenerate")
	}

	grandfathered := current
	grandfathered.Version = 0
	if ok, _ := ShouldRegenerate(grandfathered, TriggerSave); ok {
		t.Fatal("save with a canonical-host artifact and no version must not regenerate")
	}

	draft := ArtifactState{Payload: "", Published: false}
	if ok, err := ShouldRegenerate(draft, TriggerSave); err != nil || ok {
		t.Fatalf("save on a draft must never regenerate, got ok=%v err=%v", ok, err)
	}
}

func TestShouldRegenerateSaveWhenMissing(t *testing.T) {
	state := ArtifactState{
		Payload:       "https://tapfolio.app/c/jane",
		Published:     true,
		CanonicalHost: "tapfolio.app",
	}
	if ok, err := ShouldRegenerate(state, TriggerSave); err != nil || !ok {
		t.Fatalf("save on a published card without an artifact must regenerate, got ok=%v err=%v", ok, err)
	}
}
