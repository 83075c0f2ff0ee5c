package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"centavo/internal/model"

	"github.com/google/uuid"
)

// GenerateAlerts produces and persists at most 5 alerts for a user.
//
// The primary path prompts the generative collaborator and strictly
// validates its JSON; any failure there (network, timeout, non-JSON,
// empty array, schema mismatch) silently switches to the deterministic
// rule generator, so the caller always receives a normal alert set.
// Generation is serialized per user by an advisory lock.
func (s *Service) GenerateAlerts(ctx context.Context, userID string, now time.Time) ([]model.Alert, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	snap, err := s.Snapshot(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	alerts := s.synthesize(ctx, userID, snap)
	for i := range alerts {
		alerts[i].ID = uuid.NewString()
		alerts[i].UserID = userID
		alerts[i].GeneratedAt = now
	}

	if err := s.store.CreateAlerts(ctx, alerts); err != nil {
		return nil, fmt.Errorf("saving alerts: %w", err)
	}
	return alerts, nil
}

func (s *Service) synthesize(ctx context.Context, userID string, snap *MonthSnapshot) []model.Alert {
	if s.gen == nil {
		return FallbackAlerts(snap)
	}

	raw, err := s.gen.Complete(ctx, alertSystemPrompt, buildAlertPrompt(snap))
	if err != nil {
		log.Printf("centavo: generative call failed, using rule generator: %v", err)
		return FallbackAlerts(snap)
	}

	drafts, err := parseAlertDrafts(raw)
	if err != nil {
		log.Printf("centavo: unusable model response, using rule generator: %v", err)
		return FallbackAlerts(snap)
	}

	categories, err := s.store.CategoriesFor(ctx, userID)
	if err != nil {
		log.Printf("centavo: category fetch failed during alert resolution: %v", err)
		categories = nil
	}

	return capAlerts(resolveDrafts(drafts, categories))
}
