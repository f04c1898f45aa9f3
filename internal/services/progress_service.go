package services

import (
	"errors"
	"fmt"

	"github.com/binabdulkhalim-prog/winter-starfall/internal/db"
	"github.com/binabdulkhalim-prog/winter-starfall/internal/models"
	"go.uber.org/zap"
)

// ProgressService reads and updates the Completed record of players.
type ProgressService struct {
	store  UserDataStore
	logger *zap.Logger
}

func NewProgressService(store UserDataStore, logger *zap.Logger) *ProgressService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressService{store: store, logger: logger}
}

// LoadCompleted fetches the player's Completed snapshot and the data version
// it was read at. Only store failures are returned; a bad record yields the
// default snapshot.
func (s *ProgressService) LoadCompleted(playerID string) (*models.PlayerCompleted, uint32, error) {
	data, version, err := s.store.GetUserData(playerID, models.UserDataKeyCompleted)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load user data for %s: %w", playerID, err)
	}
	return models.PlayerCompletedFrom(data), version, nil
}

func NeedsInitialGrant(c *models.PlayerCompleted) bool {
	return !c.InitialGrantIssued()
}

// PendingCheckpoints returns the entries of all that c has not completed, in
// the order of all.
func PendingCheckpoints(c *models.PlayerCompleted, all []string) []string {
	pending := make([]string, 0, len(all))
	for _, id := range all {
		if !c.HasCheckpoint(id) {
			pending = append(pending, id)
		}
	}
	return pending
}

func (s *ProgressService) MarkInitialGrant(playerID string) (*models.PlayerCompleted, error) {
	return s.update(playerID, func(c *models.PlayerCompleted) *models.PlayerCompleted {
		return c.WithInitialGrant(true)
	})
}

func (s *ProgressService) CompleteCheckpoint(playerID, checkpoint string) (*models.PlayerCompleted, error) {
	if checkpoint == "" {
		return nil, errors.New("checkpoint id is empty")
	}
	return s.update(playerID, func(c *models.PlayerCompleted) *models.PlayerCompleted {
		return c.WithCheckpoint(checkpoint)
	})
}

// update performs read-modify-write guarded by the data version, retrying
// once when another writer got in between.
func (s *ProgressService) update(playerID string, change func(*models.PlayerCompleted) *models.PlayerCompleted) (*models.PlayerCompleted, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		current, version, err := s.LoadCompleted(playerID)
		if err != nil {
			return nil, err
		}

		next := change(current)
		if next.Equal(current) {
			return current, nil
		}

		payload, err := next.Payload()
		if err != nil {
			return nil, fmt.Errorf("failed to encode completed record: %w", err)
		}

		_, err = s.store.UpdateUserData(playerID, map[string]string{models.UserDataKeyCompleted: payload}, models.PermissionPrivate, &version)
		if err == nil {
			s.logger.Info("[PROGRESS] completed record updated",
				zap.String("player", playerID),
				zap.Bool("initial_grant", next.InitialGrantIssued()),
				zap.Int("checkpoints", len(next.CompletedCheckpoints())))
			return next, nil
		}
		if !errors.Is(err, db.ErrDataVersionConflict) {
			return nil, fmt.Errorf("failed to save completed record for %s: %w", playerID, err)
		}
		lastErr = err
		s.logger.Warn("[PROGRESS] data version conflict, retrying", zap.String("player", playerID), zap.Error(err))
	}
	return nil, fmt.Errorf("failed to save completed record for %s: %w", playerID, lastErr)
}
