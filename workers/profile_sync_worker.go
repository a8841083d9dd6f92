// workers/profile_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"rugfork-backend/models"
	"rugfork-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type remoteProfile struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type profileSyncResponse struct {
	Profiles []remoteProfile `json:"profiles"`
}

// ProfileSyncWorker keeps usernames current by polling the platform profile
// service. Progression data (XP, level, achievements) is owned here and never
// overwritten by the sync.
type ProfileSyncWorker struct {
	db           *gorm.DB
	baseURL      string
	serviceToken string
	interval     time.Duration
	httpClient   *http.Client
}

func NewProfileSyncWorker(db *gorm.DB, profileBaseURL, serviceToken string) *ProfileSyncWorker {
	return &ProfileSyncWorker{
		db:           db,
		baseURL:      profileBaseURL,
		serviceToken: serviceToken,
		interval:     5 * time.Minute,
		httpClient:   utils.HTTPClient,
	}
}

func (w *ProfileSyncWorker) Start(ctx context.Context) {
	// One sync at startup, then on the ticker.
	if err := w.syncOnce(ctx); err != nil {
		log.Printf("[ProfileSync] initial sync error: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Profile sync worker stopping...")
			return
		case <-ticker.C:
			if err := w.syncOnce(ctx); err != nil {
				log.Printf("[ProfileSync] sync error: %v", err)
			}
		}
	}
}

func (w *ProfileSyncWorker) syncOnce(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/api/v1/profiles", w.baseURL), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call profile service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("profile service returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload profileSyncResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("failed to decode profile response: %w", err)
	}

	updated := 0
	for _, p := range payload.Profiles {
		if p.UserID == "" {
			continue
		}
		res := w.db.Model(&models.UserProfile{}).
			Where("user_id = ? AND username <> ?", p.UserID, p.Username).
			Update("username", p.Username)
		if res.Error != nil {
			log.Printf("[ProfileSync] failed to update %s: %v", p.UserID, res.Error)
			continue
		}
		if res.RowsAffected > 0 {
			updated++
			continue
		}
		// Pre-create profiles for users we have not seen bet yet, so the
		// leaderboard can show them once they earn XP.
		err := w.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.UserProfile{
			ID:       uuid.NewString(),
			UserID:   p.UserID,
			Username: p.Username,
			Level:    1,
		}).Error
		if err != nil {
			log.Printf("[ProfileSync] failed to create profile for %s: %v", p.UserID, err)
		}
	}

	if updated > 0 {
		log.Printf("✅ Profile sync updated %d usernames", updated)
	}
	return nil
}
