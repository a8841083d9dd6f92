// workers/crash_feed_worker.go
package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"rugfork-backend/models"
	"rugfork-backend/services"
	"rugfork-backend/utils"
)

// CrashEvent is one revealed crash point from the trusted feed. The feed is
// the only source of crash points; this service never generates them.
type CrashEvent struct {
	PoolID     string `json:"pool_id"`
	CrashPoint uint64 `json:"crash_point"`
	At         int64  `json:"at"`
}

type crashFeedResponse struct {
	Events []CrashEvent `json:"events"`
}

// CrashFeedWorker polls the crash feed, crashes the named pools and settles
// their open bets against the revealed point.
type CrashFeedWorker struct {
	pools        *services.PoolService
	wagers       *services.WagerService
	baseURL      string
	serviceToken string
	interval     time.Duration
	httpClient   *http.Client

	lastSeen int64
}

func NewCrashFeedWorker(pools *services.PoolService, wagers *services.WagerService, feedBaseURL, serviceToken string) *CrashFeedWorker {
	return &CrashFeedWorker{
		pools:        pools,
		wagers:       wagers,
		baseURL:      feedBaseURL,
		serviceToken: serviceToken,
		interval:     10 * time.Second,
		httpClient:   utils.HTTPClient,
	}
}

func (w *CrashFeedWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Crash feed worker stopping...")
			return
		case <-ticker.C:
			if err := w.poll(ctx); err != nil {
				log.Printf("[CrashFeed] poll error: %v", err)
			}
		}
	}
}

func (w *CrashFeedWorker) poll(ctx context.Context) error {
	events, err := w.fetchEvents(ctx)
	if err != nil {
		return err
	}

	for _, ev := range events {
		if ev.At > w.lastSeen {
			w.lastSeen = ev.At
		}

		if _, err := w.pools.CrashPool(ev.PoolID, ev.CrashPoint); err != nil {
			// A feed replay of an already-crashed pool is expected; still
			// sweep its bets in case a prior settlement pass was cut short.
			if !errors.Is(err, models.ErrPoolAlreadyCrashed) && !errors.Is(err, models.ErrPoolInactive) {
				log.Printf("[CrashFeed] failed to crash pool %s: %v", ev.PoolID, err)
				continue
			}
		}

		settled, err := w.wagers.SettlePoolBets(ev.PoolID)
		if err != nil {
			log.Printf("[CrashFeed] settlement errors for pool %s: %v", ev.PoolID, err)
		}
		if settled > 0 {
			log.Printf("✅ Settled %d bets for crashed pool %s (crash point %d)", settled, ev.PoolID, ev.CrashPoint)
		}
	}
	return nil
}

func (w *CrashFeedWorker) fetchEvents(ctx context.Context) ([]CrashEvent, error) {
	u, err := url.Parse(fmt.Sprintf("%s/api/v1/crashes", w.baseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed URL: %w", err)
	}
	q := u.Query()
	q.Set("since", strconv.FormatInt(w.lastSeen, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call crash feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("crash feed returned status %d: %s", resp.StatusCode, string(body))
	}

	var feed crashFeedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("failed to decode crash feed response: %w", err)
	}
	return feed.Events, nil
}
