package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"trainhub/core/config"
	"trainhub/core/logger"
	"trainhub/modules/calendar/entity"
	"trainhub/modules/calendar/repository"
	schedentity "trainhub/modules/scheduling/entity"
)

const (
	providerGoogle    = "google"
	googleFreeBusyAPI = "https://www.googleapis.com/calendar/v3/freeBusy"
)

// GoogleBusySource serves busy intervals from a user's connected Google
// Calendar via the FreeBusy API. It satisfies the scheduling aggregator's
// BusySource contract. Users without an active connection contribute an
// empty busy list.
type GoogleBusySource struct {
	repo       repository.CalendarRepositoryInterface
	oauthCfg   *oauth2.Config
	httpClient *http.Client
	windowDays int
	now        func() time.Time
}

func NewGoogleBusySource(repo repository.CalendarRepositoryInterface, apiCfg config.GoogleAPIConfig, windowDays int) *GoogleBusySource {
	if windowDays <= 0 {
		windowDays = 21
	}
	return &GoogleBusySource{
		repo: repo,
		oauthCfg: &oauth2.Config{
			ClientID:     apiCfg.ClientID,
			ClientSecret: apiCfg.ClientSecret,
			Endpoint:     google.Endpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
		windowDays: windowDays,
		now:        time.Now,
	}
}

func (s *GoogleBusySource) Name() string { return "google_calendar" }

func (s *GoogleBusySource) UserBusy(ctx context.Context, userID int64) ([]schedentity.BusyInterval, error) {
	conn, err := s.repo.GetActiveConnection(ctx, userID, providerGoogle)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return []schedentity.BusyInterval{}, nil
	}

	token, err := s.ensureValidToken(ctx, conn)
	if err != nil {
		return nil, err
	}

	start := s.now()
	end := start.AddDate(0, 0, s.windowDays)
	return s.callFreeBusy(ctx, token, conn.CalendarEmail, start, end)
}

// ensureValidToken refreshes the stored access token when it is near expiry
// and persists the renewed token.
func (s *GoogleBusySource) ensureValidToken(ctx context.Context, conn *entity.CalendarConnection) (string, error) {
	if s.now().Before(conn.TokenExpiresAt.Add(-5 * time.Minute)) {
		return conn.AccessToken, nil
	}

	logger.Info("GoogleBusySource:ensureValidToken:Refreshing", "user_id", conn.UserID)

	source := s.oauthCfg.TokenSource(ctx, &oauth2.Token{
		AccessToken:  conn.AccessToken,
		RefreshToken: conn.RefreshToken,
		Expiry:       conn.TokenExpiresAt,
	})
	token, err := source.Token()
	if err != nil {
		return "", fmt.Errorf("google token refresh failed: %w", err)
	}

	conn.AccessToken = token.AccessToken
	conn.TokenExpiresAt = token.Expiry
	if err := s.repo.UpdateConnectionToken(ctx, conn); err != nil {
		logger.Warn("GoogleBusySource:ensureValidToken:PersistFailed", "user_id", conn.UserID, "error", err)
	}

	return token.AccessToken, nil
}

// callFreeBusy queries Google's FreeBusy endpoint for one calendar.
func (s *GoogleBusySource) callFreeBusy(ctx context.Context, accessToken, email string, start, end time.Time) ([]schedentity.BusyInterval, error) {
	payload := map[string]any{
		"timeMin": start.Format(time.RFC3339),
		"timeMax": end.Format(time.RFC3339),
		"items":   []map[string]string{{"id": email}},
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, googleFreeBusyAPI, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google freebusy returned status %d", resp.StatusCode)
	}

	var result struct {
		Calendars map[string]struct {
			Busy []struct {
				Start string `json:"start"`
				End   string `json:"end"`
			} `json:"busy"`
		} `json:"calendars"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	intervals := make([]schedentity.BusyInterval, 0)
	for _, cal := range result.Calendars {
		for _, b := range cal.Busy {
			startTime, err1 := time.Parse(time.RFC3339, b.Start)
			endTime, err2 := time.Parse(time.RFC3339, b.End)
			if err1 != nil || err2 != nil {
				logger.Warn("GoogleBusySource:callFreeBusy:BadInterval", "start", b.Start, "end", b.End)
				continue
			}
			intervals = append(intervals, schedentity.BusyInterval{
				Start: startTime,
				End:   endTime,
				Title: "External calendar event",
			})
		}
	}

	return intervals, nil
}
