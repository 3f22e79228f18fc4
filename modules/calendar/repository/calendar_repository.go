package repository

import (
	"context"
	"database/sql"

	"trainhub/core/database"
	"trainhub/core/logger"
	"trainhub/modules/calendar/entity"
)

// CalendarRepository reads stored calendar provider connections
type CalendarRepository struct {
	DB database.IDatabase
}

func NewCalendarRepository(db database.IDatabase) *CalendarRepository {
	return &CalendarRepository{DB: db}
}

// CalendarRepositoryInterface defines the repository contract
type CalendarRepositoryInterface interface {
	GetActiveConnection(ctx context.Context, userID int64, provider string) (*entity.CalendarConnection, error)
	UpdateConnectionToken(ctx context.Context, conn *entity.CalendarConnection) error
}

func (r *CalendarRepository) GetActiveConnection(ctx context.Context, userID int64, provider string) (*entity.CalendarConnection, error) {
	query := `
		SELECT id, user_id, provider, access_token, refresh_token,
		       token_expires_at, calendar_email, is_active
		FROM calendar_connections
		WHERE user_id = $1 AND provider = $2 AND is_active = true
	`

	var conn entity.CalendarConnection
	err := r.DB.GetContext(ctx, &conn, query, userID, provider)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CalendarRepository:GetActiveConnection", err)
		return nil, err
	}

	return &conn, nil
}

func (r *CalendarRepository) UpdateConnectionToken(ctx context.Context, conn *entity.CalendarConnection) error {
	query := `
		UPDATE calendar_connections
		SET access_token = $2, token_expires_at = $3
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query, conn.ID, conn.AccessToken, conn.TokenExpiresAt)
	if err != nil {
		logger.Error("CalendarRepository:UpdateConnectionToken", err)
		return err
	}

	return nil
}
