package auth

import (
	"github.com/terraforge-gg/terraforge/internal/db"
	"github.com/terraforge-gg/terraforge/internal/utils"
)

// SessionInfo satisfies middleware.SessionFetcher against the auth tables.
type SessionInfo struct{}

func (si SessionInfo) FindSessionByToken(token string) (utils.SessionData, error) {
	var session Session

	err := db.DB.First(&session, "token = ?", token).Error
	if err != nil {
		return utils.SessionData{}, err
	}

	return utils.SessionData{
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}
