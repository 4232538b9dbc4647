package database

import (
	"github.com/google/uuid"
	"github.com/mission-vitale/backend/internal/models"
)

func (d *Database) CreateGameSession(session *models.GameSession) error {
	return d.db.Create(session).Error
}

// GetCurrentGameSession последняя созданная сессия пользователя
func (d *Database) GetCurrentGameSession(userID uuid.UUID) (*models.GameSession, error) {
	var session models.GameSession
	err := d.db.
		Where("user_id = ?", userID).
		Order("id DESC").
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}
