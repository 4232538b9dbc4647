package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/mission-vitale/backend/internal/models"
	"gorm.io/gorm"
)

// UpsertProgress сохраняет лучший результат: score только вверх,
// completed один раз выставляется и не сбрасывается.
func (d *Database) UpsertProgress(userID uuid.UUID, missionID uint, score int, completed bool) (*models.PlayerMission, error) {
	var progress models.PlayerMission
	err := d.db.
		Where("user_id = ? AND mission_id = ?", userID, missionID).
		First(&progress).Error

	if err == gorm.ErrRecordNotFound {
		progress = models.PlayerMission{
			UserID:    userID,
			MissionID: missionID,
			Score:     score,
			Completed: completed,
			Date:      time.Now(),
		}
		if err := d.db.Create(&progress).Error; err != nil {
			return nil, err
		}
		return &progress, nil
	}
	if err != nil {
		return nil, err
	}

	if score > progress.Score {
		progress.Score = score
	}
	if completed {
		progress.Completed = true
	}
	if err := d.db.Save(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

func (d *Database) GetProgress(userID uuid.UUID, missionID uint) (*models.PlayerMission, error) {
	var progress models.PlayerMission
	err := d.db.
		Where("user_id = ? AND mission_id = ?", userID, missionID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}
