package database

import (
	"github.com/mission-vitale/backend/internal/models"
)

func (d *Database) CreateMission(mission *models.Mission) error {
	return d.db.Create(mission).Error
}

func (d *Database) GetMission(id uint) (*models.Mission, error) {
	var mission models.Mission
	if err := d.db.First(&mission, id).Error; err != nil {
		return nil, err
	}
	return &mission, nil
}

func (d *Database) ListMissions() ([]models.Mission, error) {
	var missions []models.Mission
	err := d.db.Order("created_at DESC").Find(&missions).Error
	return missions, err
}

// ListMissionPuzzles возвращает энигмы миссии в порядке создания
func (d *Database) ListMissionPuzzles(missionID uint) ([]models.Puzzle, error) {
	var puzzles []models.Puzzle
	err := d.db.Where("mission_id = ?", missionID).Order("id ASC").Find(&puzzles).Error
	return puzzles, err
}
