package database

import (
	"github.com/mission-vitale/backend/internal/models"
)

func (d *Database) CreatePuzzle(puzzle *models.Puzzle) error {
	return d.db.Create(puzzle).Error
}

func (d *Database) GetPuzzle(id uint) (*models.Puzzle, error) {
	var puzzle models.Puzzle
	if err := d.db.First(&puzzle, id).Error; err != nil {
		return nil, err
	}
	return &puzzle, nil
}

// ListPuzzles возвращает все энигмы, missionID == 0 значит без фильтра
func (d *Database) ListPuzzles(missionID uint) ([]models.Puzzle, error) {
	var puzzles []models.Puzzle
	query := d.db.Order("created_at DESC")
	if missionID != 0 {
		query = query.Where("mission_id = ?", missionID)
	}
	err := query.Find(&puzzles).Error
	return puzzles, err
}
