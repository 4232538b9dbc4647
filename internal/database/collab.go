package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/mission-vitale/backend/internal/models"
)

func (d *Database) CreateRoom(room *models.CollabRoom) error {
	return d.db.Create(room).Error
}

func (d *Database) GetRoomByCode(code string) (*models.CollabRoom, error) {
	var room models.CollabRoom
	if err := d.db.Where("code = ?", code).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (d *Database) UpdateRoom(room *models.CollabRoom) error {
	return d.db.Save(room).Error
}

// GetRoomMember membership пользователя в комнате, если есть
func (d *Database) GetRoomMember(roomID uint, userID uuid.UUID) (*models.CollabMember, error) {
	var member models.CollabMember
	err := d.db.
		Where("room_id = ? AND user_id = ?", roomID, userID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ListRoomMembers участники комнаты вместе с пользователями
func (d *Database) ListRoomMembers(roomID uint) ([]models.CollabMember, error) {
	var members []models.CollabMember
	err := d.db.
		Where("room_id = ?", roomID).
		Order("joined_at ASC").
		Preload("User").
		Find(&members).Error
	return members, err
}

// TakenRoles занятые роли комнаты (пустые роли не считаются)
func (d *Database) TakenRoles(roomID uint) (map[string]bool, error) {
	members, err := d.ListRoomMembers(roomID)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool)
	for _, m := range members {
		if m.Role != "" {
			taken[m.Role] = true
		}
	}
	return taken, nil
}

// UpsertRoomMember повторный join обновляет существующую запись, не дублирует
func (d *Database) UpsertRoomMember(roomID uint, userID uuid.UUID, role string) error {
	member, err := d.GetRoomMember(roomID, userID)
	if err == nil {
		if role != "" {
			member.Role = role
		}
		return d.db.Save(member).Error
	}

	return d.db.Create(&models.CollabMember{
		RoomID:   roomID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now(),
	}).Error
}
