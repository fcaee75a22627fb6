// services/chat_service.go
package services

import (
	"errors"
	"sort"
	"strings"
	"time"

	"aparthotel-backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrChatRoomNotFound = errors.New("chat room not found")
	ErrNotMember        = errors.New("not a member of this chat room")
)

// ChatRoomSummary is one entry on the chat list, with the unread counter.
type ChatRoomSummary struct {
	models.ChatRoom
	UnreadCount int64           `json:"unread_count"`
	LastMessage *models.Message `json:"last_message,omitempty"`
}

type ChatService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{DB: db, Now: time.Now}
}

func (s *ChatService) isMember(roomID, userID uint) (bool, error) {
	var count int64
	err := s.DB.Model(&models.ChatRoomMember{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error
	return count > 0, err
}

// Rooms lists the chat rooms the user belongs to, most recently active
// first, with unread counts since the user's last visit.
func (s *ChatService) Rooms(userID uint) ([]ChatRoomSummary, error) {
	var memberships []models.ChatRoomMember
	if err := s.DB.Where("user_id = ?", userID).Find(&memberships).Error; err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return []ChatRoomSummary{}, nil
	}

	roomIDs := make([]uint, 0, len(memberships))
	for _, m := range memberships {
		roomIDs = append(roomIDs, m.RoomID)
	}

	var rooms []models.ChatRoom
	if err := s.DB.Preload("Members.User").Where("id IN ?", roomIDs).Find(&rooms).Error; err != nil {
		return nil, err
	}

	lastSeen := map[uint]time.Time{}
	var seenRows []models.ChatLastSeen
	if err := s.DB.Where("user_id = ?", userID).Find(&seenRows).Error; err == nil {
		for _, row := range seenRows {
			lastSeen[row.RoomID] = row.SeenAt
		}
	}

	summaries := make([]ChatRoomSummary, 0, len(rooms))
	for _, room := range rooms {
		summary := ChatRoomSummary{ChatRoom: room}

		var last models.Message
		err := s.DB.Preload("Sender").
			Where("room_id = ?", room.ID).
			Order("created_at DESC, id DESC").
			First(&last).Error
		if err == nil {
			summary.LastMessage = &last
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		q := s.DB.Model(&models.Message{}).
			Where("room_id = ? AND sender_id <> ?", room.ID, userID)
		if seen, ok := lastSeen[room.ID]; ok {
			q = q.Where("created_at > ?", seen)
		}
		if err := q.Count(&summary.UnreadCount).Error; err != nil {
			return nil, err
		}

		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		ti, tj := summaries[i].CreatedAt, summaries[j].CreatedAt
		if summaries[i].LastMessage != nil {
			ti = summaries[i].LastMessage.CreatedAt
		}
		if summaries[j].LastMessage != nil {
			tj = summaries[j].LastMessage.CreatedAt
		}
		return ti.After(tj)
	})
	return summaries, nil
}

// CreateRoom opens a named group chat. The creator is always a member.
func (s *ChatService) CreateRoom(name string, creatorID uint, memberIDs []uint) (*models.ChatRoom, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("chat room name is required")
	}

	room := models.ChatRoom{Name: name, CreatedBy: creatorID}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&room).Error; err != nil {
			return err
		}
		seen := map[uint]bool{creatorID: true}
		members := []models.ChatRoomMember{{RoomID: room.ID, UserID: creatorID}}
		for _, id := range memberIDs {
			if !seen[id] {
				seen[id] = true
				members = append(members, models.ChatRoomMember{RoomID: room.ID, UserID: id})
			}
		}
		return tx.Create(&members).Error
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// DirectRoom finds or creates the one-on-one room between two users.
func (s *ChatService) DirectRoom(userID, otherID uint) (*models.ChatRoom, error) {
	if userID == otherID {
		return nil, errors.New("cannot open a direct chat with yourself")
	}

	var roomIDs []uint
	err := s.DB.Model(&models.ChatRoomMember{}).
		Select("room_id").
		Where("user_id IN ?", []uint{userID, otherID}).
		Group("room_id").
		Having("COUNT(DISTINCT user_id) = 2").
		Pluck("room_id", &roomIDs).Error
	if err != nil {
		return nil, err
	}

	for _, id := range roomIDs {
		var room models.ChatRoom
		if err := s.DB.First(&room, id).Error; err != nil {
			continue
		}
		if room.IsDirect {
			return &room, nil
		}
	}

	room := models.ChatRoom{IsDirect: true, CreatedBy: userID}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&room).Error; err != nil {
			return err
		}
		members := []models.ChatRoomMember{
			{RoomID: room.ID, UserID: userID},
			{RoomID: room.ID, UserID: otherID},
		}
		return tx.Create(&members).Error
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// Messages returns a room's history oldest first, members only.
func (s *ChatService) Messages(roomID, userID uint, limit int) ([]models.Message, error) {
	ok, err := s.isMember(roomID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotMember
	}

	if limit <= 0 || limit > 200 {
		limit = 100
	}
	var messages []models.Message
	err = s.DB.Preload("Sender").
		Where("room_id = ?", roomID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	// Reverse to chronological order for display.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// SendMessage posts to a room the user belongs to. Attachments arrive as
// a pre-built JSON document describing uploaded files.
func (s *ChatService) SendMessage(roomID, senderID uint, body string, attachments datatypes.JSON) (*models.Message, error) {
	ok, err := s.isMember(roomID, senderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotMember
	}
	body = strings.TrimSpace(body)
	if body == "" && len(attachments) == 0 {
		return nil, errors.New("message is empty")
	}

	msg := models.Message{
		RoomID:      roomID,
		SenderID:    senderID,
		Body:        body,
		Attachments: attachments,
	}
	if err := s.DB.Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// LeaveRoom removes the user from a room. When the last member leaves,
// the room and its message history go with them.
func (s *ChatService) LeaveRoom(roomID, userID uint) error {
	ok, err := s.isMember(roomID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotMember
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ? AND user_id = ?", roomID, userID).
			Delete(&models.ChatRoomMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ? AND user_id = ?", roomID, userID).
			Delete(&models.ChatLastSeen{}).Error; err != nil {
			return err
		}

		var remaining int64
		if err := tx.Model(&models.ChatRoomMember{}).
			Where("room_id = ?", roomID).
			Count(&remaining).Error; err != nil {
			return err
		}
		if remaining > 0 {
			return nil
		}
		if err := tx.Where("room_id = ?", roomID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ChatRoom{}, roomID).Error
	})
}

// MarkSeen stamps the user's last visit to a room, resetting its unread
// counter.
func (s *ChatService) MarkSeen(roomID, userID uint) error {
	ok, err := s.isMember(roomID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotMember
	}

	seen := models.ChatLastSeen{UserID: userID, RoomID: roomID, SeenAt: s.Now()}
	return s.DB.Save(&seen).Error
}
