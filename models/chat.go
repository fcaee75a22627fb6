package models

import (
	"time"

	"gorm.io/datatypes"
)

type ChatRoom struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name      string `gorm:"size:150" json:"name"`
	IsDirect  bool   `gorm:"column:is_direct;default:false" json:"is_direct"`
	CreatedBy uint   `gorm:"column:created_by" json:"created_by"`

	Members []ChatRoomMember `gorm:"foreignKey:RoomID" json:"members,omitempty"`
}

type ChatRoomMember struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	RoomID uint `gorm:"index;column:room_id" json:"room_id"`
	UserID uint `gorm:"index;column:user_id" json:"user_id"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	RoomID   uint   `gorm:"index;column:room_id" json:"room_id"`
	SenderID uint   `gorm:"index;column:sender_id" json:"sender_id"`
	Body     string `gorm:"type:text" json:"body"`

	// File names and mime types of uploaded attachments; the upload itself
	// is handled outside this service.
	Attachments datatypes.JSON `json:"attachments,omitempty"`

	Sender User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

// ChatLastSeen tracks the last time a user opened a room, for unread counts.
type ChatLastSeen struct {
	UserID uint      `gorm:"primaryKey;autoIncrement:false;column:user_id" json:"user_id"`
	RoomID uint      `gorm:"primaryKey;autoIncrement:false;column:room_id" json:"room_id"`
	SeenAt time.Time `gorm:"column:seen_at" json:"seen_at"`
}
