package model

import "time"

// 通知类型
const (
	NotificationLike   = "like"
	NotificationFollow = "follow"
	NotificationReply  = "reply"
)

// Notification 通知；按 (type, user_id, actor_id, murmur_id) 去重，
// 重复触发复用已有行而不是新建。user_id == actor_id 的自触发不落库。
type Notification struct {
	ID       string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Type     string  `gorm:"type:varchar(16);not null" json:"type"`
	UserID   string  `gorm:"type:varchar(36);index:idx_notif_user_created;not null" json:"user_id"`
	ActorID  string  `gorm:"type:varchar(36);index;not null" json:"actor_id"`
	MurmurID *string `gorm:"type:varchar(36);index" json:"murmur_id,omitempty"`

	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"index:idx_notif_user_created" json:"created_at"`

	Actor *User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

func (Notification) TableName() string { return "notifications" }
