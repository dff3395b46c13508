package model

import "time"

// User 用户主体；Followers/Following/Murmurs 计数为冗余缓存，
// 真实来源是 follows / murmurs 表，可由对账任务重算。
// Email 不随对象序列化，只在本人视角的应答里带出
type User struct {
	ID          string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username    string `gorm:"type:varchar(32);uniqueIndex;not null" json:"username"`
	Email       string `gorm:"type:varchar(128);uniqueIndex;not null" json:"-"`
	Password    string `gorm:"type:varchar(128);not null" json:"-"`
	DisplayName string `gorm:"type:varchar(64)" json:"display_name"`
	Avatar      string `gorm:"type:varchar(256)" json:"avatar,omitempty"`
	Bio         string `gorm:"type:varchar(512)" json:"bio,omitempty"`

	FollowersCount int64 `gorm:"not null;default:0" json:"followers_count"`
	FollowingCount int64 `gorm:"not null;default:0" json:"following_count"`
	MurmursCount   int64 `gorm:"not null;default:0" json:"murmurs_count"`

	IsActive  bool       `gorm:"not null;default:true" json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "users" }
