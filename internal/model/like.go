package model

import "time"

// Like 点赞边，(user_id, murmur_id) 复合唯一
type Like struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	UserID    string `gorm:"type:varchar(36);index:idx_like_user;index:idx_like_pair,unique;not null"`
	MurmurID  string `gorm:"type:varchar(36);index:idx_like_murmur;not null;index:idx_like_pair,unique"`
	CreatedAt time.Time
}

func (Like) TableName() string { return "likes" }
