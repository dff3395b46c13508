package model

import "time"

// 内容长度限制（字符数，按 rune 计）
const (
	MurmurMinLen = 1
	MurmurMaxLen = 280
)

// Murmur 内容主体；ReplyToID 指向同表父帖（自引用），回帖不计入作者 murmurs_count。
// 删除一律软删（is_deleted），正常路径不做物理删除。
type Murmur struct {
	ID        string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string  `gorm:"type:varchar(36);index:idx_murmur_user;not null" json:"user_id"`
	Content   string  `gorm:"type:varchar(280);not null" json:"content"`
	ReplyToID *string `gorm:"type:varchar(36);index:idx_murmur_reply" json:"reply_to_id,omitempty"`

	LikesCount    int64 `gorm:"not null;default:0" json:"likes_count"`
	RepliesCount  int64 `gorm:"not null;default:0" json:"replies_count"`
	RetweetsCount int64 `gorm:"not null;default:0" json:"retweets_count"`

	IsDeleted bool      `gorm:"not null;default:false;index" json:"-"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 查询时装配，不落库
	IsLikedByUser bool  `gorm:"-" json:"is_liked_by_user"`
	Author        *User `gorm:"foreignKey:UserID" json:"author,omitempty"`
}

func (Murmur) TableName() string { return "murmurs" }

// IsReply 为回帖（有父帖）时为真
func (m *Murmur) IsReply() bool { return m.ReplyToID != nil }
