package service

import "errors"

// 业务错误按规格分五类：校验 / 未找到 / 冲突 / 鉴权 / 内部。
// handler 层据此映射 HTTP 状态码，store 层的唯一键冲突在这里被翻译成具体冲突错误。
var (
	// 校验
	ErrContentLength = errors.New("content must be 1-280 characters")

	// 未找到
	ErrUserNotFound   = errors.New("user not found")
	ErrMurmurNotFound = errors.New("murmur not found")

	// 冲突
	ErrFollowSelf       = errors.New("cannot follow self")
	ErrAlreadyFollowing = errors.New("already following")
	ErrNotFollowing     = errors.New("not following")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrEmailTaken       = errors.New("email already registered")

	// 鉴权
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrNotOwner           = errors.New("not the owner")
)
