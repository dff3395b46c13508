package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/murmur/internal/model"
	"github.com/d60-Lab/murmur/internal/service"
	"github.com/d60-Lab/murmur/pkg/auth"
	"github.com/d60-Lab/murmur/pkg/response"
)

const principalKey = "principal"

// AuthState 鉴权结果的三种状态
type AuthState int

const (
	Anonymous AuthState = iota
	Authenticated
	Rejected
)

// Principal 鉴权中间件产出的类型化结果，handler 直接消费，
// 不需要各自再去解 token
type Principal struct {
	State  AuthState
	User   *model.User // State == Authenticated 时非空
	Reason string      // State == Rejected 时的原因
}

// UserID 未登录返回空串
func (p Principal) UserID() string {
	if p.State == Authenticated {
		return p.User.ID
	}
	return ""
}

// Authenticate 解析 Bearer 令牌并把 Principal 放进请求上下文。
// 本身不拦截请求；公开接口也挂它，匿名访问得到 Anonymous。
func Authenticate(authSvc service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := Principal{State: Anonymous}
		header := c.GetHeader("Authorization")
		if header != "" {
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				p = Principal{State: Rejected, Reason: "malformed authorization header"}
			} else if u, err := authSvc.Resolve(c.Request.Context(), token); err != nil {
				switch err {
				case auth.ErrTokenExpired:
					p = Principal{State: Rejected, Reason: "token expired"}
				case service.ErrAccountInactive:
					p = Principal{State: Rejected, Reason: "account inactive"}
				default:
					p = Principal{State: Rejected, Reason: "invalid token"}
				}
			} else {
				p = Principal{State: Authenticated, User: u}
			}
		}
		c.Set(principalKey, p)
		c.Next()
	}
}

// RequireAuth 非 Authenticated 一律 401 拦截
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPrincipal(c)
		if p.State != Authenticated {
			reason := p.Reason
			if reason == "" {
				reason = "authentication required"
			}
			response.Unauthorized(c, reason)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetPrincipal 取出当前请求的鉴权结果
func GetPrincipal(c *gin.Context) Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(Principal); ok {
			return p
		}
	}
	return Principal{State: Anonymous}
}
