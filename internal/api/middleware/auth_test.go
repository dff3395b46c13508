package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/d60-Lab/murmur/internal/model"
	"github.com/d60-Lab/murmur/internal/service"
)

type fakeAuthService struct {
	users map[string]*model.User // token -> user
}

func (f *fakeAuthService) Register(context.Context, service.RegisterInput) (*model.User, error) {
	return nil, nil
}

func (f *fakeAuthService) Login(context.Context, string, string) (string, *model.User, error) {
	return "", nil, nil
}

func (f *fakeAuthService) Resolve(_ context.Context, token string) (*model.User, error) {
	if u, ok := f.users[token]; ok {
		return u, nil
	}
	return nil, service.ErrUserNotFound
}

func setupAuthRouter(authSvc service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Authenticate(authSvc))
	r.GET("/open", func(c *gin.Context) {
		p := GetPrincipal(c)
		c.JSON(200, gin.H{"state": int(p.State), "user_id": p.UserID()})
	})
	r.GET("/closed", RequireAuth(), func(c *gin.Context) {
		c.JSON(200, gin.H{"user_id": GetPrincipal(c).UserID()})
	})
	return r
}

func TestAuthenticate_States(t *testing.T) {
	svc := &fakeAuthService{users: map[string]*model.User{
		"good-token": {ID: "u1", Username: "alice", IsActive: true},
	}}
	r := setupAuthRouter(svc)

	// 无头：匿名通过公开接口
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":0`)

	// 有效令牌：Authenticated
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u1"`)

	// 坏令牌在公开接口上是 Rejected，但不拦截
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":2`)
}

func TestRequireAuth_Blocks(t *testing.T) {
	svc := &fakeAuthService{users: map[string]*model.User{
		"good-token": {ID: "u1", Username: "alice", IsActive: true},
	}}
	r := setupAuthRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/closed", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/closed", nil)
	req.Header.Set("Authorization", "not-a-bearer")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/closed", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
