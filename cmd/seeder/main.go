package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// 通过 HTTP API 造测试数据：注册一批用户、互相关注、发帖、回帖、点赞。
// BASE_URL 默认 http://localhost:8080。
var baseURL = "http://localhost:8080"

type seededUser struct {
	ID       string
	Username string
	Token    string
}

func main() {
	gofakeit.Seed(time.Now().UnixNano())
	if v := os.Getenv("BASE_URL"); v != "" {
		baseURL = v
	}
	userCount := 20
	murmursPerUser := 5

	users := make([]*seededUser, 0, userCount)
	for i := 0; i < userCount; i++ {
		u := registerAndLogin()
		if u != nil {
			users = append(users, u)
		}
	}
	if len(users) < 2 {
		log.Fatal("not enough users seeded, aborting")
	}
	log.Printf("seeded %d users", len(users))

	// 随机关注
	for _, u := range users {
		for i := 0; i < 5; i++ {
			target := users[rand.Intn(len(users))]
			if target.ID != u.ID {
				post(u.Token, fmt.Sprintf("/api/v1/users/%s/follow", target.ID), nil)
			}
		}
	}

	// 发帖 + 回帖 + 点赞
	var murmurIDs []string
	for _, u := range users {
		for i := 0; i < murmursPerUser; i++ {
			body := map[string]interface{}{"content": gofakeit.Sentence(gofakeit.Number(3, 20))}
			if len(murmurIDs) > 0 && gofakeit.Bool() {
				body["reply_to_id"] = murmurIDs[rand.Intn(len(murmurIDs))]
			}
			if id := createMurmur(u.Token, body); id != "" {
				murmurIDs = append(murmurIDs, id)
			}
		}
	}
	log.Printf("seeded %d murmurs", len(murmurIDs))

	for _, u := range users {
		for i := 0; i < 10 && len(murmurIDs) > 0; i++ {
			post(u.Token, fmt.Sprintf("/api/v1/murmurs/%s/like", murmurIDs[rand.Intn(len(murmurIDs))]), nil)
		}
	}
	log.Println("done")
}

func registerAndLogin() *seededUser {
	username := gofakeit.Username()
	password := "secret123"
	reg := map[string]string{
		"username":     username,
		"email":        gofakeit.Email(),
		"password":     password,
		"display_name": gofakeit.Name(),
	}
	if _, err := doJSON("POST", "/api/v1/auth/register", "", reg); err != nil {
		log.Printf("register %s: %v", username, err)
		return nil
	}
	res, err := doJSON("POST", "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		log.Printf("login %s: %v", username, err)
		return nil
	}
	data, _ := res["data"].(map[string]interface{})
	token, _ := data["token"].(string)
	user, _ := data["user"].(map[string]interface{})
	id, _ := user["id"].(string)
	if token == "" || id == "" {
		return nil
	}
	return &seededUser{ID: id, Username: username, Token: token}
}

func createMurmur(token string, body map[string]interface{}) string {
	res, err := doJSON("POST", "/api/v1/murmurs", token, body)
	if err != nil {
		return ""
	}
	data, _ := res["data"].(map[string]interface{})
	id, _ := data["id"].(string)
	return id
}

func post(token, path string, body interface{}) {
	_, _ = doJSON("POST", path, token, body)
}

func doJSON(method, path, token string, body interface{}) (map[string]interface{}, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequest(method, baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
