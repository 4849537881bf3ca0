package testserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"artwala_backend/internal/app"
	"artwala_backend/internal/config"
	"artwala_backend/internal/events"
	"artwala_backend/internal/locker"
	"artwala_backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
}

// New поднимает полный роутер приложения поверх in-memory SQLite.
// publisher может быть nil.
func New(t *testing.T, publisher events.Publisher) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if publisher == nil {
		publisher = events.NoopPublisher{}
	}

	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.JWT.Secret = testutil.JWTSecret
	cfg.CORS.AllowedOrigins = []string{"*"}

	db := testutil.NewTestDB(t)
	router := app.SetupRouter(cfg, db, &app.Infrastructure{
		Locker:    locker.NewLocalLocker(),
		Publisher: publisher,
	})

	ts := &TestServer{
		Server: httptest.NewServer(router),
		DB:     db,
	}
	t.Cleanup(ts.Close)
	return ts
}

func (ts *TestServer) Close() {
	ts.Server.Close()
}

// SendRequest отправляет JSON-запрос и возвращает ответ с телом в виде строки
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()
	url := ts.Server.URL + path

	var reqBody io.Reader = nil
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Ошибка кодирования JSON для запроса: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("Ошибка создания HTTP-запроса: %v", err)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("Ошибка отправки HTTP-запроса: %v", err)
	}
	defer res.Body.Close()

	resBodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("Ошибка чтения тела ответа: %v", err)
	}

	return res, string(resBodyBytes)
}

// DecodeJSON разбирает тело ответа в out
func DecodeJSON(t *testing.T, body string, out interface{}) {
	t.Helper()
	if err := json.Unmarshal([]byte(body), out); err != nil {
		t.Fatalf("Не удалось распарсить JSON: %v. Тело: %s", err, body)
	}
}
