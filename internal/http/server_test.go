package http

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/foodjournal/internal/app"
	"github.com/mrlokans/foodjournal/internal/auth"
	"github.com/mrlokans/foodjournal/internal/config"
	"github.com/mrlokans/foodjournal/internal/database"
	"github.com/mrlokans/foodjournal/internal/images"
)

type testServer struct {
	router  *gin.Engine
	shell   *app.Shell
	library *images.Library
	cookies []*http.Cookie
}

func newTestServerAt(t *testing.T, dbPath string) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.NewConfig()
	cfg.Auth.BcryptCost = bcrypt.MinCost
	cfg.Images.Dir = t.TempDir()

	gw := database.NewGateway(dbPath, database.WithLogLevel(logger.Silent))
	t.Cleanup(func() { gw.Close() })

	shell := app.NewShell(gw, cfg)
	_ = shell.Start(context.Background())

	library, err := images.NewLibrary(cfg.Images.Dir)
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		Shell:          shell,
		SessionManager: auth.NewSessionManager(cfg.Auth),
		ImageLibrary:   library,
		Images:         cfg.Images,
		Version:        "test",
	})

	return &testServer{router: router, shell: shell, library: library}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerAt(t, filepath.Join(t.TempDir(), "journal.db"))
}

// do sends a request carrying the session cookies collected so far.
func (s *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	for _, cookie := range s.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if fresh := w.Result().Cookies(); len(fresh) > 0 {
		s.cookies = fresh
	}
	return w
}

func (s *testServer) doJSON(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return s.do(t, req)
}

func (s *testServer) register(t *testing.T, email, password string) {
	t.Helper()
	w := s.doJSON(t, http.MethodPost, "/api/auth/mode", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.doJSON(t, http.MethodPost, "/api/auth/submit", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func (s *testServer) uploadImage(t *testing.T, origin string, withFile bool) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("origin", origin))
	if withFile {
		part, err := mw.CreateFormFile("image", "meal.png")
		require.NoError(t, err)
		require.NoError(t, png.Encode(part, testImage(160, 90)))
	}
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, "/api/journal/image", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.do(t, req)
}

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	return img
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
