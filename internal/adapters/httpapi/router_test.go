package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"snapgram/internal/adapters/database"
	"snapgram/internal/adapters/database/dbtest"
	conversationapp "snapgram/internal/core/conversation/service"
	followerapp "snapgram/internal/core/follower/service"
	outboxapp "snapgram/internal/core/outbox/service"
	postapp "snapgram/internal/core/post/service"
	"snapgram/internal/core/session"
	userapp "snapgram/internal/core/user/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeImages struct{}

func (fakeImages) StoreImage(_ context.Context, image io.Reader, folder string) (string, error) {
	if _, err := io.ReadAll(image); err != nil {
		return "", err
	}
	return "https://cdn.example/" + folder + "/img.jpg", nil
}

type memoryRevocations struct {
	mu  sync.Mutex
	ids map[string]bool
}

func (m *memoryRevocations) Revoke(_ context.Context, id string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[id] = true
	return nil
}

func (m *memoryRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ids[id], nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	return newTestRouterWith(t, Options{CORSOrigin: "http://localhost:5173"})
}

func newTestRouterWith(t *testing.T, opts Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	db := dbtest.Open(t)
	logger := zap.NewNop()

	userRepo := database.NewUserRepositoryDatabase(db)
	followerRepo := database.NewFollowerRepositoryDatabase(db)
	events := outboxapp.NewRecorder(database.NewOutboxRepositoryDatabase(db), logger)
	sessions := session.NewManager([]byte("test-secret"), &memoryRevocations{ids: map[string]bool{}})

	return SetupRoutes(
		userapp.NewUserService(userRepo, followerRepo, fakeImages{}, sessions, logger),
		followerapp.NewFollowerService(followerRepo, userRepo, events, logger),
		postapp.NewPostService(database.NewPostRepositoryDatabase(db), userRepo, fakeImages{}, events, logger),
		conversationapp.NewConversationService(database.NewConversationRepositoryDatabase(db), userRepo, events, logger),
		sessions,
		logger,
		opts,
	)
}

func do(t *testing.T, r http.Handler, method, path string, body io.Reader, contentType, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded), w.Body.String())
	}
	return w, decoded
}

func doJSON(t *testing.T, r http.Handler, method, path string, payload any, token string) (*httptest.ResponseRecorder, map[string]any) {
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return do(t, r, method, path, bytes.NewReader(raw), "application/json", token)
}

// signUp registers and logs in, returning the user id and token.
func signUp(t *testing.T, r http.Handler, name string) (string, string) {
	t.Helper()
	w, _ := doJSON(t, r, http.MethodPost, "/user/register", gin.H{
		"username": name, "email": name + "@example.com", "password": "secret",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, body := doJSON(t, r, http.MethodPost, "/user/login", gin.H{
		"email": name + "@example.com", "password": "secret",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	user := body["user"].(map[string]any)
	return user["id"].(string), body["token"].(string)
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t)
	w, body := do(t, r, http.MethodGet, "/healthz", nil, "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestLoginSetsCookieAndHidesPassword(t *testing.T) {
	r := newTestRouter(t)
	_, _ = doJSON(t, r, http.MethodPost, "/user/register", gin.H{
		"username": "alice", "email": "alice@example.com", "password": "secret",
	}, "")

	w, body := doJSON(t, r, http.MethodPost, "/user/login", gin.H{
		"email": "alice@example.com", "password": "secret",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, w.Body.String(), "password")

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 86400, cookie.MaxAge)

	// the cookie alone authenticates
	req := httptest.NewRequest(http.MethodGet, "/user/suggested", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginFailuresLookTheSame(t *testing.T) {
	r := newTestRouter(t)
	signUp(t, r, "alice")

	wrongPassword, b1 := doJSON(t, r, http.MethodPost, "/user/login", gin.H{"email": "alice@example.com", "password": "nope"}, "")
	unknownEmail, b2 := doJSON(t, r, http.MethodPost, "/user/login", gin.H{"email": "ghost@example.com", "password": "secret"}, "")

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, b1, b2)
	assert.Equal(t, "Incorrect email or password!", b1["message"])
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	r := newTestRouter(t)
	signUp(t, r, "alice")

	w, body := doJSON(t, r, http.MethodPost, "/user/register", gin.H{
		"username": "other", "email": "alice@example.com", "password": "x",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "User already exists!", body["message"])
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/post/allPost", "/user/suggested", "/message/allMessage/x"} {
		w, body := do(t, r, http.MethodGet, path, nil, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Equal(t, "Unauthenticated user!", body["message"], path)
	}

	w, _ := do(t, r, http.MethodGet, "/post/allPost", nil, "", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	r := newTestRouter(t)
	_, token := signUp(t, r, "alice")

	w, _ := do(t, r, http.MethodGet, "/user/logout", nil, "", token)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodGet, "/user/suggested", nil, "", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFollowToggleOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	aliceID, aliceToken := signUp(t, r, "alice")
	bobID, _ := signUp(t, r, "bob")

	w, body := do(t, r, http.MethodPost, "/user/follow/"+bobID, nil, "", aliceToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["following"])

	_, body = do(t, r, http.MethodGet, "/user/followers/"+bobID, nil, "", aliceToken)
	assert.Equal(t, []any{aliceID}, body["followers"])

	w, body = do(t, r, http.MethodGet, "/user/follow/"+bobID, nil, "", aliceToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["following"])

	w, _ = do(t, r, http.MethodPost, "/user/follow/"+aliceID, nil, "", aliceToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func multipartImage(t *testing.T, caption string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("caption", caption))
	fw, err := mw.CreateFormFile("image", "photo.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestPostLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	_, aliceToken := signUp(t, r, "alice")
	_, bobToken := signUp(t, r, "bob")

	body, contentType := multipartImage(t, "sunset")
	w, res := do(t, r, http.MethodPost, "/post/addPost", body, contentType, aliceToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	postID := res["post"].(map[string]any)["id"].(string)

	w, _ = do(t, r, http.MethodPost, "/post/addPost", strings.NewReader(""), "multipart/form-data; boundary=x", aliceToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodGet, "/post/likePost/"+postID, nil, "", bobToken)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodPost, "/post/comment/"+postID, gin.H{"text": "nice"}, bobToken)
	require.Equal(t, http.StatusCreated, w.Code)

	_, res = do(t, r, http.MethodPost, "/post/allComments/"+postID, nil, "", bobToken)
	assert.Len(t, res["comments"], 1)

	w, _ = do(t, r, http.MethodPost, "/post/deletePost/"+postID, nil, "", bobToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = do(t, r, http.MethodPost, "/post/deletePost/"+postID, nil, "", aliceToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodPost, "/post/allComments/"+postID, nil, "", bobToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMessagesOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	aliceID, aliceToken := signUp(t, r, "alice")
	bobID, bobToken := signUp(t, r, "bob")

	w, _ := doJSON(t, r, http.MethodPost, "/message/sendMessage/"+bobID, gin.H{"message": "   "}, aliceToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, res := do(t, r, http.MethodGet, "/message/allMessage/"+bobID, nil, "", aliceToken)
	assert.Equal(t, []any{}, res["messages"])

	w, res = doJSON(t, r, http.MethodPost, "/message/sendMessage/"+bobID, gin.H{"message": "hi"}, aliceToken)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "hi", res["newMessage"].(map[string]any)["message"])

	w, _ = doJSON(t, r, http.MethodPost, "/message/sendMessage/"+aliceID, gin.H{"message": "yo"}, bobToken)
	require.Equal(t, http.StatusCreated, w.Code)

	_, res = do(t, r, http.MethodGet, "/message/allMessage/"+aliceID, nil, "", bobToken)
	messages := res["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "hi", messages[0].(map[string]any)["message"])
	assert.Equal(t, "yo", messages[1].(map[string]any)["message"])
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/user/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")

	req = httptest.NewRequest(http.MethodOptions, "/user/login", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestEditProfileAcceptsJSON(t *testing.T) {
	r := newTestRouter(t)
	_, token := signUp(t, r, "alice")

	w, res := doJSON(t, r, http.MethodPost, "/user/editProfile", gin.H{"bio": "hello"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Profile updated!", res["message"])
	user := res["user"].(map[string]any)
	assert.Equal(t, "hello", user["bio"])
	assert.Nil(t, user["gender"])

	w, _ = do(t, r, http.MethodPost, "/user/editProfile", strings.NewReader("{"), "application/json", token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEditProfileAcceptsURLEncodedForm(t *testing.T) {
	r := newTestRouter(t)
	_, token := signUp(t, r, "alice")

	w, res := do(t, r, http.MethodPost, "/user/editProfile", strings.NewReader("gender=female"), "application/x-www-form-urlencoded", token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "female", res["user"].(map[string]any)["gender"])
}

func oversizedUpload(t *testing.T, field string, size int) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "huge.png")
	require.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte{0xAB}, size))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadBodiesAreBounded(t *testing.T) {
	r := newTestRouterWith(t, Options{CORSOrigin: "http://localhost:5173", MaxUploadBytes: 1024})
	_, token := signUp(t, r, "alice")

	body, contentType := oversizedUpload(t, "image", 4096)
	w, res := do(t, r, http.MethodPost, "/post/addPost", body, contentType, token)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, false, res["success"])

	body, contentType = oversizedUpload(t, "profilePicture", 4096)
	w, _ = do(t, r, http.MethodPost, "/user/editProfile", body, contentType, token)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	// under the limit the upload goes through
	small, contentType := multipartImage(t, "sunset")
	w, _ = do(t, r, http.MethodPost, "/post/addPost", small, contentType, token)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}
