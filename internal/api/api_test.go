package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mmc-gaming/clanhub/internal/config"
	"github.com/mmc-gaming/clanhub/internal/credentials"
	"github.com/mmc-gaming/clanhub/internal/database/mock"
	"github.com/mmc-gaming/clanhub/internal/engine"
	"github.com/mmc-gaming/clanhub/internal/gravatar"
	"github.com/mmc-gaming/clanhub/internal/storage"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	credentials.Cost = bcrypt.MinCost
}

// client keeps the cookies of one browser.
type client struct {
	cookies map[string]*http.Cookie
}

func newClient() *client {
	return &client{cookies: map[string]*http.Cookie{}}
}

type APITestSuite struct {
	suite.Suite
	db      *mock.MockDB
	server  *Server
	ctx     context.Context
	uploads string
}

func (s *APITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.ctx = context.Background()
	s.db = mock.NewMockDB()
	s.uploads = s.T().TempDir()

	cfg := &config.Config{
		Listen:     "127.0.0.1:0",
		SessionKey: "0123456789abcdef0123456789abcdef",
		Uploads: &config.UploadsConfig{
			Dir:       s.uploads,
			MaxSize:   1 << 20,
			MaxWidth:  64,
			MaxHeight: 64,
			Quality:   80,
		},
	}
	e, err := engine.New(cfg, s.db)
	s.Require().NoError(err)
	store, err := storage.New(cfg.Uploads)
	s.Require().NoError(err)

	s.server, err = New(cfg, e, store, false)
	s.Require().NoError(err)
}

func (s *APITestSuite) send(cl *client, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	if cl != nil {
		for _, c := range cl.cookies {
			req.AddCookie(c)
		}
	}
	w := httptest.NewRecorder()
	s.server.Handler().ServeHTTP(w, req)
	if cl != nil {
		for _, c := range w.Result().Cookies() {
			cl.cookies[c.Name] = c
		}
	}

	var body map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func (s *APITestSuite) postForm(cl *client, path string, values url.Values) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.send(cl, req)
}

func (s *APITestSuite) postMultipart(cl *client, path string, fields map[string]string, fileField string, file []byte) (*httptest.ResponseRecorder, map[string]any) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		s.Require().NoError(mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, "image.png")
		s.Require().NoError(err)
		_, err = fw.Write(file)
		s.Require().NoError(err)
	}
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.send(cl, req)
}

func (s *APITestSuite) get(cl *client, path string) (*httptest.ResponseRecorder, map[string]any) {
	return s.send(cl, httptest.NewRequest(http.MethodGet, path, nil))
}

func (s *APITestSuite) registerAndLogin(username string) *client {
	w, _ := s.postForm(nil, "/api/register", url.Values{
		"username": {username},
		"email":    {username + "@example.com"},
		"password": {"hunter22"},
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	cl := newClient()
	w, _ = s.postForm(cl, "/api/login", url.Values{"username": {username}, "password": {"hunter22"}})
	s.Require().Equal(http.StatusOK, w.Code)
	return cl
}

func (s *APITestSuite) loginAdmin() *client {
	_, err := engine.EnsureDefaultAdmin(s.ctx, s.db, &config.AdminConfig{
		Username: "admin",
		Email:    "admin@mmc.com",
		Password: "admin-pass",
	})
	s.Require().NoError(err)

	cl := newClient()
	w, _ := s.postForm(cl, "/api/login", url.Values{"username": {"admin"}, "password": {"admin-pass"}})
	s.Require().Equal(http.StatusOK, w.Code)
	return cl
}

func testPNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 128, 32))
	for x := range 128 {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// uploadExists reports whether the file behind an /uploads/ reference is on disk.
func (s *APITestSuite) uploadExists(ref string) bool {
	_, err := os.Stat(filepath.Join(s.uploads, strings.TrimPrefix(ref, storage.URLPrefix)))
	return err == nil
}

func (s *APITestSuite) uploadCount() int {
	entries, err := os.ReadDir(s.uploads)
	s.Require().NoError(err)
	return len(entries)
}

func userField(body map[string]any, key string) any {
	user, _ := body["user"].(map[string]any)
	return user[key]
}

func (s *APITestSuite) TestRegister() {
	w, body := s.postForm(nil, "/api/register", url.Values{
		"username": {"alice"},
		"email":    {"alice@example.com"},
		"password": {"hunter22"},
	})
	s.Equal(http.StatusCreated, w.Code)
	s.Equal(true, body["success"])
	s.Equal("Recruit", userField(body, "rank"))
	s.NotContains(w.Body.String(), "hunter22")
	s.NotContains(w.Body.String(), "$2a$")

	w, body = s.postForm(nil, "/api/register", url.Values{
		"username": {"alice"},
		"email":    {"other@example.com"},
		"password": {"hunter22"},
	})
	s.Equal(http.StatusConflict, w.Code)
	s.Equal(false, body["success"])

	w, _ = s.postForm(nil, "/api/register", url.Values{
		"username": {"bob"},
		"email":    {"not-an-email"},
		"password": {"hunter22"},
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APITestSuite) TestLoginMeLogout() {
	anon := newClient()
	_, body := s.get(anon, "/api/me")
	s.Nil(body["user"])

	s.registerAndLogin("alice")

	bad := newClient()
	w, _ := s.postForm(bad, "/api/login", url.Values{"username": {"alice"}, "password": {"wrong"}})
	s.Equal(http.StatusUnauthorized, w.Code)
	_, body = s.get(bad, "/api/me")
	s.Nil(body["user"])

	cl := newClient()
	w, _ = s.postForm(cl, "/api/login", url.Values{"username": {"alice"}, "password": {"hunter22"}})
	s.Require().Equal(http.StatusOK, w.Code)

	_, body = s.get(cl, "/api/me")
	s.Equal("alice", userField(body, "username"))
	s.Equal("alice@example.com", userField(body, "email"))

	w, _ = s.postForm(cl, "/api/logout", nil)
	s.Equal(http.StatusOK, w.Code)
	_, body = s.get(cl, "/api/me")
	s.Nil(body["user"])

	w, _ = s.get(cl, "/logout")
	s.Equal(http.StatusFound, w.Code)
}

func (s *APITestSuite) TestStaleSessionIsAnonymous() {
	cl := s.registerAndLogin("alice")
	u, err := s.db.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Require().NoError(s.db.DeleteUser(s.ctx, u.ID))

	w, body := s.get(cl, "/api/me")
	s.Equal(http.StatusOK, w.Code)
	s.Nil(body["user"])

	w, _ = s.postForm(cl, "/api/clans/1/join", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APITestSuite) TestAdminEventsGate() {
	event := url.Values{"title": {"LAN party"}, "description": {"Bring snacks"}, "date": {"2025-06-01"}}

	w, _ := s.postForm(newClient(), "/api/admin/events", event)
	s.Equal(http.StatusUnauthorized, w.Code)

	w, _ = s.postForm(s.registerAndLogin("alice"), "/api/admin/events", event)
	s.Equal(http.StatusForbidden, w.Code)

	_, body := s.get(nil, "/api/events")
	s.Empty(body["events"])

	admin := s.loginAdmin()
	w, _ = s.postForm(admin, "/api/admin/events", event)
	s.Equal(http.StatusCreated, w.Code)
	w, _ = s.postForm(admin, "/api/admin/events", url.Values{"title": {"Finals"}, "description": {"Cup"}, "date": {"soon"}})
	s.Equal(http.StatusCreated, w.Code)

	w, _ = s.postForm(admin, "/api/admin/events", url.Values{"title": {"incomplete"}})
	s.Equal(http.StatusBadRequest, w.Code)

	_, body = s.get(nil, "/api/events")
	events, _ := body["events"].([]any)
	s.Require().Len(events, 2)
	s.Equal("Finals", events[0].(map[string]any)["title"])
}

func (s *APITestSuite) TestClans() {
	leader := s.registerAndLogin("leader")
	member := s.registerAndLogin("member")

	w, _ := s.postMultipart(newClient(), "/api/clans", map[string]string{"name": "Wolves"}, "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w, body := s.postMultipart(leader, "/api/clans", map[string]string{"name": "Wolves", "slogan": "Hunt together"}, "logo", testPNG())
	s.Require().Equal(http.StatusCreated, w.Code)
	clan := body["clan"].(map[string]any)
	s.True(strings.HasPrefix(clan["logo"].(string), storage.URLPrefix))
	clanID := clan["id"].(float64)
	s.Equal(float64(1), clanID)

	w, _ = s.postMultipart(member, "/api/clans", map[string]string{"name": "Wolves"}, "", nil)
	s.Equal(http.StatusConflict, w.Code)

	w, _ = s.postForm(member, "/api/clans/99/join", nil)
	s.Equal(http.StatusNotFound, w.Code)
	w, _ = s.postForm(member, "/api/clans/abc/join", nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w, body = s.postForm(member, "/api/clans/1/join", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(clanID, userField(body, "clanId"))

	_, body = s.get(nil, "/api/clans/1")
	s.Equal(float64(2), body["clan"].(map[string]any)["memberCount"])

	_, body = s.get(nil, "/api/clans")
	s.Len(body["clans"], 1)

	w, _ = s.get(nil, "/api/clans/99")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APITestSuite) TestLeaderboard() {
	s.registerAndLogin("a")
	s.registerAndLogin("b")

	w, body := s.get(nil, "/api/leaderboard")
	s.Require().Equal(http.StatusOK, w.Code)
	rows := body["leaderboard"].([]any)
	s.Require().Len(rows, 2)
	s.Equal("a", rows[0].(map[string]any)["username"])
	s.Equal(float64(1), rows[0].(map[string]any)["position"])
	s.NotContains(w.Body.String(), "email")
}

func (s *APITestSuite) TestProfile() {
	cl := s.registerAndLogin("alice")

	w, body := s.postMultipart(cl, "/api/profile", map[string]string{"rank": "General"}, "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("General", userField(body, "rank"))
	s.Equal(true, userField(body, "rankOverridden"))

	w, body = s.postMultipart(cl, "/api/profile/picture", nil, "profile_pic", testPNG())
	s.Require().Equal(http.StatusOK, w.Code)
	s.True(strings.HasPrefix(userField(body, "profilePic").(string), storage.URLPrefix))
	s.Equal("General", userField(body, "rank"))

	w, _ = s.postMultipart(cl, "/api/profile/picture", nil, "", nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w, _ = s.postMultipart(cl, "/api/profile/picture", nil, "profile_pic", []byte("not an image"))
	s.Equal(http.StatusBadRequest, w.Code)

	w, _ = s.postMultipart(newClient(), "/api/profile", map[string]string{"rank": "General"}, "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APITestSuite) TestProfilePictureReplacesPreviousUpload() {
	cl := s.registerAndLogin("alice")

	_, body := s.postMultipart(cl, "/api/profile/picture", nil, "profile_pic", testPNG())
	first := userField(body, "profilePic").(string)
	s.Require().True(s.uploadExists(first))

	w, body := s.postMultipart(cl, "/api/profile", map[string]string{"rank": "Captain"}, "profile_pic", testPNG())
	s.Require().Equal(http.StatusOK, w.Code)
	second := userField(body, "profilePic").(string)
	s.NotEqual(first, second)

	s.True(s.uploadExists(second))
	s.False(s.uploadExists(first))
	s.Equal(1, s.uploadCount())

	w, _ = s.postMultipart(cl, "/api/profile", map[string]string{"rank": "Major"}, "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.True(s.uploadExists(second))
}

func (s *APITestSuite) TestCreateClan_KeepsLogoOfPartiallySavedClan() {
	leader := s.registerAndLogin("leader")
	s.db.SetUserClanError = errors.New("link failed")

	w, _ := s.postMultipart(leader, "/api/clans", map[string]string{"name": "Wolves"}, "logo", testPNG())
	s.Equal(http.StatusInternalServerError, w.Code)

	clan, err := s.db.GetClanByID(s.ctx, 1)
	s.Require().NoError(err)
	s.True(strings.HasPrefix(clan.Logo, storage.URLPrefix))
	s.True(s.uploadExists(clan.Logo))
}

func (s *APITestSuite) TestCreateClan_DiscardsLogoOnConflict() {
	leader := s.registerAndLogin("leader")
	other := s.registerAndLogin("other")

	w, _ := s.postMultipart(leader, "/api/clans", map[string]string{"name": "Wolves"}, "logo", testPNG())
	s.Require().Equal(http.StatusCreated, w.Code)
	s.Equal(1, s.uploadCount())

	w, _ = s.postMultipart(other, "/api/clans", map[string]string{"name": "Wolves"}, "logo", testPNG())
	s.Equal(http.StatusConflict, w.Code)
	s.Equal(1, s.uploadCount())
}

func (s *APITestSuite) TestContact() {
	w, body := s.postForm(nil, "/api/contact", url.Values{
		"name":    {"Ann"},
		"email":   {"ann@example.com"},
		"message": {"Hello"},
	})
	s.Equal(http.StatusOK, w.Code)
	s.Equal(true, body["success"])

	w, _ = s.postForm(nil, "/api/contact", url.Values{"name": {"Ann"}})
	s.Equal(http.StatusBadRequest, w.Code)
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func (s *APITestSuite) TestBundledDefaultImages() {
	w, _ := s.get(nil, gravatar.DefaultAvatar)
	s.Equal(http.StatusOK, w.Code)
	w, _ = s.get(nil, engine.DefaultClanLogo)
	s.Equal(http.StatusOK, w.Code)
}
