package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/mmc-gaming/clanhub/internal/database"
	"github.com/mmc-gaming/clanhub/internal/engine"
	"github.com/stretchr/testify/suite"
)

type fakeLoader struct {
	users map[uint]*database.User
}

func (f *fakeLoader) GetUser(_ context.Context, id uint) (*database.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, engine.ErrNotFound
}

type SessionTestSuite struct {
	suite.Suite
	router *gin.Engine
	loader *fakeLoader
}

func (s *SessionTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.loader = &fakeLoader{users: map[uint]*database.User{}}

	s.router = gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	s.router.Use(sessions.Sessions("clanhub_session", store))
	s.router.Use(LoadUser(s.loader))

	s.router.POST("/login/:name", func(c *gin.Context) {
		for _, u := range s.loader.users {
			if u.Username == c.Param("name") {
				s.Require().NoError(Login(c, u))
			}
		}
		c.Status(http.StatusNoContent)
	})
	s.router.POST("/logout", func(c *gin.Context) {
		s.Require().NoError(Logout(c))
		c.Status(http.StatusNoContent)
	})
	s.router.GET("/me", func(c *gin.Context) {
		if u := User(c); u != nil {
			c.String(http.StatusOK, u.Username)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	s.router.GET("/private", RequireAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })
	s.router.GET("/admin", RequireAuth(), RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })
}

func (s *SessionTestSuite) addUser(id uint, name string, admin bool) {
	u := &database.User{Username: name, IsAdmin: admin}
	u.ID = id
	s.loader.users[id] = u
}

func (s *SessionTestSuite) do(method, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *SessionTestSuite) login(name string) []*http.Cookie {
	w := s.do(http.MethodPost, "/login/"+name, nil)
	s.Require().Equal(http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	s.Require().NotEmpty(cookies)
	return cookies
}

func (s *SessionTestSuite) TestAnonymous() {
	w := s.do(http.MethodGet, "/me", nil)
	s.Equal("anonymous", w.Body.String())

	w = s.do(http.MethodGet, "/private", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Contains(w.Body.String(), engine.ErrAuthRequired.Error())
}

func (s *SessionTestSuite) TestLoginAndLogout() {
	s.addUser(1, "alice", false)
	cookies := s.login("alice")

	w := s.do(http.MethodGet, "/me", cookies)
	s.Equal("alice", w.Body.String())
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/private", cookies).Code)

	w = s.do(http.MethodPost, "/logout", cookies)
	s.Require().Equal(http.StatusNoContent, w.Code)
	cleared := w.Result().Cookies()
	s.Require().NotEmpty(cleared)

	s.Equal("anonymous", s.do(http.MethodGet, "/me", cleared).Body.String())
}

func (s *SessionTestSuite) TestStaleSessionIsAnonymous() {
	s.addUser(7, "ghost", false)
	cookies := s.login("ghost")
	delete(s.loader.users, 7)

	w := s.do(http.MethodGet, "/me", cookies)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("anonymous", w.Body.String())

	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/private", cookies).Code)
}

func (s *SessionTestSuite) TestAdminGate() {
	s.addUser(1, "alice", false)
	s.addUser(2, "root", true)

	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/admin", nil).Code)
	s.Equal(http.StatusForbidden, s.do(http.MethodGet, "/admin", s.login("alice")).Code)
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/admin", s.login("root")).Code)
}

func TestSessionTestSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}
