package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/ccoveille/go-safecast"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/mmc-gaming/clanhub/internal/api/auth"
	"github.com/mmc-gaming/clanhub/internal/api/models"
	"github.com/mmc-gaming/clanhub/internal/credentials"
	"github.com/mmc-gaming/clanhub/internal/engine"
	"github.com/mmc-gaming/clanhub/internal/storage"
)

type Handler struct {
	engine  *engine.Engine
	storage *storage.Store
}

func New(eng *engine.Engine, store *storage.Store) *Handler {
	return &Handler{
		engine:  eng,
		storage: store,
	}
}

type registerRequest struct {
	Username string `form:"username" json:"username" binding:"required,max=32"`
	Email    string `form:"email" json:"email" binding:"required,email,max=254"`
	Password string `form:"password" json:"password" binding:"required,max=72"`
}

type loginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

type createClanRequest struct {
	Name   string `form:"name" binding:"required,max=64"`
	Slogan string `form:"slogan" binding:"max=256"`
}

type profileRequest struct {
	Rank *string `form:"rank" binding:"omitempty,max=64"`
}

type eventRequest struct {
	Title       string `form:"title" json:"title" binding:"required,max=200"`
	Description string `form:"description" json:"description" binding:"required"`
	Date        string `form:"date" json:"date" binding:"required,max=64"`
}

type contactRequest struct {
	Name    string `form:"name" json:"name" binding:"required,max=100"`
	Email   string `form:"email" json:"email" binding:"required,email"`
	Message string `form:"message" json:"message" binding:"required,max=5000"`
}

// Register creates a new account. The user still has to log in.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Username, a valid email and a password are required")
		return
	}

	user, err := h.engine.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Registration successful, please log in",
		"user":    models.ToProfileView(user),
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Username and password are required")
		return
	}

	user, err := h.engine.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := auth.Login(c, user); err != nil {
		log.Error("Failed to save session", "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    models.ToProfileView(user),
	})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := auth.Logout(c); err != nil {
		log.Error("Failed to clear session", "error", err)
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out",
	})
}

// LogoutRedirect clears the session and sends the browser home.
func (h *Handler) LogoutRedirect(c *gin.Context) {
	if err := auth.Logout(c); err != nil {
		log.Error("Failed to clear session", "error", err)
	}
	c.Redirect(http.StatusFound, "/")
}

// Me returns the logged in user, or null for anonymous sessions.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    models.ToProfileView(auth.User(c)),
	})
}

func (h *Handler) Leaderboard(c *gin.Context) {
	users, err := h.engine.RankedUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"leaderboard": models.ToLeaderboard(users),
	})
}

func (h *Handler) ListClans(c *gin.Context) {
	clans, err := h.engine.ListClans(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"clans":   models.ToClanViews(clans),
	})
}

func (h *Handler) GetClan(c *gin.Context) {
	clanID, err := parseUintParam(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid clan ID")
		return
	}
	clan, err := h.engine.GetClan(c.Request.Context(), clanID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"clan":    models.ToClanView(*clan),
	})
}

// CreateClan creates a clan led by the current user. Expects a multipart
// form with name, slogan and an optional logo file.
func (h *Handler) CreateClan(c *gin.Context) {
	var req createClanRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Clan name is required")
		return
	}

	logoRef, ok := h.saveUpload(c, "logo", false)
	if !ok {
		return
	}

	clan, err := h.engine.CreateClan(c.Request.Context(), auth.User(c), req.Name, req.Slogan, logoRef)
	if err != nil {
		// an inconsistent clan row still points at the logo
		if !errors.Is(err, engine.ErrInconsistency) {
			h.discardUpload(logoRef)
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"clan":    models.ToClanView(*clan),
	})
}

func (h *Handler) JoinClan(c *gin.Context) {
	clanID, err := parseUintParam(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid clan ID")
		return
	}

	user, err := h.engine.JoinClan(c.Request.Context(), auth.User(c), clanID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Joined clan",
		"user":    models.ToProfileView(user),
	})
}

// UpdateProfile sets a custom rank label and/or a new profile picture.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid profile data")
		return
	}

	picRef, ok := h.saveUpload(c, "profile_pic", false)
	if !ok {
		return
	}
	h.applyProfile(c, req.Rank, picRef)
}

// UploadProfilePicture replaces the profile picture of the current user.
func (h *Handler) UploadProfilePicture(c *gin.Context) {
	picRef, ok := h.saveUpload(c, "profile_pic", true)
	if !ok {
		return
	}
	h.applyProfile(c, nil, picRef)
}

func (h *Handler) applyProfile(c *gin.Context, rankLabel *string, picRef string) {
	user, replaced, err := h.engine.UpdateProfile(c.Request.Context(), auth.User(c), rankLabel, &picRef)
	if err != nil {
		h.discardUpload(picRef)
		respondError(c, err)
		return
	}
	h.discardUpload(replaced)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated",
		"user":    models.ToProfileView(user),
	})
}

func (h *Handler) ListEvents(c *gin.Context) {
	events, err := h.engine.ListEvents(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"events":  models.ToEventViews(events),
	})
}

func (h *Handler) AddEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Title, description and date are required")
		return
	}

	event, err := h.engine.AddEvent(c.Request.Context(), auth.User(c), req.Title, req.Description, req.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"event":   models.ToEventView(*event),
	})
}

func (h *Handler) Contact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Name, a valid email and a message are required")
		return
	}

	if err := h.engine.Contact(c.Request.Context(), auth.User(c), req.Name, req.Email, req.Message); err != nil {
		log.Error("Failed to deliver contact message", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   "Message could not be delivered, please try again later",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Thanks for reaching out, we will get back to you soon",
	})
}

// saveUpload stores the image in the given form field and returns its
// reference. A missing optional file yields an empty reference. On failure
// the response is written and ok is false.
func (h *Handler) saveUpload(c *gin.Context, field string, required bool) (ref string, ok bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		missing := errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart)
		if missing && !required {
			return "", true
		}
		badRequest(c, "No file uploaded")
		return "", false
	}
	if fh.Size > h.storage.MaxSize() {
		respondUploadError(c, storage.ErrTooLarge)
		return "", false
	}

	ref, err = h.storeFile(c, fh)
	if err != nil {
		respondUploadError(c, err)
		return "", false
	}
	return ref, true
}

func (h *Handler) storeFile(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close() //nolint:errcheck
	return h.storage.Save(c.Request.Context(), f, fh.Filename)
}

func (h *Handler) discardUpload(ref string) {
	if ref == "" {
		return
	}
	if err := h.storage.Remove(ref); err != nil {
		log.Warn("Failed to remove upload", "ref", ref, "error", err)
	}
}

func respondUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, storage.ErrNotAnImage):
		badRequest(c, "Uploaded file is not a supported image")
	default:
		log.Error("Failed to store upload", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to store upload"})
	}
}

// respondError maps engine errors to HTTP notices.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := "Internal server error"

	switch {
	case errors.Is(err, engine.ErrDuplicate):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, engine.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, "Invalid username or password"
	case errors.Is(err, engine.ErrAuthRequired):
		status, msg = http.StatusUnauthorized, err.Error()
	case errors.Is(err, engine.ErrForbidden):
		status, msg = http.StatusForbidden, err.Error()
	case errors.Is(err, engine.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, credentials.ErrPasswordTooLong):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, engine.ErrInconsistency):
		msg = "The action was only partially applied, please contact an admin"
	default:
		log.Error("Request failed", "path", c.FullPath(), "error", err)
	}

	c.JSON(status, gin.H{
		"success": false,
		"error":   msg,
	})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   msg,
	})
}

func parseUintParam(param string) (uint, error) {
	id, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return 0, err
	}
	return safecast.ToUint(id)
}
