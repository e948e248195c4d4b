package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/auth"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/logic"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/store"
)

type UserHandler struct {
	userLogic  *logic.UserLogic
	store      *store.ProjectStore
	jwtManager *auth.JWTManager
}

func NewUserHandler(userLogic *logic.UserLogic, s *store.ProjectStore, jwtManager *auth.JWTManager) *UserHandler {
	return &UserHandler{
		userLogic:  userLogic,
		store:      s,
		jwtManager: jwtManager,
	}
}

// Register creates an account and returns a session token.
func (h *UserHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userLogic.Register(c.Request.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}

	token, err := h.jwtManager.Generate(user.ID, user.Email)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

// Login authenticates and returns a session token.
func (h *UserHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userLogic.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}

	token, err := h.jwtManager.Generate(user.ID, user.Email)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// GetProfile returns the caller's own account with their created and
// backed project lists.
func (h *UserHandler) GetProfile(c *gin.Context) {
	callerID := c.GetUint(CallerIDKey)

	user, err := h.userLogic.Get(c.Request.Context(), callerID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	created, err := h.store.CreatedBy(c.Request.Context(), callerID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	backed, err := h.userLogic.BackedProjects(c.Request.Context(), callerID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":             user,
		"created_projects": toProjectViewList(created),
		"backed_projects":  backed,
	})
}

// UpdateProfile applies a patch to the caller's own account.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := logic.ProfilePatch{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Bio:      req.Bio,
		Location: req.Location,
		Website:  req.Website,
		Avatar:   req.Avatar,
	}

	user, err := h.userLogic.UpdateProfile(c.Request.Context(), c.GetUint(CallerIDKey), patch)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GetUser returns a public user profile with their created projects.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := h.userLogic.Get(c.Request.Context(), uint(id))
	if err != nil {
		abortWithError(c, err)
		return
	}

	created, err := h.store.CreatedBy(c.Request.Context(), uint(id))
	if err != nil {
		abortWithError(c, err)
		return
	}

	// Public view: never expose email or credential material here.
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":        user.ID,
			"full_name": user.FullName,
			"bio":       user.Bio,
			"location":  user.Location,
			"website":   user.Website,
			"avatar":    user.Avatar,
		},
		"created_projects": toProjectViewList(created),
	})
}
