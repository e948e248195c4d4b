package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/ledger"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/model"
	"github.com/gmallikarjunreddy/fundaroo-collective/internal/store"
)

// CallerIDKey is the gin context key the auth middleware fills with the
// authenticated user id.
const CallerIDKey = "callerID"

type ProjectHandler struct {
	store  *store.ProjectStore
	ledger *ledger.Ledger
}

func NewProjectHandler(s *store.ProjectStore, l *ledger.Ledger) *ProjectHandler {
	return &ProjectHandler{store: s, ledger: l}
}

// GetProjects lists projects, optionally filtered by category and a
// title search term.
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	filter := store.ListFilter{
		Category:   c.Query("category"),
		SearchText: c.Query("search"),
	}

	projects, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": toProjectViewList(projects)})
}

// GetFeaturedProjects returns the landing-page selection.
func (h *ProjectHandler) GetFeaturedProjects(c *gin.Context) {
	projects, err := h.store.Featured(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": toProjectViewList(projects)})
}

// GetProject returns a single project with backers, rewards and derived
// funding metrics.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	project, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": toProjectView(project)})
}

// CreateProject creates a project owned by the caller.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req createProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !model.ValidCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}

	project := model.Project{
		Title:           req.Title,
		Description:     req.Description,
		FullDescription: req.FullDescription,
		Category:        req.Category,
		ImageSrc:        req.ImageSrc,
		Goal:            req.Goal,
		EndDate:         req.EndDate,
		Rewards:         req.Rewards,
		CreatorID:       c.GetUint(CallerIDKey),
	}

	if err := h.store.Create(c.Request.Context(), &project); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": toProjectView(&project)})
}

// UpdateProject applies a patch to a project the caller owns.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	var req updateProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Category != nil && !model.ValidCategory(*req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}

	patch := store.ProjectPatch{
		Title:           req.Title,
		Description:     req.Description,
		FullDescription: req.FullDescription,
		Category:        req.Category,
		ImageSrc:        req.ImageSrc,
		Rewards:         req.Rewards,
	}

	project, err := h.store.UpdateFields(c.Request.Context(), id, c.GetUint(CallerIDKey), patch)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": toProjectView(project)})
}

// DeleteProject removes a project the caller owns.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	if err := h.store.Delete(c.Request.Context(), id, c.GetUint(CallerIDKey)); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "project removed"})
}

// BackProject pledges the given amount from the caller to a project.
func (h *ProjectHandler) BackProject(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	var req backProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.ledger.Pledge(c.Request.Context(), id, c.GetUint(CallerIDKey), req.Amount, req.IdempotencyKey)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "project backed successfully",
		"project": toProjectView(project),
	})
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}
