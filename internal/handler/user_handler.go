package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/user-service/internal/domain"
	"github.com/prperemyshlev/user-service/internal/dto"
	"github.com/prperemyshlev/user-service/internal/service"
	"go.uber.org/zap"
)

// UserHandler handles user management requests
type UserHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// List returns every user
// @Summary List users
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param orderBy query string false "id, name, phone, createdAt or isActive"
// @Param order query string false "ASC or DESC"
// @Success 200 {array} domain.User
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortValidation(c, err)
		return
	}

	users, err := h.userService.List(c.Request.Context(), domain.ParseSort(q.OrderBy, q.Order))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// ListPage returns one page of users
// @Summary List users with pagination
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number, from 1"
// @Param limit query int false "Page size, 1 to 100"
// @Success 200 {object} dto.PaginatedUsersResponse
// @Router /users/list [get]
func (h *UserHandler) ListPage(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortValidation(c, err)
		return
	}

	resp, err := h.userService.ListPage(c.Request.Context(), domain.Page{Number: q.Page, Limit: q.Limit})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Search finds users by name, username or phone
// @Summary Search users
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param searchTerm query string false "Substring to look for"
// @Success 200 {array} domain.User
// @Router /users/search [get]
func (h *UserHandler) Search(c *gin.Context) {
	var q dto.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortValidation(c, err)
		return
	}

	users, err := h.userService.Search(c.Request.Context(), q.SearchTerm)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// Get returns a single user
// @Summary Get user by id
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path int true "User id"
// @Success 200 {object} domain.User
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Create adds a user
// @Summary Create user
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "New user"
// @Success 201 {object} domain.User
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortValidation(c, err)
		return
	}

	user, err := h.userService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// UpdateStatus activates or deactivates a user
// @Summary Update user status
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User id"
// @Param request body dto.UpdateStatusRequest true "New status"
// @Success 200 {object} dto.UpdateStatusResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{id}/status [patch]
func (h *UserHandler) UpdateStatus(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortValidation(c, err)
		return
	}

	resp, err := h.userService.UpdateStatus(c.Request.Context(), id, *req.Status)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Filter runs the dashboard filter
// @Summary Filter users
// @Description Clauses without a usable value are ignored. An empty or fully ignored list returns every user.
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.FilterRequest true "Filter clauses"
// @Success 200 {array} domain.User
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /users/filter [post]
func (h *UserHandler) Filter(c *gin.Context) {
	var req dto.FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortValidation(c, err)
		return
	}

	users, err := h.userService.Filter(c.Request.Context(), req.Clauses())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// FilterOptions lists the filterable fields and their operators
// @Summary Filter options
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.FilterOptionsResponse
// @Router /users/filter/options [get]
func (h *UserHandler) FilterOptions(c *gin.Context) {
	c.JSON(http.StatusOK, h.userService.FilterOptions())
}

// Export downloads the user list as PDF
// @Summary Export users
// @Tags users
// @Security BearerAuth
// @Produce application/pdf
// @Param orderBy query string false "id, name, phone, createdAt or isActive"
// @Param order query string false "ASC or DESC"
// @Success 200 {file} file
// @Router /users/export [get]
func (h *UserHandler) Export(c *gin.Context) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortValidation(c, err)
		return
	}

	doc, err := h.userService.Export(c.Request.Context(), domain.ParseSort(q.OrderBy, q.Order))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	filename := fmt.Sprintf("usuarios-%s.pdf", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", doc)
}

func userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: "id must be a positive integer",
		})
		return 0, false
	}
	return id, true
}
