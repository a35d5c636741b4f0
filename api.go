package tioanime

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pevans/tioanime/library"
)

// APIServer exposes the catalog operations and the library over HTTP.
type APIServer struct {
	client  *Client
	store   *library.Store
	checker *Checker
	logger  *zap.Logger
}

// NewAPIServer creates a new API server. The library routes need store;
// they answer 503 when it is nil.
func NewAPIServer(client *Client, store *library.Store, logger *zap.Logger) *APIServer {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &APIServer{
		client: client,
		store:  store,
		logger: logger,
	}
	if store != nil {
		s.checker = NewChecker(client, store, nil, logger)
	}
	return s
}

// SetupRouter configures the Gin router with all API routes.
func (s *APIServer) SetupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	api := router.Group("/api/v1")
	api.GET("/anime/:id", s.HandleInfo)
	api.GET("/anime/:id/episodes/:chapter", s.HandleChapterLinks)
	api.GET("/search", s.HandleSearch)
	api.GET("/latest/:category", s.HandleLatest)
	api.POST("/filters", s.HandleFilters)
	api.GET("/schedule", s.HandleSchedule)

	lib := api.Group("/library", s.requireLibrary)
	lib.GET("", s.HandleListLibrary)
	lib.POST("", s.HandleFollow)
	lib.POST("/check", s.HandleCheck)
	lib.DELETE("/:slug", s.HandleUnfollow)

	return router
}

func (s *APIServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}

func (s *APIServer) requireLibrary(c *gin.Context) {
	if s.store == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable,
			errorResponse("unavailable", "Library storage is not configured"))
		return
	}
	c.Next()
}

// errorResponse creates a standardized error response.
func errorResponse(code, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}

// catalogErrorResponse renders a catalog error with its context fields
// next to the code and message.
func catalogErrorResponse(err *Error) gin.H {
	detail := gin.H{}
	for k, v := range err.Context {
		detail[k] = v
	}
	detail["code"] = err.Kind.String()
	detail["message"] = err.Message
	return gin.H{"error": detail}
}

// StatusForKind maps an error kind to its HTTP status.
func StatusForKind(kind Kind) int {
	switch kind {
	case KindNotFound, KindNoItems:
		return http.StatusNotFound
	case KindPageExceeded, KindInvalidParameter, KindValidation:
		return http.StatusBadRequest
	case KindInternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// handleError maps domain errors to HTTP responses.
func (s *APIServer) handleError(c *gin.Context, err error) {
	var catalogErr *Error
	switch {
	case errors.As(err, &catalogErr):
		if catalogErr.Kind == KindInternal || catalogErr.Kind == KindDefault {
			s.logger.Error("request failed",
				zap.String("path", c.Request.URL.Path), zap.Error(err))
		}
		c.JSON(StatusForKind(catalogErr.Kind), catalogErrorResponse(catalogErr))
	case errors.Is(err, library.ErrEntryNotFound):
		c.JSON(http.StatusNotFound, errorResponse("not_found", library.ErrEntryNotFound.Error()))
	case errors.Is(err, library.ErrDuplicateSlug):
		c.JSON(http.StatusConflict, errorResponse("conflict", library.ErrDuplicateSlug.Error()))
	case errors.Is(err, library.ErrEmptySlug):
		c.JSON(http.StatusBadRequest, errorResponse("validation_error", library.ErrEmptySlug.Error()))
	default:
		s.logger.Error("request failed",
			zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to process request"))
	}
}

// HandleInfo handles GET /api/v1/anime/:id.
func (s *APIServer) HandleInfo(c *gin.Context) {
	info, err := s.client.Info(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

// HandleChapterLinks handles GET /api/v1/anime/:id/episodes/:chapter.
func (s *APIServer) HandleChapterLinks(c *gin.Context) {
	chapter, err := strconv.Atoi(c.Param("chapter"))
	if err != nil || chapter < 0 {
		c.JSON(http.StatusBadRequest, errorResponse("invalid_parameter", "Invalid chapter: must be a non-negative integer"))
		return
	}

	links, err := s.client.ChapterLinks(c.Request.Context(), c.Param("id"), chapter)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, links)
}

// HandleSearch handles GET /api/v1/search?q=&page=.
func (s *APIServer) HandleSearch(c *gin.Context) {
	page := 1
	if pageParam := c.Query("page"); pageParam != "" {
		parsed, err := strconv.Atoi(pageParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid_parameter", "Invalid page parameter"))
			return
		}
		page = parsed
	}

	result, err := s.client.Search(c.Request.Context(), c.Query("q"), page)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleLatest handles GET /api/v1/latest/:category. Both "*" and "all"
// select every category.
func (s *APIServer) HandleLatest(c *gin.Context) {
	name := c.Param("category")
	if name == "all" {
		name = AllCategories
	}

	latest, err := s.client.LatestByName(c.Request.Context(), name)
	if err != nil {
		s.handleError(c, err)
		return
	}

	if name == AllCategories {
		c.JSON(http.StatusOK, latest)
		return
	}
	c.JSON(http.StatusOK, gin.H{name: latest.Items(Category(name))})
}

// HandleFilters handles POST /api/v1/filters. The body is validated against
// the filter schema before anything is fetched.
func (s *APIServer) HandleFilters(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("bad_request", err.Error()))
		return
	}

	result, err := s.client.SearchByRawFilters(c.Request.Context(), raw)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleSchedule handles GET /api/v1/schedule. An optional day parameter
// narrows the answer to one weekday.
func (s *APIServer) HandleSchedule(c *gin.Context) {
	var day *time.Weekday
	if dayParam := c.Query("day"); dayParam != "" {
		d, ok := ParseWeekday(dayParam)
		if !ok {
			c.JSON(http.StatusBadRequest, errorResponse("invalid_parameter", "Invalid day parameter"))
			return
		}
		day = &d
	}

	programming, err := s.client.WeeklyProgramming(c.Request.Context())
	if err != nil {
		s.handleError(c, err)
		return
	}

	if day != nil {
		c.JSON(http.StatusOK, gin.H{strings.ToLower(day.String()): programming.Day(*day)})
		return
	}
	c.JSON(http.StatusOK, programming)
}

// ListLibraryResponse represents the response for GET /api/v1/library.
// Total counts every followed title, not only the returned page.
type ListLibraryResponse struct {
	Entries []library.Entry `json:"entries"`
	Total   int             `json:"total"`
}

// FollowRequest represents the request for POST /api/v1/library.
type FollowRequest struct {
	Slug string `json:"slug" binding:"required"`
}

// CheckResponse represents the response for POST /api/v1/library/check.
type CheckResponse struct {
	Results []CheckResult `json:"results"`
	Updated int           `json:"updated"`
}

// HandleListLibrary handles GET /api/v1/library.
func (s *APIServer) HandleListLibrary(c *gin.Context) {
	filter := library.EntryFilter{}
	if limitParam := c.Query("limit"); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, errorResponse("invalid_parameter", "Invalid limit parameter"))
			return
		}
		filter.Limit = limit
	}
	if offsetParam := c.Query("offset"); offsetParam != "" {
		offset, err := strconv.Atoi(offsetParam)
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, errorResponse("invalid_parameter", "Invalid offset parameter"))
			return
		}
		filter.Offset = offset
	}

	entries, err := s.store.List(filter)
	if err != nil {
		s.handleError(c, err)
		return
	}

	total, err := s.store.Count()
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListLibraryResponse{
		Entries: entries,
		Total:   total,
	})
}

// HandleFollow handles POST /api/v1/library.
func (s *APIServer) HandleFollow(c *gin.Context) {
	var req FollowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("bad_request", err.Error()))
		return
	}

	entry, err := s.checker.Follow(c.Request.Context(), req.Slug)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// HandleUnfollow handles DELETE /api/v1/library/:slug.
func (s *APIServer) HandleUnfollow(c *gin.Context) {
	if err := s.store.Remove(c.Param("slug")); err != nil {
		s.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// HandleCheck handles POST /api/v1/library/check.
func (s *APIServer) HandleCheck(c *gin.Context) {
	results, err := s.checker.Check(c.Request.Context())
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, CheckResponse{
		Results: results,
		Updated: len(Updated(results)),
	})
}

// ParseWeekday parses an English weekday name in any case.
func ParseWeekday(name string) (time.Weekday, bool) {
	for _, d := range Weekdays {
		if strings.EqualFold(d.String(), name) {
			return d, true
		}
	}
	return time.Sunday, false
}
