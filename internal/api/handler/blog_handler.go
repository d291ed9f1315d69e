package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cedarcrest-hospital/portal/internal/api/metrics"
	"github.com/cedarcrest-hospital/portal/internal/api/middleware"
	"github.com/cedarcrest-hospital/portal/internal/core/ports"
)

const defaultPerPage = 6

// BlogHandler serves the public blog and the admin editor's data calls.
type BlogHandler struct {
	service ports.BlogService
	log     zerolog.Logger
}

func NewBlogHandler(service ports.BlogService, log zerolog.Logger) *BlogHandler {
	return &BlogHandler{service: service, log: log}
}

type blogPostRequest struct {
	Title         string   `json:"title" validate:"required,max=200"`
	Description   string   `json:"description" validate:"required,max=500"`
	Content       string   `json:"content" validate:"required"`
	Tags          []string `json:"tags" validate:"max=20,dive,max=40"`
	FeaturedImage string   `json:"featuredImage" validate:"omitempty,url"`
	Author        string   `json:"author"`
}

// List returns one page of posts, newest first.
//
// @Summary      List blog posts
// @Tags         blog
// @Produce      json
// @Param        page      query     int  false  "Page (1-based)"
// @Param        per_page  query     int  false  "Posts per page"
// @Success      200       {object}  ports.BlogPage
// @Router       /api/blog [get]
func (h *BlogHandler) List(c echo.Context) error {
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", defaultPerPage)

	result, err := h.service.List(c.Request().Context(), page, perPage)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Get returns a single post.
//
// @Summary      Get a blog post
// @Tags         blog
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  dataResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/blog/{id} [get]
func (h *BlogHandler) Get(c echo.Context) error {
	post, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dataResponse{Data: post})
}

// Create publishes a new post.
//
// @Summary      Create a blog post
// @Tags         blog
// @Accept       json
// @Produce      json
// @Param        body  body      blogPostRequest  true  "Post"
// @Success      201   {object}  dataResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/admin/blog [post]
func (h *BlogHandler) Create(c echo.Context) error {
	var req blogPostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.service.Create(c.Request().Context(), toBlogInput(c, req))
	if err != nil {
		return err
	}
	metrics.BlogWritesTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, dataResponse{Message: "Post published", Data: post})
}

// Update rewrites an existing post.
//
// @Summary      Update a blog post
// @Tags         blog
// @Accept       json
// @Produce      json
// @Param        id    path      string           true  "Post ID"
// @Param        body  body      blogPostRequest  true  "Post"
// @Success      200   {object}  dataResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/admin/blog/{id} [put]
func (h *BlogHandler) Update(c echo.Context) error {
	var req blogPostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.service.Update(c.Request().Context(), c.Param("id"), toBlogInput(c, req))
	if err != nil {
		return err
	}
	metrics.BlogWritesTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, dataResponse{Message: "Post updated", Data: post})
}

// Delete removes a post.
//
// @Summary      Delete a blog post
// @Tags         blog
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/blog/{id} [delete]
func (h *BlogHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	metrics.BlogWritesTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Post deleted"})
}

// toBlogInput fills in the author from the signed-in user when the form
// leaves it blank.
func toBlogInput(c echo.Context, req blogPostRequest) ports.BlogPostInput {
	author := req.Author
	if author == "" {
		if s := middleware.SessionFrom(c); s != nil && s.User() != nil {
			author = s.User().FullName
		}
	}
	return ports.BlogPostInput{
		Title:         req.Title,
		Description:   req.Description,
		Content:       req.Content,
		Tags:          req.Tags,
		FeaturedImage: req.FeaturedImage,
		Author:        author,
	}
}

func queryInt(c echo.Context, name string, def int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || v < 1 {
		return def
	}
	return v
}
