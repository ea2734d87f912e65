package router

import (
	"context"
	"net/http"
	"strconv"

	"github.com/DjordjeVuckovic/video-hunter/internal/apperr"
	"github.com/DjordjeVuckovic/video-hunter/internal/clicklog"
	"github.com/DjordjeVuckovic/video-hunter/internal/search"
	"github.com/labstack/echo/v4"
)

type Searcher interface {
	Search(ctx context.Context, query string, k int) (*search.Response, error)
}

type SearchRouter struct {
	e        *echo.Echo
	searcher Searcher
	clicks   clicklog.Store
}

type SearchRouterOption func(*SearchRouter)

func WithClickStore(s clicklog.Store) SearchRouterOption {
	return func(r *SearchRouter) {
		r.clicks = s
	}
}

func NewSearchRouter(e *echo.Echo, searcher Searcher, opts ...SearchRouterOption) *SearchRouter {
	r := &SearchRouter{
		e:        e,
		searcher: searcher,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *SearchRouter) Bind() {
	r.e.GET("/search", r.searchHandler)
	if r.clicks != nil {
		r.e.POST("/clicks", r.clickHandler)
	}
}

// searchHandler godoc
// @Summary Search videos by text
// @Tags search
// @Produce json
// @Param query query string true "free-text query"
// @Param k query int false "number of results" default(10)
// @Success 200 {object} search.Response
// @Failure 400 {object} apperr.ErrorResponse
// @Router /search [get]
func (r *SearchRouter) searchHandler(c echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		return apperr.NewValidation("query parameter is required")
	}

	k := 0
	if raw := c.QueryParam("k"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return apperr.NewValidation("k must be a positive integer")
		}
		k = v
	}

	resp, err := r.searcher.Search(c.Request().Context(), query, k)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

type ClickRequest struct {
	Query     string   `json:"query"`
	VideoPath string   `json:"video_path"`
	Ranking   []string `json:"ranking"`
}

// clickHandler godoc
// @Summary Record a watched result
// @Tags clicks
// @Accept json
// @Produce json
// @Param click body ClickRequest true "clicked video and the ranking it was shown in"
// @Success 201 {object} clicklog.Entry
// @Failure 400 {object} apperr.ErrorResponse
// @Router /clicks [post]
func (r *SearchRouter) clickHandler(c echo.Context) error {
	var req ClickRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	entry, err := clicklog.NewEntry(req.Query, req.VideoPath, req.Ranking)
	if err != nil {
		return err
	}

	if err := r.clicks.Append(c.Request().Context(), entry); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, entry)
}
