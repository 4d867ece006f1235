// Package search provides the unified content search bounded context.
package search

import (
	apphttp "starlore_backend/internal/http"
	"starlore_backend/internal/search/handler"
	"starlore_backend/internal/search/repository"
	"starlore_backend/internal/search/service"
	"starlore_backend/platform/config"
	"starlore_backend/platform/logger"
	"starlore_backend/platform/searchidx"
	"starlore_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the search bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the search module.
func NewModule(pool *pgxpool.Pool, indexes *searchidx.Indexes, val *validator.Validator, cfg config.SearchConfig, log *logger.Logger) *Module {
	// Source order fixes the concatenation order of merged results.
	sources := []repository.Source{
		repository.NewFactSource(pool, indexes.Facts()),
		repository.NewTopicSource(pool, indexes.Topics()),
		repository.NewGameSource(pool, indexes.Games()),
	}
	categories := repository.NewCategoryRepo(pool)

	svc := service.New(sources, categories, log, cfg.GetSearchSourceTimeout())
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "search"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts search routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/search")
	group.GET("", m.handler.Search)
	group.GET("/categories", m.handler.ListCategories)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
