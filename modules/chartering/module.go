package chartering

import (
	"embed"

	"github.com/redis/go-redis/v9"

	"github.com/lemu/seamless-sea-sub000/modules/chartering/domain/entities/bookmark"
	"github.com/lemu/seamless-sea-sub000/modules/chartering/infrastructure/persistence"
	"github.com/lemu/seamless-sea-sub000/modules/chartering/presentation/controllers"
	"github.com/lemu/seamless-sea-sub000/modules/chartering/services"
	"github.com/lemu/seamless-sea-sub000/pkg/application"
	"github.com/lemu/seamless-sea-sub000/pkg/configuration"
)

//go:embed infrastructure/persistence/schema/*.sql
var MigrationFiles embed.FS

type ModuleOptions struct {
	Redis redis.UniversalClient
	// GlobalPinnedFilters is the pinned set system bookmarks present.
	GlobalPinnedFilters []string
}

func NewModule(opts *ModuleOptions) application.Module {
	if opts == nil {
		opts = &ModuleOptions{}
	}
	return &Module{opts: opts}
}

type Module struct {
	opts *ModuleOptions
}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()

	app.RegisterMigrations(MigrationFiles, "infrastructure/persistence/schema")

	fixtureRepo := persistence.NewFixtureRepository()
	queryService := services.NewFixtureQueryService(fixtureRepo)
	bookmarkService := services.NewBookmarkService(persistence.NewBookmarkRepository(), app.EventPublisher())
	countService := services.NewCountService(fixtureRepo, m.opts.Redis, conf.Redis.CountTTL)
	facetService := services.NewFacetService(fixtureRepo, m.opts.Redis, conf.Redis.FacetTTL)
	sessionService := services.NewGridSessionService(services.GridSessionConfig{
		Bookmarks:           bookmarkService,
		Counts:              countService,
		Hub:                 app.Websocket(),
		Logger:              app.Logger(),
		GlobalPinnedFilters: m.opts.GlobalPinnedFilters,
		PageSize:            conf.Grid.PageSize,
		MinLoadingVisible:   conf.Grid.MinLoadingVisible,
	})
	exportService := services.NewExportService(queryService, services.ExportConfig{
		MaxRows:   conf.Export.MaxRows,
		SheetName: conf.Export.SheetName,
	})

	app.RegisterServices(
		queryService,
		bookmarkService,
		countService,
		facetService,
		sessionService,
		exportService,
	)
	app.RegisterControllers(
		controllers.NewGridController(app),
		controllers.NewFixturesController(app),
		controllers.NewExportController(app),
		controllers.NewWebsocketController(app),
	)

	registerInvalidationFanout(app)
	return nil
}

func (m *Module) Name() string {
	return "chartering"
}

// Bookmark mutations are fanned out to every connected grid so stale
// bookmark lists refresh without polling.
func registerInvalidationFanout(app application.Application) {
	hub := app.Websocket()
	if hub == nil {
		return
	}
	broadcast := func(kind string, payload any) {
		hub.Broadcast(application.ChannelGrid, application.InvalidationEvent{
			Kind:    kind,
			Payload: payload,
		})
	}
	bus := app.EventPublisher()
	bus.Subscribe(func(ev *bookmark.CreatedEvent) {
		broadcast("bookmark.created", ev.Result.ID)
	})
	bus.Subscribe(func(ev *bookmark.UpdatedEvent) {
		broadcast("bookmark.updated", ev.Result.ID)
	})
	bus.Subscribe(func(ev *bookmark.RenamedEvent) {
		broadcast("bookmark.renamed", ev.ID)
	})
	bus.Subscribe(func(ev *bookmark.DeletedEvent) {
		broadcast("bookmark.deleted", ev.ID)
	})
	bus.Subscribe(func(ev *bookmark.DefaultSetEvent) {
		broadcast("bookmark.default", ev.ID)
	})
}
