package application

import (
	"context"
	"fmt"
	"io/fs"
	"reflect"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"github.com/lemu/seamless-sea-sub000/pkg/eventbus"
)

// Controller mounts a set of routes under the application router.
type Controller interface {
	Key() string
	Register(r *mux.Router)
}

// Module wires a feature area (services, controllers, migrations) into the app.
type Module interface {
	Name() string
	Register(app Application) error
}

type SeedFunc func(ctx context.Context, app Application) error

type Seeder interface {
	Register(seedFuncs ...SeedFunc)
	Seed(ctx context.Context, app Application) error
}

type Application interface {
	DB() *pgxpool.Pool
	EventPublisher() eventbus.EventBus
	Logger() *logrus.Logger
	Websocket() Huber

	Controllers() []Controller
	Middleware() []mux.MiddlewareFunc

	RegisterControllers(controllers ...Controller)
	RegisterMiddleware(middleware ...mux.MiddlewareFunc)
	RegisterServices(services ...interface{})
	RegisterMigrations(fsys fs.FS, dir string)

	Service(service interface{}) interface{}
	Services() map[reflect.Type]interface{}

	RunMigrations(ctx context.Context) error
}

type ApplicationOptions struct {
	Pool     *pgxpool.Pool
	EventBus eventbus.EventBus
	Logger   *logrus.Logger
	Huber    Huber
}

func New(opts *ApplicationOptions) Application {
	return &application{
		pool:           opts.Pool,
		eventPublisher: opts.EventBus,
		logger:         opts.Logger,
		websocket:      opts.Huber,
		controllers:    make(map[string]Controller),
		services:       make(map[reflect.Type]interface{}),
	}
}

// application with a dynamically extendable service registry
type application struct {
	pool           *pgxpool.Pool
	eventPublisher eventbus.EventBus
	logger         *logrus.Logger
	websocket      Huber
	services       map[reflect.Type]interface{}
	controllers    map[string]Controller
	middleware     []mux.MiddlewareFunc
	migrationFS    []fs.FS
	migrationDirs  []string
}

func (app *application) DB() *pgxpool.Pool {
	return app.pool
}

func (app *application) EventPublisher() eventbus.EventBus {
	return app.eventPublisher
}

func (app *application) Logger() *logrus.Logger {
	return app.logger
}

func (app *application) Websocket() Huber {
	return app.websocket
}

func (app *application) Controllers() []Controller {
	controllers := make([]Controller, 0, len(app.controllers))
	for _, c := range app.controllers {
		controllers = append(controllers, c)
	}
	return controllers
}

func (app *application) Middleware() []mux.MiddlewareFunc {
	return app.middleware
}

func (app *application) RegisterControllers(controllers ...Controller) {
	for _, c := range controllers {
		app.controllers[c.Key()] = c
	}
}

func (app *application) RegisterMiddleware(middleware ...mux.MiddlewareFunc) {
	app.middleware = append(app.middleware, middleware...)
}

// RegisterServices registers a new service in the application by its type
func (app *application) RegisterServices(services ...interface{}) {
	for _, service := range services {
		serviceType := reflect.TypeOf(service).Elem()
		app.services[serviceType] = service
	}
}

// Service retrieves a service by its type
func (app *application) Service(service interface{}) interface{} {
	serviceType := reflect.TypeOf(service)
	svc, exists := app.services[serviceType]
	if !exists {
		panic(fmt.Sprintf("service %s not found", serviceType.Name()))
	}
	return svc
}

func (app *application) Services() map[reflect.Type]interface{} {
	return app.services
}

func (app *application) RegisterMigrations(fsys fs.FS, dir string) {
	app.migrationFS = append(app.migrationFS, fsys)
	app.migrationDirs = append(app.migrationDirs, dir)
}

func (app *application) RunMigrations(ctx context.Context) error {
	if len(app.migrationFS) == 0 {
		return nil
	}
	db := stdlib.OpenDBFromPool(app.pool)
	defer func() {
		if err := db.Close(); err != nil {
			app.logger.WithError(err).Error("failed to close migration connection")
		}
	}()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	for i, fsys := range app.migrationFS {
		goose.SetBaseFS(fsys)
		if err := goose.UpContext(ctx, db, app.migrationDirs[i]); err != nil {
			return fmt.Errorf("migrations in %s: %w", app.migrationDirs[i], err)
		}
	}
	goose.SetBaseFS(nil)
	return nil
}

// ---- Seeder implementation ----

func NewSeeder() Seeder {
	return &seeder{}
}

type seeder struct {
	seedFuncs []SeedFunc
}

func (s *seeder) Seed(ctx context.Context, app Application) error {
	for _, seedFunc := range s.seedFuncs {
		app.Logger().Infof("Seeding %s", reflect.TypeOf(seedFunc).Name())
		if err := seedFunc(ctx, app); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) Register(seedFuncs ...SeedFunc) {
	s.seedFuncs = append(s.seedFuncs, seedFuncs...)
}
