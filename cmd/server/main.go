package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"runtime/debug"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/lemu/seamless-sea-sub000/internal/server"
	"github.com/lemu/seamless-sea-sub000/modules"
	"github.com/lemu/seamless-sea-sub000/modules/chartering"
	"github.com/lemu/seamless-sea-sub000/pkg/application"
	"github.com/lemu/seamless-sea-sub000/pkg/configuration"
	"github.com/lemu/seamless-sea-sub000/pkg/eventbus"
	"github.com/lemu/seamless-sea-sub000/pkg/metrics"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}

	var redisClient redis.UniversalClient
	if conf.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{Addr: conf.Redis.URL})
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
		Huber: application.NewHub(&application.HuberOptions{
			Logger: logger,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		}),
	})
	builtIn := modules.BuiltInModules(&chartering.ModuleOptions{
		Redis:               redisClient,
		GlobalPinnedFilters: conf.Grid.GlobalPinnedFilters,
	})
	if err := modules.Load(app, builtIn...); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}
	if err := app.RunMigrations(context.Background()); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	options := &server.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
		Pool:          pool,
	}
	serverInstance, err := server.Default(options)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	log.Printf("Listening on: %s\n", conf.SocketAddress)
	if err := serverInstance.Start(conf.SocketAddress); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
