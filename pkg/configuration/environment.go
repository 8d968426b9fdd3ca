package configuration

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/lemu/seamless-sea-sub000/pkg/logging"
)

const Production = "production"

var singleton = sync.OnceValue(func() *Configuration {
	c := &Configuration{}
	if err := c.load([]string{".env", ".env.local"}); err != nil {
		c.Unload()
		panic(err)
	}
	return c
})

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func LoadEnv(envFiles []string) (int, error) {
	existingFiles := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if fileExists(file) {
			existingFiles = append(existingFiles, file)
		}
	}

	if len(existingFiles) == 0 {
		return 0, nil
	}

	return len(existingFiles), godotenv.Load(existingFiles...)
}

type DatabaseOptions struct {
	Opts     string `env:"-"`
	Name     string `env:"DB_NAME" envDefault:"chartering"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
}

func (d *DatabaseOptions) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Name, d.Password,
	)
}

type RedisOptions struct {
	Enabled  bool          `env:"REDIS_CACHE_ENABLED" envDefault:"true"`
	URL      string        `env:"REDIS_URL" envDefault:"localhost:6379"`
	CountTTL time.Duration `env:"REDIS_COUNT_TTL" envDefault:"30s"`
	FacetTTL time.Duration `env:"REDIS_FACET_TTL" envDefault:"5m"`
}

type PrometheusOptions struct {
	Enabled bool   `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"false"`
	Path    string `env:"PROMETHEUS_METRICS_PATH" envDefault:"/debug/prometheus"`
}

// GridOptions tune the data-grid query surface shared by all fixture views.
type GridOptions struct {
	PageSize          int           `env:"GRID_PAGE_SIZE" envDefault:"25"`
	MaxPageSize       int           `env:"GRID_MAX_PAGE_SIZE" envDefault:"100"`
	MinLoadingVisible time.Duration `env:"GRID_MIN_LOADING_VISIBLE" envDefault:"300ms"`
	// Filter ids every system bookmark carries as its pinned set.
	GlobalPinnedFilters []string `env:"GRID_GLOBAL_PINNED_FILTERS" envSeparator:"," envDefault:"status,vessels,owners,charterers"`
}

func (g *GridOptions) Validate() error {
	if g.PageSize <= 0 {
		return fmt.Errorf("grid PageSize must be positive, got %d", g.PageSize)
	}
	if g.MaxPageSize < g.PageSize {
		return fmt.Errorf("grid MaxPageSize %d is below PageSize %d", g.MaxPageSize, g.PageSize)
	}
	return nil
}

type ExportOptions struct {
	MaxRows   int    `env:"EXPORT_MAX_ROWS" envDefault:"50000"`
	SheetName string `env:"EXPORT_SHEET_NAME" envDefault:"Fixtures"`
}

type Configuration struct {
	Database   DatabaseOptions
	Redis      RedisOptions
	Prometheus PrometheusOptions
	Grid       GridOptions
	Export     ExportOptions

	MigrationsDir    string `env:"MIGRATIONS_DIR" envDefault:"migrations"`
	ServerPort       int    `env:"PORT" envDefault:"3200"`
	GoAppEnvironment string `env:"GO_APP_ENV" envDefault:"development"`
	SocketAddress    string `env:"-"`
	Domain           string `env:"DOMAIN" envDefault:"localhost"`
	AllowedOrigins   string `env:"ALLOWED_ORIGINS" envDefault:"*"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"error"`
	LogPath          string `env:"LOG_PATH" envDefault:"./logs/app.log"`
	// If the header is absent a random uuidv4 is generated per request.
	RequestIDHeader string `env:"REQUEST_ID_HEADER" envDefault:"X-Request-ID"`
	RealIPHeader    string `env:"REAL_IP_HEADER" envDefault:"X-Real-IP"`

	logFile *os.File
	logger  *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

func Use() *Configuration {
	return singleton()
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return err
	}

	if err := c.Grid.Validate(); err != nil {
		return fmt.Errorf("grid configuration error: %w", err)
	}

	f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogPath)
	if err != nil {
		return err
	}
	c.logFile = f
	c.logger = logger

	c.Database.Opts = c.Database.ConnectionString()
	if c.GoAppEnvironment == Production {
		c.SocketAddress = fmt.Sprintf(":%d", c.ServerPort)
	} else {
		c.SocketAddress = fmt.Sprintf("localhost:%d", c.ServerPort)
	}

	return nil
}

// Unload handles a graceful shutdown.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
	}
}
