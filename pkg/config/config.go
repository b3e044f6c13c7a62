package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/user/maps-scraper/internal/entity"
)

const envPrefix = "MAPS_SCRAPER"

// Config holds the application configuration.
type Config struct {
	LogLevel           string            `mapstructure:"log_level"`
	Headless           bool              `mapstructure:"headless"`
	MaxRetries         int               `mapstructure:"max_retries"`
	ReviewsPerCategory int               `mapstructure:"reviews_per_category"`
	Queries            []entity.Query    `mapstructure:"queries"`
	Browser            BrowserConfig     `mapstructure:"browser"`
	Site               SiteConfig        `mapstructure:"site"`
	Loader             LoaderConfig      `mapstructure:"loader"`
	Controller         ControllerConfig  `mapstructure:"controller"`
	Enrich             EnrichConfig      `mapstructure:"enrich"`
	Output             OutputConfig      `mapstructure:"output"`
	Postgres           PostgresConfig    `mapstructure:"postgres"`
	Redis              RedisConfig       `mapstructure:"redis"`
	SQS                SQSConfig         `mapstructure:"sqs"`
	Diagnostics        DiagnosticsConfig `mapstructure:"diagnostics"`
	HTTP               HTTPConfig        `mapstructure:"http"`
}

type BrowserConfig struct {
	UserAgent     string        `mapstructure:"user_agent"`
	ActionTimeout time.Duration `mapstructure:"action_timeout"`
	FindTimeout   time.Duration `mapstructure:"find_timeout"`
	FindAttempts  int           `mapstructure:"find_attempts"`
	WindowWidth   int           `mapstructure:"window_width"`
	WindowHeight  int           `mapstructure:"window_height"`
}

type SiteConfig struct {
	BaseURL string `mapstructure:"base_url"`
	HomeURL string `mapstructure:"home_url"`
	MapURL  string `mapstructure:"map_url"`
}

type LoaderConfig struct {
	Cap          int           `mapstructure:"cap"`
	MaxStalls    int           `mapstructure:"max_stalls"`
	ScrollStep   int           `mapstructure:"scroll_step"`
	StepsPerPass int           `mapstructure:"steps_per_pass"`
	StepPause    time.Duration `mapstructure:"step_pause"`
	PassPause    time.Duration `mapstructure:"pass_pause"`
}

type ControllerConfig struct {
	MinItems      int           `mapstructure:"min_items"`
	HomeSettle    time.Duration `mapstructure:"home_settle"`
	QueryPauseMin time.Duration `mapstructure:"query_pause_min"`
	QueryPauseMax time.Duration `mapstructure:"query_pause_max"`
}

type EnrichConfig struct {
	PagePause      time.Duration `mapstructure:"page_pause"`
	VisitedTTL     time.Duration `mapstructure:"visited_ttl"`
	FilterAttempts int           `mapstructure:"filter_attempts"`
	ScrollAttempts int           `mapstructure:"scroll_attempts"`
	ScrollPause    time.Duration `mapstructure:"scroll_pause"`
	LinksFrom      string        `mapstructure:"links_from"` // csv or postgres
}

type OutputConfig struct {
	CSVPath       string `mapstructure:"csv_path"`
	ContactsPath  string `mapstructure:"contacts_path"`
	ReviewsPath   string `mapstructure:"reviews_path"`
	Table         string `mapstructure:"table"`
	ContactsTable string `mapstructure:"contacts_table"`
	ReviewsTable  string `mapstructure:"reviews_table"`
}

type PostgresConfig struct {
	URL string `mapstructure:"url"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type SQSConfig struct {
	QueueURL string `mapstructure:"queue_url"`
}

type DiagnosticsConfig struct {
	Dir      string `mapstructure:"dir"`
	S3Bucket string `mapstructure:"s3_bucket"`
	S3Prefix string `mapstructure:"s3_prefix"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("headless", true)
	v.SetDefault("max_retries", 3)
	v.SetDefault("reviews_per_category", 5)
	v.SetDefault("queries", []map[string]string{{"text": "pims Москва", "category": "moscow_pims"}})

	v.SetDefault("browser.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	v.SetDefault("browser.action_timeout", 25*time.Second)
	v.SetDefault("browser.find_timeout", 15*time.Second)
	v.SetDefault("browser.find_attempts", 3)
	v.SetDefault("browser.window_width", 1920)
	v.SetDefault("browser.window_height", 1080)

	v.SetDefault("site.base_url", "https://yandex.ru")
	v.SetDefault("site.home_url", "https://yandex.ru/maps")
	v.SetDefault("site.map_url", "https://yandex.ru/maps/213/moscow/?ll=37.622504%2C55.752334&z=10")

	v.SetDefault("loader.cap", 300)
	v.SetDefault("loader.max_stalls", 5)
	v.SetDefault("loader.scroll_step", 500)
	v.SetDefault("loader.steps_per_pass", 10)
	v.SetDefault("loader.step_pause", 100*time.Millisecond)
	v.SetDefault("loader.pass_pause", time.Second)

	v.SetDefault("controller.min_items", 10)
	v.SetDefault("controller.home_settle", 5*time.Second)
	v.SetDefault("controller.query_pause_min", 15*time.Second)
	v.SetDefault("controller.query_pause_max", 30*time.Second)

	v.SetDefault("enrich.page_pause", 2*time.Second)
	v.SetDefault("enrich.visited_ttl", 48*time.Hour)
	v.SetDefault("enrich.filter_attempts", 5)
	v.SetDefault("enrich.scroll_attempts", 5)
	v.SetDefault("enrich.scroll_pause", 3*time.Second)
	v.SetDefault("enrich.links_from", "csv")

	v.SetDefault("output.csv_path", "output.csv")
	v.SetDefault("output.contacts_path", "contacts.csv")
	v.SetDefault("output.reviews_path", "reviews.csv")
	v.SetDefault("output.table", "listings")
	v.SetDefault("output.contacts_table", "listing_contacts")
	v.SetDefault("output.reviews_table", "listing_reviews")

	v.SetDefault("postgres.url", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("sqs.queue_url", "")
	v.SetDefault("diagnostics.dir", "screenshots")
	v.SetDefault("diagnostics.s3_bucket", "")
	v.SetDefault("diagnostics.s3_prefix", "screenshots/")
	v.SetDefault("http.addr", "")
}

// Load reads configuration from an optional file and MAPS_SCRAPER_* environment variables.
// An explicit path must exist; without one, config.yaml is looked up in . and ./config.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// MAPS_SCRAPER_QUERIES="text|category;text|category"
	if raw, ok := v.Get("queries").(string); ok {
		queries, err := ParseQueries(raw)
		if err != nil {
			return nil, err
		}
		v.Set("queries", queries)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseQueries parses "text|category" pairs separated by semicolons.
// A pair without a category uses the text as category.
func ParseQueries(raw string) ([]map[string]string, error) {
	var out []map[string]string
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		text, category, _ := strings.Cut(part, "|")
		text, category = strings.TrimSpace(text), strings.TrimSpace(category)
		if text == "" {
			return nil, fmt.Errorf("invalid query %q: empty text", part)
		}
		if category == "" {
			category = text
		}
		out = append(out, map[string]string{"text": text, "category": category})
	}
	return out, nil
}

func (c *Config) Validate() error {
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0, got %d", c.MaxRetries)
	}
	if c.ReviewsPerCategory <= 0 {
		return fmt.Errorf("reviews_per_category must be > 0, got %d", c.ReviewsPerCategory)
	}
	for i, q := range c.Queries {
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("queries[%d]: text is required", i)
		}
	}
	if err := c.Browser.Validate(); err != nil {
		return err
	}
	if err := c.Loader.Validate(); err != nil {
		return err
	}
	if err := c.Controller.Validate(); err != nil {
		return err
	}
	if c.Enrich.LinksFrom != "csv" && c.Enrich.LinksFrom != "postgres" {
		return fmt.Errorf("enrich.links_from must be csv or postgres, got %q", c.Enrich.LinksFrom)
	}
	return nil
}

func (b BrowserConfig) Validate() error {
	if b.FindAttempts < 1 {
		return fmt.Errorf("browser.find_attempts must be >= 1, got %d", b.FindAttempts)
	}
	if b.ActionTimeout <= 0 || b.FindTimeout <= 0 {
		return errors.New("browser timeouts must be positive")
	}
	return nil
}

func (l LoaderConfig) Validate() error {
	if l.Cap <= 0 {
		return fmt.Errorf("loader.cap must be > 0, got %d", l.Cap)
	}
	if l.MaxStalls <= 0 || l.StepsPerPass <= 0 {
		return errors.New("loader stall and step counts must be positive")
	}
	return nil
}

func (c ControllerConfig) Validate() error {
	if c.MinItems < 0 {
		return fmt.Errorf("controller.min_items must be >= 0, got %d", c.MinItems)
	}
	if c.QueryPauseMax < c.QueryPauseMin {
		return errors.New("controller.query_pause_max must not be below query_pause_min")
	}
	return nil
}
