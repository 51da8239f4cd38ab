package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"storefront/internal/domain/constants"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"
	defaultMaxImageSize       = "5MB"
	defaultCountry            = "United Kingdom"
	defaultFetchLimit         = 5
	defaultDisplayLimit       = 10
	defaultCatalogTTL         = time.Minute
	defaultProductBucket      = "product-images"
	defaultCategoryBucket     = "category-images"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	// Postgres is the store endpoint. Credentials live in postgres.master.
	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	// Database holds schema options that go-lib's DBConn does not carry.
	Database *DatabaseConfig `json:"database" yaml:"database"`

	// SecretKey is the service access key pair used to sign tokens.
	SecretKey struct {
		Access  string `json:"access" yaml:"access"`
		Refresh string `json:"refresh" yaml:"refresh"`
	} `json:"secretKey" yaml:"secretKey"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	Checkout *CheckoutConfig `json:"checkout" yaml:"checkout"`

	Orders *OrdersConfig `json:"orders" yaml:"orders"`

	Notifications *NotificationsConfig `json:"notifications" yaml:"notifications"`

	// Storage configures the image bucket used by the admin product and category forms.
	Storage *StorageConfig `json:"storage" yaml:"storage"`

	// Redis configures the catalog read cache. Empty URL disables caching.
	Redis *RedisConfig `json:"redis" yaml:"redis"`

	// PubSub configuration for insert events
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`

	// Firebase configuration for admin push notifications
	Firebase *FirebaseConfig `json:"firebase" yaml:"firebase"`

	// QRCode configuration for order reference codes
	QRCode *QRCodeConfig `json:"qrcode" yaml:"qrcode"`

	// Worker configures the push endpoint process.
	Worker *WorkerConfig `json:"worker" yaml:"worker"`
}

// DatabaseConfig defines schema management options.
type DatabaseConfig struct {
	AutoMigrate bool `json:"autoMigrate" yaml:"autoMigrate"`
}

// AuthConfig defines authentication-related configuration
type AuthConfig struct {
	BcryptCost      int           `json:"bcryptCost" yaml:"bcryptCost"`
	AccessTokenTTL  time.Duration `json:"accessTokenTTL" yaml:"accessTokenTTL"`
	RefreshTokenTTL time.Duration `json:"refreshTokenTTL" yaml:"refreshTokenTTL"`
}

// CheckoutConfig controls which shipping fields are mandatory and how the order is written.
type CheckoutConfig struct {
	RequirePhone           bool   `json:"requirePhone" yaml:"requirePhone"`
	RequireAddress         bool   `json:"requireAddress" yaml:"requireAddress"`
	RequirePostalCode      bool   `json:"requirePostalCode" yaml:"requirePostalCode"`
	RequireCompleteProfile bool   `json:"requireCompleteProfile" yaml:"requireCompleteProfile"`
	DefaultCountry         string `json:"defaultCountry" yaml:"defaultCountry"`

	// Transactional writes the order, its items and the cart clear in one DB transaction.
	// Off by default: the three writes are sequential and a failure after the order
	// insert leaves an order without items.
	Transactional bool `json:"transactional" yaml:"transactional"`
}

// OrdersConfig defines admin order handling.
type OrdersConfig struct {
	// StrictTransitions rejects status changes outside the forward order lifecycle.
	StrictTransitions bool `json:"strictTransitions" yaml:"strictTransitions"`
}

// NotificationsConfig defines the admin notification feed.
type NotificationsConfig struct {
	Mode         string `json:"mode" yaml:"mode"`
	FetchLimit   int    `json:"fetchLimit" yaml:"fetchLimit"`
	DisplayLimit int    `json:"displayLimit" yaml:"displayLimit"`
}

// StorageConfig defines the blob bucket for uploaded images.
type StorageConfig struct {
	// BucketURL is a gocloud.dev URL such as file:///var/lib/storefront/images,
	// gs://bucket or s3://bucket?region=eu-west-1.
	BucketURL      string `json:"bucketUrl" yaml:"bucketUrl"`
	PublicBaseURL  string `json:"publicBaseUrl" yaml:"publicBaseUrl"`
	ProductBucket  string `json:"productBucket" yaml:"productBucket"`
	CategoryBucket string `json:"categoryBucket" yaml:"categoryBucket"`
	MaxImageSize   string `json:"maxImageSize" yaml:"maxImageSize"`
}

// RedisConfig defines the catalog cache connection.
type RedisConfig struct {
	URL        string        `json:"url" yaml:"url"`
	CatalogTTL time.Duration `json:"catalogTTL" yaml:"catalogTTL"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// FirebaseConfig defines Firebase configuration for push notifications
type FirebaseConfig struct {
	ProjectID       string `json:"projectId" yaml:"projectId"`
	CredentialsPath string `json:"credentialsPath" yaml:"credentialsPath"`
	AdminTopic      string `json:"adminTopic" yaml:"adminTopic"`
}

// QRCodeConfig defines QR code generation configuration
type QRCodeConfig struct {
	Size                 int    `json:"size" yaml:"size"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel" yaml:"errorCorrectionLevel"`
	BaseURL              string `json:"baseUrl" yaml:"baseUrl"`
}

// PubSubConfig defines Pub/Sub configuration for insert events
type PubSubConfig struct {
	// Provider type: "inprocess" (default), "local" for local HTTP or "google" for Google Pub/Sub
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`
}

// WorkerConfig defines the push worker.
type WorkerConfig struct {
	Port int `json:"port" yaml:"port"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: POSTGRES_SSLMODE -> postgres.sslMode (not postgres.sslmode)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	if cfg.Postgres == nil {
		return nil, errors.New("postgres configuration is required")
	}

	// Build replicas from environment variables (POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, etc.)
	cfg.Postgres.Replicas = buildReplicasFromEnv()

	return cfg, nil
}

// applyDefaults fills every optional section so consumers never nil-check.
func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}

	if cfg.Database == nil {
		cfg.Database = &DatabaseConfig{}
	}

	if cfg.Auth == nil {
		cfg.Auth = &AuthConfig{}
	}

	if cfg.Checkout == nil {
		cfg.Checkout = &CheckoutConfig{
			RequirePhone:           true,
			RequireCompleteProfile: true,
		}
	}
	if strings.TrimSpace(cfg.Checkout.DefaultCountry) == "" {
		cfg.Checkout.DefaultCountry = defaultCountry
	}

	if cfg.Orders == nil {
		cfg.Orders = &OrdersConfig{}
	}

	if cfg.Notifications == nil {
		cfg.Notifications = &NotificationsConfig{}
	}
	if cfg.Notifications.Mode == "" {
		cfg.Notifications.Mode = constants.NotificationModePoll
	}
	if cfg.Notifications.FetchLimit <= 0 {
		cfg.Notifications.FetchLimit = defaultFetchLimit
	}
	if cfg.Notifications.DisplayLimit <= 0 {
		cfg.Notifications.DisplayLimit = defaultDisplayLimit
	}

	if cfg.Storage == nil {
		cfg.Storage = &StorageConfig{}
	}
	if cfg.Storage.ProductBucket == "" {
		cfg.Storage.ProductBucket = defaultProductBucket
	}
	if cfg.Storage.CategoryBucket == "" {
		cfg.Storage.CategoryBucket = defaultCategoryBucket
	}
	if cfg.Storage.MaxImageSize == "" {
		cfg.Storage.MaxImageSize = defaultMaxImageSize
	}

	if cfg.Redis == nil {
		cfg.Redis = &RedisConfig{}
	}
	if cfg.Redis.CatalogTTL <= 0 {
		cfg.Redis.CatalogTTL = defaultCatalogTTL
	}

	if cfg.PubSub == nil {
		cfg.PubSub = &PubSubConfig{}
	}
	if cfg.PubSub.Provider == "" {
		cfg.PubSub.Provider = constants.PubSubProviderInProcess
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv builds the replicas slice from environment variables.
// Environment variable format: POSTGRES_REPLICAS_{index}_{field}
// Example: POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, POSTGRES_REPLICAS_0_USERNAME, POSTGRES_REPLICAS_0_PASSWORD
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			// No more replicas or incomplete configuration.
			break
		}

		replica := postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		}

		replicas = append(replicas, replica)
	}

	return replicas
}
