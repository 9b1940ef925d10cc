package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

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
	defaultPort               = 8000
	defaultTokenTTL           = time.Hour
	defaultIssuer             = "authsvc"
	defaultStoreURL           = "mem://users/Login"
	defaultCouchbaseTimeout   = 5 * time.Second
)

// Store drivers.
const (
	StoreDriverDocstore  = "docstore"
	StoreDriverCouchbase = "couchbase"
	StoreDriverRedis     = "redis"
	StoreDriverPostgres  = "postgres"
)

// Duplicate registration policies.
const (
	DuplicatePolicyOverwrite = "overwrite"
	DuplicatePolicyReject    = "reject"
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

	SecretKey struct {
		Access string `json:"access" yaml:"access"`
	} `json:"secretKey" yaml:"secretKey"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	PasswordPolicy *PasswordPolicyConfig `json:"passwordPolicy" yaml:"passwordPolicy"`

	// Store selects the credential store backend
	Store *StoreConfig `json:"store" yaml:"store"`

	Couchbase *CouchbaseConfig `json:"couchbase" yaml:"couchbase"`

	Redis *RedisConfig `json:"redis" yaml:"redis"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	// PubSub configuration for user lifecycle events
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`
}

// AuthConfig defines authentication-related configuration
type AuthConfig struct {
	BcryptCost      int           `json:"bcryptCost" yaml:"bcryptCost"`
	TokenTTL        time.Duration `json:"tokenTTL" yaml:"tokenTTL"`
	Issuer          string        `json:"issuer" yaml:"issuer"`
	DuplicatePolicy string        `json:"duplicatePolicy" yaml:"duplicatePolicy"`
}

// PasswordPolicyConfig defines password strength requirements.
// A zero value accepts any non-empty password.
type PasswordPolicyConfig struct {
	MinLength        int  `json:"minLength" yaml:"minLength"`
	MaxLength        int  `json:"maxLength" yaml:"maxLength"`
	RequireUppercase bool `json:"requireUppercase" yaml:"requireUppercase"`
	RequireLowercase bool `json:"requireLowercase" yaml:"requireLowercase"`
	RequireNumbers   bool `json:"requireNumbers" yaml:"requireNumbers"`
	RequireSpecial   bool `json:"requireSpecial" yaml:"requireSpecial"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// StoreConfig selects and addresses the credential store
type StoreConfig struct {
	// Driver is one of docstore, couchbase, redis, postgres
	Driver string `json:"driver" yaml:"driver"`

	// URL is the gocloud docstore collection URL (docstore driver only),
	// e.g. mem://users/Login or mongo://authdb/users?id_field=Login
	URL string `json:"url" yaml:"url"`
}

// CouchbaseConfig defines the Couchbase cluster connection
type CouchbaseConfig struct {
	ConnectionString string        `json:"connectionString" yaml:"connectionString"`
	Username         string        `json:"username" yaml:"username"`
	Password         string        `json:"password" yaml:"password"`
	BucketName       string        `json:"bucketName" yaml:"bucketName"`
	Timeout          time.Duration `json:"timeout" yaml:"timeout"`
}

// RedisConfig defines the Redis connection
type RedisConfig struct {
	URL       string `json:"url" yaml:"url"`
	KeyPrefix string `json:"keyPrefix" yaml:"keyPrefix"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "local" for local HTTP, "google" for Google Pub/Sub,
	// "gocloud" for any gocloud.dev topic URL. Empty disables publishing.
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`

	// Topic URL such as mem://user-events (for gocloud provider)
	TopicURL string `json:"topicUrl" yaml:"topicUrl"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	var configFile string
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate

			break
		}
	}

	if configFile == "" {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Example: COUCHBASE_BUCKETNAME -> couchbase.bucketName
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			return canonicalizeEnvKey(k, existingConfigMap), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

// New loads .env (if present), then config.yaml with environment overrides.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "load .env failed")
	}

	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	cfg.applyLegacyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults fills every optional section so consumers never nil-check.
func (cfg *Config) applyDefaults() {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = defaultPort
	}

	if cfg.Auth == nil {
		cfg.Auth = &AuthConfig{}
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = defaultTokenTTL
	}
	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = defaultIssuer
	}
	if cfg.Auth.DuplicatePolicy == "" {
		cfg.Auth.DuplicatePolicy = DuplicatePolicyOverwrite
	}

	if cfg.PasswordPolicy == nil {
		cfg.PasswordPolicy = &PasswordPolicyConfig{}
	}

	if cfg.Store == nil {
		cfg.Store = &StoreConfig{}
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = StoreDriverDocstore
	}
	if cfg.Store.Driver == StoreDriverDocstore && cfg.Store.URL == "" {
		cfg.Store.URL = defaultStoreURL
	}

	if cfg.Couchbase != nil && cfg.Couchbase.Timeout <= 0 {
		cfg.Couchbase.Timeout = defaultCouchbaseTimeout
	}
}

// applyLegacyEnv honours the flat variable names used by existing deployments
// (COUCHBASE_CONNECTION_STRING, JWT_SECRET_KEY, PORT, ...).
func (cfg *Config) applyLegacyEnv() {
	if v := os.Getenv("JWT_SECRET_KEY"); v != "" && cfg.SecretKey.Access == "" {
		cfg.SecretKey.Access = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Port = port
		}
	}

	legacy := map[string]*string{}
	if cfg.Couchbase == nil && os.Getenv("COUCHBASE_CONNECTION_STRING") != "" {
		cfg.Couchbase = &CouchbaseConfig{}
	}
	if cfg.Couchbase != nil {
		legacy["COUCHBASE_CONNECTION_STRING"] = &cfg.Couchbase.ConnectionString
		legacy["COUCHBASE_USERNAME"] = &cfg.Couchbase.Username
		legacy["COUCHBASE_PASSWORD"] = &cfg.Couchbase.Password
		legacy["COUCHBASE_BUCKET_NAME"] = &cfg.Couchbase.BucketName
	}
	for key, target := range legacy {
		if v := os.Getenv(key); v != "" && *target == "" {
			*target = v
		}
	}
}

// Validate reports configuration that must abort startup.
func (cfg *Config) Validate() error {
	switch cfg.Auth.DuplicatePolicy {
	case DuplicatePolicyOverwrite, DuplicatePolicyReject:
	default:
		return errors.Errorf("unknown auth.duplicatePolicy: %s", cfg.Auth.DuplicatePolicy)
	}

	switch cfg.Store.Driver {
	case StoreDriverDocstore:
	case StoreDriverCouchbase:
		if cfg.Couchbase == nil || cfg.Couchbase.ConnectionString == "" || cfg.Couchbase.BucketName == "" {
			return errors.New("couchbase connectionString and bucketName are required for couchbase driver")
		}
	case StoreDriverRedis:
		if cfg.Redis == nil || cfg.Redis.URL == "" {
			return errors.New("redis url is required for redis driver")
		}
	case StoreDriverPostgres:
		if cfg.Postgres == nil {
			return errors.New("postgres section is required for postgres driver")
		}
	default:
		return errors.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}

	if p := cfg.PasswordPolicy; p.MaxLength > 0 && p.MinLength > p.MaxLength {
		return errors.Errorf("passwordPolicy.minLength %d exceeds maxLength %d", p.MinLength, p.MaxLength)
	}

	return nil
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
