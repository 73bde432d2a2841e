package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration for the application.
type Config struct {
	Environment string `mapstructure:"environment"`
	Server      struct {
		Port         int           `mapstructure:"port"`
		ReadTimeout  time.Duration `mapstructure:"read_timeout"`
		WriteTimeout time.Duration `mapstructure:"write_timeout"`
		IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
		CORSOrigins  []string      `mapstructure:"cors_origins"`
	} `mapstructure:"server"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	Store struct {
		Driver string `mapstructure:"driver"`
	} `mapstructure:"store"`
	Embeddings struct {
		Driver string `mapstructure:"driver"`
		Path   string `mapstructure:"path"`
	} `mapstructure:"embeddings"`
	DB struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
	} `mapstructure:"db"`
	LLM struct {
		Provider string `mapstructure:"provider"`
		APIKey   string `mapstructure:"api_key"`
		Model    string `mapstructure:"model"`
		BaseURL  string `mapstructure:"base_url"`
	} `mapstructure:"llm"`
	Orchestration struct {
		FallbackLocation string        `mapstructure:"fallback_location"`
		StepDelay        time.Duration `mapstructure:"step_delay"`
	} `mapstructure:"orchestration"`
	Resources struct {
		TavilyAPIKey string `mapstructure:"tavily_api_key"`
		TavilyURL    string `mapstructure:"tavily_url"`
	} `mapstructure:"resources"`
	AMQP struct {
		URL      string `mapstructure:"url"`
		Exchange string `mapstructure:"exchange"`
	} `mapstructure:"amqp"`
	S3 struct {
		Bucket    string `mapstructure:"bucket"`
		Endpoint  string `mapstructure:"endpoint"`
		Region    string `mapstructure:"region"`
		AccessKey string `mapstructure:"access_key"`
		SecretKey string `mapstructure:"secret_key"`
	} `mapstructure:"s3"`
	TLS struct {
		Enable    bool     `mapstructure:"enable"`
		CertFile  string   `mapstructure:"cert_file"`
		KeyFile   string   `mapstructure:"key_file"`
		Hostnames []string `mapstructure:"hostnames"`
	} `mapstructure:"tls"`
}

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// LLM providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// LoadConfig loads the configuration from an optional .env file, a YAML
// config file and the environment. configFile overrides the search path.
func LoadConfig(envFile, configFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else {
		// .env in the working directory is optional
		_ = godotenv.Load()
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configFile != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	config.LLM.Provider = strings.ToLower(strings.TrimSpace(config.LLM.Provider))
	config.Store.Driver = strings.ToLower(strings.TrimSpace(config.Store.Driver))
	config.Embeddings.Driver = strings.ToLower(strings.TrimSpace(config.Embeddings.Driver))

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate reports configuration values the service cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreMemory, StorePostgres:
	default:
		return fmt.Errorf("unsupported store driver %q", c.Store.Driver)
	}
	switch c.Embeddings.Driver {
	case StoreMemory, StoreSQLite:
	default:
		return fmt.Errorf("unsupported embeddings driver %q", c.Embeddings.Driver)
	}
	switch c.LLM.Provider {
	case "", ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("unsupported llm provider %q", c.LLM.Provider)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// DSN returns the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode,
	)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "DEV")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000", "http://localhost:5000"})
	v.SetDefault("log.level", "info")
	v.SetDefault("store.driver", StoreMemory)
	v.SetDefault("embeddings.driver", StoreMemory)
	v.SetDefault("embeddings.path", "./data/embeddings.db")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.model", "gemini-2.5-flash")
	v.SetDefault("orchestration.fallback_location", "Remote")
	v.SetDefault("orchestration.step_delay", 0)
	v.SetDefault("resources.tavily_url", "https://api.tavily.com/search")
	v.SetDefault("amqp.exchange", "workflow_updates")
	v.SetDefault("s3.region", "auto")

	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range []string{
		"db.user", "db.password", "db.name",
		"llm.api_key", "llm.base_url",
		"resources.tavily_api_key",
		"amqp.url",
		"s3.bucket", "s3.endpoint", "s3.access_key", "s3.secret_key",
		"tls.cert_file", "tls.key_file",
	} {
		v.SetDefault(key, "")
	}
	v.SetDefault("tls.enable", false)
	v.SetDefault("tls.hostnames", []string{})
}
