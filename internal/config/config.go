// Package config loads run settings from the environment, an optional .env
// file and an optional YAML topics file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendHuggingFace = "huggingface"
	BackendGemini      = "gemini"
	BackendOpenAI      = "openai"
)

// Topic is one fixed search slot: the query sent to the news API and the
// keywords used to pick its articles out of the merged set.
type Topic struct {
	Query    string   `yaml:"query"`
	Keywords []string `yaml:"keywords"`
}

// Topics holds the three slots the report is built around.
type Topics struct {
	Vish      Topic `yaml:"vish"`
	HighSpeed Topic `yaml:"high_speed"`
	RZD       Topic `yaml:"rzd"`
}

// TopicsFile is the YAML layout of TOPICS_CONFIG_PATH:
//
//	topics:
//	  vish: {query: ..., keywords: [...]}
//	feeds:
//	  - https://...
type TopicsFile struct {
	Topics Topics   `yaml:"topics"`
	Feeds  []string `yaml:"feeds"`
}

type Config struct {
	// News API settings
	NewsAPIKey     string
	NewsAPIBaseURL string

	// Topics and extra feeds
	TopicsConfigPath string
	Topics           Topics
	Feeds            []string

	// Sentiment backend
	SentimentBackend  string // huggingface | gemini | openai
	HuggingFaceAPIKey string
	HuggingFaceModel  string
	GeminiAPIKey      string
	GeminiModel       string
	OpenAIAPIKey      string
	OpenAIModel       string

	// Upper bound on backend calls per run, 0 for none
	ClassifierMaxCalls int

	// HTTP settings
	RequestTimeout time.Duration
	RetryAttempts  int
	RetryBackoff   time.Duration

	// Output
	JSONOutputPath      string
	DashboardOutputPath string

	Debug bool
}

// DefaultTopics returns the built-in railway topics.
func DefaultTopics() Topics {
	return Topics{
		Vish: Topic{
			Query:    "Высшая инженерная школа",
			Keywords: []string{"инженерная школа", "РУТ МИИТ", "ВИШ"},
		},
		HighSpeed: Topic{
			Query:    "ВСМ",
			Keywords: []string{"ВСМ", "скоростные магистрали", "высокоскоростной"},
		},
		RZD: Topic{
			Query:    "РЖД Российские Железные дороги",
			Keywords: []string{"РЖД", "Российские железные дороги"},
		},
	}
}

func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		NewsAPIKey:          os.Getenv("NEWSAPI_API_KEY"),
		NewsAPIBaseURL:      getEnvOrDefault("NEWSAPI_BASE_URL", "https://newsapi.org"),
		TopicsConfigPath:    getEnvOrDefault("TOPICS_CONFIG_PATH", "configs/topics.yaml"),
		Topics:              DefaultTopics(),
		SentimentBackend:    getEnvOrDefault("SENTIMENT_BACKEND", BackendHuggingFace),
		HuggingFaceAPIKey:   os.Getenv("HUGGINGFACE_API_KEY"),
		HuggingFaceModel:    getEnvOrDefault("HUGGINGFACE_MODEL", "blanchefort/rubert-base-cased-sentiment"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		GeminiModel:         getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:         getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		ClassifierMaxCalls:  getEnvIntOrDefault("CLASSIFIER_MAX_CALLS", 0),
		RequestTimeout:      getEnvDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		RetryAttempts:       getEnvIntOrDefault("RETRY_ATTEMPTS", 5),
		RetryBackoff:        time.Duration(getEnvIntOrDefault("RETRY_BACKOFF_MS", 100)) * time.Millisecond,
		JSONOutputPath:      getEnvOrDefault("JSON_OUTPUT_PATH", "all_articles.json"),
		DashboardOutputPath: getEnvOrDefault("DASHBOARD_OUTPUT_PATH", "news_dashboard.html"),
		Debug:               os.Getenv("DEBUG") == "true",
	}

	if err := cfg.loadTopicsFile(); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

// loadTopicsFile overlays slots present in the YAML file on the defaults.
// A missing file is not an error.
func (c *Config) loadTopicsFile() error {
	f, err := os.Open(c.TopicsConfigPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open topics file: %w", err)
	}
	defer f.Close()

	var file TopicsFile
	if err := yaml.NewDecoder(f).Decode(&file); err != nil {
		return fmt.Errorf("decode topics file %s: %w", c.TopicsConfigPath, err)
	}

	mergeTopic(&c.Topics.Vish, file.Topics.Vish)
	mergeTopic(&c.Topics.HighSpeed, file.Topics.HighSpeed)
	mergeTopic(&c.Topics.RZD, file.Topics.RZD)
	c.Feeds = file.Feeds
	return nil
}

func mergeTopic(dst *Topic, src Topic) {
	if src.Query != "" {
		dst.Query = src.Query
	}
	if len(src.Keywords) > 0 {
		dst.Keywords = src.Keywords
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue >= 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.NewsAPIKey == "" {
		return &ConfigError{Field: "NEWSAPI_API_KEY", Message: "news API key is required"}
	}
	switch c.SentimentBackend {
	case BackendHuggingFace:
		if c.HuggingFaceAPIKey == "" {
			return &ConfigError{Field: "HUGGINGFACE_API_KEY", Message: "required for the huggingface backend"}
		}
	case BackendGemini:
		if c.GeminiAPIKey == "" {
			return &ConfigError{Field: "GEMINI_API_KEY", Message: "required for the gemini backend"}
		}
	case BackendOpenAI:
		if c.OpenAIAPIKey == "" {
			return &ConfigError{Field: "OPENAI_API_KEY", Message: "required for the openai backend"}
		}
	default:
		return &ConfigError{Field: "SENTIMENT_BACKEND", Message: "must be huggingface, gemini or openai"}
	}
	if c.JSONOutputPath == "" || c.DashboardOutputPath == "" {
		return &ConfigError{Field: "JSON_OUTPUT_PATH", Message: "output paths must not be empty"}
	}
	return nil
}

// ConfigError names the offending setting.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
