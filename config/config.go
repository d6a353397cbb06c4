package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Providers
	Classifier ClassifierConfig
	Sentiment  SentimentConfig

	// Routing decision parameters
	Routing RoutingConfig

	// Agent registry
	Agents []AgentConfig

	// Decision store
	Store StoreConfig

	// Inbound security
	Security SecurityConfig

	// Metrics collector
	Metrics MetricsConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// ClassifierConfig configures the text-classification provider.
type ClassifierConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// SentimentConfig configures the sentiment-scoring provider.
type SentimentConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// RoutingConfig holds the decision thresholds. These are tunables, not
// constants: the right values depend on the classifier model in use and
// should be adjusted against real traffic.
type RoutingConfig struct {
	EscalateNegative    float64       // negative intensity that escalates immediately
	WatchNegative       float64       // negative intensity that moves NORMAL -> WATCH
	MinConfidence       float64       // below this, top-ranked agent is not trusted
	RecoverConfidence   float64       // at/above this (with calm sentiment), WATCH -> NORMAL
	LowConfidenceStreak int           // consecutive low-confidence turns before WATCH
	DefaultAgentID      string        // agent used for low-confidence and degraded decisions
	HistoryWindow       int           // turns kept per conversation
	ContextTTL          time.Duration // idle time before a conversation is evicted
	ContextCapacity     int           // max tracked conversations
}

// AgentConfig is one registry entry loaded from config.
type AgentConfig struct {
	ID           string
	DisplayName  string
	IntentLabels []string
	Priority     int
}

type StoreConfig struct {
	Path string
}

type SecurityConfig struct {
	SignatureEnabled bool
	Secret           string
	RateLimitEnabled bool
	RateLimitPerMin  int
}

type MetricsConfig struct {
	BufferSize int
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Classification provider
	cfg.Classifier.URL = viper.GetString("classifier.url")
	cfg.Classifier.APIKey = expandEnvVar(viper.GetString("classifier.api_key"))
	cfg.Classifier.Timeout = viper.GetDuration("classifier.timeout")
	if classifierKey := viper.GetString("classifier_api_key"); classifierKey != "" {
		cfg.Classifier.APIKey = classifierKey
	}

	// Sentiment provider
	cfg.Sentiment.URL = viper.GetString("sentiment.url")
	cfg.Sentiment.APIKey = expandEnvVar(viper.GetString("sentiment.api_key"))
	cfg.Sentiment.Timeout = viper.GetDuration("sentiment.timeout")
	if sentimentKey := viper.GetString("sentiment_api_key"); sentimentKey != "" {
		cfg.Sentiment.APIKey = sentimentKey
	}

	// Routing thresholds
	cfg.Routing.EscalateNegative = viper.GetFloat64("routing.escalate_negative")
	cfg.Routing.WatchNegative = viper.GetFloat64("routing.watch_negative")
	cfg.Routing.MinConfidence = viper.GetFloat64("routing.min_confidence")
	cfg.Routing.RecoverConfidence = viper.GetFloat64("routing.recover_confidence")
	cfg.Routing.LowConfidenceStreak = viper.GetInt("routing.low_confidence_streak")
	cfg.Routing.DefaultAgentID = viper.GetString("routing.default_agent_id")
	cfg.Routing.HistoryWindow = viper.GetInt("routing.history_window")
	cfg.Routing.ContextTTL = viper.GetDuration("routing.context_ttl")
	cfg.Routing.ContextCapacity = viper.GetInt("routing.context_capacity")

	if err := validateRoutingConfig(&cfg.Routing); err != nil {
		return nil, err
	}

	// Agent registry
	if viper.IsSet("agents") {
		agentsRaw := viper.Get("agents")
		if agentsList, ok := agentsRaw.([]interface{}); ok {
			for _, a := range agentsList {
				if agentMap, ok := a.(map[string]interface{}); ok {
					agent := AgentConfig{
						ID:          getStringFromMap(agentMap, "id"),
						DisplayName: getStringFromMap(agentMap, "display_name"),
						Priority:    getIntFromMap(agentMap, "priority"),
					}
					if labels, ok := agentMap["intent_labels"].([]interface{}); ok {
						for _, l := range labels {
							if s, ok := l.(string); ok {
								agent.IntentLabels = append(agent.IntentLabels, s)
							}
						}
					}
					cfg.Agents = append(cfg.Agents, agent)
				}
			}
		}
	}
	if len(cfg.Agents) == 0 {
		cfg.Agents = DefaultAgents()
	}

	// Decision store
	cfg.Store.Path = viper.GetString("store.path")

	// Inbound security
	cfg.Security.SignatureEnabled = viper.GetBool("security.signature_enabled")
	cfg.Security.Secret = viper.GetString("security.secret")
	if secret := viper.GetString("security_secret"); secret != "" {
		cfg.Security.Secret = secret
	}
	cfg.Security.RateLimitEnabled = viper.GetBool("security.rate_limit_enabled")
	cfg.Security.RateLimitPerMin = viper.GetInt("security.rate_limit_per_min")

	// Metrics
	cfg.Metrics.BufferSize = viper.GetInt("metrics.buffer_size")

	return cfg, nil
}

// DefaultAgents is the built-in dealership agent catalog, used when the
// config file does not declare one.
func DefaultAgents() []AgentConfig {
	return []AgentConfig{
		{
			ID:           "inventory-agent",
			DisplayName:  "Inventory Specialist",
			IntentLabels: []string{"vehicle-search", "availability", "stock-inquiry", "model-details"},
			Priority:     1,
		},
		{
			ID:           "finance-agent",
			DisplayName:  "Finance Specialist",
			IntentLabels: []string{"financing", "loan", "lease", "payment-estimate", "credit"},
			Priority:     2,
		},
		{
			ID:           "service-agent",
			DisplayName:  "Service Advisor",
			IntentLabels: []string{"service-appointment", "repair", "maintenance", "recall"},
			Priority:     3,
		},
		{
			ID:           "trade-agent",
			DisplayName:  "Trade-In Specialist",
			IntentLabels: []string{"trade-in", "appraisal", "vehicle-value"},
			Priority:     4,
		},
		{
			ID:           "sales-agent",
			DisplayName:  "Sales Consultant",
			IntentLabels: []string{"test-drive", "purchase", "pricing", "negotiation"},
			Priority:     5,
		},
		{
			ID:           "general-agent",
			DisplayName:  "General Assistant",
			IntentLabels: []string{"greeting", "hours", "location", "general-question"},
			Priority:     10,
		},
	}
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	// Provider defaults
	viper.SetDefault("classifier.timeout", "5s")
	viper.SetDefault("sentiment.timeout", "2s")

	// Routing defaults — inferred starting points, tune against real traffic
	viper.SetDefault("routing.escalate_negative", 0.8)
	viper.SetDefault("routing.watch_negative", 0.5)
	viper.SetDefault("routing.min_confidence", 0.4)
	viper.SetDefault("routing.recover_confidence", 0.7)
	viper.SetDefault("routing.low_confidence_streak", 2)
	viper.SetDefault("routing.default_agent_id", "general-agent")
	viper.SetDefault("routing.history_window", 10)
	viper.SetDefault("routing.context_ttl", "30m")
	viper.SetDefault("routing.context_capacity", 4096)

	viper.SetDefault("store.path", "data/decisions.db")

	viper.SetDefault("security.signature_enabled", false)
	viper.SetDefault("security.rate_limit_enabled", true)
	viper.SetDefault("security.rate_limit_per_min", 120)

	viper.SetDefault("metrics.buffer_size", 1024)
}

// validateRoutingConfig rejects threshold combinations that would make the
// escalation state machine nonsensical.
func validateRoutingConfig(cfg *RoutingConfig) error {
	if cfg.MinConfidence <= 0 || cfg.MinConfidence >= 1 {
		return fmt.Errorf("routing.min_confidence must be in (0, 1), got %v", cfg.MinConfidence)
	}
	if cfg.RecoverConfidence < cfg.MinConfidence || cfg.RecoverConfidence > 1 {
		return fmt.Errorf("routing.recover_confidence must be in [min_confidence, 1], got %v", cfg.RecoverConfidence)
	}
	if cfg.WatchNegative <= 0 || cfg.WatchNegative >= cfg.EscalateNegative {
		return fmt.Errorf("routing.watch_negative must be in (0, escalate_negative), got %v", cfg.WatchNegative)
	}
	if cfg.EscalateNegative > 1 {
		return fmt.Errorf("routing.escalate_negative must be <= 1, got %v", cfg.EscalateNegative)
	}
	if cfg.LowConfidenceStreak < 1 {
		return fmt.Errorf("routing.low_confidence_streak must be >= 1, got %d", cfg.LowConfidenceStreak)
	}
	if cfg.DefaultAgentID == "" {
		return fmt.Errorf("routing.default_agent_id is required")
	}
	if cfg.HistoryWindow < 1 {
		return fmt.Errorf("routing.history_window must be >= 1, got %d", cfg.HistoryWindow)
	}
	return nil
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(value string) string {
	if value == "" {
		return value
	}

	// Check if value is in format ${VAR_NAME}
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		// Try viper first (handles both env and config)
		if envValue := viper.GetString(envVar); envValue != "" {
			return envValue
		}
		// Try lowercase version
		if envValue := viper.GetString(strings.ToLower(envVar)); envValue != "" {
			return envValue
		}
		// Try direct os.Getenv as last resort
		if envValue := os.Getenv(envVar); envValue != "" {
			return envValue
		}
	}

	return value
}

func getStringFromMap(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func getIntFromMap(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
