package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	GithubSecret         string
	GitHubToken          string
	GithubAppID          string
	GithubPrivateKeyPath string
	GithubInstallationID string

	AIProvider  string
	OpenAIKey   string
	OpenAIModel string
	OllamaURL   string
	OllamaModel string

	// Comma-separated glob patterns; files whose target path matches
	// any of them are never reviewed.
	ExcludePatterns []string

	ReviewWorkers      int
	HunkTimeoutSeconds int

	QueueType string // memory | redis
	RedisAddr string

	RateLimitRPS   int
	RateLimitBurst int

	BudgetEnabled  bool
	BudgetDailyUSD float64
	BudgetPRUSD    float64
}

func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "local"),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		GithubSecret:         getEnv("GITHUB_WEBHOOK_SECRET", ""),
		GitHubToken:          getEnv("GITHUB_TOKEN", ""),
		GithubAppID:          getEnv("GITHUB_APP_ID", ""),
		GithubPrivateKeyPath: getEnv("GITHUB_APP_PRIVATE_KEY_PATH", ""),
		GithubInstallationID: getEnv("GITHUB_APP_INSTALLATION_ID", ""),

		AIProvider:  getEnv("AI_PROVIDER", "openai"),
		OpenAIKey:   getEnv("OPENAI_KEY", ""),
		OpenAIModel: getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OllamaURL:   getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel: getEnv("OLLAMA_MODEL", "llama3"),

		ExcludePatterns: splitPatterns(getEnv("EXCLUDE_PATTERNS", "")),

		ReviewWorkers:      getEnvInt("REVIEW_WORKERS", 4),
		HunkTimeoutSeconds: getEnvInt("HUNK_TIMEOUT_SECONDS", 60),

		QueueType: getEnv("QUEUE_TYPE", "memory"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),

		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 2),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 4),

		BudgetEnabled:  getEnvBool("BUDGET_ENABLED", false),
		BudgetDailyUSD: getEnvFloat("BUDGET_DAILY_USD", 0),
		BudgetPRUSD:    getEnvFloat("BUDGET_PR_USD", 0),
	}
}

func splitPatterns(s string) []string {
	if s == "" {
		return nil
	}

	var patterns []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid env %s: %v", key, err)
	}
	return i
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Fatalf("invalid env %s: %v", key, err)
	}
	return f
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Fatalf("invalid env %s: %v", key, err)
	}
	return b
}
