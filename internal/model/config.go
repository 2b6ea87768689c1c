package model

import "time"

// Config is the complete tweetprep configuration
type Config struct {
	Input        InputConfig        `yaml:"input" mapstructure:"input"`
	Clean        CleanConfig        `yaml:"clean" mapstructure:"clean"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Explore      ExploreConfig      `yaml:"explore" mapstructure:"explore"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
}

// InputConfig locates the two source datasets. Locations may be local paths or http(s) URLs.
type InputConfig struct {
	Depressive      string `yaml:"depressive" mapstructure:"depressive"`
	Random          string `yaml:"random" mapstructure:"random"`
	RandomEncoding  string `yaml:"random_encoding" mapstructure:"random_encoding"`   // iso-8859-1, windows-1252, utf-8
	RandomColumns   int    `yaml:"random_columns" mapstructure:"random_columns"`     // leading columns to keep
	RandomMaxRows   int    `yaml:"random_max_rows" mapstructure:"random_max_rows"`   // 0 = unlimited
	SentimentFilter string `yaml:"sentiment_filter" mapstructure:"sentiment_filter"` // keep random rows with this Sentiment
}

// CleanConfig controls the text cleaner
type CleanConfig struct {
	MinLength          int    `yaml:"min_length" mapstructure:"min_length"` // tweets this short or shorter are rejected
	ExtraStopwordsFile string `yaml:"extra_stopwords_file" mapstructure:"extra_stopwords_file"`
	Lemmatize          bool   `yaml:"lemmatize" mapstructure:"lemmatize"`
}

// OutputConfig controls where results are written
type OutputConfig struct {
	Path      string `yaml:"path" mapstructure:"path"`
	Delimiter string `yaml:"delimiter" mapstructure:"delimiter"`
	ReportDir string `yaml:"report_dir" mapstructure:"report_dir"`
	Verbose   bool   `yaml:"verbose" mapstructure:"verbose"`
}

// ExploreConfig controls the exploration pass
type ExploreConfig struct {
	TopN      int  `yaml:"top_n" mapstructure:"top_n"`
	MaxWords  int  `yaml:"max_words" mapstructure:"max_words"` // word cloud size
	UseTagger bool `yaml:"use_tagger" mapstructure:"use_tagger"`
}

// HTTPConfig is used when a dataset location is a URL
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy" mapstructure:"no_proxy"`
	IgnoreRobots bool          `yaml:"ignore_robots" mapstructure:"ignore_robots"`
}

// CacheConfig controls memoisation of cleaned text
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig sizes the cleaning worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig throttles outbound requests (downloads, LLM calls)
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// LLMConfig configures the optional exploration summary
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, ollama, "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	Strict    bool   `yaml:"strict" mapstructure:"strict"` // flag quoted words missing from the report
}

// DefaultConfig returns the defaults used when nothing else is configured
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Depressive:      "data/depressive_tweets.csv",
			Random:          "data/sentiment_analysis_dataset.csv",
			RandomEncoding:  "iso-8859-1",
			RandomColumns:   4,
			RandomMaxRows:   40000,
			SentimentFilter: "1",
		},
		Clean: CleanConfig{
			MinLength: 5,
			Lemmatize: true,
		},
		Output: OutputConfig{
			Path:      "processed_data/processed_data.csv",
			Delimiter: "\t",
			ReportDir: "tweetprep-reports",
		},
		Explore: ExploreConfig{
			TopN:      10,
			MaxWords:  1500,
			UseTagger: true,
		},
		HTTP: HTTPConfig{
			Timeout:      2 * time.Minute,
			UserAgent:    "tweetprep/0.1 (+https://github.com/ppiankov/tweetprep)",
			MaxBodyBytes: 512 << 20,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".tweetprep-cache",
			MemoryTTL: time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 1,
			BurstSize:         2,
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 600,
			Strict:    true,
		},
	}
}
