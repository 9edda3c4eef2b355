package config

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Limiter   LimiterConfig   `mapstructure:"limiter"`
	Keywords  KeywordsConfig  `mapstructure:"keywords"`
	Publisher PublisherConfig `mapstructure:"publisher"`
	Batch     BatchConfig     `mapstructure:"batch"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Logger    LoggerConfig    `mapstructure:"logger"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

type GeneratorConfig struct {
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	BaseURL     string `mapstructure:"base_url"`
	MaxAttempts int    `mapstructure:"max_attempts"`
}

type LimiterConfig struct {
	MinIntervalSeconds int `mapstructure:"min_interval_seconds"`
	MaxDailyRequests   int `mapstructure:"max_daily_requests"`
}

type KeywordsConfig struct {
	FeedURL string `mapstructure:"feed_url"`
}

type PublisherConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type BatchConfig struct {
	DailyPostLimit         int `mapstructure:"daily_post_limit"`
	PublishIntervalSeconds int `mapstructure:"publish_interval_seconds"`
}

type SMTPConfig struct {
	Host     string   `mapstructure:"host"`
	Port     int      `mapstructure:"port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
}

type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Manager interface {
	Load(configPath string) (*Config, error)
	Reload() error
	GetConfig() *Config
}
