package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultDatasetSource      = "https://raw.githubusercontent.com/lizaathalya/Dicoding/main/DASHBOARD/df.csv"
	defaultDatasetDelimiter   = ","
	defaultDatasetHTTPTimeout = 30 * time.Second
	defaultDatasetRetryDelay  = 2 * time.Second
	defaultReportFilterField  = "order_approved_at"
	defaultReportEndBoundary  = EndBoundaryEndOfDay
	defaultServerAddr         = ":8080"
	defaultServerReadTimeout  = 15 * time.Second
	defaultServerWriteTimeout = 60 * time.Second
	defaultKafkaTopic         = "orderlens-reports"
	defaultLogLevel           = "info"
	defaultLogFormat          = "console"
	defaultLogFileEnabled     = false
	defaultLogDirectory       = "log"
	defaultLogFilename        = "orderlens.log"
	defaultLogMaxSizeMB       = 100
	defaultLogMaxBackups      = 3
	defaultLogMaxAgeDays      = 7
	defaultLogCompress        = false

	// Environment variable prefix
	envPrefix = "ORDERLENS"
)

// End boundary policies for day-granularity date ranges.
const (
	EndBoundaryEndOfDay = "end_of_day"
	EndBoundaryMidnight = "midnight"
)

type Config struct {
	Dataset DatasetConfig `mapstructure:"dataset"`
	Report  ReportConfig  `mapstructure:"report"`
	Server  ServerConfig  `mapstructure:"server"`
	Publish PublishConfig `mapstructure:"publish"`
	Log     LogConfig     `mapstructure:"log"`
}

type DatasetConfig struct {
	Source      string        `mapstructure:"source"` // URL or local path
	Delimiter   string        `mapstructure:"delimiter"`
	HTTPTimeout time.Duration `mapstructure:"httpTimeout"`
	RetryDelay  time.Duration `mapstructure:"retryDelay"`
}

type ReportConfig struct {
	FilterField string       `mapstructure:"filterField"`
	EndBoundary string       `mapstructure:"endBoundary"` // "end_of_day" or "midnight"
	Views       []ViewConfig `mapstructure:"views"`       // empty means built-in views
}

// ViewConfig declares one aggregation view: a grouping key, the metrics
// computed per group and how the groups are ranked.
type ViewConfig struct {
	Name    string         `mapstructure:"name"`
	Title   string         `mapstructure:"title"`
	GroupBy string         `mapstructure:"groupBy"`
	Metrics []MetricConfig `mapstructure:"metrics"`
	RankBy  string         `mapstructure:"rankBy"`
	TopN    int            `mapstructure:"topN"` // 0 keeps every group
}

type MetricConfig struct {
	Name  string `mapstructure:"name"`
	Field string `mapstructure:"field"`
	Func  string `mapstructure:"func"` // e.g., "unique_count", "sum", "mean", "std"
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
}

type PublishConfig struct {
	Kafka KafkaConfig `mapstructure:"kafka"`
}

// KafkaConfig configures the report publisher. Publishing is off when Brokers is empty.
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// Enabled reports whether a broker list was configured.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type LogConfig struct {
	Level              string `mapstructure:"level"`
	Format             string `mapstructure:"format"`
	FileLoggingEnabled bool   `mapstructure:"fileLoggingEnabled"`
	Directory          string `mapstructure:"directory"`
	Filename           string `mapstructure:"filename"`
	MaxSize            int    `mapstructure:"maxSize"`    // Max size in MB
	MaxBackups         int    `mapstructure:"maxBackups"` // Max backup files
	MaxAge             int    `mapstructure:"maxAge"`     // Max days to retain
	Compress           bool   `mapstructure:"compress"`   // Compress rotated files?
}

// Load initializes viper, reads config, applies defaults, unmarshals, and validates.
// An empty configPath skips the file and uses defaults plus environment overrides.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	configureViper(v, configPath)

	// Set default values before reading config source .yaml
	setDefaults(v)

	if configPath != "" {
		if err := readConfigFile(v); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnmarshallingConfig, err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// configureViper sets up viper instance for file and environment variables.
func configureViper(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults applies default configuration values using Viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("dataset.source", defaultDatasetSource)
	v.SetDefault("dataset.delimiter", defaultDatasetDelimiter)
	v.SetDefault("dataset.httpTimeout", defaultDatasetHTTPTimeout)
	v.SetDefault("dataset.retryDelay", defaultDatasetRetryDelay)
	v.SetDefault("report.filterField", defaultReportFilterField)
	v.SetDefault("report.endBoundary", defaultReportEndBoundary)
	v.SetDefault("server.addr", defaultServerAddr)
	v.SetDefault("server.readTimeout", defaultServerReadTimeout)
	v.SetDefault("server.writeTimeout", defaultServerWriteTimeout)
	v.SetDefault("publish.kafka.topic", defaultKafkaTopic)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.format", defaultLogFormat)
	v.SetDefault("log.fileLoggingEnabled", defaultLogFileEnabled)
	v.SetDefault("log.directory", defaultLogDirectory)
	v.SetDefault("log.filename", defaultLogFilename)
	v.SetDefault("log.maxSize", defaultLogMaxSizeMB)
	v.SetDefault("log.maxBackups", defaultLogMaxBackups)
	v.SetDefault("log.maxAge", defaultLogMaxAgeDays)
	v.SetDefault("log.compress", defaultLogCompress)
}

// readConfigFile attempts to read the configuration file specified in viper.
func readConfigFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return ErrConfigFileMissing
		}
		return fmt.Errorf("%w: %w", ErrReadingConfigFile, err)
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if cfg.Dataset.Source == "" {
		return ErrEmptyDatasetSource
	}
	if len([]rune(cfg.Dataset.Delimiter)) != 1 {
		return ErrInvalidDelimiter
	}
	if cfg.Report.FilterField == "" {
		return ErrEmptyFilterField
	}
	switch cfg.Report.EndBoundary {
	case EndBoundaryEndOfDay, EndBoundaryMidnight:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidEndBoundary, cfg.Report.EndBoundary)
	}
	for i, view := range cfg.Report.Views {
		if view.Name == "" || view.GroupBy == "" || len(view.Metrics) == 0 {
			return fmt.Errorf("%w: views[%d]", ErrIncompleteView, i)
		}
		if view.TopN < 0 {
			return fmt.Errorf("%w: views[%d] topN=%d", ErrInvalidTopN, i, view.TopN)
		}
	}
	if cfg.Publish.Kafka.Enabled() && cfg.Publish.Kafka.Topic == "" {
		return ErrEmptyKafkaTopic
	}
	return nil
}
