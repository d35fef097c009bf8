package config

import "errors"

var (
	ErrReadingConfigFile   = errors.New("failed to read config file")
	ErrUnmarshallingConfig = errors.New("failed to unmarshal config")
	ErrConfigFileMissing   = errors.New("config file not found")
	ErrEmptyDatasetSource  = errors.New("dataset source cannot be empty")
	ErrInvalidDelimiter    = errors.New("dataset delimiter must be a single character")
	ErrEmptyFilterField    = errors.New("report filterField cannot be empty")
	ErrInvalidEndBoundary  = errors.New("report endBoundary must be end_of_day or midnight")
	ErrIncompleteView      = errors.New("report view needs a name, groupBy and at least one metric")
	ErrInvalidTopN         = errors.New("report view topN cannot be negative")
	ErrEmptyKafkaTopic     = errors.New("kafka topic cannot be empty when brokers are set")
)
