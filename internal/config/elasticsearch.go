package config

import (
	"time"
)

// ElasticsearchConfig holds the Elasticsearch connection settings
type ElasticsearchConfig struct {
	URL        string
	Index      string
	Username   string
	Password   string
	MaxRetries int
	Timeout    time.Duration
}
