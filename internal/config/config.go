package config

import "time"

type Config interface {
	EnvConfig
	SupabaseConfig
}

type EnvConfig interface {
	GetAppName() string
	GetDataFolder() string
	GetDialPrefix() string
	GetLogLevel() string
	GetEnv() string
}

type SupabaseConfig interface {
	GetSupabaseURL() string
	GetAnonKey() string
	GetHTTPTimeout() time.Duration
}

func New() Config {
	return newViperConfig()
}
