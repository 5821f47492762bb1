package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	appNameKey     = "app_name"
	dataFolderKey  = "data_folder"
	dialPrefixKey  = "dial_prefix"
	logLevelKey    = "log_level"
	envKey         = "env"
	supabaseURLKey = "supabase_url"
	anonKeyKey     = "anon_key"
	httpTimeoutKey = "http_timeout"
)

// viperConfig reads settings from the environment (FOWLMON_ prefix) with an
// optional fowlmon.yaml in the working directory or the data folder.
type viperConfig struct {
	v *viper.Viper
}

var _ Config = (*viperConfig)(nil)

func newViperConfig() *viperConfig {
	v := viper.New()
	v.SetEnvPrefix("FOWLMON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(appNameKey, "Fowl Typhoid Monitor")
	v.SetDefault(dataFolderKey, "./data")
	v.SetDefault(dialPrefixKey, "+255")
	v.SetDefault(logLevelKey, "info")
	v.SetDefault(envKey, "DEV")
	v.SetDefault(supabaseURLKey, "http://localhost:54321")
	v.SetDefault(anonKeyKey, "")
	v.SetDefault(httpTimeoutKey, 30*time.Second)

	v.SetConfigName("fowlmon")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(v.GetString(dataFolderKey))
	_ = v.ReadInConfig() // config file is optional

	return &viperConfig{v: v}
}

func (c *viperConfig) GetAppName() string    { return c.v.GetString(appNameKey) }
func (c *viperConfig) GetDataFolder() string { return c.v.GetString(dataFolderKey) }
func (c *viperConfig) GetDialPrefix() string { return c.v.GetString(dialPrefixKey) }
func (c *viperConfig) GetLogLevel() string   { return c.v.GetString(logLevelKey) }

func (c *viperConfig) GetEnv() string {
	env := c.v.GetString(envKey)
	if env == "" {
		return "DEV"
	}
	return env
}

func (c *viperConfig) GetSupabaseURL() string {
	return strings.TrimRight(c.v.GetString(supabaseURLKey), "/")
}

func (c *viperConfig) GetAnonKey() string { return c.v.GetString(anonKeyKey) }

func (c *viperConfig) GetHTTPTimeout() time.Duration {
	return c.v.GetDuration(httpTimeoutKey)
}
