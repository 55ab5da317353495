package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"go-chat-client/internal/infrastructure/logger"
)

const envPrefix = "CHAT"

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Server ServerConfig
	HTTP   HTTPConfig
	Toast  ToastConfig
	User   UserConfig
	Log    LogConfig
}

type ServerConfig struct {
	URL              string        `mapstructure:"url"`
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// ToastConfig.Duration is how long a toast stays in the queue
type ToastConfig struct {
	Duration time.Duration `mapstructure:"duration"`
}

type UserConfig struct {
	Name string `mapstructure:"name"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.url", "ws://127.0.0.1:8080/ws")
	v.SetDefault("server.handshake_timeout", 10*time.Second)
	v.SetDefault("http.addr", "127.0.0.1:8081")
	v.SetDefault("toast.duration", 3*time.Second)
	v.SetDefault("user.name", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("log.file_path", "")
}

// LoadConfig reads defaults, then the optional file at path, then CHAT_*
// environment variables (CHAT_TOAST_DURATION, CHAT_SERVER_URL, ...).
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.URL) == "" {
		return fmt.Errorf("%w: server.url is required", ErrInvalid)
	}
	if c.Toast.Duration <= 0 {
		return fmt.Errorf("%w: toast.duration must be positive, got %s", ErrInvalid, c.Toast.Duration)
	}
	return nil
}

// LoggerConfig derives the logger settings from the log section
func (c *Config) LoggerConfig() *logger.Config {
	lc := logger.NewDefaultConfig()
	lc.Level = logger.ParseLevel(c.Log.Level)
	if c.Log.Format != "" {
		lc.Format = c.Log.Format
	}
	if c.Log.Output != "" {
		lc.Output = c.Log.Output
	}
	lc.FilePath = c.Log.FilePath
	return lc
}
