// Package config は irisboard の設定（YAMLファイル＋環境変数）を読み込む
package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/YuminosukeSato/irisboard/pkg/errors"
	"github.com/YuminosukeSato/irisboard/pkg/log"
)

// 環境変数による上書き
const (
	EnvAddr      = "IRISBOARD_ADDR"
	EnvLogLevel  = "IRISBOARD_LOG_LEVEL"
	EnvModelPath = "IRISBOARD_MODEL_PATH"
)

// Server はHTTPサーバーの設定
type Server struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// Session はセッションストアの設定
type Session struct {
	Size       int           `yaml:"size"`
	TTL        time.Duration `yaml:"ttl"`
	CookieName string        `yaml:"cookie_name"`
	Secure     bool          `yaml:"secure"`
}

// Model はモデルアーティファクトの設定。Pathが空なら埋め込みのモデルを使う
type Model struct {
	Path string `yaml:"path"`
}

// Log はログ出力の設定。Fileが空なら標準出力に書く
type Log struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Config はアプリケーション全体の設定
type Config struct {
	Server  Server  `yaml:"server"`
	Session Session `yaml:"session"`
	Model   Model   `yaml:"model"`
	Log     Log     `yaml:"log"`
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() *Config {
	return &Config{
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			MaxBodyBytes: 1 << 20,
		},
		Session: Session{
			Size:       10000,
			TTL:        24 * time.Hour,
			CookieName: "irisboard_session",
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// Load は設定を読み込む
//
// デフォルト値の上にYAMLファイルの値を重ね、最後に環境変数で上書きする。
// pathが空、またはファイルが存在しない場合はデフォルト値から始める。
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.UnmarshalStrict(data, cfg); err != nil {
				return nil, errors.Wrapf(err, "config: parse %s", path)
			}
		case os.IsNotExist(err):
		default:
			return nil, errors.Wrapf(err, "config: read %s", path)
		}
	}

	cfg.applyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if addr := getenv(EnvAddr); addr != "" {
		c.Server.Addr = addr
	}
	if level := getenv(EnvLogLevel); level != "" {
		c.Log.Level = level
	}
	if path := getenv(EnvModelPath); path != "" {
		c.Model.Path = path
	}
}

// Validate は設定値の妥当性を検証する
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.NewValidationError("server.addr", "must not be empty", c.Server.Addr)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return errors.NewValidationError("server.timeouts", "must not be negative",
			[2]time.Duration{c.Server.ReadTimeout, c.Server.WriteTimeout})
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.NewValidationError("server.max_body_bytes", "must be positive", c.Server.MaxBodyBytes)
	}
	if c.Session.Size <= 0 {
		return errors.NewValidationError("session.size", "must be positive", c.Session.Size)
	}
	if c.Session.TTL <= 0 {
		return errors.NewValidationError("session.ttl", "must be positive", c.Session.TTL)
	}
	if c.Session.CookieName == "" {
		return errors.NewValidationError("session.cookie_name", "must not be empty", c.Session.CookieName)
	}
	if _, err := log.ToLogLevel(c.Log.Level); err != nil {
		return errors.NewValidationError("log.level", err.Error(), c.Log.Level)
	}
	if c.Log.File != "" && c.Log.MaxSizeMB <= 0 {
		return errors.NewValidationError("log.max_size_mb", "must be positive when log.file is set", c.Log.MaxSizeMB)
	}
	return nil
}
