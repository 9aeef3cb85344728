package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/threadkeep/threadkeep/shared/domain"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Port             int              `yaml:"port"`
	LogLevel         string           `yaml:"log_level"`
	LogJSON          bool             `yaml:"log_json"`
	PageSize         int              `yaml:"page_size"`               // top-level comments per page
	ReplyPreviewSize int              `yaml:"reply_preview_size"`      // inline replies returned per root on list
	MaxPageSize      int              `yaml:"max_page_size"`
	MaxCommentLength int              `yaml:"max_comment_length"`
	DefaultSort      domain.SortOrder `yaml:"default_sort"`
	Moderation       bool             `yaml:"moderation"` // new comments start PENDING
	SecureCookies    bool             `yaml:"secure_cookies"`
	JwtTTL           time.Duration    `yaml:"jwt_ttl"`
	AllowedOrigins   []string         `yaml:"allowed_origins"`
}

type Private struct {
	JwtKey            string `yaml:"jwt_key"`
	AdminPasswordHash string `yaml:"admin_password_hash"` // bcrypt
	Pg                Pg     `yaml:"pg"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	return c.Public.JwtTTL
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Public.PageSize <= 0 {
		c.Public.PageSize = 20
	}
	if c.Public.ReplyPreviewSize <= 0 {
		c.Public.ReplyPreviewSize = 3
	}
	if c.Public.MaxPageSize <= 0 {
		c.Public.MaxPageSize = 100
	}
	if c.Public.MaxCommentLength <= 0 {
		c.Public.MaxCommentLength = 2000
	}
	if !c.Public.DefaultSort.Valid() {
		c.Public.DefaultSort = domain.NewestFirst
	}
}
