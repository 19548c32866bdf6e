package config

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Server   ServerConfig     `yaml:"server"`
	Log      LogConfig        `yaml:"log"`
	Database DatabaseConfig   `yaml:"database"`
	Slack    SlackConfig      `yaml:"slack"`
	Holidays map[int][]string `yaml:"holidays"` // optional per-year override, dates as YYYY-MM-DD
}

type ServerConfig struct {
	Port      int    `yaml:"port"`
	APISecret string `yaml:"api_secret"` // HS256 secret for the /api bearer tokens
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type SlackConfig struct {
	BotToken        string   `yaml:"bot_token"`
	AppToken        string   `yaml:"app_token"`
	AdminCodes      []string `yaml:"admin_codes"` // employee codes allowed to run broadcast commands
	DirectoryTTLMin int      `yaml:"directory_ttl_min"`
}

func Load(configFile string) *Config {
	c := &Config{
		Server:   ServerConfig{Port: 9860},
		Log:      LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Database: DatabaseConfig{Host: "127.0.0.1", Port: 3306, Name: "crm"},
		Slack:    SlackConfig{DirectoryTTLMin: 10},
	}

	paths := []string{"etc/config-dev.yaml", "/etc/unibot/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, c)
			break
		}
	}

	envOverride(&c.Database.Host, "CRM_HOST")
	envOverride(&c.Database.User, "CRM_USER")
	envOverride(&c.Database.Password, "CRM_PASS")
	envOverride(&c.Database.Name, "CRM_DB")
	envOverride(&c.Slack.BotToken, "SLACK_BOT_TOKEN")
	envOverride(&c.Slack.AppToken, "SLACK_APP_TOKEN")
	envOverride(&c.Server.APISecret, "API_SECRET")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverrideInt(&c.Server.Port, "PORT")
	envOverrideInt(&c.Database.Port, "CRM_PORT")
	if v := os.Getenv("ADMIN_CODES"); v != "" {
		c.Slack.AdminCodes = strings.Split(v, ",")
	}

	return c
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c *Config) OpenGormDB() (*gorm.DB, error) {
	cfg := gomysql.NewConfig()
	cfg.User = c.Database.User
	cfg.Passwd = c.Database.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port)
	cfg.DBName = c.Database.Name
	cfg.ParseTime = true

	connector, err := gomysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	sqlDB := sql.OpenDB(connector)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return gorm.Open(mysql.New(mysql.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// HolidayOverrides parses the optional holidays section into dates.
func (c *Config) HolidayOverrides() (map[int][]time.Time, error) {
	if len(c.Holidays) == 0 {
		return nil, nil
	}
	out := make(map[int][]time.Time, len(c.Holidays))
	for year, raw := range c.Holidays {
		for _, s := range raw {
			d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
			if err != nil {
				return nil, fmt.Errorf("holiday %q for year %d: %w", s, year, err)
			}
			out[year] = append(out[year], d)
		}
	}
	return out, nil
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
