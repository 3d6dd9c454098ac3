package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vasiliy-maslov/lunch-order/internal/command"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Order    OrderConfig    `yaml:"order"`
	Storage  StorageConfig  `yaml:"storage"`
	Postgres PostgresConfig `yaml:"postgres"`
	SMTP     SMTPConfig     `yaml:"smtp"`
}

type AppConfig struct {
	Name     string `yaml:"name" env:"LUNCH_APP_NAME" validate:"required"`
	Port     string `yaml:"port" env:"LUNCH_APP_PORT" validate:"required,numeric"`
	LogLevel string `yaml:"log_level" env:"LUNCH_LOG_LEVEL" validate:"omitempty,oneof=trace debug info warn error"`
	Timezone string `yaml:"timezone" env:"LUNCH_TIMEZONE"`
}

type RestaurantConfig struct {
	Name        string `yaml:"name" env:"LUNCH_RESTAURANT_NAME" validate:"required"`
	PhoneNumber string `yaml:"phone_number" env:"LUNCH_RESTAURANT_PHONE" validate:"required"`
	Email       string `yaml:"email" env:"LUNCH_RESTAURANT_EMAIL" validate:"omitempty,email"`
}

type KeywordsConfig struct {
	List   string `yaml:"list" validate:"required"`
	Order  string `yaml:"order" validate:"required"`
	Cancel string `yaml:"cancel" validate:"required"`
	Help   string `yaml:"help" validate:"required"`
	Random string `yaml:"random" validate:"required"`
	Send   string `yaml:"send" validate:"required"`
}

type OrderConfig struct {
	CommandName string           `yaml:"command_name" env:"LUNCH_COMMAND_NAME" validate:"required"`
	Restaurant  RestaurantConfig `yaml:"restaurant"`
	StartHour   string           `yaml:"start_hour" env:"LUNCH_START_HOUR" validate:"required,clock"`
	EndHour     string           `yaml:"end_hour" env:"LUNCH_END_HOUR" validate:"required,clock"`
	Example     string           `yaml:"example"`
	SendByMail  bool             `yaml:"send_by_mail" env:"LUNCH_SEND_BY_MAIL"`
	SenderEmail string           `yaml:"sender_email" env:"LUNCH_SENDER_EMAIL" validate:"omitempty,email"`
	Keywords    KeywordsConfig   `yaml:"keywords"`
}

type StorageConfig struct {
	Driver string `yaml:"driver" env:"LUNCH_STORAGE_DRIVER" validate:"oneof=postgres memory"`
}

type PostgresConfig struct {
	Host            string        `yaml:"host" env:"DB_HOST"`
	Port            string        `yaml:"port" env:"DB_PORT"`
	User            string        `yaml:"user" env:"DB_USER"`
	Password        string        `yaml:"password" env:"DB_PASSWORD"`
	DBName          string        `yaml:"dbname" env:"DB_NAME"`
	SSLMode         string        `yaml:"sslmode" env:"DB_SSLMODE"`
	MaxConns        int32         `yaml:"max_conns"`
	MinConns        int32         `yaml:"min_conns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	MigrationsPath  string        `yaml:"migrations_path" env:"DB_MIGRATIONS_PATH"`
}

type SMTPConfig struct {
	Host     string        `yaml:"host" env:"SMTP_HOST"`
	Port     int           `yaml:"port" env:"SMTP_PORT"`
	Username string        `yaml:"username" env:"SMTP_USERNAME"`
	Password string        `yaml:"password" env:"SMTP_PASSWORD"`
	Timeout  time.Duration `yaml:"timeout" env:"SMTP_TIMEOUT"`
}

// Load reads the YAML file at path, applies a .env file if one exists,
// lets environment variables override file values and validates the result.
// Any error here must stop the service.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := defaults()
	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.App.Name = "lunch-order"
	cfg.App.Port = "8080"
	cfg.App.LogLevel = "info"
	cfg.Order.Keywords = KeywordsConfig{
		List:   "list",
		Order:  "order",
		Cancel: "cancel",
		Help:   "help",
		Random: "random",
		Send:   "send",
	}
	cfg.Storage.Driver = "postgres"
	cfg.Postgres.Port = "5432"
	cfg.Postgres.SSLMode = "disable"
	cfg.Postgres.MigrationsPath = "migrations"
	cfg.SMTP.Port = 587
	cfg.SMTP.Timeout = 10 * time.Second
	return cfg
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// формат HH:MM, тот же что и для аргумента send
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return command.IsValidClockString(fl.Field().String())
	})
	return v
}

// Validate checks field formats and the cross-field rules the tags cannot express.
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if c.Order.SendByMail {
		if c.Order.Restaurant.Email == "" || c.Order.SenderEmail == "" {
			return errors.New("invalid config: restaurant email and sender email are required when send_by_mail is enabled")
		}
		if c.SMTP.Host == "" {
			return errors.New("invalid config: smtp host is required when send_by_mail is enabled")
		}
	}

	if c.Storage.Driver == "postgres" {
		if c.Postgres.Host == "" || c.Postgres.User == "" || c.Postgres.DBName == "" {
			return errors.New("invalid config: postgres host, user and dbname are required for the postgres storage driver")
		}
	}

	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// Location resolves App.Timezone; empty means the host's local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.App.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.App.Timezone, err)
	}
	return loc, nil
}

// RouterSettings projects the order section onto the command router settings.
func (c *Config) RouterSettings() command.Settings {
	return command.Settings{
		CommandName:     c.Order.CommandName,
		RestaurantName:  c.Order.Restaurant.Name,
		RestaurantPhone: c.Order.Restaurant.PhoneNumber,
		RestaurantEmail: c.Order.Restaurant.Email,
		StartHour:       c.Order.StartHour,
		EndHour:         c.Order.EndHour,
		Example:         c.Order.Example,
		SendByMail:      c.Order.SendByMail,
		SenderEmail:     c.Order.SenderEmail,
		Keywords: command.Keywords{
			List:   c.Order.Keywords.List,
			Order:  c.Order.Keywords.Order,
			Cancel: c.Order.Keywords.Cancel,
			Help:   c.Order.Keywords.Help,
			Random: c.Order.Keywords.Random,
			Send:   c.Order.Keywords.Send,
		},
	}
}
