package config

import (
	"fmt"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const envPrefix = "OKR"

type DbConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

type SESConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Region  string `mapstructure:"region"`
	From    string `mapstructure:"from"`
}

type ReminderConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Schedule string        `mapstructure:"schedule"`
	After    time.Duration `mapstructure:"after"`
}

type Config struct {
	GrpcPort string         `mapstructure:"grpc_port"`
	HttpPort string         `mapstructure:"http_port"`
	LogLevel string         `mapstructure:"log_level"`
	Db       DbConfig       `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	SES      SESConfig      `mapstructure:"ses"`
	Reminder ReminderConfig `mapstructure:"reminder"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("grpc_port", "4020")
	v.SetDefault("http_port", "4021")
	v.SetDefault("log_level", "info")
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "./.tmp/okr.db")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.topic", "okr.audit")
	v.SetDefault("ses.enabled", false)
	v.SetDefault("ses.region", "us-east-1")
	v.SetDefault("ses.from", "okr@localhost")
	v.SetDefault("reminder.enabled", true)
	v.SetDefault("reminder.schedule", "@every 1h")
	v.SetDefault("reminder.after", 48*time.Hour)
}

// Load reads okr.yml from the working directory or ./.tmp when present, then applies
// OKR_* environment variables, e.g. OKR_DB_DSN or OKR_REDIS_ENABLED.
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetConfigName("okr")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("./.tmp")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// LoadConfig loads the process configuration and sets the log level.
func LoadConfig() *Config {
	cfg, err := Load(viper.New())
	if err != nil {
		logrus.Fatalf("error loading config: %v", err)
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.Warnf("unknown log level %q, using %s", cfg.LogLevel, logrus.GetLevel())
	}

	return cfg
}

// OpenDb connects to the configured database. Timestamps are stored in UTC.
func OpenDb(cfg DbConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
}

func GetDb(cfg *Config) *gorm.DB {
	db, err := OpenDb(cfg.Db)
	if err != nil {
		logrus.Fatalf("error connecting to %s database: %v", cfg.Db.Driver, err)
	}

	if cfg.Db.Driver == "sqlite" {
		// sqlite has no row locks, writers are serialized on one connection
		sqlDB, err := db.DB()
		if err != nil {
			logrus.Fatalf("error opening sqlite database: %v", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db
}
