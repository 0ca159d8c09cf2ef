package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

const (
	DefaultConfigPath  = "config.toml"
	DefaultHTTPAddr    = ":8080"
	DefaultLINEAPIBase = "https://api.line.me"
	DefaultLINEData    = "https://api-data.line.me"
	DefaultStorageBase = "https://api.cloudinary.com"
	DefaultFormBaseURL = "https://your-domain.com/bill-form"
	DefaultSummaryCron = "0 9 1 * *"
	DefaultPGHost      = "127.0.0.1"
	DefaultPGPort      = 5432
	DefaultPGUser      = "postgres"
	DefaultPGSSLMode   = "disable"
)

type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	LINE     LINEConfig     `toml:"line"`
	Storage  StorageConfig  `toml:"storage"`
	Form     FormConfig     `toml:"form"`
	Postgres PostgresConfig `toml:"postgres"`
	Sheets   SheetsConfig   `toml:"sheets"`
	Summary  SummaryConfig  `toml:"summary"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LINEConfig holds messaging platform credentials and endpoints. APIBase and
// DataBase are overridable so tests can point the client at a local server.
type LINEConfig struct {
	ChannelSecret      string `toml:"channel_secret"`
	ChannelAccessToken string `toml:"channel_access_token"`
	APIBase            string `toml:"api_base"`
	DataBase           string `toml:"data_base"`
}

// StorageConfig configures the object storage collaborator. Uploads use an
// unsigned preset, so only the cloud name and preset are required.
type StorageConfig struct {
	CloudName    string `toml:"cloud_name"`
	UploadPreset string `toml:"upload_preset"`
	BaseURL      string `toml:"base_url"`
}

type FormConfig struct {
	BaseURL string       `toml:"base_url"`
	Members []FormMember `toml:"members"`
}

// FormMember is a selectable "mention" target on the categorization form.
type FormMember struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	SSLMode  string `toml:"sslmode"`
}

// Enabled reports whether a database was configured at all. An empty database
// name disables the expense store rather than failing startup.
func (c PostgresConfig) Enabled() bool {
	return c.Database != ""
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

type SheetsConfig struct {
	SpreadsheetID   string `toml:"spreadsheet_id"`
	CredentialsFile string `toml:"credentials_file"`
}

func (c SheetsConfig) Enabled() bool {
	return c.SpreadsheetID != ""
}

type SummaryConfig struct {
	Cron       string   `toml:"cron"`
	Recipients []string `toml:"recipients"`
}

// Load reads the TOML config at path, falling back to defaults when the file
// does not exist.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		LINE: LINEConfig{
			APIBase:  DefaultLINEAPIBase,
			DataBase: DefaultLINEData,
		},
		Storage: StorageConfig{
			BaseURL: DefaultStorageBase,
		},
		Form: FormConfig{
			BaseURL: DefaultFormBaseURL,
		},
		Postgres: PostgresConfig{
			Host:    DefaultPGHost,
			Port:    DefaultPGPort,
			User:    DefaultPGUser,
			SSLMode: DefaultPGSSLMode,
		},
		Summary: SummaryConfig{
			Cron: DefaultSummaryCron,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
