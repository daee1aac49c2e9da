// Package config loads and checks the run configuration: where the
// spreadsheet lives, which columns play which roles, how mail is sent, and
// what the reminder messages say.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full run configuration. It is loaded once before any core
// operation and immutable during a run.
type Config struct {
	Source  Source  `yaml:"source"`
	Mail    Mail    `yaml:"mail"`
	Message Message `yaml:"message"`
	History History `yaml:"history"`
	Logging Logging `yaml:"logging"`
}

// Source locates the workbook and names the field roles of both sheets.
type Source struct {
	Spreadsheet string `yaml:"spreadsheet"`
	UsersTab    string `yaml:"tab_users"`
	ActionsTab  string `yaml:"tab_actions"`
	UserField   string `yaml:"user_id"`
	EmailField  string `yaml:"email_addr"`
	IDField     string `yaml:"action_id"`
	DueField    string `yaml:"action_due"`
	StatusField string `yaml:"action_status"`
	OpenStatus  string `yaml:"open_status"`
}

// Mail holds the outbound SMTP settings.
type Mail struct {
	Server   string   `yaml:"server"`
	Port     int      `yaml:"port"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from"`
	Subject  string   `yaml:"subject"`
	CC       []string `yaml:"cc"`
}

// Message holds the reminder templates and the table layout.
type Message struct {
	Preamble string            `yaml:"preamble"`
	Close    string            `yaml:"close"`
	Columns  []string          `yaml:"columns"`
	Align    map[string]string `yaml:"align"`
}

// History configures the optional send-history store.
type History struct {
	Path string `yaml:"path"`
}

// Logging holds logging-related configuration.
type Logging struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// Default returns the configuration defaults applied under any loaded file.
func Default() *Config {
	return &Config{
		Source: Source{
			OpenStatus: "Open",
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML configuration file and merges it over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if cfg.Source.OpenStatus == "" {
		cfg.Source.OpenStatus = "Open"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}

	for column, directive := range cfg.Message.Align {
		switch directive {
		case "l", "c", "r":
		default:
			return nil, fmt.Errorf("message align value for %q must be one of l, c, r", column)
		}
	}

	return cfg, nil
}

// CheckRequired ensures all the required fields have been filled in. It
// collects every complaint instead of stopping at the first, so a fresh
// configuration can be fixed in one round.
func (c *Config) CheckRequired() []string {
	var errors []string
	if c.Source.ActionsTab == "" {
		errors = append(errors, "Missing spreadsheet tab name for actions")
	}
	if c.Source.UsersTab == "" {
		errors = append(errors, "Missing spreadsheet tab name for users")
	}
	if c.Source.UserField == "" {
		errors = append(errors, "Missing user/action user-id field")
	}
	if c.Source.EmailField == "" {
		errors = append(errors, "Missing user email field")
	}
	if c.Source.IDField == "" {
		errors = append(errors, "Missing action identifier field")
	}
	if c.Source.DueField == "" {
		errors = append(errors, "Missing action due date field")
	}
	if c.Source.StatusField == "" {
		errors = append(errors, "Missing action status field")
	}
	if c.Mail.Server == "" || c.Mail.Port == 0 {
		errors = append(errors, "Missing mail server or port")
	}
	if c.Mail.From == "" {
		errors = append(errors, "Missing mail from address")
	}
	if c.Mail.Subject == "" {
		errors = append(errors, "Missing mail subject")
	}
	if len(c.Message.Columns) == 0 {
		errors = append(errors, "Missing message table headers")
	}
	return errors
}
