// Package config loads the relay's configuration from the environment,
// with an optional config.yaml for tunables and the OS keyring as a
// fallback source for secrets.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/avkuznetsov/booking-relay/internal/credential"
)

// Keys for required values; env vars use the uppercased form.
const (
	keyBotToken      = "telegram_bot_token"
	keyGroupID       = "telegram_group_id"
	keyEmailAccount  = "email_account"
	keyEmailPassword = "email_password"
	keyIMAPServer    = "imap_server"
	keyTriggerEmail  = "filter_email"
	keySecret        = "secret_password"
)

// Config is the full startup configuration. Missing or malformed
// required values are a startup-fatal condition, never a runtime one.
type Config struct {
	BotToken       string
	GroupID        int64
	EmailAccount   string
	EmailPassword  string
	IMAPServer     string
	IMAPTLS        bool
	TriggerEmail   string
	SecretPassword string
	PollInterval   time.Duration
	Folders        []string
	MetricsAddr    string
}

// Load reads configuration once at startup. Environment variables take
// precedence; a config.yaml in the working directory may hold the
// tunables; the three secrets fall back to the OS keyring when the
// environment leaves them unset. All validation problems are reported
// together.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("imap_tls", true)
	v.SetDefault("poll_interval", "10s")
	v.SetDefault("mail_folders", "INBOX,[Gmail]/Спам")
	v.SetDefault("metrics_addr", "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{
		BotToken:       secretValue(v, keyBotToken),
		GroupID:        v.GetInt64(keyGroupID),
		EmailAccount:   v.GetString(keyEmailAccount),
		EmailPassword:  secretValue(v, keyEmailPassword),
		IMAPServer:     v.GetString(keyIMAPServer),
		IMAPTLS:        v.GetBool("imap_tls"),
		TriggerEmail:   v.GetString(keyTriggerEmail),
		SecretPassword: secretValue(v, keySecret),
		PollInterval:   v.GetDuration("poll_interval"),
		Folders:        splitFolders(v.GetString("mail_folders")),
		MetricsAddr:    v.GetString("metrics_addr"),
	}

	if cfg.IMAPServer != "" && !strings.Contains(cfg.IMAPServer, ":") {
		cfg.IMAPServer += ":993"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// secretValue resolves a secret from the environment/config first and
// the OS keyring second. Keyring misses are not an error here; the
// validation pass reports the value as missing.
func secretValue(v *viper.Viper, key string) string {
	if val := v.GetString(key); val != "" {
		return val
	}
	val, err := credential.Get(key)
	if err != nil {
		return ""
	}
	return val
}

func splitFolders(s string) []string {
	var folders []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			folders = append(folders, f)
		}
	}
	return folders
}

// validate collects every problem instead of stopping at the first, so
// a misconfigured deployment is fixable in one pass.
func (c *Config) validate() error {
	var missing []string

	required := []struct {
		key string
		ok  bool
	}{
		{keyBotToken, c.BotToken != ""},
		{keyGroupID, c.GroupID != 0},
		{keyEmailAccount, c.EmailAccount != ""},
		{keyEmailPassword, c.EmailPassword != ""},
		{keyIMAPServer, c.IMAPServer != ""},
		{keyTriggerEmail, c.TriggerEmail != ""},
		{keySecret, c.SecretPassword != ""},
	}
	for _, r := range required {
		if !r.ok {
			missing = append(missing, strings.ToUpper(r.key))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s",
			strings.Join(missing, ", "))
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	if len(c.Folders) == 0 {
		return errors.New("mail_folders must name at least one folder")
	}
	return nil
}
