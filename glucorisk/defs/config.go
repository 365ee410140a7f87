package defs

import (
	"os"
	"time"

	"go.uber.org/zap"
)

// Intervals.
const (
	TimeoutInterval = 2 * time.Second
	FetchTimeout    = 10 * time.Second
)

// Channels.
const (
	AlertsChannel  = "alerts"
	ReportsChannel = "reports"
)

// Environment overrides for secrets.
const (
	EnvDexcomPassword = "GLUCORISK_DEXCOM_PASSWORD"
	EnvDiscordToken   = "GLUCORISK_DISCORD_TOKEN"
)

const (
	DefaultAddr           = ":4242"
	DefaultMaxUploadBytes = 8 << 20
	DefaultGlucoseLow     = 70
	DefaultGlucoseHigh    = 180
)

type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Dexcom   DexcomConfig  `yaml:"dexcom"`
	Discord  DiscordConfig `yaml:"discord"`
	Glucose  GlucoseConfig `yaml:"glucose"`
	Timezone string        `yaml:"timezone"`
	Logger   *zap.Logger   `yaml:"-"`
}

type ServerConfig struct {
	Addr           string `yaml:"addr"`
	MaxUploadBytes int64  `yaml:"maxUploadBytes"`
}

// DexcomConfig enables the Share client. A zero SyncInterval leaves syncing to
// explicit requests.
type DexcomConfig struct {
	Account      string        `yaml:"account"`
	Password     string        `yaml:"password"`
	SyncInterval time.Duration `yaml:"syncInterval"`
}

func (dc DexcomConfig) Enabled() bool {
	return dc.Account != "" && dc.Password != ""
}

type DiscordConfig struct {
	Token string `yaml:"token"`
	Guild string `yaml:"guild"`
}

func (dc DiscordConfig) Enabled() bool {
	return dc.Token != "" && dc.Guild != ""
}

// GlucoseConfig bounds the target range in mg/dL, used for time in range.
type GlucoseConfig struct {
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}

// ApplyDefaults fills unset fields and applies environment overrides.
func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.MaxUploadBytes <= 0 {
		c.Server.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.Glucose.Low == 0 && c.Glucose.High == 0 {
		c.Glucose = GlucoseConfig{Low: DefaultGlucoseLow, High: DefaultGlucoseHigh}
	}
	if v := os.Getenv(EnvDexcomPassword); v != "" {
		c.Dexcom.Password = v
	}
	if v := os.Getenv(EnvDiscordToken); v != "" {
		c.Discord.Token = v
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}
