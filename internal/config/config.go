package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"code.sztanpet.net/zvpsz/schoolbell/internal/gpio"
	"github.com/juju/loggo"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

var logger = loggo.GetLogger("main.config")

const (
	TimingSleep = "sleep"
	TimingSpin  = "spin"
)

// MinStatusInterval keeps a mistyped STATUS_INTERVAL from flooding the log
const MinStatusInterval = time.Minute

type Config struct {
	StatePath string
	LogSpec   string

	PinDriver  string
	SpeakerPin string
	// LEDPin is optional, empty disables the playback indicator
	LEDPin  string
	Timing  string
	Display bool
	// StatusInterval is how often a status report is logged, 0 disables it
	StatusInterval time.Duration

	// telegram is optional, both have to be set
	TelegramToken     string
	TelegramChannelID int64
}

// Load reads the configuration from the environment.
// The defaults fit the orange pi the bell was built on.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("STATE_PATH", os.TempDir())
	v.SetDefault("LOG_SPEC", "<root>=INFO")
	v.SetDefault("PIN_DRIVER", gpio.DriverSysfs)
	v.SetDefault("SPEAKER_PIN", "20")
	v.SetDefault("LED_PIN", "")
	v.SetDefault("TIMING", TimingSpin)
	v.SetDefault("DISPLAY", "false")
	v.SetDefault("STATUS_INTERVAL", "24h")
	v.SetDefault("TELEGRAM_TOKEN", "")
	v.SetDefault("TELEGRAM_CHANNELID", "0")
	v.AutomaticEnv()

	cfg := &Config{
		StatePath:     v.GetString("STATE_PATH"),
		LogSpec:       v.GetString("LOG_SPEC"),
		PinDriver:     strings.ToLower(v.GetString("PIN_DRIVER")),
		SpeakerPin:    v.GetString("SPEAKER_PIN"),
		LEDPin:        v.GetString("LED_PIN"),
		Timing:        strings.ToLower(v.GetString("TIMING")),
		TelegramToken: v.GetString("TELEGRAM_TOKEN"),
	}

	// viper's typed getters turn garbage into zero values, parse the raw strings instead
	var err error
	cfg.Display, err = cast.ToBoolE(v.GetString("DISPLAY"))
	if err != nil {
		return nil, fmt.Errorf("DISPLAY must be true or false; got %q", v.GetString("DISPLAY"))
	}

	cfg.StatusInterval, err = parseDuration(v.GetString("STATUS_INTERVAL"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATUS_INTERVAL: %w", err)
	}

	cfg.TelegramChannelID, err = cast.ToInt64E(strings.TrimSpace(v.GetString("TELEGRAM_CHANNELID")))
	if err != nil {
		return nil, fmt.Errorf("TELEGRAM_CHANNELID must be an integer; got %q", v.GetString("TELEGRAM_CHANNELID"))
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Get is Load for binaries: configuration errors are fatal
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		logger.Criticalf("invalid configuration: %v", err)
		os.Exit(1)
	}

	return cfg
}

func (c *Config) validate() error {
	switch c.PinDriver {
	case gpio.DriverPeriph, gpio.DriverSysfs, gpio.DriverNone:
	default:
		return fmt.Errorf("PIN_DRIVER must be one of periph, sysfs, none; got %q", c.PinDriver)
	}

	if c.SpeakerPin == "" {
		return fmt.Errorf("empty SPEAKER_PIN env var")
	}

	switch c.Timing {
	case TimingSleep, TimingSpin:
	default:
		return fmt.Errorf("TIMING must be sleep or spin; got %q", c.Timing)
	}

	if c.StatusInterval < 0 {
		return fmt.Errorf("STATUS_INTERVAL must not be negative; got %v", c.StatusInterval)
	}

	if c.StatusInterval != 0 && c.StatusInterval < MinStatusInterval {
		return fmt.Errorf("STATUS_INTERVAL must be 0 or at least %v; got %v", MinStatusInterval, c.StatusInterval)
	}

	if c.StatePath == "" {
		return fmt.Errorf("empty STATE_PATH env var")
	}

	if c.TelegramToken != "" && c.TelegramChannelID == 0 {
		return fmt.Errorf("TELEGRAM_CHANNELID must be a non-zero integer when TELEGRAM_TOKEN is set")
	}

	if _, err := loggo.ParseConfigString(c.LogSpec); err != nil {
		return fmt.Errorf("invalid LOG_SPEC: %w", err)
	}

	return nil
}

// parseDuration accepts "0" or a duration with units, "24" alone is rejected
// instead of being read as nanoseconds
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "0" {
		return 0, nil
	}

	if !strings.ContainsAny(s, "nsuµmh") {
		return 0, fmt.Errorf("%q has no unit, use eg. 24h or 30m", s)
	}

	return cast.ToDurationE(s)
}

// TelegramEnabled reports whether log forwarding to telegram is configured
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChannelID != 0
}
