package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envVars = []string{
	"STATE_PATH", "LOG_SPEC", "PIN_DRIVER", "SPEAKER_PIN", "LED_PIN",
	"TIMING", "DISPLAY", "STATUS_INTERVAL", "TELEGRAM_TOKEN", "TELEGRAM_CHANNELID",
}

// clearEnv unsets every variable Load looks at, restoring them after the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, os.TempDir(), cfg.StatePath)
	assert.Equal(t, "sysfs", cfg.PinDriver)
	assert.Equal(t, "20", cfg.SpeakerPin)
	assert.Equal(t, "", cfg.LEDPin)
	assert.Equal(t, TimingSpin, cfg.Timing)
	assert.False(t, cfg.Display)
	assert.Equal(t, 24*time.Hour, cfg.StatusInterval)
	assert.False(t, cfg.TelegramEnabled())
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("STATE_PATH", "/var/lib/schoolbell")
	t.Setenv("PIN_DRIVER", "Periph")
	t.Setenv("SPEAKER_PIN", "GPIO18")
	t.Setenv("LED_PIN", "GPIO23")
	t.Setenv("TIMING", "sleep")
	t.Setenv("DISPLAY", "true")
	t.Setenv("STATUS_INTERVAL", "6h")
	t.Setenv("LOG_SPEC", "<root>=DEBUG;main.gpio=TRACE")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHANNELID", "-100200300")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/schoolbell", cfg.StatePath)
	assert.Equal(t, "periph", cfg.PinDriver)
	assert.Equal(t, "GPIO18", cfg.SpeakerPin)
	assert.Equal(t, "GPIO23", cfg.LEDPin)
	assert.Equal(t, TimingSleep, cfg.Timing)
	assert.True(t, cfg.Display)
	assert.Equal(t, 6*time.Hour, cfg.StatusInterval)
	assert.Equal(t, "<root>=DEBUG;main.gpio=TRACE", cfg.LogSpec)
	assert.Equal(t, int64(-100200300), cfg.TelegramChannelID)
	assert.True(t, cfg.TelegramEnabled())
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]map[string]string{
		"PIN_DRIVER":                {"PIN_DRIVER": "pwm"},
		"TIMING":                    {"TIMING": "interrupt"},
		"STATUS_INTERVAL":           {"STATUS_INTERVAL": "-1h"},
		"STATUS_INTERVAL no unit":   {"STATUS_INTERVAL": "24"},
		"STATUS_INTERVAL garbage":   {"STATUS_INTERVAL": "abc"},
		"STATUS_INTERVAL day":       {"STATUS_INTERVAL": "1day"},
		"STATUS_INTERVAL too short": {"STATUS_INTERVAL": "10ms"},
		"DISPLAY":                   {"DISPLAY": "maybe"},
		"TELEGRAM_CHANNELID":        {"TELEGRAM_TOKEN": "123:abc", "TELEGRAM_CHANNELID": "not-a-number"},
		"TELEGRAM_CHANNELID alone":  {"TELEGRAM_CHANNELID": "-100abc"},
		"LOG_SPEC":                  {"LOG_SPEC": "<root>=LOUD"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), strings.Fields(name)[0])
		})
	}
}

func TestStatusIntervalDisabled(t *testing.T) {
	clearEnv(t)
	t.Setenv("STATUS_INTERVAL", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Zero(t, cfg.StatusInterval)
}

func TestParseDuration(t *testing.T) {
	d, err := parseDuration(" 90m ")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)

	d, err = parseDuration("1h30m")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)

	for _, s := range []string{"24", "", "abc", "1day", "-"} {
		_, err := parseDuration(s)
		assert.Error(t, err, s)
	}
}
