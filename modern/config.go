package modern

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultSerialPort = "/dev/tty.usbserial-A10"
	DefaultBaudRate   = 115200
	DefaultTimeout    = 1
)

// Settings is the merged view of config file, environment and flags.
type Settings struct {
	SerialPort string         `mapstructure:"serial-port"`
	BaudRate   int            `mapstructure:"baud-rate"`
	Timeout    int            `mapstructure:"timeout"`
	Debug      bool           `mapstructure:"debug"`
	LogFile    string         `mapstructure:"log-file"`
	Server     ServerSettings `mapstructure:"server"`
}

type ServerSettings struct {
	Addr       string `mapstructure:"addr"`
	History    int    `mapstructure:"history"`
	MQTTBroker string `mapstructure:"mqtt-broker"`
	MQTTTopic  string `mapstructure:"mqtt-topic"`
}

// SetDefaults registers the built-in defaults on v. Keys that already hold
// a value, including a default the caller registered, are left alone.
func SetDefaults(v *viper.Viper) {
	for _, d := range []struct {
		key string
		val interface{}
	}{
		{"serial-port", DefaultSerialPort},
		{"baud-rate", DefaultBaudRate},
		{"timeout", DefaultTimeout},
		{"debug", false},
		{"log-file", ""},
		{"server.addr", "127.0.0.1:8080"},
		{"server.history", 256},
		{"server.mqtt-broker", ""},
		{"server.mqtt-topic", "doughman/distance"},
	} {
		if !v.IsSet(d.key) {
			v.SetDefault(d.key, d.val)
		}
	}
}

// LoadConfig reads an optional doughman.yaml (or the file at path) plus
// DOUGHMAN_* environment variables into v and returns the merged settings.
// Flags must already be bound on v.
func LoadConfig(v *viper.Viper, path string) (*Settings, error) {
	SetDefaults(v)
	v.SetEnvPrefix("doughman")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("doughman")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "doughman"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &s, nil
}
