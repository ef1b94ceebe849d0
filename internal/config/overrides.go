package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ASKE_REGISTRY_DIR
const EnvPrefix = "ASKE"

// Keys understood by ApplyOverrides. Nested keys map to env vars with "."
// replaced by "_" (log.level -> ASKE_LOG_LEVEL).
const (
	KeyRegistryDir    = "registry_dir"
	KeyLimaBinary     = "lima_binary"
	KeyBrewBinary     = "brew_binary"
	KeyStartTimeout   = "timeouts.start"
	KeyStopTimeout    = "timeouts.stop"
	KeyDeleteTimeout  = "timeouts.delete"
	KeyProbeTimeout   = "timeouts.probe"
	KeyInstallTimeout = "timeouts.install"
	KeyLogLevel       = "log.level"
	KeyLogFile        = "log.file"
)

// LoadDotEnv loads .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// NewViper returns a viper instance reading ASKE_* environment variables
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{
		KeyRegistryDir, KeyLimaBinary, KeyBrewBinary,
		KeyStartTimeout, KeyStopTimeout, KeyDeleteTimeout, KeyProbeTimeout, KeyInstallTimeout,
		KeyLogLevel, KeyLogFile,
	} {
		_ = v.BindEnv(key)
	}
	return v
}

// ApplyOverrides copies every key set in v (bound flags or environment)
// over cfg. Keys that are not set leave the file or default value alone.
func (c *Config) ApplyOverrides(v *viper.Viper) {
	strs := map[string]*string{
		KeyRegistryDir: &c.RegistryDir,
		KeyLimaBinary:  &c.LimaBinary,
		KeyBrewBinary:  &c.BrewBinary,
		KeyLogLevel:    &c.Log.Level,
		KeyLogFile:     &c.Log.File,
	}
	for key, dst := range strs {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	durations := map[string]*time.Duration{
		KeyStartTimeout:   &c.Timeouts.Start,
		KeyStopTimeout:    &c.Timeouts.Stop,
		KeyDeleteTimeout:  &c.Timeouts.Delete,
		KeyProbeTimeout:   &c.Timeouts.Probe,
		KeyInstallTimeout: &c.Timeouts.Install,
	}
	for key, dst := range durations {
		if v.IsSet(key) {
			*dst = v.GetDuration(key)
		}
	}
}
