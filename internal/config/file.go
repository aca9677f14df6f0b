package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// configName is the optional project config file, searched for in the
// project root as voice-input-launcher.{yaml,toml,json}.
const configName = "voice-input-launcher"

// LoadFile overlays values from the project config file onto cfg. A
// missing file is not an error; a malformed one is.
func LoadFile(cfg *Config) error {
	v := viper.New()
	v.SetConfigName(configName)
	v.AddConfigPath(cfg.ProjectRoot)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}

	applyFile(cfg, v)
	return nil
}

// applyFile copies every key present in v onto cfg. Keys not present
// keep their defaults.
func applyFile(cfg *Config, v *viper.Viper) {
	if v.IsSet("src_tauri_dir") {
		cfg.SrcTauriDir = v.GetString("src_tauri_dir")
	}
	if v.IsSet("asset.url") {
		cfg.AssetURL = v.GetString("asset.url")
	}
	if v.IsSet("asset.path") {
		cfg.AssetPath = v.GetString("asset.path")
	}
	if v.IsSet("check_timeout") {
		if d := v.GetDuration("check_timeout"); d > 0 {
			cfg.CheckTimeout = d
		} else {
			cfg.CheckTimeout = time.Duration(0) // caught by Validate
		}
	}
	if v.IsSet("vite_url") {
		cfg.ViteURL = v.GetString("vite_url")
	}
	if v.IsSet("metrics_addr") {
		cfg.MetricsAddr = v.GetString("metrics_addr")
	}
	if v.IsSet("log_format") {
		cfg.LogFormat = v.GetString("log_format")
	}
}
