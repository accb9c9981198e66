// Package config initializes the process-wide Viper instance used by the CLI.
// Settings come from an optional config file, BRANDSCAN_* environment
// variables and command-line flags bound by the cobra commands.
package config

import (
	"errors"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	internalconfig "github.com/JakeFAU/brandscan/internal/config"
	"github.com/JakeFAU/brandscan/internal/logging"
)

// InitConfig prepares the global Viper instance. An explicit path must be
// readable; without one the usual search paths are tried and a missing file
// is not an error.
func InitConfig(path string) error {
	v := viper.GetViper()
	internalconfig.Prepare(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("brandscan")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.brandscan")
		v.AddConfigPath("/etc/brandscan/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			logging.L.Debug("config file not found; using defaults and environment variables")
			return nil
		}
		return err
	}
	logging.L.Info("using config file", zap.String("path", v.ConfigFileUsed()))
	return nil
}
