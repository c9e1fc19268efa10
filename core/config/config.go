package config

import (
	"reflect"
	"strings"

	"stocksync/core/archive"
	"stocksync/core/catalog"
	"stocksync/core/database"
	"stocksync/core/logger"
	"stocksync/core/notify"
	"stocksync/core/safety"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// SyncConfig holds the run-level settings that do not belong to any one
// subsystem.
type SyncConfig struct {
	// ReportDir is the directory where run reports are written.
	ReportDir string `mapstructure:"report_dir" default:"logs"`
	// SuppliersFile is the path to the suppliers configuration document.
	SuppliersFile string `mapstructure:"suppliers_file" default:"config/suppliers.json"`
}

// ServeConfig holds configuration for the report viewer HTTP server.
type ServeConfig struct {
	// Port is the port where the viewer will listen.
	Port string `mapstructure:"port" default:"8080"`
}

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Catalog holds configuration for the retail catalog API.
	Catalog catalog.Config `mapstructure:"catalog"`
	// Safety holds the thresholds for risky quantity updates.
	Safety safety.Config `mapstructure:"safety"`
	// Sync holds the run-level settings.
	Sync SyncConfig `mapstructure:"sync"`
	// Serve holds configuration for the report viewer server.
	Serve ServeConfig `mapstructure:"serve"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the run-history database.
	Database database.Config `mapstructure:"database"`
	// Archive holds configuration for report archiving to object storage.
	Archive archive.Config `mapstructure:"archive"`
	// Notify holds configuration for email notifications.
	Notify notify.Config `mapstructure:"notify"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	// We construct the path to .env
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. CATALOG_SHOP_URL -> catalog.shop_url)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
