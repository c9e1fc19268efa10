// Package config provides configuration management for the inventory sync.
//
// It utilizes Viper for loading configuration from environment variables and
// the optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Catalog: retail catalog API credentials and rate limits
//   - Safety: thresholds for flagging risky quantity updates
//   - Sync: report directory and suppliers file location
//   - Serve: report viewer HTTP port
//   - Database: run-history database connection
//   - Archive: S3/MinIO report archiving
//   - Notify: SMTP notification settings
//   - Log: logging level and format
//
// Supplier definitions and credentials live in their own document; see the
// supplier package.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Catalog.ShopURL)
package config
