// Package config provides configuration management for the registrator.
//
// It utilizes Viper for loading configuration from environment variables
// and .env files.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Netbox: inventory API endpoint, token and site defaults
//   - Journal: run journal database (SQLite by default, MySQL optional)
//   - Archive: S3/MinIO credentials and bucket settings for snapshot uploads
//   - Server: report HTTP server settings (port, API key)
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Netbox.URL)
package config
