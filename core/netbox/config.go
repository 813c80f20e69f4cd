package netbox

import "errors"

// Config holds configuration for the inventory API connection.
type Config struct {
	// URL is the base URL of the inventory API (e.g. https://netbox.example.com).
	URL string `mapstructure:"url" default:""`
	// Token is the API token used for authentication.
	Token string `mapstructure:"token" default:""`
	// Site is the site devices get registered under.
	Site string `mapstructure:"site" default:""`
	// Role is the device role assigned to plain servers.
	Role string `mapstructure:"role" default:"Server"`
	// TimeoutSeconds is the request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify" default:"false"`
}

// Validate checks that the settings required to reach the API are present.
func (c Config) Validate() error {
	if c.URL == "" {
		return errors.New("netbox.url is not configured")
	}
	if c.Token == "" {
		return errors.New("netbox.token is not configured")
	}
	if c.Site == "" {
		return errors.New("netbox.site is not configured")
	}
	return nil
}
