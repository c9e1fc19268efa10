package catalog

// Config holds configuration for the retail catalog API.
type Config struct {
	// ShopURL is the catalog store hostname (e.g. "my-store.example.com").
	ShopURL string `mapstructure:"shop_url" default:""`
	// AccessToken is the Admin API access token.
	AccessToken string `mapstructure:"access_token" default:""`
	// APIVersion selects the Admin API version.
	APIVersion string `mapstructure:"api_version" default:"2024-10"`
	// RequestsPerSecond caps the request rate against the API.
	RequestsPerSecond int `mapstructure:"requests_per_second" default:"2"`
	// MaxRetries is the number of attempts per request before giving up.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
