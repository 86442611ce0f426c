package api

// ServerConfig represents the management API configuration.
type ServerConfig struct {
	Addr     string `help:"API listen address" default:"127.0.0.1:3717" env:"WIIMOTED_API_ADDR"`
	Auth     bool   `help:"Require password authentication on the API" default:"false" env:"WIIMOTED_API_AUTH"`
	Password string `help:"API password; generated and stored in the config dir when auth is enabled and this is empty" env:"WIIMOTED_API_PASSWORD"`
}
