package options

import (
	"github.com/spf13/pflag"
)

// AuthOptions configures bearer token authentication of the API.
type AuthOptions struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
	// Token may be left empty and supplied through ANDALEM_API_TOKEN.
	Token string `json:"-" mapstructure:"token"`
}

func NewAuthOptions() *AuthOptions {
	return &AuthOptions{}
}

func (o *AuthOptions) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.Enabled, "auth.enabled", o.Enabled, "Require a bearer token on non-local requests.")
	fs.StringVar(&o.Token, "auth.token", o.Token, "Expected bearer token.")
}
