package config

// APIConfig exposes the run history over HTTP. An empty Addr disables the
// endpoint.
type APIConfig struct {
	Addr string `json:"addr"`
	// Token, when set, is required as a bearer token.
	Token string `json:"token"`
}
