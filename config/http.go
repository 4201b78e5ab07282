package config

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the base URL of the application (e.g., "https://portal.example.id").
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// LoginPath is where unauthenticated users are redirected.
	LoginPath string `env:"APP_LOGIN_PATH" envDefault:"/login"`
}
