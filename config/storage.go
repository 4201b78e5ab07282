package config

// StorageConfig contains session storage (Redis) configuration.
// The session's durable key-value mirror lives here.
type StorageConfig struct {
	RedisAddr     string `env:"REDIS_ADDR"     envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB"       envDefault:"0"`

	// KeyPrefix namespaces the persisted session keys.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"siwaris:session:"`
}
