package redis

import "time"

// Config holds Redis connection settings shared by the cache and vector stores.
type Config struct {
	Addr         string        `env:"REDIS_ADDR"          envDefault:"localhost:6379"`
	Password     string        `env:"REDIS_PASSWORD"`
	DB           int           `env:"REDIS_DB"            envDefault:"0"`
	PoolSize     int           `env:"REDIS_POOL_SIZE"     envDefault:"20"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT"  envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT"  envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
	IndexName    string        `env:"REDIS_VECTOR_INDEX"  envDefault:"qa_embeddings"`
}
