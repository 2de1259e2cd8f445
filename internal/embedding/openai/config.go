package openai

// Config holds configuration for the OpenAI embedding generator.
// BaseURL may point at any OpenAI-compatible embeddings endpoint.
type Config struct {
	APIKey     string `env:"OPENAI_API_KEY"`
	BaseURL    string `env:"EMBEDDING_BASE_URL"`
	Model      string `env:"EMBEDDING_MODEL"       envDefault:"text-embedding-3-small"`
	Dimensions int    `env:"EMBEDDING_DIMENSIONS"`
	Timeout    int    `env:"EMBEDDING_TIMEOUT"     envDefault:"30"`
	MaxRetries int    `env:"EMBEDDING_MAX_RETRIES" envDefault:"2"`
}
