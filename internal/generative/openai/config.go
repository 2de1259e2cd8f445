package openai

// Config contains generative provider configuration.
// All fields map to OpenAI SDK options or request parameters.
type Config struct {
	APIKey      string  `env:"OPENAI_API_KEY"`
	BaseURL     string  `env:"GENERATIVE_BASE_URL"`
	Model       string  `env:"GENERATIVE_MODEL"       envDefault:"gpt-4o-mini"`
	Topic       string  `env:"GENERATIVE_TOPIC"       envDefault:"Syria"`
	Temperature float64 `env:"GENERATIVE_TEMPERATURE" envDefault:"0.3"`
	MaxTokens   int     `env:"GENERATIVE_MAX_TOKENS"  envDefault:"2000"`
	Timeout     int     `env:"GENERATIVE_TIMEOUT"     envDefault:"60"`
	MaxRetries  int     `env:"GENERATIVE_MAX_RETRIES" envDefault:"0"`
}
