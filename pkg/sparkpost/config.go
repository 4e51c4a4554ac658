package sparkpost

// DefaultBaseURL is the production SparkPost API root. EU accounts
// should override it with https://api.eu.sparkpost.com/api/v1.
const DefaultBaseURL = "https://api.sparkpost.com/api/v1"

// Config holds SparkPost adapter configuration.
// APIKey is required; New fails fast when it is missing so a
// misconfigured service never reaches the network.
type Config struct {
	APIKey  string `env:"SPARKPOST_API_KEY"`
	BaseURL string `env:"SPARKPOST_BASE_URL" envDefault:"https://api.sparkpost.com/api/v1"`
	// Headers are extra request headers attached verbatim to every
	// outbound API call, e.g. for proxies or tenancy routing.
	Headers map[string]string `env:"SPARKPOST_EXTRA_HEADERS"`
}
