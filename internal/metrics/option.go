package metrics

type Provider string

const (
	PrometheusProvider Provider = "prometheus"
	OtelCollector      Provider = "customOtelCollector"
)

type Config struct {
	ServiceName string
	Provider    []ProviderCfg
}

type ProviderCfg struct {
	Provider Provider
	Endpoint string
	Headers  map[string]string
	Insecure bool
}

type OptionFn func(config Config) Config

func WithProviderConfig(provider ProviderCfg) OptionFn {
	return func(config Config) Config {
		config.Provider = append(config.Provider, provider)
		return config
	}
}

func WithServiceName(serviceName string) OptionFn {
	return func(config Config) Config {
		config.ServiceName = serviceName
		return config
	}
}

func NewOtelCollectorConfig(url string, headers map[string]string, insecure bool) ProviderCfg {
	return ProviderCfg{
		Provider: OtelCollector,
		Endpoint: url,
		Headers:  headers,
		Insecure: insecure,
	}
}

type PromServerConfig struct {
	port string
}

type PromOptionFn func(config PromServerConfig) PromServerConfig

func WithPort(port string) PromOptionFn {
	return func(config PromServerConfig) PromServerConfig {
		config.port = port
		return config
	}
}
