package relayer

import (
	"github.com/lazor-kit/wallet-client/pkg/config"
	"github.com/lazor-kit/wallet-client/pkg/config/env"
	"github.com/lazor-kit/wallet-client/pkg/config/memory"
	"github.com/lazor-kit/wallet-client/pkg/config/wrapper"
)

const (
	envConfigPrefix = "RELAYER_"

	UrlConfigEnvName = envConfigPrefix + "URL"
	defaultUrl       = "https://lazorkit-paymaster.onrender.com"

	MethodConfigEnvName = envConfigPrefix + "METHOD"
	defaultMethod       = "signAndSendTransaction"
)

type conf struct {
	url    config.String
	method config.String
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			url:    env.NewStringConfig(UrlConfigEnvName, defaultUrl),
			method: env.NewStringConfig(MethodConfigEnvName, defaultMethod),
		}
	}
}

type testOverrides struct {
	url string
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		return &conf{
			url:    wrapper.NewStringConfig(memory.NewConfig(overrides.url), defaultUrl),
			method: wrapper.NewStringConfig(memory.NewConfig(defaultMethod), defaultMethod),
		}
	}
}
