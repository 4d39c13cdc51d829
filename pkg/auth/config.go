package auth

import (
	"time"

	"github.com/lazor-kit/wallet-client/pkg/config"
	"github.com/lazor-kit/wallet-client/pkg/config/env"
	"github.com/lazor-kit/wallet-client/pkg/config/memory"
	"github.com/lazor-kit/wallet-client/pkg/config/wrapper"
	"github.com/lazor-kit/wallet-client/pkg/portal"
)

const (
	envConfigPrefix = "AUTH_DRIVER_"

	PortalUrlConfigEnvName = envConfigPrefix + "PORTAL_URL"
	defaultPortalUrl       = portal.DefaultURL

	AppIdConfigEnvName = envConfigPrefix + "APP_ID"
	defaultAppId       = portal.DefaultAppID

	PayerConfigEnvName = envConfigPrefix + "PAYER"
	defaultPayer       = "hij78MKbJSSs15qvkHWTDCtnmba2c1W4r1V22g5sD8w"

	WaitForConfirmationConfigEnvName = envConfigPrefix + "WAIT_FOR_CONFIRMATION"
	defaultWaitForConfirmation       = true

	ConfirmationPollIntervalConfigEnvName = envConfigPrefix + "CONFIRMATION_POLL_INTERVAL"
	defaultConfirmationPollInterval       = time.Second

	ConfirmationMaxAttemptsConfigEnvName = envConfigPrefix + "CONFIRMATION_MAX_ATTEMPTS"
	defaultConfirmationMaxAttempts       = 60

	InitialDepositLamportsConfigEnvName = envConfigPrefix + "INITIAL_DEPOSIT_LAMPORTS"
	defaultInitialDepositLamports       = 0
)

type conf struct {
	portalUrl                config.String
	appId                    config.String
	payer                    config.String
	waitForConfirmation      config.Bool
	confirmationPollInterval config.Duration
	confirmationMaxAttempts  config.Uint64
	initialDepositLamports   config.Uint64
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			portalUrl:                env.NewStringConfig(PortalUrlConfigEnvName, defaultPortalUrl),
			appId:                    env.NewStringConfig(AppIdConfigEnvName, defaultAppId),
			payer:                    env.NewStringConfig(PayerConfigEnvName, defaultPayer),
			waitForConfirmation:      env.NewBoolConfig(WaitForConfirmationConfigEnvName, defaultWaitForConfirmation),
			confirmationPollInterval: env.NewDurationConfig(ConfirmationPollIntervalConfigEnvName, defaultConfirmationPollInterval),
			confirmationMaxAttempts:  env.NewUint64Config(ConfirmationMaxAttemptsConfigEnvName, defaultConfirmationMaxAttempts),
			initialDepositLamports:   env.NewUint64Config(InitialDepositLamportsConfigEnvName, defaultInitialDepositLamports),
		}
	}
}

type testOverrides struct {
	payer                  string
	waitForConfirmation    bool
	initialDepositLamports uint64
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		return &conf{
			portalUrl:                wrapper.NewStringConfig(memory.NewConfig(defaultPortalUrl), defaultPortalUrl),
			appId:                    wrapper.NewStringConfig(memory.NewConfig(defaultAppId), defaultAppId),
			payer:                    wrapper.NewStringConfig(memory.NewConfig(overrides.payer), defaultPayer),
			waitForConfirmation:      wrapper.NewBoolConfig(memory.NewConfig(overrides.waitForConfirmation), defaultWaitForConfirmation),
			confirmationPollInterval: wrapper.NewDurationConfig(memory.NewConfig(time.Millisecond), defaultConfirmationPollInterval),
			confirmationMaxAttempts:  wrapper.NewUint64Config(memory.NewConfig(uint64(5)), defaultConfirmationMaxAttempts),
			initialDepositLamports:   wrapper.NewUint64Config(memory.NewConfig(overrides.initialDepositLamports), defaultInitialDepositLamports),
		}
	}
}
