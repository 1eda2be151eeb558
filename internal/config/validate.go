package config

import "errors"

func ValidateForRun(cfg *Config) error {
	if cfg.APIBase == "" {
		return ErrAPIBaseMissing
	}

	var redisErr error
	if cfg.Store.Backend == StoreBackendRedis {
		redisErr = cfg.Redis.Validate()
	}

	return errors.Join(cfg.Store.Validate(), redisErr, cfg.Notifier.Validate())
}
