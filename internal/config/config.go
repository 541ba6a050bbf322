package config

type Config interface {
	EnvConfig
	OAuthConfig
	EmailConfig
	SyncConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetBaseURL() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	OAuth
	Email
	Sync
}

func New() Config {
	return mainConfig{}
}
