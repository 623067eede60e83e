package config

const (
	defaultBind             = "127.0.0.1:8000"
	defaultScriptsDir       = "scripts"
	defaultPredictorTimeout = 180
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			Bind: defaultBind,
		},
		Predictor: Predictor{
			ScriptsDir:     defaultScriptsDir,
			TimeoutSeconds: defaultPredictorTimeout,
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
	}
}
