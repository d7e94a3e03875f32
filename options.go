package pipe80

// RunOption customizes a RunScript call.
type RunOption func(*runConfig)

type runConfig struct {
	observer any
}

// WithObserver attaches an observer to the run. The observer is consulted
// for the optional capability interfaces it implements ([BlockStarter],
// [BlockStopper]); anything else is ignored. The core itself never logs,
// so an observer is how drivers surface per-block activity.
func WithObserver(observer any) RunOption {
	return func(cfg *runConfig) {
		cfg.observer = observer
	}
}

func resolveRunConfig(opts []RunOption) runConfig {
	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
