package domain

import "time"

// Config is the normalized service configuration.
type Config struct {
	CatalogPath    string     `json:"catalogPath,omitempty"`
	WatchCatalog   bool       `json:"watchCatalog"`
	HistoryPath    string     `json:"historyPath"`
	ListenAddress  string     `json:"listenAddress"`
	Metrics        bool       `json:"metrics"`
	Healthz        bool       `json:"healthz"`
	StageDelay     StageDelay `json:"stageDelay"`
	StrictSettings bool       `json:"strictSettings"`
	TaskTTLSeconds int        `json:"taskTTLSeconds"`
	TaskListLimit  int        `json:"taskListLimit"`
}

// StageDelay bounds the simulated per-stage latency.
type StageDelay struct {
	MinMillis int `json:"minMillis"`
	MaxMillis int `json:"maxMillis"`
}

func (d StageDelay) Min() time.Duration {
	return time.Duration(d.MinMillis) * time.Millisecond
}

func (d StageDelay) Max() time.Duration {
	return time.Duration(d.MaxMillis) * time.Millisecond
}

// TaskTTL returns the retention of finished tasks; zero disables expiry.
func (c Config) TaskTTL() time.Duration {
	if c.TaskTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TaskTTLSeconds) * time.Second
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		WatchCatalog:   DefaultWatchCatalog,
		HistoryPath:    DefaultHistoryPath,
		ListenAddress:  DefaultListenAddress,
		Metrics:        DefaultMetricsEnabled,
		Healthz:        DefaultHealthzEnabled,
		StageDelay:     StageDelay{MinMillis: DefaultStageDelayMinMillis, MaxMillis: DefaultStageDelayMaxMillis},
		StrictSettings: DefaultStrictSettings,
		TaskTTLSeconds: DefaultTaskTTLSeconds,
		TaskListLimit:  DefaultTaskListLimit,
	}
}
