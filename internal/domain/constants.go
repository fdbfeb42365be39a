package domain

const (
	DefaultLocale                      = "en"
	DefaultListenAddress               = "127.0.0.1:7420"
	DefaultHistoryPath                 = "history.db"
	DefaultStageDelayMinMillis         = 500
	DefaultStageDelayMaxMillis         = 1500
	DefaultTaskTTLSeconds              = 3600
	DefaultTaskListLimit               = 50
	DefaultHistoryListLimit            = 20
	DefaultMetricsEnabled              = true
	DefaultHealthzEnabled              = true
	DefaultStrictSettings              = false
	DefaultWatchCatalog                = false
	DefaultCatalogReloadDebounceMillis = 200
)
