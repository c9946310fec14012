package constants

const (
	ViperServerAddrKey         = "server.addr"
	ViperServerAllowOriginsKey = "server.allow_origins"
	ViperSecretKey             = "auth.secret"

	ViperLogLevelKey       = "log.level"
	ViperLogDevelopmentKey = "log.development"

	ViperSourceKindKey          = "source.kind"
	ViperSourceBaseURLKey       = "source.base_url"
	ViperSourceDirKey           = "source.dir"
	ViperSourceDSNKey           = "source.dsn"
	ViperSourceRetriesKey       = "source.retries"
	ViperSourceRetryIntervalKey = "source.retry_interval"
	ViperSourceTimeoutKey       = "source.timeout"

	ViperDensityFloorKey    = "density.floor"
	ViperDensityCorridorKey = "density.corridor"
	ViperDensityCeilingKey  = "density.ceiling"

	ViperSearchThresholdKey   = "search.threshold"
	ViperSearchMinTokenLenKey = "search.min_token_len"
	ViperSearchMinFuzzyLenKey = "search.min_fuzzy_len"

	ViperGraphStrictIDsKey      = "graph.strict_ids"
	ViperGraphGuessLevelsKey    = "graph.guess_levels"
	ViperGraphTitleSeparatorKey = "graph.title_separator"
)

const (
	CookieKeySecretToken = "secret_token"
)

const (
	SourceKindHTTP     = "http"
	SourceKindFile     = "file"
	SourceKindPostgres = "postgres"
)

// Dataset names, also used as file stems by the http and file sources.
const (
	DatasetPrograms  = "programes"
	DatasetCentres   = "centres"
	DatasetInstances = "instancies"
	DatasetZones     = "poligons"
	DatasetLookups   = "lookups"
)

const (
	DocKindProgram = "programa"
	DocKindCentre  = "centre"
)
