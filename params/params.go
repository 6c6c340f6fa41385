package params

import "time"

const (
	ServerBodyLimit    = 1048576 // 1 MiB
	ServerIdleTimeout  = 30 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 10 * time.Second

	TokenKeyPrefix      = "tok:"
	CollectionKeyPrefix = "col:"
	OAuthStateKeyPrefix = "st:"

	APIRequestTimeout = 45 * time.Second // fixed timeout for every Intuto API and token call
	APIQueryMaxLimit  = 100              // hard page-size cap enforced by the Intuto API
	SyncPageSize      = 30               // throttled page size used by the collection sync

	OAuthScope           = "offline_access apiv2" // access scope requested at authorization time
	OAuthStateExpiration = 10 * time.Minute       // authorization must complete within this window

	CollectionSyncInterval = 1 * time.Hour  // periodic full refresh of the collection cache
	TokenRefreshInterval   = 24 * time.Hour // keep-alive refresh of the access token
	HealthCheckServerAddr  = ":3001"        // health check server address
)
