package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Engine error codes
const (
	// Input-shape errors: fatal to the single call that hit them.
	CodeMalformedAsset   Code = "MALFORMED_ASSET"
	CodeEmptySnapshotSet Code = "EMPTY_SNAPSHOT_SET"
	CodeInvalidCaps      Code = "INVALID_CAPS"
	CodeMissingBaseAsset Code = "MISSING_BASE_ASSET"

	// Precondition violations: batch statistics computed incorrectly by the caller.
	CodeInvalidBatchStats Code = "INVALID_BATCH_STATS"
)

// Collaborator error codes
const (
	// Horizon pool indexer
	CodeHorizonAPIError  Code = "HORIZON_API_ERROR"
	CodePoolDecodeFailed Code = "POOL_DECODE_FAILED"
	CodePoolFetchFailed  Code = "POOL_FETCH_FAILED"

	// CoinGecko price source
	CodeCoingeckoAPIError Code = "COINGECKO_API_ERROR"
	CodePriceFetchFailed  Code = "PRICE_FETCH_FAILED"
	CodeUnmappedSymbol    Code = "UNMAPPED_SYMBOL"

	// Caching
	CodePriceCacheMiss    Code = "PRICE_CACHE_MISS"
	CodePriceCacheExpired Code = "PRICE_CACHE_EXPIRED"

	// Persistence
	CodeStoreWriteFailed Code = "STORE_WRITE_FAILED"

	// Circuit breaker
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)
