package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	CodeConfigurationError: "Configuration error",

	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	CodeInternalError: "Internal error",
	CodeUnknownError:  "An unknown error occurred",

	CodeMalformedAsset:   "Asset descriptor is malformed",
	CodeEmptySnapshotSet: "Snapshot set is empty",
	CodeInvalidCaps:      "Selection caps are invalid",
	CodeMissingBaseAsset: "Base asset appears in no pool pair",

	CodeInvalidBatchStats: "Batch statistics are invalid",

	CodeHorizonAPIError:  "Horizon API error",
	CodePoolDecodeFailed: "Failed to decode pool record",
	CodePoolFetchFailed:  "Failed to fetch liquidity pools",

	CodeCoingeckoAPIError: "CoinGecko API error",
	CodePriceFetchFailed:  "Failed to fetch external price",
	CodeUnmappedSymbol:    "No external price mapping for symbol",

	CodePriceCacheMiss:    "Price cache miss",
	CodePriceCacheExpired: "Price cache entry expired",

	CodeStoreWriteFailed: "Failed to persist batch results",

	CodeCircuitOpen: "Circuit breaker is open",
}
