package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Quote and provider error codes
const (
	// Request validation (rejected before any network call)
	CodeInvalidQuoteRequest Code = "INVALID_QUOTE_REQUEST"
	CodeInvalidPair         Code = "INVALID_PAIR"

	// Provider-local failures (absorbed by the aggregator, never surfaced)
	CodeUnsupportedChain    Code = "UNSUPPORTED_CHAIN"
	CodeNoLiquidity         Code = "NO_LIQUIDITY"
	CodeProviderUnavailable Code = "PROVIDER_UNAVAILABLE"

	// Batch-level failures (surfaced to the caller)
	CodeNoProvidersAvailable Code = "NO_PROVIDERS_AVAILABLE"
	CodeNoValidQuotes        Code = "NO_VALID_QUOTES"

	// Onchain quoter errors
	CodeEthereumRPCError   Code = "ETHEREUM_RPC_ERROR"
	CodeContractCallFailed Code = "CONTRACT_CALL_FAILED"
	CodePoolNotFound       Code = "POOL_NOT_FOUND"

	// Circuit breaker
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)

// Monitor error codes
const (
	CodeMonitorNotFound     Code = "MONITOR_NOT_FOUND"
	CodeMonitorStoreFailure Code = "MONITOR_STORE_FAILURE"
	CodeInvalidMonitorType  Code = "INVALID_MONITOR_TYPE"
	CodeInvalidThreshold    Code = "INVALID_THRESHOLD"
)
