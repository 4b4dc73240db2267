package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Quote and provider errors
	CodeInvalidQuoteRequest: "Quote request is invalid",
	CodeInvalidPair:         "Token pair is invalid",
	CodeUnsupportedChain:    "Chain not supported by this provider",
	CodeNoLiquidity:         "No liquidity available for this pair",
	CodeProviderUnavailable: "Liquidity provider unavailable",

	// Batch-level errors
	CodeNoProvidersAvailable: "No liquidity providers available for this request",
	CodeNoValidQuotes:        "No provider returned a valid quote",

	// Onchain quoter errors
	CodeEthereumRPCError:   "Ethereum RPC call failed",
	CodeContractCallFailed: "Smart contract call failed",
	CodePoolNotFound:       "Pool not found",

	// Circuit breaker
	CodeCircuitOpen: "Circuit breaker is open",

	// Monitor errors
	CodeMonitorNotFound:     "Monitor not found",
	CodeMonitorStoreFailure: "Monitor store operation failed",
	CodeInvalidMonitorType:  "Unknown monitor type",
	CodeInvalidThreshold:    "Monitor threshold is invalid",
}
