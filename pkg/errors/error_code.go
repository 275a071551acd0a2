package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidOrder         ErrorCode = 105
	ErrCodeInvalidType          ErrorCode = 107
	ErrCodeMissingParameter     ErrorCode = 109
	ErrCodeInvalidSymbol        ErrorCode = 119

	// Trading-rule validation errors (120-129). Orders failing these are rejected.
	ErrCodeInvalidQuantity      ErrorCode = 120
	ErrCodeInvalidPrice         ErrorCode = 121
	ErrCodeInvalidNotional      ErrorCode = 122
	ErrCodeOrderTypeNotAllowed  ErrorCode = 123
	ErrCodeInvalidFeeRate       ErrorCode = 124
	ErrCodeUnsupportedOrderType ErrorCode = 125

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeNoDataFound           ErrorCode = 204

	// Strategy errors (400-499)
	ErrCodeStrategyNotLoaded    ErrorCode = 400
	ErrCodeStrategyConfigError  ErrorCode = 401
	ErrCodeStrategyRuntimeError ErrorCode = 402

	// Trading errors (500-599)
	ErrCodeOrderFailed          ErrorCode = 500
	ErrCodeInsufficientFunds    ErrorCode = 503
	ErrCodeInsufficientPosition ErrorCode = 504
	ErrCodeNoMatchingOrder      ErrorCode = 505

	// Backtest errors (600-699)
	ErrCodeBacktestInitFailed    ErrorCode = 601
	ErrCodeBacktestConfigError   ErrorCode = 602
	ErrCodeBacktestDataPathError ErrorCode = 603
	ErrCodeBacktestNoStrategies  ErrorCode = 604
	ErrCodeBacktestNoConfigs     ErrorCode = 605
	ErrCodeBacktestNoDataPaths   ErrorCode = 606
	ErrCodeBacktestNoResultsDir  ErrorCode = 607
	ErrCodeBacktestNoDatasource  ErrorCode = 608
	ErrCodeBacktestWriteFailed   ErrorCode = 609
	ErrCodeCallbackFailed        ErrorCode = 610

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataParseFailed ErrorCode = 702
)
