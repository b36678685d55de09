package web

// Keys of the values the middleware chain stores in the gin context.
const (
	LoggerKey        = "logger"
	CorrelationIDKey = "correlationId"
	RequestStartKey  = "requestStartTime"
	ClientIDKey      = "clientId"
	RepositoryKey    = "repository"
	ParamsKey        = "params"

	CorrelationIDHeader = "x-correlation-id"
	ClientIDHeader      = "x-client-id"
)
