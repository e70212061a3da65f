package constants

type ContextKey string

const (
	PoolKey      ContextKey = "pool"
	TxKey        ContextKey = "tx"
	PrincipalKey ContextKey = "principal"
	LoggerKey    ContextKey = "logger"
)
