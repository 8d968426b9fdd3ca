package constants

type ContextKey string

const (
	PoolKey           ContextKey = "pool"
	TxKey             ContextKey = "tx"
	LoggerKey         ContextKey = "logger"
	RequestStart      ContextKey = "requestStart"
	UserIDKey         ContextKey = "userID"
	OrganizationIDKey ContextKey = "organizationID"
)
