package constants

// Context keys
const (
	ContextKeyPrincipal = "principal"
	ContextKeyRequestID = "request_id"
)

// Headers
const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-ID"
	BearerScheme        = "Bearer"
)

// Credential constraints
const (
	MinPasswordLength = 8
	// bcrypt ignores input past 72 bytes
	MaxPasswordLength = 72
	MinUsernameLength = 3
	MaxUsernameLength = 50
)

// Token constraints
const (
	MinJWTSecretLength = 16
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = 100000
)
