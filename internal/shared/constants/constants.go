package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderRetryAfter    = "Retry-After"

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"

	// Roles
	RoleDepartmentUser = "department_user"
	RoleSecurity       = "security"
	RoleGate           = "gate"
	RoleAdmin          = "admin"

	// User status
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"

	// Database table names
	TableUsers           = "users"
	TableVisitorRequests = "visitor_requests"
	TableCasbinRules     = "casbin_rule"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgValidationFailed    = "Validation failed"
)
