package constants

// Context keys
const (
	ContextTokenData = "token_data"
)

// Token scopes
const (
	ScopeTokenAccess        = "access"
	ScopeTokenResetPassword = "reset_password"
)

// Redis key prefixes
const (
	RedisKeyTokenBlacklist    = "token:blacklist:"
	RedisKeyOTPChangePassword = "otp:change_password:"
	RedisKeyOTP               = "otp:"
)

// Database pool defaults
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 10
	DatabaseConnMaxLifetime = 30 // minutes
)

// OAuth providers
const (
	ProviderGoogle = "google"
)

// Pagination defaults
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 20
	MaxPageSize       = 100
)

// Calendar-synced entity kinds
const (
	EntityTypeProject = "project"
	EntityTypeEvent   = "event"
)

// Asynq task type names
const (
	TaskCalendarSync   = "calendar:sync"
	TaskCalendarEdit   = "calendar:edit"
	TaskCalendarDelete = "calendar:delete"
	TaskMemberInvite   = "email:member_invite"
)
