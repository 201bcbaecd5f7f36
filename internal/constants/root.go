package constants

import "time"

const (
	AppName               = "noor"
	Version               = "v0.3.0"
	DefaultConfigDir      = "~/.config/noor"
	DefaultCachePath      = "~/.config/noor/noor.db"
	DefaultConfigFile     = "~/.config/noor/config.yaml"
	DefaultKeyringUser    = "remote-connection"
	AdminSecretKeyringKey = "admin-secret"

	// DefaultAdminSecret is the operator gate used when no secret is configured.
	// It is a plaintext comparison, not a security boundary.
	DefaultAdminSecret = "noor-admin"

	// CacheStateKey is the single key the full application state is stored under.
	CacheStateKey = "ramadan_progress_app"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Ramadan day bounds
	FirstDay = 1
	LastDay  = 30

	// Profile defaults
	DefaultAge    = 7
	DefaultAvatar = "🌙"
	PasscodeLen   = 4

	// UI cap for the Quran pages slider; the model does not enforce it
	MaxQuranPagesInput = 20

	// Sync constants
	DefaultSyncTimeout    = 5 * time.Second
	DefaultContentTimeout = 8 * time.Second
	OutboxDrainTimeout    = 10 * time.Second

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "noor-"

	// Log constants
	LogDirName           = "logs"
	DefaultLogMaxSizeMB  = 5
	DefaultLogMaxBackups = 7
	DefaultLogMaxAgeDays = 45

	// Lock constants
	LockfileName = "noor.lock"

	// Server constants
	DefaultServerAddr = ":8080"
	UsersCollection   = "users"
)
