package constants

const (
	AppName           = "replan"
	DefaultConfigPath = "~/.config/replan/replan.db"
	Version           = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// MinutesPerDay bounds every minute-of-day value.
	MinutesPerDay = 24 * 60

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "replan-"
	BackupFileSuffix = ".db"

	// Environment
	EnvPrefix         = "REPLAN_"
	EnvMigrationsPath = "REPLAN_MIGRATIONS_PATH"
)

const (
	// DefaultSettingsFile is the optional YAML or JSON configuration file.
	DefaultSettingsFile = "~/.config/replan/config.yaml"
	// DefaultLogDir holds the rotating log files.
	DefaultLogDir = "~/.config/replan/logs"
)
