package constants

const (
	SettingDayStart = "day_start"
	SettingDayEnd   = "day_end"
	SettingTimezone = "timezone"

	DefaultDayStart = "08:00"
	DefaultDayEnd   = "16:40"
	DefaultTimezone = "Local" // Use system local timezone by default
)
