package models

// Settings represents per-database user settings
type Settings struct {
	DayStart string `json:"day_start"` // the time the day starts, e.g. "08:00"
	DayEnd   string `json:"day_end"`   // the time the day ends, e.g. "16:40"
	Timezone string `json:"timezone"`  // IANA timezone name, or "Local" for the system timezone
}
