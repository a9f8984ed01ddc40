package daynight

// IsNight reports whether the controller should be in night mode. The
// manual override wins outright; otherwise the current hour is checked
// against the configured window. A window whose start hour is greater
// than its end hour wraps past midnight. Unknown time defaults to day.
func IsNight(override bool, timeKnown bool, hour, startHour, endHour int) bool {
	if override {
		return true
	}
	if !timeKnown {
		return false
	}
	if startHour > endHour {
		return hour >= startHour || hour < endHour
	}
	return hour >= startHour && hour < endHour
}
