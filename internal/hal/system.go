package hal

import "time"

// SystemClock reads the OS clock. On the target device time is only
// trustworthy once NTP has synced; before roughly the 2024 epoch the
// clock is still at its battery-backed default and Hour reports unknown.
type SystemClock struct{}

var ntpFloor = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Hour() (int, bool) {
	now := time.Now()
	if now.Before(ntpFloor) {
		return 0, false
	}
	return now.Hour(), true
}
