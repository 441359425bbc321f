package entities

import (
	"strconv"
	"time"
)

// EpochMillis is a timestamp persisted as an integer count of milliseconds
// since the Unix epoch. All store records use it for their timestamp fields.
type EpochMillis time.Time

func Now() EpochMillis {
	return EpochMillis(time.Now().UTC())
}

func (m EpochMillis) Time() time.Time {
	return time.Time(m)
}

// After reports whether m is later than other.
func (m EpochMillis) After(other EpochMillis) bool {
	return time.Time(m).After(time.Time(other))
}

func (m EpochMillis) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(time.Time(m).UnixMilli(), 10)), nil
}

func (m *EpochMillis) UnmarshalJSON(data []byte) error {
	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}
	*m = EpochMillis(time.UnixMilli(ms).UTC())
	return nil
}
