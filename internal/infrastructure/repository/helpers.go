package repository

import "time"

func millisToUTC(millis int64) time.Time {
	return time.Unix(0, millis*int64(time.Millisecond)).UTC()
}
