package aggregate

import (
	"fmt"
	"time"
)

// Relative mengubah timestamp jadi label relatif terhadap now.
// Selisih negatif (jam tidak sinkron) dianggap nol.
func Relative(ts, now time.Time, loc Locale) string {
	elapsed := now.Sub(ts)
	if elapsed < 0 {
		elapsed = 0
	}

	minutes := int64(elapsed / time.Minute)
	switch {
	case minutes < 1:
		return loc.JustNow
	case minutes < 60:
		return fmt.Sprintf(loc.MinutesAgo, minutes)
	case minutes < 24*60:
		return fmt.Sprintf(loc.HoursAgo, minutes/60)
	}
	return ts.In(now.Location()).Format(loc.DateLayout)
}
