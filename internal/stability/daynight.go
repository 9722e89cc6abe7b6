package stability

import (
	"time"

	"github.com/lox/akterm/internal/sun"
)

// IsDay applies the VDI night rule on local decimal hours: an observation is
// night when it lies after sunset or no later than one hour past sunrise.
// st must belong to the local date of local.
func IsDay(local time.Time, st sun.Times) bool {
	loc := local.Location()
	h := sun.DecimalHours(local)
	sr := sun.DecimalHours(st.Sunrise.In(loc))
	ss := sun.DecimalHours(st.Sunset.In(loc))
	night := h > ss || h <= sr+1
	return !night
}
