package stability

import "time"

// ApplySeasonal runs the seasonal passes in order: two summer upgrades, the
// May/September upgrade and the winter downgrade. Upgrades compound. Undefined
// wind or cloud (NaN) never satisfies a condition.
func ApplySeasonal(c Class, month time.Month, hour int, wind, cloud float64) Class {
	summer := month == time.June || month == time.July || month == time.August

	if summer && hour >= 10 && hour <= 16 && (cloud <= 6 || (cloud == 7 && wind < 2.4)) {
		c = c.Upgrade()
	}
	if summer && hour >= 12 && hour <= 15 && cloud <= 5 {
		c = c.Upgrade()
	}
	if (month == time.May || month == time.September) && hour >= 11 && hour <= 15 && cloud <= 6 {
		c = c.Upgrade()
	}
	if isWinter(month) && c == ClassIV {
		c = ClassIII2
	}
	return c
}
