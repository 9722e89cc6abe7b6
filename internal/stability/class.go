// Package stability derives VDI dispersion stability classes (Ausbreitungsklassen)
// for hourly observations.
//
// A class is computed per observation in a fixed order:
//
//	day/night flag       H > SS or H <= SR+1 is night
//	base class           day or night table over (wind bin, cloud bin)
//	transition override  (night class, day class, window) table around sunrise/sunset
//	no-cloud fallback    (coarse wind bin, window) table when cloud cover is missing
//	seasonal rules       summer and May/September upgrades, winter IV -> III/2
//	invalid wind         -999 in speed or direction forces an undefined class
//
// Lookups that find no entry yield ClassUndefined rather than an error. The only
// hard failure is an observation whose timestamp could not be parsed.
package stability

import "fmt"

// Class is a VDI stability class. The zero value is undefined.
type Class int

const (
	ClassUndefined Class = iota
	ClassI
	ClassII
	ClassIII1
	ClassIII2
	ClassIV
	ClassV
)

var classLabels = [...]string{
	ClassUndefined: "",
	ClassI:         "I",
	ClassII:        "II",
	ClassIII1:      "III/1",
	ClassIII2:      "III/2",
	ClassIV:        "IV",
	ClassV:         "V",
}

// Classes lists all defined classes from most stable to most unstable.
var Classes = []Class{ClassI, ClassII, ClassIII1, ClassIII2, ClassIV, ClassV}

// String returns the class label, or "" when undefined.
func (c Class) String() string {
	if !c.Valid() {
		return ""
	}
	return classLabels[c]
}

// Valid reports whether c is one of the defined classes.
func (c Class) Valid() bool {
	return c >= ClassI && c <= ClassV
}

// Code returns the AKTERM class code (I=1 … V=6), or 0 when undefined.
func (c Class) Code() int {
	if !c.Valid() {
		return 0
	}
	return int(c)
}

// Upgrade moves c one step towards more unstable, saturating at V.
// Undefined stays undefined.
func (c Class) Upgrade() Class {
	if !c.Valid() {
		return ClassUndefined
	}
	if c == ClassV {
		return ClassV
	}
	return c + 1
}

// ParseClass parses a class label such as "III/2". The empty label parses as
// ClassUndefined.
func ParseClass(s string) (Class, error) {
	if s == "" {
		return ClassUndefined, nil
	}
	for _, c := range Classes {
		if classLabels[c] == s {
			return c, nil
		}
	}
	return ClassUndefined, fmt.Errorf("unknown stability class %q", s)
}
