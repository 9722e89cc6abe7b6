package stability

// NoCloudWindow is the sun-relative window used when cloud cover is missing.
type NoCloudWindow int

const (
	NoCloudWindowNone NoCloudWindow = iota
	NoCloudSUToSA1
	NoCloudSA1ToSA3
	NoCloudSA3ToSU2
	NoCloudSU2ToSU
)

var noCloudWindowLabels = [...]string{
	NoCloudWindowNone: "",
	NoCloudSUToSA1:    "SU..SA+1",
	NoCloudSA1ToSA3:   "SA+1..SA+3",
	NoCloudSA3ToSU2:   "SA+3..SU-2",
	NoCloudSU2ToSU:    "SU-2..SU",
}

func (w NoCloudWindow) String() string {
	if w < 0 || int(w) >= len(noCloudWindowLabels) {
		return ""
	}
	return noCloudWindowLabels[w]
}

// FallbackWindow assigns the no-cloud window by sequential overwrite.
func FallbackWindow(dsa, dsu float64) NoCloudWindow {
	w := NoCloudWindowNone
	if dsa < 1 || dsu >= 0 {
		w = NoCloudSUToSA1
	}
	if dsa >= 1 && dsa < 3 {
		w = NoCloudSA1ToSA3
	}
	if dsa >= 3 && dsu <= -2 {
		w = NoCloudSA3ToSU2
	}
	if dsu > -2 && dsu < 0 {
		w = NoCloudSU2ToSU
	}
	return w
}

// FallbackClass looks up the class from the coarse wind bin and window alone.
func FallbackClass(wind NoCloudWindBin, w NoCloudWindow) Class {
	return noCloudTable[noCloudKey{wind, w}]
}
