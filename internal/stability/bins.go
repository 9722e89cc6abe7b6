package stability

import "math"

// Binning quantizes a value into right-closed intervals (bounds[i], bounds[i+1]].
// Labels has one entry less than bounds.
type Binning struct {
	Bounds []float64
	Labels []string
}

// Index returns the 1-based interval containing v, or 0 when v is NaN or
// outside every interval.
func (b Binning) Index(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	for i := 0; i+1 < len(b.Bounds); i++ {
		if v > b.Bounds[i] && v <= b.Bounds[i+1] {
			return i + 1
		}
	}
	return 0
}

// Label returns the label of the interval containing v, or "".
func (b Binning) Label(v float64) string {
	i := b.Index(v)
	if i == 0 {
		return ""
	}
	return b.Labels[i-1]
}

var (
	negInf = math.Inf(-1)
	posInf = math.Inf(1)
)

var (
	WindBinning = Binning{
		Bounds: []float64{negInf, 1.2, 2.3, 3.3, 4.3, posInf},
		Labels: []string{"<=1.2", "1.3-2.3", "2.4-3.3", "3.4-4.3", ">=4.4"},
	}
	DayCloudBinning = Binning{
		Bounds: []float64{negInf, 2, 5, 8},
		Labels: []string{"0-2", "3-5", "6-8"},
	}
	NightCloudBinning = Binning{
		Bounds: []float64{negInf, 6, 8},
		Labels: []string{"0-6", "7-8"},
	}
	NoCloudWindBinning = Binning{
		Bounds: []float64{negInf, 2.3, 3.3, posInf},
		Labels: []string{"<=2.3", "2.4-3.3", ">=3.4"},
	}
)

// WindBin is the wind speed class used by the day and night tables.
type WindBin int

const (
	WindBinUndefined WindBin = iota
	WindUpTo1_2
	Wind1_3To2_3
	Wind2_4To3_3
	Wind3_4To4_3
	WindFrom4_4
)

func NewWindBin(speed float64) WindBin { return WindBin(WindBinning.Index(speed)) }

func (b WindBin) String() string { return label(WindBinning, int(b)) }

// DayCloudBin is the cloud cover class used by the day table.
type DayCloudBin int

const (
	DayCloudUndefined DayCloudBin = iota
	DayCloud0To2
	DayCloud3To5
	DayCloud6To8
)

func NewDayCloudBin(oktas float64) DayCloudBin { return DayCloudBin(DayCloudBinning.Index(oktas)) }

func (b DayCloudBin) String() string { return label(DayCloudBinning, int(b)) }

// NightCloudBin is the cloud cover class used by the night table.
type NightCloudBin int

const (
	NightCloudUndefined NightCloudBin = iota
	NightCloud0To6
	NightCloud7To8
)

func NewNightCloudBin(oktas float64) NightCloudBin {
	return NightCloudBin(NightCloudBinning.Index(oktas))
}

func (b NightCloudBin) String() string { return label(NightCloudBinning, int(b)) }

// NoCloudWindBin is the coarse wind class of the no-cloud fallback.
type NoCloudWindBin int

const (
	NoCloudWindUndefined NoCloudWindBin = iota
	NoCloudWindUpTo2_3
	NoCloudWind2_4To3_3
	NoCloudWindFrom3_4
)

func NewNoCloudWindBin(speed float64) NoCloudWindBin {
	return NoCloudWindBin(NoCloudWindBinning.Index(speed))
}

func (b NoCloudWindBin) String() string { return label(NoCloudWindBinning, int(b)) }

func label(b Binning, i int) string {
	if i <= 0 || i > len(b.Labels) {
		return ""
	}
	return b.Labels[i-1]
}
