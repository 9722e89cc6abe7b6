package stability

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWindBin(t *testing.T) {
	tests := []struct {
		speed float64
		want  WindBin
	}{
		{0.1, WindUpTo1_2},
		{0.7, WindUpTo1_2},
		{1.2, WindUpTo1_2},
		{1.3, Wind1_3To2_3},
		{2.3, Wind1_3To2_3},
		{2.4, Wind2_4To3_3},
		{3.3, Wind2_4To3_3},
		{3.4, Wind3_4To4_3},
		{4.3, Wind3_4To4_3},
		{4.4, WindFrom4_4},
		{25, WindFrom4_4},
		{0, WindUpTo1_2},
		{math.NaN(), WindBinUndefined},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewWindBin(tt.speed), "speed %v", tt.speed)
	}
}

func TestNewWindBin_BelowBoundary(t *testing.T) {
	for v := 0.01; v < 1.2; v += 0.01 {
		assert.Equal(t, "<=1.2", NewWindBin(v).String(), "speed %v", v)
	}
}

func TestCloudBins(t *testing.T) {
	assert.Equal(t, DayCloud0To2, NewDayCloudBin(0))
	assert.Equal(t, DayCloud0To2, NewDayCloudBin(2))
	assert.Equal(t, DayCloud3To5, NewDayCloudBin(3))
	assert.Equal(t, DayCloud3To5, NewDayCloudBin(5))
	assert.Equal(t, DayCloud6To8, NewDayCloudBin(8))
	assert.Equal(t, DayCloudUndefined, NewDayCloudBin(9))
	assert.Equal(t, DayCloudUndefined, NewDayCloudBin(math.NaN()))

	assert.Equal(t, NightCloud0To6, NewNightCloudBin(6))
	assert.Equal(t, NightCloud7To8, NewNightCloudBin(7))
	assert.Equal(t, NightCloudUndefined, NewNightCloudBin(9))
	assert.Equal(t, NightCloudUndefined, NewNightCloudBin(math.NaN()))
}

func TestNoCloudWindBin(t *testing.T) {
	assert.Equal(t, NoCloudWindUpTo2_3, NewNoCloudWindBin(2.3))
	assert.Equal(t, NoCloudWind2_4To3_3, NewNoCloudWindBin(2.4))
	assert.Equal(t, NoCloudWind2_4To3_3, NewNoCloudWindBin(3.3))
	assert.Equal(t, NoCloudWindFrom3_4, NewNoCloudWindBin(3.4))
	assert.Equal(t, NoCloudWindUndefined, NewNoCloudWindBin(math.NaN()))
}

func TestBinning_Labels(t *testing.T) {
	assert.Equal(t, "2.4-3.3", WindBinning.Label(3.0))
	assert.Equal(t, "3-5", DayCloudBinning.Label(4))
	assert.Equal(t, "7-8", NightCloudBinning.Label(8))
	assert.Equal(t, "", WindBinning.Label(math.NaN()))
	assert.Equal(t, "", WindBinUndefined.String())

	// Out of every interval without infinite sentinels.
	b := Binning{Bounds: []float64{0, 1}, Labels: []string{"0-1"}}
	assert.Equal(t, 0, b.Index(-1))
	assert.Equal(t, 0, b.Index(0))
	assert.Equal(t, 1, b.Index(1))
}
