package stability

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTablesAreTotal(t *testing.T) {
	winds := []WindBin{WindUpTo1_2, Wind1_3To2_3, Wind2_4To3_3, Wind3_4To4_3, WindFrom4_4}

	for _, w := range winds {
		for _, c := range []DayCloudBin{DayCloud0To2, DayCloud3To5, DayCloud6To8} {
			assert.True(t, DayClass(w, c).Valid(), "day %s/%s", w, c)
		}
		for _, c := range []NightCloudBin{NightCloud0To6, NightCloud7To8} {
			assert.True(t, NightClass(w, c).Valid(), "night %s/%s", w, c)
		}
	}

	assert.Len(t, dayTable, 15)
	assert.Len(t, nightTable, 10)
	assert.Len(t, transitionTable, 35)
	assert.Len(t, noCloudTable, 12)
}

// Expected tables keyed by bin and window labels.

var wantDay = map[[2]string]string{
	{"<=1.2", "0-2"}:   "IV",
	{"<=1.2", "3-5"}:   "IV",
	{"<=1.2", "6-8"}:   "IV",
	{"1.3-2.3", "0-2"}: "IV",
	{"1.3-2.3", "3-5"}: "IV",
	{"1.3-2.3", "6-8"}: "III/2",
	{"2.4-3.3", "0-2"}: "IV",
	{"2.4-3.3", "3-5"}: "IV",
	{"2.4-3.3", "6-8"}: "III/2",
	{"3.4-4.3", "0-2"}: "IV",
	{"3.4-4.3", "3-5"}: "III/2",
	{"3.4-4.3", "6-8"}: "III/2",
	{">=4.4", "0-2"}:   "III/2",
	{">=4.4", "3-5"}:   "III/1",
	{">=4.4", "6-8"}:   "III/1",
}

var wantNight = map[[2]string]string{
	{"<=1.2", "0-6"}:   "I",
	{"<=1.2", "7-8"}:   "II",
	{"1.3-2.3", "0-6"}: "I",
	{"1.3-2.3", "7-8"}: "II",
	{"2.4-3.3", "0-6"}: "II",
	{"2.4-3.3", "7-8"}: "III/1",
	{"3.4-4.3", "0-6"}: "III/1",
	{"3.4-4.3", "7-8"}: "III/1",
	{">=4.4", "0-6"}:   "III/1",
	{">=4.4", "7-8"}:   "III/1",
}

// default, alternative, guard
var wantTransition = map[[3]string][3]string{
	{"I", "IV", "SA+1..SA+2"}: {"I", "II", "a"},
	{"I", "IV", "SA+2..SA+3"}: {"II", "", ""},
	{"I", "IV", "SU-2..SU-1"}: {"II", "", ""},
	{"I", "IV", "SU-1..SU"}:   {"II", "I", "b"},
	{"I", "IV", "SU..SU+1"}:   {"I", "II", "a"},

	{"I", "III/2", "SA+1..SA+2"}: {"II", "", ""},
	{"I", "III/2", "SA+2..SA+3"}: {"II", "", ""},
	{"I", "III/2", "SU-2..SU-1"}: {"III/1", "", ""},
	{"I", "III/2", "SU-1..SU"}:   {"III/1", "", ""},
	{"I", "III/2", "SU..SU+1"}:   {"I", "II", "a"},

	{"II", "IV", "SA+1..SA+2"}: {"II", "", ""},
	{"II", "IV", "SA+2..SA+3"}: {"III/1", "", ""},
	{"II", "IV", "SU-2..SU-1"}: {"III/1", "", ""},
	{"II", "IV", "SU-1..SU"}:   {"II", "", ""},
	{"II", "IV", "SU..SU+1"}:   {"II", "", ""},

	{"II", "III/2", "SA+1..SA+2"}: {"III/1", "", ""},
	{"II", "III/2", "SA+2..SA+3"}: {"III/1", "", ""},
	{"II", "III/2", "SU-2..SU-1"}: {"III/1", "", ""},
	{"II", "III/2", "SU-1..SU"}:   {"III/1", "", ""},
	{"II", "III/2", "SU..SU+1"}:   {"II", "", ""},

	{"III/1", "IV", "SA+1..SA+2"}: {"III/1", "", ""},
	{"III/1", "IV", "SA+2..SA+3"}: {"III/2", "", ""},
	{"III/1", "IV", "SU-2..SU-1"}: {"III/2", "", ""},
	{"III/1", "IV", "SU-1..SU"}:   {"III/1", "", ""},
	{"III/1", "IV", "SU..SU+1"}:   {"III/1", "", ""},

	{"III/1", "III/2", "SA+1..SA+2"}: {"III/1", "", ""},
	{"III/1", "III/2", "SA+2..SA+3"}: {"III/1", "", ""},
	{"III/1", "III/2", "SU-2..SU-1"}: {"III/2", "", ""},
	{"III/1", "III/2", "SU-1..SU"}:   {"III/2", "", ""},
	{"III/1", "III/2", "SU..SU+1"}:   {"III/1", "", ""},

	{"III/1", "III/1", "SA+1..SA+2"}: {"III/1", "", ""},
	{"III/1", "III/1", "SA+2..SA+3"}: {"III/1", "", ""},
	{"III/1", "III/1", "SU-2..SU-1"}: {"III/1", "", ""},
	{"III/1", "III/1", "SU-1..SU"}:   {"III/1", "", ""},
	{"III/1", "III/1", "SU..SU+1"}:   {"III/1", "", ""},
}

var wantNoCloud = map[[2]string]string{
	{"<=2.3", "SU..SA+1"}:     "I",
	{"<=2.3", "SA+1..SA+3"}:   "II",
	{"<=2.3", "SA+3..SU-2"}:   "III/2",
	{"<=2.3", "SU-2..SU"}:     "III/1",
	{"2.4-3.3", "SU..SA+1"}:   "II",
	{"2.4-3.3", "SA+1..SA+3"}: "III/1",
	{"2.4-3.3", "SA+3..SU-2"}: "III/2",
	{"2.4-3.3", "SU-2..SU"}:   "III/1",
	{">=3.4", "SU..SA+1"}:     "III/1",
	{">=3.4", "SA+1..SA+3"}:   "III/1",
	{">=3.4", "SA+3..SU-2"}:   "III/1",
	{">=3.4", "SU-2..SU"}:     "III/1",
}

var guardLabels = map[guard]string{guardNone: "", guardA: "a", guardB: "b"}

func TestDayTableEntries(t *testing.T) {
	got := make(map[[2]string]string, len(dayTable))
	for k, c := range dayTable {
		got[[2]string{k.wind.String(), k.cloud.String()}] = c.String()
	}
	assert.Equal(t, wantDay, got)
}

func TestNightTableEntries(t *testing.T) {
	got := make(map[[2]string]string, len(nightTable))
	for k, c := range nightTable {
		got[[2]string{k.wind.String(), k.cloud.String()}] = c.String()
	}
	assert.Equal(t, wantNight, got)
}

func TestTransitionTableEntries(t *testing.T) {
	got := make(map[[3]string][3]string, len(transitionTable))
	for k, e := range transitionTable {
		got[[3]string{k.night.String(), k.day.String(), k.window.String()}] =
			[3]string{e.def.String(), e.alt.String(), guardLabels[e.guard]}
	}
	assert.Equal(t, wantTransition, got)
}

func TestNoCloudTableEntries(t *testing.T) {
	got := make(map[[2]string]string, len(noCloudTable))
	for k, c := range noCloudTable {
		got[[2]string{k.wind.String(), k.window.String()}] = c.String()
	}
	assert.Equal(t, wantNoCloud, got)
}

// The public lookups must agree with the tables for every defined bin.
func TestLookupsMatchEnumeration(t *testing.T) {
	winds := []WindBin{WindUpTo1_2, Wind1_3To2_3, Wind2_4To3_3, Wind3_4To4_3, WindFrom4_4}
	for _, w := range winds {
		for _, c := range []DayCloudBin{DayCloud0To2, DayCloud3To5, DayCloud6To8} {
			assert.Equal(t, wantDay[[2]string{w.String(), c.String()}], DayClass(w, c).String(), "day %s/%s", w, c)
		}
		for _, c := range []NightCloudBin{NightCloud0To6, NightCloud7To8} {
			assert.Equal(t, wantNight[[2]string{w.String(), c.String()}], NightClass(w, c).String(), "night %s/%s", w, c)
		}
	}

	for _, w := range []NoCloudWindBin{NoCloudWindUpTo2_3, NoCloudWind2_4To3_3, NoCloudWindFrom3_4} {
		for _, win := range []NoCloudWindow{NoCloudSUToSA1, NoCloudSA1ToSA3, NoCloudSA3ToSU2, NoCloudSU2ToSU} {
			assert.Equal(t, wantNoCloud[[2]string{w.String(), win.String()}], FallbackClass(w, win).String(), "no-cloud %s/%s", w, win)
		}
	}
}

func TestDayClass_Example(t *testing.T) {
	wind := NewWindBin(3.0)
	cloud := NewDayCloudBin(4)

	assert.Equal(t, "2.4-3.3", wind.String())
	assert.Equal(t, "3-5", cloud.String())
	assert.Equal(t, ClassIV, DayClass(wind, cloud))
}

func TestNightClass(t *testing.T) {
	assert.Equal(t, ClassI, NightClass(WindUpTo1_2, NightCloud0To6))
	assert.Equal(t, ClassII, NightClass(Wind2_4To3_3, NightCloud0To6))
	assert.Equal(t, ClassIII1, NightClass(Wind2_4To3_3, NightCloud7To8))
}

func TestUndefinedBinsGiveUndefinedClass(t *testing.T) {
	assert.Equal(t, ClassUndefined, DayClass(NewWindBin(math.NaN()), DayCloud0To2))
	assert.Equal(t, ClassUndefined, DayClass(WindUpTo1_2, NewDayCloudBin(math.NaN())))
	assert.Equal(t, ClassUndefined, NightClass(WindBinUndefined, NightCloud7To8))
	assert.Equal(t, ClassUndefined, FallbackClass(NoCloudWindUndefined, NoCloudSA1ToSA3))
	assert.Equal(t, ClassUndefined, FallbackClass(NoCloudWindUpTo2_3, NoCloudWindowNone))
}

func TestBaseClass(t *testing.T) {
	assert.Equal(t, ClassIV, BaseClass(true, ClassIV, ClassI))
	assert.Equal(t, ClassI, BaseClass(false, ClassIV, ClassI))
}
