package stability

type dayKey struct {
	wind  WindBin
	cloud DayCloudBin
}

type nightKey struct {
	wind  WindBin
	cloud NightCloudBin
}

var dayTable = map[dayKey]Class{
	{WindUpTo1_2, DayCloud0To2}:  ClassIV,
	{WindUpTo1_2, DayCloud3To5}:  ClassIV,
	{WindUpTo1_2, DayCloud6To8}:  ClassIV,
	{Wind1_3To2_3, DayCloud0To2}: ClassIV,
	{Wind1_3To2_3, DayCloud3To5}: ClassIV,
	{Wind1_3To2_3, DayCloud6To8}: ClassIII2,
	{Wind2_4To3_3, DayCloud0To2}: ClassIV,
	{Wind2_4To3_3, DayCloud3To5}: ClassIV,
	{Wind2_4To3_3, DayCloud6To8}: ClassIII2,
	{Wind3_4To4_3, DayCloud0To2}: ClassIV,
	{Wind3_4To4_3, DayCloud3To5}: ClassIII2,
	{Wind3_4To4_3, DayCloud6To8}: ClassIII2,
	{WindFrom4_4, DayCloud0To2}:  ClassIII2,
	{WindFrom4_4, DayCloud3To5}:  ClassIII1,
	{WindFrom4_4, DayCloud6To8}:  ClassIII1,
}

var nightTable = map[nightKey]Class{
	{WindUpTo1_2, NightCloud0To6}:  ClassI,
	{WindUpTo1_2, NightCloud7To8}:  ClassII,
	{Wind1_3To2_3, NightCloud0To6}: ClassI,
	{Wind1_3To2_3, NightCloud7To8}: ClassII,
	{Wind2_4To3_3, NightCloud0To6}: ClassII,
	{Wind2_4To3_3, NightCloud7To8}: ClassIII1,
	{Wind3_4To4_3, NightCloud0To6}: ClassIII1,
	{Wind3_4To4_3, NightCloud7To8}: ClassIII1,
	{WindFrom4_4, NightCloud0To6}:  ClassIII1,
	{WindFrom4_4, NightCloud7To8}:  ClassIII1,
}

// DayClass looks up the daytime class. Undefined bins give ClassUndefined.
func DayClass(wind WindBin, cloud DayCloudBin) Class {
	return dayTable[dayKey{wind, cloud}]
}

// NightClass looks up the night-time class. Undefined bins give ClassUndefined.
func NightClass(wind WindBin, cloud NightCloudBin) Class {
	return nightTable[nightKey{wind, cloud}]
}

// BaseClass selects the day or night class.
func BaseClass(isDay bool, day, night Class) Class {
	if isDay {
		return day
	}
	return night
}

// guard selects when a transition entry switches to its alternative class.
type guard int

const (
	guardNone guard = iota
	// guardA: months March to November with wind >= 1.3 m/s.
	guardA
	// guardB: December to February with wind < 1.3 m/s and cloud <= 6 oktas.
	guardB
)

type transitionKey struct {
	night  Class
	day    Class
	window Window
}

type transitionEntry struct {
	def   Class
	alt   Class
	guard guard
}

var transitionTable = map[transitionKey]transitionEntry{
	{ClassI, ClassIV, WindowSA1ToSA2}: {ClassI, ClassII, guardA},
	{ClassI, ClassIV, WindowSA2ToSA3}: {def: ClassII},
	{ClassI, ClassIV, WindowSU2ToSU1}: {def: ClassII},
	{ClassI, ClassIV, WindowSU1ToSU}:  {ClassII, ClassI, guardB},
	{ClassI, ClassIV, WindowSUToSU1}:  {ClassI, ClassII, guardA},

	{ClassI, ClassIII2, WindowSA1ToSA2}: {def: ClassII},
	{ClassI, ClassIII2, WindowSA2ToSA3}: {def: ClassII},
	{ClassI, ClassIII2, WindowSU2ToSU1}: {def: ClassIII1},
	{ClassI, ClassIII2, WindowSU1ToSU}:  {def: ClassIII1},
	{ClassI, ClassIII2, WindowSUToSU1}:  {ClassI, ClassII, guardA},

	{ClassII, ClassIV, WindowSA1ToSA2}: {def: ClassII},
	{ClassII, ClassIV, WindowSA2ToSA3}: {def: ClassIII1},
	{ClassII, ClassIV, WindowSU2ToSU1}: {def: ClassIII1},
	{ClassII, ClassIV, WindowSU1ToSU}:  {def: ClassII},
	{ClassII, ClassIV, WindowSUToSU1}:  {def: ClassII},

	{ClassII, ClassIII2, WindowSA1ToSA2}: {def: ClassIII1},
	{ClassII, ClassIII2, WindowSA2ToSA3}: {def: ClassIII1},
	{ClassII, ClassIII2, WindowSU2ToSU1}: {def: ClassIII1},
	{ClassII, ClassIII2, WindowSU1ToSU}:  {def: ClassIII1},
	{ClassII, ClassIII2, WindowSUToSU1}:  {def: ClassII},

	{ClassIII1, ClassIV, WindowSA1ToSA2}: {def: ClassIII1},
	{ClassIII1, ClassIV, WindowSA2ToSA3}: {def: ClassIII2},
	{ClassIII1, ClassIV, WindowSU2ToSU1}: {def: ClassIII2},
	{ClassIII1, ClassIV, WindowSU1ToSU}:  {def: ClassIII1},
	{ClassIII1, ClassIV, WindowSUToSU1}:  {def: ClassIII1},

	{ClassIII1, ClassIII2, WindowSA1ToSA2}: {def: ClassIII1},
	{ClassIII1, ClassIII2, WindowSA2ToSA3}: {def: ClassIII1},
	{ClassIII1, ClassIII2, WindowSU2ToSU1}: {def: ClassIII2},
	{ClassIII1, ClassIII2, WindowSU1ToSU}:  {def: ClassIII2},
	{ClassIII1, ClassIII2, WindowSUToSU1}:  {def: ClassIII1},

	{ClassIII1, ClassIII1, WindowSA1ToSA2}: {def: ClassIII1},
	{ClassIII1, ClassIII1, WindowSA2ToSA3}: {def: ClassIII1},
	{ClassIII1, ClassIII1, WindowSU2ToSU1}: {def: ClassIII1},
	{ClassIII1, ClassIII1, WindowSU1ToSU}:  {def: ClassIII1},
	{ClassIII1, ClassIII1, WindowSUToSU1}:  {def: ClassIII1},
}

type noCloudKey struct {
	wind   NoCloudWindBin
	window NoCloudWindow
}

var noCloudTable = map[noCloudKey]Class{
	{NoCloudWindUpTo2_3, NoCloudSUToSA1}:   ClassI,
	{NoCloudWindUpTo2_3, NoCloudSA1ToSA3}:  ClassII,
	{NoCloudWindUpTo2_3, NoCloudSA3ToSU2}:  ClassIII2,
	{NoCloudWindUpTo2_3, NoCloudSU2ToSU}:   ClassIII1,
	{NoCloudWind2_4To3_3, NoCloudSUToSA1}:  ClassII,
	{NoCloudWind2_4To3_3, NoCloudSA1ToSA3}: ClassIII1,
	{NoCloudWind2_4To3_3, NoCloudSA3ToSU2}: ClassIII2,
	{NoCloudWind2_4To3_3, NoCloudSU2ToSU}:  ClassIII1,
	{NoCloudWindFrom3_4, NoCloudSUToSA1}:   ClassIII1,
	{NoCloudWindFrom3_4, NoCloudSA1ToSA3}:  ClassIII1,
	{NoCloudWindFrom3_4, NoCloudSA3ToSU2}:  ClassIII1,
	{NoCloudWindFrom3_4, NoCloudSU2ToSU}:   ClassIII1,
}
