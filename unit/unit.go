// Package unit converts between the SI quantities the library computes in
// and the field units shooters write configs in. Each quantity is a typed
// float64 holding the SI value; constructors convert in, accessors
// convert out.
package unit

const (
	metresPerYard = 0.9144
	metresPerFoot = 0.3048
	metresPerInch = 0.0254

	kilogramsPerPound = 0.45359237
	kilogramsPerGrain = kilogramsPerPound / 7000

	radiansPerDegree = 3.14159265358979323846 / 180
	radiansPerMOA    = radiansPerDegree / 60

	pascalsPerInHg = 3386.389
	pascalsPerMmHg = 133.322387415

	joulesPerFootPound = 1.3558179483314004
)

// Distance is a length in metres.
type Distance float64

func Metres(v float64) Distance      { return Distance(v) }
func Kilometres(v float64) Distance  { return Distance(v * 1000) }
func Yards(v float64) Distance       { return Distance(v * metresPerYard) }
func Feet(v float64) Distance        { return Distance(v * metresPerFoot) }
func Inches(v float64) Distance      { return Distance(v * metresPerInch) }
func Centimetres(v float64) Distance { return Distance(v / 100) }

func (d Distance) Metres() float64      { return float64(d) }
func (d Distance) Kilometres() float64  { return float64(d) / 1000 }
func (d Distance) Yards() float64       { return float64(d) / metresPerYard }
func (d Distance) Feet() float64        { return float64(d) / metresPerFoot }
func (d Distance) Inches() float64      { return float64(d) / metresPerInch }
func (d Distance) Centimetres() float64 { return float64(d) * 100 }

// Velocity is a speed in metres per second.
type Velocity float64

func MetresPerSecond(v float64) Velocity   { return Velocity(v) }
func FeetPerSecond(v float64) Velocity     { return Velocity(v * metresPerFoot) }
func KilometresPerHour(v float64) Velocity { return Velocity(v / 3.6) }
func MilesPerHour(v float64) Velocity      { return Velocity(v * 0.44704) }

func (v Velocity) MetresPerSecond() float64   { return float64(v) }
func (v Velocity) FeetPerSecond() float64     { return float64(v) / metresPerFoot }
func (v Velocity) KilometresPerHour() float64 { return float64(v) * 3.6 }
func (v Velocity) MilesPerHour() float64      { return float64(v) / 0.44704 }

// Mass is a mass in kilograms.
type Mass float64

func Kilograms(v float64) Mass { return Mass(v) }
func Grams(v float64) Mass     { return Mass(v / 1000) }
func Grains(v float64) Mass    { return Mass(v * kilogramsPerGrain) }
func Pounds(v float64) Mass    { return Mass(v * kilogramsPerPound) }

func (m Mass) Kilograms() float64 { return float64(m) }
func (m Mass) Grams() float64     { return float64(m) * 1000 }
func (m Mass) Grains() float64    { return float64(m) / kilogramsPerGrain }
func (m Mass) Pounds() float64    { return float64(m) / kilogramsPerPound }

// Angle is an angle in radians.
type Angle float64

func Radians(v float64) Angle      { return Angle(v) }
func Degrees(v float64) Angle      { return Angle(v * radiansPerDegree) }
func MOA(v float64) Angle          { return Angle(v * radiansPerMOA) }
func Milliradians(v float64) Angle { return Angle(v / 1000) }

func (a Angle) Radians() float64      { return float64(a) }
func (a Angle) Degrees() float64      { return float64(a) / radiansPerDegree }
func (a Angle) MOA() float64          { return float64(a) / radiansPerMOA }
func (a Angle) Milliradians() float64 { return float64(a) * 1000 }

// Temperature is a temperature in kelvin.
type Temperature float64

func Kelvin(v float64) Temperature     { return Temperature(v) }
func Celsius(v float64) Temperature    { return Temperature(v + 273.15) }
func Fahrenheit(v float64) Temperature { return Temperature((v-32)*5/9 + 273.15) }

func (t Temperature) Kelvin() float64     { return float64(t) }
func (t Temperature) Celsius() float64    { return float64(t) - 273.15 }
func (t Temperature) Fahrenheit() float64 { return (float64(t)-273.15)*9/5 + 32 }

// Pressure is a pressure in pascals.
type Pressure float64

func Pascals(v float64) Pressure               { return Pressure(v) }
func HectoPascals(v float64) Pressure          { return Pressure(v * 100) }
func InchesOfMercury(v float64) Pressure       { return Pressure(v * pascalsPerInHg) }
func MillimetresOfMercury(v float64) Pressure  { return Pressure(v * pascalsPerMmHg) }

func (p Pressure) Pascals() float64              { return float64(p) }
func (p Pressure) HectoPascals() float64         { return float64(p) / 100 }
func (p Pressure) InchesOfMercury() float64      { return float64(p) / pascalsPerInHg }
func (p Pressure) MillimetresOfMercury() float64 { return float64(p) / pascalsPerMmHg }

// Energy is an energy in joules.
type Energy float64

func Joules(v float64) Energy     { return Energy(v) }
func FootPounds(v float64) Energy { return Energy(v * joulesPerFootPound) }

func (e Energy) Joules() float64     { return float64(e) }
func (e Energy) FootPounds() float64 { return float64(e) / joulesPerFootPound }
