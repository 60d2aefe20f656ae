// Package units provides shared constants and validation for distance units
package units

// Unit constants
const (
	KM  = "km"
	M   = "m"
	NMI = "nmi"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{KM, M, NMI}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "km, m, nmi"
}

// ConvertDistance converts a distance from kilometres to the target units.
// Track statistics are computed in km.
func ConvertDistance(distanceKM float64, targetUnits string) float64 {
	switch targetUnits {
	case M:
		return distanceKM * 1000
	case NMI:
		return distanceKM / 1.852 // km to nautical miles
	case KM:
		return distanceKM // no conversion needed
	default:
		return distanceKM // default to km if unknown unit
	}
}
