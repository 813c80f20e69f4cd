package topology

import (
	"regexp"
	"strconv"
)

// bladeHostPattern encodes the blade naming convention <chassis>b<bay>.
// The separator is case-insensitive, the bay is the trailing digit run.
var bladeHostPattern = regexp.MustCompile(`(?i)^([a-z0-9][a-z0-9-]*)b([0-9]+)$`)

// ParseBladeHost splits a blade hostname into its chassis name and bay
// number. "bc01b3" is bay "3" of chassis "bc01". Leading zeros in the bay
// are dropped, so "bc01b03" names the same bay.
func ParseBladeHost(name string) (chassis, bay string, ok bool) {
	m := bladeHostPattern.FindStringSubmatch(name)
	if m == nil {
		return "", "", false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return "", "", false
	}
	return m[1], strconv.Itoa(n), true
}
