package topology

import "go.uber.org/zap"

// Link is one observed link-layer relationship: an interface and the
// bond or bridge it is enslaved to. Master is empty for standalone
// interfaces.
type Link struct {
	Name   string
	Master string
}

// ResolveParents turns observed master relationships into a parent map
// keyed by interface name. Masters that were never observed as interfaces
// themselves are dropped, and a relationship that would close a loop is
// ignored, both with a warning.
func ResolveParents(links []Link, log *zap.Logger) map[string]string {
	known := make(map[string]bool, len(links))
	for _, l := range links {
		known[l.Name] = true
	}

	parents := make(map[string]string)
	for _, l := range links {
		if l.Master == "" {
			continue
		}
		if l.Master == l.Name {
			log.Warn("interface reports itself as master, ignoring",
				zap.String("interface", l.Name))
			continue
		}
		if !known[l.Master] {
			log.Warn("master was not observed as an interface, dropping relationship",
				zap.String("interface", l.Name), zap.String("master", l.Master))
			continue
		}
		if closesLoop(parents, l.Name, l.Master) {
			log.Warn("master relationship would close a loop, ignoring",
				zap.String("interface", l.Name), zap.String("master", l.Master))
			continue
		}
		parents[l.Name] = l.Master
	}
	return parents
}

// closesLoop walks the ancestry of parent and reports whether it reaches
// child again.
func closesLoop(parents map[string]string, child, parent string) bool {
	for cur := parent; cur != ""; cur = parents[cur] {
		if cur == child {
			return true
		}
	}
	return false
}
