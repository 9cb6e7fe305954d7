package sfss

import "fmt"

// checkPermission reports whether owner may touch path: exactly their
// private prefix /A{owner} or the shared /A0, in either case matched
// whole-segment (so /A5 never grants access to /A50).
func checkPermission(owner int, path string) bool {
	ownerPrefix := fmt.Sprintf("/A%d", owner)
	const sharedPrefix = "/A0"

	return hasPrefixSegment(path, ownerPrefix) || hasPrefixSegment(path, sharedPrefix)
}

func hasPrefixSegment(path, prefix string) bool {
	if len(path) < len(prefix) || path[:len(prefix)] != prefix {
		return false
	}
	if len(path) == len(prefix) {
		return true
	}
	return path[len(prefix)] == '/'
}
