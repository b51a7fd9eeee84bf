package common

import "hash/fnv"

// GenerateIDFromPath takes a resolved file path and converts it into a numeric
// ID; this is used by the module loader to tag loaded programs
func GenerateIDFromPath(abspath string) uint {
	h := fnv.New32a()
	h.Write([]byte(abspath))
	return uint(h.Sum32())
}
