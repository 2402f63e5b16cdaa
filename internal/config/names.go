package config

import "math/rand/v2"

var nameAdjectives = []string{
	"amber", "brave", "calm", "clever", "cosmic", "crisp", "daring", "eager",
	"fancy", "gentle", "golden", "happy", "lively", "lucky", "mellow", "nimble",
	"quiet", "rapid", "shiny", "silent", "sunny", "swift", "tidy", "vivid",
}

var nameNouns = []string{
	"badger", "beacon", "canyon", "comet", "falcon", "forest", "harbor", "island",
	"lagoon", "maple", "meadow", "nebula", "otter", "panda", "pebble", "river",
	"rocket", "summit", "thunder", "tiger", "valley", "willow", "zephyr", "orbit",
}

// RandomName returns an npm-safe adjective-noun project name.
func RandomName() string {
	return nameAdjectives[rand.IntN(len(nameAdjectives))] + "-" + nameNouns[rand.IntN(len(nameNouns))]
}
