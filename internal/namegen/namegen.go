// Package namegen allocates the random display names the HTTP surface
// hands out at GET /players/new and GET /players/name/random: a word
// stem from a small built-in list plus a random numeric suffix.
package namegen

import (
	"fmt"
	"math/rand"
)

var stems = []string{
	"Falcon", "Raven", "Wolf", "Tiger", "Hawk", "Panther", "Eagle", "Lynx",
	"Cobra", "Badger", "Otter", "Heron", "Viper", "Jackal", "Puma", "Orca",
	"Condor", "Mantis", "Scorpion", "Wyvern",
}

// New returns a name of the form "#<stem><0..99999>".
func New(rng *rand.Rand) string {
	stem := stems[rng.Intn(len(stems))]
	return fmt.Sprintf("#%s%d", stem, rng.Intn(100000))
}

// Unused reports whether exists(name) is false, generating candidates
// until one is free or attempts are exhausted.
func Unused(rng *rand.Rand, exists func(string) bool, attempts int) (string, bool) {
	for i := 0; i < attempts; i++ {
		name := New(rng)
		if !exists(name) {
			return name, true
		}
	}
	return "", false
}
