package matchup

import (
	"fmt"
	"strings"
)

// Affinity is an elemental category governing attack effectiveness.
type Affinity int

const (
	Normal Affinity = iota
	Fire
	Grass
	Water
	Lightning
	Ghost
	Fighting
)

// All lists every Affinity in declaration order.
var All = []Affinity{Normal, Fire, Grass, Water, Lightning, Ghost, Fighting}

var affinityNames = map[Affinity]string{
	Normal:    "normal",
	Fire:      "fire",
	Grass:     "grass",
	Water:     "water",
	Lightning: "lightning",
	Ghost:     "ghost",
	Fighting:  "fighting",
}

// String returns the lowercase affinity name.
func (a Affinity) String() string {
	if name, ok := affinityNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAffinity converts a case-insensitive name into an Affinity.
//
// Postcondition: Returns a descriptive error for unknown names.
func ParseAffinity(name string) (Affinity, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for a, n := range affinityNames {
		if n == key {
			return a, nil
		}
	}
	return 0, fmt.Errorf("matchup: unknown affinity %q", name)
}

// Profile is the one or two affinities belonging to a combatant or move.
type Profile struct {
	primary   Affinity
	secondary Affinity
	mixed     bool
}

// Single returns a profile with exactly one affinity.
func Single(a Affinity) Profile {
	return Profile{primary: a}
}

// Mixed returns a dual-affinity profile.
func Mixed(primary, secondary Affinity) Profile {
	return Profile{primary: primary, secondary: secondary, mixed: true}
}

// ParseProfile builds a Profile from one or two affinity names.
func ParseProfile(names []string) (Profile, error) {
	switch len(names) {
	case 1:
		a, err := ParseAffinity(names[0])
		if err != nil {
			return Profile{}, err
		}
		return Single(a), nil
	case 2:
		p, err := ParseAffinity(names[0])
		if err != nil {
			return Profile{}, err
		}
		s, err := ParseAffinity(names[1])
		if err != nil {
			return Profile{}, err
		}
		return Mixed(p, s), nil
	default:
		return Profile{}, fmt.Errorf("matchup: a profile has one or two affinities, got %d", len(names))
	}
}

// IsMixed reports whether p has two affinities.
func (p Profile) IsMixed() bool { return p.mixed }

// Primary returns the first (or only) affinity.
func (p Profile) Primary() Affinity { return p.primary }

// Secondary returns the second affinity and whether p is mixed.
func (p Profile) Secondary() (Affinity, bool) { return p.secondary, p.mixed }

// Contains reports whether a is one of p's affinities.
func (p Profile) Contains(a Affinity) bool {
	return p.primary == a || (p.mixed && p.secondary == a)
}

// String renders the profile as "fire" or "fire/water".
func (p Profile) String() string {
	if p.mixed {
		return p.primary.String() + "/" + p.secondary.String()
	}
	return p.primary.String()
}
