package taxonomy

import (
	"context"
	"fmt"
)

// DefaultCategories, DefaultAgeGroups and DefaultBrands are the catalog
// reference data a fresh install starts with.
var (
	DefaultCategories = []string{
		"Pretend Play & Dressup",
		"Building Sets & Construction",
		"DIY Kits & Activity Kits",
		"Vehicles & RC Toys",
		"Soft & Plush Toys",
		"Outdoor Play & Sports",
		"Art & Craft",
		"Games & Puzzles",
		"Dolls & Doll Houses",
		"Figures & Playsets",
		"Baby, Toddler & Preschool Learning Toys",
		"Bikes, Scooters & Rideons",
		"Bathing Toys",
		"Books",
	}

	DefaultAgeGroups = []string{
		"0-2 years",
		"2-4 years",
		"4-6 years",
		"6-8 years",
		"8-12 years",
		"12 years+",
	}

	DefaultBrands = []string{
		"Lego", "Mattel", "Hasbro", "Funskool", "Playshifu", "Open Ended",
		"Mirada", "R for Rabbit", "Skillmatics", "Smartivity", "Winmagic",
		"Speedup", "Hotwheels", "ELC", "Reliance", "Whimsy", "Phinkerplace",
		"Kalakaram", "Imagimake", "Frank", "Mirana", "Innov8", "Electrobotic",
		"Nerf", "Winfun", "Wembly", "Fujifilm",
	}
)

// SeedCounts reports how many keys each kind was seeded with.
type SeedCounts map[RefKind]int

// Seed ensures the default reference data exists. Existing rows are left
// untouched, so it is safe to run repeatedly.
func Seed(ctx context.Context, resolver *Resolver) (SeedCounts, error) {
	sets := []struct {
		kind RefKind
		keys []string
	}{
		{KindCategory, DefaultCategories},
		{KindAgeGroup, DefaultAgeGroups},
		{KindBrand, DefaultBrands},
	}

	counts := SeedCounts{}
	for _, set := range sets {
		for _, key := range set.keys {
			if _, err := resolver.Resolve(ctx, set.kind, key); err != nil {
				return counts, fmt.Errorf("seed %s %q: %w", set.kind, key, err)
			}
			counts[set.kind]++
		}
	}
	return counts, nil
}
