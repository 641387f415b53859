package rbac

import "sort"

// SentinelLevel is returned by LevelOf for permissions absent from the
// catalog. It is strictly lower than every real level.
const SentinelLevel = -1

// Catalog is an immutable mapping from permission to privilege level.
// It is injected into the role and user services at construction time so
// tests can supply alternate tiers.
type Catalog struct {
	levels map[string]int
}

// NewCatalog builds a Catalog from rank -> permissions. When a permission
// appears in more than one rank the highest wins; production catalogs keep
// the partition disjoint.
func NewCatalog(tiers map[int][]string) Catalog {
	levels := make(map[string]int)
	for rank, perms := range tiers {
		for _, p := range perms {
			if existing, ok := levels[p]; ok && existing >= rank {
				continue
			}
			levels[p] = rank
		}
	}
	return Catalog{levels: levels}
}

// LevelOf returns the rank of the level containing the permission, or
// SentinelLevel when the permission is not in the catalog. Pure; no failure
// mode other than the sentinel.
func (c Catalog) LevelOf(permission string) int {
	if rank, ok := c.levels[permission]; ok {
		return rank
	}
	return SentinelLevel
}

// MaxLevel returns the highest rank among the given permissions, or
// SentinelLevel for an empty set.
func (c Catalog) MaxLevel(permissions []string) int {
	max := SentinelLevel
	for _, p := range permissions {
		if rank := c.LevelOf(p); rank > max {
			max = rank
		}
	}
	return max
}

// Known returns every permission in the catalog.
func (c Catalog) Known() []string {
	out := make([]string, 0, len(c.levels))
	for p := range c.levels {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// CanGrant reports whether a requester holding requesterPerms may assign the
// assigned permission set: the maximum level being assigned must not exceed
// the requester's own maximum level. Computed fresh on every call; the
// requester's permissions can change between requests.
func (c Catalog) CanGrant(requesterPerms, assigned []string) bool {
	return c.MaxLevel(assigned) <= c.MaxLevel(requesterPerms)
}
