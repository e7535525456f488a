package store

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/benchly/dispatch/scheduler/domain"
)

func genContact() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, 5),
		gen.Int64Range(0, 100),
		gen.Bool(),
	).Map(func(vals []interface{}) *domain.Contact {
		c := &domain.Contact{
			ApproximateRunningJobs:  vals[0].(int),
			ApproximateUsableMemory: vals[1].(int64),
		}
		if vals[2].(bool) {
			c.Reachability = domain.Unreachable
		}
		return c
	})
}

func withIDs(contacts []*domain.Contact) []*domain.Contact {
	for i, c := range contacts {
		c.ID = int64(i + 1)
	}
	return contacts
}

func Test_RankCandidates(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("Only reachable contacts with enough memory qualify", prop.ForAll(
		func(contacts []*domain.Contact, demand int64) bool {
			ranked := RankCandidates(withIDs(contacts), demand)
			qualifying := 0
			for _, c := range contacts {
				if c.Reachability == domain.Reachable && c.ApproximateUsableMemory >= demand {
					qualifying++
				}
			}
			if len(ranked) != qualifying {
				return false
			}
			for _, c := range ranked {
				if c.Reachability != domain.Reachable || c.ApproximateUsableMemory < demand {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genContact()),
		gen.Int64Range(0, 100),
	))

	properties.Property("Least busy first, then most memory first", prop.ForAll(
		func(contacts []*domain.Contact) bool {
			ranked := RankCandidates(withIDs(contacts), 0)
			for i := 1; i < len(ranked); i++ {
				a, b := ranked[i-1], ranked[i]
				if a.ApproximateRunningJobs > b.ApproximateRunningJobs {
					return false
				}
				if a.ApproximateRunningJobs == b.ApproximateRunningJobs &&
					a.ApproximateUsableMemory < b.ApproximateUsableMemory {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genContact()),
	))

	properties.TestingRun(t)
}
