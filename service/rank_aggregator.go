package service

import (
	"fmt"
	"sort"
	"strings"

	"taxietl/models"
)

// RankMode chooses how tied trip volumes are numbered. RankCompetition is
// the default because stored history was written with SQL RANK().
type RankMode int

const (
	// RankCompetition numbers like SQL RANK(): 1, 1, 3.
	RankCompetition RankMode = iota
	// RankDense numbers like SQL DENSE_RANK(): 1, 1, 2.
	RankDense
)

func (m RankMode) String() string {
	switch m {
	case RankCompetition:
		return "competition"
	case RankDense:
		return "dense"
	default:
		return fmt.Sprintf("RankMode(%d)", int(m))
	}
}

// ParseRankMode accepts "competition" or "dense".
func ParseRankMode(s string) (RankMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "competition", "rank":
		return RankCompetition, nil
	case "dense", "dense_rank":
		return RankDense, nil
	default:
		return 0, fmt.Errorf("unknown rank mode %q", s)
	}
}

type pairVolume struct {
	pair  models.PairKey
	trips int
}

// AggregateRanks counts the trips of month per (pickup, drop-off) pair and
// ranks the pairs by descending volume, rank 1 being the busiest. Pairs with
// equal volume share a rank and keep the order in which they first appear
// in trips. Trips of other months are ignored.
func AggregateRanks(month models.Month, trips []models.TripEvent, mode RankMode) []models.DestinationRank {
	monthText := month.String()

	index := make(map[models.PairKey]int)
	var volumes []pairVolume
	for _, t := range trips {
		if t.Month != monthText {
			continue
		}
		i, ok := index[t.Pair()]
		if !ok {
			i = len(volumes)
			index[t.Pair()] = i
			volumes = append(volumes, pairVolume{pair: t.Pair()})
		}
		volumes[i].trips++
	}

	sort.SliceStable(volumes, func(i, j int) bool {
		return volumes[i].trips > volumes[j].trips
	})

	ranks := make([]models.DestinationRank, 0, len(volumes))
	rank := 0
	for i, v := range volumes {
		if i == 0 || v.trips != volumes[i-1].trips {
			if mode == RankDense {
				rank++
			} else {
				rank = i + 1
			}
		}
		ranks = append(ranks, models.DestinationRank{
			Month:   monthText,
			PickUp:  v.pair.PickUp,
			DropOff: v.pair.DropOff,
			Rank:    rank,
		})
	}
	return ranks
}
