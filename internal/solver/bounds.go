package solver

import "github.com/connectfour/solver/internal/position"

// The transposition table's single int8 slot packs either an alpha-beta
// lower bound or upper bound, distinguished by range: values above
// lowerBoundThreshold decode as lower bounds, everything else as upper
// bounds. See spec §3's Transposition entry encoding.
const lowerBoundThreshold = position.MaxScore - position.MinScore + 1

func isLowerBound(stored int8) bool {
	return stored > lowerBoundThreshold
}

func encodeUpperBound(score int8) int8 {
	return score - position.MinScore + 1
}

func decodeUpperBound(stored int8) int8 {
	return stored + position.MinScore - 1
}

func encodeLowerBound(score int8) int8 {
	return score + position.MaxScore - 2*position.MinScore + 2
}

func decodeLowerBound(stored int8) int8 {
	return stored + 2*position.MinScore - position.MaxScore - 2
}
