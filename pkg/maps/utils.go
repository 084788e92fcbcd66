package maps

import "sort"

// clamp restricts a value to a range
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func distinctIslands(islands []int32) []int32 {
	seen := make(map[int32]bool)
	var ids []int32
	for _, id := range islands {
		if id != 0 && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// MirrorIsland returns the id of the island mirrored to id. Editor islands
// come in pairs: odd ids are painted, the following even id is the mirror.
func MirrorIsland(id int32) int32 {
	if id <= 0 {
		return 0
	}
	if id%2 == 1 {
		return id + 1
	}
	return id - 1
}
