package eddy

// ComputeTrackIndex scans a track column sorted non-decreasing by id and
// returns, per id in [0, max], the row of the id's first occurrence (-1 when
// absent) and its observation count. A single linear pass: the first slot is
// recorded whenever the id changes, the count always increments.
//
// An unsorted column is not detected and yields meaningless first-occurrence
// values; callers must sort by track first.
func ComputeTrackIndex(track []uint32) (first []int64, count []int64) {
	var size int64
	for _, t := range track {
		if int64(t)+1 > size {
			size = int64(t) + 1
		}
	}
	first = make([]int64, size)
	count = make([]int64, size)
	for i := range first {
		first[i] = -1
	}
	previous := int64(-1)
	for i, t := range track {
		if int64(t) != previous {
			first[t] = int64(i)
		}
		count[t]++
		previous = int64(t)
	}
	return first, count
}

// MaskFromIDs marks every row belonging to one of the requested track ids,
// using the track index instead of an id equality scan. n is the length of
// the underlying observation array. Ids outside the index or without
// observations mark nothing.
func MaskFromIDs(ids []uint32, first, count []int64, n int) []bool {
	mask := make([]bool, n)
	for _, id := range ids {
		if int(id) >= len(first) || first[id] < 0 {
			continue
		}
		for i := first[id]; i < first[id]+count[id]; i++ {
			mask[i] = true
		}
	}
	return mask
}

// BuildBucketIndex indexes a sorted integer column into half-open per-value
// offset ranges. Buckets cover every integer between the column's min and
// max inclusive; empty buckets have start == end. ref is the minimum value,
// the offset converting an absolute value into a bucket position.
//
// The same structure serves the time column inside one group and the group
// column across the whole set.
func BuildBucketIndex(values []int64) (start, end []int64, ref int64) {
	if len(values) == 0 {
		return nil, nil, 0
	}
	ref = values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < ref {
			ref = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	size := maxVal - ref + 1
	start = make([]int64, size)
	end = make([]int64, size)
	for _, v := range values {
		end[v-ref]++
	}
	var acc int64
	for b := range start {
		start[b] = acc
		acc += end[b]
		end[b] = acc
	}
	return start, end, ref
}
