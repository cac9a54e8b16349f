package scheduler

func ternary[T any](condition bool, value1, value2 T) T {
	if condition {
		return value1
	}

	return value2
}

func reversed(sequence []TaskID) []TaskID {
	result := make([]TaskID, len(sequence))

	for ix, id := range sequence {
		result[len(sequence)-1-ix] = id
	}

	return result
}
