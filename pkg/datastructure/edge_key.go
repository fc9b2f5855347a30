package datastructure

// Every edge has two keys, one per direction. The forward key of edge e is 2e
// and the reverse key is 2e+1.

func CreateEdgeKey(edgeID Index, reverse bool) Index {
	key := edgeID << 1
	if reverse {
		key++
	}
	return key
}

func ReverseEdgeKey(edgeKey Index) Index {
	return edgeKey ^ 1
}

func GetEdgeFromEdgeKey(edgeKey Index) Index {
	return edgeKey >> 1
}

func IsReverseEdgeKey(edgeKey Index) bool {
	return edgeKey&1 == 1
}
