package index

import "sort"

// Chains returns the indexes of all chains in ascending order.
func (idx *Index) Chains() []ChainIndex {
	list := make([]ChainIndex, 0, len(idx.chains))
	for i := range idx.chains {
		list = append(list, i)
	}
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	return list
}
