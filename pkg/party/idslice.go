package party

import (
	"encoding/binary"
	"io"
	"sort"
)

// IDSlice is a sorted list of IDs, typically a reconstruction set.
type IDSlice []ID

// NewIDSlice returns a sorted copy of partyIDs.
func NewIDSlice(partyIDs []ID) IDSlice {
	ids := make(IDSlice, len(partyIDs))
	copy(ids, partyIDs)
	ids.Sort()
	return ids
}

// FirstN returns the set {1, …, n}.
//
// This is the reconstruction set every party agrees on when nothing else was
// negotiated: it requires the first n shareholders to be online.
func FirstN(n int) IDSlice {
	ids := make(IDSlice, n)
	for i := range ids {
		ids[i] = ID(i + 1)
	}
	return ids
}

func (partyIDs IDSlice) Len() int           { return len(partyIDs) }
func (partyIDs IDSlice) Less(i, j int) bool { return partyIDs[i] < partyIDs[j] }
func (partyIDs IDSlice) Swap(i, j int)      { partyIDs[i], partyIDs[j] = partyIDs[j], partyIDs[i] }

// Sort is a convenience method: x.Sort() calls Sort(x).
func (partyIDs IDSlice) Sort() { sort.Sort(partyIDs) }

// Valid returns true if partyIDs is sorted, contains no duplicates, and no zero ID.
func (partyIDs IDSlice) Valid() bool {
	for i, id := range partyIDs {
		if id == 0 {
			return false
		}
		if i > 0 && partyIDs[i-1] >= id {
			return false
		}
	}
	return true
}

// Contains returns true if partyIDs contains id.
// Assumes that partyIDs is sorted.
func (partyIDs IDSlice) Contains(id ID) bool {
	_, ok := partyIDs.Search(id)
	return ok
}

// GetIndex returns the index of id in partyIDs.
// If no index was found, return -1.
// Assumes that partyIDs is sorted.
func (partyIDs IDSlice) GetIndex(id ID) int {
	if idx, ok := partyIDs.Search(id); ok {
		return idx
	}
	return -1
}

// Search returns the result of applying sort.Search to the receiver and x.
func (partyIDs IDSlice) Search(x ID) (int, bool) {
	index := sort.Search(len(partyIDs), func(i int) bool { return partyIDs[i] >= x })
	if index < len(partyIDs) && partyIDs[index] == x {
		return index, true
	}
	return 0, false
}

// Remove returns a copy of partyIDs without id.
func (partyIDs IDSlice) Remove(id ID) IDSlice {
	others := make(IDSlice, 0, len(partyIDs))
	for _, other := range partyIDs {
		if other != id {
			others = append(others, other)
		}
	}
	return others
}

// Copy returns an identical copy of the received.
func (partyIDs IDSlice) Copy() IDSlice {
	a := make(IDSlice, len(partyIDs))
	copy(a, partyIDs)
	return a
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (partyIDs IDSlice) WriteTo(w io.Writer) (int64, error) {
	if err := binary.Write(w, binary.BigEndian, uint32(len(partyIDs))); err != nil {
		return 0, err
	}
	nAll := int64(4)
	for _, id := range partyIDs {
		n, err := id.WriteTo(w)
		nAll += n
		if err != nil {
			return nAll, err
		}
	}
	return nAll, nil
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (IDSlice) Domain() string {
	return "IDSlice"
}
