//spellchecker:words imap
package imap

//spellchecker:words encoding binary errors strconv
import (
	"encoding/binary"
	"errors"
	"strconv"
)

// ID identifies a label within an [IMap].
// Not all IDs are valid, see [ID.Valid].
//
// Internally an ID is a big endian array of bytes, so that encoded ids compare
// lexicographically in the same order as [ID.Less].
type ID [IDLen]byte

// IDLen is the size of an encoded ID in bytes.
const IDLen = 4

// Valid checks if this ID is valid, that is if it has been returned by [ID.Inc].
func (id ID) Valid() bool {
	return id != ID{}
}

// Reset resets this id to the invalid value.
func (id *ID) Reset() {
	*id = ID{}
}

// Inc increments this ID and returns a copy of the new value.
//
// When Inc() exceeds the maximum possible value for an ID, panics.
func (id *ID) Inc() ID {
	value := binary.BigEndian.Uint32(id[:]) + 1
	if value == 0 {
		panic("ID.Inc: Overflow (not enough IDs)")
	}
	binary.BigEndian.PutUint32(id[:], value)
	return *id
}

// Uint32 returns the numerical value of this id.
func (id ID) Uint32() uint32 {
	return binary.BigEndian.Uint32(id[:])
}

// Less checks if this id was created by fewer calls to Inc than other.
func (id ID) Less(other ID) bool {
	return id.Uint32() < other.Uint32()
}

// String formats this id for debugging.
func (id ID) String() string {
	return "ID(" + strconv.FormatUint(uint64(id.Uint32()), 10) + ")"
}

// AppendIDs appends the encoding of each id to dst and returns the extended slice.
func AppendIDs(dst []byte, ids ...ID) []byte {
	for _, id := range ids {
		dst = append(dst, id[:]...)
	}
	return dst
}

// MarshalID encodes a single id into a new slice.
func MarshalID(id ID) ([]byte, error) {
	return AppendIDs(make([]byte, 0, IDLen), id), nil
}

var errUnmarshal = errors.New("UnmarshalID: invalid length")

// UnmarshalID decodes an id encoded with [MarshalID].
func UnmarshalID(dest *ID, src []byte) error {
	if len(src) != IDLen {
		return errUnmarshal
	}
	copy(dest[:], src)
	return nil
}
