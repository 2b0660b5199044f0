package hedera

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// AccountID is a Hedera entity id in shard.realm.num form
type AccountID struct {
	Shard uint32
	Realm uint64
	Num   uint64
}

// ParseAccountID parses "0.0.12345"
func ParseAccountID(s string) (AccountID, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return AccountID{}, fmt.Errorf("%w: account id %q is not shard.realm.num", ErrInvalidAccountID, s)
	}
	shard, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return AccountID{}, fmt.Errorf("%w: shard of %q", ErrInvalidAccountID, s)
	}
	realm, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return AccountID{}, fmt.Errorf("%w: realm of %q", ErrInvalidAccountID, s)
	}
	num, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return AccountID{}, fmt.Errorf("%w: num of %q", ErrInvalidAccountID, s)
	}
	return AccountID{Shard: uint32(shard), Realm: realm, Num: num}, nil
}

func (a AccountID) String() string {
	return fmt.Sprintf("%d.%d.%d", a.Shard, a.Realm, a.Num)
}

// LongFormAddress packs the id as 4-byte shard, 8-byte realm, 8-byte num
func (a AccountID) LongFormAddress() common.Address {
	var addr common.Address
	binary.BigEndian.PutUint32(addr[0:4], a.Shard)
	binary.BigEndian.PutUint64(addr[4:12], a.Realm)
	binary.BigEndian.PutUint64(addr[12:20], a.Num)
	return addr
}

// AccountIDFromAddress reverses LongFormAddress. Only addresses whose first
// 12 bytes are zero (shard 0, realm 0) are accepted; anything else is a real
// EVM alias that needs a mirror node lookup.
func AccountIDFromAddress(addr common.Address) (AccountID, error) {
	for _, b := range addr[:12] {
		if b != 0 {
			return AccountID{}, fmt.Errorf("%w: %s", ErrNotLongForm, addr.Hex())
		}
	}
	return AccountID{Num: binary.BigEndian.Uint64(addr[12:20])}, nil
}

// LongFormHex is the 0x-prefixed lowercase long-form address of a shard.realm.num id
func LongFormHex(id string) (string, error) {
	acc, err := ParseAccountID(id)
	if err != nil {
		return "", err
	}
	return "0x" + common.Bytes2Hex(acc.LongFormAddress().Bytes()), nil
}
