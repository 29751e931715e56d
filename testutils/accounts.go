package testutils

import (
	"math/rand"

	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	"github.com/cosmos/cosmos-sdk/types/address"

	"github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

type Account struct {
	PrivKey cryptotypes.PrivKey
	PubKey  cryptotypes.PubKey
	Address types.Address
}

func (acc Account) Equals(acc2 Account) bool {
	return acc.Address.Equals(acc2.Address)
}

// RandomAccounts returns n accounts drawn from r. Account addresses are the
// 32 byte hash of the public key.
func RandomAccounts(r *rand.Rand, n int) []Account {
	accs := make([]Account, n)

	for i := 0; i < n; i++ {
		pkSeed := make([]byte, 15)
		r.Read(pkSeed)

		accs[i].PrivKey = secp256k1.GenPrivKeyFromSecret(pkSeed)
		accs[i].PubKey = accs[i].PrivKey.PubKey()
		copy(accs[i].Address[:], address.Hash("account", accs[i].PubKey.Bytes()))
	}

	return accs
}

// NamedAddress returns a deterministic address for name.
func NamedAddress(name string) types.Address {
	var addr types.Address
	copy(addr[:], address.Hash("account", []byte(name)))
	return addr
}
