package testutils

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
)

// ExampleTimestamp is the block time test contexts start at.
var ExampleTimestamp = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

// TestContext is a context over an in-memory multistore with every given key
// mounted.
type TestContext struct {
	Ctx sdk.Context
	CMS storetypes.CommitMultiStore
}

// DefaultContextWithKeys mounts keys on an in-memory multistore and returns a
// context at ExampleTimestamp.
func DefaultContextWithKeys(t testing.TB, keys ...storetypes.StoreKey) TestContext {
	db := dbm.NewMemDB()
	cms := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())

	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, db)
	}

	require.NoError(t, cms.LoadLatestVersion())

	ctx := sdk.NewContext(cms, cmtproto.Header{Time: ExampleTimestamp, Height: 1}, false, log.NewNopLogger())

	return TestContext{Ctx: ctx, CMS: cms}
}

// At returns ctx with its block time set to the given unix timestamp.
func At(ctx sdk.Context, unix int64) sdk.Context {
	return ctx.WithBlockTime(time.Unix(unix, 0).UTC())
}
