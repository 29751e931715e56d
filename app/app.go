package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"

	"github.com/skip-mev/sealed-auction/indexer"
	ephemeralkeeper "github.com/skip-mev/sealed-auction/x/ephemeral/keeper"
	ephemeraltypes "github.com/skip-mev/sealed-auction/x/ephemeral/types"
	permissionkeeper "github.com/skip-mev/sealed-auction/x/permission/keeper"
	permissiontypes "github.com/skip-mev/sealed-auction/x/permission/types"
	"github.com/skip-mev/sealed-auction/x/sealedauction"
	"github.com/skip-mev/sealed-auction/x/sealedauction/keeper"
	"github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

const (
	AppName = "sealedauctiond"
)

var (
	// DefaultNodeHome default home directories for the application daemon
	DefaultNodeHome string

	// DefaultAuthority is the address allowed to update the sealedauction
	// parameters when none is configured.
	DefaultAuthority = authtypes.NewModuleAddress(govtypes.ModuleName).String()

	// DefaultCommitPayer pays for the periodic commits of the delegation
	// coordinator when none is configured.
	DefaultCommitPayer = types.DeriveAddress(ephemeraltypes.ModuleName, []byte("commit_payer"))
)

// storeVersionKey is kept in every mounted store. An IAVL tree without any
// node saves no loadable version, so a store that is empty at commit would fail
// the next LoadLatestVersion.
var storeVersionKey = []byte{0xff}

func init() {
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}

	DefaultNodeHome = filepath.Join(userHomeDir, "."+AppName)
}

type (
	// App wires the sealedauction keepers of both execution views together with
	// the reference permission service and delegation coordinator over a single
	// multistore. Every message is delivered as one atomic transaction.
	App struct {
		mtx sync.RWMutex

		logger log.Logger
		cms    storetypes.CommitMultiStore
		keys   map[string]*storetypes.KVStoreKey
		header cmtproto.Header

		// keepers
		AuctionKeeper          keeper.Keeper
		DelegatedAuctionKeeper keeper.Keeper
		EphemeralKeeper        ephemeralkeeper.Keeper
		PermissionKeeper       permissionkeeper.Keeper

		auctionModule sealedauction.AppModule

		msgServers   map[types.ExecutionView]types.MsgServer
		queryServers map[types.ExecutionView]types.QueryServer

		indexer     *indexer.Indexer
		commitPayer types.Address
	}

	// Options configures an App.
	Options struct {
		// Authority may update the sealedauction parameters. Defaults to the
		// governance module address.
		Authority string

		// Validators are registered with the delegation coordinator at genesis.
		Validators []types.Address

		// CommitPayer pays for periodic commits. Defaults to DefaultCommitPayer.
		CommitPayer types.Address

		// Indexer, when set, receives the events of every delivered message.
		Indexer *indexer.Indexer
	}

	// Result is the outcome of a delivered message.
	Result = types.DeliverResult
)

// New returns an App over db, loading its latest committed version.
func New(logger log.Logger, db dbm.DB, opts Options) (*App, error) {
	if opts.Authority == "" {
		opts.Authority = DefaultAuthority
	}

	if opts.CommitPayer.Empty() {
		opts.CommitPayer = DefaultCommitPayer
	}

	keys := map[string]*storetypes.KVStoreKey{
		types.StoreKey:           storetypes.NewKVStoreKey(types.StoreKey),
		types.DelegatedStoreKey:  storetypes.NewKVStoreKey(types.DelegatedStoreKey),
		ephemeraltypes.StoreKey:  storetypes.NewKVStoreKey(ephemeraltypes.StoreKey),
		permissiontypes.StoreKey: storetypes.NewKVStoreKey(permissiontypes.StoreKey),
	}

	cms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}

	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("failed to load latest version: %w", err)
	}

	app := &App{
		logger:      logger.With("module", "app"),
		cms:         cms,
		keys:        keys,
		indexer:     opts.Indexer,
		commitPayer: opts.CommitPayer,
		header: cmtproto.Header{
			ChainID: AppName,
			Height:  cms.LastCommitID().Version + 1,
			Time:    time.Now().UTC(),
		},
	}

	app.PermissionKeeper = permissionkeeper.NewKeeper(keys[permissiontypes.StoreKey])
	app.EphemeralKeeper = ephemeralkeeper.NewKeeper(
		keys[ephemeraltypes.StoreKey],
		keys[types.StoreKey],
		keys[types.DelegatedStoreKey],
	)
	app.AuctionKeeper = keeper.NewKeeper(
		keys[types.StoreKey],
		app.PermissionKeeper,
		app.EphemeralKeeper,
		opts.Authority,
	)
	app.DelegatedAuctionKeeper = keeper.NewDelegatedKeeper(
		keys[types.DelegatedStoreKey],
		app.EphemeralKeeper,
		opts.Authority,
	)

	app.auctionModule = sealedauction.NewAppModule(app.AuctionKeeper)

	app.msgServers = map[types.ExecutionView]types.MsgServer{
		types.ViewPrimary:   keeper.NewMsgServerImpl(app.AuctionKeeper),
		types.ViewDelegated: keeper.NewMsgServerImpl(app.DelegatedAuctionKeeper),
	}
	app.queryServers = map[types.ExecutionView]types.QueryServer{
		types.ViewPrimary:   keeper.NewQueryServer(app.AuctionKeeper),
		types.ViewDelegated: keeper.NewQueryServer(app.DelegatedAuctionKeeper),
	}

	if cms.LastCommitID().Version == 0 {
		if err := app.initValidators(opts.Validators); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// GetKey returns the KVStoreKey for the provided store key.
//
// NOTE: This is solely to be used for testing purposes.
func (app *App) GetKey(storeKey string) *storetypes.KVStoreKey {
	return app.keys[storeKey]
}

// LastBlockHeight returns the height of the last committed block.
func (app *App) LastBlockHeight() int64 {
	return app.cms.LastCommitID().Version
}

// BeginBlock sets the time every following message is delivered at.
func (app *App) BeginBlock(blockTime time.Time) {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	app.header.Time = blockTime.UTC()
}

// Commit persists every message delivered since the last commit and opens the
// next block.
func (app *App) Commit() storetypes.CommitID {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	for _, key := range app.keys {
		store := app.cms.GetKVStore(key)
		if !store.Has(storeVersionKey) {
			store.Set(storeVersionKey, []byte{1})
		}
	}

	id := app.cms.Commit()
	app.header.Height = id.Version + 1

	app.logger.Debug("committed block", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))

	return id
}

// Deliver executes msg against the records of view as one atomic transaction:
// either every state change and event of the handler is kept or none is.
func (app *App) Deliver(view types.ExecutionView, msg types.Msg) (*Result, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	srv, ok := app.msgServers[view]
	if !ok {
		return nil, types.ErrInvalidView.Wrapf("unknown view %s", view)
	}

	app.mtx.Lock()
	defer app.mtx.Unlock()

	ctx, write := app.newContext().CacheContext()

	resp, err := route(ctx, srv, msg)
	if err != nil {
		app.logger.Debug(
			"message failed",
			"view", view.String(),
			"msg", msg.Type(),
			"category", string(types.Classify(err)),
			"err", err,
		)
		return nil, err
	}

	write()

	events := ctx.EventManager().Events()
	app.index(view, events)

	return &Result{Height: app.header.Height, Response: resp, Events: events}, nil
}

// CommitDue drives the periodic commits of the delegation coordinator and
// returns the committed records.
func (app *App) CommitDue() ([]types.Address, error) {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	ctx, write := app.newContext().CacheContext()

	records, err := app.EphemeralKeeper.CommitDue(ctx, app.commitPayer)
	if err != nil {
		return nil, err
	}

	write()
	app.index(types.ViewPrimary, ctx.EventManager().Events())

	return records, nil
}

// Query runs fn against a read-only snapshot of the working state of view.
func (app *App) Query(view types.ExecutionView, fn func(ctx sdk.Context, qs types.QueryServer) error) error {
	qs, ok := app.queryServers[view]
	if !ok {
		return types.ErrInvalidView.Wrapf("unknown view %s", view)
	}

	app.mtx.RLock()
	defer app.mtx.RUnlock()

	ctx := app.newContext().WithMultiStore(app.cms.CacheMultiStore())
	return fn(ctx, qs)
}

// Delegations returns the registry of the delegation coordinator.
func (app *App) Delegations() ([]ephemeraltypes.Delegation, error) {
	app.mtx.RLock()
	defer app.mtx.RUnlock()

	ctx := app.newContext().WithMultiStore(app.cms.CacheMultiStore())
	return app.EphemeralKeeper.GetDelegations(ctx)
}

// InitChain initializes the module state from the application genesis and
// commits it as the first block.
func (app *App) InitChain(appState map[string]json.RawMessage) error {
	gs, err := types.GetGenesisStateFromAppState(appState)
	if err != nil {
		return err
	}

	app.mtx.Lock()
	ctx := app.newContext()
	if err := app.auctionModule.InitGenesis(ctx, appState[types.ModuleName]); err != nil {
		app.mtx.Unlock()
		return err
	}

	// the delegated view shares the params of the primary ledger
	if err := app.DelegatedAuctionKeeper.SetParams(ctx, gs.Params); err != nil {
		app.mtx.Unlock()
		return err
	}
	app.mtx.Unlock()

	app.Commit()
	return nil
}

// ExportGenesis exports the primary ledger state of the application.
func (app *App) ExportGenesis() (map[string]json.RawMessage, error) {
	app.mtx.RLock()
	defer app.mtx.RUnlock()

	ctx := app.newContext().WithMultiStore(app.cms.CacheMultiStore())

	bz, err := app.auctionModule.ExportGenesis(ctx)
	if err != nil {
		return nil, err
	}

	return map[string]json.RawMessage{app.auctionModule.Name(): bz}, nil
}

func (app *App) initValidators(validators []types.Address) error {
	ctx := app.newContext()
	for _, v := range validators {
		if v.Empty() {
			return fmt.Errorf("validator cannot be the zero address")
		}

		app.EphemeralKeeper.RegisterValidator(ctx, v)
	}

	return nil
}

// newContext must be called with the lock held.
func (app *App) newContext() sdk.Context {
	return sdk.NewContext(app.cms, app.header, false, app.logger)
}

func (app *App) index(view types.ExecutionView, events sdk.Events) {
	if app.indexer == nil {
		return
	}

	if err := app.indexer.Index(app.header.Height, app.header.Time, view.String(), events); err != nil {
		app.logger.Error("failed to index events", "height", app.header.Height, "err", err)
	}
}

func route(ctx context.Context, srv types.MsgServer, msg types.Msg) (any, error) {
	switch msg := msg.(type) {
	case *types.MsgUpdateParams:
		return srv.UpdateParams(ctx, msg)
	case *types.MsgCreateAuction:
		return srv.CreateAuction(ctx, msg)
	case *types.MsgInitializeBid:
		return srv.InitializeBid(ctx, msg)
	case *types.MsgSubmitSealedBid:
		return srv.SubmitSealedBid(ctx, msg)
	case *types.MsgSubmitSealedBidDelegated:
		return srv.SubmitSealedBidDelegated(ctx, msg)
	case *types.MsgRevealBid:
		return srv.RevealBid(ctx, msg)
	case *types.MsgFinalizeAuction:
		return srv.FinalizeAuction(ctx, msg)
	case *types.MsgCreateAuctionPermission:
		return srv.CreateAuctionPermission(ctx, msg)
	case *types.MsgCreateBidPermission:
		return srv.CreateBidPermission(ctx, msg)
	case *types.MsgDelegateAuction:
		return srv.DelegateAuction(ctx, msg)
	case *types.MsgDelegateBid:
		return srv.DelegateBid(ctx, msg)
	case *types.MsgFinalizeAndSettle:
		return srv.FinalizeAndSettle(ctx, msg)
	default:
		return nil, errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "unrecognized %s message type: %T", types.ModuleName, msg)
	}
}
