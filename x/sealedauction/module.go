package sealedauction

import (
	"encoding/json"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/skip-mev/sealed-auction/x/sealedauction/keeper"
	"github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

// ConsensusVersion defines the current x/sealedauction module consensus version.
const ConsensusVersion = 1

// AppModuleBasic defines the basic application module used by the sealedauction module.
type AppModuleBasic struct{}

// Name returns the sealedauction module's name.
func (AppModuleBasic) Name() string {
	return types.ModuleName
}

// DefaultGenesis returns default genesis state as raw bytes for the sealedauction module.
func (AppModuleBasic) DefaultGenesis() json.RawMessage {
	bz, err := json.Marshal(types.DefaultGenesisState())
	if err != nil {
		panic(err)
	}

	return bz
}

// ValidateGenesis performs genesis state validation for the sealedauction module.
func (AppModuleBasic) ValidateGenesis(bz json.RawMessage) error {
	genState, err := unmarshalGenesis(bz)
	if err != nil {
		return err
	}

	return genState.Validate()
}

// AppModule binds the sealedauction genesis handling to the keeper of one
// execution view.
type AppModule struct {
	AppModuleBasic

	keeper keeper.Keeper
}

// NewAppModule creates a new AppModule object.
func NewAppModule(k keeper.Keeper) AppModule {
	return AppModule{keeper: k}
}

// ConsensusVersion implements AppModule/ConsensusVersion.
func (AppModule) ConsensusVersion() uint64 { return ConsensusVersion }

// InitGenesis performs the module's genesis initialization. An empty message
// initializes the default genesis.
func (am AppModule) InitGenesis(ctx sdk.Context, bz json.RawMessage) error {
	if len(bz) == 0 {
		bz = am.DefaultGenesis()
	}

	genState, err := unmarshalGenesis(bz)
	if err != nil {
		return err
	}

	if err := genState.Validate(); err != nil {
		return fmt.Errorf("invalid %s genesis: %w", types.ModuleName, err)
	}

	am.keeper.InitGenesis(ctx, genState)
	return nil
}

// ExportGenesis returns the module's exported genesis state as raw JSON bytes.
func (am AppModule) ExportGenesis(ctx sdk.Context) (json.RawMessage, error) {
	return json.Marshal(am.keeper.ExportGenesis(ctx))
}

func unmarshalGenesis(bz json.RawMessage) (types.GenesisState, error) {
	var genState types.GenesisState
	if err := json.Unmarshal(bz, &genState); err != nil {
		return types.GenesisState{}, fmt.Errorf("failed to unmarshal %s genesis state: %w", types.ModuleName, err)
	}

	return genState, nil
}
