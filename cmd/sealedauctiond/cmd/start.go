package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/spf13/cobra"

	"github.com/skip-mev/sealed-auction/app"
	"github.com/skip-mev/sealed-auction/indexer"
	"github.com/skip-mev/sealed-auction/x/sealedauction/client/rest"
)

const shutdownTimeout = 5 * time.Second

// StartCmd runs the node: the HTTP server and the block loop.
func StartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Run the node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFromCmd(cmd)
			if err != nil {
				return err
			}

			logger, err := NewLogger(os.Stdout, cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return Start(ctx, logger, cfg)
		},
	}
}

// Node is a running application together with the services wrapping it.
type Node struct {
	App     *app.App
	Indexer *indexer.Indexer

	db     dbm.DB
	logger log.Logger
	cfg    Config
}

// OpenNode opens the database and indexer of cfg and initializes the chain
// from the genesis file when nothing was committed yet.
func OpenNode(logger log.Logger, cfg Config) (*Node, error) {
	db, err := dbm.NewDB(dbName, dbm.BackendType(cfg.DBBackend), cfg.DataDir())
	if err != nil {
		return nil, err
	}

	n := &Node{db: db, logger: logger, cfg: cfg}

	if path := cfg.IndexerFile(); path != "" {
		if n.Indexer, err = indexer.Open(path); err != nil {
			_ = n.Close()
			return nil, err
		}
	}

	opts, err := cfg.AppOptions()
	if err != nil {
		_ = n.Close()
		return nil, err
	}
	opts.Indexer = n.Indexer

	if n.App, err = app.New(logger, db, opts); err != nil {
		_ = n.Close()
		return nil, err
	}

	if n.App.LastBlockHeight() == 0 {
		appState, err := readGenesis(cfg.Home())
		if err != nil {
			_ = n.Close()
			return nil, err
		}

		n.App.BeginBlock(time.Now())
		if err := n.App.InitChain(appState); err != nil {
			_ = n.Close()
			return nil, err
		}

		logger.Info("initialized chain", "height", n.App.LastBlockHeight())
	}

	return n, nil
}

// Close releases the database and indexer.
func (n *Node) Close() error {
	var errs []error
	if n.Indexer != nil {
		errs = append(errs, n.Indexer.Close())
	}

	errs = append(errs, n.db.Close())
	return errors.Join(errs...)
}

// ProduceBlock delivers the periodic commits that are due and commits the
// block opened at blockTime.
func (n *Node) ProduceBlock(blockTime time.Time) {
	n.App.BeginBlock(blockTime)

	records, err := n.App.CommitDue()
	if err != nil {
		n.logger.Error("failed to commit due delegations", "err", err)
	} else if len(records) > 0 {
		n.logger.Info("committed due delegations", "records", len(records))
	}

	n.App.Commit()
}

// Start runs the node until ctx is done.
func Start(ctx context.Context, logger log.Logger, cfg Config) error {
	n, err := OpenNode(logger, cfg)
	if err != nil {
		return err
	}
	defer n.Close()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           rest.NewRouter(n.App, n.Indexer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	ticker := time.NewTicker(cfg.BlockInterval)
	defer ticker.Stop()

	n.App.BeginBlock(time.Now())

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down", "height", n.App.LastBlockHeight())

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			return srv.Shutdown(shutdownCtx)

		case err := <-errCh:
			return err

		case now := <-ticker.C:
			n.ProduceBlock(now)
		}
	}
}
