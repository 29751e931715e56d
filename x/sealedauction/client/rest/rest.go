package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gorilla/mux"

	"github.com/skip-mev/sealed-auction/indexer"
	ephemeraltypes "github.com/skip-mev/sealed-auction/x/ephemeral/types"
	"github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

const maxBodyBytes = 1 << 20

type (
	// TxResponse is the outcome of a message delivered over HTTP.
	TxResponse struct {
		Height   int64           `json:"height"`
		Response json.RawMessage `json:"response"`
		Events   []Event         `json:"events"`
	}

	// Event is the JSON rendering of an sdk.Event.
	Event struct {
		Type       string            `json:"type"`
		Attributes map[string]string `json:"attributes"`
	}

	// ErrorResponse is returned with every non 2xx status.
	ErrorResponse struct {
		Error     string `json:"error"`
		Codespace string `json:"codespace,omitempty"`
		Code      uint32 `json:"code,omitempty"`
		Category  string `json:"category,omitempty"`
	}

	// IndexedAuction is the indexer view of an auction.
	IndexedAuction struct {
		Summary indexer.AuctionSummary `json:"summary"`
		Events  []indexer.Event        `json:"events"`
	}

	// Node is the application the routes are served from.
	Node interface {
		Deliver(view types.ExecutionView, msg types.Msg) (*types.DeliverResult, error)
		Query(view types.ExecutionView, fn func(ctx sdk.Context, qs types.QueryServer) error) error
		CommitDue() ([]types.Address, error)
		Delegations() ([]ephemeraltypes.Delegation, error)
	}

	handler struct {
		node    Node
		indexer *indexer.Indexer
	}
)

// RegisterRoutes registers the sealedauction HTTP routes on r. idx may be nil,
// in which case the index routes are not registered.
func RegisterRoutes(r *mux.Router, node Node, idx *indexer.Indexer) {
	h := handler{node: node, indexer: idx}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	s := r.PathPrefix("/" + types.ModuleName).Subrouter()

	s.HandleFunc("/address/auction", h.auctionAddress).Methods(http.MethodGet)
	s.HandleFunc("/address/bid", h.bidAddress).Methods(http.MethodGet)
	s.HandleFunc("/delegations", h.delegations).Methods(http.MethodGet)
	s.HandleFunc("/commit_due", h.commitDue).Methods(http.MethodPost)

	if idx != nil {
		s.HandleFunc("/index/auctions/{address}", h.indexedAuction).Methods(http.MethodGet)
	}

	s.HandleFunc("/{view}/params", h.params).Methods(http.MethodGet)
	s.HandleFunc("/{view}/auctions", h.auctions).Methods(http.MethodGet)
	s.HandleFunc("/{view}/auctions/{address}", h.auction).Methods(http.MethodGet)
	s.HandleFunc("/{view}/auctions/{address}/bids", h.bids).Methods(http.MethodGet)
	s.HandleFunc("/{view}/auctions/{address}/bids/{bidder}", h.bid).Methods(http.MethodGet)
	s.HandleFunc("/{view}/tx/{type}", h.tx).Methods(http.MethodPost)
}

// NewRouter returns a router with every sealedauction route registered.
func NewRouter(node Node, idx *indexer.Indexer) *mux.Router {
	r := mux.NewRouter()
	RegisterRoutes(r, node, idx)
	return r
}

func (h handler) params(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, func(ctx sdk.Context, qs types.QueryServer) (any, error) {
		return qs.Params(ctx, &types.QueryParamsRequest{})
	})
}

func (h handler) auctions(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, func(ctx sdk.Context, qs types.QueryServer) (any, error) {
		return qs.Auctions(ctx, &types.QueryAuctionsRequest{})
	})
}

func (h handler) auction(w http.ResponseWriter, r *http.Request) {
	addr := mux.Vars(r)["address"]
	h.query(w, r, func(ctx sdk.Context, qs types.QueryServer) (any, error) {
		return qs.Auction(ctx, &types.QueryAuctionRequest{Address: addr})
	})
}

func (h handler) bids(w http.ResponseWriter, r *http.Request) {
	addr := mux.Vars(r)["address"]
	h.query(w, r, func(ctx sdk.Context, qs types.QueryServer) (any, error) {
		return qs.BidsByAuction(ctx, &types.QueryBidsByAuctionRequest{Auction: addr})
	})
}

func (h handler) bid(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.query(w, r, func(ctx sdk.Context, qs types.QueryServer) (any, error) {
		return qs.Bid(ctx, &types.QueryBidRequest{Auction: vars["address"], Bidder: vars["bidder"]})
	})
}

func (h handler) auctionAddress(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	id, err := strconv.ParseUint(q.Get("auction_id"), 10, 64)
	if err != nil {
		writeErr(w, types.ErrInvalidAddress.Wrapf("auction_id: %s", err))
		return
	}

	h.queryView(w, types.ViewPrimary, func(ctx sdk.Context, qs types.QueryServer) (any, error) {
		return qs.AuctionAddress(ctx, &types.QueryAuctionAddressRequest{Authority: q.Get("authority"), AuctionID: id})
	})
}

func (h handler) bidAddress(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.queryView(w, types.ViewPrimary, func(ctx sdk.Context, qs types.QueryServer) (any, error) {
		return qs.BidAddress(ctx, &types.QueryBidAddressRequest{Auction: q.Get("auction"), Bidder: q.Get("bidder")})
	})
}

func (h handler) delegations(w http.ResponseWriter, _ *http.Request) {
	delegations, err := h.node.Delegations()
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, delegations)
}

func (h handler) commitDue(w http.ResponseWriter, _ *http.Request) {
	records, err := h.node.CommitDue()
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]types.Address{"records": records})
}

func (h handler) indexedAuction(w http.ResponseWriter, r *http.Request) {
	addr := mux.Vars(r)["address"]

	summary, err := h.indexer.Summary(addr)
	if err != nil {
		writeErr(w, err)
		return
	}

	events, err := h.indexer.EventsByAuction(addr)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, IndexedAuction{Summary: summary, Events: events})
}

func (h handler) tx(w http.ResponseWriter, r *http.Request) {
	view, err := types.ParseExecutionView(mux.Vars(r)["view"])
	if err != nil {
		writeErr(w, err)
		return
	}

	msg, err := types.NewMsg(mux.Vars(r)["type"])
	if err != nil {
		writeError(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(msg); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json: " + err.Error()})
		return
	}

	res, err := h.node.Deliver(view, msg)
	if err != nil {
		writeErr(w, err)
		return
	}

	resp, err := json.Marshal(res.Response)
	if err != nil {
		writeErr(w, err)
		return
	}

	out := TxResponse{Height: res.Height, Response: resp, Events: make([]Event, 0, len(res.Events))}
	for _, e := range res.Events {
		attrs := make(map[string]string, len(e.Attributes))
		for _, attr := range e.Attributes {
			attrs[attr.Key] = attr.Value
		}

		out.Events = append(out.Events, Event{Type: e.Type, Attributes: attrs})
	}

	writeJSON(w, http.StatusOK, out)
}

func (h handler) query(w http.ResponseWriter, r *http.Request, fn func(sdk.Context, types.QueryServer) (any, error)) {
	view, err := types.ParseExecutionView(mux.Vars(r)["view"])
	if err != nil {
		writeErr(w, err)
		return
	}

	h.queryView(w, view, fn)
}

func (h handler) queryView(w http.ResponseWriter, view types.ExecutionView, fn func(sdk.Context, types.QueryServer) (any, error)) {
	var resp any
	err := h.node.Query(view, func(ctx sdk.Context, qs types.QueryServer) error {
		var err error
		resp, err = fn(ctx, qs)
		return err
	})
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, resp ErrorResponse) {
	writeJSON(w, status, resp)
}

func writeErr(w http.ResponseWriter, err error) {
	codespace, code, _ := errorsmod.ABCIInfo(err, false)

	writeError(w, httpStatus(err), ErrorResponse{
		Error:     err.Error(),
		Codespace: codespace,
		Code:      code,
		Category:  string(types.Classify(err)),
	})
}

func httpStatus(err error) int {
	switch {
	case errors.Is(err, types.ErrAuctionNotFound),
		errors.Is(err, types.ErrBidNotFound),
		errors.Is(err, indexer.ErrAuctionNotIndexed):
		return http.StatusNotFound

	case errors.Is(err, types.ErrInvalidAddress),
		errors.Is(err, types.ErrInvalidView),
		errors.Is(err, types.ErrInvalidParams):
		return http.StatusBadRequest
	}

	switch types.Classify(err) {
	case types.CategoryAuthorization:
		return http.StatusForbidden
	case types.CategoryTemporal, types.CategoryStateConflict, types.CategoryLedger:
		return http.StatusConflict
	case types.CategoryIntegrity, types.CategoryArithmetic:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
