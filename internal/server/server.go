// Package server exposes the engine's read and subscribe surface: JSON
// snapshots of the book and ledger, order submission, and websocket streams
// of the change events.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"mimir/internal/engine"
	"mimir/internal/scalar"
)

const (
	defaultViewLimit    = 100
	shutdownGracePeriod = 5 * time.Second
)

var errUnknownSide = errors.New("unknown side")

type Server struct {
	addr     string
	engine   *engine.Engine
	upgrader websocket.Upgrader
	done     chan struct{}
}

func New(addr string, eng *engine.Engine) *Server {
	return &Server{
		addr:     addr,
		engine:   eng,
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		done:     make(chan struct{}),
	}
}

// Run serves until the context is cancelled, then drains with a grace period.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.routes()}

	go func() {
		<-ctx.Done()
		// Websocket loops watch s.done; Shutdown only covers plain HTTP.
		close(s.done)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	log.Info().Str("address", s.addr).Msg("server running")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/book", s.handleBook)
	mux.HandleFunc("/trades", s.handleTrades)
	mux.HandleFunc("/orders", s.handleSubmit)
	mux.HandleFunc("/ws/orders", s.handleOrderStream)
	mux.HandleFunc("/ws/trades", s.handleTradeStream)
	return mux
}

// --- JSON views -------------------------------------------------------------

type orderView struct {
	Slot     int    `json:"slot"`
	Ref      string `json:"ref"`
	Side     string `json:"side"`
	Price    string `json:"price"`
	Quantity uint64 `json:"quantity"`
}

type tradeView struct {
	ID        string `json:"id"`
	Price     string `json:"price"`
	Quantity  uint64 `json:"quantity"`
	Side      string `json:"side"`
	CreatedAt string `json:"createdAt"`
}

type orderEvent struct {
	Type  string    `json:"type"` // "added" or "removed"
	Order orderView `json:"order"`
}

type submitRequest struct {
	Side     string `json:"side"`
	Quantity uint64 `json:"quantity"`
	Price    string `json:"price"`
}

type submitResponse struct {
	Trades  []tradeView `json:"trades"`
	Resting *orderView  `json:"resting,omitempty"`
}

func toOrderView(o engine.ResidentOrder) orderView {
	return orderView{
		Slot:     int(o.Slot),
		Ref:      scalar.FormatRef(o.Ref),
		Side:     o.Side.String(),
		Price:    scalar.FormatPrice(o.Price),
		Quantity: o.Quantity,
	}
}

func toTradeView(t engine.Trade) tradeView {
	return tradeView{
		ID:        scalar.FormatRef(t.ID),
		Price:     scalar.FormatPrice(t.Price),
		Quantity:  t.Quantity,
		Side:      t.Side.String(),
		CreatedAt: scalar.FormatTime(t.CreatedAt),
	}
}

// --- read handlers ----------------------------------------------------------

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	side, err := parseSide(r.URL.Query().Get("side"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	orders := s.engine.Snapshot(side, parseLimit(r.URL.Query().Get("limit")))
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	trades := s.engine.RecentTrades(parseLimit(r.URL.Query().Get("limit")))
	views := make([]tradeView, 0, len(trades))
	for _, t := range trades {
		views = append(views, toTradeView(t))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid payload: %w", err))
		return
	}
	side, err := parseSide(req.Side)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	price, err := scalar.ParsePrice(req.Price)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.engine.Submit(side, engine.OrderIntent{Quantity: req.Quantity, Price: price})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp := submitResponse{Trades: make([]tradeView, 0, len(res.Trades))}
	for _, t := range res.Trades {
		resp.Trades = append(resp.Trades, toTradeView(t))
	}
	if res.Resting != nil {
		v := toOrderView(*res.Resting)
		resp.Resting = &v
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- subscription handlers --------------------------------------------------

func (s *Server) handleOrderStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	streams := s.engine.Streams()
	added := streams.OrderAdded.Subscribe()
	defer added.Close()
	removed := streams.OrderRemoved.Subscribe()
	defer removed.Close()

	go discardReads(conn)

	for {
		var event orderEvent
		select {
		case <-s.done:
			return
		case o, ok := <-added.C():
			if !ok {
				return
			}
			event = orderEvent{Type: "added", Order: toOrderView(o)}
		case o, ok := <-removed.C():
			if !ok {
				return
			}
			event = orderEvent{Type: "removed", Order: toOrderView(o)}
		}
		if err := conn.WriteJSON(event); err != nil {
			return
		}
	}
}

func (s *Server) handleTradeStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sub := s.engine.Streams().TradeExecuted.Subscribe()
	defer sub.Close()

	go discardReads(conn)

	for {
		select {
		case <-s.done:
			return
		case t, ok := <-sub.C():
			if !ok {
				return
			}
			if err := conn.WriteJSON(toTradeView(t)); err != nil {
				return
			}
		}
	}
}

// discardReads drains the connection so close frames are processed; we never
// expect meaningful input on a stream socket.
func discardReads(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// --- helpers ----------------------------------------------------------------

func parseSide(value string) (engine.Side, error) {
	switch strings.ToLower(value) {
	case "buy", "bid", "b":
		return engine.Buy, nil
	case "sell", "ask", "s":
		return engine.Sell, nil
	default:
		return 0, fmt.Errorf("%w: %q", errUnknownSide, value)
	}
}

func parseLimit(value string) int {
	if value == "" {
		return defaultViewLimit
	}
	limit, err := strconv.Atoi(value)
	if err != nil || limit < 0 {
		return defaultViewLimit
	}
	return limit
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("encoding response failed")
	}
}
