package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"toystore/internal/protocol"
	"toystore/internal/toys"
)

// Server serves draws from the current store over a websocket plus a JSON
// listing of the store and Prometheus metrics. The store can be swapped at
// runtime when the config is reloaded.
type Server struct {
	mu       sync.RWMutex
	store    *toys.Store
	maxDraws int

	log      *log.Logger
	upgrader websocket.Upgrader
	nextID   atomic.Uint64
}

func NewServer(st *toys.Store, maxDraws int, logger *log.Logger) *Server {
	return &Server{
		store:    st,
		maxDraws: maxDraws,
		log:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

// SetStore replaces the store used by subsequent requests. Requests already
// drawing keep the store they started with.
func (s *Server) SetStore(st *toys.Store, maxDraws int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = st
	if maxDraws > 0 {
		s.maxDraws = maxDraws
	}
}

func (s *Server) current() (*toys.Store, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store, s.maxDraws
}

func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/v1/toys", s.ToysHandler())
	mux.HandleFunc("/v1/ws", s.WSHandler())
	mux.Handle("/metrics", promhttp.Handler())
}

func (s *Server) ToysHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		st, _ := s.current()
		resp := protocol.ToysResponse{
			ProtocolVersion: protocol.Version,
			Capacity:        st.Cap(),
			Pool:            st.Pool(),
			Records:         st.Records(),
			ByWeight:        st.ByWeight(),
		}
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(resp)
	}
}

func (s *Server) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sid := fmt.Sprintf("S%d", s.nextID.Add(1))
		s.log.Printf("ws %s connected from %s", sid, r.RemoteAddr)
		defer s.log.Printf("ws %s closed", sid)

		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := writeJSON(conn, s.handle(msg)); err != nil {
				return
			}
		}
	}
}

// handle turns one client message into the reply to send back.
func (s *Server) handle(msg []byte) any {
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		return protocol.NewError("", protocol.ErrProtoBadRequest, "invalid json")
	}
	if base.ProtocolVersion != "" && base.ProtocolVersion != protocol.Version {
		return protocol.NewError("", protocol.ErrProtoVersion, "unsupported protocol_version "+base.ProtocolVersion)
	}
	if base.Type != protocol.TypeDraw {
		return protocol.NewError("", protocol.ErrProtoBadRequest, "expected DRAW")
	}
	var req protocol.DrawMsg
	if err := json.Unmarshal(msg, &req); err != nil {
		return protocol.NewError("", protocol.ErrProtoBadRequest, "bad DRAW")
	}

	st, maxDraws := s.current()
	if req.N < 1 {
		return protocol.NewError(req.RequestID, protocol.ErrBadRequest, "n must be >= 1")
	}
	if req.N > maxDraws {
		return protocol.NewError(req.RequestID, protocol.ErrRateLimit, fmt.Sprintf("n must be <= %d", maxDraws))
	}
	ids, err := st.GetN(req.N)
	if err != nil {
		if errors.Is(err, toys.ErrTooFewToys) {
			return protocol.NewError(req.RequestID, protocol.ErrTooFewToys, err.Error())
		}
		s.log.Printf("draw: %v", err)
		return protocol.NewError(req.RequestID, protocol.ErrInternal, "draw failed")
	}
	return protocol.DrawsMsg{
		Type:            protocol.TypeDraws,
		ProtocolVersion: protocol.Version,
		RequestID:       req.RequestID,
		IDs:             ids,
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
