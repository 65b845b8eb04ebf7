// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/govledger/vstake/api/restutil"
	"github.com/govledger/vstake/event"
	"github.com/govledger/vstake/runtime"
	"github.com/govledger/vstake/vstake"
)

var logger = log.New("pkg", "subscriptions")

const (
	pingPeriod = 30 * time.Second
	pongWait   = 2 * pingPeriod
	writeWait  = 10 * time.Second
	bufferSize = 64
)

type Subscriptions struct {
	upgrader   *websocket.Upgrader
	dispatcher *dispatcher
	done       chan struct{}
	wg         sync.WaitGroup
}

// Message is a matching event of a committed call.
type Message struct {
	restutil.Event
	CallNumber uint32         `json:"callNumber"`
	CallTime   uint64         `json:"callTime"`
	Caller     vstake.Address `json:"caller"`
	Method     string         `json:"method"`
}

type filter struct {
	name    string
	address *vstake.Address
	account *vstake.Address
}

func (f *filter) match(ev *event.Event) bool {
	if f.name != "" && ev.Name != f.name {
		return false
	}
	if f.address != nil && ev.Address != *f.address {
		return false
	}
	if f.account != nil && !ev.Involves(*f.account) {
		return false
	}
	return true
}

// New starts dispatching receipts of rt. Close must be called to stop it.
func New(rt *runtime.Runtime, allowedOrigins []string) *Subscriptions {
	s := &Subscriptions{
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == origin {
						return true
					}
				}
				return false
			},
		},
		dispatcher: newDispatcher(rt),
		done:       make(chan struct{}),
	}
	s.wg.Go(func() {
		s.dispatcher.DispatchLoop(s.done)
	})
	return s
}

func parseFilter(req *http.Request) (*filter, error) {
	query := req.URL.Query()
	f := &filter{name: query.Get("name")}
	for _, p := range []struct {
		key string
		dst **vstake.Address
	}{{"address", &f.address}, {"account", &f.account}} {
		if v := query.Get(p.key); v != "" {
			addr, err := restutil.ParseAddress(v, p.key)
			if err != nil {
				return nil, err
			}
			*p.dst = &addr
		}
	}
	return f, nil
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	f, err := parseFilter(req)
	if err != nil {
		return err
	}
	// subscribed before the handshake completes, so no receipt is missed once the client is connected
	ch := make(chan *runtime.Receipt, bufferSize)
	s.dispatcher.Subscribe(ch)
	defer s.dispatcher.Unsubscribe(ch)

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		logger.Debug("upgrade failed", "err", err)
		// the upgrader has replied already
		return nil
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case receipt := <-ch:
			for _, ev := range receipt.Events {
				if !f.match(ev) {
					continue
				}
				msg := &Message{
					Event:      *restutil.ConvertEvent(ev),
					CallNumber: receipt.CallNumber,
					CallTime:   receipt.Time,
					Caller:     receipt.Caller,
					Method:     receipt.Method,
				}
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(msg); err != nil {
					logger.Debug("write failed", "err", err)
					return nil
				}
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		case <-closed:
			return nil
		case <-s.done:
			conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
			return nil
		}
	}
}

// Close stops the dispatcher and disconnects every subscriber.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("WS " + pathPrefix + "/events").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleSubscribeEvents))
}
