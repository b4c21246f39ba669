package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/playroom/internal/entity"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096

	shutdownTimeout = 5 * time.Second
)

type gameService interface {
	StartGame(ctx context.Context, playerX, playerO string) (*entity.Match, error)
	GetMatch(ctx context.Context, id string) (*entity.Match, error)
	MakeMove(ctx context.Context, id string, cell int) (*entity.Match, error)
	NextRound(ctx context.Context, id string) (*entity.Match, error)
	ResetRound(ctx context.Context, id string) (*entity.Match, error)
	ResetMatch(ctx context.Context, id string) (*entity.Match, error)
	Rematch(ctx context.Context, id string) (*entity.Match, error)
}

type leaderboardService interface {
	Entries() []entity.LeaderboardEntry
}

type handlerFunc func(ctx context.Context, conn *connection, msg *Message) error

// connection serializes writes; gorilla allows one concurrent writer.
type connection struct {
	ws      *websocket.Conn
	writeMu sync.Mutex
}

func (that *connection) writeJSON(v any) error {
	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err := that.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	return that.ws.WriteJSON(v)
}

func (that *connection) ping() error {
	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	return that.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// matchFeed is every connection following one match. sendMu keeps broadcasts
// in version order; latest is the newest match handed to the watchers.
type matchFeed struct {
	conns map[*connection]struct{}

	sendMu sync.Mutex
	latest *entity.Match
}

type Server struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader
	games    gameService
	scores   leaderboardService

	handlers map[string]handlerFunc

	watchersMutex sync.RWMutex
	watchers      map[string]*matchFeed
}

func New(logger *slog.Logger, allowedOrigins []string, games gameService, scores leaderboardService) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		games:  games,
		scores: scores,

		handlers: make(map[string]handlerFunc),
		watchers: make(map[string]*matchFeed),
	}

	server.handlers[actionGameNew] = server.handleNewGame
	server.handlers[actionGameGet] = server.handleGetGame
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionGameNextRound] = server.matchAction(games.NextRound)
	server.handlers[actionGameResetRound] = server.matchAction(games.ResetRound)
	server.handlers[actionGameRematch] = server.matchAction(games.Rematch)
	server.handlers[actionGameReset] = server.matchAction(games.ResetMatch)
	server.handlers[actionLeaderboardGet] = server.handleLeaderboard

	return server
}

func (that *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Get("/ws", that.serveWS)

	return router
}

// Start - starts WebSocket server and stops it when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down WebSocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	ws, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	conn := &connection{ws: ws}
	defer func() {
		that.unwatchAll(conn)
		_ = ws.Close()
	}()

	log.Info("WebSocket connection established", "remote", r.RemoteAddr)

	stopPing := that.keepAlive(conn)
	defer stopPing()

	if err = that.handleMessages(r.Context(), conn); err != nil {
		log.Debug("connection closed", "reason", err)
	}
}

// handleMessages - processes messages from the client until the connection drops.
func (that *Server) handleMessages(ctx context.Context, conn *connection) error {
	log := that.logger.With("method", "handleMessages")

	conn.ws.SetReadLimit(maxMessageSize)
	_ = conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	conn.ws.SetPongHandler(func(string) error {
		return conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			return err
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			that.sendError(conn, "", "invalid message")
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			that.sendError(conn, message.Action, "unknown action")
			continue
		}

		if err = handler(ctx, conn, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) keepAlive(conn *connection) func() {
	ticker := time.NewTicker(pingPeriod)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := conn.ping(); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }
}

func (that *Server) watch(matchID string, conn *connection) {
	that.watchersMutex.Lock()
	defer that.watchersMutex.Unlock()

	feed, ok := that.watchers[matchID]
	if !ok {
		feed = &matchFeed{conns: make(map[*connection]struct{})}
		that.watchers[matchID] = feed
	}
	feed.conns[conn] = struct{}{}
}

func (that *Server) unwatchAll(conn *connection) {
	that.watchersMutex.Lock()
	defer that.watchersMutex.Unlock()

	for matchID, feed := range that.watchers {
		delete(feed.conns, conn)
		if len(feed.conns) == 0 {
			delete(that.watchers, matchID)
		}
	}
}

func (that *Server) feedOf(matchID string) (*matchFeed, []*connection) {
	that.watchersMutex.RLock()
	defer that.watchersMutex.RUnlock()

	feed, ok := that.watchers[matchID]
	if !ok {
		return nil, nil
	}

	conns := make([]*connection, 0, len(feed.conns))
	for conn := range feed.conns {
		conns = append(conns, conn)
	}

	return feed, conns
}

// broadcast sends the match to every watcher. When a newer version already
// went out the stale one is dropped and the caller gets the newer one instead,
// so no connection steps back to an older board.
func (that *Server) broadcast(caller *connection, action string, match *entity.Match) {
	log := that.logger.With("method", "broadcast", "action", action, "match_id", match.ID)

	feed, _ := that.feedOf(match.ID)
	if feed == nil {
		return
	}

	feed.sendMu.Lock()
	defer feed.sendMu.Unlock()

	if feed.latest != nil && match.Version <= feed.latest.Version {
		log.Debug("stale match update dropped", "version", match.Version, "latest", feed.latest.Version)

		if err := that.sendMessage(caller, action, Payload{Match: feed.latest}); err != nil {
			log.Error("failed to send match update", "error", err)
		}
		return
	}
	feed.latest = match

	// connections that joined while waiting for sendMu are included
	_, conns := that.feedOf(match.ID)
	for _, conn := range conns {
		if err := that.sendMessage(conn, action, Payload{Match: match}); err != nil {
			log.Error("failed to send match update", "error", err)
		}
	}
}

func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
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
	}
}
