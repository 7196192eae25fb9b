package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"

	"github.com/AmiralBl3ndic/Vinaigrette/internal/config"
	"github.com/AmiralBl3ndic/Vinaigrette/internal/game"
)

// Server routes inbound client commands to rooms and the registry. It owns
// every live Session; rooms only borrow them.
type Server struct {
	registry *game.Registry
	source   game.PuzzleSource
	cfg      config.Config

	mu       sync.Mutex
	sessions map[string]*game.Session // socket id -> session
}

func New(registry *game.Registry, source game.PuzzleSource, cfg config.Config) *Server {
	return &Server{
		registry: registry,
		source:   source,
		cfg:      cfg,
		sessions: make(map[string]*game.Session),
	}
}

func (srv *Server) roomConfig() game.Config {
	return game.Config{
		WinningScore:         srv.cfg.WinningScore,
		RoundDurationSeconds: srv.cfg.RoundDurationSeconds,
		RoundPause:           time.Duration(srv.cfg.TimeBetweenRounds) * time.Second,
		CloseThreshold:       srv.cfg.CloseThreshold,
		ResultsFile:          srv.cfg.ResultsFile,
	}
}

// Mount attaches the Socket.IO server with all command handlers to the given
// Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		sess := game.NewSession(s.ID(), s)
		s.SetContext(sess)
		srv.addSession(sess)
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		s.Emit("rooms_list_update", map[string]any{"roomNames": srv.registry.ListNames()})
		return nil
	})

	io.OnEvent("/", "set_username", func(s socketio.Conn, payload struct {
		Username string `json:"username"`
	}) {
		srv.session(s).SetUsername(payload.Username)
		log.Info().Str("sid", s.ID()).Str("username", payload.Username).Msg("set_username")
	})

	io.OnEvent("/", "create_room", func(s socketio.Conn, payload struct {
		RoomName string `json:"roomName"`
	}) {
		sess := srv.session(s)
		if sess.Username() == "" {
			srv.fail(s, "create_room", payload.RoomName, game.ErrUsernameNotSet)
			return
		}
		if sess.Room() != nil {
			srv.fail(s, "create_room", payload.RoomName, game.ErrAlreadyInRoom)
			return
		}
		room, err := srv.registry.Create(payload.RoomName, srv.source, srv.roomConfig())
		if err != nil {
			srv.fail(s, "create_room", payload.RoomName, err)
			return
		}
		s.Join(room.Name)
		if err := room.Join(sess); err != nil {
			srv.fail(s, "create_room", payload.RoomName, err)
			return
		}
		log.Info().Str("sid", s.ID()).Str("room", room.Name).Msg("create_room")
		s.Emit("create_room_success", map[string]any{"roomName": room.Name})
		srv.broadcastRoomsList()
	})

	io.OnEvent("/", "join_room", func(s socketio.Conn, payload struct {
		RoomName string `json:"roomName"`
	}) {
		sess := srv.session(s)
		if sess.Username() == "" {
			srv.fail(s, "join_room", payload.RoomName, game.ErrUsernameNotSet)
			return
		}
		if sess.Room() != nil {
			srv.fail(s, "join_room", payload.RoomName, game.ErrAlreadyInRoom)
			return
		}
		room, err := srv.registry.Find(payload.RoomName)
		if err != nil {
			srv.fail(s, "join_room", payload.RoomName, err)
			return
		}
		if err := room.Join(sess); err != nil {
			srv.fail(s, "join_room", payload.RoomName, err)
			return
		}
		s.Join(room.Name)
		log.Info().Str("sid", s.ID()).Str("room", room.Name).Msg("join_room")
		s.Emit("join_room_success", map[string]any{"roomName": room.Name})
	})

	io.OnEvent("/", "leave_room", func(s socketio.Conn, payload struct {
		RoomName string `json:"roomName"`
	}) {
		sess := srv.session(s)
		room := sess.Room()
		if room == nil || room.Name != payload.RoomName {
			srv.fail(s, "leave_room", payload.RoomName, game.ErrRoomNotJoined)
			return
		}
		empty, err := room.Leave(sess)
		if err != nil {
			srv.fail(s, "leave_room", payload.RoomName, err)
			return
		}
		s.Leave(room.Name)
		log.Info().Str("sid", s.ID()).Str("room", room.Name).Msg("leave_room")
		s.Emit("leave_room_success", map[string]any{"roomName": room.Name})
		if empty {
			srv.registry.Remove(room.Name)
			srv.broadcastRoomsList()
		}
	})

	io.OnEvent("/", "start_game", func(s socketio.Conn, payload struct {
		RoomName string `json:"roomName"`
	}) {
		sess := srv.session(s)
		if sess.Username() == "" {
			srv.fail(s, "start_game", payload.RoomName, game.ErrUsernameNotSet)
			return
		}
		room, err := srv.registry.Find(payload.RoomName)
		if err != nil {
			srv.fail(s, "start_game", payload.RoomName, err)
			return
		}
		if sess.Room() != room {
			srv.fail(s, "start_game", payload.RoomName, game.ErrRoomNotJoined)
			return
		}
		if err := room.Start(); err != nil {
			srv.fail(s, "start_game", payload.RoomName, err)
			return
		}
		log.Info().Str("sid", s.ID()).Str("room", room.Name).Msg("start_game")
		s.Emit("start_game_success", map[string]any{"roomName": room.Name})
	})

	io.OnEvent("/", "submit_answer", func(s socketio.Conn, payload struct {
		Answer string `json:"answer"`
	}) {
		sess := srv.session(s)
		room := sess.Room()
		if room == nil {
			return
		}
		room.SubmitAnswer(sess, payload.Answer)
	})

	io.OnEvent("/", "report_puzzle", func(s socketio.Conn, payload struct{}) {
		sess := srv.session(s)
		room := sess.Room()
		if room == nil {
			return
		}
		room.ReportCurrentPuzzle(sess)
	})

	io.OnEvent("/", "chat", func(s socketio.Conn, payload struct {
		Message string `json:"message"`
	}) {
		sess := srv.session(s)
		room := sess.Room()
		if room == nil || sess.Username() == "" {
			return
		}
		room.Chat(sess, payload.Message)
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})

	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		sess := srv.removeSession(s.ID())
		if sess != nil {
			if room := sess.Room(); room != nil {
				if empty, err := room.Leave(sess); err == nil && empty {
					srv.registry.Remove(room.Name)
					srv.broadcastRoomsList()
				}
			}
		}
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go io.Serve()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}

// fail reports a validation error back to the initiating session as a named
// <command>_error event. These are expected conditions, never logged as
// exceptional.
func (srv *Server) fail(s socketio.Conn, command, roomName string, err error) {
	s.Emit(command+"_error", map[string]any{"roomName": roomName, "error": err.Error()})
}

func (srv *Server) session(s socketio.Conn) *game.Session {
	if sess, ok := s.Context().(*game.Session); ok && sess != nil {
		return sess
	}
	srv.mu.Lock()
	defer srv.mu.Unlock()
	sess := srv.sessions[s.ID()]
	if sess == nil {
		sess = game.NewSession(s.ID(), s)
		srv.sessions[s.ID()] = sess
	}
	return sess
}

func (srv *Server) addSession(sess *game.Session) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	srv.sessions[sess.ID] = sess
}

func (srv *Server) removeSession(id string) *game.Session {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	sess := srv.sessions[id]
	delete(srv.sessions, id)
	return sess
}

// broadcastRoomsList pushes the room directory to every connected session,
// in or out of a room.
func (srv *Server) broadcastRoomsList() {
	names := srv.registry.ListNames()
	srv.mu.Lock()
	defer srv.mu.Unlock()
	for _, sess := range srv.sessions {
		sess.Conn.Emit("rooms_list_update", map[string]any{"roomNames": names})
	}
}
