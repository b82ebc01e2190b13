package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"

	"github.com/gorilla/schema"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/xaslilac/bombas/internal/clock"
	"github.com/xaslilac/bombas/internal/grid"
	"github.com/xaslilac/bombas/internal/middleware"
	"github.com/xaslilac/bombas/internal/session"
	"github.com/xaslilac/bombas/internal/token"
)

// Game serves the HTTP and WebSocket surface over grid sessions.
type Game struct {
	log      *logrus.Logger
	store    *session.Store
	tokens   *token.Issuer
	newRand  func() *rand.Rand
	clk      clock.Clock
	dec      *schema.Decoder
	upgrader websocket.Upgrader
}

// NewGame takes a rand factory rather than a rand: requests are served
// concurrently and *rand.Rand is not safe for concurrent use, so every
// grid gets a rand of its own.
func NewGame(
	log *logrus.Logger,
	store *session.Store,
	tokens *token.Issuer,
	newRand func() *rand.Rand,
	clk clock.Clock,
) *Game {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return &Game{
		log:     log,
		store:   store,
		tokens:  tokens,
		newRand: newRand,
		clk:     clk,
		dec:     dec,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Game) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/status", h.Status)

	mux.HandleFunc("POST /v1/game", h.Create)
	mux.HandleFunc("GET /v1/game/{id}", h.Fetch)
	mux.HandleFunc("POST /v1/game/{id}/open", h.Open)
	mux.HandleFunc("POST /v1/game/{id}/mark", h.Mark)
	mux.HandleFunc("POST /v1/game/{id}/restart", h.Restart)
	mux.HandleFunc("POST /v1/game/{id}/batch", h.Batch)

	mux.HandleFunc("/v1/game/{id}/connect", h.ConnectWS)
}

type newGameParams struct {
	Width     int `schema:"width"`
	Height    int `schema:"height"`
	MineCount int `schema:"mine_count"`
}

func (p newGameParams) empty() bool {
	return p == newGameParams{}
}

// validate applies the UI-facing bounds; the engine enforces its own
// stricter invariants on top.
func (p newGameParams) validate() error {
	if p.Width < 3 || p.Height < 3 {
		return errors.New("width and height must be at least 3")
	}
	if p.MineCount < 1 {
		return errors.New("mine_count must be at least 1")
	}
	return nil
}

type posParams struct {
	X int `schema:"x,required"`
	Y int `schema:"y,required"`
}

func sendError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// boardParams decodes optional board parameters from the query; absent
// parameters mean "use np".
func (h *Game) boardParams(r *http.Request, np grid.Params) (grid.Params, error) {
	var p newGameParams
	if err := h.dec.Decode(&p, r.URL.Query()); err != nil {
		return grid.Params{}, err
	}
	if p.empty() {
		return np, nil
	}
	if err := p.validate(); err != nil {
		return grid.Params{}, err
	}
	return grid.Params{Width: p.Width, Height: p.Height, MineCount: p.MineCount}, nil
}

func (h *Game) session(w http.ResponseWriter, r *http.Request) *session.Session {
	sess, err := h.store.Get(r.PathValue("id"))
	if errors.Is(err, session.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return nil
	}
	return sess
}

// ownedSession additionally requires a Bearer token whose subject is the
// session id.
func (h *Game) ownedSession(w http.ResponseWriter, r *http.Request) *session.Session {
	claims, ok := middleware.Claims(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return nil
	}
	if claims.Subject != r.PathValue("id") {
		w.WriteHeader(http.StatusForbidden)
		return nil
	}
	return h.session(w, r)
}

func (h *Game) Status(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, map[string]string{"status": "ok"})
}

type createResponse struct {
	Token   string           `json:"token"`
	Session *session.Session `json:"session"`
}

func (h *Game) Create(w http.ResponseWriter, r *http.Request) {
	params, err := h.boardParams(r, grid.DefaultParams())
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	g, err := grid.New(params, h.newRand(), h.clk)
	var ce grid.ConfigurationError
	if errors.As(err, &ce) {
		sendError(w, http.StatusBadRequest, ce.Error())
		return
	} else if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.Error(err)
		return
	}

	sess := session.New(session.NewId(), g)
	h.store.Add(sess)

	tok, err := h.tokens.Issue(sess.Id())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.Error(err)
		return
	}

	h.log.WithFields(logrus.Fields{
		"session_id": sess.Id(),
		"width":      params.Width,
		"height":     params.Height,
		"mine_count": params.MineCount,
	}).Info("created game session")

	if _, err := sendJSON(w, createResponse{Token: tok, Session: sess}); err != nil {
		h.log.Error(err)
	}
}

func (h *Game) Fetch(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	if _, err := sendJSON(w, sess); err != nil {
		h.log.Error(err)
	}
}

func (h *Game) Open(w http.ResponseWriter, r *http.Request) {
	sess := h.ownedSession(w, r)
	if sess == nil {
		return
	}
	var pos posParams
	if err := h.dec.Decode(&pos, r.URL.Query()); err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := sess.Open(grid.Point{X: pos.X, Y: pos.Y}); err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := sendJSON(w, sess); err != nil {
		h.log.Error(err)
	}
}

func (h *Game) Mark(w http.ResponseWriter, r *http.Request) {
	sess := h.ownedSession(w, r)
	if sess == nil {
		return
	}
	var pos posParams
	if err := h.dec.Decode(&pos, r.URL.Query()); err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := sess.Mark(grid.Point{X: pos.X, Y: pos.Y}); err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := sendJSON(w, sess); err != nil {
		h.log.Error(err)
	}
}

func (h *Game) Restart(w http.ResponseWriter, r *http.Request) {
	sess := h.ownedSession(w, r)
	if sess == nil {
		return
	}
	var p newGameParams
	if err := h.dec.Decode(&p, r.URL.Query()); err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	var params *grid.Params
	if !p.empty() {
		if err := p.validate(); err != nil {
			sendError(w, http.StatusBadRequest, err.Error())
			return
		}
		params = &grid.Params{Width: p.Width, Height: p.Height, MineCount: p.MineCount}
	}
	if err := sess.Restart(params); err != nil {
		var ce grid.ConfigurationError
		if errors.As(err, &ce) {
			sendError(w, http.StatusBadRequest, ce.Error())
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		h.log.Error(err)
		return
	}
	if _, err := sendJSON(w, sess); err != nil {
		h.log.Error(err)
	}
}

// Batch accepts newline-separated commands in the request body and applies
// them in order, stopping once the game ends. A malformed command fails
// the whole request with its line number.
func (h *Game) Batch(w http.ResponseWriter, r *http.Request) {
	sess := h.ownedSession(w, r)
	if sess == nil {
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.Error(err)
		return
	}
	lines := strings.TrimSpace(string(body))
	for i, c := range byPiece(lines, "\n") {
		if strings.TrimSpace(c) == "" {
			continue
		}
		if err := executeCommand(sess, c); err != nil {
			payload := struct {
				Loc     int    `json:"loc"`
				Message string `json:"message"`
			}{i, err.Error()}
			w.WriteHeader(http.StatusBadRequest)
			if _, err := sendJSON(w, payload); err != nil {
				h.log.Error(err)
			}
			return
		}
		if sess.Over() {
			break
		}
	}
	if _, err := sendJSON(w, sess); err != nil {
		h.log.Error(err)
	}
}
