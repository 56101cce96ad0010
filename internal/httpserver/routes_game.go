// internal/httpserver/routes_game.go
//
// Game endpoints. A caller is identified by their user id when authenticated
// or by a stable anonymous cookie otherwise; the arena maps that id to a
// seat color. Rule rejections from the engine surface as 400s with a stable
// error kind string, so clients can show "not your turn" etc. verbatim.

package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/stonegarden/goban/internal/arena"
	"github.com/stonegarden/goban/internal/game"
	"github.com/stonegarden/goban/internal/sgf"
)

func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", s.handleState)
		r.Post("/join", s.handleJoin)
		r.Post("/move", s.handleMove)
		r.Post("/pass", s.handlePass)
		r.Post("/resign", s.handleResign)
		r.Get("/events", s.handleEvents)
		r.Get("/sgf", s.handleSGF)
	})
}

// playerID resolves the caller to a stable identifier: the authenticated
// user id, or the anonymous cookie id for guests.
func (s *Server) playerID(w http.ResponseWriter, r *http.Request) string {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return me.ID
	}
	return s.ensureAnonID(w, r)
}

// ------------------------------ create -------------------------------------

// newGameReq carries the rule set for POST /game/new. BoardSize defaults per
// kind (gomoku 15, go 19).
type newGameReq struct {
	Kind           game.Kind    `json:"kind"`
	BoardSize      int          `json:"boardSize"`
	AllowOverlines bool         `json:"allowOverlines"`
	Komi           float64      `json:"komi"`
	Handicap       int          `json:"handicap"`
	Scoring        game.Scoring `json:"scoring"`
}

type newGameRes struct {
	GameID string       `json:"gameId"`
	Seat   string       `json:"seat"`
	Rules  game.RuleSet `json:"rules"`
}

// handleNewGame creates a session, seats the creator as black, and persists
// a DB row for history/stats.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Kind == "" {
		req.Kind = game.KindGomoku
	}
	if req.BoardSize == 0 {
		if req.Kind == game.KindGo {
			req.BoardSize = 19
		} else {
			req.BoardSize = 15
		}
	}
	rules := game.RuleSet{
		Kind:           req.Kind,
		BoardSize:      req.BoardSize,
		AllowOverlines: req.AllowOverlines,
		Komi:           req.Komi,
		Handicap:       req.Handicap,
		Scoring:        req.Scoring,
	}

	sess, err := s.svc.Create(r.Context(), rules)
	if err != nil {
		writeGameErr(w, err)
		return
	}
	pid := s.playerID(w, r)
	seat, sess, err := s.svc.Join(r.Context(), sess.ID, pid)
	if err != nil {
		writeGameErr(w, err)
		return
	}

	s.insertGameRow(r, sess, pid)

	_ = json.NewEncoder(w).Encode(newGameRes{GameID: sess.ID, Seat: colorString(seat), Rules: sess.Rules})
}

// insertGameRow persists the owner row; non-fatal on failure.
func (s *Server) insertGameRow(r *http.Request, sess *arena.Session, pid string) {
	now := time.Now().UTC().Format(time.RFC3339)
	ownerCol := "anonymous_id"
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		ownerCol = "user_id"
	}
	_, err := s.db.Exec(`INSERT INTO games (id, `+ownerCol+`, kind, board_size, status, moves, created_at)
	                     VALUES (?,?,?,?,?,0,?)`,
		sess.ID, pid, string(sess.Rules.Kind), sess.Rules.BoardSize, string(sess.Game.Status), now)
	if err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("insert game row")
	}
}

// ------------------------------ join / state -------------------------------

type joinRes struct {
	Seat  string          `json:"seat"`
	State json.RawMessage `json:"state"`
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	seat, sess, err := s.svc.Join(r.Context(), id, s.playerID(w, r))
	if err != nil {
		writeGameErr(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(joinRes{Seat: colorString(seat), State: renderState(sess)})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess, err := s.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeGameErr(w, err)
		return
	}
	_, _ = w.Write(renderState(sess))
}

// ------------------------------ move / pass / resign -----------------------

type moveReq struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type moveRes struct {
	Placed      *game.Coord       `json:"placed,omitempty"`
	Pass        bool              `json:"pass,omitempty"`
	Captured    []game.Coord      `json:"captured"`
	WinningMove bool              `json:"winningMove"`
	Status      game.Status       `json:"status"`
	Winner      string            `json:"winner,omitempty"`
	NextPlayer  string            `json:"nextPlayer,omitempty"`
	Score       *game.ScoreResult `json:"score,omitempty"`
}

func toMoveRes(res *game.MoveResult) moveRes {
	out := moveRes{
		Placed:      res.Placed,
		Pass:        res.Pass,
		Captured:    res.Captured,
		WinningMove: res.WinningMove,
		Status:      res.Status,
		Winner:      colorString(res.Winner),
		Score:       res.Score,
	}
	if res.Status != game.StatusFinished {
		out.NextPlayer = colorString(res.NextPlayer)
	}
	if out.Captured == nil {
		out.Captured = []game.Coord{}
	}
	return out
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")
	pid := s.playerID(w, r)
	res, sess, err := s.svc.Move(r.Context(), id, pid, req.Row, req.Col)
	if err != nil {
		writeGameErr(w, err)
		return
	}
	s.persistProgress(r, sess, pid, res)
	_ = json.NewEncoder(w).Encode(toMoveRes(res))
}

func (s *Server) handlePass(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pid := s.playerID(w, r)
	res, sess, err := s.svc.Pass(r.Context(), id, pid)
	if err != nil {
		writeGameErr(w, err)
		return
	}
	s.persistProgress(r, sess, pid, res)
	_ = json.NewEncoder(w).Encode(toMoveRes(res))
}

func (s *Server) handleResign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pid := s.playerID(w, r)
	res, sess, err := s.svc.Resign(r.Context(), id, pid)
	if err != nil {
		writeGameErr(w, err)
		return
	}
	s.persistProgress(r, sess, pid, res)
	_ = json.NewEncoder(w).Encode(toMoveRes(res))
}

// persistProgress updates the game row and, when the game finishes with an
// authenticated caller seated, bumps their stats. Best effort, non-fatal.
func (s *Server) persistProgress(r *http.Request, sess *arena.Session, pid string, res *game.MoveResult) {
	tx, err := s.db.Begin()
	if err != nil {
		log.Warn().Err(err).Msg("begin tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE games SET moves=?, status=? WHERE id=?`,
		len(sess.Moves), string(res.Status), sess.ID); err != nil {
		log.Warn().Err(err).Msg("update game row")
	}
	if res.Status == game.StatusFinished {
		if _, err := tx.Exec(`UPDATE games SET winner=?, result=?, finished_at=? WHERE id=?`,
			colorString(res.Winner), sess.Result, time.Now().UTC().Format(time.RFC3339), sess.ID); err != nil {
			log.Warn().Err(err).Msg("finish game row")
		}
		if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
			seat := sess.Seat(pid)
			if seat != game.Empty {
				if err := s.bumpStats(tx, me.ID, res.Winner == seat); err != nil {
					log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
				}
			}
		}
	}
	_ = tx.Commit()
}

// ------------------------------ events (SSE) -------------------------------

var heartbeatInterval = 15 * time.Second

// handleEvents streams state snapshots over Server-Sent Events. Non-SSE
// clients get their headers and an immediate return, which keeps the route
// testable with httptest.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, unsub := s.svc.Subscribe(ctx, id)
	defer unsub()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case b, ok := <-ch:
			if !ok {
				return
			}
			_, _ = fmt.Fprintf(w, "event: state\n")
			_, _ = fmt.Fprintf(w, "data: %s\n\n", b)
			flusher.Flush()
		}
	}
}

// ------------------------------ SGF export ---------------------------------

func (s *Server) handleSGF(w http.ResponseWriter, r *http.Request) {
	sess, err := s.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeGameErr(w, err)
		return
	}
	rec := sgf.Record{
		Kind:        sess.Rules.Kind,
		BoardSize:   sess.Rules.BoardSize,
		Komi:        sess.Rules.Komi,
		Handicap:    sess.Rules.Handicap,
		PlayerBlack: sess.Black,
		PlayerWhite: sess.White,
		Date:        sess.Created.UTC().Format("2006-01-02"),
		Result:      sess.Result,
	}
	if sess.Rules.Kind == game.KindGo && sess.Rules.Handicap >= 2 {
		rec.Setup = game.HandicapPoints(sess.Rules.BoardSize, sess.Rules.Handicap)
	}
	for _, m := range sess.Moves {
		rec.Moves = append(rec.Moves, sgf.Move{Color: m.Color, Row: m.Row, Col: m.Col, Pass: m.Pass})
	}
	w.Header().Set("Content-Type", "application/x-go-sgf")
	_, _ = io.WriteString(w, sgf.Encode(rec))
}

// ------------------------------ rendering ----------------------------------

// statePayload is what GET /game/{id} returns and what SSE broadcasts.
type statePayload struct {
	ID            string            `json:"id"`
	Rules         game.RuleSet      `json:"rules"`
	Status        game.Status       `json:"status"`
	Board         []string          `json:"board"`
	CurrentPlayer string            `json:"currentPlayer,omitempty"`
	MoveNumber    int               `json:"moveNumber"`
	Captured      map[string]int    `json:"captured,omitempty"`
	Winner        string            `json:"winner,omitempty"`
	Result        string            `json:"result,omitempty"`
	Seats         map[string]bool   `json:"seats"`
	KoPoint       *game.Coord       `json:"koPoint,omitempty"`
}

// renderState serializes a session snapshot; also installed as the arena's
// broadcast renderer.
func renderState(sess *arena.Session) []byte {
	g := sess.Game
	p := statePayload{
		ID:         sess.ID,
		Rules:      sess.Rules,
		Status:     g.Status,
		Board:      boardRows(g.Board),
		MoveNumber: g.MoveNumber,
		Winner:     colorString(g.Winner),
		Result:     sess.Result,
		Seats:      map[string]bool{"black": sess.Black != "", "white": sess.White != ""},
		KoPoint:    g.KoPoint,
	}
	if g.Status == game.StatusActive {
		p.CurrentPlayer = colorString(g.Current)
	}
	if sess.Rules.Kind == game.KindGo {
		p.Captured = map[string]int{
			"black": g.Captured[game.Black],
			"white": g.Captured[game.White],
		}
	}
	b, _ := json.Marshal(p)
	return b
}

// boardRows flattens the board to one string per row ('.', 'B', 'W').
func boardRows(b *game.Board) []string {
	rows := make([]string, b.Size())
	buf := make([]byte, b.Size())
	for r := 0; r < b.Size(); r++ {
		for c := 0; c < b.Size(); c++ {
			st, _ := b.At(r, c)
			switch st {
			case game.Black:
				buf[c] = 'B'
			case game.White:
				buf[c] = 'W'
			default:
				buf[c] = '.'
			}
		}
		rows[r] = string(buf)
	}
	return rows
}

func colorString(s game.Stone) string {
	if s == game.Empty {
		return ""
	}
	return s.String()
}

// ------------------------------ errors -------------------------------------

// writeGameErr maps arena/engine errors to HTTP responses with stable kinds.
func writeGameErr(w http.ResponseWriter, err error) {
	kind, code := "internal", http.StatusInternalServerError
	switch {
	case errors.Is(err, arena.ErrNotFound):
		kind, code = "not_found", http.StatusNotFound
	case errors.Is(err, arena.ErrNotAPlayer):
		kind, code = "not_a_player", http.StatusForbidden
	case errors.Is(err, game.ErrOutOfBounds):
		kind, code = "out_of_bounds", http.StatusBadRequest
	case errors.Is(err, game.ErrCellOccupied):
		kind, code = "cell_occupied", http.StatusBadRequest
	case errors.Is(err, game.ErrNotYourTurn):
		kind, code = "not_your_turn", http.StatusBadRequest
	case errors.Is(err, game.ErrGameNotActive):
		kind, code = "game_not_active", http.StatusBadRequest
	case errors.Is(err, game.ErrIllegalSuicide):
		kind, code = "illegal_suicide", http.StatusBadRequest
	case errors.Is(err, game.ErrKoViolation):
		kind, code = "ko_violation", http.StatusBadRequest
	case errors.Is(err, game.ErrGameAlreadyFinished):
		kind, code = "game_already_finished", http.StatusBadRequest
	case errors.Is(err, game.ErrForbiddenMove):
		kind, code = "forbidden_move", http.StatusBadRequest
	case errors.Is(err, game.ErrPassNotAllowed):
		kind, code = "pass_not_allowed", http.StatusBadRequest
	case errors.Is(err, game.ErrInvalidRuleSet):
		kind, code = "invalid_rule_set", http.StatusBadRequest
	}
	http.Error(w, `{"error":"`+kind+`"}`, code)
}
