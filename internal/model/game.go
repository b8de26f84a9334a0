package model

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chess3d-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

// The connections for a specific game
type GameConnections struct {
	connections map[string]*websocket.Conn // playerID -> connection
	mu          sync.RWMutex
	writeMu     sync.Mutex // one writer per connection at a time
	lastSent    uint64     // Seq of the newest state written, guarded by writeMu
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

// GameOptions configures a hosted game.
type GameOptions struct {
	ClockTime time.Duration // zero means untimed
	OnFinish  func(GameRecord)
}

// Game hosts one match on the authoritative side: seats, clocks, history,
// observers and the optional bot seat around a rules Controller. All calls
// into the controller happen under mu.
type Game struct {
	ID          string
	mu          sync.Mutex
	state       *GameState
	ctrl        *Controller
	connections *GameConnections // Connections just for this game
	players     Players
	history     []Move
	plies       []*Ply
	captured    CapturedPieces
	sound       string
	lastMove    *SimpleMove
	promotion   *Position
	drawOffer   *Color
	before      *GameState // position before a move that is waiting on promotion
	clocks      map[Color]*Clock
	bots        map[Color]BotSeat
	onFinish    func(GameRecord)
	finished    bool
	startedAt   time.Time
	seq         uint64
	ctx         context.Context
	cancel      context.CancelFunc
	log         *logrus.Entry
}

type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

// Snapshot is the client-facing view of a game.
type Snapshot struct {
	ID              string                `json:"id"`
	Seq             uint64                `json:"seq"` // increases with every snapshot taken
	Sound           string                `json:"sound"`
	Board           Board                 `json:"board"`
	Pieces          []Piece               `json:"pieces"`
	ToMove          Color                 `json:"toMove"`
	Phase           Phase                 `json:"phase"`
	FEN             string                `json:"fen"`
	MoveHistory     []Move                `json:"moveHistory"`
	CapturedPieces  CapturedPieces        `json:"capturedPieces"`
	IsCheck         bool                  `json:"isCheck"`
	LegalMoves      map[string][]Position `json:"legalMoves"`
	EnPassantTarget *Position             `json:"enPassantTarget"`
	Castling        CastlingRights        `json:"castling"`
	Players         Players               `json:"players"`
	PromotionSquare *Position             `json:"promotionSquare"`
	LastMove        *SimpleMove           `json:"lastMove"`
	DrawOfferedBy   *Color                `json:"drawOfferedBy"`
}

func NewGame(id string, opts GameOptions) *Game {
	ctx, cancel := context.WithCancel(context.Background())
	g := &Game{
		ID:          id,
		state:       NewGameState(),
		connections: NewGameConnections(),
		captured:    CapturedPieces{White: make([]Piece, 0), Black: make([]Piece, 0)},
		history:     make([]Move, 0),
		bots:        make(map[Color]BotSeat),
		onFinish:    opts.OnFinish,
		ctx:         ctx,
		cancel:      cancel,
		log:         logrus.WithField("game", id),
	}
	g.players.White.Color = White
	g.players.Black.Color = Black
	if opts.ClockTime > 0 {
		g.clocks = map[Color]*Clock{White: NewClock(opts.ClockTime), Black: NewClock(opts.ClockTime)}
	}
	g.ctrl = NewController(g.state)
	g.state.SetLogger(g.log.WithField("component", "rules"))
	g.state.SetListener(g)
	return g
}

func (g *Game) AddPlayer(playerID string) (Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.log.WithField("player", playerID).Debug("adding player")

	if id, err := g.colorOf(playerID); err == nil {
		return id, nil
	}
	for _, color := range []Color{White, Black} {
		seat := g.players.seat(color)
		if seat.ID == "" {
			seat.ID = playerID
			g.seatFilled()
			return color, nil
		}
	}
	return White, ErrGameFull
}

// SetBot gives an empty seat to the move-suggestion collaborator.
func (g *Game) SetBot(color Color, bot BotSeat) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	seat := g.players.seat(color)
	if seat.ID != "" {
		return fmt.Errorf("%s seat: %w", color, ErrGameFull)
	}
	seat.ID = BotPlayerID
	seat.Bot = true
	g.bots[color] = bot
	g.seatFilled()
	return nil
}

func (g *Game) seatFilled() {
	if g.players.White.ID == "" || g.players.Black.ID == "" || g.state.Phase != WaitingToStart {
		return
	}
	g.startedAt = time.Now()
	g.state.Start()
	g.log.Info("game started")
	g.startClock(g.state.TurnColor)
	g.checkFinished()
	go g.broadcast(g.snapshot())
	g.requestBotMove()
}

// Close abandons outstanding bot requests and stops the clocks. The game
// keeps its state.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, clock := range g.clocks {
		clock.Stop()
	}
	g.cancel()
}

func (g *Game) GetState() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshot()
}

func (g *Game) FEN() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state.FEN()
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.isPlayerInGame(playerID)
}

func (g *Game) isPlayerInGame(playerID string) bool {
	_, err := g.colorOf(playerID)
	return err == nil
}

func (g *Game) colorOf(playerID string) (Color, error) {
	if playerID == "" || playerID == BotPlayerID {
		return White, ErrNotPlayer
	}
	if g.players.White.ID == playerID {
		return White, nil
	}
	if g.players.Black.ID == playerID {
		return Black, nil
	}
	return White, ErrNotPlayer
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return g.state.Phase != WaitingToStart
}

// MakeMove plays a move for playerID. A move onto the last rank without a
// promotion piece leaves the game waiting for Promote.
func (g *Game) MakeMove(playerID string, move MoveRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	log := g.log.WithFields(logrus.Fields{"player": playerID, "from": move.From, "to": move.To})

	color, err := g.colorOf(playerID)
	if err != nil {
		return err
	}
	if err := g.checkTurn(color); err != nil {
		return err
	}
	from, to, promotion, err := move.parse()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	piece := g.state.PieceAt(from)
	if piece == nil {
		return ErrNoPiece
	}

	before := g.state.Clone()
	if !g.ctrl.AttemptMove(piece, to, g) {
		log.Debug("move rejected")
		return ErrIllegalMove
	}
	if g.state.Phase == AwaitingPromotion {
		if promotion == nil {
			g.before = before
			go g.broadcast(g.snapshot())
			return nil
		}
		g.ctrl.CompletePawnPromotion(*promotion)
	}
	g.afterPly(before)
	return nil
}

// Promote answers a pending promotion for the player whose pawn is waiting.
func (g *Game) Promote(playerID string, t PieceType) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	color, err := g.colorOf(playerID)
	if err != nil {
		return err
	}
	if g.state.Phase != AwaitingPromotion {
		return ErrNoPromotion
	}
	if color != g.state.TurnColor {
		return ErrNotYourTurn
	}
	if !g.ctrl.CompletePawnPromotion(t) {
		return fmt.Errorf("%w: cannot promote to %s", ErrIllegalMove, t)
	}
	before := g.before
	if before == nil {
		before = g.state.Clone()
	}
	g.afterPly(before)
	return nil
}

func (g *Game) Resign(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	color, err := g.colorOf(playerID)
	if err != nil {
		return err
	}
	if !g.ctrl.Forfeit(color) {
		return ErrGameOver
	}
	g.log.WithField("color", color).Info("resigned")
	g.checkFinished()
	go g.broadcast(g.snapshot())
	return nil
}

// OfferDraw records a draw offer; an offer from the other side ends the
// game as a draw.
func (g *Game) OfferDraw(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	color, err := g.colorOf(playerID)
	if err != nil {
		return err
	}
	if g.state.Phase == WaitingToStart || g.state.Phase.IsOver() {
		return ErrGameOver
	}
	if g.drawOffer != nil && *g.drawOffer != color {
		g.ctrl.DeclareDraw()
		g.log.Info("draw agreed")
		g.checkFinished()
	} else {
		g.drawOffer = &color
	}
	go g.broadcast(g.snapshot())
	return nil
}

func (g *Game) checkTurn(color Color) error {
	switch {
	case g.state.Phase == AwaitingPromotion:
		return ErrPromotionPending
	case g.state.Phase == WaitingToStart || g.state.Phase.IsOver():
		return ErrGameOver
	case color != g.state.TurnColor:
		return ErrNotYourTurn
	}
	return nil
}

// afterPly books the ply the controller just completed and hands the turn on.
func (g *Game) afterPly(before *GameState) {
	ply := g.ctrl.LastPly()
	ply.Notation = getNotation(before, ply, g.state)
	g.before = nil
	g.promotion = nil
	g.drawOffer = nil

	g.plies = append(g.plies, ply)
	if ply.Color == White || len(g.history) == 0 || g.history[len(g.history)-1].BlackPly != nil {
		g.history = append(g.history, Move{})
	}
	last := &g.history[len(g.history)-1]
	if ply.Color == White {
		last.WhitePly = ply
	} else {
		last.BlackPly = ply
	}
	g.lastMove = &SimpleMove{From: ply.From, To: ply.To}

	switch {
	case g.state.Phase == Check || g.state.Phase == WhiteWins || g.state.Phase == BlackWins:
		g.sound = "check"
	case ply.CapturedPiece != nil:
		g.sound = "capture"
	case ply.CastleRookMove != nil:
		g.sound = "castle"
	default:
		g.sound = "move"
	}

	g.switchClocks(ply.Color)
	if !g.state.Phase.IsOver() && g.state.HalfmoveClock >= 100 {
		g.log.Info("fifty-move rule")
		g.ctrl.DeclareDraw()
	}
	g.checkFinished()
	go g.broadcast(g.snapshot())
	g.requestBotMove()
}

func (g *Game) startClock(c Color) {
	if clock, ok := g.clocks[c]; ok {
		clock.Start()
	}
}

func (g *Game) switchClocks(mover Color) {
	if g.clocks == nil {
		return
	}
	g.clocks[mover].Stop()
	if g.clocks[mover].Expired() && !g.state.Phase.IsOver() {
		g.log.WithField("color", mover).Info("flag fell")
		g.ctrl.Forfeit(mover)
		return
	}
	if !g.state.Phase.IsOver() {
		g.clocks[mover.Opponent()].Start()
	}
}

func (g *Game) checkFinished() {
	if g.finished || !g.state.Phase.IsOver() {
		return
	}
	g.finished = true
	g.log.WithFields(logrus.Fields{"result": g.state.Phase, "fen": g.state.FEN()}).Info("game finished")
	for _, clock := range g.clocks {
		clock.Stop()
	}
	g.cancel()
	if g.onFinish != nil {
		go g.onFinish(g.record())
	}
}

func (g *Game) record() GameRecord {
	rec := GameRecord{
		ID:        g.ID,
		White:     g.players.White.ID,
		Black:     g.players.Black.ID,
		Result:    g.state.Phase,
		FinalFEN:  g.state.FEN(),
		StartedAt: g.startedAt,
		EndedAt:   time.Now(),
	}
	for _, ply := range g.plies {
		rec.Moves = append(rec.Moves, ply.UCI())
		rec.Notation = append(rec.Notation, ply.Notation)
	}
	return rec
}

// requestBotMove fires a suggestion request when a bot seat is to move. The
// reply re-enters through ApplySuggestion and is validated there.
func (g *Game) requestBotMove() {
	bot, ok := g.bots[g.state.TurnColor]
	if !ok || !g.state.Phase.isPlayable() {
		return
	}
	color := g.state.TurnColor
	req := SuggestionRequest{FEN: g.state.FEN(), Depth: bot.Depth, Variants: bot.Variants}
	log := g.log.WithFields(logrus.Fields{"color": color, "fen": req.FEN})
	log.Debug("requesting bot move")

	go func() {
		move, err := bot.Suggester.Suggest(g.ctx, req)
		if err != nil {
			log.WithError(err).Warn("bot move request failed")
			return
		}
		g.ApplySuggestion(Suggestion{Color: color, FEN: req.FEN, Move: move})
	}()
}

// ApplySuggestion applies a bot reply if it is still current.
func (g *Game) ApplySuggestion(s Suggestion) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.bots[s.Color]; !ok {
		g.log.WithField("color", s.Color).Warn("suggestion for a seat without a bot")
		return false
	}
	before := g.state.Clone()
	if !g.ctrl.ApplySuggestion(s) {
		return false
	}
	g.afterPly(before)
	return true
}

// PieceCaptured implements Listener.
func (g *Game) PieceCaptured(p *Piece) {
	if p.Color == White {
		g.captured.Black = append(g.captured.Black, *p)
	} else {
		g.captured.White = append(g.captured.White, *p)
	}
}

// PiecePromoted implements Listener.
func (g *Game) PiecePromoted(pawn, replacement *Piece) {
	g.log.WithFields(logrus.Fields{"square": replacement.Position.String(), "type": replacement.Type}).Debug("pawn promoted")
}

// PhaseChanged implements Listener.
func (g *Game) PhaseChanged(from, to Phase) {
	g.log.WithFields(logrus.Fields{"from": from, "to": to}).Debug("phase changed")
}

// RequestPromotion implements PromotionRequester.
func (g *Game) RequestPromotion(pawn *Piece) {
	square := pawn.Position
	g.promotion = &square
	g.sound = "promote"
}

func (g *Game) snapshot() Snapshot {
	g.seq++
	s := Snapshot{
		ID:              g.ID,
		Seq:             g.seq,
		Sound:           g.sound,
		Board:           g.state.Board,
		Pieces:          make([]Piece, 0, len(g.state.pieces)),
		ToMove:          g.state.TurnColor,
		Phase:           g.state.Phase,
		FEN:             g.state.FEN(),
		MoveHistory:     append([]Move(nil), g.history...),
		CapturedPieces:  g.captured,
		IsCheck:         g.state.Phase == Check,
		LegalMoves:      make(map[string][]Position),
		Castling:        g.state.Castling,
		Players:         g.players,
		PromotionSquare: g.promotion,
		LastMove:        g.lastMove,
		DrawOfferedBy:   g.drawOffer,
	}
	if g.state.EnPassantTarget != nil {
		target := *g.state.EnPassantTarget
		s.EnPassantTarget = &target
	}
	for _, p := range g.state.pieces {
		s.Pieces = append(s.Pieces, *p)
	}
	if g.state.Phase.isPlayable() {
		for _, p := range g.state.PiecesOf(g.state.TurnColor) {
			if moves := g.state.LegalMoves(p); len(moves) > 0 {
				s.LegalMoves[p.Position.String()] = moves
			}
		}
	}
	for color, clock := range g.clocks {
		s.Players.seat(color).TimeLeft = int(clock.GetTimeLeft().Milliseconds() / 100)
	}
	return s
}

func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	connID := fmt.Sprintf("%p", conn)
	log := g.log.WithFields(logrus.Fields{"player": playerID, "conn": connID})

	g.mu.Lock()
	isAuthorized := g.isPlayerInGame(playerID) || g.canSpectate()
	g.mu.Unlock()

	if !isAuthorized {
		return fmt.Errorf("not authorized to join this game")
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// If we already have a healthy connection, keep it and reject the new one
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return nil // Not really an error, just rejecting duplicate connection
	}

	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Debug("registered connection")

	// taken after the connection is in the map, so no newer state can skip it
	g.mu.Lock()
	snapshot := g.snapshot()
	g.mu.Unlock()
	go g.broadcast(snapshot)
	return nil
}

// UnregisterConnection forgets conn. A rejected duplicate connection of the
// same player leaves the registered one in place.
func (g *Game) UnregisterConnection(playerID string, conn *websocket.Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	g.connections.remove(playerID, conn)
	g.log.WithField("player", playerID).Debug("unregistered connection")
}

// remove deletes the entry for playerID if it still holds conn. Callers hold mu.
func (gc *GameConnections) remove(playerID string, conn *websocket.Conn) {
	if gc.connections[playerID] == conn {
		delete(gc.connections, playerID)
	}
}

// Send writes one message to a connection of this game, serialized with
// broadcasts.
func (g *Game) Send(conn *websocket.Conn, msg ws.Message) error {
	g.connections.writeMu.Lock()
	defer g.connections.writeMu.Unlock()
	return conn.WriteJSON(msg)
}

// broadcast sends snapshot to every connection unless a newer state has
// already gone out. It reports whether the snapshot was sent.
func (g *Game) broadcast(snapshot Snapshot) bool {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		g.log.WithError(err).Error("failed to marshal state")
		return false
	}

	g.connections.writeMu.Lock()
	defer g.connections.writeMu.Unlock()
	if snapshot.Seq <= g.connections.lastSent {
		g.log.WithField("seq", snapshot.Seq).Trace("skipping outdated state")
		return false
	}
	g.connections.lastSent = snapshot.Seq

	g.connections.mu.RLock()
	activeConnections := make(map[string]*websocket.Conn, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		activeConnections[playerID] = conn
	}
	g.connections.mu.RUnlock()

	for playerID, conn := range activeConnections {
		if err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		}); err != nil {
			g.log.WithError(err).WithField("player", playerID).Warn("failed to send state")
			g.connections.mu.Lock()
			g.connections.remove(playerID, conn)
			g.connections.mu.Unlock()
		}
	}
	return true
}
