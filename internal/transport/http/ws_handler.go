package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"category-quiz-service/internal/app"
	"category-quiz-service/internal/domain"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSHandler drives one quiz session per websocket connection. The connection
// goroutine owns both the session and the socket, so no locking is needed.
type WSHandler struct {
	service  *app.QuizService
	metrics  *Metrics
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, metrics *Metrics, log *zap.Logger) *WSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		metrics: metrics,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Answer string `json:"answer"`
}

type startPayload struct {
	Category string `json:"category"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// questionView is a question without its correct answer.
type questionView struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type stateView struct {
	SessionID string        `json:"sessionId"`
	Category  string        `json:"category"`
	Index     int           `json:"index"`
	Total     int           `json:"total"`
	Progress  float64       `json:"progress"`
	IsLast    bool          `json:"isLast"`
	Finished  bool          `json:"finished"`
	Question  *questionView `json:"question"`
	Answer    string        `json:"answer,omitempty"`
}

// ServeWS upgrades the request and runs the quiz loop. Clients connect with
// ?category=<category> to start, or ?session=<id> to resume.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	rawCategory := r.URL.Query().Get("category")
	if sessionID == "" && rawCategory == "" {
		http.Error(w, "missing category or session", http.StatusBadRequest)
		return
	}
	var category domain.Category
	if sessionID == "" {
		parsed, err := domain.ParseCategory(rawCategory)
		if err != nil {
			http.Error(w, "unknown category", http.StatusBadRequest)
			return
		}
		category = parsed
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	session, err := h.open(ctx, sessionID, category)
	if err != nil {
		h.writeError(conn, err)
		return
	}
	h.metrics.sessionOpened()
	defer h.metrics.sessionClosed()

	if err := conn.WriteJSON(outboundMessage[stateView]{Type: "state", Payload: viewOf(session)}); err != nil {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		var out any
		session, out = h.handle(ctx, session, inbound)
		if err := conn.WriteJSON(out); err != nil {
			h.log.Debug("ws write error", zap.Error(err))
			break
		}
	}
}

func (h *WSHandler) open(ctx context.Context, sessionID string, category domain.Category) (*app.Session, error) {
	if sessionID != "" {
		return h.service.Resume(ctx, sessionID)
	}
	return h.service.Start(ctx, category)
}

// handle applies one inbound message and returns the session to keep using
// together with the reply.
func (h *WSHandler) handle(ctx context.Context, session *app.Session, inbound inboundMessage) (*app.Session, any) {
	switch inbound.Type {
	case "answer", "next", "reset", "finish":
		// Results are saved once; only state and start go on after finish.
		if session.Finished() {
			return session, errorMessage(domain.ErrSessionFinished.Error())
		}
	}
	switch inbound.Type {
	case "state":
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return session, errorMessage("invalid answer payload")
		}
		session.SubmitAnswer(payload.Answer)
		h.checkpoint(ctx, session)
	case "next":
		session.NextQuestion()
		h.checkpoint(ctx, session)
	case "reset":
		session.ResetQuiz()
		h.checkpoint(ctx, session)
	case "start":
		var payload startPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return session, errorMessage("invalid start payload")
		}
		category, err := domain.ParseCategory(payload.Category)
		if err != nil {
			return session, errorMessage(err.Error())
		}
		next, err := h.service.Start(ctx, category)
		if err != nil {
			h.log.Error("start session failed", zap.Error(err), zap.String("category", string(category)))
			return session, errorMessage("could not load questions")
		}
		_ = h.service.Discard(ctx, session)
		session = next
	case "finish":
		outcome, err := h.service.Finish(ctx, session)
		if err != nil {
			h.log.Error("finish session failed", zap.Error(err), zap.String("session", session.ID()))
			return session, errorMessage("could not save results")
		}
		h.metrics.quizFinished(string(session.Category()))
		return session, outboundMessage[app.Outcome]{Type: "results", Payload: outcome}
	default:
		return session, errorMessage("unsupported message type")
	}
	return session, outboundMessage[stateView]{Type: "state", Payload: viewOf(session)}
}

// checkpoint failures are logged only; the live session keeps working.
func (h *WSHandler) checkpoint(ctx context.Context, session *app.Session) {
	if err := h.service.Checkpoint(ctx, session); err != nil {
		h.log.Warn("checkpoint failed", zap.Error(err), zap.String("session", session.ID()))
	}
}

func (h *WSHandler) writeError(conn *websocket.Conn, err error) {
	msg := "could not open session"
	if errors.Is(err, domain.ErrSessionNotFound) {
		msg = err.Error()
	} else {
		h.log.Error("open session failed", zap.Error(err))
	}
	_ = conn.WriteJSON(errorMessage(msg))
}

func errorMessage(msg string) outboundMessage[errorPayload] {
	return outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: msg}}
}

func viewOf(session *app.Session) stateView {
	st := session.State()
	view := stateView{
		SessionID: session.ID(),
		Category:  string(session.Category()),
		Index:     st.Index(),
		Total:     st.Total(),
		Progress:  st.Progress(),
		IsLast:    st.IsLastQuestion(),
		Finished:  session.Finished(),
	}
	if q, ok := st.CurrentQuestion(); ok {
		view.Question = &questionView{ID: q.ID, Question: q.Question, Options: q.Options}
		if answer, ok := st.Answer(q.ID); ok {
			view.Answer = answer
		}
	}
	return view
}
