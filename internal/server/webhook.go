package server

import (
	"context"
	"encoding/json"
	"net/http"

	"newsbot/internal/logger"
	"newsbot/internal/prefs"
	"newsbot/internal/summarize"
)

// noTextPlaceholder stands in for a message without a text body.
const noTextPlaceholder = "No text"

// Payload is the inbound webhook body. Every field is optional; the
// structure mirrors the nesting the Graph API delivers.
type Payload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry is one webhook entry.
type Entry struct {
	Changes []Change `json:"changes"`
}

// Change is one change notification inside an entry.
type Change struct {
	Value ChangeValue `json:"value"`
}

// ChangeValue holds the messages of a change notification.
type ChangeValue struct {
	Messages []InboundMessage `json:"messages"`
}

// InboundMessage is one received message.
type InboundMessage struct {
	From string       `json:"from"`
	Text *InboundText `json:"text"`
}

// InboundText is the text body of an inbound message.
type InboundText struct {
	Body string `json:"body"`
}

// firstMessage returns the first message of the payload, or nil.
func (p *Payload) firstMessage() *InboundMessage {
	if len(p.Entry) == 0 || len(p.Entry[0].Changes) == 0 {
		return nil
	}
	messages := p.Entry[0].Changes[0].Value.Messages
	if len(messages) == 0 {
		return nil
	}
	return &messages[0]
}

// handleVerify handles the GET /webhook subscription handshake.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token != "" && token == s.verifyToken {
		logger.Info("Webhook verified")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(challenge))
		return
	}

	w.WriteHeader(http.StatusForbidden)
}

// handleReceive handles POST /webhook. Once the payload decodes, the
// response is always 200: adapter failures are logged and degrade to safe
// defaults instead of failing the webhook call.
func (s *Server) handleReceive(w http.ResponseWriter, r *http.Request) {
	var payload Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if payload.Object != "" {
		if message := payload.firstMessage(); message != nil {
			s.processMessage(r.Context(), message)
		}
	}

	w.WriteHeader(http.StatusOK)
}

// processMessage drives one inbound message through user registration and
// either the command path or the free-text summarization path.
func (s *Server) processMessage(ctx context.Context, message *InboundMessage) {
	from := message.From
	text := noTextPlaceholder
	if message.Text != nil && message.Text.Body != "" {
		text = message.Text.Body
	}

	logger.Info("New message received", "from", from, "text", text)

	s.ensureUser(ctx, from)

	if cmd := prefs.Parse(text); cmd != nil {
		if cmd.Domain == prefs.DomainUnknown {
			// Sigil with an unrecognized command token: dropped without a
			// reply and without entering the summarization path.
			logger.Debug("Ignoring unrecognized command", "from", from, "keyword", cmd.Keyword)
			return
		}
		s.handleCommand(ctx, from, cmd)
		return
	}

	summary, err := s.summarizer.Summarize(ctx, summarize.MessagePrompt(text))
	if err != nil {
		logger.Error("Summarization failed, falling back to original text", err, "from", from)
		summary = text
	}

	if err := s.sender.SendText(ctx, from, summary); err != nil {
		logger.Error("Failed to send reply", err, "to", from)
	}
}

// ensureUser registers an unseen phone number. Store failures are logged
// and processing continues.
func (s *Server) ensureUser(ctx context.Context, phone string) {
	user, err := s.users.GetUser(ctx, phone)
	if err != nil {
		logger.Error("User lookup failed", err, "phone", phone)
		return
	}
	if user != nil {
		return
	}

	if _, err := s.users.InsertUser(ctx, phone); err != nil {
		logger.Error("User insert failed", err, "phone", phone)
	}
}

// handleCommand applies a recognized preference command and replies with
// the resulting list.
func (s *Server) handleCommand(ctx context.Context, from string, cmd *prefs.Command) {
	field := string(cmd.Domain)

	raw, err := s.users.GetField(ctx, from, field)
	if err != nil {
		logger.Error("Preference fetch failed", err, "phone", from, "field", field)
		raw = nil
	}
	current := prefs.Normalize(raw)

	updated, effect := prefs.Apply(current, cmd.Action, cmd.Values)

	var reply string
	switch effect {
	case prefs.EffectReplyOnly:
		reply = "📋 Your current " + cmd.Keyword + ": " + prefs.JoinOrDefault(updated, "(none)")
	default:
		if err := s.users.UpdateField(ctx, from, field, updated); err != nil {
			logger.Error("Preference update failed", err, "phone", from, "field", field)
		}
		reply = "✅ Updated " + cmd.Keyword + ": " + prefs.JoinOrDefault(updated, "(none)")
	}

	if err := s.sender.SendText(ctx, from, reply); err != nil {
		logger.Error("Failed to send command reply", err, "to", from)
	}
}
