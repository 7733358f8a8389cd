package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/hiddengem/nova-travel/internal/config"
	"github.com/hiddengem/nova-travel/internal/handlers"
	"github.com/hiddengem/nova-travel/internal/logger"
	"github.com/hiddengem/nova-travel/internal/models"
	"github.com/hiddengem/nova-travel/internal/prompts"
)

// NATSTransport serves chat turns over request/reply for internal callers
// that bypass the HTTP edge.
type NATSTransport struct {
	conn    *nats.Conn
	config  *config.Config
	handler *handlers.ChatHandler
	log     *logger.Logger
}

func NewNATSTransport(cfg *config.Config, handler *handlers.ChatHandler, log *logger.Logger) (*NATSTransport, error) {
	conn, err := nats.Connect(cfg.NatsURL,
		nats.Name(cfg.ServiceName),
		nats.Timeout(cfg.NatsTimeout),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Info("connected to NATS", "url", cfg.NatsURL)

	return &NATSTransport{
		conn:    conn,
		config:  cfg,
		handler: handler,
		log:     log,
	}, nil
}

func (nt *NATSTransport) Start() error {
	_, err := nt.conn.Subscribe(nt.config.NatsChatSubject, nt.handleTurnRequest)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", nt.config.NatsChatSubject, err)
	}
	nt.log.Info("subscribed", "subject", nt.config.NatsChatSubject)
	return nil
}

func (nt *NATSTransport) handleTurnRequest(msg *nats.Msg) {
	var request models.TurnRequest
	if err := json.Unmarshal(msg.Data, &request); err != nil {
		nt.log.Warn("invalid turn request", "error", err)
		nt.respondError(msg, "Invalid request format")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), nt.config.GeminiTimeout)
	defer cancel()

	result, err := nt.handler.ProcessTurn(ctx, &request)
	if errors.Is(err, models.ErrInvalidInput) {
		nt.respondError(msg, err.Error())
		return
	}
	if err != nil {
		nt.log.Error("turn processing failed", "session_id", request.SessionID, "error", err)
		nt.respondError(msg, "Internal error")
		return
	}

	nt.respond(msg, result)
}

func (nt *NATSTransport) respond(msg *nats.Msg, result *models.TurnResult) {
	data, err := json.Marshal(result)
	if err != nil {
		nt.log.Error("failed to marshal turn result", "error", err)
		return
	}
	if err := msg.Respond(data); err != nil {
		nt.log.Error("failed to send response", "error", err)
	}
}

func (nt *NATSTransport) respondError(msg *nats.Msg, reason string) {
	nt.respond(msg, &models.TurnResult{
		Response: prompts.FallbackMessage + " (" + reason + ")",
	})
}

func (nt *NATSTransport) Close() error {
	if nt.conn != nil {
		nt.conn.Close()
		nt.log.Info("NATS connection closed")
	}
	return nil
}
