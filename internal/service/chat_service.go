package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pilotpro/internal/apperr"
	"pilotpro/internal/entity"
	"pilotpro/internal/pkg/logger"
	"pilotpro/pkg/llm"
	"pilotpro/pkg/llm/failover"
)

// SessionState tracks one interactive chat session.
type SessionState int

const (
	StateActive SessionState = iota
	StateAwaitingResponse
	StateTerminated
)

// TurnKind classifies what a handled input produced.
type TurnKind int

const (
	TurnReply TurnKind = iota
	TurnHelp
	TurnLogs
	TurnExit
)

// RecentLogLimit is how many operational log entries the `logs` command
// shows.
const RecentLogLimit = 25

// TurnOutput is the result of one handled input line.
type TurnOutput struct {
	Kind   TurnKind
	Reply  string
	Source string
	Logs   []logger.LogEntry
}

type IChatService interface {
	NewSession(username, fullName, token string) *ChatSession
}

type chatService struct {
	chain    *failover.Chain
	contexts IContextService
	chatLog  IChatLogService
	log      logger.ILogger
}

func NewChatService(chain *failover.Chain, contexts IContextService, chatLog IChatLogService, log logger.ILogger) IChatService {
	return &chatService{
		chain:    chain,
		contexts: contexts,
		chatLog:  chatLog,
		log:      log,
	}
}

func (s *chatService) NewSession(username, fullName, token string) *ChatSession {
	return &ChatSession{
		svc:      s,
		username: username,
		fullName: fullName,
		token:    token,
		state:    StateActive,
	}
}

// ChatSession is one user's chat loop. Terminated is terminal: a session
// cannot be resumed, a new one must be started.
type ChatSession struct {
	svc      *chatService
	username string
	fullName string
	token    string
	state    SessionState
}

func (cs *ChatSession) State() SessionState {
	return cs.state
}

// HandleInput dispatches one input line: reserved commands (help, logs,
// exit) are handled locally, anything else becomes a provider turn. When
// both providers fail the session stays Active so the user can retry.
func (cs *ChatSession) HandleInput(ctx context.Context, input string) (*TurnOutput, error) {
	if cs.state == StateTerminated {
		return nil, errors.New("chat session is terminated")
	}

	switch strings.TrimSpace(strings.ToLower(input)) {
	case "help":
		return &TurnOutput{Kind: TurnHelp}, nil
	case "logs":
		entries, err := cs.svc.log.RecentEntries(RecentLogLimit)
		if err != nil {
			return nil, fmt.Errorf("reading logs: %w", err)
		}
		return &TurnOutput{Kind: TurnLogs, Logs: entries}, nil
	case "exit":
		cs.state = StateTerminated
		return &TurnOutput{Kind: TurnExit}, nil
	}

	return cs.sendTurn(ctx, input)
}

func (cs *ChatSession) sendTurn(ctx context.Context, input string) (*TurnOutput, error) {
	snapshot, err := cs.svc.contexts.GenerateContext(ctx, cs.username, cs.fullName, cs.token, nil)
	if err != nil {
		return nil, err
	}

	cs.state = StateAwaitingResponse
	result := cs.svc.chain.Send(ctx, llm.Request{
		Text:    input,
		Context: snapshot.Render(),
	})
	cs.state = StateActive

	if result.State == failover.BothFailed {
		cs.svc.log.Error("chat", "both providers failed", map[string]interface{}{
			"username": cs.username, "errors": fmt.Sprintf("%v", result.Errors),
		})
		return nil, fmt.Errorf("%w: %v", apperr.ErrProvider, errors.Join(result.Errors...))
	}

	// Persist the exchange: the outgoing input and the reply, in order.
	if err := cs.svc.chatLog.Append(ctx, cs.username, entity.DirectionSent, input); err != nil {
		return nil, err
	}
	if err := cs.svc.chatLog.Append(ctx, cs.username, entity.DirectionReceived, result.Reply); err != nil {
		return nil, err
	}

	cs.svc.log.Info("chat", "turn completed", map[string]interface{}{
		"username": cs.username, "source": result.Source,
	})
	return &TurnOutput{Kind: TurnReply, Reply: result.Reply, Source: result.Source}, nil
}
