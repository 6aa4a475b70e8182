package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"pilotpro/internal/entity"
	"pilotpro/internal/pkg/logger"
)

// RecentPairLimit bounds how much history goes into a prompt context.
const RecentPairLimit = 10

const (
	ctxKeyUserName        = "user_name"
	ctxKeyCurrentTime     = "current_time"
	ctxKeyLastSessionTime = "last_session_time"
)

// ContextSnapshot is the ephemeral bundle assembled before each provider
// call: recent history plus keyed facts. It is built fresh per call and
// discarded after use.
type ContextSnapshot struct {
	RecentPairs []entity.MessagePair
	facts       map[string]string
}

func NewContextSnapshot() *ContextSnapshot {
	return &ContextSnapshot{facts: make(map[string]string)}
}

// AddCustomContext records a keyed fact. Re-adding a key overwrites it.
func (c *ContextSnapshot) AddCustomContext(key, value string) {
	c.facts[key] = value
}

func (c *ContextSnapshot) AddNameContext(name string) {
	c.AddCustomContext(ctxKeyUserName, name)
}

func (c *ContextSnapshot) AddCurrentTimeContext(now time.Time) {
	c.AddCustomContext(ctxKeyCurrentTime, now.Format("2006-01-02 15:04:05"))
}

func (c *ContextSnapshot) AddLastSessionTimeContext(t time.Time) {
	c.AddCustomContext(ctxKeyLastSessionTime, t.Format("2006-01-02 15:04:05"))
}

// Fact returns the value recorded under key, if any.
func (c *ContextSnapshot) Fact(key string) (string, bool) {
	v, ok := c.facts[key]
	return v, ok
}

// Render flattens the snapshot into the context string handed to providers:
// the history window first, then the facts in stable order.
func (c *ContextSnapshot) Render() string {
	var b strings.Builder
	for _, pair := range c.RecentPairs {
		if pair.Sent != "" {
			fmt.Fprintf(&b, "User: %s\n", pair.Sent)
		}
		if pair.Received != "" {
			fmt.Fprintf(&b, "AI: %s\n", pair.Received)
		}
	}

	keys := make([]string, 0, len(c.facts))
	for k := range c.facts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch k {
		case ctxKeyUserName:
			fmt.Fprintf(&b, "The user's name is %s.\n", c.facts[k])
		case ctxKeyCurrentTime:
			fmt.Fprintf(&b, "The current time is %s.\n", c.facts[k])
		case ctxKeyLastSessionTime:
			fmt.Fprintf(&b, "The last session was at %s.\n", c.facts[k])
		default:
			fmt.Fprintf(&b, "%s: %s\n", k, c.facts[k])
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

type IContextService interface {
	// GenerateContext assembles a fresh snapshot for username: the last
	// RecentPairLimit (sent, received) pairs, the derived facts, and the
	// supplied custom entries, which win on key collision.
	GenerateContext(ctx context.Context, username, fullName, sessionToken string, custom map[string]string) (*ContextSnapshot, error)
}

type contextService struct {
	chatLog  IChatLogService
	sessions ISessionService
	log      logger.ILogger
	now      func() time.Time
}

func NewContextService(chatLog IChatLogService, sessions ISessionService, log logger.ILogger) IContextService {
	return &contextService{
		chatLog:  chatLog,
		sessions: sessions,
		log:      log,
		now:      time.Now,
	}
}

// pairMessages folds an oldest-first message window into (sent, received)
// pairs. A reply without a preceding send, or a send without a reply yet,
// still yields a (partial) pair.
func pairMessages(messages []*entity.ChatMessage) []entity.MessagePair {
	var pairs []entity.MessagePair
	var current *entity.MessagePair
	for _, m := range messages {
		switch m.Direction {
		case entity.DirectionSent:
			if current != nil {
				pairs = append(pairs, *current)
			}
			current = &entity.MessagePair{Sent: m.Content}
		case entity.DirectionReceived:
			if current == nil {
				current = &entity.MessagePair{}
			}
			current.Received = m.Content
			pairs = append(pairs, *current)
			current = nil
		}
	}
	if current != nil {
		pairs = append(pairs, *current)
	}
	if len(pairs) > RecentPairLimit {
		pairs = pairs[len(pairs)-RecentPairLimit:]
	}
	return pairs
}

func (s *contextService) GenerateContext(ctx context.Context, username, fullName, sessionToken string, custom map[string]string) (*ContextSnapshot, error) {
	snapshot := NewContextSnapshot()

	// Two rows per exchange, so fetch twice the pair budget.
	messages, err := s.chatLog.LastN(ctx, username, RecentPairLimit*2)
	if err != nil {
		return nil, err
	}
	snapshot.RecentPairs = pairMessages(messages)

	snapshot.AddNameContext(fullName)
	snapshot.AddCurrentTimeContext(s.now())

	if sessionToken != "" {
		last, err := s.sessions.LastSessionTime(ctx, sessionToken)
		if err != nil {
			// History decoration only; the turn can proceed without it.
			s.log.Warn("context", "last session lookup failed", map[string]interface{}{
				"username": username, "error": err.Error(),
			})
		} else if last != nil {
			snapshot.AddLastSessionTimeContext(*last)
		}
	}

	// Custom entries take precedence over derived ones on key collision.
	for k, v := range custom {
		snapshot.AddCustomContext(k, v)
	}
	return snapshot, nil
}
