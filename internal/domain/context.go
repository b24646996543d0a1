package domain

import (
	"fmt"
	"strings"
	"sync"
)

// DocumentRef is an opaque handle to a host-side document.
type DocumentRef string

// FeatureRef is an opaque handle to a host-side feature.
type FeatureRef struct {
	ID   string
	Name string
}

// EntityRef records a named model entity for later anaphora ("the first hole").
type EntityRef struct {
	Name    string
	Kind    CommandKind
	Feature FeatureRef
}

// Turn summarizes one completed exchange for prompt context.
type Turn struct {
	Input       string
	CommandKind CommandKind
	Outcome     string
}

// ConversationContext is per-session state enabling resolution of referential
// and incremental utterances. It is created once per session, updated only
// after a command executes successfully, and cleared on session reset.
// All methods are safe for concurrent use.
type ConversationContext struct {
	mu sync.Mutex

	lastCommand  Command
	lastDocument DocumentRef
	recent       []TypedDimension
	named        map[string]EntityRef
	turns        []Turn
	defaultUnit  Unit

	// PendingClarification carries an unanswered question back to the user.
	pendingClarification string
}

// NewConversationContext builds an empty context with the session default unit.
func NewConversationContext(defaultUnit Unit) *ConversationContext {
	if defaultUnit == "" {
		defaultUnit = UnitInch
	}
	return &ConversationContext{
		named:       make(map[string]EntityRef),
		defaultUnit: defaultUnit,
	}
}

// DefaultUnit returns the unit applied to bare numbers this session.
func (c *ConversationContext) DefaultUnit() Unit {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.defaultUnit
}

// LastCommand returns the most recently executed command, if any.
func (c *ConversationContext) LastCommand() (Command, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastCommand, c.lastCommand != nil
}

// LastDocument returns the handle of the most recent document touched.
func (c *ConversationContext) LastDocument() (DocumentRef, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastDocument, c.lastDocument != ""
}

// NoteExecution records a successfully executed command: last command, its
// dimensions (most recent on top, oldest evicted past MaxRecentDimensions),
// and the conversation turn.
func (c *ConversationContext) NoteExecution(cmd Command, doc DocumentRef, outcome string) {
	if cmd == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastCommand = cmd
	if doc != "" {
		c.lastDocument = doc
	}
	c.pendingClarification = ""

	if carrier, ok := cmd.(DimensionCarrier); ok {
		for _, td := range carrier.Dimensions() {
			c.pushDimensionLocked(td)
		}
	}

	c.turns = append(c.turns, Turn{Input: cmd.Describe(), CommandKind: cmd.Kind(), Outcome: outcome})
	if len(c.turns) > MaxContextTurns {
		c.turns = c.turns[len(c.turns)-MaxContextTurns:]
	}
}

func (c *ConversationContext) pushDimensionLocked(td TypedDimension) {
	c.recent = append([]TypedDimension{td}, c.recent...)
	if len(c.recent) > MaxRecentDimensions {
		c.recent = c.recent[:MaxRecentDimensions]
	}
}

// PushDimension records one mentioned dimension, most recent on top.
func (c *ConversationContext) PushDimension(td TypedDimension) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pushDimensionLocked(td)
}

// RecentDimensions returns a copy of the stack, most recent first.
func (c *ConversationContext) RecentDimensions() []TypedDimension {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]TypedDimension, len(c.recent))
	copy(out, c.recent)
	return out
}

// RecentByType returns the most recently mentioned dimension of the given type.
// Thickness and height are treated as aliases of each other.
func (c *ConversationContext) RecentByType(t DimensionType) (Dimension, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, td := range c.recent {
		if td.Type == t || td.Type.Canonical() == t.Canonical() {
			return td.Dimension, true
		}
	}
	return Dimension{}, false
}

// RegisterEntity names a created feature for later reference.
func (c *ConversationContext) RegisterEntity(ref EntityRef) {
	if ref.Name == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.named[strings.ToLower(ref.Name)] = ref
}

// LookupEntity resolves a spoken name to a registered entity.
func (c *ConversationContext) LookupEntity(name string) (EntityRef, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ref, ok := c.named[strings.ToLower(name)]
	return ref, ok
}

// SetPendingClarification stores an unanswered question.
func (c *ConversationContext) SetPendingClarification(question string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingClarification = question
}

// PendingClarification returns the open question, if any.
func (c *ConversationContext) PendingClarification() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingClarification, c.pendingClarification != ""
}

// Reset clears all session state.
func (c *ConversationContext) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastCommand = nil
	c.lastDocument = ""
	c.recent = nil
	c.turns = nil
	c.named = make(map[string]EntityRef)
	c.pendingClarification = ""
}

// Summary renders the most recent turns for the interpreter prompt, capped at
// MaxContextTurns entries.
func (c *ConversationContext) Summary() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.turns) == 0 {
		return "No prior commands this session."
	}
	var sb strings.Builder
	for i, turn := range c.turns {
		fmt.Fprintf(&sb, "%d. [%s] %s", i+1, turn.CommandKind, turn.Input)
		if turn.Outcome != "" {
			fmt.Fprintf(&sb, " -> %s", turn.Outcome)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
