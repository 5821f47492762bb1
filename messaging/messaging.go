package messaging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const storeFileName = "fowlmon_messages.json"

// Message is one locally-stored chat message between a farmer and a vet.
// Messaging state is local-only; nothing here talks to the backend.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	SenderRole     string    `json:"sender_role"`
	Body           string    `json:"body"`
	SentAt         time.Time `json:"sent_at"`
	Read           bool      `json:"read"`
}

// Store keeps conversation state in a single JSON file under the data
// folder. Every mutation writes through immediately.
type Store struct {
	path   string
	logger zerolog.Logger

	mu            sync.Mutex
	conversations map[string][]Message
}

// NewStore opens (or creates) the message store under dataFolder.
func NewStore(dataFolder string) (*Store, error) {
	if err := os.MkdirAll(dataFolder, 0o755); err != nil {
		return nil, errors.Wrap(err, "[NewStore] MkdirAll")
	}

	s := &Store{
		path:          filepath.Join(dataFolder, storeFileName),
		logger:        log.With().Str("component", "messaging").Logger(),
		conversations: make(map[string][]Message),
	}

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[NewStore] ReadFile")
	}
	if err := json.Unmarshal(raw, &s.conversations); err != nil {
		s.logger.Warn().Err(err).Msg("message store unreadable, starting empty")
		s.conversations = make(map[string][]Message)
	}
	return s, nil
}

// Append adds a message to a conversation and returns it with its assigned
// ID and timestamp.
func (s *Store) Append(conversationID, senderID, senderRole, body string) (*Message, error) {
	msg := Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		SenderID:       senderID,
		SenderRole:     senderRole,
		Body:           body,
		SentAt:         time.Now().UTC(),
	}

	s.mu.Lock()
	s.conversations[conversationID] = append(s.conversations[conversationID], msg)
	err := s.save()
	s.mu.Unlock()

	if err != nil {
		return nil, errors.Wrap(err, "[Store.Append] save")
	}
	return &msg, nil
}

// Messages returns the messages of one conversation in send order.
func (s *Store) Messages(conversationID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := make([]Message, len(s.conversations[conversationID]))
	copy(msgs, s.conversations[conversationID])
	return msgs
}

// Conversations lists the known conversation IDs, sorted.
func (s *Store) Conversations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.conversations))
	for id := range s.conversations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// UnreadCount returns the number of unread messages in a conversation not
// sent by readerID.
func (s *Store) UnreadCount(conversationID, readerID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, msg := range s.conversations[conversationID] {
		if !msg.Read && msg.SenderID != readerID {
			count++
		}
	}
	return count
}

// MarkRead flags every message in the conversation not sent by readerID.
func (s *Store) MarkRead(conversationID, readerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.conversations[conversationID]
	for i := range msgs {
		if msgs[i].SenderID != readerID {
			msgs[i].Read = true
		}
	}
	if err := s.save(); err != nil {
		return errors.Wrap(err, "[Store.MarkRead] save")
	}
	return nil
}

// save writes the store file; callers hold the lock.
func (s *Store) save() error {
	raw, err := json.Marshal(s.conversations)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
