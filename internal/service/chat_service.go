package service

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/johnolamide/echo-mcp-server/internal/apperr"
	"github.com/johnolamide/echo-mcp-server/internal/domain"
	"github.com/johnolamide/echo-mcp-server/internal/metrics"
	"github.com/johnolamide/echo-mcp-server/internal/repository"
)

// Frame types pushed over live connections.
const (
	FrameNewMessage  = "new_message"
	FrameMessageSent = "message_sent"
)

// PushFrame is the envelope for every server-initiated WebSocket frame.
type PushFrame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// chatService implements domain.ChatService. Persistence is authoritative;
// live pushes are a best-effort optimization and never fail a send.
type chatService struct {
	messages domain.MessageRepository
	users    domain.UserRepository
	pusher   domain.MessagePusher
	presence domain.Presence
}

// NewChatService creates a ChatService. pusher and presence may be nil, in
// which case messages are persisted without live delivery.
func NewChatService(messages domain.MessageRepository, users domain.UserRepository, pusher domain.MessagePusher, presence domain.Presence) domain.ChatService {
	return &chatService{messages: messages, users: users, pusher: pusher, presence: presence}
}

func (s *chatService) Send(senderID uint, req domain.SendMessageRequest) (*domain.MessageResponse, error) {
	receiver, err := s.users.GetByID(req.ReceiverID)
	if err != nil || !receiver.IsActive || !receiver.IsVerified {
		return nil, apperr.NotFound("Receiver not found or inactive")
	}
	sender, err := s.users.GetByID(senderID)
	if err != nil {
		return nil, apperr.NotFound("Sender not found")
	}

	msg := &domain.ChatMessage{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
		Timestamp:  time.Now().UTC(),
		IsRead:     false,
	}
	if err := s.messages.Create(msg); err != nil {
		log.Error().Err(err).Uint("sender_id", senderID).Msg("persist message")
		return nil, apperr.Internal("Failed to send message")
	}
	metrics.ChatMessagesTotal.Inc()

	resp := &domain.MessageResponse{
		ID:               msg.ID,
		SenderID:         msg.SenderID,
		ReceiverID:       msg.ReceiverID,
		Content:          msg.Content,
		Timestamp:        msg.Timestamp,
		IsRead:           msg.IsRead,
		SenderUsername:   sender.Username,
		ReceiverUsername: receiver.Username,
	}

	// Best-effort live delivery after the row is committed. A failed push is
	// invisible to the sender; the client reconciles via history on reconnect.
	s.push(receiver.ID, FrameNewMessage, resp)
	if senderID != receiver.ID {
		s.push(senderID, FrameMessageSent, resp)
	}
	return resp, nil
}

func (s *chatService) push(userID uint, frameType string, data any) {
	if s.pusher == nil {
		return
	}
	payload, err := json.Marshal(PushFrame{Type: frameType, Data: data})
	if err != nil {
		log.Error().Err(err).Msg("encode push frame")
		return
	}
	if !s.pusher.Push(userID, payload) {
		log.Debug().Uint("user_id", userID).Msg("push skipped, user not connected")
	}
}

func (s *chatService) History(userID, otherID uint, q domain.HistoryQuery) (*domain.ChatHistory, error) {
	other, err := s.users.GetByID(otherID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("Failed to load user")
	}
	me, err := s.users.GetByID(userID)
	if err != nil {
		return nil, apperr.NotFound("User not found")
	}

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	msgs, err := s.messages.GetBetween(userID, otherID, limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("load history")
		return nil, apperr.Internal("Failed to load chat history")
	}
	total, err := s.messages.CountBetween(userID, otherID)
	if err != nil {
		return nil, apperr.Internal("Failed to load chat history")
	}

	// Explicit side effect: a history read with mark_as_read flips every
	// unread message from the counterpart. Idempotent by construction.
	if q.MarkAsRead {
		if _, err := s.messages.MarkReadFrom(otherID, userID); err != nil {
			log.Error().Err(err).Msg("mark history read")
			return nil, apperr.Internal("Failed to update read state")
		}
	}
	unread, err := s.messages.CountUnreadFrom(otherID, userID)
	if err != nil {
		return nil, apperr.Internal("Failed to load chat history")
	}

	names := map[uint]string{userID: me.Username, otherID: other.Username}
	out := make([]domain.MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, domain.MessageResponse{
			ID:               m.ID,
			SenderID:         m.SenderID,
			ReceiverID:       m.ReceiverID,
			Content:          m.Content,
			Timestamp:        m.Timestamp,
			IsRead:           m.IsRead,
			SenderUsername:   names[m.SenderID],
			ReceiverUsername: names[m.ReceiverID],
		})
	}
	return &domain.ChatHistory{
		Messages:      out,
		TotalMessages: total,
		UnreadCount:   unread,
		OtherUserID:   otherID,
		OtherUsername: other.Username,
	}, nil
}

func (s *chatService) UnreadCount(userID uint) (int64, error) {
	count, err := s.messages.CountUnread(userID)
	if err != nil {
		log.Error().Err(err).Uint("user_id", userID).Msg("count unread")
		return 0, apperr.Internal("Failed to count unread messages")
	}
	return count, nil
}

// MarkRead flips is_read for the given ids, restricted to messages addressed
// to the caller. The returned count reflects committed rows only.
func (s *chatService) MarkRead(userID uint, ids []uint) (int64, error) {
	count, err := s.messages.MarkReadByIDs(userID, ids)
	if err != nil {
		log.Error().Err(err).Uint("user_id", userID).Msg("mark read")
		return 0, apperr.Internal("Failed to mark messages as read")
	}
	return count, nil
}

func (s *chatService) Conversations(userID uint, limit int) (*domain.ConversationList, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	msgs, err := s.messages.RecentForUser(userID, 0)
	if err != nil {
		log.Error().Err(err).Uint("user_id", userID).Msg("load conversations")
		return nil, apperr.Internal("Failed to load conversations")
	}

	seen := make(map[uint]struct{})
	conversations := make([]domain.Conversation, 0, limit)
	var totalUnread int64

	for _, m := range msgs {
		otherID := m.ReceiverID
		if m.SenderID != userID {
			otherID = m.SenderID
		}
		if _, ok := seen[otherID]; ok {
			continue
		}
		seen[otherID] = struct{}{}

		other, err := s.users.GetByID(otherID)
		if err != nil {
			continue
		}
		unread, err := s.messages.CountUnreadFrom(otherID, userID)
		if err != nil {
			return nil, apperr.Internal("Failed to load conversations")
		}
		total, err := s.messages.CountBetween(userID, otherID)
		if err != nil {
			return nil, apperr.Internal("Failed to load conversations")
		}
		totalUnread += unread

		conversations = append(conversations, domain.Conversation{
			OtherUserID:   otherID,
			OtherUsername: other.Username,
			LastMessage: domain.LastMessage{
				Content:   m.Content,
				Timestamp: m.Timestamp,
				IsFromMe:  m.SenderID == userID,
			},
			UnreadCount:   unread,
			TotalMessages: total,
		})
		if len(conversations) >= limit {
			break
		}
	}
	return &domain.ConversationList{
		Conversations:      conversations,
		TotalConversations: len(conversations),
		TotalUnread:        totalUnread,
	}, nil
}

func (s *chatService) ChatUsers(userID uint) (*domain.ChatUserList, error) {
	users, err := s.users.ListChatUsers(userID)
	if err != nil {
		log.Error().Err(err).Msg("list chat users")
		return nil, apperr.Internal("Failed to list users")
	}
	out := make([]domain.ChatUser, 0, len(users))
	online := 0
	for _, u := range users {
		isOnline := s.presence != nil && s.presence.IsOnline(u.ID)
		if isOnline {
			online++
		}
		out = append(out, domain.ChatUser{ID: u.ID, Username: u.Username, IsOnline: isOnline})
	}
	return &domain.ChatUserList{Users: out, TotalUsers: len(out), OnlineCount: online}, nil
}
