package domain

import "time"

// ChatMessage is a direct message between two users. Rows are immutable apart
// from the is_read flag.
type ChatMessage struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	SenderID   uint      `json:"sender_id" gorm:"index;not null"`
	ReceiverID uint      `json:"receiver_id" gorm:"index;not null"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	Timestamp  time.Time `json:"timestamp" gorm:"index;not null"`
	IsRead     bool      `json:"is_read" gorm:"index"`
}

func (ChatMessage) TableName() string { return "chat_messages" }

// SendMessageRequest is the REST and WebSocket send payload.
type SendMessageRequest struct {
	ReceiverID uint   `json:"receiver_id" binding:"required"`
	Content    string `json:"content" binding:"required,min=1,max=2000"`
}

// MessageResponse is a persisted message with both usernames resolved.
type MessageResponse struct {
	ID               uint      `json:"id"`
	SenderID         uint      `json:"sender_id"`
	ReceiverID       uint      `json:"receiver_id"`
	Content          string    `json:"content"`
	Timestamp        time.Time `json:"timestamp"`
	IsRead           bool      `json:"is_read"`
	SenderUsername   string    `json:"sender_username"`
	ReceiverUsername string    `json:"receiver_username"`
}

// HistoryQuery parameterises a history page.
type HistoryQuery struct {
	Limit      int
	Offset     int
	MarkAsRead bool
}

// ChatHistory is one page of a two-party conversation, newest first.
type ChatHistory struct {
	Messages      []MessageResponse `json:"messages"`
	TotalMessages int64             `json:"total_messages"`
	UnreadCount   int64             `json:"unread_count"`
	OtherUserID   uint              `json:"other_user_id"`
	OtherUsername string            `json:"other_username"`
}

// LastMessage summarises the newest message of a conversation.
type LastMessage struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	IsFromMe  bool      `json:"is_from_me"`
}

// Conversation is one counterpart entry in the conversation list.
type Conversation struct {
	OtherUserID   uint        `json:"other_user_id"`
	OtherUsername string      `json:"other_username"`
	LastMessage   LastMessage `json:"last_message"`
	UnreadCount   int64       `json:"unread_count"`
	TotalMessages int64       `json:"total_messages"`
}

// ConversationList groups every counterpart, most recent first.
type ConversationList struct {
	Conversations      []Conversation `json:"conversations"`
	TotalConversations int            `json:"total_conversations"`
	TotalUnread        int64          `json:"total_unread"`
}

// MarkReadRequest flips is_read for the listed messages, caller-owned only.
type MarkReadRequest struct {
	MessageIDs []uint `json:"message_ids" binding:"required,min=1"`
}

// MarkReadResponse reports how many rows were actually committed.
type MarkReadResponse struct {
	MarkedCount int64 `json:"marked_count"`
}

// UnreadCountResponse is the caller's outstanding unread total.
type UnreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}

// ChatUser is the basic directory entry for the chat user list.
type ChatUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	IsOnline bool   `json:"is_online"`
}

// ChatUserList is the chat directory response.
type ChatUserList struct {
	Users       []ChatUser `json:"users"`
	TotalUsers  int        `json:"total_users"`
	OnlineCount int        `json:"online_count"`
}

// MessageRepository persists chat messages.
type MessageRepository interface {
	Create(msg *ChatMessage) error
	GetBetween(userID, otherID uint, limit, offset int) ([]ChatMessage, error)
	CountBetween(userID, otherID uint) (int64, error)
	CountUnread(receiverID uint) (int64, error)
	CountUnreadFrom(senderID, receiverID uint) (int64, error)
	MarkReadFrom(senderID, receiverID uint) (int64, error)
	MarkReadByIDs(receiverID uint, ids []uint) (int64, error)
	RecentForUser(userID uint, limit int) ([]ChatMessage, error)
	CountSent(userID uint) (int64, error)
	CountReceived(userID uint) (int64, error)
}

// MessagePusher attempts real-time delivery of an encoded frame. The returned
// bool reports local delivery; failures are never errors, the persisted row is
// the durable source of truth.
type MessagePusher interface {
	Push(userID uint, payload []byte) bool
}

// Presence answers online queries for the chat directory.
type Presence interface {
	IsOnline(userID uint) bool
	OnlineIDs() []uint
}

// ChatService orchestrates persistence, unread bookkeeping and live pushes.
type ChatService interface {
	Send(senderID uint, req SendMessageRequest) (*MessageResponse, error)
	History(userID, otherID uint, q HistoryQuery) (*ChatHistory, error)
	UnreadCount(userID uint) (int64, error)
	MarkRead(userID uint, ids []uint) (int64, error)
	Conversations(userID uint, limit int) (*ConversationList, error)
	ChatUsers(userID uint) (*ChatUserList, error)
}
