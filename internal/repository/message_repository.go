package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/johnolamide/echo-mcp-server/internal/domain"
)

// messageRepository implements domain.MessageRepository using GORM. All joins
// against users are done explicitly by the chat service; this layer returns
// plain rows.
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a MessageRepository with the given GORM DB instance.
func NewMessageRepository(db *gorm.DB) domain.MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(msg *domain.ChatMessage) error {
	if err := r.db.Create(msg).Error; err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

func pairCondition(db *gorm.DB, userID, otherID uint) *gorm.DB {
	return db.Where(
		"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		userID, otherID, otherID, userID,
	)
}

// GetBetween returns one page of the two-party conversation, newest first.
// Ties on timestamp are broken by id so pagination stays stable.
func (r *messageRepository) GetBetween(userID, otherID uint, limit, offset int) ([]domain.ChatMessage, error) {
	var msgs []domain.ChatMessage
	q := pairCondition(r.db.Model(&domain.ChatMessage{}), userID, otherID)
	if err := q.Order("timestamp DESC, id DESC").Limit(limit).Offset(offset).Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("get messages between users: %w", err)
	}
	return msgs, nil
}

func (r *messageRepository) CountBetween(userID, otherID uint) (int64, error) {
	var count int64
	q := pairCondition(r.db.Model(&domain.ChatMessage{}), userID, otherID)
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count messages between users: %w", err)
	}
	return count, nil
}

func (r *messageRepository) CountUnread(receiverID uint) (int64, error) {
	var count int64
	err := r.db.Model(&domain.ChatMessage{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}

func (r *messageRepository) CountUnreadFrom(senderID, receiverID uint) (int64, error) {
	var count int64
	err := r.db.Model(&domain.ChatMessage{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderID, receiverID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count unread from sender: %w", err)
	}
	return count, nil
}

// MarkReadFrom flips every unread message from senderID to receiverID and
// returns the number of rows changed. Calling it again is a no-op.
func (r *messageRepository) MarkReadFrom(senderID, receiverID uint) (int64, error) {
	res := r.db.Model(&domain.ChatMessage{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderID, receiverID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("mark read from sender: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// MarkReadByIDs flips is_read only for messages in ids that are addressed to
// receiverID; foreign ids are silently skipped.
func (r *messageRepository) MarkReadByIDs(receiverID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.Model(&domain.ChatMessage{}).
		Where("id IN ? AND receiver_id = ? AND is_read = ?", ids, receiverID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("mark read by ids: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// RecentForUser returns the newest messages the user sent or received; the
// chat service folds them into per-counterpart conversations.
func (r *messageRepository) RecentForUser(userID uint, limit int) ([]domain.ChatMessage, error) {
	var msgs []domain.ChatMessage
	q := r.db.Model(&domain.ChatMessage{}).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("timestamp DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("recent messages for user: %w", err)
	}
	return msgs, nil
}

func (r *messageRepository) CountSent(userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&domain.ChatMessage{}).Where("sender_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count sent: %w", err)
	}
	return count, nil
}

func (r *messageRepository) CountReceived(userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&domain.ChatMessage{}).Where("receiver_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count received: %w", err)
	}
	return count, nil
}
