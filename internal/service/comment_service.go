package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cavea/internal/models"
	"cavea/internal/repository"

	"gorm.io/gorm"
)

var ErrCommentNotFound = errors.New("comment not found")

type CommentService interface {
	Create(ctx context.Context, userID, itemID uint, date time.Time, content string) (*models.Comment, error)
	Delete(ctx context.Context, userID, commentID uint) error
}

type commentService struct {
	comments repository.CommentRepository
	items    repository.CellarItemRepository
}

func NewCommentService(comments repository.CommentRepository, items repository.CellarItemRepository) CommentService {
	return &commentService{comments: comments, items: items}
}

func (s *commentService) Create(ctx context.Context, userID, itemID uint, date time.Time, content string) (*models.Comment, error) {
	if err := s.checkItemOwner(ctx, userID, itemID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		CellarItemID: itemID,
		Date:         date,
		Content:      content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, userID, commentID uint) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to load comment: %w", err)
	}

	if err := s.checkItemOwner(ctx, userID, comment.CellarItemID); err != nil {
		return err
	}
	return s.comments.Delete(ctx, commentID)
}

// Comment access rides on the owning cellar item's ownership check.
func (s *commentService) checkItemOwner(ctx context.Context, userID, itemID uint) error {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to load cellar item: %w", err)
	}
	if item.UserID != userID {
		return ErrNotOwner
	}
	return nil
}
