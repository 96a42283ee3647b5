package repository

import (
	"context"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/repository/dao"
	"github.com/ecodeclub/ekit/slice"
)

// UserRepository 宿主应用的用户目录
//
//go:generate mockgen -source=./user.go -destination=./mocks/user.mock.go -package=repomocks UserRepository,InboxRepository
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (domain.User, error)
	// FindByRole role 为空表示全部用户
	FindByRole(ctx context.Context, role string) ([]domain.User, error)
}

type userRepository struct {
	dao dao.UserDAO
}

func NewUserRepository(d dao.UserDAO) UserRepository {
	return &userRepository{dao: d}
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	u, err := r.dao.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	return toDomainUser(u), nil
}

func (r *userRepository) FindByRole(ctx context.Context, role string) ([]domain.User, error) {
	users, err := r.dao.FindActiveByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	return slice.Map(users, func(_ int, src dao.User) domain.User {
		return toDomainUser(src)
	}), nil
}

func toDomainUser(u dao.User) domain.User {
	return domain.User{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Mobile:      u.Mobile,
		Email:       u.Email,
	}
}

// InboxRepository 站内信
type InboxRepository interface {
	Deliver(ctx context.Context, userID int64, msg domain.Message) error
}

type inboxRepository struct {
	dao dao.InAppNotificationDAO
}

func NewInboxRepository(d dao.InAppNotificationDAO) InboxRepository {
	return &inboxRepository{dao: d}
}

func (r *inboxRepository) Deliver(ctx context.Context, userID int64, msg domain.Message) error {
	_, err := r.dao.Create(ctx, dao.InAppNotification{
		UserID:    userID,
		LogID:     msg.LogID,
		Title:     inboxTitle(msg.Content),
		Message:   msg.Content,
		RelatedID: msg.RelatedID,
	})
	return err
}

// inboxTitle 取第一行作为标题
func inboxTitle(content string) string {
	const maxTitle = 60
	line := content
	for i, r := range content {
		if r == '\n' {
			line = content[:i]
			break
		}
	}
	runes := []rune(line)
	if len(runes) > maxTitle {
		return string(runes[:maxTitle])
	}
	return line
}
