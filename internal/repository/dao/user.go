package dao

import (
	"context"
	"errors"
	"fmt"

	"gitee.com/autopuzzle/notification-center/internal/errs"
	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

const userStatusActive = "active"

// User 宿主应用的用户表，这里只读
type User struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	DisplayName string `gorm:"type:VARCHAR(255);NOT NULL;DEFAULT:''"`
	Role        string `gorm:"type:VARCHAR(64);NOT NULL;index:idx_role_status,priority:1"`
	Mobile      string `gorm:"type:VARCHAR(32);NOT NULL;DEFAULT:''"`
	Email       string `gorm:"type:VARCHAR(255);NOT NULL;DEFAULT:''"`
	Status      string `gorm:"type:VARCHAR(16);NOT NULL;DEFAULT:'active';index:idx_role_status,priority:2"`
	Ctime       int64
	Utime       int64
}

// TableName 重命名表
func (User) TableName() string {
	return "users"
}

type UserDAO interface {
	GetByID(ctx context.Context, id int64) (User, error)
	// FindActiveByRole role 为空时返回全部用户，按 ID 升序
	FindActiveByRole(ctx context.Context, role string) ([]User, error)
}

type userDAO struct {
	db *egorm.Component
}

func NewUserDAO(db *egorm.Component) UserDAO {
	return &userDAO{db: db}
}

func (d *userDAO) GetByID(ctx context.Context, id int64) (User, error) {
	var res User
	err := d.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, userStatusActive).
		First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, fmt.Errorf("%w: id = %d", errs.ErrUnknownRecipient, id)
	}
	return res, err
}

func (d *userDAO) FindActiveByRole(ctx context.Context, role string) ([]User, error) {
	var res []User
	db := d.db.WithContext(ctx).Where("status = ?", userStatusActive)
	if role != "" {
		db = db.Where("role = ?", role)
	}
	err := db.Order("id ASC").Find(&res).Error
	return res, err
}
