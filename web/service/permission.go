package service

import (
	"context"
	"fmt"

	"github.com/userdesk/userdesk/database"
	"github.com/userdesk/userdesk/database/model"

	"gorm.io/gorm"
)

// PermissionService maps permission tier names to their catalog ids and back.
type PermissionService struct {
	db *gorm.DB
}

func NewPermissionService(db *gorm.DB) *PermissionService {
	return &PermissionService{db: db}
}

// ResolveID returns the id of the named tier, or ErrInvalidPermission when the
// name is not in the catalog.
func (s *PermissionService) ResolveID(ctx context.Context, name string) (int, error) {
	var perm model.Permission
	err := s.db.WithContext(ctx).Where("perm_name = ?", name).Take(&perm).Error
	if database.IsNotFound(err) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPermission, name)
	} else if err != nil {
		return 0, err
	}
	return perm.Id, nil
}

// ResolveName returns the tier name for id, or ErrNotFound.
func (s *PermissionService) ResolveName(ctx context.Context, id int) (string, error) {
	var perm model.Permission
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&perm).Error
	if database.IsNotFound(err) {
		return "", fmt.Errorf("permission %d: %w", id, ErrNotFound)
	} else if err != nil {
		return "", err
	}
	return perm.PermName, nil
}

// List returns the catalog ordered by id.
func (s *PermissionService) List(ctx context.Context) ([]model.Permission, error) {
	var perms []model.Permission
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}
