package service

import (
	"context"

	"github.com/userdesk/userdesk/database"
	"github.com/userdesk/userdesk/database/model"
	"github.com/userdesk/userdesk/logger"
	"github.com/userdesk/userdesk/util/crypto"

	"gorm.io/gorm"
)

// AuthService answers login and authorization questions against the user
// table. Blocked users are invisible to every method.
type AuthService struct {
	db     *gorm.DB
	hasher *crypto.Hasher
}

func NewAuthService(db *gorm.DB, hasher *crypto.Hasher) *AuthService {
	return &AuthService{db: db, hasher: hasher}
}

type credentialRow struct {
	Login    string
	Password string
	PermName string
}

// activeUser loads login joined with its tier, skipping blocked users.
func (s *AuthService) activeUser(ctx context.Context, login string) (*credentialRow, error) {
	var row credentialRow
	err := s.db.WithContext(ctx).
		Model(&model.User{}).
		Select(`"user".login, "user".password, permissions.perm_name`).
		Joins(`JOIN permissions ON permissions.id = "user".permissions`).
		Where(`"user".login = ? AND permissions.perm_name <> ?`, login, model.PermBlock).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// CheckCredentials reports whether login exists, is not blocked and password
// matches its stored digest.
func (s *AuthService) CheckCredentials(ctx context.Context, login, password string) bool {
	row, err := s.activeUser(ctx, login)
	if err != nil {
		if !database.IsNotFound(err) {
			logger.Warning("credential lookup failed:", err)
		}
		return false
	}
	return s.hasher.Verify(password, row.Password)
}

// AuthorizedUserID returns identity when it still names an active user.
func (s *AuthService) AuthorizedUserID(ctx context.Context, identity string) (string, bool) {
	if identity == "" {
		return "", false
	}
	row, err := s.activeUser(ctx, identity)
	if err != nil {
		if !database.IsNotFound(err) {
			logger.Warning("identity lookup failed:", err)
		}
		return "", false
	}
	return row.Login, true
}

// Permits reports whether identity holds exactly the given tier.
func (s *AuthService) Permits(ctx context.Context, identity, permission string) bool {
	if identity == "" {
		return false
	}
	row, err := s.activeUser(ctx, identity)
	if err != nil {
		return false
	}
	return row.PermName == permission
}
