package service

import (
	"context"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/userdesk/userdesk/database"
	"github.com/userdesk/userdesk/database/model"
	"github.com/userdesk/userdesk/logger"
	"github.com/userdesk/userdesk/util/crypto"

	"gorm.io/gorm"
)

const (
	maxLoginLength = 128
	maxNameLength  = 32
)

// UserInput carries the fields of a create or update request. A nil field was
// not supplied.
type UserInput struct {
	Name        *string
	Surname     *string
	Login       *string
	Password    *string
	DateOfBirth *string
	Permissions *string
}

// UserRecord is a user joined with the name of its permission tier.
type UserRecord struct {
	Id          int
	Name        *string
	Surname     *string
	Login       string
	Password    string
	DateOfBirth *time.Time
	Permissions string
}

// userRow is the scan target of the user/permissions join.
type userRow struct {
	Id          int
	Name        *string
	Surname     *string
	Login       string
	Password    string
	DateOfBirth *time.Time
	PermName    string
}

const userColumns = `"user".id, "user".name, "user".surname, "user".login, "user".password, "user".date_of_birth, permissions.perm_name`

func (r *userRow) toRecord() *UserRecord {
	return &UserRecord{
		Id:          r.Id,
		Name:        r.Name,
		Surname:     r.Surname,
		Login:       r.Login,
		Password:    r.Password,
		DateOfBirth: r.DateOfBirth,
		Permissions: r.PermName,
	}
}

// UserService manages rows of the user table.
type UserService struct {
	db          *gorm.DB
	hasher      *crypto.Hasher
	permissions *PermissionService
}

func NewUserService(db *gorm.DB, hasher *crypto.Hasher) *UserService {
	return &UserService{
		db:          db,
		hasher:      hasher,
		permissions: NewPermissionService(db),
	}
}

func (s *UserService) joined(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&model.User{}).
		Select(userColumns).
		Joins(`JOIN permissions ON permissions.id = "user".permissions`)
}

// Create validates in, hashes the password and inserts a new user.
func (s *UserService) Create(ctx context.Context, in UserInput) (*UserRecord, error) {
	if in.Login == nil {
		return nil, fmt.Errorf("%w: login is required", ErrInvalidLogin)
	}
	if in.Password == nil {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidField)
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	user := &model.User{
		Name:    in.Name,
		Surname: in.Surname,
		Login:   *in.Login,
	}
	hashed, err := s.hasher.Hash(*in.Password)
	if err != nil {
		return nil, err
	}
	user.Password = hashed

	if in.DateOfBirth != nil {
		birth, err := parseDate(*in.DateOfBirth)
		if err != nil {
			return nil, err
		}
		user.DateOfBirth = &birth
	}
	if in.Permissions != nil {
		permID, err := s.permissions.ResolveID(ctx, *in.Permissions)
		if err != nil {
			return nil, err
		}
		user.PermissionId = &permID
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if database.IsDuplicate(err) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateLogin, user.Login)
		}
		return nil, err
	}
	logger.Infof("user %s created with id %d", user.Login, user.Id)
	return s.byID(ctx, user.Id)
}

// Read returns the user addressed by slug, or nil when there is none.
func (s *UserService) Read(ctx context.Context, slug string) (*UserRecord, error) {
	query, arg := slugCondition(slug)

	var row userRow
	err := s.joined(ctx).Where(query, arg).Take(&row).Error
	if database.IsNotFound(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return row.toRecord(), nil
}

// ReadAll returns every user that has a permission tier, ordered by id.
func (s *UserService) ReadAll(ctx context.Context) ([]UserRecord, error) {
	var rows []userRow
	if err := s.joined(ctx).Order(`"user".id ASC`).Find(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]UserRecord, 0, len(rows))
	for i := range rows {
		records = append(records, *rows[i].toRecord())
	}
	return records, nil
}

// Update changes the supplied fields of the user addressed by slug.
func (s *UserService) Update(ctx context.Context, slug string, in UserInput) (*UserRecord, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	columns := map[string]any{}
	if in.Name != nil {
		columns["name"] = *in.Name
	}
	if in.Surname != nil {
		columns["surname"] = *in.Surname
	}
	if in.Login != nil {
		columns["login"] = *in.Login
	}
	if in.DateOfBirth != nil {
		birth, err := parseDate(*in.DateOfBirth)
		if err != nil {
			return nil, err
		}
		columns["date_of_birth"] = birth
	}
	if in.Password != nil {
		hashed, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		columns["password"] = hashed
	}
	if in.Permissions != nil {
		permID, err := s.permissions.ResolveID(ctx, *in.Permissions)
		if err != nil {
			return nil, err
		}
		columns["permissions"] = permID
	}

	query, arg := slugCondition(slug)
	var target model.User
	err := s.db.WithContext(ctx).Where(query, arg).Take(&target).Error
	if database.IsNotFound(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, slug)
	} else if err != nil {
		return nil, err
	}

	if len(columns) > 0 {
		result := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", target.Id).Updates(columns)
		if result.Error != nil {
			if database.IsDuplicate(result.Error) {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateLogin, *in.Login)
			}
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, slug)
		}
	}
	return s.byID(ctx, target.Id)
}

// Delete removes the user addressed by slug and reports the rows affected.
func (s *UserService) Delete(ctx context.Context, slug string) (int64, error) {
	query, arg := slugCondition(slug)
	result := s.db.WithContext(ctx).Where(query, arg).Delete(&model.User{})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		logger.Infof("user %s deleted", slug)
	}
	return result.RowsAffected, nil
}

// byID loads a freshly written row and resolves its tier name.
func (s *UserService) byID(ctx context.Context, id int) (*UserRecord, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Take(&user, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		return nil, err
	}

	record := &UserRecord{
		Id:          user.Id,
		Name:        user.Name,
		Surname:     user.Surname,
		Login:       user.Login,
		Password:    user.Password,
		DateOfBirth: user.DateOfBirth,
	}
	if user.PermissionId != nil {
		name, err := s.permissions.ResolveName(ctx, *user.PermissionId)
		if err != nil {
			return nil, err
		}
		record.Permissions = name
	}
	return record, nil
}

// slugCondition addresses a user by id when slug is all decimal digits and by
// exact login otherwise.
func slugCondition(slug string) (string, any) {
	if !IsNumeric(slug) {
		return `"user".login = ?`, slug
	}
	id, err := strconv.Atoi(slug)
	if err != nil {
		// out of range, matches nothing
		return `"user".id = ?`, -1
	}
	return `"user".id = ?`, id
}

// IsNumeric reports whether s is a non-empty string of ASCII decimal digits.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func validateInput(in UserInput) error {
	if in.Login != nil {
		login := *in.Login
		switch {
		case login == "":
			return fmt.Errorf("%w: login should not be empty", ErrInvalidLogin)
		case IsNumeric(login):
			return fmt.Errorf("%w: login should not be numeric", ErrInvalidLogin)
		case utf8.RuneCountInString(login) > maxLoginLength:
			return fmt.Errorf("%w: login is longer than %d characters", ErrInvalidLogin, maxLoginLength)
		}
	}
	if in.Password != nil && *in.Password == "" {
		return fmt.Errorf("%w: password should not be empty", ErrInvalidField)
	}
	if in.Name != nil && utf8.RuneCountInString(*in.Name) > maxNameLength {
		return fmt.Errorf("%w: name is longer than %d characters", ErrInvalidField, maxNameLength)
	}
	if in.Surname != nil && utf8.RuneCountInString(*in.Surname) > maxNameLength {
		return fmt.Errorf("%w: surname is longer than %d characters", ErrInvalidField, maxNameLength)
	}
	return nil
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not an ISO date", ErrInvalidDate, value)
	}
	return t, nil
}
