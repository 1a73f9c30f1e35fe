// Package entity defines the request and response bodies of the userdesk HTTP API.
package entity

import (
	"time"

	"github.com/userdesk/userdesk/web/service"
)

// Msg is the body of responses that carry no record. Obj names the login the
// session was opened or closed for.
type Msg struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	Obj     any    `json:"obj,omitempty"`
}

// ErrorMsg is the body of every failed request.
type ErrorMsg struct {
	Error string `json:"error"`
}

// LoginForm is the body of POST /login.
type LoginForm struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateUserForm is the body of POST /user.
type CreateUserForm struct {
	Name        *string `json:"name" binding:"omitempty,max=32"`
	Surname     *string `json:"surname" binding:"omitempty,max=32"`
	Login       *string `json:"login" binding:"required,min=1,max=128,notnumeric"`
	Password    *string `json:"password" binding:"required"`
	DateOfBirth *string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Permissions *string `json:"permissions" binding:"omitempty,oneof=admin read block"`
}

func (f *CreateUserForm) Input() service.UserInput {
	return service.UserInput{
		Name:        f.Name,
		Surname:     f.Surname,
		Login:       f.Login,
		Password:    f.Password,
		DateOfBirth: f.DateOfBirth,
		Permissions: f.Permissions,
	}
}

// UpdateUserForm is the body of PATCH /user/:slug. Absent and null keys leave
// the column untouched.
type UpdateUserForm struct {
	Name        *string `json:"name" binding:"omitempty,max=32"`
	Surname     *string `json:"surname" binding:"omitempty,max=32"`
	Login       *string `json:"login" binding:"omitempty,min=1,max=128,notnumeric"`
	Password    *string `json:"password"`
	DateOfBirth *string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Permissions *string `json:"permissions" binding:"omitempty,oneof=admin read block"`
}

func (f *UpdateUserForm) Input() service.UserInput {
	return service.UserInput{
		Name:        f.Name,
		Surname:     f.Surname,
		Login:       f.Login,
		Password:    f.Password,
		DateOfBirth: f.DateOfBirth,
		Permissions: f.Permissions,
	}
}

// User is the public view of a user record. The password digest is never
// rendered.
type User struct {
	Id          int     `json:"id"`
	Name        *string `json:"name"`
	Surname     *string `json:"surname"`
	Login       string  `json:"login"`
	DateOfBirth *string `json:"date_of_birth"`
	Permissions string  `json:"permissions"`
}

func NewUser(r *service.UserRecord) User {
	u := User{
		Id:          r.Id,
		Name:        r.Name,
		Surname:     r.Surname,
		Login:       r.Login,
		Permissions: r.Permissions,
	}
	if r.DateOfBirth != nil {
		d := r.DateOfBirth.Format(time.DateOnly)
		u.DateOfBirth = &d
	}
	return u
}

func NewUsers(records []service.UserRecord) []User {
	users := make([]User, 0, len(records))
	for i := range records {
		users = append(users, NewUser(&records[i]))
	}
	return users
}
