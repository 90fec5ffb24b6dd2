package service

import (
	"StreamVault/config"
	"StreamVault/utils"
)

// User is an authenticated operator account.
type User struct {
	ID       string
	Username string
	Email    string
	Role     string
}

// UserStore resolves and authenticates users. The production store is
// built from the configured admin credentials; tests substitute fakes.
type UserStore interface {
	AuthenticateUser(username, password string) (*User, bool)
	GetUserByName(username string) (*User, bool)
}

// Users is the active user store.
var Users UserStore

type configUserStore struct {
	admin        User
	passwordHash string
}

// NewConfigUserStore builds a store holding the single admin account
// from configuration. The password hash is computed once at init.
func NewConfigUserStore() UserStore {
	return &configUserStore{
		admin: User{
			ID:       "admin-001",
			Username: config.AppConfig.AdminUsername,
			Email:    config.AppConfig.AdminEmail,
			Role:     "admin",
		},
		passwordHash: utils.GetPwd(config.AppConfig.AdminPassword),
	}
}

// InitUserStore installs the config-backed user store.
func InitUserStore() {
	Users = NewConfigUserStore()
}

func (s *configUserStore) AuthenticateUser(username, password string) (*User, bool) {
	if username != s.admin.Username {
		return nil, false
	}
	if !utils.CheckPwd(password, s.passwordHash) {
		return nil, false
	}
	user := s.admin
	return &user, true
}

func (s *configUserStore) GetUserByName(username string) (*User, bool) {
	if username != s.admin.Username {
		return nil, false
	}
	user := s.admin
	return &user, true
}
