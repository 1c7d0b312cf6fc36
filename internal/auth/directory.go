package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"pos/internal/domain"

	"gopkg.in/yaml.v3"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Directory is the static credential list loaded at startup. Passwords are
// compared in plain text; it gates a demo desk and is not a security control.
type Directory struct {
	users []domain.User
}

type directoryFile struct {
	Users []domain.User `yaml:"users"`
}

// LoadDirectory reads a YAML file with a top-level users list. JSON files
// with the same shape parse too.
func LoadDirectory(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read users file %s: %w", path, err)
	}
	return ParseDirectory(data)
}

func ParseDirectory(data []byte) (*Directory, error) {
	var file directoryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse users file: %w", err)
	}
	return NewDirectory(file.Users)
}

func NewDirectory(users []domain.User) (*Directory, error) {
	list := make([]domain.User, 0, len(users))
	for idx, user := range users {
		user.Username = strings.TrimSpace(user.Username)
		if user.Username == "" {
			return nil, fmt.Errorf("users[%d]: username is required", idx)
		}
		if user.Password == "" {
			return nil, fmt.Errorf("users[%d]: password is required", idx)
		}
		list = append(list, user)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("users file has no users")
	}
	return &Directory{users: list}, nil
}

// Authenticate returns the matching user. Unknown users and wrong
// passwords fail the same way.
func (d *Directory) Authenticate(username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	for _, user := range d.users {
		if user.Username == username && user.Password == password {
			return domain.User{Username: user.Username}, nil
		}
	}
	return domain.User{}, ErrInvalidCredentials
}

func (d *Directory) Len() int {
	return len(d.users)
}
