package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/apikit/pkg/logger"
	"github.com/dmitrymomot/apikit/pkg/schema"
	"github.com/dmitrymomot/apikit/pkg/validator"
)

var ErrHashPassword = errors.New("catalog: failed to hash password")

// saveUser hashes the password of a UserIn and validates the result as
// UserInDB. Nothing is persisted; the record is only logged.
func (s *Service) saveUser(ctx context.Context, in *schema.Instance) (*schema.Instance, error) {
	raw := in.Map()
	password, _ := raw["password"].(string)
	delete(raw, "password")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, errors.Join(ErrHashPassword, err)
	}
	raw["hashed_password"] = string(hash)

	user, errs := s.validator.Model(raw, s.models.userInDB, validator.Loc{"user"})
	if len(errs) > 0 {
		return nil, fmt.Errorf("catalog: build %s: %w", s.models.userInDB.Name(), errs)
	}

	username, _ := user.Get("username")
	s.log.InfoContext(ctx, "user saved",
		logger.Model(s.models.userInDB.Name()),
		logger.Component("catalog"),
		logger.Event("save_user"),
		slog.Any("username", username),
	)
	return user, nil
}

// CheckPassword reports whether password matches a UserInDB hash.
func CheckPassword(user *schema.Instance, password string) bool {
	hash, _ := user.Get("hashed_password")
	h, ok := hash.(string)
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(h), []byte(password)) == nil
}
