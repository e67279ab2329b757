package auth

import (
	"context"
	"errors"

	"plantstore/internal/domain/model"
	"plantstore/internal/repository"
	"plantstore/internal/validator"
)

// Login はロールが一致したときだけトークンを発行する。
func (u *AuthUsecase) Login(ctx context.Context, email, password, role string) (Session, error) {
	if err := validator.ValidateLogin(validator.LoginInput{Email: email, Password: password, Role: role}); err != nil {
		return Session{}, err
	}
	wantRole, ok := model.ParseRole(role)
	if !ok {
		return Session{}, ErrInvalidRole
	}

	//emailでユーザー取得
	user, err := u.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}

	//パスワード照合
	if !u.verifier.Verify(password, user.PasswordHash) {
		return Session{}, ErrInvalidCredentials
	}

	//ロールは完全一致のみ（上位ロールでの代用なし）
	if user.Role != wantRole {
		return Session{}, ErrRoleMismatch
	}

	if !user.AccountVerified {
		return Session{}, ErrNotVerified
	}

	return u.issue(*user)
}
