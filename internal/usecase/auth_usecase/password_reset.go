package auth

import (
	"context"
	"errors"
	"strings"

	"plantstore/internal/repository"
	"plantstore/internal/validator"
)

// ForgotPassword はリセット用リンクをメールで送る。
func (u *AuthUsecase) ForgotPassword(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return &validator.Error{Message: "Please provide email"}
	}

	user, err := u.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if !user.AccountVerified {
		return ErrUserNotFound
	}

	token, err := u.secrets.ResetToken()
	if err != nil {
		return err
	}
	expire := u.clock.Now().Add(resetTokenTTL)
	user.ResetPasswordTokenHash = hashSecret(token)
	user.ResetPasswordExpire = &expire
	if err := u.users.Update(ctx, user); err != nil {
		return err
	}

	resetURL := strings.TrimRight(u.feURL, "/") + "/password/reset/" + token
	if err := u.mailer.SendPasswordReset(ctx, user.Email, user.FirstName, resetURL); err != nil {
		u.log.ErrorContext(ctx, "reset mail failed", "user_id", user.ID, "error", err)

		//送れなかったトークンは残さない
		user.ResetPasswordTokenHash = ""
		user.ResetPasswordExpire = nil
		if uerr := u.users.Update(ctx, user); uerr != nil {
			u.log.ErrorContext(ctx, "reset token cleanup failed", "user_id", user.ID, "error", uerr)
		}
		return ErrMailDelivery
	}
	return nil
}

// ResetPassword は新しいパスワードを設定し、発行済みのトークンを無効にする。
func (u *AuthUsecase) ResetPassword(ctx context.Context, token, password, confirmPassword string) (Session, error) {
	if strings.TrimSpace(token) == "" {
		return Session{}, ErrInvalidResetToken
	}

	user, err := u.users.FindByResetTokenHash(ctx, hashSecret(token))
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, ErrInvalidResetToken
	}
	if err != nil {
		return Session{}, err
	}
	if user.ResetPasswordExpire == nil || u.clock.Now().After(*user.ResetPasswordExpire) {
		return Session{}, ErrInvalidResetToken
	}

	if password != confirmPassword {
		return Session{}, ErrPasswordMismatch
	}
	if err := validator.ValidatePassword(password); err != nil {
		return Session{}, err
	}

	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return Session{}, err
	}
	user.PasswordHash = hashed
	user.ResetPasswordTokenHash = ""
	user.ResetPasswordExpire = nil
	user.TokenVersion++
	if err := u.users.Update(ctx, user); err != nil {
		return Session{}, err
	}

	return u.issue(*user)
}
