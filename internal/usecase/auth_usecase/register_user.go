package auth

import (
	"context"
	"errors"
	"strings"

	"plantstore/internal/domain/model"
	"plantstore/internal/repository"
	"plantstore/internal/validator"
)

// 会員登録の入力
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
	Role      string
}

// Register は未認証ユーザーを作ってOTPをメールで送る。
// 未認証の同じメール/電話のアカウントは作り直す。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	if err := validator.ValidateRegister(validator.RegisterInput{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Password:  in.Password,
	}); err != nil {
		return model.User{}, err
	}

	role := model.RoleCustomer
	if r := strings.TrimSpace(in.Role); r != "" {
		parsed, ok := model.ParseRole(r)
		if !ok {
			return model.User{}, ErrInvalidRole
		}
		role = parsed
	}

	email := normalizeEmail(in.Email)
	phone := strings.TrimSpace(in.Phone)

	// 認証済みが1件でもあれば登録済み
	existing, err := u.users.FindByEmailOrPhone(ctx, email, phone)
	if err != nil {
		return model.User{}, err
	}
	for _, ex := range existing {
		if ex.AccountVerified {
			return model.User{}, ErrUserAlreadyRegistered
		}
	}
	if len(existing) > 0 {
		if err := u.users.DeleteUnverified(ctx, email, phone); err != nil {
			return model.User{}, err
		}
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, err
	}

	code, err := u.secrets.OTP()
	if err != nil {
		return model.User{}, err
	}
	expire := u.clock.Now().Add(otpTTL)

	user := &model.User{
		FirstName:              strings.TrimSpace(in.FirstName),
		LastName:               strings.TrimSpace(in.LastName),
		Email:                  email,
		Phone:                  phone,
		PasswordHash:           hashed, // ハッシュを保存（平文は保存しない）
		Role:                   role,
		VerificationCodeHash:   hashSecret(code),
		VerificationCodeExpire: &expire,
	}

	// DBへ保存
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.User{}, ErrUserAlreadyRegistered
		}
		return model.User{}, err
	}

	if err := u.mailer.SendOTP(ctx, user.Email, user.FirstName, code); err != nil {
		u.log.ErrorContext(ctx, "otp mail failed", "user_id", user.ID, "error", err)
		return model.User{}, ErrMailDelivery
	}

	return *user, nil
}

// VerifyOTP はコードを確認して認証済みにし、ログイン状態にする。
func (u *AuthUsecase) VerifyOTP(ctx context.Context, email, otp string) (Session, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(otp) == "" {
		return Session{}, &validator.Error{Message: "Please provide email and OTP"}
	}

	user, err := u.findUnverified(ctx, email)
	if err != nil {
		return Session{}, err
	}

	if user.VerificationCodeHash == "" || !secretEqual(strings.TrimSpace(otp), user.VerificationCodeHash) {
		return Session{}, ErrInvalidOTP
	}
	if user.VerificationCodeExpire == nil || u.clock.Now().After(*user.VerificationCodeExpire) {
		return Session{}, ErrOTPExpired
	}

	user.AccountVerified = true
	user.VerificationCodeHash = ""
	user.VerificationCodeExpire = nil
	if err := u.users.Update(ctx, user); err != nil {
		return Session{}, err
	}

	return u.issue(*user)
}

// ResendOTP は新しいコードを作り直して送る。
func (u *AuthUsecase) ResendOTP(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return &validator.Error{Message: "Please provide email"}
	}

	user, err := u.findUnverified(ctx, email)
	if err != nil {
		return err
	}

	code, err := u.secrets.OTP()
	if err != nil {
		return err
	}
	expire := u.clock.Now().Add(otpTTL)
	user.VerificationCodeHash = hashSecret(code)
	user.VerificationCodeExpire = &expire
	if err := u.users.Update(ctx, user); err != nil {
		return err
	}

	if err := u.mailer.SendOTP(ctx, user.Email, user.FirstName, code); err != nil {
		u.log.ErrorContext(ctx, "otp mail failed", "user_id", user.ID, "error", err)
		return ErrMailDelivery
	}
	return nil
}

// 未認証ユーザーだけを返す。認証済み・存在しないはErrUserNotFound
func (u *AuthUsecase) findUnverified(ctx context.Context, email string) (*model.User, error) {
	user, err := u.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if user.AccountVerified {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
