package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"plantstore/internal/domain/model"
	"plantstore/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const (
	otpTTL        = 10 * time.Minute
	resetTokenTTL = 15 * time.Minute
)

var (
	// 400
	ErrUserAlreadyRegistered = errors.New("User already registered")
	ErrInvalidCredentials    = errors.New("Invalid password or email")
	ErrRoleMismatch          = errors.New("User with this role not found")
	ErrInvalidRole           = errors.New("Invalid role")
	ErrInvalidOTP            = errors.New("Invalid OTP")
	ErrOTPExpired            = errors.New("OTP expired")
	ErrInvalidResetToken     = errors.New("Reset password token is invalid or has been expired")
	ErrPasswordMismatch      = errors.New("Password and confirm password do not match")

	// 403
	ErrNotVerified = errors.New("Please verify your account first")

	// 404
	ErrUserNotFound = errors.New("User not found")

	// 500
	ErrMailDelivery = errors.New("Failed to send email")
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// JWTを発行する約束
type TokenIssuer interface {
	Issue(userID int64, role model.Role, tokenVersion int, now time.Time) (token string, expiresAt time.Time, err error)
}

type Mailer interface {
	SendOTP(ctx context.Context, to, name, code string) error
	SendPasswordReset(ctx context.Context, to, name, resetURL string) error
}

// OTPとリセットトークンを作る
type SecretGenerator interface {
	OTP() (string, error)
	ResetToken() (string, error)
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// handlerがcookieに詰める値
type Session struct {
	User      model.User
	Token     string
	ExpiresAt time.Time
}

type AuthUsecase struct {
	users    repository.UserRepository
	hasher   PasswordHasher
	verifier PasswordVerifier
	issuer   TokenIssuer
	mailer   Mailer
	secrets  SecretGenerator
	clock    Clock
	feURL    string
	log      *slog.Logger
}

type Deps struct {
	Users    repository.UserRepository
	Hasher   PasswordHasher
	Verifier PasswordVerifier
	Issuer   TokenIssuer
	Mailer   Mailer
	Secrets  SecretGenerator
	Clock    Clock
	FEURL    string
	Log      *slog.Logger
}

// DI
func NewAuthUsecase(d Deps) *AuthUsecase {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	return &AuthUsecase{
		users:    d.Users,
		hasher:   d.Hasher,
		verifier: d.Verifier,
		issuer:   d.Issuer,
		mailer:   d.Mailer,
		secrets:  d.Secrets,
		clock:    d.Clock,
		feURL:    d.FEURL,
		log:      d.Log,
	}
}

func (u *AuthUsecase) issue(user model.User) (Session, error) {
	token, exp, err := u.issuer.Issue(user.ID, user.Role, user.TokenVersion, u.clock.Now())
	if err != nil {
		return Session{}, err
	}
	return Session{User: user, Token: token, ExpiresAt: exp}, nil
}

// 保存するのはsha256だけ
func hashSecret(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

func secretEqual(plain, hashed string) bool {
	return subtle.ConstantTimeCompare([]byte(hashSecret(plain)), []byte(hashed)) == 1
}

// bcryptハッシュ化
type BcryptPasswordHasher struct {
	cost int
}

// DI
func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost}
}

// bcryptでハッシュ化
func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// bcryptハッシュと平文を比較
type BcryptPasswordVerifier struct{}

// DI
func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

func (v *BcryptPasswordVerifier) Verify(plain string, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// OSの乱数で作る
type RandomSecrets struct{}

// 5桁（10000〜99999）
func (RandomSecrets) OTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(90000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%05d", n.Int64()+10000), nil
}

// 20バイトのhex
func (RandomSecrets) ResetToken() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
