package validator

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error は入力エラー。メッセージはそのままクライアントに返す。
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func invalid(msg string) error {
	return &Error{Message: msg}
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 数字のみ（先頭の+は可）
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for i, r := range s {
			if r == '+' && i == 0 {
				continue
			}
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	})
	return v
}

type RegisterInput struct {
	FirstName string `validate:"required,min=2"`
	LastName  string `validate:"required,min=2"`
	Email     string `validate:"required,email"`
	Phone     string `validate:"required,min=10,max=15,phone"`
	Password  string `validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
	Role     string `validate:"required"`
}

// フィールドとタグの組み合わせごとの表示メッセージ
var messages = map[string]string{
	"FirstName.min": "Name must be at least 2 characters",
	"LastName.min":  "Name must be at least 2 characters",
	"Email.email":   "Please provide a valid email",
	"Phone.min":     "Phone number must be 10 to 15 digits",
	"Phone.max":     "Phone number must be 10 to 15 digits",
	"Phone.phone":   "Phone number must be 10 to 15 digits",
	"Password.min":  "Password must be at least 6 characters",
}

// サインアップの入力を検証（前後の空白は除いてから）
func ValidateRegister(in RegisterInput) error {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	return translate(validate.Struct(in), "All fields are required")
}

// ログインの入力を検証
func ValidateLogin(in LoginInput) error {
	in.Email = strings.TrimSpace(in.Email)
	in.Role = strings.TrimSpace(in.Role)
	return translate(validate.Struct(in), "Please provide email, password and role")
}

func ValidatePassword(password string) error {
	if err := validate.Var(password, "required,min=6"); err != nil {
		return invalid(messages["Password.min"])
	}
	return nil
}

func translate(err error, requiredMsg string) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return invalid("invalid input")
	}

	//必須の欠けを優先して返す
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return invalid(requiredMsg)
		}
	}
	fe := verrs[0]
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return invalid(msg)
	}
	return invalid("Invalid " + strings.ToLower(fe.Field()))
}
