// Package validate 表单校验
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// PasswordMinLength 密码最短长度
const PasswordMinLength = 8

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// Result 校验结果，Message 用于提示用户
type Result struct {
	Valid   bool
	Message string
}

var ok = Result{Valid: true}

func fail(format string, args ...any) Result {
	return Result{Message: fmt.Sprintf(format, args...)}
}

// Email 邮箱格式
func Email(s string) bool { return emailRe.MatchString(s) }

// Phone 10 位印度手机号
func Phone(s string) bool { return phoneRe.MatchString(s) }

// Password 至少 8 位，且同时包含大写字母、小写字母和数字
func Password(s string) bool {
	return len(s) >= PasswordMinLength && passwordMix(s)
}

func passwordMix(s string) bool {
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return upper && lower && digit
}

// ConfirmPassword 两次输入一致且非空
func ConfirmPassword(password, confirm string) bool {
	return confirm != "" && password == confirm
}

// Required 非空白
func Required(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) != ""
}

// DateRange 结束日期不早于开始日期（按日历日比较）
func DateRange(start, end time.Time) bool {
	if start.IsZero() || end.IsZero() {
		return false
	}
	return !dateOf(end).Before(dateOf(start))
}

// NotPast 日期不早于 today 所在日
func NotPast(d, today time.Time) bool {
	return !d.IsZero() && !dateOf(d).Before(dateOf(today))
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CheckRequired field 为字段显示名
func CheckRequired(s, field string) Result {
	if !Required(s) {
		return fail("%s is required", field)
	}
	return ok
}

func CheckEmail(s string) Result {
	switch {
	case s == "":
		return fail("Email is required")
	case !Email(s):
		return fail("Please enter a valid email address")
	}
	return ok
}

func CheckPhone(s string) Result {
	switch {
	case s == "":
		return fail("Phone number is required")
	case !Phone(s):
		return fail("Please enter a valid 10-digit phone number")
	}
	return ok
}

func CheckPassword(s string) Result {
	switch {
	case s == "":
		return fail("Password is required")
	case len(s) < PasswordMinLength:
		return fail("Password must be at least %d characters long", PasswordMinLength)
	case !passwordMix(s):
		return fail("Password must contain uppercase, lowercase, and number")
	}
	return ok
}

func CheckConfirmPassword(password, confirm string) Result {
	switch {
	case confirm == "":
		return fail("Please confirm your password")
	case password != confirm:
		return fail("Passwords do not match")
	}
	return ok
}

// CheckDateRange 校验取还车日期，today 用于拒绝过去的取车日期
func CheckDateRange(start, end, today time.Time) Result {
	switch {
	case start.IsZero():
		return fail("Pickup date is required")
	case end.IsZero():
		return fail("Drop-off date is required")
	case !NotPast(start, today):
		return fail("Pickup date must be today or in the future")
	case !DateRange(start, end):
		return fail("Drop-off date must not be before pickup date")
	}
	return ok
}

// First 返回第一个失败的结果，全部通过时返回 ok
func First(results ...Result) Result {
	for _, r := range results {
		if !r.Valid {
			return r
		}
	}
	return ok
}

// Register 注册自定义 tag: phone、strongpwd
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return Phone(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("register phone: %w", err)
	}
	if err := v.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
		return Password(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("register strongpwd: %w", err)
	}
	return nil
}

// Message 将 binding 错误转换为面向用户的提示
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Please check the form and try again"
	}
	fe := verrs[0]
	field := label(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return CheckEmail("invalid").Message
	case "phone":
		return CheckPhone("invalid").Message
	case "strongpwd":
		return CheckPassword(fmt.Sprint(fe.Value())).Message
	case "eqfield":
		return CheckConfirmPassword("a", "b").Message
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s", field, fe.Param())
	}
	return field + " is invalid"
}

// label FullName -> Full name
func label(field string) string {
	var b strings.Builder
	for i, r := range field {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
