package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error lists every field that failed its check, with a reason per field. It
// is a value for the handler to turn into a 400, never a panic.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, reason := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, reason))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Request shapes. One flat struct per endpoint payload; the validate tags are
// the whole schema.

type RegisterRequest struct {
	Nickname string `json:"nick_name" validate:"required,max=32"`
	Email    string `json:"email" validate:"required,email,max=64"`
	Password string `json:"password" validate:"required,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RoomRequest struct {
	UserID   uint   `json:"user_id" validate:"required"`
	RoomName string `json:"room_name" validate:"required,max=64"`
}

type MessageRequest struct {
	UserID uint   `json:"user_id" validate:"required"`
	Body   string `json:"msg" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report failures under the json field name the caller actually sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Check runs the struct's validate tags and converts any failures into a
// *Error keyed by field name.
func Check(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = reason(fe)
	}
	return &Error{Fields: fields}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "email":
		return fmt.Sprintf("%v is not a valid email", fe.Value())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
