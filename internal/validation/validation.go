package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var phoneRe = regexp.MustCompile(`^[0-9]{10,11}$`)

// Violation: 400 yanıtındaki alan bazlı hata satırı
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Alan adları Go isimleri yerine json tag'leriyle raporlanır
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// 10-11 haneli telefon numarası (örn: 05321234567)
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})

	return v
}

// Struct: verilen isteği doğrular; her ihlal edilen alan için bir kayıt döner.
// Boş liste geçerli demektir.
func Struct(s interface{}) []Violation {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []Violation{{Field: "", Message: err.Error()}}
	}

	violations := make([]Violation, 0, len(verrs))
	for _, fe := range verrs {
		violations = append(violations, Violation{
			Field:   fieldPath(fe.Namespace()),
			Message: messageFor(fe),
		})
	}
	return violations
}

// fieldPath: "CreateOrderRequest.items[0].quantity" -> "items[0].quantity"
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "zorunlu alan"
	case "min":
		return fmt.Sprintf("en az %s olmalı", fe.Param())
	case "max":
		return fmt.Sprintf("en fazla %s olabilir", fe.Param())
	case "gte":
		return fmt.Sprintf("%s veya daha büyük olmalı", fe.Param())
	case "gt":
		return fmt.Sprintf("%s değerinden büyük olmalı", fe.Param())
	case "email":
		return "geçerli bir email olmalı"
	case "numeric":
		return "sayısal olmalı"
	case "len":
		return fmt.Sprintf("uzunluk %s olmalı", fe.Param())
	case "phone":
		return "10-11 haneli telefon numarası olmalı"
	default:
		return fmt.Sprintf("geçersiz değer (%s)", fe.Tag())
	}
}
