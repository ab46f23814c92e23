// Package validate implements structural validation for the entity model.
// Validation results are field->message maps returned as data: the
// functions never return an error and never panic on bad input, so callers
// can render per-field messages directly.
package validate

import (
	"reflect"
	"strings"

	"github.com/coverdesk/insurance-backoffice-go/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Result maps a failing field name (lowerCamel, as serialized) to a
// human-readable message. An empty Result means the candidate is valid.
type Result map[string]string

// Valid reports whether no field failed.
func (r Result) Valid() bool { return len(r) == 0 }

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()

	// Report json field names instead of Go struct names.
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Treat domain.Date as its underlying time.Time so `required` sees the
	// zero value.
	val.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(domain.Date); ok {
			return d.Time
		}
		return nil
	}, domain.Date{})

	return val
}

// Customer checks required fields and the email pattern.
func Customer(c domain.Customer) Result {
	return collect(v.Struct(c), nil)
}

// Policy checks the type enumerator, date ordering, coverage amount and
// owning customer id.
func Policy(p domain.Policy) Result {
	res := collect(v.Struct(p), nil)
	// Cross-field rule: endDate strictly after startDate. Skipped when
	// either date already failed `required`, so a missing date gets one
	// message, not two.
	_, startFailed := res["startDate"]
	_, endFailed := res["endDate"]
	if !startFailed && !endFailed && !p.EndDate.After(p.StartDate.Time) {
		res = ensure(res)
		res["endDate"] = "endDate must be after startDate"
	}
	return res
}

// Claim checks date, description, claimed amount and owning policy id on a
// new or updated claim. Status and settlement are lifecycle concerns and
// are not validated here.
func Claim(c domain.Claim) Result {
	return collect(v.Struct(c), nil)
}

// ClaimUpdate checks the mutable claim fields.
func ClaimUpdate(u domain.ClaimUpdate) Result {
	return collect(v.Struct(u), nil)
}

// collect translates validator errors into a Result. Non-field errors
// (which only occur on programmer mistakes, not on bad data) surface as a
// single "_" entry rather than a panic.
func collect(err error, res Result) Result {
	if err == nil {
		return res
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		res = ensure(res)
		res["_"] = err.Error()
		return res
	}
	res = ensure(res)
	for _, fe := range verrs {
		if _, seen := res[fe.Field()]; seen {
			continue
		}
		res[fe.Field()] = message(fe)
	}
	return res
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "must be a valid email address"
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return fe.Field() + " is invalid"
	}
}

func ensure(res Result) Result {
	if res == nil {
		return make(Result)
	}
	return res
}
