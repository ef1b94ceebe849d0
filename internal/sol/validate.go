package sol

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/caraveo/aske/pkg/types"
)

// ErrInvalidName is returned for container names limactl would reject or
// that cannot be used as a file name
var ErrInvalidName = errors.New("invalid container name")

var instanceNamePattern = regexp.MustCompile(`^[A-Za-z0-9]+([._-][A-Za-z0-9]+)*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("instancename", func(fl validator.FieldLevel) bool {
		return instanceNamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("engine", func(fl validator.FieldLevel) bool {
		_, err := ProfileFor(types.Engine(fl.Field().String()))
		return err == nil
	})
	return v
}

type createRequest struct {
	Name   string       `validate:"required,max=64,instancename"`
	Engine types.Engine `validate:"required,engine"`
}

// ValidateName checks that name is usable as a container name
func ValidateName(name string) error {
	if err := validate.Var(name, "required,max=64,instancename"); err != nil {
		return fmt.Errorf("%w %q: must start with a letter or digit and contain only letters, digits, '.', '_' or '-' (max 64)", ErrInvalidName, name)
	}
	return nil
}

func validateCreate(engine types.Engine, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := validate.Struct(createRequest{Name: name, Engine: engine}); err != nil {
		return fmt.Errorf("invalid create request: %w", err)
	}
	return nil
}
