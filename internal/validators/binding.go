package validators

import (
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	userdomain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/user"
)

var (
	registerOnce sync.Once
	codePattern  = regexp.MustCompile(`^[0-9]{6}$`)
)

// Register adds the custom tags used by request structs to gin's validator:
//
//	user_role      patient, professional or administrator
//	recovery_code  exactly six digits
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		_ = v.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
			return userdomain.ValidRole(fl.Field().String())
		})
		_ = v.RegisterValidation("recovery_code", func(fl validator.FieldLevel) bool {
			return codePattern.MatchString(fl.Field().String())
		})
	})
}
