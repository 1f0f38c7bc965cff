package validator

import (
	"log"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	abilityPattern  = regexp.MustCompile(`^[a-z0-9_-]+(\.[a-z0-9_-]+)+$|^[a-z0-9_-]+\.\*$`)
	roleNamePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)
)

func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'ability': dot-namespaced permission name, optionally a module
	// wildcard like "billing.*".
	mustRegister("ability", validateAbility)

	// 'rolename': machine name of a role.
	mustRegister("rolename", validateRoleName)
}

func validateAbility(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' handles empty values
	}
	if strings.Contains(value, "..") {
		return false
	}
	return abilityPattern.MatchString(value)
}

func validateRoleName(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return roleNamePattern.MatchString(value)
}
