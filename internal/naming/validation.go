package naming

import (
	"fmt"
	"strings"
	"unicode"

	utilvalidation "k8s.io/apimachinery/pkg/util/validation"
)

const (
	applicationNameMaxLength = utilvalidation.DNS1123LabelMaxLength
	componentNameMaxLength   = 52 // leaves room for controller generated suffixes (CronJob -> Job -> Pod)
)

func validateDNS1123Label(name string, maximum int, labelKind string) error {
	if name == "" {
		return fmt.Errorf("%s name must not be empty", labelKind)
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%s name cannot contain whitespace", labelKind)
	}
	if len(name) > maximum {
		return fmt.Errorf("%s name exceeds %d characters", labelKind, maximum)
	}
	if errs := utilvalidation.IsDNS1123Label(name); len(errs) > 0 {
		return fmt.Errorf("invalid %s name: %s", labelKind, strings.Join(errs, ", "))
	}
	return nil
}

// ValidateApplicationName checks an application name, which doubles as its namespace.
func ValidateApplicationName(name string) error {
	return validateDNS1123Label(name, applicationNameMaxLength, "application")
}

// ValidateComponentName checks a component name, which names its cluster objects.
func ValidateComponentName(name string) error {
	return validateDNS1123Label(name, componentNameMaxLength, "component")
}
