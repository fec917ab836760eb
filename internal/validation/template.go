package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxTemplateNameLength = 128

var (
	templateNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_.-]*$`)
	githubRepoRegex   = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+(@[^\s@]+)?$`)
	gitURLPrefixes    = []string{"https://", "http://", "ssh://", "git://", "file://", "git@"}
)

func stringField(fl validator.FieldLevel) string {
	field := fl.Field()
	if field.Kind() != reflect.String {
		panic(fmt.Sprintf("input field name is not a string: %s", fl.FieldName()))
	}
	return field.String()
}

func isTemplateName(fl validator.FieldLevel) bool {
	return IsValidTemplateName(stringField(fl)) == nil
}

func isTemplateSource(fl validator.FieldLevel) bool {
	return IsValidTemplateSource(stringField(fl)) == nil
}

// IsValidTemplateName accepts a single path element: no separators, no
// leading dot.
func IsValidTemplateName(name string) error {
	if name == "" {
		return fmt.Errorf("template name can't be an empty string")
	}
	if len(name) > maxTemplateNameLength {
		return fmt.Errorf("template name is too long, limit is %d characters", maxTemplateNameLength)
	}
	if !templateNameRegex.MatchString(name) {
		return fmt.Errorf("template name can only contain letters, numbers, dots, dashes and underscores, and can't start with a dot or dash")
	}
	return nil
}

// IsValidTemplateSource accepts a GitHub shorthand owner/repo[@ref] or a git URL.
func IsValidTemplateSource(source string) error {
	if source == "" {
		return fmt.Errorf("template source can't be an empty string")
	}
	for _, prefix := range gitURLPrefixes {
		if strings.HasPrefix(source, prefix) && len(source) > len(prefix) {
			return nil
		}
	}
	if githubRepoRegex.MatchString(source) {
		return nil
	}
	return fmt.Errorf("expected owner/repo[@ref] or a git URL, got %q", source)
}
