package placeholder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// ErrUnresolved is returned when the content references a name with no value.
var ErrUnresolved = errors.New("unresolved placeholder")

// placeholderPattern matches $$, ${name} and $name.
var placeholderPattern = regexp.MustCompile(`\$(?:(\$)|\{([A-Za-z_][A-Za-z0-9_]*)\}|([A-Za-z_][A-Za-z0-9_]*))`)

// UnresolvedError lists every placeholder that had no value.
type UnresolvedError struct {
	Names []string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnresolved, strings.Join(e.Names, ", "))
}

func (e *UnresolvedError) Unwrap() error {
	return ErrUnresolved
}

// Substitutor replaces named placeholders with caller-supplied values.
type Substitutor struct {
	values map[string]string
}

// NewSubstitutor creates a substitutor over a copy of values.
func NewSubstitutor(values map[string]string) *Substitutor {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &Substitutor{values: copied}
}

// Set adds or replaces a value.
func (s *Substitutor) Set(name, value string) {
	s.values[name] = value
}

// SubstituteString replaces placeholders in content. "$$" renders a literal "$".
// A "$" that does not start a placeholder is kept as is.
func (s *Substitutor) SubstituteString(content string) (string, error) {
	missing := map[string]struct{}{}

	result := placeholderPattern.ReplaceAllStringFunc(content, func(match string) string {
		sub := placeholderPattern.FindStringSubmatch(match)
		if sub[1] != "" {
			return "$"
		}
		name := sub[2]
		if name == "" {
			name = sub[3]
		}
		value, ok := s.values[name]
		if !ok {
			missing[name] = struct{}{}
			return match
		}
		return value
	})

	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for name := range missing {
			names = append(names, name)
		}
		sort.Strings(names)
		return "", &UnresolvedError{Names: names}
	}

	return result, nil
}

// SubstituteFile reads a file and returns its content with placeholders substituted.
func (s *Substitutor) SubstituteFile(filePath string) ([]byte, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	substituted, err := s.SubstituteString(string(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}

	return []byte(substituted), nil
}

// RenderFile substitutes src and writes the result to dest, creating parent
// directories. The source file mode is preserved.
func (s *Substitutor) RenderFile(src, dest string) error {
	content, err := s.SubstituteFile(src)
	if err != nil {
		return err
	}

	mode := os.FileMode(0644)
	if info, statErr := os.Stat(src); statErr == nil {
		mode = info.Mode().Perm()
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dest, err)
	}

	if err := os.WriteFile(dest, content, mode); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// Render is a shorthand for NewSubstitutor(values).SubstituteString(content).
func Render(content string, values map[string]string) (string, error) {
	return NewSubstitutor(values).SubstituteString(content)
}

// FindPlaceholders returns the distinct placeholder names in content, in order of appearance.
func FindPlaceholders(content string) []string {
	var names []string
	seen := map[string]bool{}
	for _, sub := range placeholderPattern.FindAllStringSubmatch(content, -1) {
		name := sub[2]
		if name == "" {
			name = sub[3]
		}
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
