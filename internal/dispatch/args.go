package dispatch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"futebol-mcp/internal/apperr"
	"futebol-mcp/internal/normalize"
)

var seasonPattern = regexp.MustCompile(`^\d{4}$`)

const maxTextLength = 200

// decodeArgs maps the raw argument object onto a typed struct. Weak typing
// tolerates clients sending numbers as strings; type mismatches beyond that
// are schema violations.
func decodeArgs(raw map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "arg",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return apperr.NewInvalidArgument("arguments", err.Error(), nil)
	}
	if err := dec.Decode(raw); err != nil {
		return apperr.NewInvalidArgument("arguments", "arguments do not match the tool schema", nil)
	}
	return nil
}

// requireText validates a mandatory free-text argument and returns its
// normalized form.
func requireText(field, value string) (string, error) {
	cleaned := normalize.Clean(value)
	if cleaned == "" {
		return "", apperr.NewInvalidArgument(field, "must not be empty", value)
	}
	if len(cleaned) > maxTextLength {
		return "", apperr.NewInvalidArgument(field, fmt.Sprintf("must be at most %d characters", maxTextLength), nil)
	}
	return cleaned, nil
}

// optionalText normalizes an optional free-text argument; empty stays empty.
func optionalText(field, value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return requireText(field, value)
}

// boundedLimit validates a result ceiling, applying def when absent.
func boundedLimit(field string, value, def, max int) (int, error) {
	if value == 0 {
		return def, nil
	}
	if value < 1 || value > max {
		return 0, apperr.NewInvalidArgument(field, fmt.Sprintf("must be between 1 and %d", max), value)
	}
	return value, nil
}

// optionalDate validates and canonicalizes a YYYY-MM-DD argument.
func optionalDate(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	t, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return "", apperr.NewInvalidArgument(field, "must be a YYYY-MM-DD date", value)
	}
	return t.Format("2006-01-02"), nil
}

// requiredDate is optionalDate with presence enforced.
func requiredDate(field, value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", apperr.NewInvalidArgument(field, "must not be empty", value)
	}
	return optionalDate(field, value)
}

// optionalSeason validates a four-digit season year.
func optionalSeason(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if !seasonPattern.MatchString(trimmed) {
		return "", apperr.NewInvalidArgument(field, "must be a four-digit year", value)
	}
	return trimmed, nil
}

// distinctPair rejects a comparison of an entity with itself. Equality is
// judged on the folded forms, so "Pelé" vs "pele" is still the same player.
func distinctPair(field, a, b string) error {
	if normalize.Fold(a) == normalize.Fold(b) {
		return apperr.NewInvalidArgument(field, "must differ from the first entity", b)
	}
	return nil
}

// cacheKey builds the canonical cache identity from normalized argument
// pairs. Key order is fixed by the caller, so equal normalized calls
// always produce equal keys.
func cacheKey(tool string, kv ...string) string {
	var b strings.Builder
	b.WriteString(tool)
	for i := 0; i+1 < len(kv); i += 2 {
		b.WriteByte('|')
		b.WriteString(kv[i])
		b.WriteByte('=')
		b.WriteString(kv[i+1])
	}
	return b.String()
}

func itoa(n int) string { return strconv.Itoa(n) }
