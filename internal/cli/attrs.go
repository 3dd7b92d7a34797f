package cli

import (
	"strings"

	"github.com/issuekit/issuekit/pkg/errclass"
	"github.com/issuekit/issuekit/pkg/keyutil"
)

type attribute struct {
	key   string
	value *string // nil removes the attribute
}

// parseAttributes parses key=value flags. Keys are normalized and validated.
func parseAttributes(args []string) ([]attribute, error) {
	var out []attribute
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, errclass.ErrValueInvalid.WithMessagef("attribute must be key=value: %q", arg)
		}
		key, err := keyutil.NormalizeAttributeKey(k)
		if err != nil {
			return nil, err
		}
		value := v
		out = append(out, attribute{key: key, value: &value})
	}
	return out, nil
}

// parseAttributeKeys validates attribute keys to remove.
func parseAttributeKeys(args []string) ([]attribute, error) {
	out := make([]attribute, 0, len(args))
	for _, arg := range args {
		key, err := keyutil.NormalizeAttributeKey(arg)
		if err != nil {
			return nil, err
		}
		out = append(out, attribute{key: key})
	}
	return out, nil
}
