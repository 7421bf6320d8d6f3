package goanalysis

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/leapstack-labs/leapfix/pkg/core"
	"github.com/leapstack-labs/leapfix/pkg/lint"
)

// ErrUnknownOption is returned for a rule option the analyzer has no flag for.
var ErrUnknownOption = errors.New("unknown analyzer option")

// flagsMu guards analyzer flag sets, which are process-wide.
var flagsMu sync.Mutex

// ApplyRuleOptions sets the flags of every go/analysis analyzer in set from
// its rule options, e.g. rules: {shadow: {strict: true}}. Analyzer flags are
// global, so this must happen before analysis starts, once per process.
func ApplyRuleOptions(set *lint.AnalyzerSet, opts *lint.Options) error {
	flagsMu.Lock()
	defer flagsMu.Unlock()

	var errs []error
	for _, a := range set.Analyzers() {
		ga, ok := a.(goAnalyzer)
		if !ok {
			continue
		}
		ruleOpts := opts.GetRuleOptions(a.ID())
		keys := make([]string, 0, len(ruleOpts))
		for key := range ruleOpts {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		fs := &ga.GoAnalyzer().Flags
		for _, key := range keys {
			if fs.Lookup(key) == nil {
				errs = append(errs, fmt.Errorf("%w: %s.%s", ErrUnknownOption, a.ID(), key))
				continue
			}
			value, err := flagValue(ruleOpts, key)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s.%s: %w", a.ID(), key, err))
				continue
			}
			if err := fs.Set(key, value); err != nil {
				errs = append(errs, fmt.Errorf("%s.%s: %w", a.ID(), key, err))
			}
		}
	}
	return errors.Join(errs...)
}

// flagValue renders a decoded config value in flag syntax. Lists become
// comma-separated, the form list-valued analyzer flags such as printf's
// funcs accept.
func flagValue(opts core.RuleOptions, key string) (string, error) {
	switch v := opts[key].(type) {
	case string:
		return lint.GetOption(opts, key, ""), nil
	case bool:
		return strconv.FormatBool(lint.GetBoolOption(opts, key, false)), nil
	case int, int64:
		return strconv.Itoa(lint.GetIntOption(opts, key, 0)), nil
	case float64:
		if v != math.Trunc(v) {
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		}
		return strconv.Itoa(lint.GetIntOption(opts, key, 0)), nil
	case []string, []any:
		items := lint.GetStringSliceOption(opts, key, nil)
		if n, ok := v.([]any); ok && len(items) != len(n) {
			return "", errors.New("list entries must be strings")
		}
		return strings.Join(items, ","), nil
	case nil:
		return "", errors.New("missing value")
	default:
		return "", fmt.Errorf("unsupported value %v (%T)", v, v)
	}
}
