package config

import (
	"strings"

	"github.com/pkg/errors"
)

// AccountsFlag collects account names from a repeatable, comma separated flag.
type AccountsFlag []string

func (f *AccountsFlag) String() string {
	if f == nil {
		return ""
	}
	return strings.Join(*f, ",")
}

func (f *AccountsFlag) Set(value string) error {
	added := 0
	for _, name := range strings.Split(value, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		*f = append(*f, name)
		added++
	}
	if added == 0 {
		return errors.Errorf("invalid account list %q", value)
	}
	return nil
}

// Append adds positional account names left over after flag parsing.
// Flag parsing stops at the first positional name, so a dash-prefixed
// argument here is a misplaced flag and is rejected.
func (f *AccountsFlag) Append(args []string) error {
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			return errors.Errorf("flag %s must come before the account names", arg)
		}
		if err := f.Set(arg); err != nil {
			return err
		}
	}
	return nil
}
