// Package model provides the value types shared by the pkgtrack components:
// remotes, package names, tracked pairs and resolution results.
package model

import (
	"strings"
	"unicode"

	"github.com/glorpus-work/pkgtrack/pkg/errors"
)

// refIllegalChars are characters git refuses inside a ref name component.
const refIllegalChars = "~^:?*[\\"

// PackageName is a validated, case-sensitive package identifier.
// The zero value is not a valid name.
type PackageName string

// ParsePackageName validates s and returns it as a PackageName.
func ParsePackageName(s string) (PackageName, error) {
	if err := validateComponent(s); err != nil {
		return "", errors.Wrapf(errors.ErrInvalidPackageName, "%q: %s", s, err.Error())
	}
	return PackageName(s), nil
}

// MustPackageName is like ParsePackageName but panics on invalid input.
// It is intended for tests and constants.
func MustPackageName(s string) PackageName {
	n, err := ParsePackageName(s)
	if err != nil {
		panic(err)
	}
	return n
}

func (n PackageName) String() string {
	return string(n)
}

// ParsePackageArg splits user input of the form "name" or "channel/name".
// The channel, when present, is the name of a configured remote; it is not
// checked against configuration here.
func ParsePackageArg(arg string) (string, PackageName, error) {
	channel := ""
	raw := arg
	if i := strings.IndexByte(arg, '/'); i >= 0 {
		channel, raw = arg[:i], arg[i+1:]
		if err := validateComponent(channel); err != nil {
			return "", "", errors.Wrapf(errors.ErrInvalidRemoteName, "%q: %s", channel, err.Error())
		}
	}
	name, err := ParsePackageName(raw)
	if err != nil {
		return "", "", err
	}
	return channel, name, nil
}

type invalidReason string

func (r invalidReason) Error() string { return string(r) }

// validateComponent checks that s can be used as a single ref path component.
func validateComponent(s string) error {
	switch {
	case s == "":
		return invalidReason("empty")
	case s == "." || s == "..":
		return invalidReason("reserved name")
	case strings.HasPrefix(s, "-"):
		return invalidReason("leading dash")
	case strings.HasSuffix(s, ".lock"):
		return invalidReason("ends with .lock")
	case strings.Contains(s, ".."):
		return invalidReason("contains '..'")
	case strings.ContainsRune(s, '/'):
		return invalidReason("contains path separator")
	case strings.ContainsAny(s, refIllegalChars):
		return invalidReason("contains illegal character")
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return invalidReason("contains whitespace")
		}
	}
	return nil
}
