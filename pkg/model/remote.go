package model

import (
	"strings"

	"github.com/glorpus-work/pkgtrack/pkg/errors"
)

// DefaultNamespace is the ref namespace package branches live under when a
// remote does not configure one.
const DefaultNamespace = "packages/"

const (
	remoteHeadsPrefix = "refs/heads/"
	localRemotePrefix = "refs/remotes/"
)

// Remote is a configured upstream hosting package refs under a namespace.
// Remotes are built once from configuration and never mutated.
type Remote struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	Namespace string `json:"namespace"`
}

// NewRemote validates its arguments and returns a Remote.
// An empty namespace selects DefaultNamespace; a namespace without a
// trailing slash gets one.
func NewRemote(name, url, namespace string) (Remote, error) {
	if err := ValidateRemoteName(name); err != nil {
		return Remote{}, err
	}
	if strings.TrimSpace(url) == "" {
		return Remote{}, errors.ErrRemoteURLEmptyWithName(name)
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if !strings.HasSuffix(namespace, "/") {
		namespace += "/"
	}
	if strings.HasPrefix(namespace, "/") || strings.Contains(namespace, "//") || strings.ContainsAny(namespace, refIllegalChars) {
		return Remote{}, errors.Wrapf(errors.ErrInvalidRemoteName, "remote '%s': invalid namespace %q", name, namespace)
	}
	return Remote{Name: name, URL: url, Namespace: namespace}, nil
}

// ValidateRemoteName checks that name can be a remote name. Remote names end
// up in ref and file names, so path separators and dot components are rejected.
func ValidateRemoteName(name string) error {
	if name == "" {
		return errors.ErrEmptyRemoteName
	}
	if err := validateComponent(name); err != nil {
		return errors.Wrapf(errors.ErrInvalidRemoteName, "%q: %s", name, err.Error())
	}
	return nil
}

// RemoteRefPrefix is the prefix of every package ref advertised by the remote.
func (r Remote) RemoteRefPrefix() string {
	return remoteHeadsPrefix + r.Namespace
}

// RemoteRef is the upstream ref carrying the recipe of name.
func (r Remote) RemoteRef(name PackageName) string {
	return r.RemoteRefPrefix() + string(name)
}

// LocalRefPrefix is the prefix of every local tracking ref mirrored from the remote.
func (r Remote) LocalRefPrefix() string {
	return localRemotePrefix + r.Name + "/" + r.Namespace
}

// LocalRef is the local tracking ref mirroring RemoteRef(name).
func (r Remote) LocalRef(name PackageName) string {
	return r.LocalRefPrefix() + string(name)
}

// Refspec returns the forced refspec fetching name into its local tracking ref.
func (r Remote) Refspec(name PackageName) string {
	return "+" + r.RemoteRef(name) + ":" + r.LocalRef(name)
}

// NameFromRemoteRef strips the remote namespace from an advertised ref.
// It reports false for refs outside the namespace or with an invalid name.
func (r Remote) NameFromRemoteRef(ref string) (PackageName, bool) {
	return nameAfterPrefix(ref, r.RemoteRefPrefix())
}

// NameFromLocalRef strips the local tracking prefix from ref.
func (r Remote) NameFromLocalRef(ref string) (PackageName, bool) {
	return nameAfterPrefix(ref, r.LocalRefPrefix())
}

func nameAfterPrefix(ref, prefix string) (PackageName, bool) {
	if !strings.HasPrefix(ref, prefix) {
		return "", false
	}
	n, err := ParsePackageName(strings.TrimPrefix(ref, prefix))
	if err != nil {
		return "", false
	}
	return n, true
}

// FindRemote returns the remote called name.
func FindRemote(remotes []Remote, name string) (Remote, bool) {
	for _, r := range remotes {
		if r.Name == name {
			return r, true
		}
	}
	return Remote{}, false
}
