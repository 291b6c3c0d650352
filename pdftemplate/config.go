package pdftemplate

import (
	"errors"
	"strconv"
	"strings"

	"github.com/magiconair/properties"
)

// Config is a property store with dotted keys.  Keys returns the keys in the
// order they were defined; that order is the field order of providers.
// *properties.Properties satisfies it.
type Config interface {
	Get(key string) (value string, ok bool)
	Keys() []string
}

var errMissing = errors.New("key is not defined")

// loader reads values verbatim.  ${...} is message format syntax here, not a
// reference to another key.
var loader = properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}

// LoadConfig reads one or more UTF-8 property files.  Later files override
// keys from earlier ones.
func LoadConfig(paths ...string) (*properties.Properties, error) {
	p, err := loader.LoadAll(paths)
	if err != nil {
		return nil, &ConfigurationError{Key: strings.Join(paths, ", "), Err: err}
	}
	return p, nil
}

// ParseConfig reads properties from a string.
func ParseConfig(s string) (*properties.Properties, error) {
	p, err := loader.LoadBytes([]byte(s))
	if err != nil {
		return nil, &ConfigurationError{Key: "<string>", Err: err}
	}
	return p, nil
}

// ConfigString returns the trimmed value of key.  A missing key is a
// *ConfigurationError.
func ConfigString(conf Config, key string) (string, error) {
	v, ok := conf.Get(key)
	if !ok {
		return "", &ConfigurationError{Key: key, Err: errMissing}
	}
	return strings.TrimSpace(v), nil
}

// ConfigFloat returns the value of key as a number.
func ConfigFloat(conf Config, key string) (float64, error) {
	s, err := ConfigString(conf, key)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ConfigurationError{Key: key, Value: s, Err: errors.New("not a number")}
	}
	return f, nil
}

// entry is one key below a namespace.
type entry struct {
	key   string // full key
	name  string // key with the namespace prefix removed
	value string
}

// entriesUnder returns the entries whose key starts with namespace + ".", in
// definition order, skipping the full keys listed in excludes.
func entriesUnder(conf Config, namespace string, excludes []string) (list []entry) {
	var prefix string
	if namespace != "" {
		prefix = namespace + "."
	}
	for _, key := range conf.Keys() {
		name, ok := strings.CutPrefix(key, prefix)
		if !ok || name == "" {
			continue
		}
		if contains(excludes, key) {
			continue
		}
		value, ok := conf.Get(key)
		if !ok {
			continue
		}
		list = append(list, entry{key: key, name: name, value: value})
	}
	return list
}

func contains(list []string, s string) bool {
	for _, l := range list {
		if l == s {
			return true
		}
	}
	return false
}
