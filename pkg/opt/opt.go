package opt

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// A generic option type, which sets provider-specific request options
type Opt func(*opts) error

// StreamFn is called with each fragment of text as it is generated
type StreamFn func(text string)

// Options is the read-only view of applied options
type Options interface {
	Has(key string) bool
	GetString(key string) string
	GetStringArray(key string) []string
	GetBool(key string) bool
	GetFloat64(key string) float64
	GetUint(key string) uint
	GetStream() StreamFn
	Query(keys ...string) url.Values
}

var _ Options = (*opts)(nil)

// set of options
type opts struct {
	url.Values
	stream StreamFn
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// Apply returns a structure of applied options
func Apply(o ...Opt) (*opts, error) {
	opts := &opts{Values: make(url.Values)}
	for _, opt := range o {
		if opt == nil {
			continue
		}
		if err := opt(opts); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (o *opts) Query(keys ...string) url.Values {
	query := make(url.Values)
	for _, key := range keys {
		if value, ok := o.Values[key]; ok {
			query[key] = value
		}
	}
	return query
}

// GetString returns the trimmed value for key, or empty string if not set
func (o *opts) GetString(key string) string {
	if values, ok := o.Values[key]; ok && len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

// GetStringArray returns all values for key, each trimmed
func (o *opts) GetStringArray(key string) []string {
	values, ok := o.Values[key]
	if !ok {
		return nil
	}
	result := make([]string, len(values))
	for i, v := range values {
		result[i] = strings.TrimSpace(v)
	}
	return result
}

// GetBool returns true if key is present and not "false"
func (o *opts) GetBool(key string) bool {
	values, ok := o.Values[key]
	if !ok {
		return false
	}
	if len(values) > 0 && values[0] == "false" {
		return false
	}
	return true
}

// GetFloat64 returns the float64 value for key, or 0 if not set or invalid
func (o *opts) GetFloat64(key string) float64 {
	if values, ok := o.Values[key]; ok && len(values) > 0 {
		if v, err := strconv.ParseFloat(strings.TrimSpace(values[0]), 64); err == nil {
			return v
		}
	}
	return 0
}

// GetUint returns the uint value for key, or 0 if not set or invalid
func (o *opts) GetUint(key string) uint {
	if values, ok := o.Values[key]; ok && len(values) > 0 {
		if v, err := strconv.ParseUint(strings.TrimSpace(values[0]), 10, 64); err == nil {
			return uint(v)
		}
	}
	return 0
}

// Has returns true if the key exists
func (o *opts) Has(key string) bool {
	_, ok := o.Values[key]
	return ok
}

// GetStream returns the streaming callback, or nil
func (o *opts) GetStream() StreamFn {
	return o.stream
}

// SetString replaces any values for key
func (o *opts) SetString(key string, value string) {
	o.Values.Set(key, value)
}

// SetUint replaces any values for key
func (o *opts) SetUint(key string, value uint) {
	o.Values.Set(key, strconv.FormatUint(uint64(value), 10))
}

// SetFloat64 replaces any values for key
func (o *opts) SetFloat64(key string, value float64) {
	o.Values.Set(key, strconv.FormatFloat(value, 'f', -1, 64))
}

// AddString appends values for key
func (o *opts) AddString(key string, value ...string) {
	for _, v := range value {
		o.Values.Add(key, v)
	}
}

////////////////////////////////////////////////////////////////////////////////
// OPTIONS

// Error returns an option that always returns an error
func Error(err error) Opt {
	return func(o *opts) error {
		return err
	}
}

// WithOpts combines multiple options into a single option
func WithOpts(options ...Opt) Opt {
	return func(o *opts) error {
		for _, opt := range options {
			if opt == nil {
				continue
			}
			if err := opt(o); err != nil {
				return err
			}
		}
		return nil
	}
}

func AddString(key string, value ...string) Opt {
	return func(o *opts) error {
		o.AddString(key, value...)
		return nil
	}
}

func SetString(key string, value string) Opt {
	return func(o *opts) error {
		o.SetString(key, value)
		return nil
	}
}

func AddUint(key string, value ...uint) Opt {
	return func(o *opts) error {
		for _, v := range value {
			o.Values.Add(key, fmt.Sprint(v))
		}
		return nil
	}
}

func SetUint(key string, value uint) Opt {
	return func(o *opts) error {
		o.SetUint(key, value)
		return nil
	}
}

func SetFloat64(key string, value float64) Opt {
	return func(o *opts) error {
		o.SetFloat64(key, value)
		return nil
	}
}

func SetBool(key string, value bool) Opt {
	return func(o *opts) error {
		if value {
			o.Values.Set(key, "true")
		} else {
			o.Values.Del(key)
		}
		return nil
	}
}

// WithStream sets a callback which receives text as it is generated. Providers
// which cannot stream ignore it.
func WithStream(fn StreamFn) Opt {
	return func(o *opts) error {
		o.stream = fn
		return nil
	}
}
