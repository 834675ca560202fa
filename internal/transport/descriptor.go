package transport

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ruoyi-fastapi/ruoyi-go/pkg/errors"
)

// Method is one of the four verbs the RuoYi API uses.
type Method string

// Supported methods.
const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodDelete Method = http.MethodDelete
)

// Valid reports whether m is a supported verb.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete:
		return true
	}
	return false
}

// ResponseType selects how the response body is treated.
type ResponseType int

const (
	// ResponseTypeJSON decodes the RuoYi envelope.
	ResponseTypeJSON ResponseType = iota
	// ResponseTypeBinary returns the body untouched.
	ResponseTypeBinary
)

// String implements fmt.Stringer.
func (t ResponseType) String() string {
	if t == ResponseTypeBinary {
		return "binary"
	}
	return "json"
}

// QueryTimeLayout is the layout the backend expects for beginTime/endTime.
const QueryTimeLayout = "2006-01-02 15:04:05"

// Query holds query parameters. Values may be primitives, pointers to
// primitives, time.Time, or slices/arrays of those. Nil values are skipped.
type Query map[string]any

// Descriptor describes one HTTP request.
type Descriptor struct {
	// Resource names the API resource for logs and metrics, e.g. "notify.channel".
	Resource string
	// Path is relative to the client base URL and must start with "/".
	Path         string
	Method       Method
	Query        Query
	Body         any
	// Form is sent as an urlencoded body instead of Body. Export endpoints
	// read their filters from form fields.
	Form         Query
	ResponseType ResponseType
}

// Validate checks the descriptor before any network activity.
func (d *Descriptor) Validate() error {
	if d == nil {
		return errors.NewValidationError("descriptor", nil, "must not be nil")
	}
	if strings.TrimSpace(d.Path) == "" {
		return errors.NewValidationError("path", d.Path, "must not be empty")
	}
	if !d.Method.Valid() {
		return errors.NewValidationError("method", d.Method, "must be one of GET, POST, PUT, DELETE")
	}
	if d.Body != nil && d.Form != nil {
		return errors.NewValidationError("body", d.Body, "body and form are mutually exclusive")
	}
	return nil
}

// JoinPath appends escaped segments to base with "/" separators.
func JoinPath(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// Encode serializes q as a query string with keys in sorted order.
// Slices repeat the key once per element.
func (q Query) Encode() (string, error) {
	if len(q) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := url.Values{}
	for _, k := range keys {
		if err := appendValue(values, k, reflect.ValueOf(q[k])); err != nil {
			return "", err
		}
	}
	return values.Encode(), nil
}

func appendValue(values url.Values, key string, v reflect.Value) error {
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return appendValue(values, key, v.Elem())
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return nil
		}
		for i := 0; i < v.Len(); i++ {
			if err := appendValue(values, key, v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	}

	s, err := formatScalar(v)
	if err != nil {
		return errors.NewValidationError("query."+key, v.Interface(), err.Error())
	}
	values.Add(key, s)
	return nil
}

func formatScalar(v reflect.Value) (string, error) {
	if t, ok := v.Interface().(time.Time); ok {
		return t.Format(QueryTimeLayout), nil
	}
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String(), nil
	}
	switch v.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), nil
	}
	return "", fmt.Errorf("unsupported query value of kind %s", v.Kind())
}
