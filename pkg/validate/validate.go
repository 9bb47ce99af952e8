// Package validate checks request payload structs against rules declared
// in `validate` struct tags. Rules are comma separated; parameters use
// `=` (min=6, in=user,admin). Error messages are keyed by the field's
// json name so the response envelope can hand them straight back to the
// storefront form.
//
// Rules used across the app:
//
//	required   nullable   email   url   uuid   ip   json   boolean   date
//	alpha   alpha_num   alpha_dash   numeric   integer
//	min=N   max=N   size=N   gt=N   gte=N   lt=N   lte=N
//	between=lo,hi   digits=N   in=a,b,c   not_in=a,b,c   regex=pat
//	confirmed   before=date   after=date
//
// `nullable` short-circuits every other rule when the field is empty,
// which is how optional inputs like a profile image URL are declared:
//
//	type Input struct {
//	    Email string `json:"email" validate:"required,email"`
//	    Role  string `json:"role"  validate:"nullable,in=user,admin"`
//	}
package validate

import (
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ruleFn checks one rule against one field. An empty return means pass.
// parent is the whole struct, needed by cross-field rules.
type ruleFn func(field, param string, v reflect.Value, parent reflect.Value) string

// Struct runs every tagged rule on v (struct or pointer to struct) and
// returns json-field-name keyed messages. Only the first failing rule
// per field is reported.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		name := jsonFieldName(rt.Field(i))
		value := rv.Field(i)

		if tag := rt.Field(i).Tag.Get("validate"); tag != "" {
			rules := splitRules(tag)
			if hasRule(rules, "nullable") && isEmpty(value) {
				continue
			}

			for _, rule := range rules {
				if rule == "nullable" {
					continue
				}
				key, param, _ := strings.Cut(rule, "=")
				fn, ok := ruleTable[key]
				if !ok {
					continue
				}
				if msg := fn(name, param, value, rv); msg != "" {
					errs[name] = msg
					break
				}
			}
		}

		elementErrors(name, value, errs)
	}

	return errs
}

// elementErrors recurses into slice-of-struct fields so tagged line
// items (an order's items, say) are validated too. Nested messages key
// Laravel-style: items.0.quantity.
func elementErrors(name string, v reflect.Value, errs map[string]string) {
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array || !v.CanInterface() {
		return
	}

	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		if elem.Kind() == reflect.Ptr {
			if elem.IsNil() {
				continue
			}
			elem = elem.Elem()
		}
		if elem.Kind() != reflect.Struct {
			return
		}
		for childKey, msg := range Struct(elem.Interface()) {
			errs[fmt.Sprintf("%s.%d.%s", name, i, childKey)] = msg
		}
	}
}

// HasErrors reports whether Struct found anything.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

// ─── Rule table ───────────────────────────────────────────────────────────────

var ruleTable map[string]ruleFn

func init() {
	ruleTable = map[string]ruleFn{
		"required": func(field, _ string, v reflect.Value, _ reflect.Value) string {
			if isEmpty(v) {
				return fmt.Sprintf("The %s field is required.", field)
			}
			return ""
		},

		"email": stringRule(func(raw string) bool { return emailRE.MatchString(raw) },
			"The %s must be a valid email address."),
		"uuid": stringRule(func(raw string) bool { return uuidRE.MatchString(raw) },
			"The %s must be a valid UUID."),
		"ip": stringRule(func(raw string) bool { return net.ParseIP(raw) != nil },
			"The %s must be a valid IP address."),
		"json": stringRule(func(raw string) bool { return json.Valid([]byte(raw)) },
			"The %s must be a valid JSON string."),
		"url": stringRule(func(raw string) bool {
			u, err := url.ParseRequestURI(raw)
			return err == nil && (u.Scheme == "http" || u.Scheme == "https")
		}, "The %s must be a valid URL."),
		"date": stringRule(func(raw string) bool {
			_, err := parseDate(raw)
			return err == nil
		}, "The %s is not a valid date."),

		"boolean": func(field, _ string, v reflect.Value, _ reflect.Value) string {
			if v.Kind() == reflect.Bool {
				return ""
			}
			switch strings.ToLower(rawString(v)) {
			case "true", "false", "1", "0":
				return ""
			}
			return fmt.Sprintf("The %s field must be true or false.", field)
		},

		"alpha": charClassRule(func(c rune) bool { return unicode.IsLetter(c) },
			"The %s field must contain only letters."),
		"alpha_num": charClassRule(func(c rune) bool { return unicode.IsLetter(c) || unicode.IsDigit(c) },
			"The %s field must contain only letters and numbers."),
		"alpha_dash": charClassRule(func(c rune) bool {
			return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '-' || c == '_'
		}, "The %s field may only contain letters, numbers, dashes, and underscores."),

		"numeric": stringRule(func(raw string) bool {
			_, err := strconv.ParseFloat(raw, 64)
			return err == nil
		}, "The %s field must be a number."),
		"integer": stringRule(func(raw string) bool {
			_, err := strconv.ParseInt(raw, 10, 64)
			return err == nil
		}, "The %s field must be an integer."),

		"min":     minRule,
		"max":     maxRule,
		"size":    sizeRule,
		"gt":      cmpRule(func(f, n float64) bool { return f > n }, "The %s must be greater than %s."),
		"gte":     cmpRule(func(f, n float64) bool { return f >= n }, "The %s must be greater than or equal to %s."),
		"lt":      cmpRule(func(f, n float64) bool { return f < n }, "The %s must be less than %s."),
		"lte":     cmpRule(func(f, n float64) bool { return f <= n }, "The %s must be less than or equal to %s."),
		"between": betweenRule,
		"digits":  digitsRule,

		"in":     inRule(true),
		"not_in": inRule(false),
		"regex":  regexRule,

		"confirmed": confirmedRule,
		"before": dateCmpRule(func(a, b time.Time) bool { return a.Before(b) },
			"The %s must be a date before %s."),
		"after": dateCmpRule(func(a, b time.Time) bool { return a.After(b) },
			"The %s must be a date after %s."),
	}
}

// stringRule adapts a raw-string predicate into a ruleFn.
func stringRule(ok func(string) bool, msg string) ruleFn {
	return func(field, _ string, v reflect.Value, _ reflect.Value) string {
		if !ok(rawString(v)) {
			return fmt.Sprintf(msg, field)
		}
		return ""
	}
}

// charClassRule passes when every rune satisfies the class predicate.
func charClassRule(ok func(rune) bool, msg string) ruleFn {
	return func(field, _ string, v reflect.Value, _ reflect.Value) string {
		for _, c := range rawString(v) {
			if !ok(c) {
				return fmt.Sprintf(msg, field)
			}
		}
		return ""
	}
}

// cmpRule compares numeric fields against the parameter.
func cmpRule(ok func(value, bound float64) bool, msg string) ruleFn {
	return func(field, param string, v reflect.Value, _ reflect.Value) string {
		if !ok(toFloat(v), paramFloat(param)) {
			return fmt.Sprintf(msg, field, param)
		}
		return ""
	}
}

// min and max measure numbers by value and strings by rune length, so
// password length and product price share one pair of rules.
func minRule(field, param string, v reflect.Value, _ reflect.Value) string {
	n := paramFloat(param)
	if isNumericKind(v) {
		if toFloat(v) < n {
			return fmt.Sprintf("The %s must be at least %s.", field, param)
		}
		return ""
	}
	if float64(len([]rune(rawString(v)))) < n {
		return fmt.Sprintf("The %s must be at least %s characters.", field, param)
	}
	return ""
}

func maxRule(field, param string, v reflect.Value, _ reflect.Value) string {
	n := paramFloat(param)
	if isNumericKind(v) {
		if toFloat(v) > n {
			return fmt.Sprintf("The %s must not be greater than %s.", field, param)
		}
		return ""
	}
	if float64(len([]rune(rawString(v)))) > n {
		return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
	}
	return ""
}

func sizeRule(field, param string, v reflect.Value, _ reflect.Value) string {
	if float64(len([]rune(rawString(v)))) != paramFloat(param) {
		return fmt.Sprintf("The %s must be exactly %s characters.", field, param)
	}
	return ""
}

func betweenRule(field, param string, v reflect.Value, _ reflect.Value) string {
	parts := strings.SplitN(param, ",", 2)
	if len(parts) != 2 {
		return ""
	}
	lo, hi := paramFloat(parts[0]), paramFloat(parts[1])
	if isNumericKind(v) {
		if f := toFloat(v); f < lo || f > hi {
			return fmt.Sprintf("The %s must be between %s and %s.", field, parts[0], parts[1])
		}
		return ""
	}
	if l := float64(len([]rune(rawString(v)))); l < lo || l > hi {
		return fmt.Sprintf("The %s must be between %s and %s characters.", field, parts[0], parts[1])
	}
	return ""
}

func digitsRule(field, param string, v reflect.Value, _ reflect.Value) string {
	raw := rawString(v)
	if !digitsOnlyRE.MatchString(raw) || float64(len(raw)) != paramFloat(param) {
		return fmt.Sprintf("The %s must be %s digits.", field, param)
	}
	return ""
}

// inRule implements both in= (value must appear) and not_in= (must not).
func inRule(want bool) ruleFn {
	return func(field, param string, v reflect.Value, _ reflect.Value) string {
		raw := rawString(v)
		found := false
		for _, item := range strings.Split(param, ",") {
			if raw == strings.TrimSpace(item) {
				found = true
				break
			}
		}
		if found != want {
			return fmt.Sprintf("The selected %s is invalid.", field)
		}
		return ""
	}
}

func regexRule(field, param string, v reflect.Value, _ reflect.Value) string {
	re, err := regexp.Compile(param)
	if err != nil {
		return fmt.Sprintf("The %s has an invalid validation pattern.", field)
	}
	if !re.MatchString(rawString(v)) {
		return fmt.Sprintf("The %s format is invalid.", field)
	}
	return ""
}

// confirmedRule compares the field against its <name>_confirmation
// sibling, the shape a password change form posts.
func confirmedRule(field, _ string, v reflect.Value, parent reflect.Value) string {
	sibling := siblingByJSONName(parent, confirmationName(field))
	if sibling == nil || rawString(*sibling) != rawString(v) {
		return fmt.Sprintf("The %s confirmation does not match.", field)
	}
	return ""
}

func dateCmpRule(ok func(value, bound time.Time) bool, msg string) ruleFn {
	return func(field, param string, v reflect.Value, _ reflect.Value) string {
		t1, err1 := parseDate(rawString(v))
		t2, err2 := parseDate(param)
		if err1 != nil || err2 != nil || !ok(t1, t2) {
			return fmt.Sprintf(msg, field, param)
		}
		return ""
	}
}

// ─── Value helpers ────────────────────────────────────────────────────────────

var (
	emailRE      = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	uuidRE       = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	digitsOnlyRE = regexp.MustCompile(`^\d+$`)
)

var dateLayouts = []string{
	time.RFC3339, "2006-01-02", "02/01/2006", "01/02/2006",
	"2006-01-02 15:04:05", "January 2, 2006", "Jan 2, 2006",
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as date", s)
}

func rawString(v reflect.Value) string {
	return fmt.Sprintf("%v", v.Interface())
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		// false is a legitimate value, never "missing".
		return false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

func isNumericKind(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	f, _ := strconv.ParseFloat(rawString(v), 64)
	return f
}

func paramFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

// ─── Tag parsing ──────────────────────────────────────────────────────────────

func jsonFieldName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	return name
}

// multiValuePrefixes are rules whose parameter itself contains commas,
// so the tag splitter cannot naively break on every comma.
var multiValuePrefixes = []string{"in=", "not_in=", "between="}

// splitRules breaks the validate tag on commas while keeping list
// parameters whole: "required,in=user,admin,max=10" turns into
// ["required", "in=user,admin", "max=10"].
func splitRules(tag string) []string {
	var rules []string
	var cur strings.Builder
	inList := false

	for i := 0; i < len(tag); i++ {
		ch := tag[i]
		if ch != ',' {
			cur.WriteByte(ch)
			if !inList {
				for _, pfx := range multiValuePrefixes {
					if strings.HasSuffix(cur.String(), pfx) {
						inList = true
						break
					}
				}
			}
			continue
		}

		// Inside a list param a comma only terminates the rule when
		// what follows reads as a new rule keyword.
		if inList && !startsNewRule(tag[i+1:]) {
			cur.WriteByte(ch)
			continue
		}

		rules = append(rules, cur.String())
		cur.Reset()
		inList = false
	}
	if cur.Len() > 0 {
		rules = append(rules, cur.String())
	}
	return rules
}

func startsNewRule(s string) bool {
	known := []string{
		"required", "nullable", "email", "url", "uuid", "ip", "json",
		"boolean", "date", "alpha", "alpha_num", "alpha_dash", "numeric",
		"integer", "confirmed", "regex=", "min=", "max=", "size=",
		"gt=", "gte=", "lt=", "lte=", "digits=", "before=", "after=",
		"in=", "not_in=", "between=",
	}
	for _, k := range known {
		if strings.HasPrefix(s, k) {
			return true
		}
	}
	return false
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if strings.TrimSpace(r) == target {
			return true
		}
	}
	return false
}

// confirmationName maps a field to the json name of its confirmation
// sibling: "password" pairs with "password_confirmation". A field that
// already carries the suffix is compared against its base field.
func confirmationName(field string) string {
	if base := strings.TrimSuffix(field, "_confirmation"); base != field {
		return base
	}
	return field + "_confirmation"
}

func siblingByJSONName(parent reflect.Value, name string) *reflect.Value {
	rt := parent.Type()
	for i := 0; i < rt.NumField(); i++ {
		if jsonFieldName(rt.Field(i)) == name {
			v := parent.Field(i)
			return &v
		}
	}
	return nil
}
