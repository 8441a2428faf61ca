// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides a small reflection-based JSON-object-to-struct
// initializer, used by the JSON-initialized configuration records in this
// repository (series.Options). Struct tags declare required fields, default
// values and a choice list; a record's InitMessage typically just calls Init.
//
//	type Endpoint struct {
//	  URL     string `json:"url" required:"true"`
//	  Retries int    `default:"3"`
//	  Mode    string `json:"mode" default:"poll" choices:"poll,push"`
//	}
//
//	func (e *Endpoint) InitMessage(js interface{}) error { return config.Init(e, js) }
package config

import (
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/stockparfait/errors"
)

// Message is implemented by every configuration record in this repository.
// InitMessage populates m's fields from a generic JSON value, typically the
// output of encoding/json.Unmarshal into an interface{}.
type Message interface {
	InitMessage(js interface{}) error
}

var messageType = reflect.TypeOf((*Message)(nil)).Elem()

// decodeMessage allocates a new instance of the pointer type t (which must
// implement Message) and runs its InitMessage on jv.
func decodeMessage(jv interface{}, t reflect.Type) (reflect.Value, error) {
	var zero reflect.Value
	if !t.Implements(messageType) {
		return zero, errors.Reason("%s must implement config.Message", t)
	}
	if t.Kind() != reflect.Ptr {
		return zero, errors.Reason("%s implements Message but is not a pointer", t)
	}
	ptr := reflect.New(t.Elem())
	out := ptr.MethodByName("InitMessage").Call([]reflect.Value{reflect.ValueOf(jv)})
	if err, _ := out[0].Interface().(error); err != nil {
		return zero, errors.Annotate(err, "%s.InitMessage failed", t)
	}
	return ptr, nil
}

// decodeValue recursively converts a generic JSON value jv into the target
// reflect.Type t: basic scalars, slices, map[string]*, and nested Message
// types (whose own InitMessage is invoked). A nil jv yields the zero or
// default Message value, as appropriate.
func decodeValue(jv interface{}, t reflect.Type) (reflect.Value, error) {
	var zero reflect.Value
	if t.Implements(messageType) {
		if jv == nil {
			return reflect.Zero(t), nil
		}
		v, err := decodeMessage(jv, t)
		if err != nil {
			return zero, errors.Annotate(err, "failed to decode %s", t)
		}
		return v, nil
	}
	if ptrType := reflect.PtrTo(t); ptrType.Implements(messageType) {
		if jv == nil {
			jv = map[string]interface{}{}
		}
		v, err := decodeMessage(jv, ptrType)
		if err != nil {
			return zero, errors.Annotate(err, "failed to decode %s", t)
		}
		return reflect.Indirect(v), nil
	}
	if jv == nil {
		return reflect.Zero(t), nil
	}
	switch t.Kind() {
	case reflect.Ptr:
		v, err := decodeValue(jv, t.Elem())
		if err != nil {
			return zero, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(v)
		return ptr, nil
	case reflect.Bool:
		v, ok := jv.(bool)
		if !ok {
			return zero, errors.Reason("not a bool: %v", jv)
		}
		return reflect.ValueOf(v), nil
	case reflect.Int, reflect.Int64:
		v, ok := jv.(float64)
		if !ok {
			return zero, errors.Reason("not a number: %v", jv)
		}
		if t.Kind() == reflect.Int64 {
			return reflect.ValueOf(int64(v)), nil
		}
		return reflect.ValueOf(int(v)), nil
	case reflect.Float64:
		v, ok := jv.(float64)
		if !ok {
			return zero, errors.Reason("not a number: %v", jv)
		}
		return reflect.ValueOf(v), nil
	case reflect.String:
		v, ok := jv.(string)
		if !ok {
			return zero, errors.Reason("not a string: %v", jv)
		}
		return reflect.ValueOf(v), nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return zero, errors.Reason("map key type %s is not supported", t.Key())
		}
		m, ok := jv.(map[string]interface{})
		if !ok {
			return zero, errors.Reason("not a JSON object: %v", jv)
		}
		res := reflect.MakeMap(t)
		for k, v := range m {
			el, err := decodeValue(v, t.Elem())
			if err != nil {
				return zero, errors.Annotate(err, "key %s", k)
			}
			res.SetMapIndex(reflect.ValueOf(k), el)
		}
		return res, nil
	case reflect.Slice:
		s, ok := jv.([]interface{})
		if !ok {
			return zero, errors.Reason("not a JSON array: %v", jv)
		}
		res := reflect.MakeSlice(t, len(s), len(s))
		for i, v := range s {
			el, err := decodeValue(v, t.Elem())
			if err != nil {
				return zero, errors.Annotate(err, "index %d", i)
			}
			res.Index(i).Set(el)
		}
		return res, nil
	default:
		return zero, errors.Reason("unsupported field type: %s", t)
	}
}

// parseDefault converts the string form of a struct tag's default value into
// type t.
func parseDefault(s string, t reflect.Type) (reflect.Value, error) {
	var zero reflect.Value
	if t.Kind() == reflect.Ptr {
		v, err := parseDefault(s, t.Elem())
		if err != nil {
			return zero, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(v)
		return ptr, nil
	}
	switch t.Kind() {
	case reflect.Bool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return zero, errors.Annotate(err, "invalid default bool '%s'", s)
		}
		return reflect.ValueOf(v), nil
	case reflect.Int:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return zero, errors.Annotate(err, "invalid default int '%s'", s)
		}
		return reflect.ValueOf(int(v)), nil
	case reflect.Int64:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return zero, errors.Annotate(err, "invalid default int64 '%s'", s)
		}
		return reflect.ValueOf(v), nil
	case reflect.Float64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return zero, errors.Annotate(err, "invalid default float '%s'", s)
		}
		return reflect.ValueOf(v), nil
	case reflect.String:
		return reflect.ValueOf(s), nil
	}
	return zero, errors.Reason("defaults are not supported for type %s", t)
}

// assignChecked sets fv to v, validating the "choices" tag first.
func assignChecked(f reflect.StructField, fv, v reflect.Value) error {
	if choices, ok := f.Tag.Lookup("choices"); ok {
		if f.Type.Kind() != reflect.String {
			return errors.Reason("choices tag on non-string field %s", f.Name)
		}
		s, _ := v.Interface().(string)
		if !oneOf(s, strings.Split(choices, ",")) {
			return errors.Reason("%s: '%s' is not one of [%s]", f.Name, s, choices)
		}
	}
	fv.Set(v)
	return nil
}

func oneOf(s string, choices []string) bool {
	for _, c := range choices {
		if s == c {
			return true
		}
	}
	return false
}

func jsonName(f reflect.StructField) (name string, skip bool) {
	name = f.Name
	tag := f.Tag.Get("json")
	if tag == "" {
		return name, false
	}
	parts := strings.Split(tag, ",")
	if parts[0] == "-" {
		return "", true
	}
	if parts[0] != "" {
		name = parts[0]
	}
	return name, false
}

// Init populates the struct pointed to by m from the JSON object js (a
// map[string]interface{}, typically from encoding/json.Unmarshal into an
// interface{}). It honors `required:"true"`, `default:"..."` and
// `choices:"a,b,c"` struct tags, recurses into nested Message fields, and
// rejects unrecognized JSON keys.
func Init(m Message, js interface{}) error {
	rt := reflect.TypeOf(m)
	if rt == nil || rt.Kind() != reflect.Ptr || rt.Elem().Kind() != reflect.Struct {
		return errors.Reason("Init expects a struct pointer, got %T", m)
	}
	jsMap, ok := js.(map[string]interface{})
	if !ok {
		return errors.Reason("JSON value is not an object: %v", js)
	}

	structType := rt.Elem()
	structValue := reflect.ValueOf(m).Elem()
	seen := make(map[string]struct{}, len(jsMap))
	var missing []string

	for i := 0; i < structType.NumField(); i++ {
		f := structType.Field(i)
		first, _ := utf8.DecodeRuneInString(f.Name)
		if !unicode.IsUpper(first) {
			continue // unexported
		}
		name, skip := jsonName(f)
		if skip {
			continue
		}
		fv := structValue.FieldByName(f.Name)

		if jv, ok := jsMap[name]; ok {
			seen[name] = struct{}{}
			v, err := decodeValue(jv, f.Type)
			if err != nil {
				return errors.Annotate(err, "field %s", f.Name)
			}
			if err := assignChecked(f, fv, v); err != nil {
				return err
			}
			continue
		}

		if f.Tag.Get("required") == "true" {
			missing = append(missing, name)
			continue
		}
		if def, ok := f.Tag.Lookup("default"); ok {
			v, err := parseDefault(def, f.Type)
			if err != nil {
				return errors.Annotate(err, "default for field %s", f.Name)
			}
			if err := assignChecked(f, fv, v); err != nil {
				return err
			}
			continue
		}
		v, err := decodeValue(nil, f.Type)
		if err != nil {
			return errors.Annotate(err, "zero value for field %s", f.Name)
		}
		if err := assignChecked(f, fv, v); err != nil {
			return errors.Annotate(err, "field %s", f.Name)
		}
	}

	if len(missing) > 0 {
		return errors.Reason("missing required fields: %s", strings.Join(missing, ", "))
	}
	var extra []string
	for k := range jsMap {
		if _, ok := seen[k]; !ok {
			extra = append(extra, k)
		}
	}
	if len(extra) > 0 {
		return errors.Reason("unsupported fields for %s: %s", structType.Name(), strings.Join(extra, ", "))
	}
	return nil
}
