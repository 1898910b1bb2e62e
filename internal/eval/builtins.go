// Copyright 2026 The Hone Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package eval

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/honelang/hone/internal/emit"
	"github.com/honelang/hone/internal/value"
)

// Builtin is a fixed, non-overridable function evaluated against already
// computed argument values. The builtin table is closed: user `fn`
// declarations live in a separate namespace checked first, so a user
// function can shadow a builtin name without one of them becoming
// unreachable (spec.md's functions are not first-class, so no ambiguity
// arises from overlapping names at the call site).
type Builtin func(args []value.Value) (value.Value, error)

// EnvOptions controls the two builtins gated behind the --allow-env CLI
// flag (spec.md's hermeticity model: a compile is byte-for-byte
// deterministic unless the author opts into reading the ambient
// environment or filesystem).
type EnvOptions struct {
	Allowed     bool
	EnvFile     string // optional .env file loaded via godotenv, merged under OS env
	BaseDir     string // base directory file() paths are resolved against
	SecretsMode string // "placeholder" (default), "error", or "env"
}

// builtinTable registers the closed set of builtin functions named by
// spec.md §6, keyed by their snake_case spec names. has/round/floor/ceil
// are carried over as additional, non-spec builtins rather than dropped:
// each is a one-line wrap of a stdlib function already pulled in for
// something else in this table, so keeping them costs nothing and existing
// .hone sources that already call them keep working.
func builtinTable(opts EnvOptions) map[string]Builtin {
	b := map[string]Builtin{
		"len":            builtinLen,
		"keys":           builtinKeys,
		"values":         builtinValues,
		"has":            builtinHas,
		"sort":           builtinSort,
		"reverse":        builtinReverse,
		"upper":          builtinUpper,
		"lower":          builtinLower,
		"trim":           builtinTrim,
		"split":          builtinSplit,
		"join":           builtinJoin,
		"replace":        builtinReplace,
		"contains":       builtinContains,
		"starts_with":    builtinStartsWith,
		"ends_with":      builtinEndsWith,
		"to_str":         builtinToStr,
		"to_int":         builtinToInt,
		"to_float":       builtinToFloat,
		"to_bool":        builtinToBool,
		"to_json":        builtinToJSON,
		"from_json":      builtinFromJSON,
		"base64_encode":  builtinBase64Encode,
		"base64_decode":  builtinBase64Decode,
		"sha256":         builtinSHA256,
		"concat":         builtinConcat,
		"flatten":        builtinFlatten,
		"default":        builtinDefault,
		"merge":          builtinMerge,
		"unique":         builtinUnique,
		"slice":          builtinSlice,
		"substring":      builtinSubstring,
		"clamp":          builtinClamp,
		"type_of":        builtinTypeOf,
		"entries":        builtinEntries,
		"from_entries":   builtinFromEntries,
		"round":          builtinRound,
		"floor":          builtinFloor,
		"ceil":           builtinCeil,
		"abs":            builtinAbs,
		"min":            builtinMin,
		"max":            builtinMax,
		"range":          builtinRange,
	}
	b["env"] = func(args []value.Value) (value.Value, error) {
		if !opts.Allowed {
			return value.Value{}, fmt.Errorf("env() requires --allow-env")
		}
		if len(args) < 1 || args[0].Kind() != value.KindString {
			return value.Value{}, fmt.Errorf("env(name) expects a string argument")
		}
		name := args[0].Str()
		envMap, _ := godotenv.Read(opts.EnvFile)
		if v, ok := os.LookupEnv(name); ok {
			return value.String(v), nil
		}
		if v, ok := envMap[name]; ok {
			return value.String(v), nil
		}
		if len(args) > 1 {
			return args[1], nil
		}
		return value.Null, nil
	}
	b["file"] = func(args []value.Value) (value.Value, error) {
		if !opts.Allowed {
			return value.Value{}, fmt.Errorf("file() requires --allow-env")
		}
		if len(args) != 1 || args[0].Kind() != value.KindString {
			return value.Value{}, fmt.Errorf("file(path) expects a string argument")
		}
		path := args[0].Str()
		if opts.BaseDir != "" && !strings.HasPrefix(path, "/") {
			path = opts.BaseDir + "/" + path
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return value.Value{}, fmt.Errorf("file(%q): %w", args[0].Str(), err)
		}
		return value.String(string(data)), nil
	}
	return b
}

func builtinLen(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, fmt.Errorf("len expects exactly one argument")
	}
	switch args[0].Kind() {
	case value.KindString:
		return value.Int(int64(len([]rune(args[0].Str())))), nil
	case value.KindArray:
		return value.Int(int64(len(args[0].Elems()))), nil
	case value.KindObject:
		return value.Int(int64(args[0].Object().Len())), nil
	}
	return value.Value{}, fmt.Errorf("len: unsupported argument of kind %s", args[0].Kind())
}

func builtinKeys(args []value.Value) (value.Value, error) {
	if len(args) != 1 || args[0].Kind() != value.KindObject {
		return value.Value{}, fmt.Errorf("keys expects an object argument")
	}
	var out []value.Value
	for _, k := range args[0].Object().Keys() {
		out = append(out, value.String(k))
	}
	return value.Array(out), nil
}

func builtinValues(args []value.Value) (value.Value, error) {
	if len(args) != 1 || args[0].Kind() != value.KindObject {
		return value.Value{}, fmt.Errorf("values expects an object argument")
	}
	var out []value.Value
	for _, k := range args[0].Object().Keys() {
		v, _ := args[0].Object().Get(k)
		out = append(out, v)
	}
	return value.Array(out), nil
}

func builtinHas(args []value.Value) (value.Value, error) {
	if len(args) != 2 || args[0].Kind() != value.KindObject || args[1].Kind() != value.KindString {
		return value.Value{}, fmt.Errorf("has(object, key) expects an object and a string key")
	}
	return value.Bool(args[0].Object().Has(args[1].Str())), nil
}

func builtinSort(args []value.Value) (value.Value, error) {
	if len(args) != 1 || args[0].Kind() != value.KindArray {
		return value.Value{}, fmt.Errorf("sort expects an array argument")
	}
	out := append([]value.Value(nil), args[0].Elems()...)
	sort.SliceStable(out, func(i, j int) bool { return value.Less(out[i], out[j]) })
	return value.Array(out), nil
}

func builtinReverse(args []value.Value) (value.Value, error) {
	if len(args) != 1 || args[0].Kind() != value.KindArray {
		return value.Value{}, fmt.Errorf("reverse expects an array argument")
	}
	in := args[0].Elems()
	out := make([]value.Value, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return value.Array(out), nil
}

func strArg(args []value.Value, i int, fn string) (string, error) {
	if i >= len(args) || args[i].Kind() != value.KindString {
		return "", fmt.Errorf("%s expects a string argument", fn)
	}
	return args[i].Str(), nil
}

func builtinUpper(args []value.Value) (value.Value, error) {
	s, err := strArg(args, 0, "upper")
	if err != nil {
		return value.Value{}, err
	}
	return value.String(strings.ToUpper(s)), nil
}

func builtinLower(args []value.Value) (value.Value, error) {
	s, err := strArg(args, 0, "lower")
	if err != nil {
		return value.Value{}, err
	}
	return value.String(strings.ToLower(s)), nil
}

func builtinTrim(args []value.Value) (value.Value, error) {
	s, err := strArg(args, 0, "trim")
	if err != nil {
		return value.Value{}, err
	}
	return value.String(strings.TrimSpace(s)), nil
}

func builtinSplit(args []value.Value) (value.Value, error) {
	s, err := strArg(args, 0, "split")
	if err != nil {
		return value.Value{}, err
	}
	sep, err := strArg(args, 1, "split")
	if err != nil {
		return value.Value{}, err
	}
	var out []value.Value
	for _, p := range strings.Split(s, sep) {
		out = append(out, value.String(p))
	}
	return value.Array(out), nil
}

func builtinJoin(args []value.Value) (value.Value, error) {
	if len(args) != 2 || args[0].Kind() != value.KindArray || args[1].Kind() != value.KindString {
		return value.Value{}, fmt.Errorf("join(array, sep) expects an array and a string separator")
	}
	parts := make([]string, 0, len(args[0].Elems()))
	for _, e := range args[0].Elems() {
		if e.Kind() != value.KindString {
			return value.Value{}, fmt.Errorf("join: array element is not a string")
		}
		parts = append(parts, e.Str())
	}
	return value.String(strings.Join(parts, args[1].Str())), nil
}

func builtinReplace(args []value.Value) (value.Value, error) {
	s, err := strArg(args, 0, "replace")
	if err != nil {
		return value.Value{}, err
	}
	old, err := strArg(args, 1, "replace")
	if err != nil {
		return value.Value{}, err
	}
	nw, err := strArg(args, 2, "replace")
	if err != nil {
		return value.Value{}, err
	}
	return value.String(strings.ReplaceAll(s, old, nw)), nil
}

func builtinContains(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, fmt.Errorf("contains expects two arguments")
	}
	switch args[0].Kind() {
	case value.KindString:
		if args[1].Kind() != value.KindString {
			return value.Value{}, fmt.Errorf("contains(string, needle) expects a string needle")
		}
		return value.Bool(strings.Contains(args[0].Str(), args[1].Str())), nil
	case value.KindArray:
		for _, e := range args[0].Elems() {
			if value.Equal(e, args[1]) {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	}
	return value.Value{}, fmt.Errorf("contains: unsupported first argument of kind %s", args[0].Kind())
}

func builtinStartsWith(args []value.Value) (value.Value, error) {
	s, err := strArg(args, 0, "starts_with")
	if err != nil {
		return value.Value{}, err
	}
	p, err := strArg(args, 1, "starts_with")
	if err != nil {
		return value.Value{}, err
	}
	return value.Bool(strings.HasPrefix(s, p)), nil
}

func builtinEndsWith(args []value.Value) (value.Value, error) {
	s, err := strArg(args, 0, "ends_with")
	if err != nil {
		return value.Value{}, err
	}
	p, err := strArg(args, 1, "ends_with")
	if err != nil {
		return value.Value{}, err
	}
	return value.Bool(strings.HasSuffix(s, p)), nil
}

func builtinToStr(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, fmt.Errorf("to_str expects exactly one argument")
	}
	return value.String(args[0].String()), nil
}

func builtinToInt(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, fmt.Errorf("to_int expects exactly one argument")
	}
	switch args[0].Kind() {
	case value.KindInt:
		return args[0], nil
	case value.KindFloat:
		return value.Int(int64(args[0].Float())), nil
	case value.KindString:
		n, err := strconv.ParseInt(strings.TrimSpace(args[0].Str()), 10, 64)
		if err != nil {
			return value.Value{}, fmt.Errorf("to_int: %w", err)
		}
		return value.Int(n), nil
	}
	return value.Value{}, fmt.Errorf("to_int: unsupported argument of kind %s", args[0].Kind())
}

func builtinToFloat(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, fmt.Errorf("to_float expects exactly one argument")
	}
	switch args[0].Kind() {
	case value.KindFloat:
		return args[0], nil
	case value.KindInt:
		return value.Float(float64(args[0].Int())), nil
	case value.KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(args[0].Str()), 64)
		if err != nil {
			return value.Value{}, fmt.Errorf("to_float: %w", err)
		}
		return value.Float(f), nil
	}
	return value.Value{}, fmt.Errorf("to_float: unsupported argument of kind %s", args[0].Kind())
}

func builtinToBool(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, fmt.Errorf("to_bool expects exactly one argument")
	}
	switch args[0].Kind() {
	case value.KindBool:
		return args[0], nil
	case value.KindNull:
		return value.Bool(false), nil
	case value.KindInt:
		return value.Bool(args[0].Int() != 0), nil
	case value.KindFloat:
		return value.Bool(args[0].Float() != 0), nil
	case value.KindString:
		switch strings.ToLower(strings.TrimSpace(args[0].Str())) {
		case "true":
			return value.Bool(true), nil
		case "false", "":
			return value.Bool(false), nil
		}
		return value.Bool(true), nil
	case value.KindArray:
		return value.Bool(len(args[0].Elems()) > 0), nil
	case value.KindObject:
		return value.Bool(args[0].Object().Len() > 0), nil
	}
	return value.Value{}, fmt.Errorf("to_bool: unsupported argument of kind %s", args[0].Kind())
}

// builtinToJSON renders v through the same encoder hone compile uses for
// --format json, so to_json(v) always matches what a JSON output document
// would contain for the same value.
func builtinToJSON(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, fmt.Errorf("to_json expects exactly one argument")
	}
	out, err := emit.JSON(args[0])
	if err != nil {
		return value.Value{}, fmt.Errorf("to_json: %w", err)
	}
	return value.String(string(out)), nil
}

func builtinFromJSON(args []value.Value) (value.Value, error) {
	s, err := strArg(args, 0, "from_json")
	if err != nil {
		return value.Value{}, err
	}
	var decoded interface{}
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return value.Value{}, fmt.Errorf("from_json: %w", err)
	}
	return fromGoValue(decoded), nil
}

// fromGoValue converts the interface{} tree encoding/json produces into a
// value.Value. Object key order follows encoding/json's own map iteration,
// then is sorted for determinism: JSON objects carry no ordering
// guarantee, so there is no "first occurrence" to preserve here, unlike
// merge's object keys.
func fromGoValue(v interface{}) value.Value {
	switch x := v.(type) {
	case nil:
		return value.Null
	case bool:
		return value.Bool(x)
	case float64:
		if x == math.Trunc(x) {
			return value.Int(int64(x))
		}
		return value.Float(x)
	case string:
		return value.String(x)
	case []interface{}:
		out := make([]value.Value, len(x))
		for i, e := range x {
			out[i] = fromGoValue(e)
		}
		return value.Array(out)
	case map[string]interface{}:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := value.NewObject()
		for _, k := range keys {
			obj.Set(k, fromGoValue(x[k]))
		}
		return value.Obj(obj)
	}
	return value.Null
}

func builtinBase64Encode(args []value.Value) (value.Value, error) {
	s, err := strArg(args, 0, "base64_encode")
	if err != nil {
		return value.Value{}, err
	}
	return value.String(base64.StdEncoding.EncodeToString([]byte(s))), nil
}

func builtinBase64Decode(args []value.Value) (value.Value, error) {
	s, err := strArg(args, 0, "base64_decode")
	if err != nil {
		return value.Value{}, err
	}
	out, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return value.Value{}, fmt.Errorf("base64_decode: %w", err)
	}
	return value.String(string(out)), nil
}

func builtinSHA256(args []value.Value) (value.Value, error) {
	s, err := strArg(args, 0, "sha256")
	if err != nil {
		return value.Value{}, err
	}
	sum := sha256.Sum256([]byte(s))
	return value.String(hex.EncodeToString(sum[:])), nil
}

// builtinConcat concatenates two or more arrays, or two or more strings;
// mixing kinds is an error.
func builtinConcat(args []value.Value) (value.Value, error) {
	if len(args) < 2 {
		return value.Value{}, fmt.Errorf("concat expects at least two arguments")
	}
	switch args[0].Kind() {
	case value.KindString:
		var sb strings.Builder
		for _, a := range args {
			if a.Kind() != value.KindString {
				return value.Value{}, fmt.Errorf("concat: cannot mix string and %s", a.Kind())
			}
			sb.WriteString(a.Str())
		}
		return value.String(sb.String()), nil
	case value.KindArray:
		var out []value.Value
		for _, a := range args {
			if a.Kind() != value.KindArray {
				return value.Value{}, fmt.Errorf("concat: cannot mix array and %s", a.Kind())
			}
			out = append(out, a.Elems()...)
		}
		return value.Array(out), nil
	}
	return value.Value{}, fmt.Errorf("concat: unsupported argument of kind %s", args[0].Kind())
}

// builtinFlatten fully flattens nested arrays into a single array.
func builtinFlatten(args []value.Value) (value.Value, error) {
	if len(args) != 1 || args[0].Kind() != value.KindArray {
		return value.Value{}, fmt.Errorf("flatten expects an array argument")
	}
	var out []value.Value
	var walk func(elems []value.Value)
	walk = func(elems []value.Value) {
		for _, e := range elems {
			if e.Kind() == value.KindArray {
				walk(e.Elems())
			} else {
				out = append(out, e)
			}
		}
	}
	walk(args[0].Elems())
	return value.Array(out), nil
}

// builtinDefault returns args[0] unless it is null, in which case it
// returns args[1].
func builtinDefault(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, fmt.Errorf("default expects exactly two arguments")
	}
	if args[0].IsNull() {
		return args[1], nil
	}
	return args[0], nil
}

// builtinMerge exposes the same deep merge internal/pipeline uses to
// overlay a file onto its `from` base as a callable, so a schema or policy can merge
// two objects explicitly instead of relying on file overlay order.
func builtinMerge(args []value.Value) (value.Value, error) {
	if len(args) != 2 || args[0].Kind() != value.KindObject || args[1].Kind() != value.KindObject {
		return value.Value{}, fmt.Errorf("merge(a, b) expects two objects")
	}
	return Merge(args[0], args[1]), nil
}

func builtinUnique(args []value.Value) (value.Value, error) {
	if len(args) != 1 || args[0].Kind() != value.KindArray {
		return value.Value{}, fmt.Errorf("unique expects an array argument")
	}
	var out []value.Value
	for _, e := range args[0].Elems() {
		dup := false
		for _, o := range out {
			if value.Equal(e, o) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, e)
		}
	}
	return value.Array(out), nil
}

// clampIndex resolves a possibly-negative, possibly-out-of-range Python
// style slice bound against a length n.
func clampIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

func builtinSlice(args []value.Value) (value.Value, error) {
	if len(args) != 3 {
		return value.Value{}, fmt.Errorf("slice(seq, start, end) expects exactly three arguments")
	}
	start, err := numArg(args, 1, "slice")
	if err != nil {
		return value.Value{}, err
	}
	end, err := numArg(args, 2, "slice")
	if err != nil {
		return value.Value{}, err
	}
	switch args[0].Kind() {
	case value.KindArray:
		elems := args[0].Elems()
		s, e := clampIndex(int(start), len(elems)), clampIndex(int(end), len(elems))
		if s > e {
			return value.Array(nil), nil
		}
		return value.Array(append([]value.Value(nil), elems[s:e]...)), nil
	case value.KindString:
		runes := []rune(args[0].Str())
		s, e := clampIndex(int(start), len(runes)), clampIndex(int(end), len(runes))
		if s > e {
			return value.String(""), nil
		}
		return value.String(string(runes[s:e])), nil
	}
	return value.Value{}, fmt.Errorf("slice: unsupported first argument of kind %s", args[0].Kind())
}

func builtinSubstring(args []value.Value) (value.Value, error) {
	s, err := strArg(args, 0, "substring")
	if err != nil {
		return value.Value{}, err
	}
	start, err := numArg(args, 1, "substring")
	if err != nil {
		return value.Value{}, err
	}
	end, err := numArg(args, 2, "substring")
	if err != nil {
		return value.Value{}, err
	}
	runes := []rune(s)
	from, to := clampIndex(int(start), len(runes)), clampIndex(int(end), len(runes))
	if from > to {
		return value.String(""), nil
	}
	return value.String(string(runes[from:to])), nil
}

func builtinClamp(args []value.Value) (value.Value, error) {
	if len(args) != 3 {
		return value.Value{}, fmt.Errorf("clamp(n, min, max) expects exactly three arguments")
	}
	n, err := numArg(args, 0, "clamp")
	if err != nil {
		return value.Value{}, err
	}
	lo, err := numArg(args, 1, "clamp")
	if err != nil {
		return value.Value{}, err
	}
	hi, err := numArg(args, 2, "clamp")
	if err != nil {
		return value.Value{}, err
	}
	clamped := math.Min(math.Max(n, lo), hi)
	if args[0].Kind() == value.KindInt && args[1].Kind() == value.KindInt && args[2].Kind() == value.KindInt {
		return value.Int(int64(clamped)), nil
	}
	return value.Float(clamped), nil
}

func builtinTypeOf(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, fmt.Errorf("type_of expects exactly one argument")
	}
	return value.String(args[0].Kind().String()), nil
}

// builtinEntries projects an object into an array of [key, value] pairs,
// in the object's key order.
func builtinEntries(args []value.Value) (value.Value, error) {
	if len(args) != 1 || args[0].Kind() != value.KindObject {
		return value.Value{}, fmt.Errorf("entries expects an object argument")
	}
	obj := args[0].Object()
	out := make([]value.Value, 0, obj.Len())
	for _, k := range obj.Keys() {
		v, _ := obj.Get(k)
		out = append(out, value.Array([]value.Value{value.String(k), v}))
	}
	return value.Array(out), nil
}

// builtinFromEntries is entries' inverse: an array of [key, value] pairs
// becomes an object, keyed in array order.
func builtinFromEntries(args []value.Value) (value.Value, error) {
	if len(args) != 1 || args[0].Kind() != value.KindArray {
		return value.Value{}, fmt.Errorf("from_entries expects an array argument")
	}
	obj := value.NewObject()
	for _, pair := range args[0].Elems() {
		if pair.Kind() != value.KindArray || len(pair.Elems()) != 2 {
			return value.Value{}, fmt.Errorf("from_entries: element is not a [key, value] pair")
		}
		k := pair.Elems()[0]
		if k.Kind() != value.KindString {
			return value.Value{}, fmt.Errorf("from_entries: pair key is not a string")
		}
		obj.Set(k.Str(), pair.Elems()[1])
	}
	return value.Obj(obj), nil
}

func numArg(args []value.Value, i int, fn string) (float64, error) {
	if i >= len(args) || (args[i].Kind() != value.KindInt && args[i].Kind() != value.KindFloat) {
		return 0, fmt.Errorf("%s expects a numeric argument", fn)
	}
	return args[i].AsFloat(), nil
}

func builtinRound(args []value.Value) (value.Value, error) {
	f, err := numArg(args, 0, "round")
	if err != nil {
		return value.Value{}, err
	}
	return value.Int(int64(math.Round(f))), nil
}

func builtinFloor(args []value.Value) (value.Value, error) {
	f, err := numArg(args, 0, "floor")
	if err != nil {
		return value.Value{}, err
	}
	return value.Int(int64(math.Floor(f))), nil
}

func builtinCeil(args []value.Value) (value.Value, error) {
	f, err := numArg(args, 0, "ceil")
	if err != nil {
		return value.Value{}, err
	}
	return value.Int(int64(math.Ceil(f))), nil
}

func builtinAbs(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, fmt.Errorf("abs expects exactly one argument")
	}
	if args[0].Kind() == value.KindInt {
		n := args[0].Int()
		if n < 0 {
			n = -n
		}
		return value.Int(n), nil
	}
	f, err := numArg(args, 0, "abs")
	if err != nil {
		return value.Value{}, err
	}
	return value.Float(math.Abs(f)), nil
}

func builtinMin(args []value.Value) (value.Value, error) {
	return numericFold(args, "min", func(a, b value.Value) bool { return value.Less(a, b) })
}

func builtinMax(args []value.Value) (value.Value, error) {
	return numericFold(args, "max", func(a, b value.Value) bool { return value.Less(b, a) })
}

// numericFold folds args (or a single array argument) under a pairwise
// better(a,b) predicate, returning whichever side wins.
func numericFold(args []value.Value, fn string, better func(a, b value.Value) bool) (value.Value, error) {
	elems := args
	if len(args) == 1 && args[0].Kind() == value.KindArray {
		elems = args[0].Elems()
	}
	if len(elems) == 0 {
		return value.Value{}, fmt.Errorf("%s expects at least one argument", fn)
	}
	best := elems[0]
	for _, e := range elems[1:] {
		if better(e, best) {
			best = e
		}
	}
	return best, nil
}

func builtinRange(args []value.Value) (value.Value, error) {
	var start, end, step int64 = 0, 0, 1
	switch len(args) {
	case 1:
		n, err := numArg(args, 0, "range")
		if err != nil {
			return value.Value{}, err
		}
		end = int64(n)
	case 2, 3:
		s, err := numArg(args, 0, "range")
		if err != nil {
			return value.Value{}, err
		}
		e, err := numArg(args, 1, "range")
		if err != nil {
			return value.Value{}, err
		}
		start, end = int64(s), int64(e)
		if len(args) == 3 {
			st, err := numArg(args, 2, "range")
			if err != nil {
				return value.Value{}, err
			}
			step = int64(st)
		}
	default:
		return value.Value{}, fmt.Errorf("range expects 1 to 3 arguments")
	}
	if step == 0 {
		return value.Value{}, fmt.Errorf("range: step cannot be zero")
	}
	var out []value.Value
	if step > 0 {
		for i := start; i < end; i += step {
			out = append(out, value.Int(i))
		}
	} else {
		for i := start; i > end; i += step {
			out = append(out, value.Int(i))
		}
	}
	return value.Array(out), nil
}
