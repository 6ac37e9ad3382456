// Copyright (c) 2025, Vdistack Authors.  All rights reserved.
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

package report

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Common record keys exported for consistency and type safety.
const (
	// Host record keys
	KeyHostname       = "hostname"
	KeyOS             = "os"
	KeyPlatform       = "platform"
	KeyPlatformVer    = "platform-version"
	KeyKernel         = "kernel"
	KeyArch           = "architecture"
	KeyVirtualization = "virtualization"
	KeyUptime         = "uptime-seconds"
	KeyBootTime       = "boot-time"
	KeyCPUCount       = "cpu-count"
	KeyMemoryTotal    = "memory-total-bytes"
	KeyMemoryUsedPct  = "memory-used-percent"
	KeyAgentVersion   = "agent-version"
	KeySupported      = "agent-version-supported"

	// Service record keys
	KeyServiceName  = "service-name"
	KeyLoadState    = "load-state"
	KeyActiveState  = "active-state"
	KeySubState     = "sub-state"
	KeyUnitFound    = "unit-found"
	KeyEnabledState = "unit-file-state"

	// Log record keys
	KeyFileCount  = "file-count"
	KeyByteCount  = "byte-count"
	KeySourceDir  = "source-dir"
	KeyTruncated  = "truncated"
	KeyStagedPath = "staged-path"
)

// Category represents the kind of diagnostic data a record carries.
type Category string

// String returns the string representation of the record Category.
func (c Category) String() string {
	return string(c)
}

const (
	CategoryHost     Category = "Host"
	CategoryServices Category = "Services"
	CategoryLogs     Category = "Logs"
)

// Categories is the list of all supported record categories.
var Categories = []Category{
	CategoryHost,
	CategoryServices,
	CategoryLogs,
}

// ParseCategory parses a string into a record Category.
// Returns the Category and true if parsing succeeds, or empty Category and
// false if the string is invalid.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Record represents collected diagnostic data of a specific category.
// Each record contains one or more named Sections with their associated data.
type Record struct {
	Category Category  `json:"category" yaml:"category"`
	Sections []Section `json:"sections,omitempty" yaml:"sections,omitempty"`
}

// Section represents a specific slice of a record with associated data.
// Data contains the actual readings as key-value pairs.
// Context provides additional metadata about the collection environment.
type Section struct {
	Name    string             `json:"section,omitempty" yaml:"section,omitempty"`
	Data    map[string]Reading `json:"data" yaml:"data"`
	Context map[string]string  `json:"context,omitempty" yaml:"context,omitempty"`
}

// UnmarshalJSON custom unmarshaler for Section to handle the Reading interface.
func (s *Section) UnmarshalJSON(data []byte) error {
	var tmp struct {
		Name    string            `json:"section"`
		Data    map[string]any    `json:"data"`
		Context map[string]string `json:"context"`
	}

	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}

	s.Name = tmp.Name
	s.Context = tmp.Context
	s.Data = make(map[string]Reading)

	for k, v := range tmp.Data {
		s.Data[k] = ToReading(v)
	}

	return nil
}

// UnmarshalYAML custom unmarshaler for Section to handle the Reading interface.
func (s *Section) UnmarshalYAML(node *yaml.Node) error {
	var tmp struct {
		Name    string            `yaml:"section"`
		Data    map[string]any    `yaml:"data"`
		Context map[string]string `yaml:"context"`
	}

	if err := node.Decode(&tmp); err != nil {
		return err
	}

	s.Name = tmp.Name
	s.Context = tmp.Context
	s.Data = make(map[string]Reading)

	for k, v := range tmp.Data {
		s.Data[k] = ToReading(v)
	}

	return nil
}

// AllowedScalar is a constraint (compile-time) for what we allow as readings.
type AllowedScalar interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 |
		~bool |
		~string
}

// Reading is a *runtime* interface (so it can be stored in a map with mixed types).
type Reading interface {
	isReading()
	Any() any
	String() string

	json.Marshaler
	json.Unmarshaler
	yaml.Marshaler
	yaml.Unmarshaler
}

// Scalar wraps an allowed scalar type.
// This is how we keep compile-time constraints while still using a runtime interface.
type Scalar[T AllowedScalar] struct {
	V T
}

func (Scalar[T]) isReading() {}

func (s Scalar[T]) Any() any { return s.V }

// String returns the string representation of the underlying scalar value.
func (s Scalar[T]) String() string {
	return fmt.Sprintf("%v", s.V)
}

// MarshalJSON makes the JSON value be the underlying scalar (not an object wrapper).
func (s Scalar[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.V)
}

// MarshalYAML makes the YAML value be the underlying scalar (not an object wrapper).
func (s Scalar[T]) MarshalYAML() (any, error) {
	return s.V, nil
}

// ToReading creates a Reading from any allowed scalar type.
// If the type is not allowed, it returns a string representation.
func ToReading(v any) Reading {
	switch val := v.(type) {
	case int:
		return Int(val)
	case int64:
		return Int64(val)
	case uint:
		return Uint(val)
	case uint64:
		return Uint64(val)
	case float64:
		return Float64(val)
	case bool:
		return Bool(val)
	case string:
		return Str(val)
	default:
		return Str(fmt.Sprintf("%v", val))
	}
}

// UnmarshalJSON unmarshals a JSON value into the underlying scalar.
func (s *Scalar[T]) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &s.V)
}

// UnmarshalYAML unmarshals a YAML value into the underlying scalar.
func (s *Scalar[T]) UnmarshalYAML(node *yaml.Node) error {
	return node.Decode(&s.V)
}

// Convenience constructors for each allowed scalar type.
func Int(v int) Reading         { return &Scalar[int]{V: v} }
func Int64(v int64) Reading     { return &Scalar[int64]{V: v} }
func Uint(v uint) Reading       { return &Scalar[uint]{V: v} }
func Uint64(v uint64) Reading   { return &Scalar[uint64]{V: v} }
func Float64(v float64) Reading { return &Scalar[float64]{V: v} }
func Bool(v bool) Reading       { return &Scalar[bool]{V: v} }
func Str(v string) Reading      { return &Scalar[string]{V: v} }

// Validate checks if the record is properly formed.
func (r *Record) Validate() error {
	if r.Category == "" {
		return errors.New("record category cannot be empty")
	}
	if len(r.Sections) == 0 {
		return errors.New("record must have at least one section")
	}
	for i, s := range r.Sections {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("section[%d]: %w", i, err)
		}
	}
	return nil
}

// GetSection retrieves a section by name, returning nil if not found.
func (r *Record) GetSection(name string) *Section {
	for i := range r.Sections {
		if r.Sections[i].Name == name {
			return &r.Sections[i]
		}
	}
	return nil
}

// HasSection checks if a section with the given name exists.
func (r *Record) HasSection(name string) bool {
	return r.GetSection(name) != nil
}

// GetOrCreateSection retrieves a section by name, creating it if it doesn't exist.
// This simplifies dynamic record building by avoiding manual check-and-append logic.
func (r *Record) GetOrCreateSection(name string) *Section {
	if s := r.GetSection(name); s != nil {
		return s
	}
	newSection := Section{
		Name: name,
		Data: make(map[string]Reading),
	}
	r.Sections = append(r.Sections, newSection)
	return &r.Sections[len(r.Sections)-1]
}

// SectionNames returns all section names.
func (r *Record) SectionNames() []string {
	names := make([]string, len(r.Sections))
	for i, s := range r.Sections {
		names[i] = s.Name
	}
	return names
}

// Merge combines two records by adding or updating sections from other into r.
// If a section exists in both records, the data is merged (other's values take
// precedence). Returns an error if the records have different categories.
func (r *Record) Merge(other *Record) error {
	if r.Category != other.Category {
		return fmt.Errorf("cannot merge records of different categories: %s and %s", r.Category, other.Category)
	}

	for _, otherSec := range other.Sections {
		existing := r.GetSection(otherSec.Name)
		if existing == nil {
			r.Sections = append(r.Sections, Section{
				Name: otherSec.Name,
				Data: copyReadings(otherSec.Data),
			})
		} else {
			for key, value := range otherSec.Data {
				existing.Data[key] = value
			}
		}
	}
	return nil
}

// copyReadings creates a shallow copy of a readings map.
func copyReadings(src map[string]Reading) map[string]Reading {
	dst := make(map[string]Reading, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// Validate checks if the section is properly formed.
func (s *Section) Validate() error {
	if len(s.Data) == 0 {
		return errors.New("section data cannot be empty")
	}
	return nil
}

// Has checks if a key exists in the section data.
func (s *Section) Has(key string) bool {
	_, exists := s.Data[key]
	return exists
}

// Get retrieves a reading by key, returning nil if not found.
func (s *Section) Get(key string) Reading {
	return s.Data[key]
}

// Keys returns all keys in the section data.
func (s *Section) Keys() []string {
	keys := make([]string, 0, len(s.Data))
	for k := range s.Data {
		keys = append(keys, k)
	}
	return keys
}

// GetString attempts to retrieve a string value, returning an error if not found or wrong type.
func (s *Section) GetString(key string) (string, error) {
	reading := s.Data[key]
	if reading == nil {
		return "", fmt.Errorf("key %q not found", key)
	}
	v, ok := reading.Any().(string)
	if !ok {
		return "", fmt.Errorf("key %q is not a string", key)
	}
	return v, nil
}

// GetInt64 attempts to retrieve an int64 value, returning an error if not found or wrong type.
func (s *Section) GetInt64(key string) (int64, error) {
	reading := s.Data[key]
	if reading == nil {
		return 0, fmt.Errorf("key %q not found", key)
	}
	switch v := reading.Any().(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("key %q is not an integer", key)
	}
}

// GetUint64 attempts to retrieve a uint64 value, returning an error if not found or wrong type.
func (s *Section) GetUint64(key string) (uint64, error) {
	reading := s.Data[key]
	if reading == nil {
		return 0, fmt.Errorf("key %q not found", key)
	}
	switch v := reading.Any().(type) {
	case uint64:
		return v, nil
	case uint:
		return uint64(v), nil
	default:
		return 0, fmt.Errorf("key %q is not an unsigned integer", key)
	}
}

// GetFloat64 attempts to retrieve a float64 value, returning an error if not found or wrong type.
func (s *Section) GetFloat64(key string) (float64, error) {
	reading := s.Data[key]
	if reading == nil {
		return 0, fmt.Errorf("key %q not found", key)
	}
	v, ok := reading.Any().(float64)
	if !ok {
		return 0, fmt.Errorf("key %q is not a float64", key)
	}
	return v, nil
}

// GetBool attempts to retrieve a bool value, returning an error if not found or wrong type.
func (s *Section) GetBool(key string) (bool, error) {
	reading := s.Data[key]
	if reading == nil {
		return false, fmt.Errorf("key %q not found", key)
	}
	v, ok := reading.Any().(bool)
	if !ok {
		return false, fmt.Errorf("key %q is not a bool", key)
	}
	return v, nil
}
