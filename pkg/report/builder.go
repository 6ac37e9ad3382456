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

// SectionBuilder provides a fluent API for building Section instances.
type SectionBuilder struct {
	name string
	data map[string]Reading
}

// NewSectionBuilder creates a new SectionBuilder with the given name.
func NewSectionBuilder(name string) *SectionBuilder {
	return &SectionBuilder{
		name: name,
		data: make(map[string]Reading),
	}
}

// Set adds or updates a key-value pair in the section data.
func (b *SectionBuilder) Set(key string, value Reading) *SectionBuilder {
	b.data[key] = value
	return b
}

// SetString is a convenience method for adding string values.
func (b *SectionBuilder) SetString(key, value string) *SectionBuilder {
	b.data[key] = Str(value)
	return b
}

// SetInt is a convenience method for adding int values.
func (b *SectionBuilder) SetInt(key string, value int) *SectionBuilder {
	b.data[key] = Int(value)
	return b
}

// SetInt64 is a convenience method for adding int64 values.
func (b *SectionBuilder) SetInt64(key string, value int64) *SectionBuilder {
	b.data[key] = Int64(value)
	return b
}

// SetUint64 is a convenience method for adding uint64 values.
func (b *SectionBuilder) SetUint64(key string, value uint64) *SectionBuilder {
	b.data[key] = Uint64(value)
	return b
}

// SetFloat64 is a convenience method for adding float64 values.
func (b *SectionBuilder) SetFloat64(key string, value float64) *SectionBuilder {
	b.data[key] = Float64(value)
	return b
}

// SetBool is a convenience method for adding bool values.
func (b *SectionBuilder) SetBool(key string, value bool) *SectionBuilder {
	b.data[key] = Bool(value)
	return b
}

// Build constructs and returns the Section.
func (b *SectionBuilder) Build() Section {
	return Section{
		Name: b.name,
		Data: b.data,
	}
}

// RecordBuilder provides a fluent API for building Record instances.
type RecordBuilder struct {
	category Category
	sections []Section
}

// NewRecord creates a new RecordBuilder with the given category.
func NewRecord(c Category) *RecordBuilder {
	return &RecordBuilder{
		category: c,
		sections: make([]Section, 0),
	}
}

// WithSection adds a section to the record.
func (b *RecordBuilder) WithSection(s Section) *RecordBuilder {
	b.sections = append(b.sections, s)
	return b
}

// WithSectionBuilder adds a section using a SectionBuilder.
func (b *RecordBuilder) WithSectionBuilder(builder *SectionBuilder) *RecordBuilder {
	b.sections = append(b.sections, builder.Build())
	return b
}

// Build constructs and returns the Record.
func (b *RecordBuilder) Build() *Record {
	return &Record{
		Category: b.category,
		Sections: b.sections,
	}
}
