// Package pdf implements the PDF engine: parsing, page composition and
// serialization, text extraction, and page rasterization.
package pdf

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
)

// ObjectType represents the type of a PDF object
type ObjectType int

const (
	ObjNull ObjectType = iota
	ObjBoolean
	ObjInteger
	ObjReal
	ObjString
	ObjName
	ObjArray
	ObjDictionary
	ObjStream
	ObjReference
)

// Object represents a PDF object
type Object interface {
	Type() ObjectType
	String() string
}

// Null represents a PDF null object
type Null struct{}

func (n Null) Type() ObjectType { return ObjNull }
func (n Null) String() string   { return "null" }

// Boolean represents a PDF boolean object
type Boolean bool

func (b Boolean) Type() ObjectType { return ObjBoolean }
func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Integer represents a PDF integer object
type Integer int64

func (i Integer) Type() ObjectType { return ObjInteger }
func (i Integer) String() string   { return strconv.FormatInt(int64(i), 10) }

// Real represents a PDF real number object
type Real float64

func (r Real) Type() ObjectType { return ObjReal }
func (r Real) String() string   { return strconv.FormatFloat(float64(r), 'f', -1, 64) }

// String represents a PDF string object
type String struct {
	Value []byte
	IsHex bool
}

func (s String) Type() ObjectType { return ObjString }
func (s String) String() string {
	if s.IsHex {
		return fmt.Sprintf("<%X>", s.Value)
	}
	return fmt.Sprintf("(%s)", string(s.Value))
}

// Text returns the string value decoded to UTF-8.
func (s String) Text() string {
	if len(s.Value) >= 2 && s.Value[0] == 0xFE && s.Value[1] == 0xFF {
		return decodeUTF16BE(s.Value[2:])
	}
	if len(s.Value) >= 3 && s.Value[0] == 0xEF && s.Value[1] == 0xBB && s.Value[2] == 0xBF {
		return string(s.Value[3:])
	}
	return string(s.Value)
}

// decodeUTF16BE decodes big-endian UTF-16 bytes
func decodeUTF16BE(b []byte) string {
	u16 := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		u16 = append(u16, uint16(b[i])<<8|uint16(b[i+1]))
	}
	return string(utf16.Decode(u16))
}

// Name represents a PDF name object
type Name string

func (n Name) Type() ObjectType { return ObjName }
func (n Name) String() string   { return "/" + string(n) }

// Array represents a PDF array object
type Array []Object

func (a Array) Type() ObjectType { return ObjArray }
func (a Array) String() string {
	var parts []string
	for _, obj := range a {
		parts = append(parts, obj.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Dictionary represents a PDF dictionary object
type Dictionary map[Name]Object

func (d Dictionary) Type() ObjectType { return ObjDictionary }
func (d Dictionary) String() string {
	var parts []string
	for k, v := range d {
		parts = append(parts, k.String()+" "+v.String())
	}
	return "<<" + strings.Join(parts, " ") + ">>"
}

// Get returns the value for a key
func (d Dictionary) Get(key string) Object {
	return d[Name(key)]
}

// GetName returns the name value for a key
func (d Dictionary) GetName(key string) (Name, bool) {
	if n, ok := d.Get(key).(Name); ok {
		return n, true
	}
	return "", false
}

// GetInt returns the integer value for a key
func (d Dictionary) GetInt(key string) (int64, bool) {
	switch v := d.Get(key).(type) {
	case Integer:
		return int64(v), true
	case Real:
		return int64(v), true
	}
	return 0, false
}

// GetFloat returns the numeric value for a key
func (d Dictionary) GetFloat(key string) (float64, bool) {
	switch v := d.Get(key).(type) {
	case Integer:
		return float64(v), true
	case Real:
		return float64(v), true
	}
	return 0, false
}

// GetArray returns the array value for a key
func (d Dictionary) GetArray(key string) (Array, bool) {
	if a, ok := d.Get(key).(Array); ok {
		return a, true
	}
	return nil, false
}

// GetDict returns the dictionary value for a key
func (d Dictionary) GetDict(key string) (Dictionary, bool) {
	if dict, ok := d.Get(key).(Dictionary); ok {
		return dict, true
	}
	return nil, false
}

// Clone returns a shallow copy of the dictionary.
func (d Dictionary) Clone() Dictionary {
	out := make(Dictionary, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Stream represents a PDF stream object. Data holds the raw, still
// encoded stream bytes.
type Stream struct {
	Dictionary Dictionary
	Data       []byte
}

func (s Stream) Type() ObjectType { return ObjStream }
func (s Stream) String() string {
	return s.Dictionary.String() + " stream...endstream"
}

// Decode decodes the stream data based on its filter chain.
func (s Stream) Decode() ([]byte, error) {
	data := s.Data

	filterObj := s.Dictionary.Get("Filter")
	if filterObj == nil {
		return data, nil
	}

	var filters []Name
	switch f := filterObj.(type) {
	case Name:
		filters = []Name{f}
	case Array:
		for _, item := range f {
			if n, ok := item.(Name); ok {
				filters = append(filters, n)
			}
		}
	}

	params := make([]Dictionary, len(filters))
	switch p := s.Dictionary.Get("DecodeParms").(type) {
	case Dictionary:
		if len(params) > 0 {
			params[0] = p
		}
	case Array:
		for i, item := range p {
			if i >= len(params) {
				break
			}
			if d, ok := item.(Dictionary); ok {
				params[i] = d
			}
		}
	}

	for i, filter := range filters {
		var err error
		data, err = applyFilter(data, filter, params[i])
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", filter, err)
		}
	}
	return data, nil
}

// Reference represents an indirect object reference
type Reference struct {
	ObjectNumber     int
	GenerationNumber int
}

func (r Reference) Type() ObjectType { return ObjReference }
func (r Reference) String() string {
	return fmt.Sprintf("%d %d R", r.ObjectNumber, r.GenerationNumber)
}
