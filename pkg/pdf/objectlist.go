package pdf

import "sort"

// ObjectInfo describes one entry of the cross-reference table
type ObjectInfo struct {
	Number     int
	Generation int
	Offset     int64
	Type       string
	Subtype    string
	Compressed bool
	InUse      bool
}

// ListObjects returns information about every object in the file,
// ordered by object number.
func (d *Document) ListObjects() []ObjectInfo {
	nums := make([]int, 0, len(d.xref))
	for n := range d.xref {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	infos := make([]ObjectInfo, 0, len(nums))
	for _, n := range nums {
		entry := d.xref[n]
		info := ObjectInfo{
			Number:     n,
			Generation: entry.Generation,
			Offset:     entry.Offset,
			Compressed: entry.StreamObjNum > 0,
			InUse:      entry.InUse,
		}

		if entry.InUse {
			if obj, err := d.GetObject(n); err == nil {
				info.Type = describeObject(obj)
				if dict, ok := objectDict(obj); ok {
					if t, ok := dict.GetName("Type"); ok {
						info.Type = string(t)
					}
					if st, ok := dict.GetName("Subtype"); ok {
						info.Subtype = string(st)
					}
				}
			}
		}
		infos = append(infos, info)
	}
	return infos
}

// objectDict returns the dictionary of a dict or stream object
func objectDict(obj Object) (Dictionary, bool) {
	switch v := obj.(type) {
	case Dictionary:
		return v, true
	case Stream:
		return v.Dictionary, true
	}
	return nil, false
}

// describeObject names the syntactic class of an object
func describeObject(obj Object) string {
	switch obj.(type) {
	case Null:
		return "null"
	case Boolean:
		return "boolean"
	case Integer:
		return "integer"
	case Real:
		return "real"
	case String:
		return "string"
	case Name:
		return "name"
	case Array:
		return "array"
	case Dictionary:
		return "dictionary"
	case Stream:
		return "stream"
	case Reference:
		return "reference"
	}
	return "unknown"
}
