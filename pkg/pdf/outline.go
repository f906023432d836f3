package pdf

// OutlineItem represents a node of the document outline tree
type OutlineItem struct {
	doc  *Document
	dict Dictionary
}

// GetOutline returns the outline root, or nil when the document has no
// outline. The root is the bare /Outlines container, not an entry; the
// top-level entries hang off its FirstChild.
func (d *Document) GetOutline() *OutlineItem {
	outlinesObj, err := d.Resolve(d.Root.Get("Outlines"))
	if err != nil {
		return nil
	}
	outlines, ok := outlinesObj.(Dictionary)
	if !ok {
		return nil
	}
	return &OutlineItem{doc: d, dict: outlines}
}

// outlineItem resolves a reference into an item, nil on any failure
func (d *Document) outlineItem(ref Object) *OutlineItem {
	if ref == nil {
		return nil
	}
	obj, err := d.Resolve(ref)
	if err != nil {
		return nil
	}
	dict, ok := obj.(Dictionary)
	if !ok {
		return nil
	}
	return &OutlineItem{doc: d, dict: dict}
}

// Title returns the item title
func (it *OutlineItem) Title() string {
	obj, err := it.doc.Resolve(it.dict.Get("Title"))
	if err != nil {
		return ""
	}
	if s, ok := obj.(String); ok {
		return s.Text()
	}
	return ""
}

// FirstChild returns the first child item, or nil
func (it *OutlineItem) FirstChild() *OutlineItem {
	return it.doc.outlineItem(it.dict.Get("First"))
}

// NextSibling returns the next sibling item, or nil
func (it *OutlineItem) NextSibling() *OutlineItem {
	return it.doc.outlineItem(it.dict.Get("Next"))
}

// ActionType returns the /S name of the item's action, or "GoTo" for a
// plain /Dest entry. Items without a target return the empty string.
func (it *OutlineItem) ActionType() string {
	if it.dict.Get("Dest") != nil {
		return "GoTo"
	}
	actionObj, err := it.doc.Resolve(it.dict.Get("A"))
	if err != nil {
		return ""
	}
	action, ok := actionObj.(Dictionary)
	if !ok {
		return ""
	}
	s, _ := action.GetName("S")
	return string(s)
}

// PageIndex returns the 0-based index of the target page, or -1 when
// the item does not point at a page in this document.
func (it *OutlineItem) PageIndex() int {
	if dest := it.dict.Get("Dest"); dest != nil {
		return it.doc.destPageIndex(dest)
	}

	actionObj, err := it.doc.Resolve(it.dict.Get("A"))
	if err != nil {
		return -1
	}
	action, ok := actionObj.(Dictionary)
	if !ok {
		return -1
	}
	if s, _ := action.GetName("S"); s != "GoTo" {
		return -1
	}
	return it.doc.destPageIndex(action.Get("D"))
}

// destPageIndex resolves a destination to a 0-based page index.
// Destinations come as explicit arrays, as names, or as strings
// mapped through the Dests name tree.
func (d *Document) destPageIndex(dest Object) int {
	obj, err := d.Resolve(dest)
	if err != nil {
		return -1
	}

	switch v := obj.(type) {
	case Array:
		if len(v) == 0 {
			return -1
		}
		switch target := v[0].(type) {
		case Reference:
			if idx, ok := d.pageIndexForObject(target.ObjectNumber); ok {
				return idx
			}
		case Integer:
			// Remote destinations index pages directly
			if int(target) >= 0 && int(target) < len(d.Pages) {
				return int(target)
			}
		}
		return -1

	case Name:
		return d.namedDestPageIndex(string(v))

	case String:
		return d.namedDestPageIndex(string(v.Value))
	}

	return -1
}

// namedDestPageIndex looks up a named destination
func (d *Document) namedDestPageIndex(name string) int {
	// PDF 1.1 style Dests dictionary in the catalog
	if destsObj, err := d.Resolve(d.Root.Get("Dests")); err == nil {
		if dests, ok := destsObj.(Dictionary); ok {
			if entry := dests.Get(name); entry != nil {
				return d.resolveDestEntry(entry)
			}
		}
	}

	// Name tree under Names/Dests
	namesObj, err := d.Resolve(d.Root.Get("Names"))
	if err != nil {
		return -1
	}
	names, ok := namesObj.(Dictionary)
	if !ok {
		return -1
	}
	if entry := d.lookupNameTree(names.Get("Dests"), name, 0); entry != nil {
		return d.resolveDestEntry(entry)
	}
	return -1
}

// resolveDestEntry unwraps /D dictionaries around destination arrays
func (d *Document) resolveDestEntry(entry Object) int {
	obj, err := d.Resolve(entry)
	if err != nil {
		return -1
	}
	if dict, ok := obj.(Dictionary); ok {
		return d.destPageIndex(dict.Get("D"))
	}
	return d.destPageIndex(obj)
}

// lookupNameTree searches a name tree for a key
func (d *Document) lookupNameTree(ref Object, key string, depth int) Object {
	if ref == nil || depth > 32 {
		return nil
	}
	obj, err := d.Resolve(ref)
	if err != nil {
		return nil
	}
	node, ok := obj.(Dictionary)
	if !ok {
		return nil
	}

	if namesObj, err := d.Resolve(node.Get("Names")); err == nil {
		if arr, ok := namesObj.(Array); ok {
			for i := 0; i+1 < len(arr); i += 2 {
				if s, ok := arr[i].(String); ok && string(s.Value) == key {
					return arr[i+1]
				}
			}
		}
	}

	if kidsObj, err := d.Resolve(node.Get("Kids")); err == nil {
		if kids, ok := kidsObj.(Array); ok {
			for _, kid := range kids {
				if found := d.lookupNameTree(kid, key, depth+1); found != nil {
					return found
				}
			}
		}
	}
	return nil
}
