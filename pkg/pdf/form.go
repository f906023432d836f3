package pdf

// FormField represents a PDF form field
type FormField struct {
	Name       string
	Type       string // Tx, Btn, Ch, Sig
	Value      string
	DefaultVal string
	Options    []string // choice fields
	Flags      int
	MaxLen     int
	Rect       Rectangle
	ReadOnly   bool
	Required   bool
	NoExport   bool
	Kids       []*FormField
}

// GetFormFields returns all AcroForm fields in the document
func (d *Document) GetFormFields() []*FormField {
	var fields []*FormField

	acroForm := d.resolveDict(d.Root.Get("AcroForm"))
	if acroForm == nil {
		return fields
	}

	fieldsObj, err := d.Resolve(acroForm.Get("Fields"))
	if err != nil {
		return fields
	}
	fieldsArr, ok := fieldsObj.(Array)
	if !ok {
		return fields
	}

	for _, fieldRef := range fieldsArr {
		if field := d.parseFormField(fieldRef, "", 0); field != nil {
			fields = append(fields, field)
		}
	}
	return fields
}

func (d *Document) parseFormField(ref Object, parentName string, depth int) *FormField {
	if depth > 16 {
		return nil
	}
	fieldDict := d.resolveDict(ref)
	if fieldDict == nil {
		return nil
	}

	field := &FormField{}

	if str, ok := fieldDict.Get("T").(String); ok {
		field.Name = str.Text()
	}
	if parentName != "" {
		field.Name = parentName + "." + field.Name
	}

	if ft, ok := fieldDict.GetName("FT"); ok {
		field.Type = string(ft)
	}

	switch v := fieldDict.Get("V").(type) {
	case String:
		field.Value = v.Text()
	case Name:
		field.Value = string(v)
	}
	switch dv := fieldDict.Get("DV").(type) {
	case String:
		field.DefaultVal = dv.Text()
	case Name:
		field.DefaultVal = string(dv)
	}

	if ff, ok := fieldDict.GetInt("Ff"); ok {
		field.Flags = int(ff)
		field.ReadOnly = field.Flags&1 != 0
		field.Required = field.Flags&2 != 0
		field.NoExport = field.Flags&4 != 0
	}

	if maxLen, ok := fieldDict.GetInt("MaxLen"); ok {
		field.MaxLen = int(maxLen)
	}

	if optObj, err := d.Resolve(fieldDict.Get("Opt")); err == nil {
		if optArr, ok := optObj.(Array); ok {
			for _, o := range optArr {
				switch ov := o.(type) {
				case String:
					field.Options = append(field.Options, ov.Text())
				case Array:
					// Export value pairs list the display name second
					if len(ov) > 1 {
						if str, ok := ov[1].(String); ok {
							field.Options = append(field.Options, str.Text())
						}
					} else if len(ov) == 1 {
						if str, ok := ov[0].(String); ok {
							field.Options = append(field.Options, str.Text())
						}
					}
				}
			}
		}
	}

	if rectObj, err := d.Resolve(fieldDict.Get("Rect")); err == nil {
		if arr, ok := rectObj.(Array); ok && len(arr) == 4 {
			field.Rect = arrayToRectangle(arr)
		}
	}

	if kidsObj, err := d.Resolve(fieldDict.Get("Kids")); err == nil {
		if kidsArr, ok := kidsObj.(Array); ok {
			for _, kidRef := range kidsArr {
				if kid := d.parseFormField(kidRef, field.Name, depth+1); kid != nil {
					field.Kids = append(field.Kids, kid)
				}
			}
		}
	}

	return field
}

// HasForm reports whether the document carries an AcroForm
func (d *Document) HasForm() bool {
	return d.Root.Get("AcroForm") != nil
}
