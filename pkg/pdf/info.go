package pdf

import (
	"bytes"
	"strconv"
	"time"
)

// DocumentInfo contains PDF document metadata
type DocumentInfo struct {
	Title           string
	Author          string
	Subject         string
	Keywords        string
	Creator         string
	Producer        string
	CreationDate    time.Time
	ModDate         time.Time
	CreationDateRaw string
	ModDateRaw      string
	Custom          map[string]string
	Tagged          bool
	Form            string
	Encrypted       bool
	Optimized       bool
	PDFVersion      string
}

// GetInfo returns document metadata
func (d *Document) GetInfo() DocumentInfo {
	info := DocumentInfo{
		Custom:     make(map[string]string),
		PDFVersion: d.Version,
		Form:       "none",
	}

	if d.InfoDict != nil {
		info.Title = objectToString(d.InfoDict.Get("Title"))
		info.Author = objectToString(d.InfoDict.Get("Author"))
		info.Subject = objectToString(d.InfoDict.Get("Subject"))
		info.Keywords = objectToString(d.InfoDict.Get("Keywords"))
		info.Creator = objectToString(d.InfoDict.Get("Creator"))
		info.Producer = objectToString(d.InfoDict.Get("Producer"))

		if creationDate := d.InfoDict.Get("CreationDate"); creationDate != nil {
			info.CreationDateRaw = objectToString(creationDate)
			info.CreationDate = parsePDFDate(info.CreationDateRaw)
		}
		if modDate := d.InfoDict.Get("ModDate"); modDate != nil {
			info.ModDateRaw = objectToString(modDate)
			info.ModDate = parsePDFDate(info.ModDateRaw)
		}

		standardKeys := map[string]bool{
			"Title": true, "Author": true, "Subject": true, "Keywords": true,
			"Creator": true, "Producer": true, "CreationDate": true, "ModDate": true,
			"Trapped": true,
		}
		for key, val := range d.InfoDict {
			if !standardKeys[string(key)] {
				info.Custom[string(key)] = objectToString(val)
			}
		}
	}

	info.Encrypted = d.IsEncrypted()

	if markInfo := d.Root.Get("MarkInfo"); markInfo != nil {
		if markObj, err := d.Resolve(markInfo); err == nil {
			if dict, ok := markObj.(Dictionary); ok {
				if b, ok := dict.Get("Marked").(Boolean); ok {
					info.Tagged = bool(b)
				}
			}
		}
	}

	if acroForm := d.Root.Get("AcroForm"); acroForm != nil {
		info.Form = "AcroForm"
		if formObj, err := d.Resolve(acroForm); err == nil {
			if dict, ok := formObj.(Dictionary); ok {
				if dict.Get("XFA") != nil {
					info.Form = "XFA"
				}
			}
		}
	}

	// Linearized files declare it in the first object
	if len(d.data) > 100 && bytes.Contains(d.data[:100], []byte("/Linearized")) {
		info.Optimized = true
	}

	return info
}

// GetMetadata returns the XMP metadata stream as a string
func (d *Document) GetMetadata() string {
	metadataObj, err := d.Resolve(d.Root.Get("Metadata"))
	if err != nil {
		return ""
	}
	stream, ok := metadataObj.(Stream)
	if !ok {
		return ""
	}
	data, err := stream.Decode()
	if err != nil {
		return ""
	}
	return string(data)
}

// objectToString converts a textual PDF object to a string
func objectToString(obj Object) string {
	switch v := obj.(type) {
	case String:
		return v.Text()
	case Name:
		return string(v)
	}
	return ""
}

// parsePDFDate parses a PDF date string (D:YYYYMMDDHHmmSSOHH'mm')
func parsePDFDate(s string) time.Time {
	if len(s) < 4 {
		return time.Time{}
	}
	if s[0:2] == "D:" {
		s = s[2:]
	}

	var year, hour, min, sec int
	month, day := 1, 1
	var tzHour, tzMin int
	var tzSign byte = '+'

	if len(s) >= 4 {
		year, _ = strconv.Atoi(s[0:4])
	}
	if len(s) >= 6 {
		month, _ = strconv.Atoi(s[4:6])
	}
	if len(s) >= 8 {
		day, _ = strconv.Atoi(s[6:8])
	}
	if len(s) >= 10 {
		hour, _ = strconv.Atoi(s[8:10])
	}
	if len(s) >= 12 {
		min, _ = strconv.Atoi(s[10:12])
	}
	if len(s) >= 14 {
		sec, _ = strconv.Atoi(s[12:14])
	}

	if len(s) >= 15 {
		tzSign = s[14]
		if len(s) >= 17 {
			tzHour, _ = strconv.Atoi(s[15:17])
		}
		if len(s) >= 20 && s[17] == '\'' {
			tzMin, _ = strconv.Atoi(s[18:20])
		}
	}

	offset := tzHour*3600 + tzMin*60
	if tzSign == '-' {
		offset = -offset
	}
	loc := time.FixedZone("", offset)

	return time.Date(year, time.Month(month), day, hour, min, sec, 0, loc)
}
