package pdf

import (
	"os"
	"path/filepath"
	"time"
)

// Attachment represents an embedded file in a PDF
type Attachment struct {
	Name         string
	Description  string
	Size         int64
	CreationDate time.Time
	ModDate      time.Time
	MimeType     string
	doc          *Document
	streamRef    Reference
}

// Data returns the decoded attachment bytes
func (a *Attachment) Data() ([]byte, error) {
	obj, err := a.doc.GetObject(a.streamRef.ObjectNumber)
	if err != nil {
		return nil, err
	}
	stream, ok := obj.(Stream)
	if !ok {
		return nil, nil
	}
	return stream.Decode()
}

// SaveTo writes the attachment into the given directory
func (a *Attachment) SaveTo(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := a.Data()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, filepath.Base(a.Name)), data, 0644)
}

// GetAttachments lists the embedded files of the document
func (d *Document) GetAttachments() []*Attachment {
	var attachments []*Attachment

	names := d.resolveDict(d.Root.Get("Names"))
	embedded := d.resolveDict(names.Get("EmbeddedFiles"))
	if embedded == nil {
		return attachments
	}

	d.collectAttachments(embedded, &attachments, 0)
	return attachments
}

// GetAllAttachments lists document level embedded files plus file
// attachment annotations found on pages.
func (d *Document) GetAllAttachments() []*Attachment {
	attachments := d.GetAttachments()

	for _, page := range d.Pages {
		annotsObj, err := d.Resolve(page.Dictionary.Get("Annots"))
		if err != nil {
			continue
		}
		annots, ok := annotsObj.(Array)
		if !ok {
			continue
		}
		for _, ref := range annots {
			annot := d.resolveDict(ref)
			if annot == nil {
				continue
			}
			if subtype, _ := annot.GetName("Subtype"); subtype != "FileAttachment" {
				continue
			}
			if att := d.parseAttachment("", annot.Get("FS")); att != nil {
				attachments = append(attachments, att)
			}
		}
	}
	return attachments
}

// collectAttachments walks the EmbeddedFiles name tree
func (d *Document) collectAttachments(node Dictionary, out *[]*Attachment, depth int) {
	if node == nil || depth > 32 {
		return
	}

	if namesObj, err := d.Resolve(node.Get("Names")); err == nil {
		if arr, ok := namesObj.(Array); ok {
			for i := 0; i+1 < len(arr); i += 2 {
				name := ""
				if str, ok := arr[i].(String); ok {
					name = str.Text()
				}
				if att := d.parseAttachment(name, arr[i+1]); att != nil {
					*out = append(*out, att)
				}
			}
		}
	}

	if kidsObj, err := d.Resolve(node.Get("Kids")); err == nil {
		if kids, ok := kidsObj.(Array); ok {
			for _, kid := range kids {
				d.collectAttachments(d.resolveDict(kid), out, depth+1)
			}
		}
	}
}

// parseAttachment builds an Attachment from a file specification
func (d *Document) parseAttachment(name string, fileSpecObj Object) *Attachment {
	fileSpec := d.resolveDict(fileSpecObj)
	if fileSpec == nil {
		return nil
	}

	att := &Attachment{Name: name, doc: d}

	if str, ok := fileSpec.Get("F").(String); ok {
		att.Name = str.Text()
	}
	if str, ok := fileSpec.Get("UF").(String); ok {
		att.Name = str.Text()
	}
	if str, ok := fileSpec.Get("Desc").(String); ok {
		att.Description = str.Text()
	}

	ef := d.resolveDict(fileSpec.Get("EF"))
	if ef == nil {
		return nil
	}
	for _, key := range []string{"F", "UF", "DOS", "Mac", "Unix"} {
		if ref, ok := ef.Get(key).(Reference); ok {
			att.streamRef = ref
			break
		}
	}
	if att.streamRef.ObjectNumber == 0 {
		return nil
	}

	streamObj, err := d.GetObject(att.streamRef.ObjectNumber)
	if err != nil {
		return nil
	}
	if stream, ok := streamObj.(Stream); ok {
		if params := d.resolveDict(stream.Dictionary.Get("Params")); params != nil {
			if size, ok := params.GetInt("Size"); ok {
				att.Size = size
			}
			if str, ok := params.Get("CreationDate").(String); ok {
				att.CreationDate = parsePDFDate(str.Text())
			}
			if str, ok := params.Get("ModDate").(String); ok {
				att.ModDate = parsePDFDate(str.Text())
			}
		}
		if att.Size == 0 {
			if dl, ok := stream.Dictionary.GetInt("DL"); ok {
				att.Size = dl
			} else if length, ok := stream.Dictionary.GetInt("Length"); ok {
				att.Size = length
			}
		}
		if subtype, ok := stream.Dictionary.GetName("Subtype"); ok {
			att.MimeType = string(subtype)
		}
	}

	return att
}
