package pdf

import (
	"bytes"
	"testing"
)

func TestParseObjectScalars(t *testing.T) {
	tests := []struct {
		in   string
		want Object
	}{
		{"42", Integer(42)},
		{"-7", Integer(-7)},
		{"3.5", Real(3.5)},
		{"true", Boolean(true)},
		{"false", Boolean(false)},
		{"null", Null{}},
		{"/Name", Name("Name")},
	}
	for _, tt := range tests {
		p := NewParser([]byte(tt.in))
		obj, err := p.ParseObject()
		if err != nil {
			t.Errorf("%s: %v", tt.in, err)
			continue
		}
		if obj != tt.want {
			t.Errorf("%s: got %v, want %v", tt.in, obj, tt.want)
		}
	}
}

func TestParseReference(t *testing.T) {
	p := NewParser([]byte("12 0 R"))
	obj, err := p.ParseObject()
	if err != nil {
		t.Fatal(err)
	}
	ref, ok := obj.(Reference)
	if !ok {
		t.Fatalf("got %T, want Reference", obj)
	}
	if ref.ObjectNumber != 12 || ref.GenerationNumber != 0 {
		t.Errorf("got %v, want 12 0 R", ref)
	}

	// Two integers not followed by R stay integers.
	p = NewParser([]byte("12 0 /Next"))
	obj, err = p.ParseObject()
	if err != nil {
		t.Fatal(err)
	}
	if obj != Integer(12) {
		t.Errorf("got %v, want Integer(12)", obj)
	}
}

func TestParseArray(t *testing.T) {
	p := NewParser([]byte("[1 (two) /Three [4] 5 0 R]"))
	obj, err := p.ParseObject()
	if err != nil {
		t.Fatal(err)
	}
	arr, ok := obj.(Array)
	if !ok {
		t.Fatalf("got %T, want Array", obj)
	}
	if len(arr) != 5 {
		t.Fatalf("got %d elements, want 5", len(arr))
	}
	if arr[0] != Integer(1) {
		t.Errorf("element 0: got %v", arr[0])
	}
	if _, ok := arr[3].(Array); !ok {
		t.Errorf("element 3: got %T, want nested Array", arr[3])
	}
	if ref, ok := arr[4].(Reference); !ok || ref.ObjectNumber != 5 {
		t.Errorf("element 4: got %v, want 5 0 R", arr[4])
	}
}

func TestParseDictionary(t *testing.T) {
	p := NewParser([]byte("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>"))
	obj, err := p.ParseObject()
	if err != nil {
		t.Fatal(err)
	}
	dict, ok := obj.(Dictionary)
	if !ok {
		t.Fatalf("got %T, want Dictionary", obj)
	}
	if n, _ := dict.GetName("Type"); n != "Page" {
		t.Errorf("Type: got %q", n)
	}
	if ref, ok := dict.Get("Parent").(Reference); !ok || ref.ObjectNumber != 2 {
		t.Errorf("Parent: got %v", dict.Get("Parent"))
	}
	if box, ok := dict.GetArray("MediaBox"); !ok || len(box) != 4 {
		t.Errorf("MediaBox: got %v", dict.Get("MediaBox"))
	}
}

func TestParseIndirectObject(t *testing.T) {
	p := NewParser([]byte("7 0 obj\n<< /Key (value) >>\nendobj\n"))
	num, gen, obj, err := p.ParseIndirectObject()
	if err != nil {
		t.Fatal(err)
	}
	if num != 7 || gen != 0 {
		t.Errorf("got %d %d, want 7 0", num, gen)
	}
	dict, ok := obj.(Dictionary)
	if !ok {
		t.Fatalf("got %T, want Dictionary", obj)
	}
	if s, ok := dict.Get("Key").(String); !ok || string(s.Value) != "value" {
		t.Errorf("Key: got %v", dict.Get("Key"))
	}
}

func TestParseIndirectStream(t *testing.T) {
	data := []byte("5 0 obj\n<< /Length 11 >>\nstream\nhello world\nendstream\nendobj\n")
	p := NewParser(data)
	num, _, obj, err := p.ParseIndirectObject()
	if err != nil {
		t.Fatal(err)
	}
	if num != 5 {
		t.Errorf("got object %d, want 5", num)
	}
	stream, ok := obj.(Stream)
	if !ok {
		t.Fatalf("got %T, want Stream", obj)
	}
	if !bytes.Equal(stream.Data, []byte("hello world")) {
		t.Errorf("stream data: got %q", stream.Data)
	}
}

func TestParseStreamWithoutLength(t *testing.T) {
	// A missing Length falls back to scanning for endstream.
	data := []byte("5 0 obj\n<< >>\nstream\npayload\nendstream\nendobj\n")
	p := NewParser(data)
	_, _, obj, err := p.ParseIndirectObject()
	if err != nil {
		t.Fatal(err)
	}
	stream, ok := obj.(Stream)
	if !ok {
		t.Fatalf("got %T, want Stream", obj)
	}
	if !bytes.Equal(stream.Data, []byte("payload")) {
		t.Errorf("stream data: got %q", stream.Data)
	}
}
