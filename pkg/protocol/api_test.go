package protocol

import (
	"encoding/json"
	"testing"
)

func TestDecodeResult(t *testing.T) {
	r, err := DecodeResult([]byte(`{"success":true,"filenames":["a.txt","b.png"]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Success {
		t.Error("expected success")
	}
	if len(r.Filenames) != 2 || r.Filenames[1] != "b.png" {
		t.Errorf("unexpected filenames: %v", r.Filenames)
	}
}

func TestDecodeResult_ErrorBody(t *testing.T) {
	r, err := DecodeResult([]byte(`{"error":"Item does not exist"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Success || r.Error != "Item does not exist" {
		t.Errorf("unexpected result: %+v", r)
	}
}

func TestDecodeResult_NonObject(t *testing.T) {
	for _, body := range []string{`[1,2]`, `"ok"`, `42`, `null`} {
		r, err := DecodeResult([]byte(body))
		if err != nil {
			t.Errorf("%s: unexpected error: %v", body, err)
			continue
		}
		if string(r.Raw) != body {
			t.Errorf("%s: raw not preserved, got %s", body, r.Raw)
		}
	}
}

func TestDecodeResult_Invalid(t *testing.T) {
	if _, err := DecodeResult([]byte(`<html>`)); err == nil {
		t.Fatal("expected error for non-JSON body")
	}
}

func TestRenameRequestFieldNames(t *testing.T) {
	data, _ := json.Marshal(RenameRequest{OldName: "a/b.txt", NewName: "c.txt"})
	want := `{"old_name":"a/b.txt","new_name":"c.txt"}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}
}
