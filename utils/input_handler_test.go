package utils

import (
	"testing"

	"github.com/quanghuy/intelliquiz-backend/services"
)

func TestGetInputTypeFromExt(t *testing.T) {
	cases := []struct {
		ext  string
		want services.InputType
		ok   bool
	}{
		{".pdf", services.InputPDF, true},
		{".PDF", services.InputPDF, true},
		{".docx", services.InputDOCX, true},
		{".txt", services.InputTXT, true},
		{".exe", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := GetInputTypeFromExt(tc.ext)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("GetInputTypeFromExt(%q) = %q, %v; want %q", tc.ext, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Errorf("GetInputTypeFromExt(%q) accepted", tc.ext)
		}
	}
}

func TestValidMaterialMime(t *testing.T) {
	if !ValidMaterialMime("application/pdf") {
		t.Errorf("pdf rejected")
	}
	if !ValidMaterialMime("text/plain; charset=utf-8") {
		t.Errorf("charset suffix rejected")
	}
	if !ValidMaterialMime("") {
		t.Errorf("empty content type rejected")
	}
	if ValidMaterialMime("application/x-msdownload") {
		t.Errorf("executable mime accepted")
	}
}

func TestValidVideoMime(t *testing.T) {
	if !ValidVideoMime("video/webm") || !ValidVideoMime("video/mp4") {
		t.Errorf("supported video mime rejected")
	}
	if ValidVideoMime("video/x-matroska") || ValidVideoMime("") {
		t.Errorf("unsupported video mime accepted")
	}
}
