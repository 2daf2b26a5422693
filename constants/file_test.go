package constants

import "testing"

func TestNormalizeExt(t *testing.T) {
	cases := []struct{ in, want string }{
		{".PDF", "pdf"},
		{"pdf", "pdf"},
		{".Docx", "docx"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeExt(tc.in); got != tc.want {
			t.Errorf("NormalizeExt(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsAllowedExt(t *testing.T) {
	for _, ext := range []string{".pdf", "pdf", ".DOCX", "txt", ".md", ".png", ".jpg", ".jpeg"} {
		if !IsAllowedExt(ext) {
			t.Errorf("IsAllowedExt(%q) = false, want true", ext)
		}
	}
	for _, ext := range []string{".exe", "zip", "", ".doc", ".tex"} {
		if IsAllowedExt(ext) {
			t.Errorf("IsAllowedExt(%q) = true, want false", ext)
		}
	}
}

func TestMapExtToMIME(t *testing.T) {
	cases := []struct{ in, want string }{
		{".pdf", "application/pdf"},
		{"jpeg", "image/jpeg"},
		{".JPG", "image/jpeg"},
		{".md", "text/markdown"},
		{".weird", "application/octet-stream"},
	}
	for _, tc := range cases {
		if got := MapExtToMIME(tc.in); got != tc.want {
			t.Errorf("MapExtToMIME(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestClampMarks(t *testing.T) {
	cases := []struct{ in, want int }{
		{-1, 0},
		{0, 0},
		{50, 50},
		{100, 100},
		{101, 100},
		{1000, 100},
	}
	for _, tc := range cases {
		if got := ClampMarks(tc.in); got != tc.want {
			t.Errorf("ClampMarks(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
