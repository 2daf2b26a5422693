package llm

import (
	"reflect"
	"strings"
	"testing"
)

func TestStripCodeFences(t *testing.T) {
	const body = `[{"name":"a"}]`
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"absent", body, body},
		{"leading_only", "```json\n" + body, body},
		{"both", "```json\n" + body + "\n```", body},
		{"bare_fence", "```\n" + body + "\n```", body},
		{"surrounding_whitespace", "  \n```json\n" + body + "\n```  \n", body},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripCodeFences(tc.in); got != tc.want {
				t.Errorf("StripCodeFences(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestDecodeRecords_array(t *testing.T) {
	raw := `[{"name":"Essay on Turbines","marks":82,"remarks":["clear structure"],"suggestions":["cite sources"],"errors":[]}]`
	records, _, err := DecodeRecords(raw, nil)
	if err != nil {
		t.Fatalf("DecodeRecords: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	r := records[0]
	if r.Name != "Essay on Turbines" || r.Marks != 82 {
		t.Errorf("record = %+v", r)
	}
	if len(r.Remarks) != 1 || len(r.Suggestions) != 1 || len(r.Errors) != 0 {
		t.Errorf("lists = %v / %v / %v", r.Remarks, r.Suggestions, r.Errors)
	}
}

func TestDecodeRecords_fencedEqualsUnfenced(t *testing.T) {
	raw := `[{"name":"x","marks":50,"remarks":[],"suggestions":[],"errors":[]}]`
	plain, _, err := DecodeRecords(raw, nil)
	if err != nil {
		t.Fatalf("plain: %v", err)
	}
	fenced, _, err := DecodeRecords("```json\n"+raw+"\n```", nil)
	if err != nil {
		t.Fatalf("fenced: %v", err)
	}
	if !reflect.DeepEqual(plain, fenced) {
		t.Errorf("fenced output differs: %+v vs %+v", plain, fenced)
	}
}

func TestDecodeRecords_singleObjectWrapped(t *testing.T) {
	raw := `{"name":"solo","marks":60,"remarks":[],"suggestions":[],"errors":[]}`
	records, _, err := DecodeRecords(raw, nil)
	if err != nil {
		t.Fatalf("DecodeRecords: %v", err)
	}
	if len(records) != 1 || records[0].Name != "solo" {
		t.Fatalf("records = %+v, want one-element wrap", records)
	}
}

func TestDecodeRecords_missingListsDefaultEmpty(t *testing.T) {
	raw := `[{"name":"bare","marks":40}]`
	records, notes, err := DecodeRecords(raw, nil)
	if err != nil {
		t.Fatalf("DecodeRecords: %v", err)
	}
	r := records[0]
	if r.Remarks == nil || r.Suggestions == nil || r.Errors == nil {
		t.Fatalf("list fields must be empty slices, never nil: %+v", r)
	}
	if len(r.Remarks) != 0 || len(r.Suggestions) != 0 || len(r.Errors) != 0 {
		t.Errorf("expected empty lists, got %+v", r)
	}
	if len(notes) == 0 {
		t.Errorf("expected coercion notes for defaulted fields")
	}
}

func TestDecodeRecords_missingNameAndMarksDefault(t *testing.T) {
	raw := `[{"remarks":["ok"],"suggestions":[],"errors":[]}]`
	records, _, err := DecodeRecords(raw, nil)
	if err != nil {
		t.Fatalf("DecodeRecords: %v", err)
	}
	if records[0].Name != "" || records[0].Marks != 0 {
		t.Errorf("defaults not applied: %+v", records[0])
	}
}

func TestDecodeRecords_marksClamped(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{`[{"marks":150}]`, 100},
		{`[{"marks":-5}]`, 0},
		{`[{"marks":"120"}]`, 100},
	}
	for _, tc := range cases {
		records, notes, err := DecodeRecords(tc.in, nil)
		if err != nil {
			t.Fatalf("DecodeRecords(%s): %v", tc.in, err)
		}
		if records[0].Marks != tc.want {
			t.Errorf("DecodeRecords(%s) marks = %d, want %d", tc.in, records[0].Marks, tc.want)
		}
		if len(notes) == 0 {
			t.Errorf("clamp must be reported in notes for %s", tc.in)
		}
	}
}

func TestDecodeRecords_marksStringCoerced(t *testing.T) {
	records, _, err := DecodeRecords(`[{"marks":" 85 "}]`, nil)
	if err != nil {
		t.Fatalf("DecodeRecords: %v", err)
	}
	if records[0].Marks != 85 {
		t.Errorf("marks = %d, want 85", records[0].Marks)
	}
}

func TestDecodeRecords_coercionFailures(t *testing.T) {
	cases := []struct {
		name string
		in   string
		frag string
	}{
		{"marks_not_numeric", `[{"marks":"excellent"}]`, "marks"},
		{"marks_bool", `[{"marks":true}]`, "marks"},
		{"name_not_string", `[{"name":42}]`, "name"},
		{"list_object", `[{"remarks":{"a":1}}]`, "remarks"},
		{"list_numeric_element", `[{"suggestions":[1,2]}]`, "suggestions"},
		{"null_element", `[null]`, "null"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := DecodeRecords(tc.in, nil)
			if err == nil {
				t.Fatalf("expected error for %s", tc.in)
			}
			if !strings.Contains(err.Error(), tc.frag) {
				t.Errorf("error %q does not mention %q", err, tc.frag)
			}
		})
	}
}

func TestDecodeRecords_malformedJSON(t *testing.T) {
	_, _, err := DecodeRecords(`{"name": "broken`, nil)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "parse structured feedback") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestDecodeRecords_bareStringListWrapped(t *testing.T) {
	records, _, err := DecodeRecords(`[{"errors":"missing citation"}]`, nil)
	if err != nil {
		t.Fatalf("DecodeRecords: %v", err)
	}
	if len(records[0].Errors) != 1 || records[0].Errors[0] != "missing citation" {
		t.Errorf("errors = %v", records[0].Errors)
	}
}
