package studyplan

import (
	"errors"
	"reflect"
	"testing"
)

func names(d *Draft) []string {
	var out []string
	for _, s := range d.Subjects {
		out = append(out, s.Name)
	}
	return out
}

func TestNewDraftPlaceholders(t *testing.T) {
	d := NewDraft(3)
	want := []string{"Subject 1", "Subject 2", "Subject 3"}
	if got := names(d); !reflect.DeepEqual(got, want) {
		t.Errorf("names = %v, want %v", got, want)
	}
}

func TestRenameSubject(t *testing.T) {
	d := NewDraft(3)
	if err := d.RenameSubject(0, "  Math "); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if d.Subjects[0].Name != "Math" {
		t.Errorf("name = %q, want Math", d.Subjects[0].Name)
	}

	before := names(d)
	err := d.RenameSubject(1, "MATH")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	want := `Subject name "MATH" already exists. Please use a different name.`
	if verr.Message != want {
		t.Errorf("message = %q", verr.Message)
	}
	if !reflect.DeepEqual(names(d), before) {
		t.Errorf("rejected rename changed draft: %v", names(d))
	}

	// Renaming a subject to its own name in another case is allowed.
	if err := d.RenameSubject(0, "math"); err != nil {
		t.Errorf("self rename: %v", err)
	}

	if err := d.RenameSubject(2, "   "); err != nil {
		t.Fatalf("blank rename: %v", err)
	}
	if d.Subjects[2].Name != "Subject 3" {
		t.Errorf("blank rename = %q, want Subject 3", d.Subjects[2].Name)
	}

	if err := d.RenameSubject(5, "Art"); err == nil {
		t.Error("expected error for out of range index")
	}
}

func TestBlankRenameCollidingWithPlaceholder(t *testing.T) {
	d := NewDraft(2)
	if err := d.RenameSubject(0, "Subject 2"); err == nil {
		t.Fatal("expected duplicate error")
	}
	if err := d.RenameSubject(1, "Physics"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if err := d.RenameSubject(0, "Subject 2"); err != nil {
		t.Errorf("name is free now: %v", err)
	}
}

func TestAddAndRemoveSubject(t *testing.T) {
	d := NewDraft(1)
	if err := d.AddSubject("Chemistry"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := d.AddSubject("chemistry "); err == nil {
		t.Error("expected duplicate error")
	}
	if len(d.Subjects) != 2 {
		t.Fatalf("len = %d, want 2", len(d.Subjects))
	}
	if err := d.AddSubject(""); err != nil {
		t.Fatalf("add blank: %v", err)
	}
	if d.Subjects[2].Name != "Subject 3" {
		t.Errorf("placeholder = %q", d.Subjects[2].Name)
	}
	if err := d.RemoveSubject(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := names(d); !reflect.DeepEqual(got, []string{"Chemistry", "Subject 3"}) {
		t.Errorf("names = %v", got)
	}
}

func TestPortions(t *testing.T) {
	d := NewDraft(1)
	tests := []struct {
		topic string
		hours float64
		ok    bool
	}{
		{"Algebra", 3, true},
		{"", 3, false},
		{"  ", 3, false},
		{"Geometry", 0, false},
		{"Geometry", -1, false},
		{"Geometry", 1.5, true},
	}
	for _, tt := range tests {
		err := d.AddPortion(0, tt.topic, tt.hours)
		if (err == nil) != tt.ok {
			t.Errorf("AddPortion(%q, %v) err = %v", tt.topic, tt.hours, err)
		}
	}
	if got := d.Subjects[0].TotalHours(); got != 4.5 {
		t.Errorf("total = %v, want 4.5", got)
	}
	if err := d.RemovePortion(0, 0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(d.Subjects[0].Portions) != 1 || d.Subjects[0].Portions[0].Topic != "Geometry" {
		t.Errorf("portions = %+v", d.Subjects[0].Portions)
	}
	if err := d.RemovePortion(0, 3); err == nil {
		t.Error("expected error for missing portion")
	}
}

func TestSubjectIndex(t *testing.T) {
	d := NewDraft(2)
	_ = d.RenameSubject(1, "Biology")
	if i := d.SubjectIndex("biology"); i != 1 {
		t.Errorf("index = %d, want 1", i)
	}
	if i := d.SubjectIndex("Art"); i != -1 {
		t.Errorf("index = %d, want -1", i)
	}
}
