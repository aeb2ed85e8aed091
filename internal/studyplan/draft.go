package studyplan

import (
	"fmt"
	"math"
	"strings"
)

// Draft is a study plan being edited. Mutators that fail leave it unchanged.
type Draft struct {
	ExamDate   string    `json:"exam_date"`
	DailyHours float64   `json:"daily_hours"`
	Subjects   []Subject `json:"subjects"`
}

// NewDraft creates a draft with n placeholder subjects.
func NewDraft(n int) *Draft {
	d := &Draft{}
	d.SetSubjectCount(n)
	return d
}

const invalidPortionMessage = "Please enter a topic and a positive number of hours"

func defaultName(i int) string {
	return fmt.Sprintf("Subject %d", i+1)
}

// SetSubjectCount replaces the subject list with n placeholder subjects.
func (d *Draft) SetSubjectCount(n int) {
	if n < 0 {
		n = 0
	}
	subjects := make([]Subject, n)
	for i := range subjects {
		subjects[i] = Subject{Name: defaultName(i), Portions: []Portion{}}
	}
	d.Subjects = subjects
}

func (d *Draft) nameTaken(name string, except int) bool {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, s := range d.Subjects {
		if i != except && strings.ToLower(strings.TrimSpace(s.Name)) == key {
			return true
		}
	}
	return false
}

func duplicateName(name string) error {
	return &ValidationError{Message: fmt.Sprintf(`Subject name "%s" already exists. Please use a different name.`, name)}
}

func (d *Draft) checkIndex(i int) error {
	if i < 0 || i >= len(d.Subjects) {
		return &ValidationError{Message: fmt.Sprintf("Subject %d does not exist", i+1)}
	}
	return nil
}

// RenameSubject sets the name of subject i. A blank name falls back to the
// placeholder; a name already used by another subject is rejected.
func (d *Draft) RenameSubject(i int, name string) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultName(i)
	}
	if d.nameTaken(name, i) {
		return duplicateName(name)
	}
	d.Subjects[i].Name = name
	return nil
}

// AddSubject appends a subject, using the placeholder name when blank.
func (d *Draft) AddSubject(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultName(len(d.Subjects))
	}
	if d.nameTaken(name, -1) {
		return duplicateName(name)
	}
	d.Subjects = append(d.Subjects, Subject{Name: name, Portions: []Portion{}})
	return nil
}

func (d *Draft) RemoveSubject(i int) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	d.Subjects = append(d.Subjects[:i:i], d.Subjects[i+1:]...)
	return nil
}

// AddPortion appends a topic to subject i. Topic must be non-blank and
// hours positive.
func (d *Draft) AddPortion(i int, topic string, hours float64) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	topic = strings.TrimSpace(topic)
	if topic == "" || !(hours > 0) || math.IsInf(hours, 1) {
		return &ValidationError{Message: invalidPortionMessage}
	}
	d.Subjects[i].Portions = append(d.Subjects[i].Portions, Portion{Topic: topic, Hours: hours})
	return nil
}

func (d *Draft) RemovePortion(i, portion int) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	ps := d.Subjects[i].Portions
	if portion < 0 || portion >= len(ps) {
		return &ValidationError{Message: fmt.Sprintf("Portion %d does not exist", portion+1)}
	}
	d.Subjects[i].Portions = append(ps[:portion:portion], ps[portion+1:]...)
	return nil
}

// SubjectIndex finds a subject by name, ignoring case.
func (d *Draft) SubjectIndex(name string) int {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, s := range d.Subjects {
		if strings.ToLower(s.Name) == key {
			return i
		}
	}
	return -1
}

func (d Draft) clone() Draft {
	out := d
	out.Subjects = make([]Subject, len(d.Subjects))
	for i, s := range d.Subjects {
		out.Subjects[i] = Subject{Name: s.Name, Portions: append([]Portion{}, s.Portions...)}
	}
	return out
}
