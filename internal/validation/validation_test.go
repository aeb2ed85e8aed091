package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginValid(t *testing.T) {
	in, err := Login(LoginInput{Name: "  Ada Lovelace ", Age: 20, Education: "Mathematics"})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", in.Name)
}

func TestLoginFirstFailure(t *testing.T) {
	tests := []struct {
		name string
		in   LoginInput
		want string
	}{
		{"short name", LoginInput{Name: " A ", Age: 20, Education: "Law"}, "Name must be at least 2 characters long"},
		{"young", LoginInput{Name: "Ada", Age: 15, Education: "Law"}, "Age must be between 16 and 100"},
		{"old", LoginInput{Name: "Ada", Age: 101, Education: "Law"}, "Age must be between 16 and 100"},
		{"education", LoginInput{Name: "Ada", Age: 30, Education: "Astrology"}, "Invalid education selection"},
		{"all bad", LoginInput{Name: "", Age: 0, Education: ""}, "Name must be at least 2 characters long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Login(tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestLoginBoundaryAges(t *testing.T) {
	for _, age := range []int{MinAge, MaxAge} {
		_, err := Login(LoginInput{Name: "Al", Age: age, Education: "Physics"})
		assert.NoError(t, err, "age %d", age)
	}
}

func TestStructReportsAllFieldsInOrder(t *testing.T) {
	_, err := Login(LoginInput{})
	var verrs Errors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 3)
	assert.Equal(t, "name", verrs[0].Field)
	assert.Equal(t, "age", verrs[1].Field)
	assert.Equal(t, "education", verrs[2].Field)
}

func TestNotBlankAndBuiltinTags(t *testing.T) {
	type input struct {
		Title string `json:"title" validate:"notblank"`
		Kind  string `json:"kind" validate:"oneof=offer request"`
	}

	err := Struct(input{Title: "   ", Kind: "offer"})
	require.Error(t, err)
	assert.Equal(t, "title cannot be blank", err.Error())

	err = Struct(input{Title: "Go tutoring", Kind: "swap"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kind")

	assert.NoError(t, Struct(input{Title: "Go tutoring", Kind: "request"}))
}

func TestEducations(t *testing.T) {
	assert.Len(t, Educations, 15)
	assert.True(t, IsEducation("Computer Science"))
	assert.False(t, IsEducation("computer science"))
}
