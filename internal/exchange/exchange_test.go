package exchange

import (
	"reflect"
	"testing"

	"github.com/studybuddy/backend/internal/models"
)

func TestSplitTags(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"Programming, Computer Science", []string{"Programming", "Computer Science"}},
		{" Math ,, ,Calculus,", []string{"Math", "Calculus"}},
	}
	for _, tc := range cases {
		if got := SplitTags(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("SplitTags(%q) = %#v, want %#v", tc.in, got, tc.want)
		}
	}
}

func TestSearch(t *testing.T) {
	listings := []models.Listing{
		{ID: 1, Title: "Python Programming Tutor", Tags: []string{"Programming", "Computer Science"}},
		{ID: 2, Title: "Spanish Conversation", Tags: []string{"Language", "Spanish"}},
		{ID: 3, Title: "Need help with Physics", Tags: []string{"Physics", "Science"}},
	}
	ids := func(ls []models.Listing) []int64 {
		out := []int64{}
		for _, l := range ls {
			out = append(out, l.ID)
		}
		return out
	}

	cases := []struct {
		query string
		want  []int64
	}{
		{"", []int64{1, 2, 3}},
		{"   ", []int64{1, 2, 3}},
		{"SCIENCE", []int64{1, 3}},
		{"spanish", []int64{2}},
		{"tutor", []int64{1}},
		{"chemistry", []int64{}},
	}
	for _, tc := range cases {
		if got := ids(Search(listings, tc.query)); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Search(%q) = %v, want %v", tc.query, got, tc.want)
		}
	}
}
