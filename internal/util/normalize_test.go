package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeQuestion(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "What Is GORM?", "whatisgorm"},
		{"punctuation stripped", "Что такое индекс?!", "чтотакоеиндекс"},
		{"whitespace stripped", "  a \t b \n c  ", "abc"},
		{"symbols stripped", "a + b = c", "abc"},
		{"empty", "", ""},
		{"only punctuation", "?!...", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeQuestion(tc.in))
		})
	}
}

func TestSameQuestion(t *testing.T) {
	assert.True(t, SameQuestion("What is an index?", "what is an INDEX"))
	assert.True(t, SameQuestion("a,b,c", "abc"))
	assert.False(t, SameQuestion("What is an index?", "What is a view?"))
}
