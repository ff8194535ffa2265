package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"blank", "   \t\n", ""},
		{"trim", "  علي  ", "علي"},
		{"hamza above alef", "أحمد", "احمد"},
		{"hamza below alef", "إبراهيم", "ابراهيم"},
		{"madda alef", "آمنة", "امنه"},
		{"hamza on waw", "مؤمن", "مومن"},
		{"hamza on yeh", "هانئ", "هاني"},
		{"taa marbouta", "فاطمة", "فاطمه"},
		{"alef maksura", "مصطفى", "مصطفي"},
		{"diacritics", "مُحَمَّد", "محمد"},
		{"tanween and sukun", "عَلِيٌّ", "علي"},
		{"whitespace runs", "عبد   \t الله", "عبد الله"},
		{"latin folded", "Abd AL-Rahman", "abd al-rahman"},
		{"mixed", " أبو  بكرٍ ", "ابو بكر"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"", "أحمد", "  إِسْمَاعِيل  ", "فاطمة الزهراء", "MiXeD Case ٣", "مؤمنٌ  ئ", "Straße",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("أحمد", "احمد"))
	assert.True(t, Equal("فاطمة", "فاطمه"))
	assert.False(t, Equal("أحمد", "محمد"))
}
