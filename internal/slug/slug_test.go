package slug

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"простой текст", "Nice Shoes", "nice-shoes"},
		{"лишние пробелы", "  Nice   Shoes  ", "nice-shoes"},
		{"кириллица выпадает целиком", "Плащ и Кинжал", "item"},
		{"смешанный текст", "iPhone 15 Pro (256GB)", "iphone-15-pro-256gb"},
		{"крайние дефисы", "--shoes--", "shoes"},
		{"повторные дефисы", "a---b", "a-b"},
		{"уже готовый slug", "nice-shoes", "nice-shoes"},
		{"пустая строка", "", "item"},
		{"только мусор", "###", "item"},
		{"только пробелы", "   ", "item"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Make(tc.input))
		})
	}
}

func TestMake_AlwaysValid(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

	inputs := []string{
		"", "  ", "Nice Shoes", "ЖЕЛЕЗНАЯ дорога", "a--b--c", "-x-",
		"Tabs\tand\nnewlines", "MiXeD CaSe 123", "!@#$%^&*()",
	}
	for _, in := range inputs {
		got := Make(in)
		assert.NotEmpty(t, got)
		assert.Regexp(t, valid, got)
	}
}

func TestMake_Idempotent(t *testing.T) {
	inputs := []string{"Nice Shoes", "a  b  c", "--x--", "", "ПРИВЕТ мир", "item-42"}
	for _, in := range inputs {
		once := Make(in)
		assert.Equal(t, once, Make(once))
	}
}
