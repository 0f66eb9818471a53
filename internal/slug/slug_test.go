package slug

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var slugPattern = regexp.MustCompile(`^([a-z0-9]+(-[a-z0-9]+)*-)?[a-z0-9]{6}$`)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"普通标题", "Hello World", "hello-world"},
		{"重音字符", "Café Crème Brûlée", "cafe-creme-brulee"},
		{"连续符号", "Go -- is   fun!!", "go-is-fun"},
		{"首尾符号", "  ...Trim me...  ", "trim-me"},
		{"数字保留", "Top 10 Tips", "top-10-tips"},
		{"连字", "Straße", "strasse"},
		{"无可用字符", "!!! ???", ""},
		{"非拉丁字符", "你好 world", "world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.title))
		})
	}
}

func TestGenerate_DeterministicSuffix(t *testing.T) {
	// 0..5 映射到 "012345"
	g := New(bytes.NewReader([]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}))

	s, err := g.Generate("Hello World")
	require.NoError(t, err)
	assert.Equal(t, "hello-world-012345", s)
}

func TestGenerate_SkipsBiasedBytes(t *testing.T) {
	// 252 以上的字节被丢弃，36 -> "0"，71 -> "z"
	src := []byte{255, 253, 36, 71, 10, 11, 12, 13, 0, 0, 0, 0}
	g := New(bytes.NewReader(src))

	s, err := g.Generate("x")
	require.NoError(t, err)
	assert.Equal(t, "x-0zabcd", s)
}

func TestGenerate_EmptyBase(t *testing.T) {
	s, err := Generate("???")
	require.NoError(t, err)
	assert.Len(t, s, SuffixLength)
	assert.Regexp(t, slugPattern, s)
}

func TestGenerate_ShapeAndVariety(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		s, err := Generate("Hello World")
		require.NoError(t, err)
		assert.Regexp(t, slugPattern, s)
		seen[s] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}

func TestGenerate_RandomSourceFailure(t *testing.T) {
	g := New(bytes.NewReader([]byte{1, 2}))

	_, err := g.Generate("Hello")
	assert.Error(t, err)
}
