// Package slug 根据标题生成 URL 安全的文章标识
//
// 生成结果只是大概率唯一，调用方在提交前需要自行检查冲突。
package slug

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// SuffixLength 随机后缀长度
	SuffixLength = 6
	alphabet     = "0123456789abcdefghijklmnopqrstuvwxyz"
	// 小于 252 的字节对 36 取模是均匀的
	maxUnbiased = 252
)

// 无法通过去除组合符号折叠的字符
var ligatures = strings.NewReplacer(
	"ß", "ss", "æ", "ae", "œ", "oe", "ø", "o", "đ", "d", "ł", "l",
)

// Generator 持有随机源，测试时可替换为确定性的 reader
type Generator struct {
	rand io.Reader
}

// New 创建生成器，r 为 nil 时使用 crypto/rand
func New(r io.Reader) *Generator {
	if r == nil {
		r = rand.Reader
	}
	return &Generator{rand: r}
}

var defaultGenerator = New(nil)

// Generate 使用默认生成器
func Generate(title string) (string, error) {
	return defaultGenerator.Generate(title)
}

// Generate 返回 "<base>-<suffix>"，base 为空时只返回后缀
func (g *Generator) Generate(title string) (string, error) {
	suffix, err := g.suffix()
	if err != nil {
		return "", err
	}
	base := Normalize(title)
	if base == "" {
		return suffix, nil
	}
	return base + "-" + suffix, nil
}

// Normalize 去掉重音并转小写，非 [a-z0-9] 的连续字符替换为单个 "-"
func Normalize(title string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		strings.ToLower(title),
	)
	if err != nil {
		folded = strings.ToLower(title)
	}
	folded = ligatures.Replace(folded)

	var b strings.Builder
	pendingDash := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

func (g *Generator) suffix() (string, error) {
	out := make([]byte, 0, SuffixLength)
	buf := make([]byte, SuffixLength*2)
	for len(out) < SuffixLength {
		n, err := io.ReadFull(g.rand, buf)
		if err != nil {
			return "", fmt.Errorf("读取随机数失败: %w", err)
		}
		for _, c := range buf[:n] {
			if c >= maxUnbiased {
				continue
			}
			out = append(out, alphabet[int(c)%len(alphabet)])
			if len(out) == SuffixLength {
				break
			}
		}
	}
	return string(out), nil
}
