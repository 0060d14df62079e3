package defs

import "strconv"

type tokenKind uint8

const (
	tokWord tokenKind = iota
	tokString
	tokOpen
	tokClose
)

type token struct {
	kind tokenKind
	text string
}

// lex 把定义文本切成 token：花括号、双引号字符串和其它连续非空白字符。
// `//` 到行尾是注释。字符串不支持转义，缺少右引号时截到行尾。
func lex(src []byte) []token {
	var out []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == '{':
			out = append(out, token{kind: tokOpen})
			i++
		case c == '}':
			out = append(out, token{kind: tokClose})
			i++
		case c == '"':
			j := i + 1
			for j < len(src) && src[j] != '"' && src[j] != '\n' {
				j++
			}
			out = append(out, token{kind: tokString, text: string(src[i+1 : j])})
			if j < len(src) && src[j] == '"' {
				j++
			}
			i = j
		default:
			j := i
			for j < len(src) && !isDelim(src, j) {
				j++
			}
			out = append(out, token{kind: tokWord, text: string(src[i:j])})
			i = j
		}
	}
	return out
}

func isDelim(src []byte, i int) bool {
	switch src[i] {
	case ' ', '\t', '\r', '\n', '{', '}', '"':
		return true
	case '/':
		return i+1 < len(src) && src[i+1] == '/'
	}
	return false
}

// entryID 判断一个 word 是否是顶层条目的 id：十进制、以数字开头。
func entryID(t token) (int, bool) {
	if t.kind != tokWord || t.text == "" || t.text[0] < '0' || t.text[0] > '9' {
		return 0, false
	}
	id, err := strconv.Atoi(t.text)
	if err != nil {
		return 0, false
	}
	return id, true
}
