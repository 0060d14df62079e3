package codec

import (
	"golang.org/x/text/encoding/unicode"
)

// decodeName 按 UTF-8 解码文件名，非法字节序列替换为 U+FFFD，不会失败。
func decodeName(raw []byte) string {
	out, err := unicode.UTF8.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}
