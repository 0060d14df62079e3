package app

import (
	"math"
	"strconv"
	"strings"
)

// ParseEntityID 解析实体 id，接受 Go 整数字面量（2050、0x802、0o4002、0b…），范围 0..65535。
// 0xFFFF 能解析，但写入关卡时会被 domain 拒绝。
func ParseEntityID(s string) (uint16, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 0, 64)
	if err != nil || v < 0 || v > math.MaxUint16 {
		return 0, ErrInvalidNumber.WithData("id", s)
	}
	return uint16(v), nil
}

// ParseExtra 解析实体 extra，接受带进制前缀的整数；写入文件时只保留低 8 位。
func ParseExtra(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, ErrInvalidNumber.WithData("extra", s)
	}
	return int(v), nil
}
