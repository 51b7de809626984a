package storage

import (
	"github.com/spf13/cast"
)

// CoerceMetadata 把任意值的元数据转换为 string 映射 (convert-or-drop)
//
// 这是有意为之的有损转换：无法转换的值 (nil、切片、结构体、String() panic 等)
// 会被丢弃，而不会让整个上传失败。
func CoerceMetadata(data map[string]any) map[string]string {
	if len(data) == 0 {
		return nil
	}
	out := make(map[string]string, len(data))
	for k, v := range data {
		if s, ok := coerceValue(v); ok {
			out[k] = s
		}
	}
	return out
}

func coerceValue(v any) (s string, ok bool) {
	if v == nil {
		return "", false
	}
	defer func() {
		if r := recover(); r != nil {
			s, ok = "", false
		}
	}()

	// cast 会调用 fmt.Stringer / error，用户实现的 String() 可能 panic
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	return s, true
}
