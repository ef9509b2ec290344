package signal

import (
	"bytes"
	"encoding/json"
)

// Detail 诊断明细的一项
type Detail struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Details 按插入顺序排列的诊断明细映射，构造一次后不再修改
type Details []Detail

// D 构造一项明细，便于内联书写
func D(key string, value any) Detail {
	return Detail{Key: key, Value: value}
}

// Get 按键读取明细值
func (d Details) Get(key string) (any, bool) {
	for _, item := range d {
		if item.Key == key {
			return item.Value, true
		}
	}
	return nil, false
}

// MarshalJSON 按插入顺序序列化为JSON对象
func (d Details) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, item := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(item.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(item.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
