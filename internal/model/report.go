package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Items 数据项取值：Key 为 R-Code 或展开后的组合键
//
// 前端既会提交字符串也会提交数字，统一以字符串保存。
type Items map[string]string

// UnmarshalJSON 兼容字符串/数字/布尔/null
func (it *Items) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*it = nil
		return nil
	}

	raw := map[string]json.RawMessage{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	out := make(Items, len(raw))
	for k, v := range raw {
		s, err := rawToString(v)
		if err != nil {
			return fmt.Errorf("item %s: %w", k, err)
		}
		out[k] = s
	}
	*it = out
	return nil
}

func rawToString(v json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(v)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return "", fmt.Errorf("unsupported value %s", string(trimmed))
		}
		return n.String(), nil
	}
}

// Clone 拷贝
func (it Items) Clone() Items {
	if it == nil {
		return Items{}
	}
	out := make(Items, len(it))
	for k, v := range it {
		out[k] = v
	}
	return out
}

// Report 事件报告
type Report struct {
	ID          string            `json:"id,omitempty"`
	MCode       string            `json:"mCode"`
	EVCode      string            `json:"evCode"`
	Tasks       map[string]string `json:"tasks"`
	Items       Items             `json:"items"`
	SubmittedAt string            `json:"submittedAt,omitempty"`
}

// Clone 深拷贝报告
func (r *Report) Clone() *Report {
	if r == nil {
		return nil
	}
	out := *r
	out.Items = r.Items.Clone()
	out.Tasks = make(map[string]string, len(r.Tasks))
	for k, v := range r.Tasks {
		out.Tasks[k] = v
	}
	return &out
}

// ShipName 报告所属船舶名（R001）
func (r *Report) ShipName() string {
	if r == nil {
		return ""
	}
	return r.Items[ItemVesselName]
}

// 固定数据项代码
const (
	ItemVesselName    = "R001"
	ItemLocalTime     = "R003"
	ItemUTC           = "R004"
	ItemVoyageNo      = "R005"
	ItemPosition      = "R006"
	ItemZoneDiff      = "R009"
	ItemTodayDistance = "R013"
	ItemOperationTime = "R200"

	TaskLastEvent = "T46"
)

// DefaultMCode 事件未定义区域时使用
const DefaultMCode = "M01"
