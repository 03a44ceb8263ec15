package service

import "testing"

// ── ParseDurationMinutes 测试 ──

func TestParseDurationMinutes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *int
	}{
		{"时钟格式 H:MM:SS", "1:02:30", intPtr(63)},
		{"时钟格式整小时", "2:00:00", intPtr(120)},
		{"时钟格式 MM:SS", "45:00", intPtr(45)},
		{"时钟格式 MM:SS 带秒", "49:30", intPtr(50)},
		{"单位后缀 时+分", "2h 25m", intPtr(145)},
		{"单位后缀 分+秒", "49m 21s", intPtr(49)},
		{"单位后缀 仅小时", "1h", intPtr(60)},
		{"单位后缀 大写", "1H 30M", intPtr(90)},
		{"单位后缀 紧凑", "2h25m", intPtr(145)},
		{"纯数字按分钟", "42", intPtr(42)},
		{"纯数字带空白", "  42  ", intPtr(42)},
		{"空串为未记录", "", nil},
		{"纯空白为未记录", "   ", nil},
		{"无法解析为未记录", "about an hour", nil},
		{"零秒为零分钟", "0s", intPtr(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDurationMinutes(tt.raw)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("ParseDurationMinutes(%q) = %d，期望 nil", tt.raw, *got)
			case tt.want != nil && got == nil:
				t.Errorf("ParseDurationMinutes(%q) = nil，期望 %d", tt.raw, *tt.want)
			case tt.want != nil && got != nil && *got != *tt.want:
				t.Errorf("ParseDurationMinutes(%q) = %d，期望 %d", tt.raw, *got, *tt.want)
			}
		})
	}
}

// 未记录（nil）与 0 分钟必须严格区分
func TestParseDurationMinutes_NilVsZero(t *testing.T) {
	if got := ParseDurationMinutes(""); got != nil {
		t.Fatalf("空输入应返回 nil，实际: %d", *got)
	}
	got := ParseDurationMinutes("0")
	if got == nil || *got != 0 {
		t.Fatalf(`"0" 应返回 0 分钟而非 nil`)
	}
}
