package service

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ── 时长解析器 ──────────────────────────────────────────────
//
// 职责：将导出文件中异构的人类可读时长字符串解析为整数分钟。
//
// 解析策略按优先级组成链，每个策略只返回"命中/未命中"，不抛错，
// 链上首个命中即短路（独立可测，避免嵌套条件）：
//  1. 时钟格式 H:MM:SS（小时可一位或多位）
//  2. 时钟格式 MM:SS —— 不足一小时的会议导出为该形态，按分:秒解释
//  3. 单位后缀自由格式，h/m/s 任意子集任意顺序（"2h 25m"、"49m 21s"、"1h"）
//  4. 纯数字，按分钟解释
//
// 全部未命中或输入为空 → nil（"未记录"，与 0 分钟严格区分）。
// ─────────────────────────────────────────────────────────────

var (
	clockHMSRe = regexp.MustCompile(`^(\d{1,3}):([0-5]?\d):([0-5]?\d)$`)
	clockMSRe  = regexp.MustCompile(`^(\d{1,3}):([0-5]?\d)$`)
	unitRe     = regexp.MustCompile(`(?i)(\d+)\s*([hms])`)
)

// ParseDurationMinutes 解析时长字符串为分钟数，四舍五入到整数
func ParseDurationMinutes(raw string) *int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	if m := clockHMSRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		ss, _ := strconv.Atoi(m[3])
		return intPtr(roundMinutes(float64(h)*60 + float64(mm) + float64(ss)/60))
	}

	if m := clockMSRe.FindStringSubmatch(s); m != nil {
		mm, _ := strconv.Atoi(m[1])
		ss, _ := strconv.Atoi(m[2])
		return intPtr(roundMinutes(float64(mm) + float64(ss)/60))
	}

	if matches := unitRe.FindAllStringSubmatch(s, -1); len(matches) > 0 {
		var total float64
		for _, m := range matches {
			n, _ := strconv.Atoi(m[1])
			switch strings.ToLower(m[2]) {
			case "h":
				total += float64(n) * 60
			case "m":
				total += float64(n)
			case "s":
				total += float64(n) / 60
			}
		}
		return intPtr(roundMinutes(total))
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return intPtr(roundMinutes(f))
	}

	return nil
}

func roundMinutes(v float64) int {
	return int(math.Round(v))
}

func intPtr(v int) *int {
	return &v
}
