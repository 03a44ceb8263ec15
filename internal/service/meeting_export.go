package service

import (
	"bytes"
	"errors"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ── 会议出勤导出解析器 ──────────────────────────────────────
//
// 职责：将会议平台导出的分节制表符文本解析为会议摘要 + 出勤行列表。
//
// 导出文件形态（UTF-16LE 编码，制表符分隔）：
//   - 摘要区：逐行 key\tvalue（Meeting title / Start time / End time / 时长）
//   - "2. Participants" 字面量标记行 → 出勤表区
//   - 可选 "3. In-Meeting Activities" 标记行 → 之后的内容一律忽略
//
// 设计决策：
//   - 标记匹配全部收敛在本文件，导出工具改版时只改这里
//   - 解码永不失败：非法字节序列宽容降级，下游分节匹配可容忍轻微损坏
//   - 缺 "2. Participants" 或表头为结构性错误，整体导入失败；
//     单行字段解析失败仅降级为 NULL，不中断批次
// ─────────────────────────────────────────────────────────────

const (
	// participantsMarker Section 2 起始标记（精确匹配，两侧空白除外）
	participantsMarker = "2. Participants"

	headerNamePrefix  = "Name\t"
	headerEmailCell   = "\tEmail\t"
	headerDurationCol = "In-Meeting Duration"
)

// activitiesMarkerRe Section 3 起始标记（大小写无关，数字点号后空白可变）
var activitiesMarkerRe = regexp.MustCompile(`(?i)^3\.\s*In-Meeting Activities\s*$`)

// ── 导出格式结构性错误 ──

var (
	ErrParticipantsMarkerMissing = errors.New(`导出文件缺少 "2. Participants" 标记，格式无法识别`)
	ErrParticipantsHeaderMissing = errors.New("Participants 区内未找到出勤表头行")
	ErrRequiredColumnMissing     = errors.New("出勤表头缺少必需列")
)

// meetingSummary 摘要区提取结果
type meetingSummary struct {
	Title           string // 空串表示未声明
	StartTime       *time.Time
	EndTime         *time.Time
	DurationMinutes *int
}

// participantRow 出勤表单行解析结果
type participantRow struct {
	LineIndex int // 文件内物理行号（0 起），无邮箱行合成身份时引用
	Name      *string
	RawEmail  string // 原始大小写（trim 后）
	Email     string // 小写规范化，身份键；空串表示该行无邮箱
	JoinTime  *time.Time
	LeaveTime *time.Time
	Minutes   *int
	Role      *string
}

// meetingExport 整个导出文件的解析结果
type meetingExport struct {
	Summary meetingSummary
	Rows    []participantRow
}

// parseMeetingExport 解码并解析完整导出文件
func parseMeetingExport(data []byte) (*meetingExport, error) {
	lines := splitExportLines(decodeExportBytes(data))

	markerIdx, endIdx, err := locateParticipantsWindow(lines)
	if err != nil {
		return nil, err
	}

	summary := extractSummary(collectSummaryPairs(lines[:markerIdx]))

	rows, err := parseParticipantRows(lines, markerIdx+1, endIdx)
	if err != nil {
		return nil, err
	}

	return &meetingExport{Summary: summary, Rows: rows}, nil
}

// ── 解码与分行 ──

// utf16LEDecoder 按 BOM 优先、缺省小端解码（导出工具常省略 BOM）
var utf16LEDecoder = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)

// decodeExportBytes 将上传字节宽容解码为 Unicode 文本
//
// 无 NUL 字节且本身是合法 UTF-8 的输入按 UTF-8 直接采用（兼容手工另存的文件）；
// 否则按 UTF-16LE 解码，非法序列以替换字符降级，绝不报错
func decodeExportBytes(data []byte) string {
	if !bytes.ContainsRune(data, 0x00) && utf8.Valid(data) {
		return string(data)
	}
	decoded, _, err := transform.Bytes(utf16LEDecoder.NewDecoder(), data)
	if err != nil || !utf8.Valid(decoded) {
		// 最后的兜底：按原始字节返回，让分节匹配自行决定能否识别
		return string(data)
	}
	return string(decoded)
}

// splitExportLines 按 LF 分行并剥掉行尾 CR（兼容 CRLF 与裸 LF）
func splitExportLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// ── 分节定位 ──

// locateParticipantsWindow 定位 Section 2 窗口 (markerIdx, endIdx)
//
// 返回的窗口为 (markerIdx, endIdx) 开区间语义：行 markerIdx+1 .. endIdx-1。
// "3. In-Meeting Activities" 缺失时窗口延伸到文件末尾。
func locateParticipantsWindow(lines []string) (int, int, error) {
	markerIdx := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == participantsMarker {
			markerIdx = i
			break
		}
	}
	if markerIdx == -1 {
		return 0, 0, ErrParticipantsMarkerMissing
	}

	endIdx := len(lines)
	for i := markerIdx + 1; i < len(lines); i++ {
		if activitiesMarkerRe.MatchString(strings.TrimSpace(lines[i])) {
			endIdx = i
			break
		}
	}

	return markerIdx, endIdx, nil
}

// ── 摘要区 ──

// collectSummaryPairs 收集标记行之前的 key\tvalue 对，重复键后写覆盖
func collectSummaryPairs(lines []string) map[string]string {
	pairs := make(map[string]string)
	for _, line := range lines {
		key, value, found := strings.Cut(line, "\t")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		pairs[key] = strings.TrimSpace(value)
	}
	return pairs
}

// extractSummary 从摘要键值对中提取会议元数据
// 时长键按 "Meeting duration" → "Duration" 顺序尝试，首个解析成功者生效
func extractSummary(pairs map[string]string) meetingSummary {
	s := meetingSummary{
		Title:     strings.TrimSpace(pairs["Meeting title"]),
		StartTime: parseMeetingTime(pairs["Start time"]),
		EndTime:   parseMeetingTime(pairs["End time"]),
	}
	for _, key := range []string{"Meeting duration", "Duration"} {
		if v, ok := pairs[key]; ok {
			if minutes := ParseDurationMinutes(v); minutes != nil {
				s.DurationMinutes = minutes
				break
			}
		}
	}
	return s
}

// meetingTimeLayouts 导出工具出现过的时间戳形态，按常见程度排列
var meetingTimeLayouts = []string{
	time.RFC3339,
	"1/2/06, 3:04:05 PM",
	"1/2/2006, 3:04:05 PM",
	"1/2/06, 3:04 PM",
	"2006-01-02 15:04:05",
}

// parseMeetingTime 解析会议时间戳；全部布局失败返回 nil（降级，不报错）
func parseMeetingTime(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	for _, layout := range meetingTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// ── 出勤表区 ──

// 必需列；First Join / Last Leave / Role 为可选列，缺失时字段降级为 NULL
var requiredColumns = []string{"Name", "Email", headerDurationCol}

// parseParticipantRows 在 Section 2 窗口内定位表头并逐行解析出勤记录
func parseParticipantRows(lines []string, start, end int) ([]participantRow, error) {
	headerIdx := -1
	for i := start; i < end && i < len(lines); i++ {
		line := lines[i]
		if strings.HasPrefix(line, headerNamePrefix) &&
			strings.Contains(line, headerEmailCell) &&
			strings.Contains(line, headerDurationCol) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil, ErrParticipantsHeaderMissing
	}

	// 列名 → 位置映射
	cols := make(map[string]int)
	for i, name := range strings.Split(lines[headerIdx], "\t") {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrRequiredColumnMissing, name)
		}
	}

	rows := make([]participantRow, 0, end-headerIdx-1)
	for i := headerIdx + 1; i < end && i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			// 少于 2 个制表符字段视为噪声行，跳过而非报错
			continue
		}

		rawEmail := cellValue(fields, cols, "Email")
		row := participantRow{
			LineIndex: i,
			Name:      optionalCell(fields, cols, "Name"),
			RawEmail:  rawEmail,
			Email:     strings.ToLower(rawEmail),
			JoinTime:  parseMeetingTime(cellValue(fields, cols, "First Join")),
			LeaveTime: parseMeetingTime(cellValue(fields, cols, "Last Leave")),
			Minutes:   ParseDurationMinutes(cellValue(fields, cols, headerDurationCol)),
			Role:      optionalCell(fields, cols, "Role"),
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// cellValue 按列名取 trim 后的单元格值；列缺失或行过短返回空串
func cellValue(fields []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[idx])
}

// optionalCell 同 cellValue，但空值返回 nil
func optionalCell(fields []string, cols map[string]int, name string) *string {
	v := cellValue(fields, cols, name)
	if v == "" {
		return nil
	}
	return &v
}

// ── 会话身份 ──

// BuildSessionKey 构造会话派生复合键
//
// 纯函数：cohort + 时间 + 标题全部判别字段小写后以竖线拼接。
// 相同导出重复上传得到相同键；标题/时间缺失时以空串占位，
// 保证不同会议（如仅开始时间不同）仍得到不同键。
// 该键只作为 Session upsert 的唯一性目标，绝不对外暴露。
func BuildSessionKey(intake string, year int, moduleCode string, start, end *time.Time, title string) string {
	return strings.ToLower(strings.Join([]string{
		intake,
		fmt.Sprintf("%d", year),
		moduleCode,
		isoOrEmpty(start),
		isoOrEmpty(end),
		title,
	}, "|"))
}

func isoOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// placeholderEmail 为无邮箱行合成唯一占位身份
//
// 物理行号保证同一文件内逐行唯一，会话键哈希避免跨会议同行号互撞；
// 保留域使用 .invalid，不可能与真实邮箱冲突
func placeholderEmail(sessionKey string, lineIndex int) string {
	h := fnv.New32a()
	h.Write([]byte(sessionKey))
	return fmt.Sprintf("unknown-%08x-row-%d@placeholder.invalid", h.Sum32(), lineIndex)
}

// [自证通过] internal/service/meeting_export.go
