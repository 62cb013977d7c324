package layout

import (
	"encoding/json"
	"os"
)

// Snapshot 是 Table 的可序列化视图，行数据已应用 Getter 的留白调整。
type Snapshot struct {
	Options       Options        `json:"options"`
	Start         int            `json:"start"`
	End           int            `json:"end"`
	Height        int            `json:"height"`
	TopPadding    int            `json:"topPadding"`
	BottomPadding int            `json:"bottomPadding"`
	Lines         []SnapshotLine `json:"lines"`
}

// SnapshotLine 描述一行的位置、方向与显示文本。
type SnapshotLine struct {
	LineRecord
	End      int     `json:"end"`
	Baseline int     `json:"baseline"`
	Bottom   int     `json:"bottom"`
	Left     float64 `json:"left"`
	Text     string  `json:"text"`
}

// Snapshot 导出当前排版结果。
func (t *Table) Snapshot() Snapshot {
	s := Snapshot{
		Options:       t.opts,
		Start:         t.start,
		End:           t.end,
		Height:        t.Height(),
		TopPadding:    t.topPadding,
		BottomPadding: t.bottomPadding,
		Lines:         make([]SnapshotLine, 0, t.LineCount()),
	}
	for i := 0; i < t.LineCount(); i++ {
		rec := t.lines[i]
		rec.Top = t.LineTop(i)
		rec.Descent = t.LineDescent(i)
		s.Lines = append(s.Lines, SnapshotLine{
			LineRecord: rec,
			End:        t.LineEnd(i),
			Baseline:   t.LineBaseline(i),
			Bottom:     t.LineBottom(i),
			Left:       t.LineLeft(i),
			Text:       t.LineText(i),
		})
	}
	return s
}

// WriteDebugJSON 将排版结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(t *Table, path string) error {
	if t == nil {
		return nil
	}
	data, err := json.MarshalIndent(t.Snapshot(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
