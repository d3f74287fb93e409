package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/hanmaum/pairo/internal/model"
)

func intp(v int) *int {
	return &v
}

func sampleRounds() []model.RoundResult {
	return []model.RoundResult{
		{EndedAt: time.Unix(100, 0), LevelID: "easy", Success: true, Seconds: intp(30), Moves: intp(6)},
		{EndedAt: time.Unix(200, 0), LevelID: "easy", Success: false},
		{EndedAt: time.Unix(300, 0), LevelID: "medium", Success: true, Seconds: intp(80), Moves: intp(14)},
		{EndedAt: time.Unix(400, 0), LevelID: "medium", Success: true, Seconds: intp(60), Moves: intp(12)},
	}
}

func TestSummarize(t *testing.T) {
	summaries := Summarize(sampleRounds(), model.Levels())
	if len(summaries) != 2 {
		t.Fatalf("expected 2 level summaries, got %d", len(summaries))
	}
	easy := summaries[0]
	if easy.Level.ID != "easy" || easy.Rounds != 2 || easy.Wins != 1 {
		t.Fatalf("unexpected easy summary: %+v", easy)
	}
	if easy.AvgSeconds != 30 || easy.AvgMoves != 6 {
		t.Fatalf("easy averages should cover wins only: %+v", easy)
	}
	medium := summaries[1]
	if medium.Rounds != 2 || medium.Wins != 2 {
		t.Fatalf("unexpected medium summary: %+v", medium)
	}
	if medium.AvgSeconds != 70 || medium.AvgMoves != 13 {
		t.Fatalf("unexpected medium averages: %+v", medium)
	}
	if medium.WinRate() != 1 {
		t.Fatalf("unexpected medium win rate: %f", medium.WinRate())
	}
}

func TestOutcomeStrip(t *testing.T) {
	strip := OutcomeStrip(sampleRounds(), 3)
	if strip != "○●●" {
		t.Fatalf("unexpected strip: %q", strip)
	}
	if got := OutcomeStrip(nil, 10); got != "" {
		t.Fatalf("expected empty strip, got %q", got)
	}
}

func TestSparkline(t *testing.T) {
	out := Sparkline([]float64{0, 5, 10})
	if len(out) != 3 {
		t.Fatalf("expected 3 cells, got %q", out)
	}
	if out[0] != sparkChars[0] || out[2] != sparkChars[len(sparkChars)-1] {
		t.Fatalf("extremes not mapped to extreme glyphs: %q", out)
	}
	flat := Sparkline([]float64{4, 4, 4})
	if len(flat) != 3 || flat[0] != flat[2] {
		t.Fatalf("flat series should render uniformly: %q", flat)
	}
}

func TestRenderReport(t *testing.T) {
	var b strings.Builder
	if err := RenderReport(&b, sampleRounds(), model.Levels(), 80); err != nil {
		t.Fatalf("render report: %v", err)
	}
	out := b.String()
	for _, want := range []string{"Level", "easy", "medium", "50%", "100%", "Recent: ●○●●", "Clear times:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderReportEmpty(t *testing.T) {
	var b strings.Builder
	if err := RenderReport(&b, nil, model.Levels(), 80); err != nil {
		t.Fatalf("render report: %v", err)
	}
	if !strings.Contains(b.String(), "No rounds recorded yet.") {
		t.Fatalf("unexpected empty output: %q", b.String())
	}
}
