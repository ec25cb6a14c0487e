package curate

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/abelbrown/aidaily/internal/feed"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"plain   text\n here", "plain text here"},
		{"<p>Hello <b>world</b></p>", "Hello world"},
		{"AT&amp;T &lt;3 AI", "AT&T <3 AI"},
		{"  <div>\n\t多个  空格 </div> ", "多个 空格"},
	}
	for _, tt := range tests {
		if got := CleanText(tt.in); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCapSummary(t *testing.T) {
	short := strings.Repeat("a", 200)
	if CapSummary(short) != short {
		t.Error("200 runes should pass unchanged")
	}
	long := strings.Repeat("长", 250)
	got := CapSummary(long)
	if n := len([]rune(got)); n != 200 {
		t.Errorf("capped summary should be 200 runes, got %d", n)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("capped summary should end with ..., got %q", got[len(got)-6:])
	}
}

func TestCategorize(t *testing.T) {
	r := DefaultRules()
	tests := []struct {
		name           string
		title, summary string
		want           feed.Category
	}{
		{"no keywords", "Weekend reading", "Nothing to see", feed.News},
		{"tools", "New ChatGPT app", "A platform for everyone", feed.Tools},
		{"research", "DeepMind paper", "A study of a new algorithm", feed.Research},
		{"industry", "Startup raises funding", "Enterprise revenue grows", feed.Industry},
		{"safety", "EU regulation", "Privacy and governance law", feed.Safety},
		// one keyword each for tools and research; tools is the earlier rule
		{"tie goes to earlier rule", "Model tool", "", feed.Tools},
		{"case insensitive", "CLAUDE TOOL", "", feed.Tools},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Categorize(tt.title, tt.summary); got != tt.want {
				t.Errorf("Categorize = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsHot(t *testing.T) {
	r := DefaultRules()
	if !r.IsHot("OpenAI raises $10 Billion", "") {
		t.Error("expected hot")
	}
	if r.IsHot("Quiet week", "small updates") {
		t.Error("expected not hot")
	}
}

func TestTags(t *testing.T) {
	r := DefaultRules()
	tests := []struct {
		name           string
		title, summary string
		want           []string
	}{
		{"fallback", "Nothing", "here", []string{"AI"}},
		{"entities any case", "openai and NVIDIA", "", []string{"OpenAI", "Nvidia"}},
		{"tech keywords exact", "新的大模型", "LLM 智能体", []string{"大模型", "LLM", "智能体"}},
		{"tech keywords case sensitive", "an llm", "", []string{"AI"}},
		{"capped at five", "ChatGPT OpenAI Google Microsoft Anthropic Claude", "Meta", []string{"ChatGPT", "OpenAI", "Google", "Microsoft", "Anthropic"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, r.Tags(tt.title, tt.summary)); diff != "" {
				t.Errorf("Tags mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTitleKey(t *testing.T) {
	a := TitleKey("OpenAI Announces Something Big For Developers Today")
	b := TitleKey("openai announces something big for everyone else")
	if a != b {
		t.Errorf("titles sharing a 30 rune prefix should collide: %q vs %q", a, b)
	}
	if TitleKey("短标题") != "短标题" {
		t.Error("short titles should be kept whole")
	}
}
