package curate

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/abelbrown/aidaily/internal/feed"
)

// CategoryRule lists the keywords that vote for one category.
type CategoryRule struct {
	Category feed.Category
	Keywords []string
}

// Rules drive categorisation, hot detection and tagging.
// Category order matters: equal scores go to the earlier rule.
type Rules struct {
	Categories   []CategoryRule
	Hot          []string
	Entities     []string
	TechKeywords []string
}

// DefaultRules returns the built-in keyword lists.
func DefaultRules() Rules {
	return Rules{
		Categories: []CategoryRule{
			{feed.News, []string{"breakthrough", "announce", "launch", "release", "trend", "industry", "market", "partnership", "acquisition"}},
			{feed.Tools, []string{"tool", "platform", "app", "software", "service", "product", "chatgpt", "claude", "gemini", "copilot"}},
			{feed.Research, []string{"research", "paper", "study", "model", "algorithm", "deepmind", "openai", "anthropic", "breakthrough"}},
			{feed.Industry, []string{"business", "investment", "funding", "revenue", "market", "enterprise", "startup", "ipo"}},
			{feed.Safety, []string{"safety", "ethics", "regulation", "policy", "privacy", "bias", "risk", "governance", "law"}},
		},
		Hot: []string{"breakthrough", "chatgpt", "openai", "google", "microsoft", "anthropic", "billion", "major", "revolutionary"},
		Entities: []string{
			"ChatGPT", "OpenAI", "Google", "Microsoft", "Anthropic", "Claude",
			"DeepMind", "Meta", "Apple", "Amazon", "Tesla", "Nvidia",
		},
		TechKeywords: []string{
			"机器学习", "深度学习", "大模型", "LLM", "智能体", "AGI",
			"生成式AI", "计算机视觉", "NLP", "强化学习",
		},
	}
}

// rulesFile is the YAML shape of a rules override. Any list left out keeps
// its default.
type rulesFile struct {
	Categories   map[string][]string `yaml:"categories"`
	Hot          []string            `yaml:"hot"`
	Entities     []string            `yaml:"entities"`
	TechKeywords []string            `yaml:"tech_keywords"`
}

// LoadRules reads a YAML override on top of DefaultRules. An empty path
// returns the defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("read rules: %w", err)
	}
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return rules, fmt.Errorf("parse rules %s: %w", path, err)
	}

	if len(f.Hot) > 0 {
		rules.Hot = f.Hot
	}
	if len(f.Entities) > 0 {
		rules.Entities = f.Entities
	}
	if len(f.TechKeywords) > 0 {
		rules.TechKeywords = f.TechKeywords
	}

	// Known categories keep their position; new ones go last, by name.
	var extra []string
	for name, kws := range f.Categories {
		replaced := false
		for i := range rules.Categories {
			if string(rules.Categories[i].Category) == name {
				rules.Categories[i].Keywords = kws
				replaced = true
				break
			}
		}
		if !replaced {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		rules.Categories = append(rules.Categories, CategoryRule{feed.Category(name), f.Categories[name]})
	}

	return rules, nil
}
