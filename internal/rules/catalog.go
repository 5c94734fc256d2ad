// Package rules loads the regular expression rule catalog shared by the hooks.
package rules

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/michael-freling/claude-code-guards/internal/risk"
)

//go:embed rules.toml
var defaultRules []byte

// ErrEmptyPattern is returned for a rule without a pattern.
var ErrEmptyPattern = errors.New("rule pattern is empty")

// Catalog is the compiled rule set.
type Catalog struct {
	// Guard tiers drive the destructive guard and carry alternatives.
	Guard risk.Tiers
	// Reasoning tiers drive the reasoning validator.
	Reasoning risk.Tiers
	// Bypass matches language that works around quality controls.
	Bypass []risk.Rule
	// ReasoningSignals match language that indicates a root-cause fix.
	ReasoningSignals []risk.Rule
	// Content matches banned TypeScript/JavaScript content.
	Content []risk.Rule
	// Guidance maps a bypass description to reasoning guidance.
	Guidance map[string]string
}

type ruleDef struct {
	Pattern      string   `toml:"pattern"`
	Description  string   `toml:"description"`
	Alternatives []string `toml:"alternatives"`
}

type tierDefs struct {
	Critical  []ruleDef `toml:"critical"`
	Dangerous []ruleDef `toml:"dangerous"`
	Risky     []ruleDef `toml:"risky"`
}

type contentDefs struct {
	Banned []ruleDef `toml:"banned"`
}

type catalogFile struct {
	ReasoningSignals []string          `toml:"reasoning_signals"`
	Guard            tierDefs          `toml:"guard"`
	Reasoning        tierDefs          `toml:"reasoning"`
	Bypass           []ruleDef         `toml:"bypass"`
	Content          contentDefs       `toml:"content"`
	Guidance         map[string]string `toml:"guidance"`
}

const (
	guardFlags     = risk.IgnoreCase
	reasoningFlags = risk.IgnoreCase | risk.Multiline
	signalFlags    = risk.IgnoreCase
	contentFlags   risk.Flags = 0
)

// Default compiles the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(defaultRules)
}

// Load compiles the built-in catalog and appends the rules of extraPath,
// when set.
func Load(extraPath string) (*Catalog, error) {
	catalog, err := Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in rules: %w", err)
	}
	if extraPath == "" {
		return catalog, nil
	}

	data, err := os.ReadFile(extraPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", extraPath, err)
	}
	extra, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules file %s: %w", extraPath, err)
	}
	catalog.Merge(extra)
	return catalog, nil
}

// Parse compiles a catalog from TOML data.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if _, err := toml.Decode(string(data), &file); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	var err error
	c := &Catalog{Guidance: map[string]string{}}

	if c.Guard, err = compileTiers("guard", file.Guard, guardFlags); err != nil {
		return nil, err
	}
	if c.Reasoning, err = compileTiers("reasoning", file.Reasoning, reasoningFlags); err != nil {
		return nil, err
	}
	if c.Bypass, err = compileRules("bypass", file.Bypass, reasoningFlags); err != nil {
		return nil, err
	}
	if c.Content, err = compileRules("content.banned", file.Content.Banned, contentFlags); err != nil {
		return nil, err
	}

	for i, expr := range file.ReasoningSignals {
		rule, err := risk.NewRule(expr, expr, signalFlags)
		if err != nil {
			return nil, fmt.Errorf("reasoning_signals[%d]: %w", i, err)
		}
		c.ReasoningSignals = append(c.ReasoningSignals, rule)
	}

	for k, v := range file.Guidance {
		c.Guidance[k] = v
	}
	return c, nil
}

// Merge appends every rule of other to c. Guidance entries of other win.
func (c *Catalog) Merge(other *Catalog) {
	c.Guard = mergeTiers(c.Guard, other.Guard)
	c.Reasoning = mergeTiers(c.Reasoning, other.Reasoning)
	c.Bypass = append(c.Bypass, other.Bypass...)
	c.ReasoningSignals = append(c.ReasoningSignals, other.ReasoningSignals...)
	c.Content = append(c.Content, other.Content...)
	if c.Guidance == nil {
		c.Guidance = map[string]string{}
	}
	for k, v := range other.Guidance {
		c.Guidance[k] = v
	}
}

// Size returns the total number of compiled rules.
func (c *Catalog) Size() int {
	tiers := func(t risk.Tiers) int { return len(t.Critical) + len(t.Dangerous) + len(t.Risky) }
	return tiers(c.Guard) + tiers(c.Reasoning) + len(c.Bypass) + len(c.ReasoningSignals) + len(c.Content)
}

func mergeTiers(a, b risk.Tiers) risk.Tiers {
	return risk.Tiers{
		Critical:  append(a.Critical, b.Critical...),
		Dangerous: append(a.Dangerous, b.Dangerous...),
		Risky:     append(a.Risky, b.Risky...),
	}
}

func compileTiers(section string, defs tierDefs, flags risk.Flags) (risk.Tiers, error) {
	var tiers risk.Tiers
	var err error
	if tiers.Critical, err = compileRules(section+".critical", defs.Critical, flags); err != nil {
		return risk.Tiers{}, err
	}
	if tiers.Dangerous, err = compileRules(section+".dangerous", defs.Dangerous, flags); err != nil {
		return risk.Tiers{}, err
	}
	if tiers.Risky, err = compileRules(section+".risky", defs.Risky, flags); err != nil {
		return risk.Tiers{}, err
	}
	return tiers, nil
}

func compileRules(section string, defs []ruleDef, flags risk.Flags) ([]risk.Rule, error) {
	out := make([]risk.Rule, 0, len(defs))
	for i, def := range defs {
		if strings.TrimSpace(def.Pattern) == "" {
			return nil, fmt.Errorf("%s[%d] %q: %w", section, i, def.Description, ErrEmptyPattern)
		}
		description := def.Description
		if description == "" {
			description = def.Pattern
		}
		rule, err := risk.NewRule(def.Pattern, description, flags, def.Alternatives...)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", section, i, err)
		}
		out = append(out, rule)
	}
	return out, nil
}
