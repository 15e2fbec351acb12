package drift

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Experience bundles and effect primitives are definable in config files
// so a site can re-theme without a rebuild: experiences in TOML,
// effect primitives in YAML. Loaders parse and validate but never
// register — callers append the results to their RegistrySet, keeping
// registration explicit.

type experienceFile struct {
	Experiences []experienceDef `toml:"experience"`
}

type experienceDef struct {
	ID          string          `toml:"id"`
	Model       string          `toml:"model"`
	Assignments []assignmentDef `toml:"assignments"`
	Intro       []introDef      `toml:"intro"`
}

type assignmentDef struct {
	Behaviour string         `toml:"behaviour"`
	Options   map[string]any `toml:"options"`
	Pinned    bool           `toml:"pinned"`
}

type introDef struct {
	Effect  string `toml:"effect"`
	DelayMS int    `toml:"delay_ms"`
}

var validModels = map[PresentationModel]bool{
	ModelStacking:         true,
	ModelSlideshow:        true,
	ModelInfiniteCarousel: true,
	ModelCoverScroll:      true,
}

// ParseExperiences parses TOML experience definitions.
func ParseExperiences(data []byte) ([]Experience, error) {
	var file experienceFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("experience config parse failed: %w", err)
	}

	out := make([]Experience, 0, len(file.Experiences))
	for i, def := range file.Experiences {
		if def.ID == "" {
			return nil, fmt.Errorf("experience %d: missing id", i)
		}
		model := PresentationModel(def.Model)
		if !validModels[model] {
			return nil, fmt.Errorf("experience %q: unknown model %q", def.ID, def.Model)
		}
		exp := Experience{ID: def.ID, Model: model}
		for _, a := range def.Assignments {
			if a.Behaviour == "" {
				return nil, fmt.Errorf("experience %q: assignment missing behaviour", def.ID)
			}
			exp.Assignments = append(exp.Assignments, BehaviourAssignment{
				Behaviour: a.Behaviour,
				Options:   Options(a.Options),
				Pinned:    a.Pinned,
			})
		}
		for _, step := range def.Intro {
			exp.Intro = append(exp.Intro, IntroStep{
				Effect: step.Effect,
				Delay:  time.Duration(step.DelayMS) * time.Millisecond,
			})
		}
		out = append(out, exp)
	}
	return out, nil
}

// LoadExperiences reads and parses a TOML experience file.
func LoadExperiences(path string) ([]Experience, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("experience config load failed (%s): %w", path, err)
	}
	return ParseExperiences(data)
}

type effectFile struct {
	Effects []effectDef `yaml:"effects"`
}

type effectDef struct {
	ID       string             `yaml:"id"`
	Name     string             `yaml:"name"`
	Duration string             `yaml:"duration"`
	Ease     string             `yaml:"ease"`
	From     map[string]float64 `yaml:"from"`
	To       map[string]float64 `yaml:"to"`
	Format   string             `yaml:"format"`
	Class    string             `yaml:"class"`
}

// ParseEffects parses YAML effect-primitive definitions. Declarative
// definitions cover from/to keyframe timelines and class realizations;
// custom timeline builders stay in code.
func ParseEffects(data []byte) ([]Effect, error) {
	var file effectFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("effect config parse failed: %w", err)
	}

	out := make([]Effect, 0, len(file.Effects))
	for i, def := range file.Effects {
		if def.ID == "" {
			return nil, fmt.Errorf("effect %d: missing id", i)
		}
		e := Effect{ID: def.ID, Name: def.Name}
		if def.Duration != "" {
			d, err := time.ParseDuration(def.Duration)
			if err != nil {
				return nil, fmt.Errorf("effect %q: bad duration: %w", def.ID, err)
			}
			e.Defaults.Duration = d
		}
		e.Defaults.Ease = def.Ease
		if len(def.From) > 0 || len(def.To) > 0 {
			for name := range def.From {
				if !ValidVarName(name) {
					return nil, fmt.Errorf("effect %q: keyframe key %q is not a custom property", def.ID, name)
				}
			}
			for name := range def.To {
				if !ValidVarName(name) {
					return nil, fmt.Errorf("effect %q: keyframe key %q is not a custom property", def.ID, name)
				}
			}
			e.Timeline = &TimelineSpec{From: def.From, To: def.To, Format: def.Format}
		}
		if def.Class != "" {
			e.Class = &ClassSpec{Class: def.Class}
		}
		if e.Timeline == nil && e.Class == nil {
			logger.Warn().Str("id", def.ID).Msg("effect defined with no realization")
		}
		out = append(out, e)
	}
	return out, nil
}

// LoadEffects reads and parses a YAML effect file.
func LoadEffects(path string) ([]Effect, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("effect config load failed (%s): %w", path, err)
	}
	return ParseEffects(data)
}
