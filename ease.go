package drift

import "github.com/tanema/gween/ease"

// easeFuncs maps the ease names accepted in effect definitions and config
// files to gween easing functions.
var easeFuncs = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"in-quad":      ease.InQuad,
	"out-quad":     ease.OutQuad,
	"in-out-quad":  ease.InOutQuad,
	"in-cubic":     ease.InCubic,
	"out-cubic":    ease.OutCubic,
	"in-out-cubic": ease.InOutCubic,
	"in-quart":     ease.InQuart,
	"out-quart":    ease.OutQuart,
	"in-out-quart": ease.InOutQuart,
	"in-sine":      ease.InSine,
	"out-sine":     ease.OutSine,
	"in-out-sine":  ease.InOutSine,
	"in-expo":      ease.InExpo,
	"out-expo":     ease.OutExpo,
	"in-out-expo":  ease.InOutExpo,
	"in-back":      ease.InBack,
	"out-back":     ease.OutBack,
	"in-out-back":  ease.InOutBack,
	"out-bounce":   ease.OutBounce,
	"out-elastic":  ease.OutElastic,
}

// EaseFunc resolves an ease name to its gween function. Unknown names fall
// back to linear with a logged warning so a typo in a config file degrades
// the curve, not the transition.
func EaseFunc(name string) ease.TweenFunc {
	if name == "" {
		return ease.Linear
	}
	if fn, ok := easeFuncs[name]; ok {
		return fn
	}
	logger.Warn().Str("ease", name).Msg("unknown ease, using linear")
	return ease.Linear
}
