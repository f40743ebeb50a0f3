// Package prompt is the boundary for the questions an operation asks the
// user: yes/no, a number, free text and notices. Operations receive already
// resolved answers; only this package talks to the user.
package prompt

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v2"

	"flowcellcli/internal/boxplot"
	"flowcellcli/internal/config"
	apperrors "flowcellcli/internal/errors"
	"flowcellcli/pkg/contracts/domain"
)

// User facing texts
const (
	HeightDeltaQuestion = "Change the height delta (default=0) for boxplot?"
	HeightDeltaEntry    = "Enter height delta: "
	LabelPromptFormat   = "Please enter label for experiment <%s>:"
)

// Prompter asks the user. Implementations return ErrPromptCancelled when
// the user aborts (end of input).
type Prompter interface {
	Confirm(ctx context.Context, question string) (bool, error)
	AskFloat(ctx context.Context, question string) (float64, error)
	AskString(ctx context.Context, question string) (string, error)
	Notify(ctx context.Context, message string) error
}

// HeightDeltaNotice is shown when an entered height delta is rejected.
func HeightDeltaNotice(allowed []float64) string {
	list := ""
	for i, v := range allowed {
		switch {
		case i == 0:
		case i == len(allowed)-1:
			list += ", or "
		default:
			list += ", "
		}
		list += config.FormatHeightDelta(v)
	}
	return fmt.Sprintf("Height delta can only be %s m. Resetting to 0 m", list)
}

// ResolveHeightDelta settles the height delta of a boxplot run. A preset value
// (from a flag) skips the questions; otherwise the user is asked whether to
// change the default of 0 and for the new value. Values outside allowed fall
// back to 0 with a notice.
func ResolveHeightDelta(ctx context.Context, p Prompter, preset *float64, allowed []float64) (float64, error) {
	var entered float64
	if preset != nil {
		entered = *preset
	} else {
		change, err := p.Confirm(ctx, HeightDeltaQuestion)
		if err != nil {
			return 0, err
		}
		if !change {
			return 0, nil
		}
		if entered, err = p.AskFloat(ctx, HeightDeltaEntry); err != nil {
			return 0, err
		}
	}

	delta, ok := boxplot.CoerceHeightDelta(entered, allowed)
	if !ok {
		if err := p.Notify(ctx, HeightDeltaNotice(allowed)); err != nil {
			return 0, err
		}
	}
	return delta, nil
}

// CollectLabels asks for one display label per experiment, in order.
// Experiments present in preset are not asked for. An empty answer keeps the
// identifier as label.
func CollectLabels(ctx context.Context, p Prompter, experiments []string, preset domain.LabelMap) (domain.LabelMap, error) {
	labels := make(domain.LabelMap, len(experiments))
	for _, name := range experiments {
		if l, ok := preset[name]; ok && l != "" {
			labels[name] = l
			continue
		}
		answer, err := p.AskString(ctx, fmt.Sprintf(LabelPromptFormat, name))
		if err != nil {
			return nil, err
		}
		if answer == "" {
			answer = name
		}
		labels[name] = answer
	}
	return labels, nil
}

// LoadLabels reads a YAML mapping of experiment identifier to label.
func LoadLabels(path string) (domain.LabelMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewConfigError(fmt.Sprintf("failed to read labels file %s", path), err)
	}
	labels := domain.LabelMap{}
	if err := yaml.Unmarshal(data, &labels); err != nil {
		return nil, apperrors.NewConfigError(fmt.Sprintf("labels file %s is not a mapping", path), err)
	}
	return labels, nil
}

// Defaults answers every question with its default: no, 0, empty text.
// Notices are logged.
type Defaults struct {
	Logger *slog.Logger
}

func (d Defaults) Confirm(context.Context, string) (bool, error)     { return false, nil }
func (d Defaults) AskFloat(context.Context, string) (float64, error) { return 0, nil }
func (d Defaults) AskString(context.Context, string) (string, error) { return "", nil }

func (d Defaults) Notify(ctx context.Context, message string) error {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.WarnContext(ctx, message)
	return nil
}
