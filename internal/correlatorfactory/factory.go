// Package correlatorfactory builds a running correlator.Correlator from a
// configuration file on disk (spec §4.L): it dispatches on file extension,
// parses and validates the document, compiles every context's templates,
// and wires the result into a ContextMap.
//
// Grounded on negalog's cmd/cli/main.go and internal/cli/commands/analyze.go,
// which read a YAML configuration file before handing it to the rule
// engines; the JSON branch has no counterpart there.
package correlatorfactory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ccollicutt/correl8/internal/configdoc"
	"github.com/ccollicutt/correl8/pkg/correlation"
	"github.com/ccollicutt/correl8/pkg/correlator"
	"github.com/ccollicutt/correl8/pkg/template"
)

// ErrUnsupportedFileExtension is returned when path's extension is neither
// .json, .yaml, nor .yml.
var ErrUnsupportedFileExtension = errors.New("correlatorfactory: unsupported file extension (want .json, .yaml, or .yml)")

// ErrNotUTF8FileName is returned when path itself is not valid UTF-8 —
// callers report this distinctly from a read failure so the error message
// can name the offending byte sequence's source.
var ErrNotUTF8FileName = errors.New("correlatorfactory: file name is not valid UTF-8")

// Build loads the configuration document at path, compiles it with
// factory, and returns a Correlator ready to Start.
func Build(path string, factory template.Factory, tickInterval time.Duration) (*correlator.Correlator, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}

	contexts, err := Compile(doc, factory)
	if err != nil {
		return nil, fmt.Errorf("correlatorfactory: compiling %s: %w", path, err)
	}

	return correlator.New(contexts, tickInterval), nil
}

// BuildFromDocument compiles an already-loaded Document into a Correlator,
// for callers (the CLI's run/validate commands) that also need doc's
// LogSources, TagPatterns, or Webhooks after building the correlator.
func BuildFromDocument(doc *configdoc.Document, factory template.Factory, tickInterval time.Duration) (*correlator.Correlator, error) {
	contexts, err := Compile(doc, factory)
	if err != nil {
		return nil, fmt.Errorf("correlatorfactory: compiling document: %w", err)
	}
	return correlator.New(contexts, tickInterval), nil
}

// LoadDocument reads and parses the configuration document at path,
// dispatching on its file extension.
func LoadDocument(path string) (*configdoc.Document, error) {
	if !utf8.ValidString(path) {
		return nil, ErrNotUTF8FileName
	}

	data, err := os.ReadFile(path) // #nosec G304 -- caller-supplied config path
	if err != nil {
		return nil, fmt.Errorf("correlatorfactory: reading %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return configdoc.ParseJSON(data)
	case ".yaml", ".yml":
		return configdoc.ParseYAML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileExtension, ext)
	}
}

// Compile turns a validated Document into a ContextMap, compiling every
// action's templates with factory.
func Compile(doc *configdoc.Document, factory template.Factory) (*correlation.ContextMap, error) {
	m := correlation.NewContextMap()

	for i := range doc.Contexts {
		cc := &doc.Contexts[i]
		base, err := compileContext(cc, factory)
		if err != nil {
			return nil, fmt.Errorf("context %q: %w", cc.UUID, err)
		}
		m.Insert(correlation.NewLinearContext(base))
	}

	return m, nil
}

func compileContext(cc *configdoc.ContextConfig, factory template.Factory) (*correlation.BaseContext, error) {
	base := &correlation.BaseContext{
		UUID:    cc.UUID,
		Name:    cc.Name,
		HasName: cc.Name != "",
		Conditions: correlation.Conditions{
			Timeout:      cc.Conditions.Timeout.Duration(),
			RenewTimeout: cc.Conditions.RenewTimeout.Duration(),
			MaxSize:      cc.Conditions.MaxSize,
			FirstOpens:   cc.Conditions.FirstOpens,
			LastCloses:   cc.Conditions.LastCloses,
			Patterns:     cc.Patterns,
		},
	}

	for i := range cc.Actions {
		action, err := compileAction(&cc.Actions[i], factory)
		if err != nil {
			return nil, fmt.Errorf("actions[%d]: %w", i, err)
		}
		base.Actions = append(base.Actions, action)
	}

	return base, nil
}

func compileAction(ac *configdoc.ActionConfig, factory template.Factory) (correlation.Action, error) {
	msgTmpl, err := factory.Compile(ac.Message)
	if err != nil {
		return nil, fmt.Errorf("message: %w", err)
	}

	values := make(map[string]template.Template, len(ac.Values))
	for key, src := range ac.Values {
		tmpl, err := factory.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("values[%s]: %w", key, err)
		}
		values[key] = tmpl
	}

	injectMode, err := correlation.ParseInjectMode(ac.InjectMode)
	if err != nil {
		return nil, err
	}

	return &correlation.MessageAction{
		UUID:    ac.UUID,
		Name:    ac.Name,
		HasName: ac.Name != "",
		Message: msgTmpl,
		Values:  values,
		When: correlation.ExecCondition{
			OnOpened: ac.When.OnOpened,
			OnClosed: ac.When.OnClosed,
		},
		InjectMode: injectMode,
	}, nil
}
