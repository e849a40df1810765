package configdoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/correl8/pkg/correlation"
)

// ParseYAML parses data as a YAML document, applies defaults and
// environment overrides, and validates the result. Decoding is strict
// (spec §6, §8): a field the schema doesn't recognize is a deserialization
// error rather than silently dropped.
func ParseYAML(data []byte) (*Document, error) {
	doc := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("configdoc: parsing yaml: %w", err)
	}
	return finish(doc)
}

// ParseJSON parses data as a JSON document, applies defaults and
// environment overrides, and validates the result. Decoding is strict, for
// the same reason as ParseYAML.
func ParseJSON(data []byte) (*Document, error) {
	doc := Default()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("configdoc: parsing json: %w", err)
	}
	return finish(doc)
}

func finish(doc *Document) (*Document, error) {
	doc.applyEnvironmentOverrides()
	if err := Validate(doc); err != nil {
		return nil, fmt.Errorf("configdoc: validating: %w", err)
	}
	return doc, nil
}

// Validate checks structural correctness of a Document: a timestamp
// pattern with a capture group, at least one context, and well-formed
// conditions/actions on each.
func Validate(doc *Document) error {
	if err := validateTimestampFormat(&doc.TimestampFormat); err != nil {
		return fmt.Errorf("timestamp_format: %w", err)
	}

	for i := range doc.TagPatterns {
		tp := &doc.TagPatterns[i]
		if tp.UUID == "" {
			return fmt.Errorf("tag_patterns[%d]: uuid is required", i)
		}
		re, err := regexp.Compile(tp.Pattern)
		if err != nil {
			return fmt.Errorf("tag_patterns[%d] (%s): invalid pattern: %w", i, tp.UUID, err)
		}
		tp.compiledPattern = re
	}

	if len(doc.Contexts) == 0 {
		return errors.New("contexts: at least one context is required")
	}

	seenUUID := make(map[string]bool)
	for i := range doc.Contexts {
		ctx := &doc.Contexts[i]
		if ctx.UUID == "" {
			return fmt.Errorf("contexts[%d]: uuid is required", i)
		}
		if seenUUID[ctx.UUID] {
			return fmt.Errorf("contexts[%d]: duplicate uuid %q", i, ctx.UUID)
		}
		seenUUID[ctx.UUID] = true

		if err := validateConditions(&ctx.Conditions); err != nil {
			return fmt.Errorf("contexts[%d] (%s): conditions: %w", i, ctx.UUID, err)
		}
		for j := range ctx.Actions {
			if err := validateAction(&ctx.Actions[j]); err != nil {
				return fmt.Errorf("contexts[%d] (%s): actions[%d]: %w", i, ctx.UUID, j, err)
			}
		}
	}

	for i := range doc.Webhooks {
		if err := validateWebhook(&doc.Webhooks[i]); err != nil {
			name := doc.Webhooks[i].Name
			if name == "" {
				name = doc.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

func validateTimestampFormat(tf *TimestampConfig) error {
	if tf.Pattern == "" {
		return errors.New("pattern is required")
	}
	re, err := regexp.Compile(tf.Pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern: %w", err)
	}
	if re.NumSubexp() < 1 {
		return errors.New("pattern must have at least one capture group for the timestamp")
	}
	if tf.Layout == "" {
		return errors.New("layout is required")
	}
	tf.compiledPattern = re
	return nil
}

func validateConditions(c *ConditionsConfig) error {
	if c.Timeout < 0 || c.RenewTimeout < 0 {
		return errors.New("timeout and renew_timeout must not be negative")
	}
	if c.MaxSize < 0 {
		return errors.New("max_size must not be negative")
	}
	if c.Timeout == 0 && c.RenewTimeout == 0 && c.MaxSize == 0 && !c.LastCloses {
		return errors.New("at least one of timeout, renew_timeout, max_size, or last_closes must close the context")
	}
	return nil
}

func validateAction(a *ActionConfig) error {
	switch a.Type {
	case "message":
		if a.Message == "" {
			return errors.New(`message is required for "message" actions`)
		}
		if a.UUID == "" {
			return errors.New(`uuid is required for "message" actions`)
		}
	case "":
		return errors.New("type is required")
	default:
		return fmt.Errorf("unknown action type %q (must be message)", a.Type)
	}
	if _, err := correlation.ParseInjectMode(a.InjectMode); err != nil {
		return err
	}
	return nil
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}
	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("url must have a host")
	}
	if wh.Timeout <= 0 {
		wh.Timeout = Duration(DefaultWebhookTimeout)
	}
	return nil
}
