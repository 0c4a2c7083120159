package webhooks

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractedFeature is one feature row pulled from a document.
type ExtractedFeature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Extraction holds the fields the extraction webhook recovered from a
// document. Every field is optional; callers merge only the fields that
// are present and non-empty.
type Extraction struct {
	Title        string             `json:"title,omitempty"`
	Slug         string             `json:"slug,omitempty"`
	ReadTime     string             `json:"read_time,omitempty"`
	Excerpt      string             `json:"excerpt,omitempty"`
	Content      string             `json:"content,omitempty"`
	Author       string             `json:"author,omitempty"`
	Category     string             `json:"category,omitempty"`
	Overview     string             `json:"overview,omitempty"`
	Tags         []string           `json:"tags,omitempty"`
	Technologies []string           `json:"technologies,omitempty"`
	Features     []ExtractedFeature `json:"features,omitempty"`
}

// envelope is the extraction webhook's outer response shape.
type envelope struct {
	Output string `json:"output"`
}

// ParseExtraction decodes the extraction webhook's response body.
//
// The outer body is either {"output": "..."} or [{"output": "..."}]. The
// output string is itself JSON, sometimes wrapped in a markdown code fence.
// The inner payload is duck-typed; each recognized field is validated
// individually and unrecognized fields are ignored.
func ParseExtraction(body []byte) (*Extraction, error) {
	output, err := unwrapOutput(body)
	if err != nil {
		return nil, err
	}

	cleaned := stripCodeFence(output)
	if strings.TrimSpace(cleaned) == "" {
		return nil, fmt.Errorf("webhooks: extraction output is empty")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("webhooks: parse extraction output: %w", err)
	}

	ex := &Extraction{}
	ex.Title = stringField(raw, "title")
	ex.Slug = stringField(raw, "slug")
	ex.ReadTime = stringField(raw, "read_time")
	ex.Excerpt = stringField(raw, "excerpt")
	ex.Content = stringField(raw, "content")
	ex.Author = stringField(raw, "author")
	ex.Category = stringField(raw, "category")
	ex.Overview = stringField(raw, "overview")
	ex.Tags = stringListField(raw, "tags")
	ex.Technologies = stringListField(raw, "technologies")
	ex.Features = featureListField(raw, "features")
	return ex, nil
}

// unwrapOutput pulls the output string out of the bare-object or
// one-element-array envelope.
func unwrapOutput(body []byte) (string, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "", fmt.Errorf("webhooks: empty extraction response")
	}

	if strings.HasPrefix(trimmed, "[") {
		var arr []envelope
		if err := json.Unmarshal(body, &arr); err != nil {
			return "", fmt.Errorf("webhooks: parse extraction envelope: %w", err)
		}
		if len(arr) == 0 || arr[0].Output == "" {
			return "", fmt.Errorf("webhooks: extraction response has no output")
		}
		return arr[0].Output, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", fmt.Errorf("webhooks: parse extraction envelope: %w", err)
	}
	if env.Output == "" {
		return "", fmt.Errorf("webhooks: extraction response has no output")
	}
	return env.Output, nil
}

// stripCodeFence removes a leading ```json (or bare ```) marker and a
// trailing ``` marker, if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	// Drop the language tag on the opening fence line.
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// stringField reads a string value; non-string values are ignored.
func stringField(raw map[string]json.RawMessage, key string) string {
	msg, ok := raw[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(msg, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// stringListField reads a list of strings. A comma-separated string and a
// list of objects with a "name" field are both accepted, since the
// extraction service is not consistent about shapes.
func stringListField(raw map[string]json.RawMessage, key string) []string {
	msg, ok := raw[key]
	if !ok {
		return nil
	}

	var list []string
	if err := json.Unmarshal(msg, &list); err == nil {
		return cleanStrings(list)
	}

	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return cleanStrings(strings.Split(s, ","))
	}

	var objs []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(msg, &objs); err == nil {
		names := make([]string, 0, len(objs))
		for _, o := range objs {
			names = append(names, o.Name)
		}
		return cleanStrings(names)
	}

	return nil
}

// featureListField reads a list of {title, description} objects.
func featureListField(raw map[string]json.RawMessage, key string) []ExtractedFeature {
	msg, ok := raw[key]
	if !ok {
		return nil
	}

	var features []ExtractedFeature
	if err := json.Unmarshal(msg, &features); err != nil {
		return nil
	}

	out := features[:0]
	for _, f := range features {
		f.Title = strings.TrimSpace(f.Title)
		f.Description = strings.TrimSpace(f.Description)
		if f.Title != "" || f.Description != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func cleanStrings(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
