package domain

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Placeholder delimiters. A parameter named "user" appears in template
// text as {{{user}}}.
const (
	PlaceholderOpen  = "{{{"
	PlaceholderClose = "}}}"
)

// placeholderPattern matches any complete placeholder, whatever its name.
var placeholderPattern = regexp.MustCompile(`\{\{\{[^{}]+?\}\}\}`)

// Template is a named base prompt as stored on disk.
type Template struct {
	// Name is the unique key, the file name without its extension.
	Name string

	// Text is the raw template text with surrounding whitespace trimmed.
	Text string
}

// Placeholder returns the marker for the given parameter name.
func Placeholder(name string) string {
	return PlaceholderOpen + name + PlaceholderClose
}

// CountPlaceholders returns the number of placeholder occurrences in text.
// Repeated placeholders are counted once per occurrence.
func CountPlaceholders(text string) int {
	return len(placeholderPattern.FindAllStringIndex(text, -1))
}

// Info describes the template without its text.
func (t Template) Info() TemplateInfo {
	return TemplateInfo{
		Name:     t.Name,
		Length:   utf8.RuneCountInString(t.Text),
		ParamNum: CountPlaceholders(t.Text),
	}
}

// TemplateInfo is the metadata reported for a template in status views.
type TemplateInfo struct {
	Name     string `json:"name"`
	Length   int    `json:"length"`
	ParamNum int    `json:"param_num"`
}

// String returns a compact single-line form used in debug logs.
func (i TemplateInfo) String() string {
	return fmt.Sprintf("%s(length=%d, params=%d)", i.Name, i.Length, i.ParamNum)
}

// TemplateStatus is the health view of the template store.
type TemplateStatus struct {
	// Available is false when no template directory is configured.
	Available bool `json:"is_available"`

	// Templates lists every loaded template, sorted by name.
	Templates []TemplateInfo `json:"base_prompt_info"`
}

// RenderedTemplate is the result of rendering a template for one call.
// It is never persisted.
type RenderedTemplate struct {
	Name   string            `json:"name"`
	Text   string            `json:"text"`
	Params map[string]string `json:"params"`
}
