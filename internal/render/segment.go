// Package render turns agent replies into display segments: plain text with
// bold spans, code blocks, HTML previews and images.
package render

import (
	"regexp"
	"strings"
)

// Kind classifies a segment.
type Kind int

const (
	KindText Kind = iota
	KindCode
	KindHTML
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindCode:
		return "code"
	case KindHTML:
		return "html"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// Span is a run of text, optionally emphasized.
type Span struct {
	Text string
	Bold bool
}

// Segment is one renderable piece of a message.
type Segment struct {
	Kind     Kind
	Spans    []Span // KindText
	Language string // KindCode
	Code     string // KindCode, KindHTML
	Alt      string // KindImage
	URL      string // KindImage
}

// Text joins a text segment's spans without markup.
func (s Segment) Text() string {
	var b strings.Builder
	for _, sp := range s.Spans {
		b.WriteString(sp.Text)
	}
	return b.String()
}

// DefaultStaticPrefix marks backend-relative asset paths.
const DefaultStaticPrefix = "/static"

// DefaultAssetOrigin is the interpreter backend serving /static assets.
const DefaultAssetOrigin = "http://localhost:8000"

// Options controls URL rewriting.
type Options struct {
	AssetOrigin  string
	StaticPrefix string
}

// DefaultOptions points static assets at the local backend.
func DefaultOptions() Options {
	return Options{AssetOrigin: DefaultAssetOrigin, StaticPrefix: DefaultStaticPrefix}
}

var (
	tokenRE = regexp.MustCompile("(?s)```.*?```|!\\[[^\\n]*?\\]\\([^\\n]*?\\)")
	fenceRE = regexp.MustCompile("(?s)^```(\\w*)\\n?(.*?)```$")
	imageRE = regexp.MustCompile(`^!\[(.*?)\]\((.*?)\)$`)
	boldRE  = regexp.MustCompile(`\*\*.*?\*\*`)
)

// Split breaks text into segments in order of appearance. Fenced code and
// image references are tokens; everything between them is text.
func Split(text string, opts Options) []Segment {
	var out []Segment
	last := 0
	for _, loc := range tokenRE.FindAllStringIndex(text, -1) {
		out = appendText(out, text[last:loc[0]])
		out = appendToken(out, text[loc[0]:loc[1]], opts)
		last = loc[1]
	}
	out = appendText(out, text[last:])
	return out
}

func appendText(out []Segment, s string) []Segment {
	if strings.TrimSpace(s) == "" {
		return out
	}
	return append(out, Segment{Kind: KindText, Spans: BoldSpans(s)})
}

func appendToken(out []Segment, tok string, opts Options) []Segment {
	if m := fenceRE.FindStringSubmatch(tok); m != nil {
		lang := m[1]
		// An empty fence still renders as an empty code panel.
		code := strings.TrimSpace(m[2])
		if IsHTML(lang, code) {
			return append(out, Segment{Kind: KindHTML, Language: lang, Code: code})
		}
		return append(out, Segment{Kind: KindCode, Language: lang, Code: code})
	}
	if m := imageRE.FindStringSubmatch(tok); m != nil {
		return append(out, Segment{Kind: KindImage, Alt: m[1], URL: ResolveAsset(m[2], opts)})
	}
	return appendText(out, tok)
}

// ResolveAsset rewrites backend-relative static paths into absolute URLs.
func ResolveAsset(url string, opts Options) string {
	prefix := opts.StaticPrefix
	if prefix == "" {
		prefix = DefaultStaticPrefix
	}
	if !strings.HasPrefix(url, prefix) {
		return url
	}
	origin := opts.AssetOrigin
	if origin == "" {
		origin = DefaultAssetOrigin
	}
	return strings.TrimRight(origin, "/") + url
}

// BoldSpans splits s on **emphasis** markers.
func BoldSpans(s string) []Span {
	var spans []Span
	last := 0
	for _, loc := range boldRE.FindAllStringIndex(s, -1) {
		if loc[0] > last {
			spans = append(spans, Span{Text: s[last:loc[0]]})
		}
		inner := s[loc[0]+2 : loc[1]-2]
		if inner != "" {
			spans = append(spans, Span{Text: inner, Bold: true})
		}
		last = loc[1]
	}
	if last < len(s) {
		spans = append(spans, Span{Text: s[last:]})
	}
	return spans
}
