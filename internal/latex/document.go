package latex

import (
	"strings"
)

// Option is an ordered key=value package or geometry option.
// A bare flag has an empty Value.
type Option struct {
	Key   string
	Value string
}

func (o Option) String() string {
	if o.Value == "" {
		return o.Key
	}
	return o.Key + "=" + o.Value
}

// Package is a \usepackage entry.
type Package struct {
	Name    string
	Options []string
}

func (p Package) String() string {
	if len(p.Options) == 0 {
		return `\usepackage{` + p.Name + `}`
	}
	return `\usepackage[` + strings.Join(p.Options, ",") + `]{` + p.Name + `}`
}

// defaultPackages are loaded by every document before geometry.
var defaultPackages = []Package{
	{Name: "fontenc", Options: []string{"T1"}},
	{Name: "inputenc", Options: []string{"utf8"}},
	{Name: "lmodern"},
	{Name: "textcomp"},
	{Name: "lastpage"},
}

// Document is an in-memory LaTeX source file.
//
// Lines passed to Append and AddPreamble are written verbatim. Use Escape
// for text that must be typeset literally.
type Document struct {
	Class    string
	Geometry []Option

	packages []string
	preamble []string
	body     []string
}

// NewDocument creates an article with the given page geometry.
func NewDocument(geometry ...Option) *Document {
	return &Document{
		Class:    "article",
		Geometry: geometry,
	}
}

// AddPackage appends a \usepackage line.
func (d *Document) AddPackage(name string, options ...string) {
	d.packages = append(d.packages, Package{Name: name, Options: options}.String())
}

// AddPackageRaw appends a package line as written.
func (d *Document) AddPackageRaw(line string) {
	d.packages = append(d.packages, line)
}

// AddPreamble appends lines after the packages and before \begin{document}.
func (d *Document) AddPreamble(lines ...string) {
	d.preamble = append(d.preamble, lines...)
}

// Append adds lines to the document body.
func (d *Document) Append(lines ...string) {
	d.body = append(d.body, lines...)
}

// Body returns a copy of the body lines.
func (d *Document) Body() []string {
	return append([]string(nil), d.body...)
}

// String renders the complete .tex source.
func (d *Document) String() string {
	var b strings.Builder

	class := d.Class
	if class == "" {
		class = "article"
	}
	b.WriteString(`\documentclass{` + class + "}%\n")

	for _, p := range defaultPackages {
		b.WriteString(p.String() + "%\n")
	}

	if len(d.Geometry) > 0 {
		opts := make([]string, len(d.Geometry))
		for i, o := range d.Geometry {
			opts[i] = o.String()
		}
		b.WriteString(Package{Name: "geometry", Options: opts}.String() + "%\n")
	}

	for _, p := range d.packages {
		b.WriteString(p + "%\n")
	}

	for _, line := range d.preamble {
		b.WriteString(line + "%\n")
	}

	b.WriteString("%\n")
	b.WriteString(`\begin{document}%` + "\n")
	b.WriteString(`\normalsize%` + "\n")
	for _, line := range d.body {
		b.WriteString(line + "%\n")
	}
	b.WriteString(`\end{document}` + "\n")

	return b.String()
}

var escaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// Escape makes s safe to typeset as plain text.
func Escape(s string) string {
	return escaper.Replace(s)
}
