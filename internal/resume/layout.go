package resume

import (
	"net/url"
	"strings"

	"github.com/texforge/resumed/internal/latex"
)

// Options controls layout defaults not carried in the data.
type Options struct {
	// DefaultName is used when personalInfo.name is empty.
	DefaultName string
}

const linkSeparator = "\n\\text{\\textbar}\n"

// Layout builds the resume document.
//
// Role, company, description and skill text is inserted verbatim so that
// callers may embed markup such as \textbf{Go}. Link labels derived from
// URLs and e-mail addresses are escaped.
func Layout(r *Resume, opts Options) *latex.Document {
	doc := latex.NewDocument(
		latex.Option{Key: "left", Value: "0.75in"},
		latex.Option{Key: "right", Value: "0.75in"},
		latex.Option{Key: "top", Value: "0.5in"},
		latex.Option{Key: "bottom", Value: "0.75in"},
	)

	doc.AddPackage("enumitem")
	doc.AddPackage("hyperref")
	doc.AddPackage("amsmath")
	doc.AddPackage("xcolor", "svgnames")
	doc.AddPackage("sectsty")

	doc.AddPreamble(
		`\definecolor{LinkBlue}{RGB}{48,92,199}`,
		`\definecolor{MainBlue}{RGB}{16,82,197}`,
		`\hypersetup{colorlinks = true, urlcolor=LinkBlue}`,
		`\sectionfont{\color{MainBlue}}`,
		`\linespread{0.90}`,
		`\pagestyle{empty}`,
	)

	writeHeader(doc, r, opts)
	if len(r.WorkEx) > 0 {
		writeWorkEx(doc, r.WorkEx)
	}
	writeSkills(doc, r.Skills)
	if len(r.Education) > 0 {
		writeEducation(doc, r.Education)
	}
	return doc
}

func writeHeader(doc *latex.Document, r *Resume, opts Options) {
	name := r.PersonalInfo.Name
	if name == "" {
		name = opts.DefaultName
	}
	if name != "" {
		doc.Append(`\begin{center}`, `\textbf{\Huge `+name+`}`)
		if r.PersonalInfo.Title != "" {
			doc.Append(`\\[1mm]`, `{\large `+r.PersonalInfo.Title+`}`)
		}
		doc.Append(`\end{center}`, `\vspace{2mm}`)
	}

	links := socialLinks(r.SocialLinks)
	if len(links) > 0 {
		doc.Append(`\begin{center}`, strings.Join(links, linkSeparator), `\end{center}`)
	}
}

func socialLinks(s SocialLinks) []string {
	var links []string
	if s.LinkedIn != "" {
		links = append(links, href(s.LinkedIn, "LinkedIn"))
	}
	if s.GitHub != "" {
		links = append(links, href(s.GitHub, "GitHub"))
	}
	if s.Website != "" {
		links = append(links, href(s.Website, latex.Escape(websiteLabel(s.Website))))
	}
	if s.Email != "" {
		links = append(links, href("mailto://"+s.Email, latex.Escape(s.Email)))
	}
	if s.Phone != "" {
		links = append(links, s.Phone)
	}
	return links
}

func href(target, label string) string {
	return `\href{` + target + `}{` + label + `}`
}

// websiteLabel returns the host part of a URL, falling back to the input
// without scheme and trailing slash.
func websiteLabel(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		return u.Host
	}
	label := raw
	if i := strings.Index(label, "://"); i >= 0 {
		label = label[i+3:]
	}
	return strings.TrimRight(label, "/")
}

func sectionHeader(doc *latex.Document, title string) {
	doc.Append(
		`\section*{`+title+`}`,
		`{\color{MainBlue}\hrule height 0.5mm}`,
		`\vspace{3mm}`,
	)
}

func itemize(doc *latex.Document, items []string) {
	doc.Append(`\begin{itemize}[leftmargin=*]`, `\setlength{\itemsep}{0.02em}`)
	for _, it := range items {
		doc.Append(`\item ` + it)
	}
	doc.Append(`\end{itemize}`)
}

func writeWorkEx(doc *latex.Document, jobs []Job) {
	sectionHeader(doc, "Work Experience")
	for i, job := range jobs {
		doc.Append(
			`\noindent`,
			`\textbf{`+job.Role+`} \hfill `+job.Period+` \\`,
			`\text{`+job.Company+`} \hfill `+job.Location,
		)
		if len(job.Description) > 0 {
			itemize(doc, job.Description)
		}
		if i < len(jobs)-1 {
			doc.Append(`\vspace{2mm}`)
		}
	}
}

// writeSkills skips groups without a type or values, and the whole section
// when none remain. An itemize without items does not compile.
func writeSkills(doc *latex.Document, groups []SkillGroup) {
	var items []string
	for _, g := range groups {
		if g.Type == "" || len(g.Values) == 0 {
			continue
		}
		items = append(items, `\textbf{`+g.Type+`:} `+strings.Join(g.Values, ", "))
	}
	if len(items) == 0 {
		return
	}
	sectionHeader(doc, "Skills")
	itemize(doc, items)
}

func writeEducation(doc *latex.Document, entries []Education) {
	sectionHeader(doc, "Education")
	for i, e := range entries {
		var lines []string

		head := `\textbf{` + e.Institution + `}`
		if e.Location != "" {
			head = `\textbf{` + e.Institution + `,} ` + e.Location
		}
		if e.Period != "" {
			head += ` \hfill ` + e.Period
		}
		lines = append(lines, head)

		if e.Degree != "" || e.Grade != "" {
			degree := e.Degree
			if e.Grade != "" {
				degree += ` \hfill ` + e.Grade
			}
			lines = append(lines, degree)
		}
		if len(e.Courses) > 0 {
			lines = append(lines, "Relevant Courses: "+strings.Join(e.Courses, ", "))
		}

		doc.Append(`\noindent`)
		for j, line := range lines {
			if j < len(lines)-1 {
				line += `\\`
			}
			doc.Append(line)
		}
		if i < len(entries)-1 {
			doc.Append(`\vspace{3mm}`)
		}
	}
}
