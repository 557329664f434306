package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	verrors "github.com/vitessedocs/vitesse/internal/errors"
	"github.com/vitessedocs/vitesse/internal/logfields"
)

// DocsDir is the subtree CheckDocs walks, relative to the project source dir.
const DocsDir = "content/docs"

// Severity classifies a finding. Errors make the check fail, warnings do not.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding against a docs page.
type Issue struct {
	Path     string
	Severity Severity
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.Path, i.Message)
}

// Report aggregates findings across a docs tree.
type Report struct {
	FilesChecked int
	Issues       []Issue
}

// HasErrors reports whether any finding is error severity.
func (r *Report) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (r *Report) add(path string, severity Severity, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Path:     path,
		Severity: severity,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Checker validates docs content pages.
type Checker struct {
	logger *slog.Logger
}

func NewChecker(logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{logger: logger}
}

// CheckDocs walks <srcDir>/content/docs and validates every Markdown page:
// frontmatter must parse and must carry a title, with a leading level-1
// heading accepted as the title fallback. A missing docs tree yields an
// empty report, not an error.
func (c *Checker) CheckDocs(ctx context.Context, srcDir string) (*Report, error) {
	report := &Report{Issues: []Issue{}}
	root := filepath.Join(srcDir, DocsDir)

	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			c.logger.Debug("no docs tree to check", logfields.Path(root))
			return report, nil
		}
		return nil, verrors.FileReadError(root, err)
	}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(d.Name()), ".md") {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		return c.checkFile(path, report)
	})
	if walkErr != nil {
		var te *verrors.ThemeError
		if errors.As(walkErr, &te) || errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return nil, walkErr
		}
		return nil, verrors.FileReadError(root, walkErr)
	}

	c.logger.Debug("docs check finished",
		slog.Int("files", report.FilesChecked),
		slog.Int("issues", len(report.Issues)))
	return report, nil
}

func (c *Checker) checkFile(path string, report *Report) error {
	report.FilesChecked++

	data, err := os.ReadFile(path)
	if err != nil {
		return verrors.FileReadError(path, err)
	}

	meta, body, had, err := splitFrontmatter(data)
	if err != nil {
		report.add(path, SeverityError, "frontmatter block is never closed")
		return nil
	}
	if !had {
		report.add(path, SeverityError, "missing frontmatter block")
		return nil
	}

	fields, err := parseMeta(meta)
	if err != nil {
		report.add(path, SeverityError, "malformed frontmatter: %v", err)
		return nil
	}

	title, _ := fields["title"].(string)
	title = strings.TrimSpace(title)
	headings := ExtractHeadings(body)

	if title == "" {
		if h, ok := leadingH1(headings); ok {
			report.add(path, SeverityWarning, "no title in frontmatter, page falls back to leading heading %q", h.Text)
		} else {
			report.add(path, SeverityError, "missing required frontmatter field %q", "title")
		}
		return nil
	}

	// The theme renders the frontmatter title as the page heading, so a
	// matching body H1 would show twice.
	if h, ok := leadingH1(headings); ok && h.Text == title {
		report.add(path, SeverityWarning, "leading heading duplicates the page title %q", title)
	}
	return nil
}

// Heading is one Markdown heading of a docs page body.
type Heading struct {
	Level int
	Text  string
}

// ExtractHeadings parses body Markdown and returns its headings in document
// order.
func ExtractHeadings(body []byte) []Heading {
	md := goldmark.New()
	root := md.Parser().Parse(gmtext.NewReader(body))

	headings := make([]Heading, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		headings = append(headings, Heading{Level: h.Level, Text: headingText(h, body)})
		return gmast.WalkSkipChildren, nil
	})
	return headings
}

func headingText(h *gmast.Heading, source []byte) string {
	var b strings.Builder
	_ = gmast.Walk(h, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if t, ok := n.(*gmast.Text); ok {
			b.Write(t.Segment.Value(source))
		}
		return gmast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func leadingH1(headings []Heading) (Heading, bool) {
	if len(headings) > 0 && headings[0].Level == 1 && headings[0].Text != "" {
		return headings[0], true
	}
	return Heading{}, false
}
