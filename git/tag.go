package git

import (
	"regexp"
	"strings"

	"github.com/intel/obs-service-git-buildpackage/errors"
)

// Signature identifies a tag or commit author with a raw git date string.
type Signature struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Date  string `json:"date"`
}

// TagData is the parsed content of an annotated tag object.
// Very old tags may lack tagger information, leaving Tagger zero-valued.
type TagData struct {
	Sha1    string    `json:"sha1"`
	TagName string    `json:"tagname"`
	Tagger  Signature `json:"tagger"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
}

// CommitData is structured information about a single commit.
type CommitData struct {
	Sha1      string              `json:"sha1"`
	Subject   string              `json:"subject"`
	Body      string              `json:"body"`
	Author    Signature           `json:"author"`
	Committer Signature           `json:"committer"`
	Files     map[string][]string `json:"files"`
}

// ListTags lists the tags pointing at obj.
func (r *Repository) ListTags(obj string) ([]string, error) {
	result, err := r.runGit("tag", "--points-at", obj)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeNotFound,
			"failed to list tags pointing at %q (%s)", obj, stderrOf(err))
	}
	return splitLines(result.Stdout), nil
}

// ObjectType returns the type of the object a revision names (commit, tag,
// tree or blob).
func (r *Repository) ObjectType(rev string) (string, error) {
	result, err := r.runGit("cat-file", "-t", rev)
	if err != nil {
		return "", errors.Wrapf(err, errors.CodeNotFound,
			"failed to get object type of %q (%s)", rev, stderrOf(err))
	}
	return firstLine(result.Stdout), nil
}

// TagInfo looks up and parses an annotated tag object.
// Returns a NOT_FOUND platform error when tag is not an annotated tag.
func (r *Repository) TagInfo(tag string) (*TagData, error) {
	sha, err := r.RevParse(tag)
	if err != nil {
		return nil, err
	}

	result, err := r.runGit("cat-file", "tag", tag)
	if err != nil {
		return nil, errors.Newf(errors.CodeNotFound, "%q is not an annotated tag", tag)
	}

	info := parseTagObject(result.Stdout)
	info.Sha1 = sha
	return info, nil
}

var taggerRe = regexp.MustCompile(`^tagger (\S.+) <(\S+)> (.+)$`)

// parseTagObject extracts tag name, tagger, subject and body from the raw
// content of an annotated tag object.
func parseTagObject(raw string) *TagData {
	info := &TagData{}
	// The object content ends in a newline; splitting as-is would leave a
	// trailing empty element that becomes a spurious blank body line.
	lines := strings.Split(strings.TrimSuffix(raw, "\n"), "\n")

	// Header: up to the first blank line.
	num := 0
	for ; num < len(lines); num++ {
		line := lines[num]
		if line == "" {
			break
		}
		if m := taggerRe.FindStringSubmatch(line); m != nil {
			info.Tagger = Signature{Name: m[1], Email: m[2], Date: m[3]}
		}
		if strings.HasPrefix(line, "tag ") {
			info.TagName = strings.SplitN(line, " ", 2)[1]
		}
	}

	// Subject: the paragraph after the header, joined to a single line.
	var subject []string
	num++
	for ; num < len(lines); num++ {
		if lines[num] == "" {
			break
		}
		subject = append(subject, lines[num])
	}
	info.Subject = strings.Join(subject, " ")

	// Body: everything after the subject paragraph's blank line.
	var body strings.Builder
	for num++; num < len(lines); num++ {
		body.WriteString(lines[num])
		body.WriteString("\n")
	}
	info.Body = body.String()

	return info
}

// CommitInfo returns structured information about the commit a revision
// resolves to, including the per-status list of changed files.
func (r *Repository) CommitInfo(rev string) (*CommitData, error) {
	// ^0 peels tags down to the commit object.
	sha, err := r.RevParse(rev + "^0")
	if err != nil {
		return nil, err
	}

	format := "%H%x00%an%x00%ae%x00%ad%x00%cn%x00%ce%x00%cd%x00%s%x00%b"
	result, err := r.runGit("log", "-1", "--format="+format, "--date=raw", sha)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeNotFound,
			"failed to read commit %s (%s)", sha, stderrOf(err))
	}

	fields := strings.SplitN(result.Stdout, "\x00", 9)
	if len(fields) < 9 {
		return nil, errors.Newf(errors.CodeNotFound,
			"unexpected git log output for %s", sha)
	}

	info := &CommitData{
		Sha1:      fields[0],
		Author:    Signature{Name: fields[1], Email: fields[2], Date: fields[3]},
		Committer: Signature{Name: fields[4], Email: fields[5], Date: fields[6]},
		Subject:   fields[7],
		Body:      strings.TrimRight(fields[8], "\n"),
		Files:     make(map[string][]string),
	}

	diff, err := r.runGit("diff-tree", "--no-commit-id", "--name-status", "-r", "--root", sha)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeNotFound,
			"failed to list files of commit %s (%s)", sha, stderrOf(err))
	}
	for _, line := range splitLines(diff.Stdout) {
		status, file, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		info.Files[status] = append(info.Files[status], file)
	}

	return info, nil
}

// splitLines splits command output into non-empty trimmed lines.
func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
