package wikipedia

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Reference is a link to an article in a reading list
type Reference struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ResearchFile is a Markdown file which reading lists are appended to
type ResearchFile struct {
	sync.Mutex
	path string
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewResearchFile returns a research file at path. The file and its parent
// directory are created when the first reading list is written.
func NewResearchFile(path string) *ResearchFile {
	return &ResearchFile{path: path}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Path returns the path to the file
func (r *ResearchFile) Path() string {
	return r.path
}

// Append adds a section for the topic listing the references
func (r *ResearchFile) Append(topic string, refs []Reference) error {
	r.Lock()
	defer r.Unlock()

	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteReadingList(f, topic, refs)
}

// WriteReadingList writes a Markdown section for the topic
func WriteReadingList(w io.Writer, topic string, refs []Reference) error {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n", topic)
	for _, ref := range refs {
		fmt.Fprintf(&b, "* [%s](%s) \n", ref.Title, ref.URL)
	}
	b.WriteString("\n\n")
	_, err := io.WriteString(w, b.String())
	return err
}
